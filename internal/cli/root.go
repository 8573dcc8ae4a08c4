package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alexanderramin/prescreen/internal/analysis"
	"github.com/alexanderramin/prescreen/internal/assessor"
	"github.com/alexanderramin/prescreen/internal/catalog"
	"github.com/alexanderramin/prescreen/internal/config"
	"github.com/alexanderramin/prescreen/internal/llm"
	"github.com/alexanderramin/prescreen/internal/wizard"
	"github.com/spf13/cobra"
)

// App holds the resolved configuration and collaborators used by CLI
// commands. Fields left nil are built from Config before a command runs.
type App struct {
	Config   *config.Config
	Catalog  *catalog.Catalog
	Flow     *wizard.Flow
	Analyzer wizard.Analyzer

	// Logger overrides the per-command logger.
	Logger *slog.Logger

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool

	local   bool
	logFile *os.File
}

// NewRootCmd creates the top-level "prescreen" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var configPath, envFile string

	root := &cobra.Command{
		Use:   "prescreen",
		Short: "Medical symptom pre-screening questionnaire",
		Long: "prescreen walks through a short symptom questionnaire, sends the answers\n" +
			"to an analysis service and shows a preliminary risk assessment.\n\n" +
			"It is not a diagnosis. Seek medical care for any urgent symptoms.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd, configPath, envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runWizard(cmd, app)
			}
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default ~/.prescreen/config.yaml)")
	pf.StringVar(&envFile, "env-file", "", "Environment file loaded before reading the environment (default .env)")
	pf.String("flow", wizard.FlowStandard, "Question flow: standard or quick")
	pf.String("regions", "", "Body region catalog file (default embedded)")
	pf.String("endpoint", "", "Analysis service URL")
	pf.String("api-key", "", "Analysis service credential")
	pf.Int("timeout-ms", 0, "Analysis request timeout in milliseconds")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-file", "", "Wizard log file (default ~/.prescreen/prescreen.log)")
	pf.Bool("log-calls", false, "Log wizard transitions and analysis calls to the log file")
	pf.BoolVar(&app.local, "local", false, "Analyze in-process with the configured LLM instead of calling the service")

	root.AddCommand(
		newStartCmd(app),
		newSubmitCmd(app),
		newValidateCmd(app),
		newRegionsCmd(app),
		newServeCmd(app),
	)

	return root
}

// setup resolves configuration and the catalog and flow it selects.
func (a *App) setup(cmd *cobra.Command, configPath, envFile string) error {
	if a.Config == nil {
		cfg, err := config.Load(config.Options{
			Path:    configPath,
			EnvFile: envFile,
			Flags:   cmd.Flags(),
		})
		if err != nil {
			return err
		}
		a.Config = cfg
	}

	if a.Catalog == nil {
		if a.Config.RegionsFile == "" {
			a.Catalog = catalog.Default()
		} else {
			cat, err := catalog.LoadFile(a.Config.RegionsFile)
			if err != nil {
				return err
			}
			a.Catalog = cat
		}
	}

	if a.Flow == nil {
		flow, err := wizard.FlowByName(a.Config.Flow)
		if err != nil {
			return err
		}
		a.Flow = flow
	}
	return nil
}

func (a *App) close() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

// commandLogger logs to w at the configured level.
func (a *App) commandLogger(w io.Writer) *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: a.Config.Level()}))
}

// wizardLogger keeps the alt-screen clean: logs go to the log file when
// log_calls is set and are discarded otherwise.
func (a *App) wizardLogger() (*slog.Logger, error) {
	if a.Logger != nil {
		return a.Logger, nil
	}
	if !a.Config.LogCalls {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil
	}
	path := a.Config.LogFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	a.logFile = f
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: a.Config.Level()})), nil
}

// analyzer returns the injected Analyzer, the in-process assessor when
// --local is set, or an HTTP client for the configured endpoint.
func (a *App) analyzer(logger *slog.Logger) (wizard.Analyzer, error) {
	if a.Analyzer != nil {
		return a.Analyzer, nil
	}
	if a.local {
		client, err := llm.New(a.Config.LLMConfig(), llm.NewLogObserver(logger))
		if err != nil {
			return nil, err
		}
		return assessor.NewService(client, logger), nil
	}
	return analysis.NewClient(analysis.Config{
		Endpoint: a.Config.Analysis.Endpoint,
		APIKey:   a.Config.Analysis.APIKey,
		Timeout:  a.Config.Analysis.Timeout(),
	}, analysis.WithObserver(analysis.NewLogObserver(logger))), nil
}

// newController wires a controller for the configured flow.
func (a *App) newController(logger *slog.Logger) (*wizard.Controller, error) {
	an, err := a.analyzer(logger)
	if err != nil {
		return nil, err
	}
	return wizard.NewController(a.Flow, an, wizard.WithObserver(wizard.NewLogTransitionObserver(logger))), nil
}
