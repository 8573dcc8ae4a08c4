package cli

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/prescreen/internal/assessor"
	"github.com/alexanderramin/prescreen/internal/llm"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the symptom analysis service",
		Long: "serve answers POST " + assessor.AnalyzePath + " by prompting the configured\n" +
			"LLM backend and returning a validated assessment.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.commandLogger(cmd.ErrOrStderr())

			if app.Config.Level() > slog.LevelDebug {
				gin.SetMode(gin.ReleaseMode)
			}

			client, err := llm.New(app.Config.LLMConfig(), llm.NewLogObserver(logger))
			if err != nil {
				return err
			}
			if !client.Available(cmd.Context()) {
				logger.Warn("llm backend not available", "provider", app.Config.LLM.Provider)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			router := assessor.NewRouter(assessor.NewService(client, logger), logger)
			return assessor.Serve(ctx, app.Config.Serve.Addr, router, logger)
		},
	}

	cmd.Flags().String("addr", ":8787", "Listen address")
	cmd.Flags().String("provider", "", "LLM provider: openai or ollama")
	cmd.Flags().String("model", "", "LLM model name")

	return cmd
}
