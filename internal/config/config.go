package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/prescreen/internal/llm"
	"github.com/alexanderramin/prescreen/internal/wizard"
)

// HomeDirName is the per-user directory holding config and logs.
const HomeDirName = ".prescreen"

// AnalysisConfig locates the analysis collaborator.
type AnalysisConfig struct {
	Endpoint  string `yaml:"endpoint"`
	APIKey    string `yaml:"api_key"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Timeout returns the request timeout as a duration.
func (a AnalysisConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutMs) * time.Millisecond
}

// LLMSection configures the model behind the local collaborator.
type LLMSection struct {
	Provider    string  `yaml:"provider"`
	Endpoint    string  `yaml:"endpoint"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	TimeoutMs   int     `yaml:"timeout_ms"`
	MaxRetries  int     `yaml:"max_retries"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// ServeConfig configures the collaborator's HTTP listener.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// Config holds every runtime setting.
type Config struct {
	// Flow selects the question sequence (standard or quick).
	Flow string `yaml:"flow"`

	// RegionsFile overrides the embedded body-region catalog.
	RegionsFile string `yaml:"regions_file"`

	Analysis AnalysisConfig `yaml:"analysis"`
	LLM      LLMSection     `yaml:"llm"`
	Serve    ServeConfig    `yaml:"serve"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogCalls enables logging in the interactive wizard.
	LogCalls bool `yaml:"log_calls"`

	// LogFile receives wizard logs when LogCalls is set.
	LogFile string `yaml:"log_file"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	l := llm.DefaultConfig()
	assess := l.Tasks[llm.TaskAssess]
	return &Config{
		Flow: wizard.FlowStandard,
		Analysis: AnalysisConfig{
			Endpoint:  "http://localhost:8787/analyze-symptoms",
			TimeoutMs: 30000,
		},
		LLM: LLMSection{
			Provider:    string(l.Provider),
			Model:       l.Model,
			TimeoutMs:   l.TimeoutMs,
			MaxRetries:  l.MaxRetries,
			Temperature: assess.Temperature,
			MaxTokens:   assess.MaxTokens,
		},
		Serve:    ServeConfig{Addr: ":8787"},
		LogLevel: "info",
	}
}

// HomeDir returns ~/.prescreen, or .prescreen in the working directory
// when the user home cannot be resolved.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return HomeDirName
	}
	return filepath.Join(home, HomeDirName)
}

// DefaultPath returns the config file read when --config is not given.
func DefaultPath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// Options controls where Load looks for its inputs.
type Options struct {
	// Path is an explicit config file. A missing explicit file is an error.
	Path string

	// EnvFile is loaded with godotenv before reading the environment.
	// Empty means ".env" in the working directory, which may be absent.
	EnvFile string

	// Flags overlays changed flags last. May be nil.
	Flags *pflag.FlagSet
}

// Load builds a Config from defaults, the YAML file, .env, the environment
// and changed flags, in that order.
func Load(opts Options) (*Config, error) {
	cfg := DefaultConfig()

	path, explicit := opts.Path, opts.Path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := cfg.mergeFile(path, explicit); err != nil {
		return nil, err
	}

	if err := loadDotEnv(opts.EnvFile); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if opts.Flags != nil {
		if err := cfg.ApplyFlags(opts.Flags); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return c.mergeYAML(data)
}

func (c *Config) mergeYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PRESCREEN_FLOW"); v != "" {
		c.Flow = v
	}
	if v := os.Getenv("PRESCREEN_REGIONS_FILE"); v != "" {
		c.RegionsFile = v
	}
	if v := os.Getenv("PRESCREEN_ANALYSIS_ENDPOINT"); v != "" {
		c.Analysis.Endpoint = v
	}
	if v := os.Getenv("PRESCREEN_ANALYSIS_API_KEY"); v != "" {
		c.Analysis.APIKey = v
	}
	if v := os.Getenv("PRESCREEN_ANALYSIS_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Analysis.TimeoutMs = n
		}
	}
	if v := os.Getenv("PRESCREEN_SERVE_ADDR"); v != "" {
		c.Serve.Addr = v
	}
	if v := os.Getenv("PRESCREEN_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PRESCREEN_LOG_FILE"); v != "" {
		c.LogFile = v
	}

	l := c.LLMConfig()
	llm.ApplyEnv(&l)
	c.setLLM(l)
}

// ApplyFlags overlays flags the user actually set.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var errs []error
	str := func(name string, dst *string) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	num := func(name string, dst *int) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			n, err := strconv.Atoi(f.Value.String())
			if err != nil {
				errs = append(errs, fmt.Errorf("--%s: %w", name, err))
				return
			}
			*dst = n
		}
	}

	str("flow", &c.Flow)
	str("regions", &c.RegionsFile)
	str("endpoint", &c.Analysis.Endpoint)
	str("api-key", &c.Analysis.APIKey)
	num("timeout-ms", &c.Analysis.TimeoutMs)
	str("addr", &c.Serve.Addr)
	str("provider", &c.LLM.Provider)
	str("model", &c.LLM.Model)
	str("log-level", &c.LogLevel)
	str("log-file", &c.LogFile)
	if f := fs.Lookup("log-calls"); f != nil && f.Changed {
		b, err := strconv.ParseBool(f.Value.String())
		if err != nil {
			errs = append(errs, fmt.Errorf("--log-calls: %w", err))
		} else {
			c.LogCalls = b
		}
	}
	return errors.Join(errs...)
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	var errs []error
	if _, err := wizard.FlowByName(c.Flow); err != nil {
		errs = append(errs, err)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Analysis.TimeoutMs < 0 {
		errs = append(errs, fmt.Errorf("analysis.timeout_ms must be >= 0, got %d", c.Analysis.TimeoutMs))
	}
	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderOllama, llm.ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("invalid llm.provider %q, must be one of: ollama, openai", c.LLM.Provider))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature must be within [0,2], got %g", c.LLM.Temperature))
	}
	if c.LLM.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("llm.max_retries must be >= 0, got %d", c.LLM.MaxRetries))
	}
	return errors.Join(errs...)
}

// LLMConfig converts the llm section into the llm package's form.
func (c *Config) LLMConfig() llm.LLMConfig {
	l := llm.LLMConfig{
		Provider:   llm.Provider(c.LLM.Provider),
		LogCalls:   c.LogCalls,
		Endpoint:   c.LLM.Endpoint,
		Model:      c.LLM.Model,
		APIKey:     c.LLM.APIKey,
		TimeoutMs:  c.LLM.TimeoutMs,
		MaxRetries: c.LLM.MaxRetries,
	}
	l.SetTask(llm.TaskAssess, llm.TaskConfig{
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
	})
	return l
}

func (c *Config) setLLM(l llm.LLMConfig) {
	c.LLM.Provider = string(l.Provider)
	c.LLM.Endpoint = l.Endpoint
	c.LLM.Model = l.Model
	c.LLM.APIKey = l.APIKey
	c.LLM.TimeoutMs = l.TimeoutMs
	c.LLM.MaxRetries = l.MaxRetries
	c.LogCalls = l.LogCalls
	tc := l.Tasks[llm.TaskAssess]
	c.LLM.Temperature = tc.Temperature
	c.LLM.MaxTokens = tc.MaxTokens
	if tc.TimeoutMs > 0 {
		c.LLM.TimeoutMs = tc.TimeoutMs
	}
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", s)
	}
	return lvl, nil
}

// LogFilePath returns LogFile, or prescreen.log under the home directory.
func (c *Config) LogFilePath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(HomeDir(), "prescreen.log")
}
