package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/prescreen/internal/llm"
)

// isolate points HOME at an empty directory and runs from another, so no
// real ~/.prescreen/config.yaml or .env leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	for _, k := range []string{
		"OPENAI_API_KEY", "PRESCREEN_FLOW", "PRESCREEN_ANALYSIS_ENDPOINT",
		"PRESCREEN_ANALYSIS_API_KEY", "PRESCREEN_LLM_PROVIDER", "PRESCREEN_LLM_API_KEY",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsWhenNothingPresent(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 30*time.Second, cfg.Analysis.Timeout())
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_ExplicitMissingFileIsAnError(t *testing.T) {
	dir := isolate(t)

	_, err := Load(Options{Path: filepath.Join(dir, "nope.yaml")})

	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_FileMergesOverDefaults(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "config.yaml", `
flow: quick
analysis:
  endpoint: https://example.test/functions/v1/analyze-symptoms
llm:
  provider: ollama
  temperature: 0.3
log_level: debug
`)

	cfg, err := Load(Options{Path: path})

	require.NoError(t, err)
	assert.Equal(t, "quick", cfg.Flow)
	assert.Equal(t, "https://example.test/functions/v1/analyze-symptoms", cfg.Analysis.Endpoint)
	assert.Equal(t, 30000, cfg.Analysis.TimeoutMs)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, 0.3, cfg.LLM.Temperature)
	assert.Equal(t, 2000, cfg.LLM.MaxTokens)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoad_HomeConfigIsRead(t *testing.T) {
	isolate(t)
	home := os.Getenv("HOME")
	require.NoError(t, os.MkdirAll(filepath.Join(home, HomeDirName), 0o755))
	writeFile(t, filepath.Join(home, HomeDirName), "config.yaml", "flow: quick\n")

	cfg, err := Load(Options{})

	require.NoError(t, err)
	assert.Equal(t, "quick", cfg.Flow)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "config.yaml", "flows: quick\n")

	_, err := Load(Options{Path: path})

	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "config.yaml", "analysis:\n  endpoint: http://file\n")
	t.Setenv("PRESCREEN_ANALYSIS_ENDPOINT", "http://env")
	t.Setenv("PRESCREEN_ANALYSIS_TIMEOUT_MS", "5000")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := Load(Options{Path: path})

	require.NoError(t, err)
	assert.Equal(t, "http://env", cfg.Analysis.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Analysis.Timeout())
	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
}

func TestLoad_DotEnvFillsUnsetVariables(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, ".env", "PRESCREEN_ANALYSIS_API_KEY=from-dotenv\nPRESCREEN_FLOW=quick\n")
	os.Unsetenv("PRESCREEN_ANALYSIS_API_KEY")
	os.Unsetenv("PRESCREEN_FLOW")
	t.Cleanup(func() {
		os.Unsetenv("PRESCREEN_ANALYSIS_API_KEY")
		os.Unsetenv("PRESCREEN_FLOW")
	})

	cfg, err := Load(Options{})

	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Analysis.APIKey)
	assert.Equal(t, "quick", cfg.Flow)
}

func TestLoad_ChangedFlagsWin(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "config.yaml", "flow: quick\nserve:\n  addr: \":9000\"\n")
	t.Setenv("PRESCREEN_ANALYSIS_ENDPOINT", "http://env")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("flow", "standard", "")
	fs.String("endpoint", "", "")
	fs.String("addr", ":8787", "")
	fs.Int("timeout-ms", 0, "")
	require.NoError(t, fs.Parse([]string{"--endpoint", "http://flag", "--timeout-ms", "1500"}))

	cfg, err := Load(Options{Path: path, Flags: fs})

	require.NoError(t, err)
	assert.Equal(t, "quick", cfg.Flow, "unchanged flag default must not override the file")
	assert.Equal(t, ":9000", cfg.Serve.Addr)
	assert.Equal(t, "http://flag", cfg.Analysis.Endpoint)
	assert.Equal(t, 1500, cfg.Analysis.TimeoutMs)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown flow", func(c *Config) { c.Flow = "express" }, `unknown flow "express"`},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log_level"},
		{"negative timeout", func(c *Config) { c.Analysis.TimeoutMs = -1 }, "analysis.timeout_ms"},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "bard" }, "invalid llm.provider"},
		{"temperature", func(c *Config) { c.LLM.Temperature = 3 }, "llm.temperature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLLMConfig_RoundTripsSection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Provider = "ollama"
	cfg.LLM.Model = "llama3.2"
	cfg.LLM.MaxTokens = 800

	l := cfg.LLMConfig()

	assert.Equal(t, llm.ProviderOllama, l.Provider)
	assert.Equal(t, "llama3.2", l.Model)
	assert.Equal(t, 800, l.Tasks[llm.TaskAssess].MaxTokens)
	assert.Equal(t, 0.7, l.Tasks[llm.TaskAssess].Temperature)
	assert.Equal(t, 60000, l.TaskTimeout(llm.TaskAssess))
}

func TestLogFilePath(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), HomeDirName, "prescreen.log"), cfg.LogFilePath())

	cfg.LogFile = "/tmp/x.log"
	assert.Equal(t, "/tmp/x.log", cfg.LogFilePath())
}
