package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskAssess TaskType = "assess"
)

// Provider names a supported LLM backend.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider   Provider
	LogCalls   bool
	Endpoint   string
	Model      string
	APIKey     string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultOllamaEndpoint is used when the ollama provider has no endpoint.
const DefaultOllamaEndpoint = "http://localhost:11434"

// DefaultConfig returns an LLMConfig targeting OpenAI chat completions.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:   ProviderOpenAI,
		Model:      "gpt-4o",
		TimeoutMs:  60000,
		MaxRetries: 0,
		Tasks: map[TaskType]TaskConfig{
			TaskAssess: {Temperature: 0.7, MaxTokens: 2000},
		},
	}
}

// ApplyEnv overlays environment variables onto cfg.
func ApplyEnv(cfg *LLMConfig) {
	if v := os.Getenv("PRESCREEN_LLM_PROVIDER"); v != "" {
		cfg.Provider = Provider(v)
	}
	if v := os.Getenv("PRESCREEN_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("PRESCREEN_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("PRESCREEN_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("PRESCREEN_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("PRESCREEN_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("PRESCREEN_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("PRESCREEN_LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 2 {
			tc := cfg.task(TaskAssess)
			tc.Temperature = f
			cfg.Tasks[TaskAssess] = tc
		}
	}
	if v := os.Getenv("PRESCREEN_LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			tc := cfg.task(TaskAssess)
			tc.MaxTokens = n
			cfg.Tasks[TaskAssess] = tc
		}
	}

	applyTaskTimeoutEnv(cfg, TaskAssess, "PRESCREEN_LLM_ASSESS_TIMEOUT_MS")
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// SetTask replaces the parameters for task.
func (c *LLMConfig) SetTask(task TaskType, tc TaskConfig) {
	if c.Tasks == nil {
		c.Tasks = map[TaskType]TaskConfig{}
	}
	c.Tasks[task] = tc
}

func (c *LLMConfig) task(task TaskType) TaskConfig {
	if c.Tasks == nil {
		c.Tasks = map[TaskType]TaskConfig{}
	}
	return c.Tasks[task]
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.task(task)
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
