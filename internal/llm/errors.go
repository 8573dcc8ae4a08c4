package llm

import "errors"

var (
	// ErrUnavailable indicates the LLM backend is unreachable.
	ErrUnavailable = errors.New("llm backend unavailable")

	// ErrNotConfigured indicates a required credential or endpoint is missing.
	ErrNotConfigured = errors.New("llm backend not configured")

	// ErrUnknownProvider indicates the configured provider is not supported.
	ErrUnknownProvider = errors.New("unknown llm provider")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)
