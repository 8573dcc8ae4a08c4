package analysis

import (
	"log/slog"
)

// CallEvent records metadata about a single analysis request.
type CallEvent struct {
	RequestID string
	Endpoint  string
	LatencyMs int64
	Status    int
	Success   bool
	ErrorCode Kind
}

// Observer receives events about analysis calls.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events through a slog logger.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"request_id", event.RequestID,
		"endpoint", event.Endpoint,
		"latency_ms", event.LatencyMs,
		"status", event.Status,
	}
	if !event.Success {
		o.logger.Error("analysis_call", append(attrs, "error_code", string(event.ErrorCode))...)
		return
	}
	o.logger.Info("analysis_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
