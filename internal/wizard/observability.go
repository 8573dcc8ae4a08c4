package wizard

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// TransitionEvent captures one controller intent and its outcome.
type TransitionEvent struct {
	Intent   string
	Outcome  Outcome
	From     int
	To       int
	Duration time.Duration
	Err      error
	Fields   map[string]any
}

// TransitionObserver receives controller transitions.
type TransitionObserver interface {
	ObserveTransition(ctx context.Context, event TransitionEvent)
}

// NoopTransitionObserver ignores all events.
type NoopTransitionObserver struct{}

func (NoopTransitionObserver) ObserveTransition(context.Context, TransitionEvent) {}

type logTransitionObserver struct {
	logger *slog.Logger
}

// NewLogTransitionObserver logs transitions through logger.
func NewLogTransitionObserver(logger *slog.Logger) TransitionObserver {
	if logger == nil {
		return NoopTransitionObserver{}
	}
	return &logTransitionObserver{logger: logger}
}

// NewWriterTransitionObserver writes transitions as text to w.
func NewWriterTransitionObserver(w io.Writer) TransitionObserver {
	if w == nil {
		return NoopTransitionObserver{}
	}
	return NewLogTransitionObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

func (o *logTransitionObserver) ObserveTransition(ctx context.Context, event TransitionEvent) {
	attrs := make([]any, 0, 10+len(event.Fields)*2)
	attrs = append(attrs,
		"intent", event.Intent,
		"outcome", event.Outcome.String(),
		"from_step", event.From,
		"to_step", event.To,
	)
	if event.Duration > 0 {
		attrs = append(attrs, "duration_ms", event.Duration.Milliseconds())
	}
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil && event.Outcome == OutcomeFailed {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "wizard_transition", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "wizard_transition", attrs...)
}
