package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/prescreen/internal/domain"
	"github.com/alexanderramin/prescreen/internal/form"
)

var (
	// ErrBusy is returned when an edit arrives while a submission is in flight.
	ErrBusy = errors.New("submission in progress")
	// ErrUnknownField is returned when an edit names a field the flow does not collect.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidResult is returned when the analyzer reports success with a malformed result.
	ErrInvalidResult = errors.New("analyzer returned an invalid result")
)

// Analyzer produces an assessment from the collected answers.
type Analyzer interface {
	Analyze(ctx context.Context, fields domain.FieldMap) (domain.AnalysisResult, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, fields domain.FieldMap) (domain.AnalysisResult, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, fields domain.FieldMap) (domain.AnalysisResult, error) {
	return f(ctx, fields)
}

type phase int

const (
	phaseEditing phase = iota
	phaseSubmitting
	phaseSubmitted
)

// Outcome reports what a Next call did.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeBlocked
	OutcomeAdvanced
	OutcomeSubmitted
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBlocked:
		return "blocked"
	case OutcomeAdvanced:
		return "advanced"
	case OutcomeSubmitted:
		return "submitted"
	case OutcomeFailed:
		return "failed"
	default:
		return "ignored"
	}
}

// State is a read-only view of the controller for rendering.
type State struct {
	Step       int
	Steps      int
	Descriptor StepDescriptor
	Fields     domain.FieldMap
	Errors     domain.ValidationErrors
	Submitting bool
	Submitted  bool
	Result     *domain.AnalysisResult
	LastError  error
}

// Controller owns the step index, the displayed errors and the submission
// lifecycle. At most one submission is in flight at a time.
type Controller struct {
	flow     *Flow
	store    *form.Store
	analyzer Analyzer
	observer TransitionObserver

	mu         sync.Mutex
	phase      phase
	errors     domain.ValidationErrors
	result     *domain.AnalysisResult
	lastErr    error
	generation uint64
}

// Option configures a Controller.
type Option func(*Controller)

func WithObserver(o TransitionObserver) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithStore shares an existing store instead of creating one.
func WithStore(s *form.Store) Option {
	return func(c *Controller) {
		if s != nil {
			c.store = s
		}
	}
}

func NewController(flow *Flow, analyzer Analyzer, opts ...Option) *Controller {
	c := &Controller{
		flow:     flow,
		store:    form.NewStore(),
		analyzer: analyzer,
		observer: NoopTransitionObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Flow() *Flow { return c.flow }

// Next validates the current step and either advances or, on the terminal
// step, submits the answers. Blocked steps return the validation errors.
func (c *Controller) Next(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	step := c.store.Step()
	if c.phase != phaseEditing {
		c.mu.Unlock()
		c.observe(ctx, TransitionEvent{Intent: "next", Outcome: OutcomeIgnored, From: step, To: step})
		return OutcomeIgnored, nil
	}

	fields := c.store.Get()
	if errs := c.flow.Validate(step, fields); !errs.OK() {
		c.errors = errs
		c.mu.Unlock()
		c.observe(ctx, TransitionEvent{
			Intent: "next", Outcome: OutcomeBlocked, From: step, To: step,
			Fields: map[string]any{"invalid_fields": joinFields(errs.Fields())},
		})
		return OutcomeBlocked, errs
	}

	desc, _ := c.flow.Step(step)
	if !desc.Terminal {
		c.store.SetStep(step + 1)
		c.errors = nil
		c.mu.Unlock()
		c.observe(ctx, TransitionEvent{Intent: "next", Outcome: OutcomeAdvanced, From: step, To: step + 1})
		return OutcomeAdvanced, nil
	}

	c.phase = phaseSubmitting
	c.errors = nil
	c.lastErr = nil
	gen := c.generation
	c.mu.Unlock()

	start := time.Now()
	result, err := c.analyzer.Analyze(ctx, fields)
	if err == nil {
		if verr := result.Validate(); verr != nil {
			err = fmt.Errorf("%w: %w", ErrInvalidResult, verr)
		}
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.observe(ctx, TransitionEvent{
			Intent: "submit", Outcome: OutcomeIgnored, From: step, To: 0,
			Duration: time.Since(start), Fields: map[string]any{"discarded": true},
		})
		return OutcomeIgnored, nil
	}
	if err != nil {
		c.phase = phaseEditing
		c.lastErr = err
		c.mu.Unlock()
		c.observe(ctx, TransitionEvent{
			Intent: "submit", Outcome: OutcomeFailed, From: step, To: step,
			Duration: time.Since(start), Err: err,
		})
		return OutcomeFailed, err
	}
	c.phase = phaseSubmitted
	c.result = &result
	c.mu.Unlock()
	c.observe(ctx, TransitionEvent{
		Intent: "submit", Outcome: OutcomeSubmitted, From: step, To: step,
		Duration: time.Since(start),
		Fields:   map[string]any{"risk_level": string(result.Risk), "urgency": result.Urgency},
	})
	return OutcomeSubmitted, nil
}

// Back moves to the previous step without validating. It reports false at
// the first step and while a submission is in flight or complete.
func (c *Controller) Back() bool {
	c.mu.Lock()
	step := c.store.Step()
	if c.phase != phaseEditing || step == 0 {
		c.mu.Unlock()
		return false
	}
	c.store.SetStep(step - 1)
	c.errors = nil
	c.mu.Unlock()
	c.observe(context.Background(), TransitionEvent{Intent: "back", Outcome: OutcomeAdvanced, From: step, To: step - 1})
	return true
}

// EditField merges partial into the answers and clears the displayed
// errors. It does not re-validate.
func (c *Controller) EditField(partial domain.FieldMap) error {
	if unknown := partial.Unknown(c.flow.Fields()); len(unknown) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownField, joinFields(unknown))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == phaseSubmitting {
		return ErrBusy
	}
	c.store.Merge(partial)
	c.errors = nil
	return nil
}

// Reset returns to the first step with no answers, errors or result. A
// submission still in flight is discarded when it resolves.
func (c *Controller) Reset() {
	c.mu.Lock()
	from := c.store.Step()
	c.store.Reset()
	c.phase = phaseEditing
	c.errors = nil
	c.result = nil
	c.lastErr = nil
	c.generation++
	c.mu.Unlock()
	c.observe(context.Background(), TransitionEvent{Intent: "reset", Outcome: OutcomeAdvanced, From: from, To: 0})
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	step := c.store.Step()
	desc, _ := c.flow.Step(step)
	s := State{
		Step:       step,
		Steps:      c.flow.Len(),
		Descriptor: desc,
		Fields:     c.store.Get(),
		Errors:     c.errors.Clone(),
		Submitting: c.phase == phaseSubmitting,
		Submitted:  c.phase == phaseSubmitted,
		LastError:  c.lastErr,
	}
	if c.result != nil {
		r := *c.result
		r.Causes = slices.Clone(r.Causes)
		r.Actions = slices.Clone(r.Actions)
		s.Result = &r
	}
	return s
}

func (c *Controller) observe(ctx context.Context, event TransitionEvent) {
	c.observer.ObserveTransition(ctx, event)
}

func joinFields(fields []domain.Field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}
