package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/prescreen/internal/catalog"
	"github.com/alexanderramin/prescreen/internal/teatest"
	"github.com/alexanderramin/prescreen/internal/wizard"
)

// TestDriver wraps teatest.Driver with wizard-specific inspection methods.
// It exposes the controller behind the model so tests can assert on the
// answers and step the user produced by pressing keys.
type TestDriver struct {
	*teatest.Driver
	Ctrl *wizard.Controller
}

// NewTestDriver builds a wizard model for flow backed by analyzer, sets
// the terminal size and drains Init().
func NewTestDriver(t *testing.T, flow *wizard.Flow, analyzer wizard.Analyzer) *TestDriver {
	t.Helper()
	return newTestDriverFor(t, wizard.NewController(flow, analyzer))
}

func newTestDriverFor(t *testing.T, ctrl *wizard.Controller) *TestDriver {
	t.Helper()
	m := newWizardModel(context.Background(), ctrl, catalog.Default())
	d := teatest.New(t, m, teatest.WithSize(100, 60))
	d.DrainInit()
	return &TestDriver{Driver: d, Ctrl: ctrl}
}

// ── High-level helpers ───────────────────────────────────────────────────────

// Step returns the controller's current step index.
func (d *TestDriver) Step() int {
	return d.Ctrl.Snapshot().Step
}

// Plain returns the rendered view with ANSI styling removed.
func (d *TestDriver) Plain() string {
	return stripANSI(d.View())
}

// Toast returns the model's transient failure message.
func (d *TestDriver) Toast() string {
	return d.model().toast
}

// Submitting reports whether the model is waiting on a submission.
func (d *TestDriver) Submitting() bool {
	return d.model().submitting
}

func (d *TestDriver) model() wizardModel {
	return d.Model.(wizardModel)
}

// CompleteQuickFlow answers every quick-flow step, accepting the first
// option of each select.
func (d *TestDriver) CompleteQuickFlow(name, age, info string) {
	d.T.Helper()
	d.Answer(name)
	d.Answer(age)
	d.PressEnter() // main symptom
	d.PressEnter() // duration
	d.Answer(info)
}
