package cli

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/prescreen/internal/analysis"
	"github.com/alexanderramin/prescreen/internal/catalog"
	"github.com/alexanderramin/prescreen/internal/cli/formatter"
	"github.com/alexanderramin/prescreen/internal/domain"
	"github.com/alexanderramin/prescreen/internal/wizard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// toastTTL is how long a submission failure stays on screen.
const toastTTL = 4 * time.Second

// submitDoneMsg carries the result of the terminal Next call.
type submitDoneMsg struct {
	outcome wizard.Outcome
	err     error
}

// toastExpiredMsg clears the toast if no newer toast replaced it.
type toastExpiredMsg struct {
	seq int
}

// wizardModel is the bubbletea Model for the interactive questionnaire.
// The controller owns all answers and step state; the model only renders
// it and turns key presses into controller calls.
type wizardModel struct {
	ctx     context.Context
	ctrl    *wizard.Controller
	catalog *catalog.Catalog

	step    *stepForm
	spinner spinner.Model

	// submitting mirrors the controller while the submit Cmd is running.
	submitting bool

	toast    string
	toastSeq int

	width    int
	height   int
	quitting bool
}

func newWizardModel(ctx context.Context, ctrl *wizard.Controller, cat *catalog.Catalog) wizardModel {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(formatter.ColorHeader)),
	)
	snap := ctrl.Snapshot()
	return wizardModel{
		ctx:     ctx,
		ctrl:    ctrl,
		catalog: cat,
		step:    newStepForm(snap.Descriptor, snap.Fields, cat, 0),
		spinner: sp,
	}
}

// rebuildForm replaces the huh form with one for the controller's
// current step and returns its Init Cmd.
func (m *wizardModel) rebuildForm() tea.Cmd {
	snap := m.ctrl.Snapshot()
	m.step = newStepForm(snap.Descriptor, snap.Fields, m.catalog, m.width)
	return m.step.form.Init()
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m wizardModel) Init() tea.Cmd {
	return m.step.form.Init()
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.forward(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil
	}

	return m.forward(msg)
}

func (m wizardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Keys are ignored while a submission is in flight.
	if m.submitting {
		return m, nil
	}

	if m.ctrl.Snapshot().Submitted {
		switch msg.String() {
		case "r":
			m.ctrl.Reset()
			m.toast = ""
			return m, m.rebuildForm()
		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if msg.Type == tea.KeyEsc {
		m.saveAnswers()
		if m.ctrl.Back() {
			return m, m.rebuildForm()
		}
		return m, nil
	}

	return m.forward(msg)
}

// handleMouse toggles the body region under a left click on the diagram.
func (m wizardModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.submitting || m.step == nil || m.step.regions == nil {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	snap := m.ctrl.Snapshot()
	p, ok := formatter.BodyMapPoint(msg.Y-m.bodyMapTop(snap), msg.X)
	if !ok {
		return m, nil
	}
	region, ok := m.catalog.HitTest(p.X, p.Y)
	if !ok {
		return m, nil
	}

	m.saveAnswers()
	ids, _ := m.ctrl.Snapshot().Fields[domain.FieldPainAreas].AsRegions()
	if i := slices.Index(ids, region.ID); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	} else {
		ids = append(ids, region.ID)
	}
	_ = m.ctrl.EditField(domain.FieldMap{domain.FieldPainAreas: domain.Regions(ids...)})
	return m, m.rebuildForm()
}

// forward passes msg to the active form and advances the wizard when
// the form completes.
func (m wizardModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.step == nil || m.submitting || m.ctrl.Snapshot().Submitted {
		return m, nil
	}

	form, cmd := m.step.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.step.form = f
	}

	if m.step.form.State != huh.StateCompleted {
		return m, cmd
	}
	return m.advance()
}

// advance stores the completed form's answers and moves the controller
// forward. The terminal step submits asynchronously.
func (m wizardModel) advance() (tea.Model, tea.Cmd) {
	m.saveAnswers()

	snap := m.ctrl.Snapshot()
	if snap.Descriptor.Terminal && snap.Descriptor.Check(snap.Fields).OK() {
		m.submitting = true
		m.toast = ""
		return m, tea.Batch(m.spinner.Tick, m.submitCmd())
	}

	// Blocked and Advanced both rebuild: the form re-opens on the same
	// step with inline errors, or on the next step. A blocked terminal
	// step never reaches the analyzer.
	_, _ = m.ctrl.Next(m.ctx)
	return m, m.rebuildForm()
}

func (m *wizardModel) saveAnswers() {
	if m.step == nil {
		return
	}
	_ = m.ctrl.EditField(m.step.collect())
}

func (m wizardModel) submitCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		outcome, err := ctrl.Next(ctx)
		return submitDoneMsg{outcome: outcome, err: err}
	}
}

func (m wizardModel) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.submitting = false

	switch msg.outcome {
	case wizard.OutcomeSubmitted:
		return m, nil
	case wizard.OutcomeFailed:
		m.toast = failureMessage(msg.err)
		m.toastSeq++
		seq := m.toastSeq
		return m, tea.Batch(m.rebuildForm(), tea.Tick(toastTTL, func(time.Time) tea.Msg {
			return toastExpiredMsg{seq: seq}
		}))
	default:
		return m, m.rebuildForm()
	}
}

// failureMessage is the retry text shown for a failed submission.
// Details stay in the log.
func failureMessage(err error) string {
	if ae, ok := analysis.AsError(err); ok {
		return ae.UserMessage()
	}
	return analysis.UserMessage
}

func (m wizardModel) View() string {
	if m.quitting {
		return ""
	}

	snap := m.ctrl.Snapshot()
	var sections []string

	sections = append(sections, m.renderHeader())

	switch {
	case snap.Submitted && snap.Result != nil:
		sections = append(sections, m.renderResult(*snap.Result))
	case m.submitting:
		sections = append(sections, m.renderProgress(snap))
		sections = append(sections, "\n  "+m.spinner.View()+" "+formatter.Dim("Analyzing..."))
	default:
		sections = append(sections, m.renderProgress(snap))
		if len(snap.Errors) > 0 {
			sections = append(sections, formatter.InlineErrors(snap.Errors))
		}
		if body := m.renderBodyMap(); body != "" {
			sections = append(sections, body)
		}
		sections = append(sections, m.step.form.View())
	}

	if m.toast != "" {
		sections = append(sections, formatter.StyleRed.Render("✖ "+m.toast))
	}

	sections = append(sections, m.renderStatusBar(snap))

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.height {
			result += strings.Repeat("\n", m.height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m wizardModel) renderHeader() string {
	title := formatter.StylePurple.Render("prescreen")
	sep := formatter.Dim(strings.Repeat("─", max(min(m.width, maxFormWidth), 20)))
	return title + " " + formatter.Dim("› symptom pre-screening") + "\n" + sep
}

func (m wizardModel) renderProgress(snap wizard.State) string {
	return formatter.Bold(snap.Descriptor.Title) + "\n" +
		formatter.RenderStepProgress(snap.Step, snap.Steps, 30) + "\n"
}

// bodyMapTop is the screen row of the first body map line. It must
// follow the section order in View.
func (m wizardModel) bodyMapTop(snap wizard.State) int {
	sections := []string{m.renderHeader(), m.renderProgress(snap)}
	if len(snap.Errors) > 0 {
		sections = append(sections, formatter.InlineErrors(snap.Errors))
	}
	return strings.Count(strings.Join(sections, "\n"), "\n") + 1
}

func (m wizardModel) renderBodyMap() string {
	selected, hovered := m.step.selectedRegions()
	if selected == nil {
		return ""
	}
	regions := m.catalog.All()
	return formatter.RenderBodyMap(regions, selected, hovered) + "\n" +
		formatter.RenderBodyLegend(regions, selected) + "\n"
}

func (m wizardModel) renderResult(r domain.AnalysisResult) string {
	width := maxFormWidth
	if m.width > 0 {
		width = min(m.width-4, maxFormWidth)
	}
	return formatter.FormatResult(r, width)
}

func (m wizardModel) renderStatusBar(snap wizard.State) string {
	var hints []string
	switch {
	case snap.Submitted:
		hints = []string{"r: start new assessment", "q: quit"}
	case m.submitting:
		hints = []string{"ctrl+c: quit"}
	default:
		if snap.Step > 0 {
			hints = append(hints, "esc: back")
		}
		if snap.Descriptor.Terminal {
			hints = append(hints, "enter: submit")
		} else {
			hints = append(hints, "enter: next")
		}
		if snap.Descriptor.Owns(domain.FieldPainAreas) {
			hints = append(hints, "space: toggle")
		}
		hints = append(hints, "ctrl+c: quit")
	}
	return formatter.Dim(strings.Join(hints, "  "))
}
