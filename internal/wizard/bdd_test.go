package wizard_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/alexanderramin/prescreen/internal/analysis"
	"github.com/alexanderramin/prescreen/internal/domain"
	"github.com/alexanderramin/prescreen/internal/wizard"
	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

// scenarioState holds state for a single scenario.
type scenarioState struct {
	flow       *wizard.Flow
	answers    domain.FieldMap
	controller *wizard.Controller
	server     *httptest.Server
	status     int
	body       string
	before     domain.FieldMap
	outcome    wizard.Outcome
	err        error
	errors     domain.ValidationErrors
}

func InitializeScenario(sc *godog.ScenarioContext) {
	s := &scenarioState{}

	sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if s.server != nil {
			s.server.Close()
		}
		return ctx, nil
	})

	sc.Step(`^the standard questionnaire$`, s.theStandardQuestionnaire)
	sc.Step(`^the answers:$`, s.theAnswers)
	sc.Step(`^the analysis service responds with:$`, s.serviceRespondsWith)
	sc.Step(`^the analysis service responds with status (\d+)$`, s.serviceRespondsWithStatus)
	sc.Step(`^I advance to the last step$`, s.iAdvanceToTheLastStep)
	sc.Step(`^I submit$`, s.iSubmit)
	sc.Step(`^I validate step (\d+)$`, s.iValidateStep)
	sc.Step(`^I answer "([^"]*)" with "([^"]*)"$`, s.iAnswer)
	sc.Step(`^the questionnaire is submitted$`, s.theQuestionnaireIsSubmitted)
	sc.Step(`^the assessment has risk "([^"]*)" and urgency (\d+)$`, s.theAssessmentHasRiskAndUrgency)
	sc.Step(`^the assessment lists causes "([^"]*)"$`, s.theAssessmentListsCauses)
	sc.Step(`^the assessment lists actions "([^"]*)"$`, s.theAssessmentListsActions)
	sc.Step(`^the submission fails with an analysis error$`, s.theSubmissionFails)
	sc.Step(`^I am still on step (\d+) of (\d+)$`, s.iAmOnStep)
	sc.Step(`^my answers are unchanged$`, s.myAnswersAreUnchanged)
	sc.Step(`^there is an error for "([^"]*)"$`, s.thereIsAnErrorFor)
	sc.Step(`^there is no error for "([^"]*)"$`, s.thereIsNoErrorFor)
}

func (s *scenarioState) theStandardQuestionnaire() error {
	s.flow = wizard.StandardFlow()
	s.answers = domain.FieldMap{}
	s.status = http.StatusOK
	return nil
}

func (s *scenarioState) theAnswers(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		if len(row.Cells) != 2 {
			return fmt.Errorf("row %d: want field and value", i)
		}
		if err := s.iAnswer(row.Cells[0].Value, row.Cells[1].Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *scenarioState) iAnswer(field, raw string) error {
	f := domain.Field(field)
	if !domain.KnownFields[f] {
		return fmt.Errorf("unknown field %q", field)
	}
	switch {
	case f == domain.FieldAge:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		s.answers[f] = domain.Number(n)
	case f == domain.FieldPainAreas:
		s.answers[f] = domain.Regions(splitList(raw)...)
	case strings.HasPrefix(field, "has"):
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		s.answers[f] = domain.Bool(b)
	default:
		s.answers[f] = domain.String(raw)
	}
	return nil
}

func (s *scenarioState) serviceRespondsWith(doc *godog.DocString) error {
	s.body = doc.Content
	return nil
}

func (s *scenarioState) serviceRespondsWithStatus(status int) error {
	s.status = status
	s.body = `{"error":"upstream failure"}`
	return nil
}

func (s *scenarioState) iAdvanceToTheLastStep() error {
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		fmt.Fprint(w, s.body)
	}))
	client := analysis.NewClient(analysis.Config{Endpoint: s.server.URL})
	s.controller = wizard.NewController(s.flow, client)

	if err := s.controller.EditField(s.answers); err != nil {
		return err
	}
	for i := 0; i < s.flow.Len()-1; i++ {
		out, err := s.controller.Next(context.Background())
		if err != nil {
			return err
		}
		if out != wizard.OutcomeAdvanced {
			return fmt.Errorf("step %d: expected to advance, got %s", i+1, out)
		}
	}
	s.before = s.controller.Snapshot().Fields
	return nil
}

func (s *scenarioState) iSubmit() error {
	s.outcome, s.err = s.controller.Next(context.Background())
	return nil
}

func (s *scenarioState) iValidateStep(step int) error {
	s.errors = s.flow.Validate(step-1, s.answers)
	return nil
}

func (s *scenarioState) theQuestionnaireIsSubmitted() error {
	if s.err != nil {
		return fmt.Errorf("unexpected error: %w", s.err)
	}
	if s.outcome != wizard.OutcomeSubmitted {
		return fmt.Errorf("expected submitted, got %s", s.outcome)
	}
	if !s.controller.Snapshot().Submitted {
		return errors.New("controller is not in the submitted state")
	}
	return nil
}

func (s *scenarioState) result() (*domain.AnalysisResult, error) {
	r := s.controller.Snapshot().Result
	if r == nil {
		return nil, errors.New("no assessment held")
	}
	return r, nil
}

func (s *scenarioState) theAssessmentHasRiskAndUrgency(risk string, urgency int) error {
	r, err := s.result()
	if err != nil {
		return err
	}
	if string(r.Risk) != risk || r.Urgency != urgency {
		return fmt.Errorf("got risk %q urgency %d", r.Risk, r.Urgency)
	}
	return nil
}

func (s *scenarioState) theAssessmentListsCauses(list string) error {
	r, err := s.result()
	if err != nil {
		return err
	}
	return equalLists(splitList(list), r.Causes)
}

func (s *scenarioState) theAssessmentListsActions(list string) error {
	r, err := s.result()
	if err != nil {
		return err
	}
	return equalLists(splitList(list), r.Actions)
}

func (s *scenarioState) theSubmissionFails() error {
	if s.outcome != wizard.OutcomeFailed {
		return fmt.Errorf("expected failed, got %s", s.outcome)
	}
	if _, ok := analysis.AsError(s.err); !ok {
		return fmt.Errorf("expected an analysis error, got %v", s.err)
	}
	snap := s.controller.Snapshot()
	if snap.Submitting || snap.Submitted || snap.Result != nil {
		return errors.New("a failed submission must leave no result")
	}
	return nil
}

func (s *scenarioState) iAmOnStep(step, total int) error {
	snap := s.controller.Snapshot()
	if snap.Step+1 != step || snap.Steps != total {
		return fmt.Errorf("on step %d of %d", snap.Step+1, snap.Steps)
	}
	return nil
}

func (s *scenarioState) myAnswersAreUnchanged() error {
	now := s.controller.Snapshot().Fields
	if len(now) != len(s.before) {
		return fmt.Errorf("answers changed: %d keys, had %d", len(now), len(s.before))
	}
	for k, v := range s.before {
		if !v.Equal(now[k]) {
			return fmt.Errorf("answer %q changed", k)
		}
	}
	return nil
}

func (s *scenarioState) thereIsAnErrorFor(field string) error {
	if _, ok := s.errors[domain.Field(field)]; !ok {
		return fmt.Errorf("expected an error for %q, got %v", field, s.errors)
	}
	return nil
}

func (s *scenarioState) thereIsNoErrorFor(field string) error {
	if msg, ok := s.errors[domain.Field(field)]; ok {
		return fmt.Errorf("unexpected error for %q: %s", field, msg)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func equalLists(want, got []string) error {
	if strings.Join(want, "|") != strings.Join(got, "|") {
		return fmt.Errorf("want %v, got %v", want, got)
	}
	return nil
}
