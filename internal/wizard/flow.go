// Package wizard drives the questionnaire: ordered steps, per-step
// validation and the submission state machine.
package wizard

import (
	"fmt"
	"slices"

	"github.com/alexanderramin/prescreen/internal/domain"
)

// Flow names selectable through configuration.
const (
	FlowStandard = "standard"
	FlowQuick    = "quick"
)

// StepDescriptor describes one screen of the questionnaire.
type StepDescriptor struct {
	Index    int
	Key      string
	Title    string
	Fields   []domain.Field
	Terminal bool
	check    func(domain.FieldMap) domain.ValidationErrors
}

// Check returns the errors that block this step from advancing.
func (d StepDescriptor) Check(fields domain.FieldMap) domain.ValidationErrors {
	if d.check == nil {
		return nil
	}
	return d.check(fields)
}

// Owns reports whether the step may write f.
func (d StepDescriptor) Owns(f domain.Field) bool {
	return slices.Contains(d.Fields, f)
}

// Flow is a fixed, ordered list of steps.
type Flow struct {
	name    string
	steps   []StepDescriptor
	allowed map[domain.Field]bool
}

func newFlow(name string, steps []StepDescriptor) *Flow {
	f := &Flow{name: name, steps: steps, allowed: map[domain.Field]bool{}}
	for i := range f.steps {
		f.steps[i].Index = i
		f.steps[i].Terminal = i == len(steps)-1
		for _, field := range f.steps[i].Fields {
			f.allowed[field] = true
		}
	}
	return f
}

func (f *Flow) Name() string { return f.name }
func (f *Flow) Len() int     { return len(f.steps) }

// Step returns the descriptor at index i.
func (f *Flow) Step(i int) (StepDescriptor, bool) {
	if i < 0 || i >= len(f.steps) {
		return StepDescriptor{}, false
	}
	return f.steps[i], true
}

// Steps returns every descriptor in order.
func (f *Flow) Steps() []StepDescriptor {
	return slices.Clone(f.steps)
}

// Fields returns the closed set of fields the flow writes.
func (f *Flow) Fields() map[domain.Field]bool {
	out := make(map[domain.Field]bool, len(f.allowed))
	for k := range f.allowed {
		out[k] = true
	}
	return out
}

// Validate checks the required fields of step. An out-of-range step has no
// requirements.
func (f *Flow) Validate(step int, fields domain.FieldMap) domain.ValidationErrors {
	d, ok := f.Step(step)
	if !ok {
		return nil
	}
	return d.Check(fields)
}

// StandardFlow is the five-step questionnaire.
func StandardFlow() *Flow {
	return newFlow(FlowStandard, []StepDescriptor{
		{
			Key:   "demographics",
			Title: "About you",
			Fields: []domain.Field{
				domain.FieldName, domain.FieldAge, domain.FieldGender,
				domain.FieldHasMedicalConditions, domain.FieldMedicalConditionsDetails,
			},
			check: checkDemographics,
		},
		{
			Key:    "painLocation",
			Title:  "Where does it hurt?",
			Fields: []domain.Field{domain.FieldPainAreas},
			check:  checkPainLocation,
		},
		{
			Key:    "symptomDetails",
			Title:  "Symptom details",
			Fields: []domain.Field{domain.FieldPainIntensity, domain.FieldSymptomDuration},
			check:  checkSymptomDetails,
		},
		{
			Key:    "redFlags",
			Title:  "Warning signs",
			Fields: []domain.Field{domain.FieldHasNumbness, domain.FieldHasChestPain},
			check:  checkRedFlags,
		},
		{
			Key:    "additionalInfo",
			Title:  "Anything else?",
			Fields: []domain.Field{domain.FieldAdditionalInfo},
			check:  checkAdditionalInfo,
		},
	})
}

// QuickFlow is the shorter four-step questionnaire built around a single
// main symptom.
func QuickFlow() *Flow {
	return newFlow(FlowQuick, []StepDescriptor{
		{
			Key:    "basicInfo",
			Title:  "About you",
			Fields: []domain.Field{domain.FieldName, domain.FieldAge},
			check:  checkBasicInfo,
		},
		{
			Key:    "mainSymptom",
			Title:  "Main symptom",
			Fields: []domain.Field{domain.FieldMainSymptom},
			check:  checkMainSymptom,
		},
		{
			Key:    "symptomDuration",
			Title:  "Duration",
			Fields: []domain.Field{domain.FieldSymptomDuration},
			check:  checkDuration,
		},
		{
			Key:    "additionalInfo",
			Title:  "Anything else?",
			Fields: []domain.Field{domain.FieldAdditionalInfo},
			check:  checkAdditionalInfo,
		},
	})
}

// FlowByName resolves a configured flow name.
func FlowByName(name string) (*Flow, error) {
	switch name {
	case "", FlowStandard:
		return StandardFlow(), nil
	case FlowQuick:
		return QuickFlow(), nil
	}
	return nil, fmt.Errorf("unknown flow %q (want %s or %s)", name, FlowStandard, FlowQuick)
}
