package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Urgency bounds, inclusive.
const (
	MinUrgency = 1
	MaxUrgency = 10
)

// AnalysisResult is the structured assessment returned by the analysis collaborator.
type AnalysisResult struct {
	Overview string    `json:"overview"`
	Causes   []string  `json:"causes"`
	Risk     RiskLevel `json:"riskLevel"`
	Actions  []string  `json:"actions"`
	Urgency  int       `json:"urgency"`
}

// Validate checks every field against the result shape. All violations are
// reported together.
func (r AnalysisResult) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Overview) == "" {
		errs = append(errs, errors.New("overview is missing"))
	}
	if err := validateList("causes", r.Causes); err != nil {
		errs = append(errs, err)
	}
	if !ValidRiskLevels[r.Risk] {
		errs = append(errs, fmt.Errorf("riskLevel %q is not one of low, medium, high", r.Risk))
	}
	if err := validateList("actions", r.Actions); err != nil {
		errs = append(errs, err)
	}
	if r.Urgency < MinUrgency || r.Urgency > MaxUrgency {
		errs = append(errs, fmt.Errorf("urgency %d is outside [%d,%d]", r.Urgency, MinUrgency, MaxUrgency))
	}
	return errors.Join(errs...)
}

func validateList(name string, items []string) error {
	if len(items) == 0 {
		return fmt.Errorf("%s must contain at least one entry", name)
	}
	for i, item := range items {
		if strings.TrimSpace(item) == "" {
			return fmt.Errorf("%s[%d] is empty", name, i)
		}
	}
	return nil
}

// RiskScore maps a risk level onto the 33/66/100 scale used by the results view.
func (r RiskLevel) RiskScore() int {
	switch r {
	case RiskLow:
		return 33
	case RiskMedium:
		return 66
	case RiskHigh:
		return 100
	}
	return 0
}
