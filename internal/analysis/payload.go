package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/alexanderramin/prescreen/internal/domain"
)

// Request is the body posted to the collaborator.
type Request struct {
	FormData domain.FieldMap `json:"formData"`
}

// Response is the canonical wire form a collaborator answers with.
type Response struct {
	PreliminaryAssessment string   `json:"preliminaryAssessment"`
	PotentialCauses       []string `json:"potentialCauses"`
	RiskLevel             string   `json:"riskLevel"`
	RecommendedActions    []string `json:"recommendedActions"`
	UrgencyLevel          int      `json:"urgencyLevel"`
}

// ToResponse converts a result into the collaborator wire form.
func ToResponse(r domain.AnalysisResult) Response {
	return Response{
		PreliminaryAssessment: r.Overview,
		PotentialCauses:       r.Causes,
		RiskLevel:             string(r.Risk),
		RecommendedActions:    r.Actions,
		UrgencyLevel:          r.Urgency,
	}
}

// FallbackResponse is the body a collaborator sends alongside a failure status.
type FallbackResponse struct {
	Error string `json:"error"`
	Response
}

// Fallback builds the failure body with msg as the error text.
func Fallback(msg string) FallbackResponse {
	return FallbackResponse{
		Error: msg,
		Response: Response{
			PreliminaryAssessment: "Unable to generate assessment at this time. Please try again.",
			PotentialCauses:       []string{},
			RiskLevel:             string(domain.RiskMedium),
			RecommendedActions: []string{
				"Please try submitting the form again.",
				"If the problem persists, contact support.",
			},
			UrgencyLevel: 5,
		},
	}
}

// Normalize decodes a collaborator response into an AnalysisResult. It
// accepts the known field-naming variants and validates the result.
func Normalize(data []byte) (domain.AnalysisResult, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("response is not a JSON object: %w", err)
	}
	return NormalizeObject(obj)
}

// NormalizeObject is Normalize for an already decoded JSON object.
func NormalizeObject(obj map[string]json.RawMessage) (domain.AnalysisResult, error) {
	if obj == nil {
		return domain.AnalysisResult{}, errors.New("response is null")
	}

	var (
		r    domain.AnalysisResult
		errs []error
	)

	overview, err := decodeOverview(obj)
	if err != nil {
		errs = append(errs, err)
	}
	r.Overview = overview

	if raw, name := pick(obj, "potentialCauses", "causes"); raw != nil {
		if err := json.Unmarshal(raw, &r.Causes); err != nil {
			errs = append(errs, fmt.Errorf("%s must be a list of strings", name))
		}
	}

	if raw, name := pick(obj, "riskLevel", "risk"); raw != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			errs = append(errs, fmt.Errorf("%s must be a string", name))
		}
		r.Risk = domain.RiskLevel(s)
	}

	if raw, name := pick(obj, "recommendedActions", "actions"); raw != nil {
		if err := json.Unmarshal(raw, &r.Actions); err != nil {
			errs = append(errs, fmt.Errorf("%s must be a list of strings", name))
		}
	}

	if raw, name := pick(obj, "urgencyLevel", "urgency"); raw != nil {
		n, err := decodeInteger(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		r.Urgency = n
	}

	if len(errs) > 0 {
		return domain.AnalysisResult{}, errors.Join(errs...)
	}
	if err := r.Validate(); err != nil {
		return domain.AnalysisResult{}, err
	}
	return r, nil
}

// pick returns the first present, non-null key among names.
func pick(obj map[string]json.RawMessage, names ...string) (json.RawMessage, string) {
	for _, n := range names {
		raw, ok := obj[n]
		if ok && !isNull(raw) {
			return raw, n
		}
	}
	return nil, names[0]
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeOverview(obj map[string]json.RawMessage) (string, error) {
	if raw, _ := pick(obj, "overview"); raw != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", errors.New("overview must be a string")
		}
		return s, nil
	}
	raw, _ := pick(obj, "preliminaryAssessment")
	if raw == nil {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var nested struct {
		Overview *string `json:"overview"`
	}
	if err := json.Unmarshal(raw, &nested); err != nil || nested.Overview == nil {
		return "", errors.New("preliminaryAssessment must be a string or an object with an overview")
	}
	return *nested.Overview, nil
}

func decodeInteger(raw json.RawMessage) (int, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, errors.New("must be a number")
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%g is not an integer", f)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%g is out of range", f)
	}
	return int(f), nil
}
