package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type triagePayload struct {
	RiskLevel    string `json:"riskLevel"`
	UrgencyLevel int    `json:"urgencyLevel"`
}

type scoredPayload struct {
	RiskLevel  string  `json:"riskLevel"`
	Confidence float64 `json:"confidence"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	raw := `{"riskLevel":"low","urgencyLevel":2}`
	result, err := ExtractJSON[triagePayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "low", result.RiskLevel)
	assert.Equal(t, 2, result.UrgencyLevel)
}

func TestExtractJSON_FencedJSON(t *testing.T) {
	raw := "```json\n{\"riskLevel\":\"medium\",\"urgencyLevel\":5}\n```"
	result, err := ExtractJSON[triagePayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "medium", result.RiskLevel)
	assert.Equal(t, 5, result.UrgencyLevel)
}

func TestExtractJSON_SurroundingText(t *testing.T) {
	raw := "Here is the assessment:\n{\"riskLevel\":\"high\",\"urgencyLevel\":9}\nSeek care promptly."
	result, err := ExtractJSON[triagePayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "high", result.RiskLevel)
}

func TestExtractJSON_NestedBraces(t *testing.T) {
	type nested struct {
		PreliminaryAssessment map[string]string `json:"preliminaryAssessment"`
	}
	raw := `{"preliminaryAssessment":{"overview":"Likely {minor} strain"}}`
	result, err := ExtractJSON[nested](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Likely {minor} strain", result.PreliminaryAssessment["overview"])
}

func TestExtractJSON_NoJSON(t *testing.T) {
	raw := "I cannot assess this."
	_, err := ExtractJSON[triagePayload](raw, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	raw := `{"riskLevel":"low", broken}`
	_, err := ExtractJSON[triagePayload](raw, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_ValidationFailure(t *testing.T) {
	raw := `{"riskLevel":"low","urgencyLevel":14}`
	validator := func(p triagePayload) error {
		if p.UrgencyLevel < 1 || p.UrgencyLevel > 10 {
			return fmt.Errorf("urgencyLevel must be in [1,10], got %d", p.UrgencyLevel)
		}
		return nil
	}
	_, err := ExtractJSON(raw, validator)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestExtractJSON_ValidationSuccess(t *testing.T) {
	raw := `{"riskLevel":"medium","urgencyLevel":4}`
	validator := func(p triagePayload) error {
		if p.UrgencyLevel < 1 || p.UrgencyLevel > 10 {
			return fmt.Errorf("urgency out of range")
		}
		return nil
	}
	result, err := ExtractJSON(raw, validator)
	require.NoError(t, err)
	assert.Equal(t, "medium", result.RiskLevel)
}

func TestExtractJSON_MultipleFences(t *testing.T) {
	raw := "Some text\n```\n{\"riskLevel\":\"low\",\"urgencyLevel\":1}\n```\nMore text"
	result, err := ExtractJSON[triagePayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "low", result.RiskLevel)
}

func TestExtractJSON_CommentsAndLeadingDecimals(t *testing.T) {
	raw := "{\n  \"riskLevel\": \"low\", // model aside\n  \"confidence\": .8 /* rough */\n}"
	result, err := ExtractJSON[scoredPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "low", result.RiskLevel)
	assert.Equal(t, 0.8, result.Confidence)
}

func TestExtractJSONObject_ReturnsCleanedText(t *testing.T) {
	raw := "```json\n{\"urgencyLevel\": 3, \"note\": \"see http://x\"} // done\n```"
	obj, err := ExtractJSONObject(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"urgencyLevel":3,"note":"see http://x"}`, obj)

	_, err = ExtractJSONObject("no braces here")
	assert.ErrorIs(t, err, ErrInvalidOutput)
}
