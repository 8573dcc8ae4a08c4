package analysis

import (
	"encoding/json"
	"testing"

	"github.com/alexanderramin/prescreen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Variants(t *testing.T) {
	want := domain.AnalysisResult{
		Overview: "Likely strain.",
		Causes:   []string{"Muscle strain"},
		Risk:     domain.RiskLow,
		Actions:  []string{"Rest"},
		Urgency:  3,
	}
	tests := []struct {
		name string
		body string
	}{
		{"canonical", `{"overview":"Likely strain.","causes":["Muscle strain"],"riskLevel":"low","actions":["Rest"],"urgency":3}`},
		{"collaborator names", `{"preliminaryAssessment":"Likely strain.","potentialCauses":["Muscle strain"],"riskLevel":"low","recommendedActions":["Rest"],"urgencyLevel":3}`},
		{"nested overview", `{"preliminaryAssessment":{"overview":"Likely strain."},"potentialCauses":["Muscle strain"],"risk":"low","recommendedActions":["Rest"],"urgencyLevel":3.0}`},
		{"null falls through to variant", `{"overview":null,"preliminaryAssessment":"Likely strain.","causes":["Muscle strain"],"riskLevel":"low","actions":["Rest"],"urgency":3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestNormalize_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"not an object", `[1,2]`, "not a JSON object"},
		{"null", `null`, "null"},
		{"fractional urgency", `{"overview":"o","causes":["a"],"riskLevel":"low","actions":["b"],"urgency":3.5}`, "not an integer"},
		{"string urgency", `{"overview":"o","causes":["a"],"riskLevel":"low","actions":["b"],"urgency":"3"}`, "must be a number"},
		{"urgency out of range", `{"overview":"o","causes":["a"],"riskLevel":"low","actions":["b"],"urgency":11}`, "urgency"},
		{"causes not strings", `{"overview":"o","causes":[1],"riskLevel":"low","actions":["b"],"urgency":3}`, "causes must be a list"},
		{"missing actions", `{"overview":"o","causes":["a"],"riskLevel":"low","urgency":3}`, "actions"},
		{"empty overview", `{"overview":"","causes":["a"],"riskLevel":"low","actions":["b"],"urgency":3}`, "overview"},
		{"bad nested overview", `{"preliminaryAssessment":{"summary":"x"},"causes":["a"],"riskLevel":"low","actions":["b"],"urgency":3}`, "preliminaryAssessment"},
		{"risk not a string", `{"overview":"o","causes":["a"],"riskLevel":2,"actions":["b"],"urgency":3}`, "riskLevel must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize([]byte(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestToResponse_UsesCollaboratorNames(t *testing.T) {
	data, err := json.Marshal(ToResponse(domain.AnalysisResult{
		Overview: "o", Causes: []string{"a"}, Risk: domain.RiskMedium, Actions: []string{"b"}, Urgency: 4,
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"preliminaryAssessment":"o","potentialCauses":["a"],"riskLevel":"medium","recommendedActions":["b"],"urgencyLevel":4}`, string(data))
}

func TestFallback_IsNotAValidResult(t *testing.T) {
	data, err := json.Marshal(Fallback("boom"))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "boom", raw["error"])

	_, err = Normalize(data)
	assert.Error(t, err, "empty causes must not pass as a result")
}
