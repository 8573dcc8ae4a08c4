package assessor

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prescreen/internal/domain"
)

// SystemPrompt frames the model as a structured pre-screening assistant.
const SystemPrompt = "You are a medical pre-screening assistant that provides structured JSON responses. " +
	"Always include a clear preliminaryAssessment in your response."

const promptHeader = `As an AI medical pre-screening assistant, analyze the following patient information and provide a comprehensive assessment. Your response must be a valid JSON object with the following structure:

{
  "preliminaryAssessment": "A concise summary of the patient's condition",
  "potentialCauses": ["array of at least 3 possible causes"],
  "riskLevel": "low", "medium", or "high",
  "recommendedActions": ["array of at least 3 specific recommended actions"],
  "urgencyLevel": number from 1 to 10
}

Patient Information:
`

const promptFooter = `
Provide a direct, clear response following the exact JSON structure specified above. The preliminaryAssessment should be a single paragraph summarizing key findings.`

// notProvided stands in for fields the active flow did not collect.
const notProvided = "Not provided"

// BuildPrompt renders the patient information block for fields. Fields the
// active flow did not collect render as "Not provided".
func BuildPrompt(fields domain.FieldMap) string {
	var b strings.Builder
	b.WriteString(promptHeader)

	b.WriteString("1. Patient Demographics:\n")
	fmt.Fprintf(&b, "- Name: %s\n", text(fields, domain.FieldName))
	fmt.Fprintf(&b, "- Age: %s\n", text(fields, domain.FieldAge))
	fmt.Fprintf(&b, "- Gender: %s\n", text(fields, domain.FieldGender))
	fmt.Fprintf(&b, "- Medical History: %s\n", medicalHistory(fields))

	b.WriteString("\n2. Symptoms:\n")
	if _, ok := fields.Lookup(domain.FieldMainSymptom); ok {
		fmt.Fprintf(&b, "- Main Symptom: %s\n", text(fields, domain.FieldMainSymptom))
	}
	fmt.Fprintf(&b, "- Pain Areas: %s\n", text(fields, domain.FieldPainAreas))
	fmt.Fprintf(&b, "- Pain Intensity: %s\n", text(fields, domain.FieldPainIntensity))
	fmt.Fprintf(&b, "- Duration: %s\n", text(fields, domain.FieldSymptomDuration))

	b.WriteString("\n3. Red Flags:\n")
	fmt.Fprintf(&b, "- Numbness/Weakness: %s\n", yesNo(fields, domain.FieldHasNumbness))
	fmt.Fprintf(&b, "- Chest Pain/Breathing Issues: %s\n", yesNo(fields, domain.FieldHasChestPain))

	b.WriteString("\n4. Additional Context:\n")
	b.WriteString(text(fields, domain.FieldAdditionalInfo))
	b.WriteString("\n")

	b.WriteString(promptFooter)
	return b.String()
}

func text(fields domain.FieldMap, f domain.Field) string {
	v, _ := fields.Lookup(f)
	if s := strings.TrimSpace(v.Display()); s != "" {
		return s
	}
	return notProvided
}

func yesNo(fields domain.FieldMap, f domain.Field) string {
	v, _ := fields.Lookup(f)
	if b, ok := v.AsBool(); ok && b {
		return "Yes"
	}
	return "No"
}

func medicalHistory(fields domain.FieldMap) string {
	v, _ := fields.Lookup(domain.FieldHasMedicalConditions)
	if b, ok := v.AsBool(); ok && b {
		return text(fields, domain.FieldMedicalConditionsDetails)
	}
	return "No existing conditions"
}
