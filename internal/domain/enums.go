package domain

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ValidRiskLevels is the closed set an assessment may report.
var ValidRiskLevels = map[RiskLevel]bool{
	RiskLow: true, RiskMedium: true, RiskHigh: true,
}

type Gender string

const (
	GenderFemale         Gender = "female"
	GenderMale           Gender = "male"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "preferNotToSay"
)

type PainIntensity string

const (
	PainMild     PainIntensity = "mild"
	PainModerate PainIntensity = "moderate"
	PainSevere   PainIntensity = "severe"
)

type SymptomDuration string

const (
	DurationLessThan24h  SymptomDuration = "lessThan24h"
	DurationFewDays      SymptomDuration = "fewDays"
	DurationWeek         SymptomDuration = "week"
	DurationMoreThanWeek SymptomDuration = "moreThanWeek"
)

type MainSymptom string

const (
	SymptomHeadache MainSymptom = "headache"
	SymptomFever    MainSymptom = "fever"
	SymptomCough    MainSymptom = "cough"
	SymptomFatigue  MainSymptom = "fatigue"
)

// Choice pairs a stored value with its display label.
type Choice struct {
	Value string
	Label string
}

// GenderChoices lists the gender options in display order.
var GenderChoices = []Choice{
	{string(GenderFemale), "Female"},
	{string(GenderMale), "Male"},
	{string(GenderOther), "Other"},
	{string(GenderPreferNotToSay), "Prefer not to say"},
}

// PainIntensityChoices lists the intensity options in display order.
var PainIntensityChoices = []Choice{
	{string(PainMild), "Mild"},
	{string(PainModerate), "Moderate"},
	{string(PainSevere), "Severe"},
}

// SymptomDurationChoices lists the duration options in display order.
var SymptomDurationChoices = []Choice{
	{string(DurationLessThan24h), "Less than 24 hours"},
	{string(DurationFewDays), "A few days"},
	{string(DurationWeek), "About a week"},
	{string(DurationMoreThanWeek), "More than a week"},
}

// MainSymptomChoices lists the main symptom options in display order.
var MainSymptomChoices = []Choice{
	{string(SymptomHeadache), "Headache"},
	{string(SymptomFever), "Fever"},
	{string(SymptomCough), "Cough"},
	{string(SymptomFatigue), "Fatigue"},
}

// ChoiceLabel returns the label for value, or value itself when not listed.
func ChoiceLabel(choices []Choice, value string) string {
	for _, c := range choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}
