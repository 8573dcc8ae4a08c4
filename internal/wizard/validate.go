package wizard

import (
	"math"
	"strings"

	"github.com/alexanderramin/prescreen/internal/domain"
)

// Messages shown next to a field that blocks advancing.
const (
	MsgNameRequired        = "Name is required"
	MsgAgeRequired         = "Age is required"
	MsgGenderRequired      = "Please select your gender"
	MsgConditionsDetails   = "Please describe your medical conditions"
	MsgPainAreasRequired   = "Please select at least one area"
	MsgIntensityRequired   = "Please select pain intensity"
	MsgDurationRequired    = "Please select symptom duration"
	MsgAnswerRequired      = "Please answer this question"
	MsgMainSymptomRequired = "Please select a main symptom"
	MsgAdditionalInfo      = "Please provide additional information"
)

var standard = StandardFlow()

// Validate checks step of the standard flow.
func Validate(step int, fields domain.FieldMap) domain.ValidationErrors {
	return standard.Validate(step, fields)
}

func checkDemographics(m domain.FieldMap) domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	requireText(m, errs, domain.FieldName, MsgNameRequired)
	requireNumber(m, errs, domain.FieldAge, MsgAgeRequired)
	requireText(m, errs, domain.FieldGender, MsgGenderRequired)
	if has, ok := m[domain.FieldHasMedicalConditions].AsBool(); ok && has {
		requireText(m, errs, domain.FieldMedicalConditionsDetails, MsgConditionsDetails)
	}
	return errs.Clone()
}

func checkPainLocation(m domain.FieldMap) domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	if ids, ok := m[domain.FieldPainAreas].AsRegions(); !ok || len(ids) == 0 {
		errs[domain.FieldPainAreas] = MsgPainAreasRequired
	}
	return errs.Clone()
}

func checkSymptomDetails(m domain.FieldMap) domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	requireText(m, errs, domain.FieldPainIntensity, MsgIntensityRequired)
	requireText(m, errs, domain.FieldSymptomDuration, MsgDurationRequired)
	return errs.Clone()
}

// Absent is an error; an answered false is not.
func checkRedFlags(m domain.FieldMap) domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	for _, f := range []domain.Field{domain.FieldHasNumbness, domain.FieldHasChestPain} {
		if _, ok := m[f].AsBool(); !ok {
			errs[f] = MsgAnswerRequired
		}
	}
	return errs.Clone()
}

func checkAdditionalInfo(m domain.FieldMap) domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	requireText(m, errs, domain.FieldAdditionalInfo, MsgAdditionalInfo)
	return errs.Clone()
}

func checkBasicInfo(m domain.FieldMap) domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	requireText(m, errs, domain.FieldName, MsgNameRequired)
	requireNumber(m, errs, domain.FieldAge, MsgAgeRequired)
	return errs.Clone()
}

func checkMainSymptom(m domain.FieldMap) domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	requireText(m, errs, domain.FieldMainSymptom, MsgMainSymptomRequired)
	return errs.Clone()
}

func checkDuration(m domain.FieldMap) domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	requireText(m, errs, domain.FieldSymptomDuration, MsgDurationRequired)
	return errs.Clone()
}

func requireText(m domain.FieldMap, errs domain.ValidationErrors, f domain.Field, msg string) {
	s, ok := m[f].AsString()
	if !ok || strings.TrimSpace(s) == "" {
		errs[f] = msg
	}
}

func requireNumber(m domain.FieldMap, errs domain.ValidationErrors, f domain.Field, msg string) {
	n, ok := m[f].AsNumber()
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		errs[f] = msg
	}
}
