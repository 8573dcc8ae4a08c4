package cli

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/prescreen/internal/catalog"
	"github.com/alexanderramin/prescreen/internal/cli/formatter"
	"github.com/alexanderramin/prescreen/internal/domain"
	"github.com/alexanderramin/prescreen/internal/wizard"
	"github.com/charmbracelet/huh"
)

const maxFormWidth = 72

// stepForm binds one wizard step to a huh form. collect reads the bound
// values back into a partial Field Map for EditField.
type stepForm struct {
	form    *huh.Form
	regions *huh.MultiSelect[string]
	painIDs *[]string
	collect func() domain.FieldMap
}

// fieldBinding is one huh field plus the reader for its answer.
type fieldBinding struct {
	field domain.Field
	input huh.Field
	value func() domain.Value
	flag  *bool
}

// newStepForm builds the form for step, pre-filled from fields.
func newStepForm(step wizard.StepDescriptor, fields domain.FieldMap, cat *catalog.Catalog, width int) *stepForm {
	sf := &stepForm{}

	var main, details []huh.Field
	var bindings []fieldBinding
	var hasConditions *bool

	for _, f := range step.Fields {
		b := sf.bind(f, fields, cat)
		bindings = append(bindings, b)
		switch f {
		case domain.FieldHasMedicalConditions:
			hasConditions = b.flag
		case domain.FieldMedicalConditionsDetails:
			details = append(details, b.input)
			continue
		}
		main = append(main, b.input)
	}

	// The details group only shows when conditions were answered yes.
	groups := []*huh.Group{huh.NewGroup(main...).Title(step.Title)}
	if len(details) > 0 {
		g := huh.NewGroup(details...).Title(step.Title)
		if hasConditions != nil {
			g = g.WithHideFunc(func() bool { return !*hasConditions })
		}
		groups = append(groups, g)
	}

	form := huh.NewForm(groups...).WithTheme(huhTheme()).WithShowHelp(false)
	if width > 0 {
		form = form.WithWidth(min(width, maxFormWidth))
	}
	sf.form = form

	sf.collect = func() domain.FieldMap {
		partial := make(domain.FieldMap, len(bindings))
		for _, b := range bindings {
			partial[b.field] = b.value()
		}
		if hasConditions != nil && !*hasConditions {
			partial[domain.FieldMedicalConditionsDetails] = domain.Value{}
		}
		return partial
	}
	return sf
}

func (sf *stepForm) bind(f domain.Field, fields domain.FieldMap, cat *catalog.Catalog) fieldBinding {
	switch f {
	case domain.FieldName:
		return textInput(f, "Full name", fields)
	case domain.FieldAge:
		return ageInput(fields)
	case domain.FieldGender:
		return choiceSelect(f, "Gender", domain.GenderChoices, fields)
	case domain.FieldHasMedicalConditions:
		return confirm(f, "Do you have any existing medical conditions?", fields)
	case domain.FieldMedicalConditionsDetails:
		return textArea(f, "Please describe your medical conditions", fields)
	case domain.FieldPainAreas:
		return sf.regionSelect(fields, cat)
	case domain.FieldPainIntensity:
		return choiceSelect(f, "How intense is the pain?", domain.PainIntensityChoices, fields)
	case domain.FieldSymptomDuration:
		return choiceSelect(f, "How long have you had these symptoms?", domain.SymptomDurationChoices, fields)
	case domain.FieldMainSymptom:
		return choiceSelect(f, "What is your main symptom?", domain.MainSymptomChoices, fields)
	case domain.FieldHasNumbness:
		return yesNoSelect(f, "Are you experiencing numbness or weakness?", fields)
	case domain.FieldHasChestPain:
		return yesNoSelect(f, "Do you have chest pain or difficulty breathing?", fields)
	case domain.FieldAdditionalInfo:
		return textArea(f, "Please provide any additional information about your symptoms", fields)
	default:
		return textInput(f, string(f), fields)
	}
}

func textInput(f domain.Field, title string, fields domain.FieldMap) fieldBinding {
	v := fields.Text(f)
	in := huh.NewInput().Title(title).Value(&v)
	return fieldBinding{field: f, input: in, value: func() domain.Value { return textValue(v) }}
}

func textArea(f domain.Field, title string, fields domain.FieldMap) fieldBinding {
	v := fields.Text(f)
	in := huh.NewText().Title(title).Lines(3).Value(&v)
	return fieldBinding{field: f, input: in, value: func() domain.Value { return textValue(v) }}
}

func ageInput(fields domain.FieldMap) fieldBinding {
	var v string
	if n, ok := fields[domain.FieldAge].AsNumber(); ok {
		v = strconv.FormatFloat(n, 'f', -1, 64)
	}
	in := huh.NewInput().
		Title("Age").
		Placeholder("years").
		Value(&v).
		Validate(validateAge)
	return fieldBinding{field: domain.FieldAge, input: in, value: func() domain.Value {
		n, err := parseAge(v)
		if err != nil {
			return domain.Value{}
		}
		return domain.Number(n)
	}}
}

func choiceSelect(f domain.Field, title string, choices []domain.Choice, fields domain.FieldMap) fieldBinding {
	v := fields.Text(f)
	opts := make([]huh.Option[string], len(choices))
	for i, c := range choices {
		opts[i] = huh.NewOption(c.Label, c.Value)
	}
	in := huh.NewSelect[string]().Title(title).Options(opts...).Value(&v)
	return fieldBinding{field: f, input: in, value: func() domain.Value { return textValue(v) }}
}

func confirm(f domain.Field, title string, fields domain.FieldMap) fieldBinding {
	v, _ := fields[f].AsBool()
	in := huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&v)
	return fieldBinding{field: f, input: in, value: func() domain.Value { return domain.Bool(v) }, flag: &v}
}

// yesNoSelect asks a required yes/no question. It starts unanswered so
// pressing enter without choosing leaves the field unset.
func yesNoSelect(f domain.Field, title string, fields domain.FieldMap) fieldBinding {
	var v string
	if b, ok := fields[f].AsBool(); ok {
		v = strconv.FormatBool(b)
	}
	in := huh.NewSelect[string]().
		Title(title).
		Options(
			huh.NewOption("Choose an answer", ""),
			huh.NewOption("Yes", "true"),
			huh.NewOption("No", "false"),
		).
		Value(&v)
	return fieldBinding{field: f, input: in, value: func() domain.Value {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return domain.Value{}
		}
		return domain.Bool(b)
	}}
}

func (sf *stepForm) regionSelect(fields domain.FieldMap, cat *catalog.Catalog) fieldBinding {
	ids, _ := fields[domain.FieldPainAreas].AsRegions()
	regions := cat.All()
	opts := make([]huh.Option[string], len(regions))
	for i, r := range regions {
		opts[i] = huh.NewOption(formatter.RegionMarker(i)+"  "+r.Name, r.ID)
	}
	in := huh.NewMultiSelect[string]().
		Title("Select the areas where you feel pain").
		Description("space to toggle, enter to continue").
		Options(opts...).
		Filterable(false).
		Height(min(len(regions), 8) + 2).
		Value(&ids)
	sf.regions = in
	sf.painIDs = &ids
	return fieldBinding{field: domain.FieldPainAreas, input: in, value: func() domain.Value {
		return domain.Regions(ids...)
	}}
}

// selectedRegions returns the live multi-select state and the hovered
// region ID. Both are empty outside the painLocation step.
func (sf *stepForm) selectedRegions() (map[string]bool, string) {
	if sf.regions == nil {
		return nil, ""
	}
	selected := make(map[string]bool, len(*sf.painIDs))
	for _, id := range *sf.painIDs {
		selected[id] = true
	}
	hovered, _ := sf.regions.Hovered()
	return selected, hovered
}

func textValue(s string) domain.Value {
	if strings.TrimSpace(s) == "" {
		return domain.Value{}
	}
	return domain.String(s)
}

var errAgeInvalid = errors.New("enter your age in years")

// validateAge accepts an empty value so the step validator reports it.
func validateAge(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := parseAge(s)
	return err
}

func parseAge(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || n < 0 || n > 150 {
		return 0, errAgeInvalid
	}
	return n, nil
}
