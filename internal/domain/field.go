package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field names a questionnaire answer.
type Field string

const (
	FieldName                     Field = "name"
	FieldAge                      Field = "age"
	FieldGender                   Field = "gender"
	FieldHasMedicalConditions     Field = "hasMedicalConditions"
	FieldMedicalConditionsDetails Field = "medicalConditionsDetails"
	FieldPainAreas                Field = "painAreas"
	FieldPainIntensity            Field = "painIntensity"
	FieldSymptomDuration          Field = "symptomDuration"
	FieldHasNumbness              Field = "hasNumbness"
	FieldHasChestPain             Field = "hasChestPain"
	FieldAdditionalInfo           Field = "additionalInfo"
	FieldMainSymptom              Field = "mainSymptom"
)

// KnownFields is the closed set of field names any flow may write.
var KnownFields = map[Field]bool{
	FieldName: true, FieldAge: true, FieldGender: true,
	FieldHasMedicalConditions: true, FieldMedicalConditionsDetails: true,
	FieldPainAreas: true, FieldPainIntensity: true, FieldSymptomDuration: true,
	FieldHasNumbness: true, FieldHasChestPain: true,
	FieldAdditionalInfo: true, FieldMainSymptom: true,
}

// Kind is the type tag of a Value.
type Kind uint8

const (
	KindUnset Kind = iota
	KindString
	KindNumber
	KindBool
	KindRegions
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindRegions:
		return "regions"
	default:
		return "unset"
	}
}

// Value is a single answer. The zero Value is unset, which is distinct
// from an answered false or an empty string.
type Value struct {
	kind    Kind
	str     string
	num     float64
	boolean bool
	regions []string
}

// String returns a string-valued answer.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric answer.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a boolean answer.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Regions returns an ordered region-ID list answer.
func Regions(ids ...string) Value {
	return Value{kind: KindRegions, regions: slices.Clone(ids)}
}

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsSet() bool   { return v.kind != KindUnset }
func (v Value) Str() string   { return v.str }
func (v Value) Num() float64  { return v.num }
func (v Value) Bool() bool    { return v.boolean }
func (v Value) IDs() []string { return slices.Clone(v.regions) }

// AsString returns the value when it is a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber returns the value when it is a number.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsBool returns the value when it is a boolean.
func (v Value) AsBool() (bool, bool) {
	return v.boolean, v.kind == KindBool
}

// AsRegions returns a copy of the region IDs when the value is a region list.
func (v Value) AsRegions() ([]string, bool) {
	if v.kind != KindRegions {
		return nil, false
	}
	return slices.Clone(v.regions), true
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.boolean == o.boolean
	case KindRegions:
		return slices.Equal(v.regions, o.regions)
	}
	return true
}

// Display renders the value for prompts and terminal output.
func (v Value) Display() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		if v.boolean {
			return "Yes"
		}
		return "No"
	case KindRegions:
		return strings.Join(v.regions, ", ")
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.boolean)
	case KindRegions:
		if v.regions == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.regions)
	}
	return []byte("null"), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := valueFromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := valueFromAny(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*v = parsed
	return nil
}

func valueFromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Value{}, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return Value{}, fmt.Errorf("number %d out of range", t)
		}
		return Number(float64(t)), nil
	case []any:
		ids := make([]string, 0, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return Value{}, fmt.Errorf("list item %d: expected string, got %T", i, item)
			}
			ids = append(ids, s)
		}
		return Regions(ids...), nil
	default:
		return Value{}, fmt.Errorf("unsupported answer type %T", raw)
	}
}

// FieldMap holds the accumulated questionnaire answers.
type FieldMap map[Field]Value

// YesNoFields are the questions answered with yes or no.
var YesNoFields = []Field{FieldHasMedicalConditions, FieldHasNumbness, FieldHasChestPain}

// ParseYesNo reads the spellings people write in answers files. YAML 1.2
// decodes yes/no as strings, so they arrive here as text.
func ParseYesNo(s string) (answer, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "on":
		return true, true
	case "no", "n", "false", "off":
		return false, true
	}
	return false, false
}

// CoerceYesNo turns textual yes/no answers into booleans. Other strings
// are left alone for the validator to report.
func (m FieldMap) CoerceYesNo() {
	for _, f := range YesNoFields {
		s, ok := m[f].AsString()
		if !ok {
			continue
		}
		if b, ok := ParseYesNo(s); ok {
			m[f] = Bool(b)
		}
	}
}

// Clone returns a deep copy.
func (m FieldMap) Clone() FieldMap {
	out := make(FieldMap, len(m))
	for k, v := range m {
		if v.kind == KindRegions {
			v.regions = slices.Clone(v.regions)
		}
		out[k] = v
	}
	return out
}

// Lookup returns the value for f and whether it is set.
func (m FieldMap) Lookup(f Field) (Value, bool) {
	v, ok := m[f]
	return v, ok && v.IsSet()
}

// Text returns the string value of f, or "" when unset or of another kind.
func (m FieldMap) Text(f Field) string {
	s, _ := m[f].AsString()
	return s
}

// Keys returns the set field names in sorted order.
func (m FieldMap) Keys() []Field {
	keys := make([]Field, 0, len(m))
	for k, v := range m {
		if v.IsSet() {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// Unknown returns the keys of m that are not in allowed, sorted.
func (m FieldMap) Unknown(allowed map[Field]bool) []Field {
	var out []Field
	for k := range m {
		if !allowed[k] {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
