package domain

import (
	"slices"
	"strings"
)

// ValidationErrors maps a field to a human-readable message. An empty set
// means the step may advance.
type ValidationErrors map[Field]string

// OK reports whether there are no errors.
func (e ValidationErrors) OK() bool { return len(e) == 0 }

// Fields returns the fields with errors in sorted order.
func (e ValidationErrors) Fields() []Field {
	out := make([]Field, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Error implements error so a blocked step can be returned up a call chain.
func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, string(f)+": "+e[f])
	}
	return "missing information: " + strings.Join(parts, "; ")
}

// Clone returns a copy, or nil when empty.
func (e ValidationErrors) Clone() ValidationErrors {
	if len(e) == 0 {
		return nil
	}
	out := make(ValidationErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
