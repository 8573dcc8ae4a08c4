package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prescreen/internal/domain"
)

// FormatValidationErrors renders the blocking messages for one step.
func FormatValidationErrors(stepTitle string, errs domain.ValidationErrors) string {
	if errs.OK() {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", StyleRed.Render("✖"), Bold(stepTitle))
	for _, f := range errs.Fields() {
		fmt.Fprintf(&b, "  %s %s\n", Dim(string(f)+":"), StyleRed.Render(errs[f]))
	}
	return b.String()
}

// FormatStepOK renders a passing step line.
func FormatStepOK(stepTitle string) string {
	return fmt.Sprintf("%s %s\n", StyleGreen.Render("✔"), stepTitle)
}

// InlineErrors renders messages one per line, for display above a form.
func InlineErrors(errs domain.ValidationErrors) string {
	lines := make([]string, 0, len(errs))
	for _, f := range errs.Fields() {
		lines = append(lines, StyleRed.Render("! "+errs[f]))
	}
	return strings.Join(lines, "\n")
}
