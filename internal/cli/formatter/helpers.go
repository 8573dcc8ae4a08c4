package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// Wrap breaks text to width columns. Width <= 0 leaves it unchanged.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

// BulletList renders items as "  • item" lines.
func BulletList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("  " + StyleBlue.Render("•") + " " + item + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// NumberedList renders items as "  1. item" lines.
func NumberedList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		b.WriteString(fmt.Sprintf("  %s %s\n", StyleBlue.Render(fmt.Sprintf("%d.", i+1)), item))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
