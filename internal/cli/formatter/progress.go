package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct = clamp(pct)
	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", RenderMeter(pct, width, style), pct*100)
}

// RenderMeter renders a bare bar of filled and empty blocks in style.
func RenderMeter(pct float64, width int, style lipgloss.Style) string {
	pct = clamp(pct)
	if width < 2 {
		width = 2
	}
	filled := min(int(pct*float64(width)), width)
	return style.Render(strings.Repeat(filledBlock, filled)) +
		StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}

// RenderStepProgress renders "Step 2 of 5" above a bar filled to step/total.
// step is zero-based.
func RenderStepProgress(step, total, width int) string {
	if total <= 0 {
		return ""
	}
	pct := float64(step+1) / float64(total)
	label := fmt.Sprintf("Step %d of %d", step+1, total)
	return Bold(label) + "\n" + RenderMeter(pct, width, StylePurple)
}

func clamp(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}
