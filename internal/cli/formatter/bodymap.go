package formatter

import (
	"strings"

	"github.com/alexanderramin/prescreen/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Body map canvas size in cells. Terminal cells are roughly twice as tall
// as they are wide, so the canvas is twice as wide as it is high.
const (
	BodyMapWidth  = 41
	BodyMapHeight = 21
)

const markerRunes = "123456789abcdefghijklmnopqrstuvwxyz"

// RegionMarker returns the single-character marker for the i-th region.
func RegionMarker(i int) string {
	if i < 0 || i >= len(markerRunes) {
		return "?"
	}
	return markerRunes[i : i+1]
}

// RenderBodyMap draws regions onto a character canvas. Cells inside a
// region are shaded, selected regions are highlighted, and each anchor
// carries its marker. hovered may be empty.
func RenderBodyMap(regions []domain.Region, selected map[string]bool, hovered string) string {
	return renderBodyMap(regions, selected, hovered, BodyMapWidth, BodyMapHeight)
}

func renderBodyMap(regions []domain.Region, selected map[string]bool, hovered string, w, h int) string {
	owner := make([][]int, h)
	for row := range owner {
		owner[row] = make([]int, w)
		for col := range owner[row] {
			owner[row][col] = domain.Nearest(regions, cellPoint(row, col, w, h))
		}
	}

	markers := make(map[[2]int]int, len(regions))
	for i, r := range regions {
		row, col := pointCell(r.Anchor, w, h)
		markers[[2]int{row, col}] = i
	}

	selectedStyle := lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	hoverStyle := lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)

	var b strings.Builder
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			idx := owner[row][col]
			if m, ok := markers[[2]int{row, col}]; ok {
				id := regions[m].ID
				switch {
				case id == hovered:
					b.WriteString(hoverStyle.Render(RegionMarker(m)))
				case selected[id]:
					b.WriteString(selectedStyle.Render(RegionMarker(m)))
				default:
					b.WriteString(StyleFg.Render(RegionMarker(m)))
				}
				continue
			}
			if idx < 0 {
				b.WriteString(" ")
				continue
			}
			id := regions[idx].ID
			switch {
			case selected[id]:
				b.WriteString(selectedStyle.Render("▓"))
			case id == hovered:
				b.WriteString(hoverStyle.Render("░"))
			default:
				b.WriteString(StyleDim.Render("·"))
			}
		}
		if row < h-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderBodyLegend lists each marker with its region name, selected
// regions highlighted.
func RenderBodyLegend(regions []domain.Region, selected map[string]bool) string {
	parts := make([]string, len(regions))
	for i, r := range regions {
		label := RegionMarker(i) + " " + r.Name
		if selected[r.ID] {
			parts[i] = StyleHeader.Render(label)
		} else {
			parts[i] = Dim(label)
		}
	}
	return strings.Join(parts, "  ")
}

// BodyMapPoint maps a cell of the rendered canvas back onto the 0..100
// diagram plane. ok is false outside the canvas.
func BodyMapPoint(row, col int) (p domain.Point, ok bool) {
	if row < 0 || row >= BodyMapHeight || col < 0 || col >= BodyMapWidth {
		return domain.Point{}, false
	}
	return cellPoint(row, col, BodyMapWidth, BodyMapHeight), true
}

// BodyMapCell returns the canvas cell drawn for p.
func BodyMapCell(p domain.Point) (row, col int) {
	return pointCell(p, BodyMapWidth, BodyMapHeight)
}

func cellPoint(row, col, w, h int) domain.Point {
	return domain.Point{
		X: float64(col) * 100 / float64(w-1),
		Y: float64(row) * 100 / float64(h-1),
	}
}

func pointCell(p domain.Point, w, h int) (row, col int) {
	col = int(p.X*float64(w-1)/100 + 0.5)
	row = int(p.Y*float64(h-1)/100 + 0.5)
	return min(max(row, 0), h-1), min(max(col, 0), w-1)
}
