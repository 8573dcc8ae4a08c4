package formatter

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/prescreen/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// FormatRegions renders the region catalog as a table.
func FormatRegions(version string, regions []domain.Region) string {
	rows := make([][]string, len(regions))
	for i, r := range regions {
		rows[i] = []string{
			RegionMarker(i),
			r.ID,
			r.Name,
			fmt.Sprintf("%s,%s", num(r.Anchor.X), num(r.Anchor.Y)),
			num(r.Radius),
		}
	}

	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		Headers("#", "ID", "NAME", "ANCHOR", "RADIUS").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return StyleHeader.PaddingRight(2)
			}
			return cell
		})

	return Header("Body Regions") + "\n" + t.Render() + "\n" + Dim("catalog "+version) + "\n"
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
