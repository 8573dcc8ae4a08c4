package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alexanderramin/prescreen/internal/domain"
	"github.com/yuin/goldmark"
)

const meterWidth = 20

// FormatResult renders an assessment for the terminal: overview, risk
// card, urgency bar, causes and numbered actions.
func FormatResult(r domain.AnalysisResult, width int) string {
	var b strings.Builder

	b.WriteString(Header("Preliminary Assessment"))
	b.WriteString("\n")
	b.WriteString(Wrap(r.Overview, width))
	b.WriteString("\n\n")

	b.WriteString(Header("Risk Level"))
	b.WriteString("\n")
	b.WriteString(RiskIndicator(r.Risk))
	b.WriteString("  ")
	b.WriteString(RenderMeter(float64(r.Risk.RiskScore())/100, meterWidth, RiskColor(r.Risk)))
	b.WriteString("\n\n")

	b.WriteString(Header("Urgency"))
	b.WriteString("\n")
	b.WriteString(RenderMeter(float64(r.Urgency)/domain.MaxUrgency, meterWidth, UrgencyColor(r.Urgency)))
	b.WriteString(" ")
	b.WriteString(UrgencyColor(r.Urgency).Render(fmt.Sprintf("%d/%d", r.Urgency, domain.MaxUrgency)))
	b.WriteString("\n\n")

	b.WriteString(Header("Potential Causes"))
	b.WriteString("\n")
	b.WriteString(BulletList(r.Causes))
	b.WriteString("\n\n")

	b.WriteString(Header("Recommended Actions"))
	b.WriteString("\n")
	b.WriteString(NumberedList(r.Actions))
	b.WriteString("\n")

	return b.String()
}

// ResultMarkdown renders an assessment as a Markdown document.
func ResultMarkdown(r domain.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("# Preliminary Assessment\n\n")
	b.WriteString(strings.TrimSpace(r.Overview))
	b.WriteString("\n\n")

	risk := string(r.Risk)
	if risk != "" {
		risk = strings.ToUpper(risk[:1]) + risk[1:]
	}
	fmt.Fprintf(&b, "**Risk level:** %s  \n**Urgency:** %d/%d\n\n", risk, r.Urgency, domain.MaxUrgency)

	b.WriteString("## Potential Causes\n\n")
	for _, c := range r.Causes {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\n## Recommended Actions\n\n")
	for i, a := range r.Actions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a)
	}
	return b.String()
}

// ResultHTML renders an assessment as a standalone HTML page. Raw HTML in
// the assessment text is omitted.
func ResultHTML(r domain.AnalysisResult) (string, error) {
	var body bytes.Buffer
	if err := goldmark.New().Convert([]byte(ResultMarkdown(r)), &body); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>Preliminary Assessment</title>\n")
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}
