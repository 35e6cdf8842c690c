package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/sitegauge/sitegauge/internal/models"
)

// Reporter renders an Analysis in the supported output formats.
type Reporter struct{}

func New() *Reporter {
	return &Reporter{}
}

// Render produces the report in the given format: json, markdown, or html.
func (r *Reporter) Render(analysis *models.Analysis, format string) (string, error) {
	switch format {
	case "json":
		return r.renderJSON(analysis)
	case "markdown":
		return r.renderMarkdown(analysis)
	case "html":
		return r.renderHTML(analysis)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (r *Reporter) renderJSON(analysis *models.Analysis) (string, error) {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data), nil
}

type sectionRow struct {
	Name   string
	Score  int
	Issues []string
}

func rows(a *models.Analysis) []sectionRow {
	s := a.Sections
	return []sectionRow{
		{"Meta Tags", s.Meta.Score, s.Meta.Issues},
		{"Page Quality", s.Quality.Score, s.Quality.Issues},
		{"Link Structure", s.Links.Score, s.Links.Issues},
		{"Page Structure", s.Structure.Score, s.Structure.Issues},
		{"Performance", s.Performance.Score, s.Performance.Issues},
		{"Crawlability", s.Crawlability.Score, s.Crawlability.Issues},
		{"External Factors", s.External.Score, s.External.Issues},
	}
}

func grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

func (r *Reporter) renderMarkdown(a *models.Analysis) (string, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# SEO Audit: %s\n\n", a.URL)
	fmt.Fprintf(&buf, "*Generated %s*\n\n", a.GeneratedAt.Format("January 2, 2006 15:04 MST"))
	fmt.Fprintf(&buf, "**Overall: %d/100 (%s)**\n\n", a.OverallScore, grade(a.OverallScore))

	fmt.Fprintf(&buf, "| Section | Score |\n")
	fmt.Fprintf(&buf, "|---------|-------|\n")
	for _, row := range rows(a) {
		fmt.Fprintf(&buf, "| %s | %d |\n", row.Name, row.Score)
	}
	fmt.Fprintf(&buf, "\n")

	for _, row := range rows(a) {
		if len(row.Issues) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "## %s\n\n", row.Name)
		for _, issue := range row.Issues {
			fmt.Fprintf(&buf, "- %s\n", issue)
		}
		fmt.Fprintf(&buf, "\n")
	}

	perf := a.Sections.Performance
	if perf.Vitals != nil {
		fmt.Fprintf(&buf, "## Core Web Vitals (%s)\n\n", perf.Vitals.Reliability)
		v := perf.Vitals.Vitals
		fmt.Fprintf(&buf, "| Metric | Value | Category |\n")
		fmt.Fprintf(&buf, "|--------|-------|----------|\n")
		fmt.Fprintf(&buf, "| LCP | %.0fms | %s |\n", v.LCP.Value, v.LCP.Category)
		fmt.Fprintf(&buf, "| FID | %.0fms | %s |\n", v.FID.Value, v.FID.Category)
		fmt.Fprintf(&buf, "| CLS | %.3f | %s |\n", v.CLS.Value, v.CLS.Category)
		fmt.Fprintf(&buf, "| FCP | %.0fms | %s |\n", v.FCP.Value, v.FCP.Category)
		fmt.Fprintf(&buf, "| Speed Index | %.0fms | %s |\n", v.SpeedIndex.Value, v.SpeedIndex.Category)
		fmt.Fprintf(&buf, "\n")
	}

	if trust := a.Sections.External.DomainTrust; trust != nil && trust.Error == "" {
		fmt.Fprintf(&buf, "## Domain Trust (%s)\n\n", trust.Reliability)
		fmt.Fprintf(&buf, "**%s: %d/100**\n\n", trust.Domain, trust.Score)
		for _, signal := range trust.Signals {
			fmt.Fprintf(&buf, "- %s\n", signal)
		}
		fmt.Fprintf(&buf, "\n")
	}

	return buf.String(), nil
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"grade": grade,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>SEO Audit - {{.Analysis.URL}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; max-width: 960px; margin: 0 auto; padding: 20px; color: #333; }
        .header { background: linear-gradient(135deg, #1d976c 0%, #2b5876 100%); color: white; padding: 2rem; border-radius: 10px; }
        .overall { font-size: 2.5rem; font-weight: bold; }
        .section { background: #f8f9fa; border-radius: 8px; padding: 1rem 1.5rem; margin: 1rem 0; }
        .score { float: right; font-size: 1.5rem; font-weight: bold; color: #2b5876; }
        .issue { border-left: 3px solid #ffc107; padding-left: 0.75rem; margin: 0.5rem 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>SEO Audit</h1>
        <p>{{.Analysis.URL}}</p>
        <div class="overall">{{.Analysis.OverallScore}}/100 ({{grade .Analysis.OverallScore}})</div>
        <p>Generated {{.Analysis.GeneratedAt.Format "January 2, 2006 15:04 MST"}}</p>
    </div>
    {{range .Rows}}
    <div class="section">
        <span class="score">{{.Score}}</span>
        <h2>{{.Name}}</h2>
        {{range .Issues}}<div class="issue">{{.}}</div>{{end}}
    </div>
    {{end}}
</body>
</html>
`))

func (r *Reporter) renderHTML(a *models.Analysis) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Analysis *models.Analysis
		Rows     []sectionRow
	}{a, rows(a)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
