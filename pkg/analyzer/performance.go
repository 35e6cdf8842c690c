package analyzer

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/sitegauge/sitegauge/internal/models"
)

const (
	responseFast = 1000 // ms
	responseOK   = 2500
	responseSlow = 4000

	sizeLean  = 512 * 1024 // bytes
	sizeOK    = 1024 * 1024
	sizeHeavy = 2 * 1024 * 1024

	assetsLean = 15
	assetsOK   = 30
)

// analyzePerformance scores response time, payload size, and linked asset
// counts. When the page-speed connector delivered measured vitals, those
// take precedence for the section score and the local heuristic stays as
// the diagnostic fallback.
func analyzePerformance(doc *goquery.Document, responseTimeMs, pageSizeBytes int64, vitals *models.PerformanceResult) models.PerformanceSection {
	section := models.PerformanceSection{
		ResponseTimeMs: responseTimeMs,
		PageSizeBytes:  pageSizeBytes,
		Vitals:         vitals,
	}
	section.Issues = []string{}

	section.CSSAssets = doc.Find("link[rel='stylesheet']").Length()
	section.JSAssets = doc.Find("script[src]").Length()

	score := 0

	// Response time (40 points).
	switch {
	case responseTimeMs <= responseFast:
		score += 40
	case responseTimeMs <= responseOK:
		score += 25
		section.AddIssue(fmt.Sprintf("response took %dms, aim for under 1s", responseTimeMs))
	case responseTimeMs <= responseSlow:
		score += 10
		section.AddIssue(fmt.Sprintf("slow response: %dms", responseTimeMs))
	default:
		section.AddIssue(fmt.Sprintf("very slow response: %dms", responseTimeMs))
	}

	// Payload size (40 points).
	switch {
	case pageSizeBytes <= sizeLean:
		score += 40
	case pageSizeBytes <= sizeOK:
		score += 25
		section.AddIssue(fmt.Sprintf("page payload is %dKB, aim for under 512KB", pageSizeBytes/1024))
	case pageSizeBytes <= sizeHeavy:
		score += 10
		section.AddIssue(fmt.Sprintf("heavy page payload: %dKB", pageSizeBytes/1024))
	default:
		section.AddIssue(fmt.Sprintf("very heavy page payload: %dKB", pageSizeBytes/1024))
	}

	// Asset count (20 points).
	assets := section.CSSAssets + section.JSAssets
	switch {
	case assets <= assetsLean:
		score += 20
	case assets <= assetsOK:
		score += 10
		section.AddIssue(fmt.Sprintf("%d linked CSS/JS assets; consider bundling", assets))
	default:
		section.AddIssue(fmt.Sprintf("%d linked CSS/JS assets is excessive", assets))
	}

	if score > 100 {
		score = 100
	}
	section.Score = score

	if vitals != nil {
		if vitals.IsSuccess {
			// Measured data wins over the local heuristic.
			section.Score = vitals.Score
		} else if vitals.Error != "" {
			section.AddIssue("performance metrics are estimated: " + vitals.Error)
		}
	}
	return section
}
