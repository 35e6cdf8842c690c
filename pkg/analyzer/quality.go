package analyzer

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/sitegauge/sitegauge/internal/models"
)

const wordCountFloor = 300

// analyzeQuality scores content depth, image alt coverage, and H1 usage.
func analyzeQuality(doc *goquery.Document, content models.ContentAnalysis) models.QualitySection {
	section := models.QualitySection{Content: content}
	section.Issues = []string{}

	section.WordCount = content.MainContentWordCount
	if section.WordCount == 0 {
		section.WordCount = content.TotalWordCount
	}
	section.H1Count = doc.Find("h1").Length()

	images := doc.Find("img")
	section.ImageCount = images.Length()
	images.Each(func(_ int, s *goquery.Selection) {
		if alt, exists := s.Attr("alt"); exists && alt != "" {
			section.ImagesWithAlt++
		}
	})
	if section.ImageCount > 0 {
		section.AltCoverage = float64(section.ImagesWithAlt) / float64(section.ImageCount)
	}

	score := 0

	// Content depth (40 points).
	switch {
	case section.WordCount >= wordCountFloor:
		score += 40
	case section.WordCount >= 100:
		score += 20
		section.AddIssue(fmt.Sprintf("thin content: %d words, aim for at least %d", section.WordCount, wordCountFloor))
	default:
		section.AddIssue(fmt.Sprintf("very little content: %d words", section.WordCount))
	}

	// H1 usage (30 points). Zero and multiple H1s are different problems.
	switch {
	case section.H1Count == 1:
		score += 30
	case section.H1Count == 0:
		section.AddIssue("page has no H1 heading")
	default:
		score += 10
		section.AddIssue(fmt.Sprintf("page has %d H1 headings, use exactly one", section.H1Count))
	}

	// Image alt coverage (30 points). No images means nothing to flag.
	switch {
	case section.ImageCount == 0:
		score += 30
	case section.ImagesWithAlt == section.ImageCount:
		score += 30
	case section.ImagesWithAlt > 0:
		score += 15
		section.AddIssue(fmt.Sprintf("%d of %d images lack alt text", section.ImageCount-section.ImagesWithAlt, section.ImageCount))
	default:
		section.AddIssue("no image has alt text")
	}

	// A low share of primary content suggests heavy boilerplate.
	if content.TotalWordCount > 0 && content.ContentRatio < 25 {
		section.AddIssue(fmt.Sprintf("main content is only %.0f%% of the page text", content.ContentRatio))
	}

	if score > 100 {
		score = 100
	}
	section.Score = score
	return section
}
