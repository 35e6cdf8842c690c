package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/sitegauge/sitegauge/internal/models"
)

// Length bands considered optimal for the two meta elements.
const (
	titleMinLen, titleMaxLen = 30, 60
	descMinLen, descMaxLen   = 120, 160
)

// analyzeMeta scores the title and meta-description tags. Duplicate tags
// are a distinct issue class on top of the length scoring.
func analyzeMeta(doc *goquery.Document) models.MetaSection {
	section := models.MetaSection{}
	section.Issues = []string{}

	titles := doc.Find("title")
	section.Title = checkTag(
		strings.TrimSpace(titles.First().Text()),
		titles.Length(),
		titleMinLen, titleMaxLen,
	)

	descs := doc.Find("meta[name='description']")
	descText, _ := descs.First().Attr("content")
	section.Description = checkTag(
		strings.TrimSpace(descText),
		descs.Length(),
		descMinLen, descMaxLen,
	)

	score := 0
	score += scoreTag(&section.SectionResult, section.Title, "title", titleMinLen, titleMaxLen)
	score += scoreTag(&section.SectionResult, section.Description, "meta description", descMinLen, descMaxLen)
	if score > 100 {
		score = 100
	}
	section.Score = score
	return section
}

func checkTag(text string, occurrences, minLen, maxLen int) models.TagCheck {
	check := models.TagCheck{
		Text:    text,
		Length:  utf8.RuneCountInString(text),
		Present: text != "",
	}
	if occurrences > 1 {
		check.Duplicates = occurrences - 1
	}
	check.IsOptimal = check.Present &&
		check.Duplicates == 0 &&
		check.Length >= minLen && check.Length <= maxLen
	return check
}

// scoreTag allocates up to 50 points per tag: 20 presence, 20 length band,
// 10 uniqueness.
func scoreTag(result *models.SectionResult, check models.TagCheck, name string, minLen, maxLen int) int {
	score := 0
	if !check.Present {
		result.AddIssue(fmt.Sprintf("missing %s", name))
		return 0
	}
	score += 20

	switch {
	case check.Length < minLen:
		score += 8
		result.AddIssue(fmt.Sprintf("%s is too short (%d chars, optimal %d-%d)", name, check.Length, minLen, maxLen))
	case check.Length > maxLen:
		score += 8
		result.AddIssue(fmt.Sprintf("%s is too long (%d chars, optimal %d-%d)", name, check.Length, minLen, maxLen))
	default:
		score += 20
	}

	if check.Duplicates > 0 {
		result.AddIssue(fmt.Sprintf("%d duplicate %s tag(s)", check.Duplicates, name))
	} else {
		score += 10
	}
	return score
}
