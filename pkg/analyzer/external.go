package analyzer

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sitegauge/sitegauge/internal/models"
)

// analyzeExternal checks HTTPS, favicon, Open Graph and Twitter Card tags,
// and JSON-LD structured data. Malformed JSON-LD blocks are skipped with an
// issue; they never fail the analysis.
func analyzeExternal(doc *goquery.Document, pageURL string, trust *models.DomainTrustResult) models.ExternalSection {
	section := models.ExternalSection{
		StructuredDataTypes: []string{},
		DomainTrust:         trust,
	}
	section.Issues = []string{}

	score := 0

	// HTTPS (30 points).
	if u, err := url.Parse(pageURL); err == nil && u.Scheme == "https" {
		section.HTTPS = true
		score += 30
	} else {
		section.AddIssue("page is not served over HTTPS")
	}

	// Favicon (10 points).
	section.HasFavicon = doc.Find("link[rel='icon'], link[rel='shortcut icon'], link[rel='apple-touch-icon']").Length() > 0
	if section.HasFavicon {
		score += 10
	} else {
		section.AddIssue("no favicon link")
	}

	// Open Graph completeness (25 points).
	og := models.OpenGraphCheck{
		HasTitle:       hasMetaProperty(doc, "og:title"),
		HasDescription: hasMetaProperty(doc, "og:description"),
		HasImage:       hasMetaProperty(doc, "og:image"),
		HasURL:         hasMetaProperty(doc, "og:url"),
	}
	og.Complete = og.HasTitle && og.HasDescription && og.HasImage && og.HasURL
	section.OpenGraph = og
	if og.Complete {
		score += 25
	} else {
		have := 0
		for _, present := range []bool{og.HasTitle, og.HasDescription, og.HasImage, og.HasURL} {
			if present {
				have++
			}
		}
		score += have * 6
		if missing := missingOGTags(og); len(missing) > 0 {
			section.AddIssue("incomplete Open Graph tags, missing: " + strings.Join(missing, ", "))
		}
	}

	// Twitter Card (15 points).
	section.HasTwitterCard = doc.Find("meta[name='twitter:card']").Length() > 0
	if section.HasTwitterCard {
		score += 15
	} else {
		section.AddIssue("no Twitter Card tags")
	}

	// JSON-LD structured data (20 points).
	blockNo := 0
	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		blockNo++
		types, err := jsonLDTypes(s.Text())
		if err != nil {
			section.AddIssue(fmt.Sprintf("JSON-LD block %d is not valid JSON", blockNo))
			return
		}
		section.StructuredDataTypes = append(section.StructuredDataTypes, types...)
	})
	if len(section.StructuredDataTypes) > 0 {
		score += 20
	} else {
		section.AddIssue("no structured data (JSON-LD) found")
	}

	if score > 100 {
		score = 100
	}
	section.Score = score
	return section
}

func hasMetaProperty(doc *goquery.Document, property string) bool {
	content, exists := doc.Find(fmt.Sprintf("meta[property='%s']", property)).First().Attr("content")
	return exists && strings.TrimSpace(content) != ""
}

func missingOGTags(og models.OpenGraphCheck) []string {
	var missing []string
	if !og.HasTitle {
		missing = append(missing, "og:title")
	}
	if !og.HasDescription {
		missing = append(missing, "og:description")
	}
	if !og.HasImage {
		missing = append(missing, "og:image")
	}
	if !og.HasURL {
		missing = append(missing, "og:url")
	}
	return missing
}

// jsonLDTypes extracts @type values from a JSON-LD block, descending into
// @graph containers and top-level arrays.
func jsonLDTypes(raw string) ([]string, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	var types []string
	collectTypes(data, &types)
	return types, nil
}

func collectTypes(data interface{}, types *[]string) {
	switch v := data.(type) {
	case map[string]interface{}:
		switch t := v["@type"].(type) {
		case string:
			*types = append(*types, t)
		case []interface{}:
			for _, entry := range t {
				if s, ok := entry.(string); ok {
					*types = append(*types, s)
				}
			}
		}
		if graph, ok := v["@graph"].([]interface{}); ok {
			for _, entry := range graph {
				collectTypes(entry, types)
			}
		}
	case []interface{}:
		for _, entry := range v {
			collectTypes(entry, types)
		}
	}
}
