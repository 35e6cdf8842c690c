package analyzer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/publicsuffix"

	"github.com/sitegauge/sitegauge/internal/models"
	"github.com/sitegauge/sitegauge/pkg/textutil"
)

const (
	minInternalLinks = 3
	maxExternalLinks = 50
)

// analyzeLinks classifies links as internal or external by comparing the
// registrable domain of the target to the page's own. It also returns the
// resolved URLs so an optional link checker can verify reachability; the
// analyzer itself never touches the network.
func analyzeLinks(doc *goquery.Document, pageURL string) (models.LinkSection, []string) {
	section := models.LinkSection{}
	section.Issues = []string{}

	base, err := url.Parse(pageURL)
	if err != nil {
		section.AddIssue(fmt.Sprintf("page URL could not be parsed: %v", err))
		return section, nil
	}
	pageDomain := registrableDomain(base.Hostname())

	seen := map[string]bool{}
	var resolved []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || href == "#" ||
			strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "tel:") ||
			strings.HasPrefix(href, "javascript:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		key := abs.String()
		if seen[key] {
			return
		}
		seen[key] = true

		section.TotalLinks++
		resolved = append(resolved, key)
		if registrableDomain(abs.Hostname()) == pageDomain {
			section.InternalLinks++
		} else {
			section.ExternalLinks++
		}
		if textutil.CleanText(s.Text()) == "" && s.Find("img[alt]").Length() == 0 {
			section.EmptyAnchors++
		}
	})

	score := 0

	// Internal linking (40 points).
	switch {
	case section.InternalLinks >= minInternalLinks:
		score += 40
	case section.InternalLinks > 0:
		score += 20
		section.AddIssue(fmt.Sprintf("only %d internal links, aim for at least %d", section.InternalLinks, minInternalLinks))
	default:
		section.AddIssue("no internal links found")
	}

	// External linking (30 points).
	switch {
	case section.ExternalLinks == 0:
		section.AddIssue("no external links; linking to authoritative sources builds credibility")
	case section.ExternalLinks > maxExternalLinks:
		score += 15
		section.AddIssue(fmt.Sprintf("%d external links dilute the page's focus", section.ExternalLinks))
	default:
		score += 30
	}

	// Anchor hygiene (30 points).
	if section.EmptyAnchors == 0 {
		score += 30
	} else {
		penalty := 5 * section.EmptyAnchors
		if penalty < 30 {
			score += 30 - penalty
		}
		section.AddIssue(fmt.Sprintf("%d links have no anchor text", section.EmptyAnchors))
	}

	if score > 100 {
		score = 100
	}
	section.Score = score
	return section, resolved
}

func registrableDomain(host string) string {
	if host == "" {
		return ""
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return strings.ToLower(host)
	}
	return strings.ToLower(domain)
}
