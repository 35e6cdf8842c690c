package crawlability

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/sitegauge/sitegauge/internal/models"
	"github.com/sitegauge/sitegauge/pkg/fetcher"
	"github.com/sitegauge/sitegauge/pkg/textutil"
)

// Fixed point allocations per criterion; the weighted sum caps at 100.
const (
	robotsExistsPoints    = 15
	robotsValidPoints     = 15
	sitemapExistsPoints   = 15
	sitemapValidPoints    = 15
	canonicalPoints       = 10
	canonicalValidPoints  = 7
	canonicalSelfPoints   = 8
	langPoints            = 8
	langValidPoints       = 7
)

// BCP 47-ish primary subtag with optional subtags.
var langPattern = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z0-9]{1,8})*$`)

// Analyzer fetches and evaluates a site's crawl surface: robots.txt,
// sitemap, and the page's canonical/lang declarations.
type Analyzer struct {
	fetcher   *fetcher.Fetcher
	userAgent string
	log       *logrus.Logger
}

func NewAnalyzer(f *fetcher.Fetcher, userAgent string, log *logrus.Logger) *Analyzer {
	return &Analyzer{fetcher: f, userAgent: userAgent, log: log}
}

// Analyze builds the crawlability section. Auxiliary fetch failures degrade
// the section and never abort the audit.
func (a *Analyzer) Analyze(ctx context.Context, pageURL string, doc *goquery.Document) models.CrawlabilitySection {
	section := models.CrawlabilitySection{}
	section.Issues = []string{}

	pageU, err := url.Parse(pageURL)
	if err != nil {
		section.AddIssue(fmt.Sprintf("page URL could not be parsed: %v", err))
		return section
	}
	origin := pageU.Scheme + "://" + pageU.Host

	section.Robots = a.analyzeRobots(ctx, origin, pageU.Path)
	section.Sitemap = a.analyzeSitemap(ctx, origin, section.Robots.SitemapURLs)
	section.Canonical = analyzeCanonical(doc, pageURL)
	section.Lang = analyzeLang(doc)

	a.score(&section)
	return section
}

func (a *Analyzer) analyzeRobots(ctx context.Context, origin, pagePath string) models.RobotsAnalysis {
	robotsURL := origin + "/robots.txt"
	data, found, err := a.fetcher.FetchAux(ctx, robotsURL)
	if err != nil {
		a.log.WithError(err).WithField("url", robotsURL).Debug("robots.txt fetch failed")
		return degradedRobots(fmt.Sprintf("robots.txt could not be fetched: %v", err))
	}
	if !found {
		return degradedRobots("robots.txt not found")
	}

	analysis := ParseRobots(data)
	analysis.PageBlocked = pageBlocked(data, pagePath, a.userAgent)
	if analysis.PageBlocked {
		analysis.Issues = append(analysis.Issues, "the audited page is disallowed by robots.txt")
	}
	return analysis
}

func (a *Analyzer) analyzeSitemap(ctx context.Context, origin string, robotsSitemaps []string) models.SitemapAnalysis {
	sitemapURL := origin + "/sitemap.xml"
	if len(robotsSitemaps) > 0 {
		sitemapURL = robotsSitemaps[0]
	}

	data, found, err := a.fetcher.FetchAux(ctx, sitemapURL)
	if err != nil {
		a.log.WithError(err).WithField("url", sitemapURL).Debug("sitemap fetch failed")
		return degradedSitemap(fmt.Sprintf("sitemap could not be fetched: %v", err))
	}
	if !found {
		return degradedSitemap("no sitemap found")
	}
	return ParseSitemap(data)
}

// degradedRobots and degradedSitemap keep the slice fields non-nil so the
// degraded and parsed paths serialize with the same shape.
func degradedRobots(issue string) models.RobotsAnalysis {
	return models.RobotsAnalysis{
		Blocks:      []string{},
		Allows:      []string{},
		UserAgents:  []string{},
		SitemapURLs: []string{},
		Issues:      []string{issue},
	}
}

func degradedSitemap(issue string) models.SitemapAnalysis {
	return models.SitemapAnalysis{
		IndexSitemaps: []string{},
		Issues:        []string{issue},
	}
}

func analyzeCanonical(doc *goquery.Document, pageURL string) models.CanonicalCheck {
	check := models.CanonicalCheck{}
	href, exists := doc.Find("link[rel='canonical']").First().Attr("href")
	if !exists || strings.TrimSpace(href) == "" {
		return check
	}
	check.Present = true
	check.Href = strings.TrimSpace(href)

	u, err := url.Parse(check.Href)
	if err == nil && u.IsAbs() && u.Host != "" {
		check.IsValid = true
		check.SelfReferencing = textutil.SameURL(check.Href, pageURL)
	}
	return check
}

func analyzeLang(doc *goquery.Document) models.LangCheck {
	check := models.LangCheck{}
	lang, exists := doc.Find("html").First().Attr("lang")
	if !exists || strings.TrimSpace(lang) == "" {
		return check
	}
	check.Present = true
	check.Value = strings.TrimSpace(lang)
	check.IsValid = langPattern.MatchString(check.Value)
	return check
}

func (a *Analyzer) score(section *models.CrawlabilitySection) {
	score := 0

	if section.Robots.Exists {
		score += robotsExistsPoints
		if section.Robots.IsValid {
			score += robotsValidPoints
		} else {
			section.AddIssue("robots.txt has structural faults")
		}
	} else {
		section.AddIssue("no robots.txt; crawlers receive no guidance")
	}

	if section.Sitemap.Exists {
		score += sitemapExistsPoints
		if section.Sitemap.IsValid {
			score += sitemapValidPoints
		} else {
			section.AddIssue("sitemap XML is not valid")
		}
	} else {
		section.AddIssue("no XML sitemap found")
	}

	if section.Canonical.Present {
		score += canonicalPoints
		if section.Canonical.IsValid {
			score += canonicalValidPoints
		} else {
			section.AddIssue("canonical link is not an absolute URL")
		}
		if section.Canonical.SelfReferencing {
			score += canonicalSelfPoints
		} else if section.Canonical.IsValid {
			section.AddIssue("canonical link points to a different URL")
		}
	} else {
		section.AddIssue("no canonical link tag")
	}

	if section.Lang.Present {
		score += langPoints
		if section.Lang.IsValid {
			score += langValidPoints
		} else {
			section.AddIssue(fmt.Sprintf("lang attribute %q is not a valid language tag", section.Lang.Value))
		}
	} else {
		section.AddIssue("missing lang attribute on <html>")
	}

	if score > 100 {
		score = 100
	}
	section.Score = score
}
