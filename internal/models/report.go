package models

import "time"

// AuditRequest is the input to a single page audit.
type AuditRequest struct {
	URL      string `json:"url"`
	Strategy string `json:"strategy,omitempty"` // "mobile" or "desktop"
}

// Analysis is the full audit report for one page.
type Analysis struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	GeneratedAt  time.Time `json:"generatedAt"`
	OverallScore int       `json:"overallScore"`
	Sections     Sections  `json:"sections"`
}

// Sections groups the per-facet results. Every member embeds SectionResult,
// so each carries a 0-100 score and its own issue list.
type Sections struct {
	Meta         MetaSection         `json:"meta"`
	Quality      QualitySection      `json:"pageQuality"`
	Links        LinkSection         `json:"linkStructure"`
	Structure    StructureSection    `json:"pageStructure"`
	Performance  PerformanceSection  `json:"performance"`
	Crawlability CrawlabilitySection `json:"crawlability"`
	External     ExternalSection     `json:"externalFactors"`
}

// Scores returns every section score in declaration order.
func (s Sections) Scores() []int {
	return []int{
		s.Meta.Score,
		s.Quality.Score,
		s.Links.Score,
		s.Structure.Score,
		s.Performance.Score,
		s.Crawlability.Score,
		s.External.Score,
	}
}

// SectionResult is the part every section has in common.
type SectionResult struct {
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
}

// AddIssue appends a human-readable problem description to the section.
func (r *SectionResult) AddIssue(issue string) {
	r.Issues = append(r.Issues, issue)
}

// TagCheck describes a single meta element (title or description).
type TagCheck struct {
	Text       string `json:"text"`
	Length     int    `json:"length"`
	Present    bool   `json:"present"`
	IsOptimal  bool   `json:"isOptimal"`
	Duplicates int    `json:"duplicates"`
}

type MetaSection struct {
	SectionResult
	Title       TagCheck `json:"title"`
	Description TagCheck `json:"description"`
}

type QualitySection struct {
	SectionResult
	WordCount     int             `json:"wordCount"`
	H1Count       int             `json:"h1Count"`
	ImageCount    int             `json:"imageCount"`
	ImagesWithAlt int             `json:"imagesWithAlt"`
	AltCoverage   float64         `json:"altCoverage"`
	Content       ContentAnalysis `json:"content"`
}

type LinkSection struct {
	SectionResult
	TotalLinks    int `json:"totalLinks"`
	InternalLinks int `json:"internalLinks"`
	ExternalLinks int `json:"externalLinks"`
	EmptyAnchors  int `json:"emptyAnchors"`
	// BrokenLinks is populated only when a link checker is plugged in;
	// the engine itself does not verify reachability.
	BrokenLinks int `json:"brokenLinks"`
}

type StructureSection struct {
	SectionResult
	MaxDepth      int            `json:"maxDepth"`
	HeadingCounts map[string]int `json:"headingCounts"`
	HeadingSkips  int            `json:"headingSkips"`
	HasMain       bool           `json:"hasMain"`
	HasNav        bool           `json:"hasNav"`
	HasHeader     bool           `json:"hasHeader"`
	HasFooter     bool           `json:"hasFooter"`
}

type PerformanceSection struct {
	SectionResult
	ResponseTimeMs int64              `json:"responseTimeMs"`
	PageSizeBytes  int64              `json:"pageSizeBytes"`
	CSSAssets      int                `json:"cssAssets"`
	JSAssets       int                `json:"jsAssets"`
	Vitals         *PerformanceResult `json:"vitals,omitempty"`
}

type CrawlabilitySection struct {
	SectionResult
	Robots    RobotsAnalysis  `json:"robots"`
	Sitemap   SitemapAnalysis `json:"sitemap"`
	Canonical CanonicalCheck  `json:"canonical"`
	Lang      LangCheck       `json:"lang"`
}

type ExternalSection struct {
	SectionResult
	HTTPS               bool               `json:"https"`
	HasFavicon          bool               `json:"hasFavicon"`
	OpenGraph           OpenGraphCheck     `json:"openGraph"`
	HasTwitterCard      bool               `json:"hasTwitterCard"`
	StructuredDataTypes []string           `json:"structuredDataTypes"`
	DomainTrust         *DomainTrustResult `json:"domainTrust,omitempty"`
}

// OpenGraphCheck records which of the core og: properties are present.
type OpenGraphCheck struct {
	HasTitle       bool `json:"hasTitle"`
	HasDescription bool `json:"hasDescription"`
	HasImage       bool `json:"hasImage"`
	HasURL         bool `json:"hasUrl"`
	Complete       bool `json:"complete"`
}

type CanonicalCheck struct {
	Present         bool   `json:"present"`
	Href            string `json:"href"`
	IsValid         bool   `json:"isValid"`
	SelfReferencing bool   `json:"selfReferencing"`
}

type LangCheck struct {
	Present bool   `json:"present"`
	Value   string `json:"value"`
	IsValid bool   `json:"isValid"`
}

// RobotsAnalysis is the parsed view of a site's robots.txt. Built once per
// audit from a single fetch and never mutated afterward.
type RobotsAnalysis struct {
	Exists      bool     `json:"exists"`
	IsValid     bool     `json:"isValid"`
	Blocks      []string `json:"blocks"`
	Allows      []string `json:"allows"`
	CrawlDelay  *float64 `json:"crawlDelay,omitempty"`
	UserAgents  []string `json:"userAgents"`
	SitemapURLs []string `json:"sitemapUrls"`
	PageBlocked bool     `json:"pageBlocked"`
	Issues      []string `json:"issues"`
}

// SitemapAnalysis summarizes a sitemap or sitemap-index document. For an
// index the child sitemap URLs are listed but not fetched.
type SitemapAnalysis struct {
	Exists        bool     `json:"exists"`
	IsValid       bool     `json:"isValid"`
	IsIndex       bool     `json:"isIndex"`
	URLCount      int      `json:"urlCount"`
	ImageCount    int      `json:"imageCount"`
	VideoCount    int      `json:"videoCount"`
	IndexSitemaps []string `json:"indexSitemaps"`
	Issues        []string `json:"issues"`
}

// ContentAnalysis describes the page's primary textual content as isolated
// by the extractor.
type ContentAnalysis struct {
	MainContentWordCount int     `json:"mainContentWordCount"`
	TotalWordCount       int     `json:"totalWordCount"`
	ContentRatio         float64 `json:"contentRatio"`
	ReadingTime          int     `json:"readingTime"`
	MainContent          string  `json:"mainContent"`
	Title                string  `json:"title"`
	Byline               string  `json:"byline,omitempty"`
	Excerpt              string  `json:"excerpt,omitempty"`
	Source               string  `json:"source"`
}

// Reliability labels whether a result came from a real measurement source
// or a local estimate. Estimated numbers are never presented as measured.
type Reliability string

const (
	ReliabilityMeasured  Reliability = "measured"
	ReliabilityEstimated Reliability = "estimated"
)

// MetricValue is one Core-Web-Vitals style metric.
type MetricValue struct {
	Value    float64 `json:"value"`
	Score    int     `json:"score"`
	Category string  `json:"category"` // good | needs-improvement | poor
}

type CoreWebVitals struct {
	LCP        MetricValue `json:"lcp"`
	FID        MetricValue `json:"fid"`
	CLS        MetricValue `json:"cls"`
	FCP        MetricValue `json:"fcp"`
	SpeedIndex MetricValue `json:"speedIndex"`
}

// Opportunity is a potential improvement ranked by estimated savings.
type Opportunity struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	SavingsMs float64 `json:"savingsMs"`
}

type Diagnostic struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	DisplayValue string `json:"displayValue,omitempty"`
}

// PerformanceResult is the outcome of the page-speed connector. When the
// upstream API is unavailable the result still carries a score derived from
// local measurements, with IsSuccess false and Error populated.
type PerformanceResult struct {
	IsSuccess     bool          `json:"isSuccess"`
	Reliability   Reliability   `json:"reliability"`
	Strategy      string        `json:"strategy"`
	Score         int           `json:"score"`
	Vitals        CoreWebVitals `json:"metrics"`
	Opportunities []Opportunity `json:"opportunities"`
	Diagnostics   []Diagnostic  `json:"diagnostics"`
	Error         string        `json:"error,omitempty"`
}

// DomainTrustResult is a domain-authority style estimate built from cheap
// local signals. Reliability is "estimated" unless a paid backend is wired.
type DomainTrustResult struct {
	Domain         string      `json:"domain"`
	Score          int         `json:"score"`
	Reliability    Reliability `json:"reliability"`
	DomainAgeYears int         `json:"domainAgeYears"`
	AgeKnown       bool        `json:"ageKnown"`
	Signals        []string    `json:"signals"`
	Error          string      `json:"error,omitempty"`
}
