package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sitegauge/sitegauge/internal/models"
	"github.com/sitegauge/sitegauge/pkg/connectors"
	"github.com/sitegauge/sitegauge/pkg/crawlability"
	"github.com/sitegauge/sitegauge/pkg/extractor"
	"github.com/sitegauge/sitegauge/pkg/fetcher"
	"github.com/sitegauge/sitegauge/pkg/textutil"
)

// LinkChecker verifies link reachability and returns the number of broken
// links. The engine declares the seam but ships no implementation; link
// verification is outside the audit's scope.
type LinkChecker interface {
	CheckLinks(ctx context.Context, urls []string) int
}

// Engine runs a complete single-page audit. It holds no cross-request
// state, so audits may run fully in parallel.
type Engine struct {
	fetcher      *fetcher.Fetcher
	extractor    *extractor.Extractor
	crawlability *crawlability.Analyzer
	pageSpeed    *connectors.PageSpeed
	domainTrust  *connectors.DomainTrust
	linkChecker  LinkChecker
	log          *logrus.Logger
	now          func() time.Time
}

// Option configures the Engine.
type Option func(*Engine)

// WithLinkChecker plugs in a broken-link verifier.
func WithLinkChecker(lc LinkChecker) Option {
	return func(e *Engine) { e.linkChecker = lc }
}

// WithClock overrides the report timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine wires the audit pipeline. Every collaborator is constructed by
// the caller and injected; the engine owns none of their lifecycles.
func NewEngine(f *fetcher.Fetcher, ex *extractor.Extractor, cr *crawlability.Analyzer, ps *connectors.PageSpeed, dt *connectors.DomainTrust, log *logrus.Logger, opts ...Option) *Engine {
	e := &Engine{
		fetcher:      f,
		extractor:    ex,
		crawlability: cr,
		pageSpeed:    ps,
		domainTrust:  dt,
		log:          log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Audit fetches the page and produces the full report. Only a failure to
// retrieve the primary page aborts the audit; auxiliary failures degrade
// their own sections and the rest completes.
func (e *Engine) Audit(ctx context.Context, req models.AuditRequest) (*models.Analysis, error) {
	pageURL, err := textutil.NormalizeURL(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", req.URL, err)
	}

	start := time.Now()
	page, err := e.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{
		"url":   pageURL,
		"ms":    page.ResponseTimeMs,
		"bytes": page.ContentLength,
	}).Debug("page fetched")

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, &fetcher.FetchError{URL: pageURL, Err: fmt.Errorf("parsing HTML: %w", err)}
	}

	// The network-bound sub-analyzers run concurrently with the local
	// CPU-bound sections; each owns its timeout and cannot stall the rest.
	var (
		wg           sync.WaitGroup
		crawlSection models.CrawlabilitySection
		perfResult   models.PerformanceResult
		trustResult  models.DomainTrustResult
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		crawlSection = e.crawlability.Analyze(ctx, pageURL, doc)
	}()
	go func() {
		defer wg.Done()
		perfResult = e.pageSpeed.Score(ctx, pageURL, req.Strategy, page.ResponseTimeMs, page.ContentLength)
	}()
	go func() {
		defer wg.Done()
		trustResult = e.domainTrust.Estimate(ctx, pageURL)
	}()

	content := e.extractor.Extract(page.Body, pageURL)
	metaSection := analyzeMeta(doc)
	qualitySection := analyzeQuality(doc, content)
	linkSection, linkURLs := analyzeLinks(doc, pageURL)
	structureSection := analyzeStructure(doc)

	if e.linkChecker != nil {
		linkSection.BrokenLinks = e.linkChecker.CheckLinks(ctx, linkURLs)
	}

	wg.Wait()

	perfSection := analyzePerformance(doc, page.ResponseTimeMs, page.ContentLength, &perfResult)
	externalSection := analyzeExternal(doc, pageURL, &trustResult)

	analysis := &models.Analysis{
		ID:          uuid.New().String(),
		URL:         pageURL,
		GeneratedAt: e.now().UTC(),
		Sections: models.Sections{
			Meta:         metaSection,
			Quality:      qualitySection,
			Links:        linkSection,
			Structure:    structureSection,
			Performance:  perfSection,
			Crawlability: crawlSection,
			External:     externalSection,
		},
	}
	analysis.OverallScore = aggregate(analysis.Sections.Scores())

	e.log.WithFields(logrus.Fields{
		"url":     pageURL,
		"score":   analysis.OverallScore,
		"elapsed": time.Since(start).Round(time.Millisecond).String(),
	}).Info("audit complete")
	return analysis, nil
}

// aggregate is the unweighted mean of the section scores. Each section
// self-clamps to [0,100], so the mean cannot leave that range.
func aggregate(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(len(scores))))
}
