package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/sitegauge/sitegauge/internal/config"
	"github.com/sitegauge/sitegauge/internal/models"
)

// Core Web Vitals category thresholds (ms, except CLS which is unitless).
const (
	lcpGood, lcpPoor               = 2500.0, 4000.0
	fidGood, fidPoor               = 100.0, 300.0
	clsGood, clsPoor               = 0.1, 0.25
	fcpGood, fcpPoor               = 1800.0, 3000.0
	speedIndexGood, speedIndexPoor = 3400.0, 5800.0
)

// PageSpeed calls a third-party page-speed API and maps its result into
// Core-Web-Vitals shape. Without an API key, or when the call fails, it
// degrades to a local estimate derived from the measured response time and
// payload size; the result then carries IsSuccess=false and an explicit
// error so the fallback never pretends to be measured data.
type PageSpeed struct {
	cfg    config.PageSpeedConfig
	client *http.Client
	log    *logrus.Logger
}

func NewPageSpeed(cfg config.PageSpeedConfig, log *logrus.Logger) *PageSpeed {
	return &PageSpeed{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// Score produces the performance result for a page. responseTimeMs and
// pageSizeBytes feed the fallback estimate only.
func (p *PageSpeed) Score(ctx context.Context, pageURL, strategy string, responseTimeMs, pageSizeBytes int64) models.PerformanceResult {
	if strategy == "" {
		strategy = p.cfg.Strategy
	}

	if p.cfg.APIKey == "" {
		return p.estimate(strategy, responseTimeMs, pageSizeBytes,
			"page-speed API key not configured")
	}

	result, err := p.callAPI(ctx, pageURL, strategy)
	if err != nil {
		p.log.WithError(err).WithField("url", pageURL).Warn("page-speed API call failed, using local estimate")
		return p.estimate(strategy, responseTimeMs, pageSizeBytes,
			fmt.Sprintf("page-speed API unavailable: %v", err))
	}
	return result
}

type psiAudit struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Score        *float64 `json:"score"`
	NumericValue float64  `json:"numericValue"`
	DisplayValue string   `json:"displayValue"`
	Details      struct {
		Type             string  `json:"type"`
		OverallSavingsMs float64 `json:"overallSavingsMs"`
	} `json:"details"`
}

type psiResponse struct {
	LighthouseResult struct {
		Categories struct {
			Performance struct {
				Score float64 `json:"score"`
			} `json:"performance"`
		} `json:"categories"`
		Audits map[string]psiAudit `json:"audits"`
	} `json:"lighthouseResult"`
}

func (p *PageSpeed) callAPI(ctx context.Context, pageURL, strategy string) (models.PerformanceResult, error) {
	query := url.Values{}
	query.Set("url", pageURL)
	query.Set("strategy", strategy)
	query.Set("key", p.cfg.APIKey)
	query.Set("category", "performance")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.Endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return models.PerformanceResult{}, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return models.PerformanceResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.PerformanceResult{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload psiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.PerformanceResult{}, fmt.Errorf("decoding response: %w", err)
	}

	audits := payload.LighthouseResult.Audits
	result := models.PerformanceResult{
		IsSuccess:   true,
		Reliability: models.ReliabilityMeasured,
		Strategy:    strategy,
		Score:       int(payload.LighthouseResult.Categories.Performance.Score*100 + 0.5),
		Vitals: models.CoreWebVitals{
			LCP:        metricFromAudit(audits["largest-contentful-paint"], lcpGood, lcpPoor),
			FID:        metricFromAudit(audits["max-potential-fid"], fidGood, fidPoor),
			CLS:        metricFromAudit(audits["cumulative-layout-shift"], clsGood, clsPoor),
			FCP:        metricFromAudit(audits["first-contentful-paint"], fcpGood, fcpPoor),
			SpeedIndex: metricFromAudit(audits["speed-index"], speedIndexGood, speedIndexPoor),
		},
		Opportunities: []models.Opportunity{},
		Diagnostics:   []models.Diagnostic{},
	}

	for id, audit := range audits {
		switch audit.Details.Type {
		case "opportunity":
			if audit.Details.OverallSavingsMs > 0 {
				result.Opportunities = append(result.Opportunities, models.Opportunity{
					ID:        id,
					Title:     audit.Title,
					SavingsMs: audit.Details.OverallSavingsMs,
				})
			}
		case "diagnostic":
			result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
				ID:           id,
				Title:        audit.Title,
				DisplayValue: audit.DisplayValue,
			})
		}
	}
	sort.Slice(result.Opportunities, func(i, j int) bool {
		if result.Opportunities[i].SavingsMs == result.Opportunities[j].SavingsMs {
			return result.Opportunities[i].ID < result.Opportunities[j].ID
		}
		return result.Opportunities[i].SavingsMs > result.Opportunities[j].SavingsMs
	})
	sort.Slice(result.Diagnostics, func(i, j int) bool {
		return result.Diagnostics[i].ID < result.Diagnostics[j].ID
	})

	return result, nil
}

// estimate derives vitals solely from the measured response time and
// payload size. The numbers are synthetic projections, labeled as such.
func (p *PageSpeed) estimate(strategy string, responseTimeMs, pageSizeBytes int64, reason string) models.PerformanceResult {
	rt := float64(responseTimeMs)

	lcp := rt * 2.5
	fid := rt * 0.1
	if fid > 400 {
		fid = 400
	}
	fcp := rt * 1.2
	speedIndex := rt * 3
	cls := 0.05 // unknowable without rendering, assume stable layout

	sizePenalty := 0
	switch kb := pageSizeBytes / 1024; {
	case kb > 2048:
		sizePenalty = 30
	case kb > 1024:
		sizePenalty = 20
	case kb > 512:
		sizePenalty = 10
	}

	vitals := models.CoreWebVitals{
		LCP:        metricFromValue(lcp, lcpGood, lcpPoor),
		FID:        metricFromValue(fid, fidGood, fidPoor),
		CLS:        metricFromValue(cls, clsGood, clsPoor),
		FCP:        metricFromValue(fcp, fcpGood, fcpPoor),
		SpeedIndex: metricFromValue(speedIndex, speedIndexGood, speedIndexPoor),
	}

	score := (vitals.LCP.Score + vitals.FID.Score + vitals.CLS.Score + vitals.FCP.Score + vitals.SpeedIndex.Score) / 5
	score -= sizePenalty
	if score < 0 {
		score = 0
	}

	return models.PerformanceResult{
		IsSuccess:     false,
		Reliability:   models.ReliabilityEstimated,
		Strategy:      strategy,
		Score:         score,
		Vitals:        vitals,
		Opportunities: []models.Opportunity{},
		Diagnostics:   []models.Diagnostic{},
		Error:         reason,
	}
}

func metricFromAudit(audit psiAudit, good, poor float64) models.MetricValue {
	m := metricFromValue(audit.NumericValue, good, poor)
	if audit.Score != nil {
		m.Score = int(*audit.Score*100 + 0.5)
	}
	return m
}

func metricFromValue(value, good, poor float64) models.MetricValue {
	category := "good"
	score := 95
	switch {
	case value > poor:
		category = "poor"
		score = 25
	case value > good:
		category = "needs-improvement"
		score = 60
	}
	return models.MetricValue{Value: value, Score: score, Category: category}
}
