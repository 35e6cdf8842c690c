package reporter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegauge/sitegauge/internal/models"
)

func sampleAnalysis() *models.Analysis {
	a := &models.Analysis{
		ID:           "abc-123",
		URL:          "https://example.com/",
		GeneratedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		OverallScore: 78,
	}
	a.Sections.Meta.Score = 90
	a.Sections.Quality.Score = 70
	a.Sections.Quality.Issues = []string{"thin content: 150 words, aim for at least 300"}
	a.Sections.Links.Score = 80
	a.Sections.Structure.Score = 85
	a.Sections.Performance.Score = 60
	a.Sections.Performance.Vitals = &models.PerformanceResult{
		IsSuccess:   false,
		Reliability: models.ReliabilityEstimated,
		Score:       60,
		Vitals: models.CoreWebVitals{
			LCP: models.MetricValue{Value: 2100, Score: 95, Category: "good"},
			CLS: models.MetricValue{Value: 0.05, Score: 95, Category: "good"},
		},
		Error: "page-speed API key not configured",
	}
	a.Sections.Crawlability.Score = 75
	a.Sections.External.Score = 85
	a.Sections.External.DomainTrust = &models.DomainTrustResult{
		Domain:      "example.com",
		Score:       70,
		Reliability: models.ReliabilityEstimated,
		Signals:     []string{"serves over https"},
	}
	return a
}

func TestRenderJSON(t *testing.T) {
	r := New()
	out, err := r.Render(sampleAnalysis(), "json")
	require.NoError(t, err)

	var decoded models.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "abc-123", decoded.ID)
	assert.Equal(t, 78, decoded.OverallScore)
	assert.Equal(t, 90, decoded.Sections.Meta.Score)
}

func TestRenderMarkdown(t *testing.T) {
	r := New()
	out, err := r.Render(sampleAnalysis(), "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "# SEO Audit: https://example.com/")
	assert.Contains(t, out, "78/100 (C)")
	assert.Contains(t, out, "| Meta Tags | 90 |")
	assert.Contains(t, out, "thin content")
	assert.Contains(t, out, "Core Web Vitals (estimated)")
	assert.Contains(t, out, "Domain Trust (estimated)")
}

func TestRenderHTML(t *testing.T) {
	r := New()
	out, err := r.Render(sampleAnalysis(), "html")
	require.NoError(t, err)

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "https://example.com/")
	assert.Contains(t, out, "78/100 (C)")
	assert.Contains(t, out, "Page Quality")
}

func TestRenderUnsupportedFormat(t *testing.T) {
	r := New()
	_, err := r.Render(sampleAnalysis(), "yaml")
	assert.Error(t, err)
}

func TestGrade(t *testing.T) {
	assert.Equal(t, "A", grade(95))
	assert.Equal(t, "B", grade(80))
	assert.Equal(t, "C", grade(72))
	assert.Equal(t, "D", grade(60))
	assert.Equal(t, "F", grade(40))
}
