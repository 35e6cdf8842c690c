package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeExternalComplete(t *testing.T) {
	html := `<html><head>
		<link rel="icon" href="/favicon.ico">
		<meta property="og:title" content="A Page">
		<meta property="og:description" content="About the page">
		<meta property="og:image" content="https://example.com/og.png">
		<meta property="og:url" content="https://example.com/">
		<meta name="twitter:card" content="summary_large_image">
		<script type="application/ld+json">
		{"@context": "https://schema.org", "@type": "Article", "headline": "A Page"}
		</script>
	</head><body></body></html>`

	section := analyzeExternal(parseDoc(t, html), "https://example.com/", nil)

	assert.Equal(t, 100, section.Score)
	assert.True(t, section.HTTPS)
	assert.True(t, section.HasFavicon)
	assert.True(t, section.OpenGraph.Complete)
	assert.True(t, section.HasTwitterCard)
	assert.Equal(t, []string{"Article"}, section.StructuredDataTypes)
	assert.Empty(t, section.Issues)
}

func TestAnalyzeExternalBarePage(t *testing.T) {
	section := analyzeExternal(parseDoc(t, "<html><head></head><body></body></html>"), "http://example.com/", nil)

	assert.Equal(t, 0, section.Score)
	assert.False(t, section.HTTPS)
	assert.NotEmpty(t, section.Issues)
}

func TestAnalyzeExternalPartialOpenGraph(t *testing.T) {
	html := `<html><head>
		<meta property="og:title" content="A Page">
		<meta property="og:image" content="https://example.com/og.png">
	</head></html>`

	section := analyzeExternal(parseDoc(t, html), "https://example.com/", nil)

	assert.False(t, section.OpenGraph.Complete)
	assert.True(t, section.OpenGraph.HasTitle)
	assert.True(t, section.OpenGraph.HasImage)
	found := false
	for _, issue := range section.Issues {
		if strings.Contains(issue, "og:description") && strings.Contains(issue, "og:url") {
			found = true
		}
	}
	assert.True(t, found, "expected a single issue listing the missing tags, got %v", section.Issues)
}

func TestAnalyzeExternalJSONLD(t *testing.T) {
	tests := []struct {
		name  string
		block string
		types []string
	}{
		{
			name:  "type array",
			block: `{"@type": ["Organization", "LocalBusiness"]}`,
			types: []string{"Organization", "LocalBusiness"},
		},
		{
			name:  "graph container",
			block: `{"@graph": [{"@type": "WebSite"}, {"@type": "WebPage"}]}`,
			types: []string{"WebSite", "WebPage"},
		},
		{
			name:  "top level array",
			block: `[{"@type": "FAQPage"}]`,
			types: []string{"FAQPage"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<html><head><script type="application/ld+json">` + tt.block + `</script></head></html>`
			section := analyzeExternal(parseDoc(t, html), "https://example.com/", nil)
			assert.Equal(t, tt.types, section.StructuredDataTypes)
		})
	}
}

func TestAnalyzeExternalMalformedJSONLD(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">{not json</script>
		<script type="application/ld+json">{"@type": "Article"}</script>
	</head></html>`

	section := analyzeExternal(parseDoc(t, html), "https://example.com/", nil)

	// The bad block is reported, the good one still counts.
	assert.Equal(t, []string{"Article"}, section.StructuredDataTypes)
	assert.Contains(t, section.Issues, "JSON-LD block 1 is not valid JSON")
}

func TestAnalyzeExternalEmptyMetaContentNotCounted(t *testing.T) {
	html := `<html><head><meta property="og:title" content="  "></head></html>`
	section := analyzeExternal(parseDoc(t, html), "https://example.com/", nil)
	assert.False(t, section.OpenGraph.HasTitle)
}
