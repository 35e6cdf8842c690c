package crawlability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRobots(t *testing.T) {
	data := []byte(`User-agent: *
Disallow: /admin
Allow: /admin/public
Crawl-delay: 2.5
Sitemap: https://example.com/sitemap.xml
`)

	analysis := ParseRobots(data)

	assert.True(t, analysis.Exists)
	assert.True(t, analysis.IsValid)
	assert.Equal(t, []string{"*"}, analysis.UserAgents)
	assert.Equal(t, []string{"/admin"}, analysis.Blocks)
	assert.Equal(t, []string{"/admin/public"}, analysis.Allows)
	require.NotNil(t, analysis.CrawlDelay)
	assert.Equal(t, 2.5, *analysis.CrawlDelay)
	assert.Equal(t, []string{"https://example.com/sitemap.xml"}, analysis.SitemapURLs)
	assert.Empty(t, analysis.Issues)
}

func TestParseRobotsTolerance(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantValid bool
	}{
		{
			name:      "comments and blank lines",
			data:      "# header\n\nUser-agent: *\nDisallow: /x # inline\n",
			wantValid: true,
		},
		{
			name:      "unknown directive is an issue only",
			data:      "User-agent: *\nNoindex: /private\n",
			wantValid: true,
		},
		{
			name:      "missing separator is structural",
			data:      "User-agent *\nDisallow: /x\n",
			wantValid: false,
		},
		{
			name:      "orphan disallow is structural",
			data:      "Disallow: /x\n",
			wantValid: false,
		},
		{
			name:      "empty disallow allows everything",
			data:      "User-agent: *\nDisallow:\n",
			wantValid: true,
		},
		{
			name:      "case insensitive directives",
			data:      "USER-AGENT: googlebot\nDISALLOW: /y\n",
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := ParseRobots([]byte(tt.data))
			assert.Equal(t, tt.wantValid, analysis.IsValid)
		})
	}
}

func TestParseRobotsByteOrderMark(t *testing.T) {
	data := append([]byte("\ufeff"), []byte("User-agent: *\nDisallow: /admin\n")...)

	analysis := ParseRobots(data)

	assert.True(t, analysis.IsValid)
	assert.Equal(t, []string{"*"}, analysis.UserAgents)
	assert.Equal(t, []string{"/admin"}, analysis.Blocks)
	assert.Empty(t, analysis.Issues)
}

func TestParseRobotsEmptyDisallowNotABlock(t *testing.T) {
	analysis := ParseRobots([]byte("User-agent: *\nDisallow:\n"))
	assert.Empty(t, analysis.Blocks)
}

func TestParseRobotsBadSitemapURL(t *testing.T) {
	analysis := ParseRobots([]byte("User-agent: *\nSitemap: /relative.xml\n"))
	assert.Empty(t, analysis.SitemapURLs)
	assert.True(t, analysis.IsValid)
	assert.NotEmpty(t, analysis.Issues)
}

func TestParseRobotsInvalidCrawlDelay(t *testing.T) {
	analysis := ParseRobots([]byte("User-agent: *\nCrawl-delay: fast\n"))
	assert.Nil(t, analysis.CrawlDelay)
	assert.NotEmpty(t, analysis.Issues)
}

func TestPageBlocked(t *testing.T) {
	data := []byte("User-agent: *\nDisallow: /admin\n")

	assert.True(t, pageBlocked(data, "/admin/settings", "sitegauge"))
	assert.False(t, pageBlocked(data, "/about", "sitegauge"))
	assert.False(t, pageBlocked(data, "", "sitegauge"))
}
