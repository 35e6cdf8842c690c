package extractor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func article(paragraphs int) string {
	var b strings.Builder
	for i := 0; i < paragraphs; i++ {
		fmt.Fprintf(&b, "<p>Paragraph %d carries enough real sentences that the readability pass treats this as genuine article content worth keeping around.</p>\n", i)
	}
	return b.String()
}

func TestExtractArticle(t *testing.T) {
	body := []byte(`<!DOCTYPE html>
<html>
<head><title>An Article About Go</title></head>
<body>
	<nav><a href="/">Home</a><a href="/posts">Posts</a></nav>
	<article>
		<h1>An Article About Go</h1>
		` + article(6) + `
	</article>
	<footer>Site footer with navigation and legal text.</footer>
</body>
</html>`)

	ex := New()
	analysis := ex.Extract(body, "https://example.com/posts/go")

	assert.NotEmpty(t, analysis.MainContent)
	assert.Greater(t, analysis.MainContentWordCount, 50)
	assert.Greater(t, analysis.TotalWordCount, 0)
	assert.GreaterOrEqual(t, analysis.ContentRatio, 0.0)
	assert.LessOrEqual(t, analysis.ContentRatio, 100.0)
	assert.Greater(t, analysis.ReadingTime, 0)
	assert.Contains(t, []string{"readability", "selector", "body"}, analysis.Source)
	assert.NotEmpty(t, analysis.Title)
}

func TestExtractSelectorFallback(t *testing.T) {
	// Too little structure for readability, but a #content div big enough
	// for the selector pass.
	body := []byte(`<html><head><title>t</title></head><body>
		<div id="content">` + strings.Repeat("meaningful words here ", 20) + `</div>
	</body></html>`)

	ex := New()
	analysis := ex.Extract(body, "https://example.com/")

	assert.Greater(t, analysis.MainContentWordCount, 0)
	assert.Contains(t, []string{"readability", "selector"}, analysis.Source)
}

func TestExtractBodyFallback(t *testing.T) {
	body := []byte(`<html><head><title>t</title>
		<script>var tracking = "noise";</script>
	</head><body>
		<nav>Home About</nav>
		<p>Just a few words.</p>
		<footer>footer text</footer>
	</body></html>`)

	ex := New()
	analysis := ex.Extract(body, "https://example.com/")

	assert.Equal(t, "body", analysis.Source)
	// Boilerplate containers are stripped before counting.
	assert.NotContains(t, analysis.MainContent, "tracking")
	assert.NotContains(t, analysis.MainContent, "footer text")
	assert.Contains(t, analysis.MainContent, "Just a few words.")
}

func TestExtractEmptyDocument(t *testing.T) {
	ex := New()
	analysis := ex.Extract([]byte("<html><body></body></html>"), "https://example.com/")

	assert.Equal(t, 0, analysis.MainContentWordCount)
	assert.Equal(t, 0, analysis.ReadingTime)
	assert.Equal(t, 0.0, analysis.ContentRatio)
}

func TestExtractCapsStoredContent(t *testing.T) {
	body := []byte(`<html><head><title>t</title></head><body><article>` + article(100) + `</article></body></html>`)

	ex := New()
	analysis := ex.Extract(body, "https://example.com/")

	// The excerpt is capped; the word count still reflects the full text.
	assert.LessOrEqual(t, len(analysis.MainContent), maxStoredContent+len("..."))
	assert.Greater(t, analysis.MainContentWordCount, 1000)
}

func TestExtractRatioNeverExceedsHundred(t *testing.T) {
	body := []byte(`<html><body><main>` + article(4) + `</main></body></html>`)

	ex := New()
	analysis := ex.Extract(body, "https://example.com/")

	assert.LessOrEqual(t, analysis.ContentRatio, 100.0)
}
