package extractor

import (
	"bytes"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"

	"github.com/sitegauge/sitegauge/internal/models"
	"github.com/sitegauge/sitegauge/pkg/textutil"
)

// minContentLength is the character threshold below which a readability
// extraction is considered to have missed the real content.
const minContentLength = 200

// maxStoredContent caps the main-content excerpt carried in the report.
// Word counts are taken from the full text before capping.
const maxStoredContent = 4096

// fallbackSelectors are tried in order when readability extraction comes up
// short. The largest match above the threshold wins.
var fallbackSelectors = []string{
	"main",
	"article",
	"[role='main']",
	"#content",
	"#main-content",
	".content",
	".main-content",
	".post-content",
	".entry-content",
	".article-body",
}

// boilerplate holds the elements stripped before body-text fallback and
// total word counting.
const boilerplate = "script, style, noscript, nav, header, footer, aside"

// Extractor isolates a page's primary textual content from boilerplate.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract never fails: the worst case is stripped body text with a low
// content ratio, which downstream quality checks flag as an issue.
func (e *Extractor) Extract(body []byte, pageURL string) models.ContentAnalysis {
	analysis := models.ContentAnalysis{Source: "body"}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		// Unparseable bytes: treat the whole payload as text.
		text := textutil.CleanText(string(body))
		analysis.MainContent = textutil.TruncateText(text, maxStoredContent)
		analysis.MainContentWordCount = textutil.CountWords(text)
		analysis.TotalWordCount = analysis.MainContentWordCount
		analysis.ContentRatio = ratio(analysis.MainContentWordCount, analysis.TotalWordCount)
		analysis.ReadingTime = textutil.ReadingTime(analysis.MainContentWordCount)
		return analysis
	}

	analysis.Title = textutil.CleanText(doc.Find("title").First().Text())
	analysis.TotalWordCount = textutil.CountWords(strippedBodyText(doc))

	mainText, source := e.mainContent(body, pageURL, doc, &analysis)
	analysis.Source = source
	analysis.MainContent = textutil.TruncateText(mainText, maxStoredContent)
	analysis.MainContentWordCount = textutil.CountWords(mainText)
	analysis.ContentRatio = ratio(analysis.MainContentWordCount, analysis.TotalWordCount)
	analysis.ReadingTime = textutil.ReadingTime(analysis.MainContentWordCount)
	return analysis
}

// mainContent runs the readability pass and the ordered fallbacks.
func (e *Extractor) mainContent(body []byte, pageURL string, doc *goquery.Document, analysis *models.ContentAnalysis) (string, string) {
	opts := trafilatura.Options{}
	if u, err := url.Parse(pageURL); err == nil {
		opts.OriginalURL = u
	}
	if result, err := trafilatura.Extract(bytes.NewReader(body), opts); err == nil && result != nil {
		text := textutil.CleanText(result.ContentText)
		if len(text) >= minContentLength {
			if result.Metadata.Title != "" {
				analysis.Title = result.Metadata.Title
			}
			analysis.Byline = result.Metadata.Author
			analysis.Excerpt = result.Metadata.Description
			return text, "readability"
		}
	}

	if text := e.bySelectors(doc); text != "" {
		return text, "selector"
	}

	return strippedBodyText(doc), "body"
}

// bySelectors walks the common main-content selectors and keeps the largest
// text above the threshold.
func (e *Extractor) bySelectors(doc *goquery.Document) string {
	best := ""
	for _, sel := range fallbackSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			text := textutil.CleanText(s.Text())
			if len(text) >= minContentLength && len(text) > len(best) {
				best = text
			}
		})
	}
	return best
}

func strippedBodyText(doc *goquery.Document) string {
	bodyClone := doc.Find("body").Clone()
	bodyClone.Find(boilerplate).Remove()
	return textutil.CleanText(bodyClone.Text())
}

// ratio returns main/total as a percentage clamped to [0,100].
func ratio(main, total int) float64 {
	if total <= 0 {
		return 0
	}
	r := float64(main) / float64(total) * 100
	if r > 100 {
		return 100
	}
	if r < 0 {
		return 0
	}
	return r
}
