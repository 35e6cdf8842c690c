package crawlability

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/sitegauge/sitegauge/internal/models"
)

// maxSitemapURLs is the sitemap protocol's per-file limit.
const maxSitemapURLs = 50000

// ParseSitemap parses sitemap XML with a streaming decoder so a malformed
// tail does not discard counts already gathered. A <sitemapindex> yields
// the child sitemap URLs without fetching them; a <urlset> counts <url>,
// <image:image>, and <video:video> entries.
func ParseSitemap(data []byte) models.SitemapAnalysis {
	analysis := models.SitemapAnalysis{
		Exists:        true,
		IndexSitemaps: []string{},
		Issues:        []string{},
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = false

	rootSeen := false
	inSitemapEntry := false
	var locBuf *strings.Builder

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			analysis.Issues = append(analysis.Issues, fmt.Sprintf("malformed XML: %v", err))
			analysis.IsValid = false
			return analysis
		}

		switch t := token.(type) {
		case xml.StartElement:
			local := t.Name.Local
			if !rootSeen {
				rootSeen = true
				switch local {
				case "sitemapindex":
					analysis.IsIndex = true
				case "urlset":
				default:
					analysis.Issues = append(analysis.Issues,
						fmt.Sprintf("unexpected root element <%s>", local))
					return analysis
				}
				continue
			}
			switch {
			case analysis.IsIndex && local == "sitemap":
				inSitemapEntry = true
			case analysis.IsIndex && inSitemapEntry && local == "loc":
				locBuf = &strings.Builder{}
			case !analysis.IsIndex && local == "url":
				analysis.URLCount++
			case !analysis.IsIndex && local == "image":
				analysis.ImageCount++
			case !analysis.IsIndex && local == "video":
				analysis.VideoCount++
			}

		case xml.CharData:
			if locBuf != nil {
				locBuf.Write(t)
			}

		case xml.EndElement:
			switch {
			case locBuf != nil && t.Name.Local == "loc":
				loc := strings.TrimSpace(locBuf.String())
				if loc != "" {
					analysis.IndexSitemaps = append(analysis.IndexSitemaps, loc)
				}
				locBuf = nil
			case inSitemapEntry && t.Name.Local == "sitemap":
				inSitemapEntry = false
			}
		}
	}

	if !rootSeen {
		analysis.Issues = append(analysis.Issues, "empty document, expected <urlset> or <sitemapindex>")
		return analysis
	}

	analysis.IsValid = true
	if analysis.IsIndex {
		analysis.URLCount = len(analysis.IndexSitemaps)
		if analysis.URLCount == 0 {
			analysis.Issues = append(analysis.Issues, "sitemap index lists no sitemaps")
		}
	} else {
		if analysis.URLCount == 0 {
			analysis.Issues = append(analysis.Issues, "sitemap contains no URLs")
		}
		if analysis.URLCount > maxSitemapURLs {
			analysis.Issues = append(analysis.Issues,
				fmt.Sprintf("sitemap lists %d URLs, over the %d limit; split it into an index", analysis.URLCount, maxSitemapURLs))
		}
	}
	return analysis
}
