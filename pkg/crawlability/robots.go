package crawlability

import (
	"bufio"
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/temoto/robotstxt"

	"github.com/sitegauge/sitegauge/internal/models"
)

// ParseRobots parses robots.txt line by line. Real-world files are
// frequently malformed, so violations become issues and parsing continues;
// only structural faults (orphan directives, lines without a separator)
// make the file invalid.
func ParseRobots(data []byte) models.RobotsAnalysis {
	analysis := models.RobotsAnalysis{
		Exists:      true,
		Blocks:      []string{},
		Allows:      []string{},
		UserAgents:  []string{},
		SitemapURLs: []string{},
		Issues:      []string{},
	}

	structuralFaults := 0
	sawAgent := false
	lineNo := 0

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		sep := strings.Index(line, ":")
		if sep < 0 {
			analysis.Issues = append(analysis.Issues,
				fmt.Sprintf("line %d: missing ':' separator", lineNo))
			structuralFaults++
			continue
		}

		directive := strings.ToLower(strings.TrimSpace(line[:sep]))
		value := strings.TrimSpace(line[sep+1:])

		switch directive {
		case "user-agent":
			sawAgent = true
			if value == "" {
				analysis.Issues = append(analysis.Issues,
					fmt.Sprintf("line %d: empty User-agent", lineNo))
				continue
			}
			analysis.UserAgents = append(analysis.UserAgents, value)

		case "disallow", "allow", "crawl-delay":
			if !sawAgent {
				analysis.Issues = append(analysis.Issues,
					fmt.Sprintf("line %d: %s directive before any User-agent", lineNo, directive))
				structuralFaults++
				continue
			}
			switch directive {
			case "disallow":
				// An empty Disallow means "allow everything" and is not a block.
				if value != "" {
					analysis.Blocks = append(analysis.Blocks, value)
				}
			case "allow":
				if value != "" {
					analysis.Allows = append(analysis.Allows, value)
				}
			case "crawl-delay":
				delay, err := strconv.ParseFloat(value, 64)
				if err != nil || delay < 0 {
					analysis.Issues = append(analysis.Issues,
						fmt.Sprintf("line %d: invalid Crawl-delay value %q", lineNo, value))
					continue
				}
				analysis.CrawlDelay = &delay
			}

		case "sitemap":
			u, err := url.Parse(value)
			if err != nil || !u.IsAbs() || u.Host == "" {
				analysis.Issues = append(analysis.Issues,
					fmt.Sprintf("line %d: Sitemap is not a well-formed absolute URL: %q", lineNo, value))
				continue
			}
			analysis.SitemapURLs = append(analysis.SitemapURLs, value)

		default:
			analysis.Issues = append(analysis.Issues,
				fmt.Sprintf("line %d: unknown directive %q", lineNo, directive))
		}
	}

	analysis.IsValid = structuralFaults == 0
	return analysis
}

// pageBlocked asks the robotstxt library whether the audited path is
// disallowed for our agent. The hand-rolled parser above exists for
// reporting; this is the authoritative access check.
func pageBlocked(data []byte, path, agent string) bool {
	robots, err := robotstxt.FromBytes(data)
	if err != nil {
		return false
	}
	if path == "" {
		path = "/"
	}
	return !robots.TestAgent(path, agent)
}
