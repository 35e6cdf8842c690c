package analyzer

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/sitegauge/sitegauge/internal/models"
)

const (
	depthGood = 15
	depthWarn = 25
)

var headingTags = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// analyzeStructure checks DOM nesting depth, heading-level monotonicity,
// and the presence of semantic landmark elements.
func analyzeStructure(doc *goquery.Document) models.StructureSection {
	section := models.StructureSection{HeadingCounts: map[string]int{}}
	section.Issues = []string{}

	for _, tag := range headingTags {
		if n := doc.Find(tag).Length(); n > 0 {
			section.HeadingCounts[tag] = n
		}
	}

	if root := doc.Get(0); root != nil {
		section.MaxDepth = domDepth(root)
	}

	section.HasMain = doc.Find("main, [role='main']").Length() > 0
	section.HasNav = doc.Find("nav, [role='navigation']").Length() > 0
	section.HasHeader = doc.Find("header").Length() > 0
	section.HasFooter = doc.Find("footer").Length() > 0

	// Heading monotonicity: levels must not skip downward (h1 -> h3).
	prev := 0
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level := int(s.Get(0).Data[1] - '0')
		switch {
		case prev == 0 && level > 1:
			section.HeadingSkips++
			section.AddIssue(fmt.Sprintf("first heading is an h%d, expected h1", level))
		case prev > 0 && level > prev+1:
			section.HeadingSkips++
			section.AddIssue(fmt.Sprintf("heading level jumps from h%d to h%d", prev, level))
		}
		prev = level
	})

	score := 0

	// Heading hierarchy (40 points).
	if section.HeadingSkips == 0 {
		score += 40
	} else if penalty := 10 * section.HeadingSkips; penalty < 40 {
		score += 40 - penalty
	}

	// Nesting depth (30 points).
	switch {
	case section.MaxDepth <= depthGood:
		score += 30
	case section.MaxDepth <= depthWarn:
		score += 15
		section.AddIssue(fmt.Sprintf("DOM nesting is deep (%d levels)", section.MaxDepth))
	default:
		section.AddIssue(fmt.Sprintf("DOM nesting is excessive (%d levels)", section.MaxDepth))
	}

	// Semantic landmarks (30 points).
	if section.HasMain {
		score += 10
	} else {
		section.AddIssue("no <main> landmark")
	}
	if section.HasNav {
		score += 10
	} else {
		section.AddIssue("no <nav> landmark")
	}
	if section.HasHeader {
		score += 5
	}
	if section.HasFooter {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	section.Score = score
	return section
}

// domDepth walks the tree with an explicit stack; recursion would be a
// liability on pathologically nested documents.
func domDepth(root *html.Node) int {
	type frame struct {
		node  *html.Node
		depth int
	}
	stack := []frame{{root, 0}}
	max := 0
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		depth := top.depth
		if top.node.Type == html.ElementNode {
			depth++
			if depth > max {
				max = depth
			}
		}
		for child := top.node.FirstChild; child != nil; child = child.NextSibling {
			stack = append(stack, frame{child, depth})
		}
	}
	return max
}
