package enrich

import (
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// scoreClasses are the class names searched for a score before falling back
// to the whole page body.
var scoreClasses = []string{"rating", "score", "review-summary"}

// ScrapeScore returns the first score found in a review page.
func ScrapeScore(r io.Reader) (float64, bool, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return 0, false, err
	}
	for _, area := range textAreas(doc) {
		if v, ok := NormalizeScore(area); ok {
			return v, true, nil
		}
	}
	return 0, false, nil
}

// textAreas returns the text of every element with each score class, one
// string per class, followed by the body text.
func textAreas(doc *html.Node) []string {
	byClass := make([]strings.Builder, len(scoreClasses))
	var body strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
			classes := strings.Fields(attr(n, "class"))
			for i, c := range scoreClasses {
				if slices.Contains(classes, c) {
					writeText(&byClass[i], n)
				}
			}
			if n.DataAtom == atom.Body {
				writeText(&body, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	areas := make([]string, 0, len(scoreClasses)+1)
	for i := range byClass {
		if s := byClass[i].String(); strings.TrimSpace(s) != "" {
			areas = append(areas, s)
		}
	}
	if s := body.String(); strings.TrimSpace(s) != "" {
		areas = append(areas, s)
	}
	return areas
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// writeText appends the text content of n, skipping scripts and styles.
// Element boundaries become spaces so adjacent cells do not merge.
func writeText(b *strings.Builder, n *html.Node) {
	switch {
	case n.Type == html.TextNode:
		b.WriteString(n.Data)
		return
	case n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style):
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if n.Type == html.ElementNode {
		b.WriteByte(' ')
	}
}
