// Package text renders the visible text of parsed HTML.
package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// hiddenElements never contribute visible text
const hiddenElements = "script, style, noscript, template"

// Of returns the text of every descendant text node of sel, joined by single
// spaces with runs of whitespace collapsed
func Of(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		collect(n, &parts)
	}
	return strings.Join(parts, " ")
}

func collect(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if fields := strings.Fields(n.Data); len(fields) > 0 {
			*parts = append(*parts, strings.Join(fields, " "))
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, parts)
	}
}

// StripHidden removes elements whose content is never rendered as text
func StripHidden(doc *goquery.Document) {
	doc.Find(hiddenElements).Remove()
}
