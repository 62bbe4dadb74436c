// Package discover finds links on a landing page that probably lead to product listings.
package discover

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pricecrawl/internal/price"
	"github.com/law-makers/pricecrawl/internal/utils/text"
	urlutil "github.com/law-makers/pricecrawl/internal/utils/url"
)

// ProductPathKeywords mark a URL as product-like when found in its lowercased form
var ProductPathKeywords = []string{"/product", "/products", "/item", "/p/", "/sku", "/collections", "/category"}

var skippedPrefixes = []string{"#", "tel:", "mailto:", "javascript:"}

// ProductLinks returns the absolute URLs of anchors in html that sit next to a
// price or whose path looks like a product or category page. When includePaths
// is non-empty a URL must contain at least one of them. Order is first seen.
func ProductLinks(baseURL, html string, includePaths []string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || skipped(href) {
			return
		}

		full := urlutil.ResolveURL(baseURL, href)
		if seen[full] {
			return
		}
		if len(includePaths) > 0 && !containsAny(full, includePaths) {
			return
		}

		nearby := text.Of(a) + " " + text.Of(a.Parent())
		if price.HasPrice(nearby) || containsAny(strings.ToLower(full), ProductPathKeywords) {
			seen[full] = true
			links = append(links, full)
		}
	})

	return links
}

func skipped(href string) bool {
	lower := strings.ToLower(href)
	for _, prefix := range skippedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
