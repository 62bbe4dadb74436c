package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pricecrawl/internal/price"
	urlutil "github.com/law-makers/pricecrawl/internal/utils/url"
	"github.com/law-makers/pricecrawl/pkg/models"
)

// MetaStrategy reads a single product from Open Graph and product meta tags.
// It is the last resort for product detail pages that carry no listing markup.
type MetaStrategy struct{}

// Name returns the strategy name
func (MetaStrategy) Name() string { return "meta" }

// Extract implements Strategy
func (MetaStrategy) Extract(doc *goquery.Document, baseURL string) []models.Product {
	meta := metaTags(doc)

	amount := firstOf(meta, "product:price:amount", "og:price:amount")
	if amount == "" {
		return nil
	}
	currency := strings.ToUpper(firstOf(meta, "product:price:currency", "og:price:currency"))

	p := models.Product{
		Name:         firstOf(meta, "og:title", "twitter:title"),
		RawPriceText: strings.TrimSpace(amount + " " + currency),
		Currency:     currency,
		Status:       metaAvailability(firstOf(meta, "product:availability", "og:availability")),
	}
	if p.Name == "" {
		p.Name = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if v, err := strconv.ParseFloat(strings.ReplaceAll(amount, ",", ""), 64); err == nil {
		p.PriceValue = &v
	} else if value, cur, raw := price.Parse(amount); value != nil {
		p.PriceValue, p.RawPriceText = value, raw
		if p.Currency == "" {
			p.Currency = cur
		}
	}

	p.URL = baseURL
	if u := firstOf(meta, "og:url"); u != "" {
		p.URL = urlutil.ResolveURL(baseURL, u)
	}
	return []models.Product{p}
}

// metaTags collects <meta> content by name and property
func metaTags(doc *goquery.Document) map[string]string {
	meta := make(map[string]string)
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		content := strings.TrimSpace(sel.AttrOr("content", ""))
		if content == "" {
			return
		}
		for _, attr := range []string{"name", "property", "itemprop"} {
			if key, ok := sel.Attr(attr); ok {
				key = strings.ToLower(strings.TrimSpace(key))
				if _, seen := meta[key]; !seen {
					meta[key] = content
				}
			}
		}
	})
	return meta
}

func firstOf(meta map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := meta[k]; v != "" {
			return v
		}
	}
	return ""
}

func metaAvailability(v string) models.Availability {
	switch strings.ToLower(strings.ReplaceAll(v, " ", "")) {
	case "instock", "in_stock", "available", "preorder":
		return models.StatusAvailable
	case "oos", "outofstock", "out_of_stock", "soldout", "discontinued":
		return models.StatusOutOfStock
	}
	return price.Availability(v)
}
