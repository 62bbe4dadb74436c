package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pricecrawl/internal/price"
	"github.com/law-makers/pricecrawl/internal/utils/text"
	urlutil "github.com/law-makers/pricecrawl/internal/utils/url"
	"github.com/law-makers/pricecrawl/pkg/models"
)

// CardSelectors are the product container selectors tried by CardStrategy, in order
var CardSelectors = []string{
	".product-item",
	".product",
	".grid-product",
	".card-product",
	".product-card",
	".product-grid-item",
	"li.product",
	"article.product",
	"div[class*=product]",
	"div[class*=card]",
}

// CardStrategy reads products from common product-card containers.
// A container matched by several selectors is reported once per selector.
type CardStrategy struct {
	Selectors []string
}

// Name returns the strategy name
func (CardStrategy) Name() string { return "cards" }

// Extract implements Strategy
func (s CardStrategy) Extract(doc *goquery.Document, baseURL string) []models.Product {
	selectors := s.Selectors
	if len(selectors) == 0 {
		selectors = CardSelectors
	}

	var products []models.Product
	for _, sel := range selectors {
		doc.Find(sel).Each(func(_ int, card *goquery.Selection) {
			if p, ok := fromCard(card, baseURL); ok {
				products = append(products, p)
			}
		})
	}
	return products
}

func fromCard(card *goquery.Selection, baseURL string) (models.Product, bool) {
	content := text.Of(card)
	value, currency, raw := price.Parse(content)

	var href, name string
	card.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		h := strings.TrimSpace(a.AttrOr("href", ""))
		if h == "" {
			return true
		}
		href = h
		name = text.Of(a)
		return false
	})
	if name == "" {
		name = text.Of(card.Find("h1, h2, h3, h4, h5").First())
	}

	p := models.Product{
		Name:         name,
		PriceValue:   value,
		Currency:     currency,
		RawPriceText: raw,
		Status:       price.Availability(content),
	}
	if href != "" {
		p.URL = urlutil.ResolveURL(baseURL, href)
	}
	if p.Empty() {
		return models.Product{}, false
	}
	return p, true
}

// AnchorStrategy treats any link with a price next to it as a product
type AnchorStrategy struct{}

// Name returns the strategy name
func (AnchorStrategy) Name() string { return "anchors" }

// Extract implements Strategy
func (AnchorStrategy) Extract(doc *goquery.Document, baseURL string) []models.Product {
	var products []models.Product

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		anchorText := text.Of(a)
		nearby := anchorText + " " + text.Of(a.Parent())
		if !price.HasPrice(nearby) {
			return
		}

		value, currency, raw := price.Parse(nearby)
		name := anchorText
		if name == "" {
			name = "N/A"
		}
		products = append(products, models.Product{
			Name:         name,
			URL:          urlutil.ResolveURL(baseURL, a.AttrOr("href", "")),
			PriceValue:   value,
			Currency:     currency,
			RawPriceText: raw,
			Status:       price.Availability(nearby),
		})
	})
	return products
}
