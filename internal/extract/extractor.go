// Package extract pulls product listings out of arbitrary storefront HTML.
package extract

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pricecrawl/internal/engine"
	"github.com/law-makers/pricecrawl/internal/price"
	"github.com/law-makers/pricecrawl/internal/utils/text"
	"github.com/law-makers/pricecrawl/pkg/models"
	"github.com/rs/zerolog"
)

// Strategy finds candidate products in a parsed document
type Strategy interface {
	Name() string
	Extract(doc *goquery.Document, baseURL string) []models.Product
}

// Extractor runs its strategies in order and keeps the first non-empty result
type Extractor struct {
	strategies []Strategy
	logger     zerolog.Logger
}

// New creates an Extractor. Without strategies it uses cards, then anchors,
// then page meta tags.
func New(logger zerolog.Logger, strategies ...Strategy) *Extractor {
	if len(strategies) == 0 {
		strategies = []Strategy{CardStrategy{}, AnchorStrategy{}, MetaStrategy{}}
	}
	return &Extractor{strategies: strategies, logger: logger}
}

// ExtractHTML parses html and extracts products. Unparseable input yields nothing.
func (e *Extractor) ExtractHTML(html, baseURL string) []models.Product {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		err = engine.NewEngineError(engine.ErrCodeParseError, baseURL, errors.Join(engine.ErrParseError, err))
		e.logger.Warn().Err(err).Str("url", baseURL).Msg("Failed to parse HTML")
		return nil
	}
	return e.Extract(doc, baseURL)
}

// Extract runs the strategy cascade on doc. Hidden elements are removed from doc first.
func (e *Extractor) Extract(doc *goquery.Document, baseURL string) []models.Product {
	text.StripHidden(doc)

	for _, s := range e.strategies {
		found := s.Extract(doc, baseURL)
		if len(found) == 0 {
			continue
		}
		products := finalize(found)
		e.logger.Debug().
			Str("url", baseURL).
			Str("strategy", s.Name()).
			Int("candidates", len(found)).
			Int("products", len(products)).
			Msg("Products extracted")
		return products
	}
	return nil
}

// finalize drops keyless duplicates and fills in the default currency
func finalize(found []models.Product) []models.Product {
	seen := make(map[string]bool, len(found))
	products := make([]models.Product, 0, len(found))

	for _, p := range found {
		key := p.Key()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		if p.PriceValue != nil && p.Currency == "" {
			p.Currency = price.DefaultCurrency
		}
		products = append(products, p)
	}
	return products
}
