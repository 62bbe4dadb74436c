package models

import "time"

// Availability is the stock status detected for a product
type Availability string

const (
	StatusAvailable  Availability = "Available"
	StatusOutOfStock Availability = "Out of stock"
	StatusUnknown    Availability = "Unknown"
)

// Product represents a single listing extracted from a page
type Product struct {
	Name         string       `json:"name"`
	URL          string       `json:"url"`
	PriceValue   *float64     `json:"price_value,omitempty"`
	Currency     string       `json:"currency,omitempty"`
	RawPriceText string       `json:"raw_price_text"`
	Status       Availability `json:"status"`
}

// Key returns the deduplication key: the URL, or the name when the URL is empty
func (p Product) Key() string {
	if p.URL != "" {
		return p.URL
	}
	return p.Name
}

// Empty reports whether the product carries no information at all
func (p Product) Empty() bool {
	return p.Name == "" && p.URL == "" && p.RawPriceText == ""
}

// FetchMode defines how pages are retrieved
type FetchMode string

const (
	// ModeStatic uses the lightweight HTTP fetch only
	ModeStatic FetchMode = "static"
	// ModeAlways renders every page in a headless browser
	ModeAlways FetchMode = "always"
	// ModeAuto tries the lightweight fetch first and renders when the result looks incomplete
	ModeAuto FetchMode = "auto"
)

// ResolveMode picks the effective fetch mode from the CLI switches.
// staticOnly wins over the dynamic policy.
func ResolveMode(staticOnly bool, dynamic string) FetchMode {
	if staticOnly {
		return ModeStatic
	}
	if FetchMode(dynamic) == ModeAlways {
		return ModeAlways
	}
	return ModeAuto
}

// SiteResult summarizes one processed site
type SiteResult struct {
	URL      string        `json:"url"`
	Host     string        `json:"host"`
	Products int           `json:"products"`
	Elapsed  time.Duration `json:"elapsed"`
	Error    error         `json:"-"`
}
