// Package price finds currency-tagged amounts and stock-status phrases in free text.
package price

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/law-makers/pricecrawl/pkg/models"
)

// DefaultCurrency is assigned when an amount is found without an identifiable marker
const DefaultCurrency = "EGP"

// currencyMarker maps a marker as it appears in text to its currency code
type currencyMarker struct {
	token string
	code  string
}

// Checked in order against the matched text.
var currencyMarkers = []currencyMarker{
	{"EGP", "EGP"},
	{"LE", "EGP"},
	{"ج.م", "EGP"},
	{"جنيه", "EGP"},
}

const markerPattern = `EGP|ج\.م|LE|جنيه`

var (
	// Group 2 holds the amount after a leading marker, group 3 the amount before a trailing one.
	// Amounts may use any decimal digits, Arabic-Indic included.
	priceRe = regexp.MustCompile(`(?i)(` + markerPattern + `)\s*([\p{Nd},.]+)|([\p{Nd},.]+)\s*(` + markerPattern + `)`)

	notNumeric = regexp.MustCompile(`[^\p{Nd}.]`)

	outOfStockRe = regexp.MustCompile(`(?i)(out of stock|sold out|غير متاح|نفدت الكمية|غير متوفر)`)
	inStockRe    = regexp.MustCompile(`(?i)(in stock|available|متاح|متوفّر|مُتاح)`)
)

// Parse returns the first currency-tagged amount in text.
// value is nil when the amount cannot be parsed; raw keeps the matched text either way.
// With no match it returns (nil, "", "").
func Parse(text string) (value *float64, currency string, raw string) {
	loc := find(text)
	if loc == nil {
		return nil, "", ""
	}
	raw = text[loc[0]:loc[1]]

	var amount string
	if loc[4] >= 0 {
		amount = text[loc[4]:loc[5]]
	} else {
		amount = text[loc[6]:loc[7]]
	}
	digits := asciiDigits(notNumeric.ReplaceAllString(strings.ReplaceAll(amount, ",", ""), ""))
	if digits != "" {
		if v, err := strconv.ParseFloat(digits, 64); err == nil {
			value = &v
		}
	}

	return value, currencyOf(raw), raw
}

// HasPrice reports whether text contains a currency-tagged amount
func HasPrice(text string) bool {
	return find(text) != nil
}

// find returns the submatch indices of the first price in text. An "LE" marker
// glued to a neighbouring letter is part of a word, as in "Kettle 2" or "5 LEDs",
// and is skipped.
func find(text string) []int {
	for offset := 0; offset <= len(text); {
		loc := priceRe.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			return nil
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += offset
			}
		}
		if standalone(text, loc) {
			return loc
		}
		_, size := utf8.DecodeRuneInString(text[loc[0]:])
		offset = loc[0] + max(size, 1)
	}
	return nil
}

// standalone checks the letters around an LE marker. Group 1 is a leading
// marker, group 4 a trailing one.
func standalone(text string, loc []int) bool {
	if start, end := loc[2], loc[3]; start > 0 && isLE(text[start:end]) {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); unicode.IsLetter(r) {
			return false
		}
	}
	if start, end := loc[8], loc[9]; start >= 0 && end < len(text) && isLE(text[start:end]) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isLE(marker string) bool {
	return strings.EqualFold(marker, "LE")
}

// digitZeros are the code points of zero in the digit sets storefronts use
var digitZeros = []rune{'0', '\u0660', '\u06F0'}

// asciiDigits rewrites Arabic-Indic and Extended Arabic-Indic digits as ASCII.
// Other digits are left as they are.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		for _, zero := range digitZeros {
			if r >= zero && r <= zero+9 {
				return '0' + (r - zero)
			}
		}
		return r
	}, s)
}

// Availability classifies text by stock-status phrases. Negative phrases win.
func Availability(text string) models.Availability {
	if outOfStockRe.MatchString(text) {
		return models.StatusOutOfStock
	}
	if inStockRe.MatchString(text) {
		return models.StatusAvailable
	}
	return models.StatusUnknown
}

func currencyOf(raw string) string {
	lower := strings.ToLower(raw)
	for _, m := range currencyMarkers {
		if strings.Contains(lower, strings.ToLower(m.token)) {
			return m.code
		}
	}
	return DefaultCurrency
}
