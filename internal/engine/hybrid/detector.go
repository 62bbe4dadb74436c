// internal/engine/hybrid/detector.go
package hybrid

import (
	"strings"

	"github.com/law-makers/pricecrawl/internal/price"
)

// DefaultThinThreshold is the document size in bytes below which a static
// page is considered a likely client-rendered shell
const DefaultThinThreshold = 30000

// Reason explains why a static document gets a rendered second opinion
type Reason string

const (
	ReasonNone    Reason = ""
	ReasonThin    Reason = "thin"
	ReasonNoPrice Reason = "no_price"
)

// Assess reports whether a statically fetched document looks incomplete.
// Thin documents are reported before documents without any price.
func Assess(html string, threshold int) Reason {
	if threshold <= 0 {
		threshold = DefaultThinThreshold
	}
	if len(html) < threshold {
		return ReasonThin
	}
	if !price.HasPrice(html) {
		return ReasonNoPrice
	}
	return ReasonNone
}

// DetectJavaScriptFramework names the client-side framework whose markers
// appear in html, or "Unknown"
func DetectJavaScriptFramework(html string) string {
	html = strings.ToLower(html)

	switch {
	case strings.Contains(html, "__next_data__"):
		return "Next.js"
	case strings.Contains(html, "__nuxt"):
		return "Nuxt"
	case strings.Contains(html, "data-reactroot") || strings.Contains(html, "react-dom"):
		return "React"
	case strings.Contains(html, "ng-version") || strings.Contains(html, "ng-app"):
		return "Angular"
	case strings.Contains(html, "data-v-") || strings.Contains(html, "vue.runtime"):
		return "Vue"
	case strings.Contains(html, "svelte-"):
		return "Svelte"
	}
	return "Unknown"
}
