package discover

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const landing = `<html><body>
<nav>
  <a href="#top">Top</a>
  <a href="tel:+20100000">Call us</a>
  <a href="mailto:shop@example.com">Mail</a>
  <a href="JavaScript:void(0)">Menu</a>
  <a href="">Empty</a>
  <a href="/about">About us</a>
</nav>
<ul>
  <li><a href="/collections/phones">Phones</a></li>
  <li><a href="/products/x1">X1</a></li>
  <li><a href="/products/x1">X1 again</a></li>
  <li><a href="https://cdn.example.com/item/9">Nine</a></li>
</ul>
<div class="deal"><a href="/deal-of-the-day">Deal</a> <span>EGP 499</span></div>
</body></html>`

func TestProductLinks(t *testing.T) {
	links := ProductLinks("https://shop.example/", landing, nil)

	assert.ElementsMatch(t, []string{
		"https://shop.example/collections/phones",
		"https://shop.example/products/x1",
		"https://cdn.example.com/item/9",
		"https://shop.example/deal-of-the-day",
	}, links)
}

func TestProductLinks_NeverReturnsNonNavigable(t *testing.T) {
	links := ProductLinks("https://shop.example/", landing, nil)

	for _, l := range links {
		lower := strings.ToLower(l)
		assert.NotContains(t, lower, "#top")
		assert.False(t, strings.HasPrefix(lower, "tel:"), l)
		assert.False(t, strings.HasPrefix(lower, "mailto:"), l)
		assert.False(t, strings.HasPrefix(lower, "javascript:"), l)
	}
}

func TestProductLinks_IncludePaths(t *testing.T) {
	links := ProductLinks("https://shop.example/", landing, []string{"/products/"})

	assert.Equal(t, []string{"https://shop.example/products/x1"}, links)
}

func TestProductLinks_IncludePathsFilterPricedLinks(t *testing.T) {
	links := ProductLinks("https://shop.example/", landing, []string{"/collections/"})

	assert.NotContains(t, links, "https://shop.example/deal-of-the-day")
	assert.Contains(t, links, "https://shop.example/collections/phones")
}

func TestProductLinks_NoCandidates(t *testing.T) {
	links := ProductLinks("https://shop.example/", `<a href="/about">About</a><a href="/contact">Contact</a>`, nil)

	assert.Empty(t, links)
}

func TestProductLinks_ArabicPriceContext(t *testing.T) {
	html := `<div><a href="/offer/7">عرض</a> <span>250 جنيه</span></div>`
	links := ProductLinks("https://shop.example/ar/", html, nil)

	assert.Equal(t, []string{"https://shop.example/offer/7"}, links)
}
