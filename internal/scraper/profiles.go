package scraper

import (
	"strings"

	"sartech/sarscope/helpers"
)

// DefaultProfiles returns the built-in marketplace profiles. Selector
// chains are ordered from the current page markup to older fallback
// layouts; sites roll out redesigns gradually, so both can be live at once.
func DefaultProfiles() []SiteProfile {
	return []SiteProfile{
		{
			Name:       "Trendyol",
			Hosts:      []string{"trendyol.com"},
			Containers: []string{".p-card-wrppr", ".product-card"},
			Fields: FieldSelectors{
				Name:    []string{".prdct-desc-cntnr-name", ".product-name", ".prdct-desc-cntnr-ttl", "span.name"},
				Price:   []string{".prc-box-dscntd", ".prc-box-sllng", ".product-price"},
				Link:    []string{"a"},
				Reviews: []string{".ratingCount", ".rating-count"},
			},
			ProductPrice: []string{".prc-dsc", ".product-price-container", ".price"},
			LinkBase:     "https://www.trendyol.com",
			CardLimit:    25,
		},
		{
			Name:       "Hepsiburada",
			Hosts:      []string{"hepsiburada.com"},
			Containers: []string{`li[id^="i"]`, `[data-test-id="product-card"]`},
			Fields: FieldSelectors{
				Name:    []string{`[data-test-id="product-card-name"]`, "h3", ".product-title", "a[title]"},
				Price:   []string{`[data-test-id="price-current-price"]`, ".price-value", ".product-price"},
				Link:    []string{"a"},
				Reviews: []string{`[data-test-id="review-count"]`, ".evaluation-count"},
			},
			ProductPrice: []string{`[data-test-id="price-current-price"]`, "#offering-price", ".price-txt", `span[itemprop="price"]`},
			LinkBase:     "https://www.hepsiburada.com",
			CardLimit:    30,
		},
		{
			Name:       "N11",
			Hosts:      []string{"n11.com"},
			Containers: []string{"li.column", ".pro"},
			Fields: FieldSelectors{
				Name:    []string{".productName", "h3.productName"},
				Price:   []string{".newPrice ins", ".priceContainer span"},
				Link:    []string{"a.plink"},
				Reviews: []string{".ratingText"},
			},
			CardLimit: 25,
		},
		{
			Name:  "Amazon",
			Hosts: []string{"amazon"},
			Containers: []string{
				`div[data-component-type="s-search-result"]`,
				`.s-result-item[data-asin]`,
				".zg-item-immersion",
			},
			Fields: FieldSelectors{
				Name:    []string{"h2 span", ".a-text-normal", ".p13n-sc-truncate"},
				Price:   []string{".a-price .a-offscreen", ".a-price", ".p13n-sc-price", ".a-color-price"},
				Link:    []string{"h2 a", ".a-link-normal"},
				Reviews: []string{".a-icon-alt"},
			},
			LinkBase:  "https://www.amazon.com.tr",
			CardLimit: 25,
		},
	}
}

// ProfileFor dispatches a source identifier (URL or hostname) to the
// matching site profile, or nil when the source is unknown.
func ProfileFor(source string, profiles []SiteProfile) *SiteProfile {
	host := strings.ToLower(helpers.HostToken(source))
	if host == "" {
		return nil
	}
	for i := range profiles {
		for _, token := range profiles[i].Hosts {
			if strings.Contains(host, token) {
				return &profiles[i]
			}
		}
	}
	return nil
}
