package scraper

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sartech/sarscope/helpers"
	"sartech/sarscope/logger"
	"sartech/sarscope/pkg/errors"
)

var (
	// Generic fallback for unknown marketplaces: any element whose class
	// attribute looks price-ish.
	classPattern = regexp.MustCompile(`(?i)price|amount`)

	// Brute-force patterns for currency-suffixed prices in free text,
	// thousands-grouped first ("1.234,56 TL"), then plain ("95,50 TL").
	groupedPricePattern = regexp.MustCompile(`(\d{1,3}(?:\.\d{3})*,\d{2})\s?TL`)
	plainPricePattern   = regexp.MustCompile(`(\d+,\d{2})\s?TL`)
)

// Extractor walks marketplace pages with per-site selector fallback chains
// and turns product cards into canonical listings.
type Extractor struct {
	profiles  []SiteProfile
	cardLimit int // overrides the per-profile limit when > 0
	log       *logger.Logger
}

// NewExtractor creates an extractor over the given site profiles.
// cardLimit 0 keeps each profile's own limit.
func NewExtractor(profiles []SiteProfile, cardLimit int, log *logger.Logger) *Extractor {
	return &Extractor{
		profiles:  profiles,
		cardLimit: cardLimit,
		log:       log,
	}
}

// ExtractListings scans a category or best-seller page and returns the
// listings found, together with skip diagnostics for dropped cards. The
// returned error covers unreadable markup only; card-level problems never
// abort the page.
func (e *Extractor) ExtractListings(markup io.Reader, source string) (*ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(markup)
	if err != nil {
		return nil, errors.NewParsing(source, "failed to parse page markup", err)
	}

	profile := ProfileFor(source, e.profiles)
	if profile == nil {
		return e.extractGeneric(doc, source), nil
	}

	result := &ExtractionResult{}
	cards := findContainers(doc, profile.Containers)
	if cards == nil {
		e.log.Debug().Str("site", profile.Name).Str("source", source).Msg("No card containers matched")
		return result, nil
	}

	limit := e.cardLimit
	if limit == 0 {
		limit = profile.CardLimit
	}
	if limit > 0 && cards.Length() > limit {
		cards = cards.Slice(0, limit)
	}
	cards.Each(func(i int, s *goquery.Selection) {
		listing, err := e.extractCard(profile, s)
		if err != nil {
			result.Skipped = append(result.Skipped, SkipReport{Index: i, Err: err})
			e.log.Debug().
				Str("site", profile.Name).
				Int("card", i).
				Err(err).
				Msg("Card skipped")
			return
		}
		listing.Rank = i + 1
		result.Listings = append(result.Listings, *listing)
	})

	e.log.Info().
		Str("site", profile.Name).
		Int("listings", len(result.Listings)).
		Int("skipped", result.SkipCount()).
		Msg("Page extracted")

	return result, nil
}

// ExtractProductPrice reads a single price from a product detail page.
// Known sites use their product-page selector chain; unknown sites fall
// back to the generic class pattern. The bool is false when no price was
// found; this boundary never raises.
func (e *Extractor) ExtractProductPrice(markup io.Reader, source string) (float64, bool) {
	doc, err := goquery.NewDocumentFromReader(markup)
	if err != nil {
		e.log.Warn().Str("source", source).Err(err).Msg("Failed to parse product page")
		return 0, false
	}

	profile := ProfileFor(source, e.profiles)
	if profile != nil && len(profile.ProductPrice) > 0 {
		for _, selector := range profile.ProductPrice {
			el := doc.Find(selector).First()
			if el.Length() > 0 {
				return NormalizePrice(el.Text())
			}
		}
		return 0, false
	}

	if el := firstPriceLikeElement(doc.Selection); el != nil {
		return NormalizePrice(el.Text())
	}
	return 0, false
}

// findContainers tries the ordered container selectors and returns the
// matches of the first selector that yields at least one element, or nil
// when none match. Containers are never merged across selectors.
func findContainers(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		sel := doc.Find(selector)
		if sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// extractCard pulls a single listing out of a card container. Name and
// price are required; the other fields degrade to empty values.
func (e *Extractor) extractCard(profile *SiteProfile, s *goquery.Selection) (*Listing, error) {
	name := firstFieldText(s, profile.Fields.Name)
	if name == "" {
		return nil, errors.NewExtraction(profile.Name, "name not found")
	}

	price, rawPrice, ok := e.extractPrice(profile, s)
	if !ok {
		return nil, errors.NewNormalization(profile.Name, "price not found")
	}

	return &Listing{
		Name:     name,
		Price:    price,
		RawPrice: rawPrice,
		Link:     extractLink(s, profile.Fields.Link, profile.LinkBase),
		Reviews:  extractReviews(s, profile.Fields.Reviews),
		Source:   profile.Name,
	}, nil
}

// extractPrice tries the field selector chain first and falls back to a
// brute-force scan of the card's full text for a currency-suffixed number.
func (e *Extractor) extractPrice(profile *SiteProfile, s *goquery.Selection) (float64, string, bool) {
	for _, selector := range profile.Fields.Price {
		el := s.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(el.Text())
		if value, ok := NormalizePrice(text); ok {
			return value, text, true
		}
	}

	raw, ok := bruteForcePrice(s.Text())
	if !ok {
		return 0, "", false
	}
	value, ok := NormalizePrice(raw)
	return value, raw, ok
}

// bruteForcePrice scans free text for the first currency-suffixed numeric
// pattern, preferring the thousands-grouped form.
func bruteForcePrice(text string) (string, bool) {
	if m := groupedPricePattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if m := plainPricePattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// firstFieldText walks a selector chain and returns the first non-empty
// text, falling back to the element's title attribute.
func firstFieldText(s *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		el := s.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(el.Text()); text != "" {
			return text
		}
		if title, exists := el.Attr("title"); exists && strings.TrimSpace(title) != "" {
			return strings.TrimSpace(title)
		}
	}
	return ""
}

func extractLink(s *goquery.Selection, selectors []string, base string) string {
	for _, selector := range selectors {
		el := s.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		href, exists := el.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			continue
		}
		href = strings.TrimSpace(href)
		if strings.HasPrefix(href, "http") {
			return href
		}
		return base + href
	}
	return ""
}

func extractReviews(s *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		el := s.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		if text := strings.Trim(strings.TrimSpace(el.Text()), "() "); text != "" {
			return text
		}
	}
	return "0"
}

// extractGeneric handles unknown marketplaces with a single attempt: the
// first element whose class attribute matches the price pattern becomes a
// one-listing result, named after the page heading.
func (e *Extractor) extractGeneric(doc *goquery.Document, source string) *ExtractionResult {
	result := &ExtractionResult{}

	el := firstPriceLikeElement(doc.Selection)
	if el == nil {
		e.log.Debug().Str("source", source).Msg("No price-like element on unknown site")
		return result
	}

	price, ok := NormalizePrice(el.Text())
	if !ok {
		result.Skipped = append(result.Skipped, SkipReport{
			Index: 0,
			Err:   errors.NewNormalization(source, "price-like element did not normalize"),
		})
		return result
	}

	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if name == "" {
		name = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if name == "" {
		result.Skipped = append(result.Skipped, SkipReport{
			Index: 0,
			Err:   errors.NewExtraction(source, "no page heading to name the listing"),
		})
		return result
	}

	result.Listings = append(result.Listings, Listing{
		Name:     name,
		Price:    price,
		RawPrice: strings.TrimSpace(el.Text()),
		Source:   helpers.HostToken(source),
	})
	return result
}

// firstPriceLikeElement returns the first element whose class attribute
// matches the case-insensitive price pattern, or nil.
func firstPriceLikeElement(root *goquery.Selection) *goquery.Selection {
	var found *goquery.Selection
	root.Find("[class]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if classPattern.MatchString(class) {
			found = s
			return false
		}
		return true
	})
	return found
}
