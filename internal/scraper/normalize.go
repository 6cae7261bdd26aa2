package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// The source convention is Turkish price formatting: '.' separates
// thousands, ',' separates decimals ("1.234,56 TL").
var (
	currencyTokens = strings.NewReplacer("tl", "", "try", "", "₺", "", "$", "", "€", "", "£", "")
	numberPattern  = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// NormalizePrice converts a raw, locale-formatted price string into a
// canonical float. The second return value is false when the text carries
// no parseable price; normalization never fails with an error.
//
// Inputs with a bare dot separator ("1.234") are read as thousands-grouped
// integers (1234), matching the source locale. This is a heuristic, pinned
// by tests, not a general-purpose number parser.
func NormalizePrice(text string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0, false
	}

	s = strings.TrimSpace(currencyTokens.Replace(s))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
