package scraper

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrice(t *testing.T) {
	testCases := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"95,50 TL", 95.50, true},
		{"1500 TL", 1500.0, true},
		{"1.234,56 TL", 1234.56, true},
		{"12.345,00 TL", 12345.0, true},
		{"1.234,56", 1234.56, true},
		{"₺249,90", 249.90, true},
		{"249,90 TRY", 249.90, true},
		{"$19.99", 1999.0, true}, // dot is a thousands separator in this locale
		{"  72,5 tl  ", 72.5, true},
		{"0 TL", 0, true},
		{"", 0, false},
		{"   ", 0, false},
		{"no digits here", 0, false},
		{"TL", 0, false},
		{",,..", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			value, ok := NormalizePrice(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.InDelta(t, tc.expected, value, 1e-9)
			}
		})
	}
}

// Dots without a two-digit comma tail read as thousands grouping. This is
// the documented single-locale heuristic, pinned here on purpose.
func TestNormalizePriceAmbiguousDot(t *testing.T) {
	value, ok := NormalizePrice("1.234")
	assert.True(t, ok)
	assert.InDelta(t, 1234.0, value, 1e-9)
}

func TestNormalizePriceRoundTrip(t *testing.T) {
	prices := []float64{1, 9.99, 95.50, 1234.56, 250000.75}

	for _, price := range prices {
		// Comma-decimal formatting ("1234,56 TL")
		commaStyle := fmt.Sprintf("%.2f TL", price)
		commaStyle = replaceDot(commaStyle)
		value, ok := NormalizePrice(commaStyle)
		assert.True(t, ok, commaStyle)
		assert.InDelta(t, price, value, 0.005, commaStyle)
	}
}

func replaceDot(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r == '.' {
			out[i] = ','
		}
	}
	return string(out)
}
