package trend

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// TokenSetRatio scores two product names on a 0-100 scale, insensitive to
// word order and duplicate words. Names are tokenized, deduplicated and
// sorted; the score is the best edit-distance ratio among the shared-token
// string and the two full token strings.
func TokenSetRatio(s1, s2 string) int {
	tokens1 := tokenize(s1)
	tokens2 := tokenize(s2)
	if len(tokens1) == 0 || len(tokens2) == 0 {
		return 0
	}

	var shared, only1, only2 []string
	for token := range tokens1 {
		if tokens2[token] {
			shared = append(shared, token)
		} else {
			only1 = append(only1, token)
		}
	}
	for token := range tokens2 {
		if !tokens1[token] {
			only2 = append(only2, token)
		}
	}
	sort.Strings(shared)
	sort.Strings(only1)
	sort.Strings(only2)

	base := strings.Join(shared, " ")
	full1 := joinParts(base, only1)
	full2 := joinParts(base, only2)

	best := ratio(base, full1)
	if r := ratio(base, full2); r > best {
		best = r
	}
	if r := ratio(full1, full2); r > best {
		best = r
	}
	return best
}

// tokenize lowercases a name and splits it on non-alphanumeric runs into
// a set of unique tokens.
func tokenize(s string) map[string]bool {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(fields))
	for _, field := range fields {
		set[field] = true
	}
	return set
}

func joinParts(base string, rest []string) string {
	if len(rest) == 0 {
		return base
	}
	if base == "" {
		return strings.Join(rest, " ")
	}
	return base + " " + strings.Join(rest, " ")
}

// ratio converts an edit distance into a 0-100 similarity score
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	distance := levenshtein.ComputeDistance(a, b)
	longer := len([]rune(a))
	if l := len([]rune(b)); l > longer {
		longer = l
	}
	return int(float64(longer-distance) / float64(longer) * 100)
}
