package trend

import (
	"strings"
	"time"

	"sartech/sarscope/internal/models"
	"sartech/sarscope/internal/scraper"
	"sartech/sarscope/logger"
)

// defaultRank marks listings whose best-seller rank is unknown; it always
// lands in the low velocity bucket.
const defaultRank = 999

// Matcher reconciles scraped listings against the existing catalog and
// keeps only the names it cannot match, the new-product opportunities.
type Matcher struct {
	threshold int
	log       *logger.Logger
}

// NewMatcher creates a matcher with the given similarity threshold (0-100)
func NewMatcher(threshold int, log *logger.Logger) *Matcher {
	return &Matcher{
		threshold: threshold,
		log:       log,
	}
}

// Match classifies each listing as already stocked or a new opportunity.
// A listing is stocked when its name exactly equals an existing name or
// its best token-set score reaches the threshold; everything else becomes
// a TrendOpportunity with velocity derived from rank.
func (m *Matcher) Match(listings []scraper.Listing, existingNames []string, category string) []models.TrendOpportunity {
	var opportunities []models.TrendOpportunity

	for _, listing := range listings {
		name := strings.TrimSpace(listing.Name)
		if name == "" {
			continue
		}

		if exactMatch(name, existingNames) {
			continue
		}

		bestScore := 0
		bestName := ""
		for _, existing := range existingNames {
			// Strictly greater keeps the first best match on ties
			if score := TokenSetRatio(name, existing); score > bestScore {
				bestScore = score
				bestName = existing
			}
		}

		if bestScore >= m.threshold {
			m.log.Debug().
				Str("listing", name).
				Str("matched", bestName).
				Int("score", bestScore).
				Msg("Listing already stocked")
			continue
		}

		rank := listing.Rank
		if rank <= 0 {
			rank = defaultRank
		}

		opportunities = append(opportunities, models.TrendOpportunity{
			ProductName:            name,
			Rank:                   rank,
			EstimatedSalesVelocity: velocityForRank(rank),
			MatchScore:             bestScore,
			Category:               category,
			IdentifiedAt:           time.Now(),
		})
	}

	m.log.Info().
		Str("category", category).
		Int("listings", len(listings)).
		Int("opportunities", len(opportunities)).
		Msg("Trend matching completed")

	return opportunities
}

func exactMatch(name string, existingNames []string) bool {
	for _, existing := range existingNames {
		if name == existing {
			return true
		}
	}
	return false
}

// velocityForRank buckets a best-seller rank into a coarse sales speed
func velocityForRank(rank int) models.Velocity {
	switch {
	case rank <= 10:
		return models.VelocityHigh
	case rank <= 50:
		return models.VelocityMedium
	default:
		return models.VelocityLow
	}
}
