package scraper

// Listing represents a single product card extracted from a marketplace page
type Listing struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	RawPrice string  `json:"raw_price,omitempty"`
	Link     string  `json:"link,omitempty"`
	Reviews  string  `json:"reviews"`
	Rank     int     `json:"rank,omitempty"`
	Source   string  `json:"source"`
}

// FieldSelectors holds the ordered selector candidates for each listing
// field. The first selector that matches wins; a field stays empty when no
// candidate matches.
type FieldSelectors struct {
	Name    []string
	Price   []string
	Link    []string
	Reviews []string
}

// SiteProfile describes how to extract listings from one marketplace.
// Adding a marketplace is a data change, not a code change.
type SiteProfile struct {
	// Name identifies the marketplace in logs and diagnostics
	Name string

	// Hosts are hostname tokens used to dispatch a source URL to this profile
	Hosts []string

	// Containers are ordered candidate selectors for the product card list;
	// the first selector matching at least one element wins, candidates are
	// never merged
	Containers []string

	// Fields are the per-field selector chains applied inside each card
	Fields FieldSelectors

	// ProductPrice is the selector chain for a single product detail page
	ProductPrice []string

	// LinkBase is prefixed to relative hrefs
	LinkBase string

	// CardLimit bounds how many cards are processed per page
	CardLimit int
}

// SkipReport records why one container was dropped during extraction
type SkipReport struct {
	Index int   `json:"index"`
	Err   error `json:"-"`
}

// ExtractionResult aggregates the extracted listings together with
// per-container skip diagnostics, so callers and tests can assert on skip
// counts instead of inferring them from logs.
type ExtractionResult struct {
	Listings []Listing
	Skipped  []SkipReport
}

// SkipCount returns the number of containers dropped during extraction
func (r *ExtractionResult) SkipCount() int {
	return len(r.Skipped)
}
