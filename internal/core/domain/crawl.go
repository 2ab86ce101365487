package domain

// CrawlState tracks a session's corpus lifecycle.
// Transitions are one-way: not_started -> in_progress -> ready.
type CrawlState int32

const (
	// CrawlNotStarted means no crawl has been requested yet.
	CrawlNotStarted CrawlState = iota

	// CrawlInProgress means links are being fetched or the index is being built.
	CrawlInProgress

	// CrawlReady means the index has been built and is safe to query.
	CrawlReady
)

// String returns the string representation.
func (s CrawlState) String() string {
	switch s {
	case CrawlNotStarted:
		return "not_started"
	case CrawlInProgress:
		return "in_progress"
	case CrawlReady:
		return "ready"
	default:
		return unknownDescription
	}
}

// CrawlStats summarises one crawl pass.
type CrawlStats struct {
	// Discovered is the number of same-origin links considered.
	Discovered int `json:"discovered"`

	// Fetched is the number of pages fetched successfully.
	Fetched int `json:"fetched"`

	// Failed is the number of fetches that failed.
	Failed int `json:"failed"`

	// Dropped is the number of fetched pages too short to index.
	Dropped int `json:"dropped"`

	// Documents is the final corpus size, including the seed page.
	Documents int `json:"documents"`
}
