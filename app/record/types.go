package record

import "time"

// Platform identifies where a record was collected from.
type Platform string

const (
	PlatformTwitter    Platform = "Twitter"
	PlatformGoogleNews Platform = "Google News"
	PlatformRSS        Platform = "RSS"
)

// Unknown is the sentinel written for missing authors and unparseable
// timestamps, matching the persisted history format.
const Unknown = "Unknown"

// Raw is a loosely typed record as returned by a source connector,
// before normalization. All fields are free-form strings.
type Raw struct {
	Platform Platform
	Time     string
	Author   string
	Title    string
	Body     string
	URL      string
}

// Record is the canonical, normalized representation of one ingested item.
// It is the unit of deduplication and storage and is treated as immutable
// once created.
type Record struct {
	Platform    Platform
	Timestamp   time.Time // UTC; zero value means the source provided no parseable time
	Author      string
	Title       string
	Description string
	URL         string
}

// HasTimestamp reports whether the record carries a usable timestamp.
func (r Record) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}

// SameItem reports whether two records describe the same news item:
// equal non-empty URLs, or equal title and description when either side
// has no URL.
func (r Record) SameItem(other Record) bool {
	if r.URL != "" && other.URL != "" {
		return r.URL == other.URL
	}
	return r.Title == other.Title && r.Description == other.Description
}
