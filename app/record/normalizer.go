package record

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	mentionPattern = regexp.MustCompile(`[@#]\w+`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// timestampFormats is the ordered list of accepted timestamp layouts.
// Formats are tried in sequence; dateparse handles the long tail of
// source-specific representations before falling back to the Unknown
// sentinel (zero time).
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalizer converts raw connector records into canonical records.
// It never fails: missing or malformed fields degrade to sentinels.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Run maps a raw source record to its canonical shape.
func (n *Normalizer) Run(raw Raw) Record {
	author := strings.TrimSpace(raw.Author)
	if author == "" {
		author = Unknown
	}

	return Record{
		Platform:    raw.Platform,
		Timestamp:   ParseTimestamp(raw.Time),
		Author:      author,
		Title:       CleanText(raw.Title),
		Description: CleanText(raw.Body),
		URL:         strings.TrimSpace(raw.URL),
	}
}

// CleanText strips URL-like substrings and @/# tokens from free text,
// removes control characters and collapses whitespace runs.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = norm.NFC.String(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")

	text = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, text)

	text = spacePattern.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// ParseTimestamp converts any accepted timestamp representation to UTC.
// Unparseable values yield the zero time, which is persisted as the
// Unknown sentinel.
func ParseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" || value == Unknown {
		return time.Time{}
	}

	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}

	if t, err := dateparse.ParseAny(value); err == nil {
		return t.UTC()
	}

	return time.Time{}
}
