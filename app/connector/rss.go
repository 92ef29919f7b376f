package connector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newspulse/app/record"
)

var _ Connector = (*RSSConnector)(nil)

// RSSConnector pulls items from a single RSS/Atom feed. The query is an
// optional case-insensitive substring filter on title and description; an
// empty query keeps every item.
type RSSConnector struct {
	name      string
	feedURL   string
	userAgent string
	parser    *gofeed.Parser
}

func NewRSSConnector(name, feedURL, userAgent string) *RSSConnector {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent

	return &RSSConnector{
		name:      name,
		feedURL:   feedURL,
		userAgent: userAgent,
		parser:    parser,
	}
}

func (c *RSSConnector) Name() string {
	return c.name
}

func (c *RSSConnector) Fetch(ctx context.Context, query string, limit int) ([]record.Raw, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	feed, err := c.parser.ParseURLWithContext(c.feedURL, timeoutCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))

	raws := make([]record.Raw, 0, len(feed.Items))
	for _, item := range feed.Items {
		if len(raws) >= limit {
			break
		}

		if query != "" && !matchesQuery(item, query) {
			continue
		}

		raw := record.Raw{
			Platform: record.PlatformRSS,
			Author:   firstAuthor(item),
			Title:    item.Title,
			Body:     item.Description,
			URL:      item.Link,
		}
		if item.PublishedParsed != nil {
			raw.Time = item.PublishedParsed.UTC().Format(time.RFC3339)
		} else {
			raw.Time = item.Published
		}

		raws = append(raws, raw)
	}

	return raws, nil
}

func matchesQuery(item *gofeed.Item, query string) bool {
	return strings.Contains(strings.ToLower(item.Title), query) ||
		strings.Contains(strings.ToLower(item.Description), query)
}

func firstAuthor(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		return item.Authors[0].Name
	}
	if item.Author != nil {
		return item.Author.Name
	}
	return ""
}
