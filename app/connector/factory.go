package connector

import (
	"fmt"

	"newspulse/app/source"
)

// FromConfig builds the connector described by a source configuration.
// NewsAPI sources require an API key; a source configured without one is a
// configuration error surfaced at startup, not at fetch time.
func FromConfig(sc *source.Config, newsAPIEndpoint, newsAPIKey, userAgent string) (Connector, error) {
	switch sc.Type {
	case source.TypeNewsAPI:
		if newsAPIKey == "" {
			return nil, fmt.Errorf("source %s requires a NewsAPI key", sc.Name)
		}
		return NewNewsAPIConnector(newsAPIEndpoint, newsAPIKey, userAgent), nil
	case source.TypeRSS:
		return NewRSSConnector(sc.Name, sc.URL, userAgent), nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", sc.Type)
	}
}
