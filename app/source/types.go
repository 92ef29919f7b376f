package source

// Source configuration types

const (
	TypeNewsAPI = "newsapi"
	TypeRSS     = "rss"
)

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	Type     string         `yaml:"type"`
	URL      string         `yaml:"url"`   // feed URL, rss sources only
	Query    string         `yaml:"query"` // search query / item filter
	Settings ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit"` // max records per fetch
}
