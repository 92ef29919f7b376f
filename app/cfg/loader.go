package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	HistoryFile string `long:"history-file" env:"HISTORY_FILE" default:"./news_history.csv" description:"Path to the persisted news history file"`
	DBPath      string `long:"db-path" env:"DB_PATH" default:"./newspulse.db" description:"Path to the alert ledger database"`

	// Application configuration
	SourcesDir        string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for source ingestion"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"3600" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Source connector credentials
	NewsAPIKey      string `long:"newsapi-key" env:"NEWSAPI_KEY" description:"NewsAPI access key (optional, disables the NewsAPI connector when empty)"`
	NewsAPIEndpoint string `long:"newsapi-endpoint" env:"NEWSAPI_ENDPOINT" default:"https://newsapi.org/v2/everything" description:"NewsAPI search endpoint"`

	// Alerting configuration
	SlackWebhookURL string  `long:"slack-webhook-url" env:"SLACK_WEBHOOK_URL" description:"Slack webhook URL for spike alerts (optional)"`
	SpikeThreshold  float64 `long:"spike-threshold" env:"SPIKE_THRESHOLD" default:"1.5" description:"Spike detection threshold as a multiple of the baseline"`
	ForecastHorizon int     `long:"forecast-horizon" env:"FORECAST_HORIZON" default:"7" description:"Number of future days to forecast"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"NewsPulse/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		HistoryFile:       raw.HistoryFile,
		DBPath:            raw.DBPath,
		SourcesDir:        raw.SourcesDir,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		NewsAPIKey:        raw.NewsAPIKey,
		NewsAPIEndpoint:   raw.NewsAPIEndpoint,
		SlackWebhookURL:   raw.SlackWebhookURL,
		SpikeThreshold:    raw.SpikeThreshold,
		ForecastHorizon:   raw.ForecastHorizon,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration. Used by tests.
func Set(cfg *Cfg) {
	globalCfg = cfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
