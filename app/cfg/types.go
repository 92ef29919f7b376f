package cfg

type Cfg struct {
	// Storage configuration
	HistoryFile string
	DBPath      string

	// Application configuration
	SourcesDir        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Source connector credentials
	NewsAPIKey      string
	NewsAPIEndpoint string

	// Alerting configuration
	SlackWebhookURL string
	SpikeThreshold  float64
	ForecastHorizon int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
