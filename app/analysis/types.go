package analysis

import "time"

// DailyPoint is one entry of the daily series: the number of records
// collected on a single calendar day (UTC). Days with zero records have
// no entry.
type DailyPoint struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// ForecastPoint is a predicted count for one day with uncertainty bounds.
type ForecastPoint struct {
	Date      time.Time `json:"date"`
	Predicted float64   `json:"predicted"`
	Lower     float64   `json:"lower"`
	Upper     float64   `json:"upper"`
}

// Forecast holds fitted values for historical days and predictions for the
// requested horizon. Fitted values exist for display only.
type Forecast struct {
	Fitted []ForecastPoint `json:"fitted"`
	Points []ForecastPoint `json:"points"`
}

// SpikeAlert describes a day whose record volume exceeded the baseline by
// more than the configured threshold.
type SpikeAlert struct {
	Day      time.Time `json:"day"`
	Count    int       `json:"count"`
	Baseline float64   `json:"baseline"`
}

// Engine is the pluggable forecasting capability: fit on an ordered daily
// series, predict counts for future days with point estimates and intervals.
// Any conforming model is substitutable.
type Engine interface {
	Forecast(series []DailyPoint, horizon int) (*Forecast, error)
}
