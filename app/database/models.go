package database

import "time"

// Alert is one row of the alert ledger: a spike alert that was (or was
// attempted to be) dispatched for a given day.
type Alert struct {
	ID          int64
	Day         string // YYYY-MM-DD
	RecordCount int
	Baseline    float64
	Message     string
	Delivered   bool
	CreatedAt   time.Time
}
