package database

// AlertRepository records dispatched spike alerts so repeated analysis runs
// over the same history do not re-deliver the same alert.
type AlertRepository interface {
	WasAlerted(day string) (bool, error)
	RecordAlert(day string, recordCount int, baseline float64, message string, delivered bool) error
	GetRecentAlerts(limit int) ([]Alert, error)
	GetAlertCount() (int, error)
}
