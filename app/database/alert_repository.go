package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ AlertRepository = (*AlertRepositoryImpl)(nil)

type AlertRepositoryImpl struct {
	db *DB
}

func NewAlertRepository(db *DB) *AlertRepositoryImpl {
	return &AlertRepositoryImpl{db: db}
}

// WasAlerted reports whether an alert was already recorded for the day.
func (r *AlertRepositoryImpl) WasAlerted(day string) (bool, error) {
	var id int64
	err := r.db.QueryRow("SELECT id FROM alerts WHERE day = ? LIMIT 1", day).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check alert: %w", err)
	}
	return true, nil
}

// RecordAlert stores the alert for the day. Re-recording the same day
// updates the delivery outcome instead of failing on the unique constraint.
func (r *AlertRepositoryImpl) RecordAlert(day string, recordCount int, baseline float64, message string, delivered bool) error {
	_, err := r.db.Exec(`
		INSERT INTO alerts (day, record_count, baseline, message, delivered)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (day) DO UPDATE SET
			record_count = excluded.record_count,
			baseline = excluded.baseline,
			message = excluded.message,
			delivered = excluded.delivered
	`, day, recordCount, baseline, message, boolToInt(delivered))

	if err != nil {
		return fmt.Errorf("failed to record alert: %w", err)
	}

	return nil
}

// GetRecentAlerts returns the most recently created alerts, newest first.
func (r *AlertRepositoryImpl) GetRecentAlerts(limit int) ([]Alert, error) {
	rows, err := r.db.Query(`
		SELECT id, day, record_count, baseline, message, delivered, created_at
		FROM alerts
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent alerts: %w", err)
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		var delivered int
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Day, &a.RecordCount, &a.Baseline, &a.Message, &delivered, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		a.Delivered = delivered != 0
		if t, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
			a.CreatedAt = t
		}
		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert rows: %w", err)
	}

	return alerts, nil
}

// GetAlertCount returns the total number of recorded alerts.
func (r *AlertRepositoryImpl) GetAlertCount() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM alerts").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get alert count: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
