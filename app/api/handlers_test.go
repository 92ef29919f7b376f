package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"newspulse/app/database"
	"newspulse/app/history"
	"newspulse/app/record"
	"newspulse/app/source"
)

type stubAlertRepo struct {
	alerts []database.Alert
}

func (s *stubAlertRepo) WasAlerted(day string) (bool, error) { return false, nil }

func (s *stubAlertRepo) RecordAlert(day string, recordCount int, baseline float64, message string, delivered bool) error {
	return nil
}

func (s *stubAlertRepo) GetRecentAlerts(limit int) ([]database.Alert, error) {
	if len(s.alerts) > limit {
		return s.alerts[:limit], nil
	}
	return s.alerts, nil
}

func (s *stubAlertRepo) GetAlertCount() (int, error) { return len(s.alerts), nil }

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	store := history.NewFileStore(filepath.Join(t.TempDir(), "history.csv"))
	records := []record.Record{
		{
			Platform:  record.PlatformRSS,
			Timestamp: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
			Author:    "reporter",
			Title:     "First story",
			URL:       "https://example.com/1",
		},
		{
			Platform:  record.PlatformRSS,
			Timestamp: time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC),
			Author:    "reporter",
			Title:     "Second story",
			URL:       "https://example.com/2",
		},
	}
	if _, err := store.Merge(records); err != nil {
		t.Fatal(err)
	}

	configCache := source.NewConfigCache(t.TempDir())
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	return NewHandler(store, &stubAlertRepo{}, configCache, nil, nil)
}

func performRequest(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetHealth(t *testing.T) {
	server := NewServer(newTestHandler(t), "")

	w := performRequest(server, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["history_exists"] != true {
		t.Error("Expected history_exists to be true")
	}
	if body["records"] != float64(2) {
		t.Errorf("Expected 2 records, got %v", body["records"])
	}
}

func TestGetStats(t *testing.T) {
	server := NewServer(newTestHandler(t), "")

	w := performRequest(server, "GET", "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["records"] != float64(2) {
		t.Errorf("Expected 2 records, got %v", body["records"])
	}
	if body["days"] != float64(2) {
		t.Errorf("Expected 2 days, got %v", body["days"])
	}
	if body["first_day"] != "2025-01-06" {
		t.Errorf("Expected first_day 2025-01-06, got %v", body["first_day"])
	}
	if body["last_day"] != "2025-01-07" {
		t.Errorf("Expected last_day 2025-01-07, got %v", body["last_day"])
	}
}

func TestGetRecordsLimit(t *testing.T) {
	server := NewServer(newTestHandler(t), "")

	w := performRequest(server, "GET", "/records?limit=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body struct {
		Count   int `json:"count"`
		Records []struct {
			Title string `json:"title"`
		} `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 1 {
		t.Fatalf("Expected 1 record, got %d", body.Count)
	}
	if body.Records[0].Title != "Second story" {
		t.Errorf("Expected the newest record, got %q", body.Records[0].Title)
	}
}

func TestAPIDisabledWithoutKey(t *testing.T) {
	server := NewServer(newTestHandler(t), "")

	w := performRequest(server, "GET", "/api/sources", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("API routes should not exist without an access key, got %d", w.Code)
	}
}

func TestAPIAuthentication(t *testing.T) {
	server := NewServer(newTestHandler(t), "secret-key")

	w := performRequest(server, "GET", "/api/sources", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Missing key should be rejected, got %d", w.Code)
	}

	w = performRequest(server, "GET", "/api/sources", map[string]string{"X-API-Key": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Wrong key should be rejected, got %d", w.Code)
	}

	w = performRequest(server, "GET", "/api/sources", map[string]string{"X-API-Key": "secret-key"})
	if w.Code != http.StatusOK {
		t.Errorf("Valid key should be accepted, got %d", w.Code)
	}

	w = performRequest(server, "GET", "/api/sources", map[string]string{"Authorization": "Bearer secret-key"})
	if w.Code != http.StatusOK {
		t.Errorf("Bearer token should be accepted, got %d", w.Code)
	}
}

func TestAPIListAlerts(t *testing.T) {
	handler := newTestHandler(t)
	handler.alertRepo = &stubAlertRepo{alerts: []database.Alert{
		{Day: "2025-01-07", RecordCount: 20, Baseline: 5.0, Message: "spike", Delivered: true, CreatedAt: time.Now()},
	}}
	server := NewServer(handler, "secret-key")

	w := performRequest(server, "GET", "/api/alerts", map[string]string{"X-API-Key": "secret-key"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body struct {
		Count  int `json:"count"`
		Alerts []struct {
			Day       string `json:"day"`
			Delivered bool   `json:"delivered"`
		} `json:"alerts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 1 {
		t.Fatalf("Expected 1 alert, got %d", body.Count)
	}
	if body.Alerts[0].Day != "2025-01-07" {
		t.Errorf("Unexpected alert day: %q", body.Alerts[0].Day)
	}
	if !body.Alerts[0].Delivered {
		t.Error("Expected alert to be marked delivered")
	}
}

func TestRootEndpoint(t *testing.T) {
	server := NewServer(newTestHandler(t), "")

	w := performRequest(server, "GET", "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["service"] != "NewsPulse" {
		t.Errorf("Unexpected service name: %v", body["service"])
	}
}
