package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"newspulse/app/record"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "history.csv"))
}

func testRecord(title, url string) record.Record {
	return record.Record{
		Platform:    record.PlatformGoogleNews,
		Timestamp:   time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Author:      "author",
		Title:       title,
		Description: "description of " + title,
		URL:         url,
	}
}

func TestStoreExists(t *testing.T) {
	store := newTestStore(t)

	if store.Exists() {
		t.Error("Store should not exist before first merge")
	}

	if _, err := store.Merge([]record.Record{testRecord("one", "https://example.com/1")}); err != nil {
		t.Fatal(err)
	}

	if !store.Exists() {
		t.Error("Store should exist after first merge")
	}
}

func TestMergeIdempotent(t *testing.T) {
	store := newTestStore(t)

	batch := []record.Record{
		testRecord("one", "https://example.com/1"),
		testRecord("two", "https://example.com/2"),
		testRecord("three", ""),
	}

	first, err := store.Merge(batch)
	if err != nil {
		t.Fatal(err)
	}
	if first.Accepted != 3 || first.Duplicates != 0 {
		t.Errorf("First merge: expected 3 accepted, 0 duplicates, got %d/%d", first.Accepted, first.Duplicates)
	}

	second, err := store.Merge(batch)
	if err != nil {
		t.Fatal(err)
	}
	if second.Accepted != 0 || second.Duplicates != 3 {
		t.Errorf("Second merge: expected 0 accepted, 3 duplicates, got %d/%d", second.Accepted, second.Duplicates)
	}

	records, err := store.AllRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Errorf("Expected 3 records after repeated merge, got %d", len(records))
	}
}

func TestMergeURLPriorityDedup(t *testing.T) {
	store := newTestStore(t)

	first := testRecord("original title", "https://example.com/story")
	second := testRecord("rephrased title", "https://example.com/story")

	if _, err := store.Merge([]record.Record{first, second}); err != nil {
		t.Fatal(err)
	}

	records, err := store.AllRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Title != "original title" {
		t.Errorf("First-seen record should survive, got title %q", records[0].Title)
	}
}

func TestMergeFallbackDedup(t *testing.T) {
	store := newTestStore(t)

	a := testRecord("same story", "")
	b := testRecord("same story", "")
	b.Author = "someone else"

	if _, err := store.Merge([]record.Record{a, b}); err != nil {
		t.Fatal(err)
	}

	records, err := store.AllRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("Expected 1 record after fallback dedup, got %d", len(records))
	}
	if records[0].Author != "author" {
		t.Errorf("First-seen record should survive, got author %q", records[0].Author)
	}
}

func TestMergeCrossBatchDedup(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Merge([]record.Record{testRecord("one", "https://example.com/1")}); err != nil {
		t.Fatal(err)
	}

	result, err := store.Merge([]record.Record{
		testRecord("one but updated", "https://example.com/1"),
		testRecord("two", "https://example.com/2"),
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.Accepted != 1 || result.Duplicates != 1 {
		t.Errorf("Expected 1 accepted, 1 duplicate, got %d/%d", result.Accepted, result.Duplicates)
	}
}

func TestMergePreservesArrivalOrder(t *testing.T) {
	store := newTestStore(t)

	titles := []string{"first", "second", "third", "fourth"}
	var batch []record.Record
	for i, title := range titles {
		url := ""
		if i%2 == 0 {
			url = "https://example.com/" + title
		}
		batch = append(batch, testRecord(title, url))
	}

	if _, err := store.Merge(batch); err != nil {
		t.Fatal(err)
	}

	records, err := store.AllRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(titles) {
		t.Fatalf("Expected %d records, got %d", len(titles), len(records))
	}
	for i, title := range titles {
		if records[i].Title != title {
			t.Errorf("Record %d: expected title %q, got %q", i, title, records[i].Title)
		}
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")

	store := NewFileStore(path)
	if _, err := store.Merge([]record.Record{testRecord("survives", "https://example.com/s")}); err != nil {
		t.Fatal(err)
	}

	reopened := NewFileStore(path)
	records, err := reopened.AllRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record after reopen, got %d", len(records))
	}
	if records[0].Title != "survives" {
		t.Errorf("Expected title 'survives', got %q", records[0].Title)
	}
	if records[0].Timestamp.IsZero() {
		t.Error("Timestamp should survive the round trip")
	}
}

func TestStoreWritesExpectedHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")

	store := NewFileStore(path)
	if _, err := store.Merge([]record.Record{testRecord("one", "")}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(string(data), "\n")
	if lines[0] != "Platform,Time,Author,Title,Description,URL" {
		t.Errorf("Unexpected header line: %q", lines[0])
	}
}

func TestStoreUnknownTimestampRoundTrip(t *testing.T) {
	store := newTestStore(t)

	r := testRecord("no time", "https://example.com/nt")
	r.Timestamp = time.Time{}

	if _, err := store.Merge([]record.Record{r}); err != nil {
		t.Fatal(err)
	}

	records, err := store.AllRecords()
	if err != nil {
		t.Fatal(err)
	}
	if records[0].HasTimestamp() {
		t.Errorf("Expected unknown timestamp to stay unknown, got %v", records[0].Timestamp)
	}

	data, err := os.ReadFile(store.path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), record.Unknown) {
		t.Error("Persisted file should contain the Unknown sentinel")
	}
}

func TestMergeEmptyBatch(t *testing.T) {
	store := newTestStore(t)

	result, err := store.Merge(nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Accepted != 0 || result.Duplicates != 0 {
		t.Errorf("Empty merge should accept nothing, got %d/%d", result.Accepted, result.Duplicates)
	}
	if !store.Exists() {
		t.Error("Even an empty merge creates the history file")
	}
}

func TestRecordCount(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Merge([]record.Record{
		testRecord("one", "https://example.com/1"),
		testRecord("two", "https://example.com/2"),
	}); err != nil {
		t.Fatal(err)
	}

	count, err := store.RecordCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Expected 2 records, got %d", count)
	}
}
