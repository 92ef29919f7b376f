package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"newspulse/app/record"
)

const timeLayout = "2006-01-02 15:04:05"

var header = []string{"Platform", "Time", "Author", "Title", "Description", "URL"}

var _ Store = (*FileStore)(nil)

// FileStore persists the history as a single CSV file. It exclusively owns
// the on-disk representation: every merge rewrites the full deduplicated log
// atomically, so readers never observe a partially written or
// partially deduplicated file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Exists reports whether any persisted history exists yet.
func (s *FileStore) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Merge appends the given records to the log, deduplicates the full log and
// persists the result atomically. Merging the same batch twice yields the
// same log as merging it once.
func (s *FileStore) Merge(records []record.Record) (MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return MergeResult{}, err
	}

	combined := make([]record.Record, 0, len(existing)+len(records))
	combined = append(combined, existing...)
	combined = append(combined, records...)

	survivors, acceptedNew := dedupe(combined, len(existing))

	if err := s.write(survivors); err != nil {
		return MergeResult{}, err
	}

	result := MergeResult{
		Accepted:   acceptedNew,
		Duplicates: len(records) - acceptedNew,
	}

	slog.Debug("History merged",
		"new", len(records),
		"accepted", result.Accepted,
		"duplicates", result.Duplicates,
		"total", len(survivors))

	return result, nil
}

// AllRecords returns the full deduplicated log in arrival order.
func (s *FileStore) AllRecords() ([]record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// RecordCount returns the number of records currently persisted.
func (s *FileStore) RecordCount() (int, error) {
	records, err := s.AllRecords()
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// dedupe removes duplicates from the combined log in two phases, first
// occurrence wins in both:
//  1. records whose non-empty URL matches an earlier record's URL
//  2. among the remainder, records whose (title, description) pair matches
//     an earlier remaining record's pair
//
// The second index marks where the new batch starts; the returned count is
// how many surviving records came from the new batch.
func dedupe(records []record.Record, newStart int) ([]record.Record, int) {
	type titleDesc struct {
		title       string
		description string
	}

	seenURL := make(map[string]bool)
	afterURLPhase := make([]record.Record, 0, len(records))
	fromNew := make([]bool, 0, len(records))

	for i, r := range records {
		if r.URL != "" {
			if seenURL[r.URL] {
				continue
			}
			seenURL[r.URL] = true
		}
		afterURLPhase = append(afterURLPhase, r)
		fromNew = append(fromNew, i >= newStart)
	}

	seenText := make(map[titleDesc]bool)
	survivors := make([]record.Record, 0, len(afterURLPhase))
	acceptedNew := 0

	for i, r := range afterURLPhase {
		key := titleDesc{title: r.Title, description: r.Description}
		if seenText[key] {
			continue
		}
		seenText[key] = true
		survivors = append(survivors, r)
		if fromNew[i] {
			acceptedNew++
		}
	}

	return survivors, acceptedNew
}

// load reads and parses the persisted log. A missing file is an empty log.
func (s *FileStore) load() ([]record.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(header)

	var records []record.Record
	first := true

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read history file: %w", err)
		}

		if first {
			first = false
			if row[0] == header[0] {
				continue
			}
		}

		records = append(records, rowToRecord(row))
	}

	return records, nil
}

// write persists the full log atomically: the new content is written to a
// temporary file in the same directory and renamed over the old one, so a
// failure mid-write leaves the previous log untouched.
func (s *FileStore) write(records []record.Record) error {
	dir := filepath.Dir(s.path)

	tmp, err := os.CreateTemp(dir, ".history-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temporary history file: %w", err)
	}
	tmpPath := tmp.Name()

	writer := csv.NewWriter(tmp)

	writeErr := writer.Write(header)
	for _, r := range records {
		if writeErr != nil {
			break
		}
		writeErr = writer.Write(recordToRow(r))
	}
	if writeErr == nil {
		writer.Flush()
		writeErr = writer.Error()
	}
	if writeErr == nil {
		writeErr = tmp.Sync()
	}

	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}

	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write history file: %w", writeErr)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace history file: %w", err)
	}

	return nil
}

func recordToRow(r record.Record) []string {
	timeValue := record.Unknown
	if r.HasTimestamp() {
		timeValue = r.Timestamp.UTC().Format(timeLayout)
	}

	return []string{string(r.Platform), timeValue, r.Author, r.Title, r.Description, r.URL}
}

func rowToRecord(row []string) record.Record {
	var timestamp time.Time
	if row[1] != "" && row[1] != record.Unknown {
		if t, err := time.Parse(timeLayout, row[1]); err == nil {
			timestamp = t.UTC()
		}
	}

	return record.Record{
		Platform:    record.Platform(row[0]),
		Timestamp:   timestamp,
		Author:      row[2],
		Title:       row[3],
		Description: row[4],
		URL:         row[5],
	}
}
