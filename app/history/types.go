package history

import "newspulse/app/record"

// MergeResult summarizes the outcome of a merge operation.
type MergeResult struct {
	Accepted   int // records from the new batch that survived deduplication
	Duplicates int // records from the new batch dropped as duplicates
}

// Store is the contract for the persisted history log.
type Store interface {
	Merge(records []record.Record) (MergeResult, error)
	AllRecords() ([]record.Record, error)
	Exists() bool
	RecordCount() (int, error)
}
