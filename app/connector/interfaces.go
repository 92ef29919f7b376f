package connector

import (
	"context"

	"newspulse/app/record"
)

// Connector fetches raw records from one upstream source. A failed fetch is
// treated as zero records at the pipeline boundary; connectors only report
// the error, they never abort the run.
type Connector interface {
	Name() string
	Fetch(ctx context.Context, query string, limit int) ([]record.Raw, error)
}
