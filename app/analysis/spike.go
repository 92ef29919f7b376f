package analysis

import (
	"gonum.org/v1/gonum/stat"
)

// DefaultSpikeThreshold flags days more than 50% above the baseline.
const DefaultSpikeThreshold = 1.5

// DetectSpike compares the latest day of the series against the mean of all
// earlier days. It returns an alert when the latest count is strictly
// greater than baseline*threshold, nil otherwise. A series shorter than two
// entries produces no signal; sparse histories are a normal outcome, not an
// error.
func DetectSpike(series []DailyPoint, threshold float64) *SpikeAlert {
	if len(series) < 2 {
		return nil
	}

	latest := series[len(series)-1]

	counts := make([]float64, len(series)-1)
	for i, p := range series[:len(series)-1] {
		counts[i] = float64(p.Count)
	}
	baseline := stat.Mean(counts, nil)

	if float64(latest.Count) > baseline*threshold {
		return &SpikeAlert{
			Day:      latest.Date,
			Count:    latest.Count,
			Baseline: baseline,
		}
	}

	return nil
}
