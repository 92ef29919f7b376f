package analysis

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData is returned when the series holds fewer than two
// distinct days, too few to fit any trend.
var ErrInsufficientData = errors.New("insufficient data: at least 2 distinct days of history are required")

// minSeasonalDays is the minimum number of observed days before a weekly
// seasonal component is estimated.
const minSeasonalDays = 14

// intervalZ is the z-score for a ~95% prediction interval.
const intervalZ = 1.96

var _ Engine = (*AdditiveEngine)(nil)

// AdditiveEngine fits an additive time-series model over the daily series:
// a least-squares linear trend plus, given enough history, a weekly seasonal
// component estimated from per-weekday mean residuals. Uncertainty bounds
// come from the residual standard deviation. The model refits from scratch
// on every call.
type AdditiveEngine struct{}

func NewAdditiveEngine() *AdditiveEngine {
	return &AdditiveEngine{}
}

// Forecast produces fitted values for the observed days and predictions for
// each day in [lastDate+1, lastDate+horizon].
func (e *AdditiveEngine) Forecast(series []DailyPoint, horizon int) (*Forecast, error) {
	if len(series) < 2 {
		return nil, ErrInsufficientData
	}
	if horizon < 0 {
		horizon = 0
	}

	first := series[0].Date

	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, p := range series {
		xs[i] = dayIndex(first, p.Date)
		ys[i] = float64(p.Count)
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	seasonal := fitWeeklySeasonality(series, alpha, beta, xs, ys)

	residuals := make([]float64, len(series))
	for i, p := range series {
		residuals[i] = ys[i] - (alpha + beta*xs[i] + seasonal[p.Date.Weekday()])
	}
	sigma := stat.StdDev(residuals, nil)
	if math.IsNaN(sigma) {
		sigma = 0
	}
	margin := intervalZ * sigma

	forecast := &Forecast{
		Fitted: make([]ForecastPoint, 0, len(series)),
		Points: make([]ForecastPoint, 0, horizon),
	}

	for i, p := range series {
		predicted := alpha + beta*xs[i] + seasonal[p.Date.Weekday()]
		forecast.Fitted = append(forecast.Fitted, makePoint(p.Date, predicted, margin))
	}

	last := series[len(series)-1].Date
	for d := 1; d <= horizon; d++ {
		date := last.AddDate(0, 0, d)
		predicted := alpha + beta*dayIndex(first, date) + seasonal[date.Weekday()]
		forecast.Points = append(forecast.Points, makePoint(date, predicted, margin))
	}

	return forecast, nil
}

// fitWeeklySeasonality estimates per-weekday mean residuals around the
// linear trend. Series shorter than two full weeks get a flat (zero)
// seasonal component.
func fitWeeklySeasonality(series []DailyPoint, alpha, beta float64, xs, ys []float64) [7]float64 {
	var seasonal [7]float64

	if len(series) < minSeasonalDays {
		return seasonal
	}

	var sums, counts [7]float64
	for i, p := range series {
		w := p.Date.Weekday()
		sums[w] += ys[i] - (alpha + beta*xs[i])
		counts[w]++
	}

	for w := range seasonal {
		if counts[w] > 0 {
			seasonal[w] = sums[w] / counts[w]
		}
	}

	return seasonal
}

// dayIndex measures dates in whole days from the start of the series, so
// gaps in the observed days keep their true distance on the time axis.
func dayIndex(first, date time.Time) float64 {
	return date.Sub(first).Hours() / 24
}

// makePoint clamps predictions at zero: counts are never negative.
func makePoint(date time.Time, predicted, margin float64) ForecastPoint {
	return ForecastPoint{
		Date:      date,
		Predicted: math.Max(0, predicted),
		Lower:     math.Max(0, predicted-margin),
		Upper:     math.Max(0, predicted+margin),
	}
}
