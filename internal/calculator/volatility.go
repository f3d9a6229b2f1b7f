package calculator

import (
	"errors"
	"math"

	"github.com/YCLstock/nasdaq100/internal/model"
)

// ErrEmptySeries is returned when aggregation is requested over zero
// observations. Callers are expected to check for data first; this is the
// guard against a divide-by-zero if they don't.
var ErrEmptySeries = errors.New("empty series")

// Aggregate computes a full Metrics snapshot from a series. Pure function:
// same series in, same snapshot out, no state kept between calls.
//
// The 7- and 30-day averages divide by the nominal window size even when
// the series is shorter, understating the mean for young series. The
// 100-day average divides by the actual count. This asymmetry matches the
// upstream data source and must not be "fixed".
func Aggregate(series model.Series) (model.Metrics, error) {
	if len(series) == 0 {
		return model.Metrics{}, ErrEmptySeries
	}

	m := model.Metrics{Current: series.Last().Volatility}

	m.Avg7d = nominalAverage(series, 7)
	m.Max7d, m.Min7d = windowRange(series, 7)

	m.Avg30d = nominalAverage(series, 30)
	m.Max30d, m.Min30d = windowRange(series, 30)

	m.Avg100d = trueAverage(series, 100)

	return m, nil
}

// trailing returns the last min(len, window) elements.
func trailing(series model.Series, window int) model.Series {
	start := len(series) - window
	if start < 0 {
		start = 0
	}
	return series[start:]
}

// nominalAverage sums the trailing window's volatilities and divides by the
// window size regardless of how many observations actually exist.
func nominalAverage(series model.Series, window int) float64 {
	sum := 0.0
	for _, obs := range trailing(series, window) {
		sum += obs.Volatility
	}
	return sum / float64(window)
}

// trueAverage divides by the actual number of observations in the window.
func trueAverage(series model.Series, window int) float64 {
	slice := trailing(series, window)
	if len(slice) == 0 {
		return 0
	}
	sum := 0.0
	for _, obs := range slice {
		sum += obs.Volatility
	}
	return sum / float64(len(slice))
}

// windowRange returns the max and min volatility over the trailing window.
func windowRange(series model.Series, window int) (max, min float64) {
	max = math.Inf(-1)
	min = math.Inf(1)
	for _, obs := range trailing(series, window) {
		if obs.Volatility > max {
			max = obs.Volatility
		}
		if obs.Volatility < min {
			min = obs.Volatility
		}
	}
	return max, min
}
