package collector

import (
	"context"
	"fmt"
	"log"

	"github.com/YCLstock/nasdaq100/internal/model"
)

// Collector fetches raw daily bars and normalizes them into a Series.
// Deriving volatility (high − low) happens here, never in a Fetcher.
type Collector struct {
	Fetcher    Fetcher
	Symbol     string
	WindowDays int
}

// NewCollector creates a new Collector for a symbol and trailing window.
func NewCollector(fetcher Fetcher, symbol string, windowDays int) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, WindowDays: windowDays}
}

// Collect fetches the trailing window of daily bars and builds a Series.
// Any upstream failure, including an empty result, comes back as an error
// and the caller keeps whatever series it already had.
func (c *Collector) Collect(ctx context.Context) (model.Series, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, c.Symbol, c.WindowDays)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch daily bars: no usable observations")
	}

	series := make(model.Series, 0, len(bars))
	for _, bar := range bars {
		if bar.High < bar.Low {
			// Upstream occasionally serves inverted rows. Propagated as-is;
			// the resulting negative volatility is visible downstream.
			log.Printf("[WARN] inverted bar on %s: high=%.2f low=%.2f",
				bar.Date.Format("2006-01-02"), bar.High, bar.Low)
		}
		series = append(series, model.DailyObservation{
			Date:       bar.Date,
			High:       bar.High,
			Low:        bar.Low,
			Volatility: bar.High - bar.Low,
		})
	}
	return series, nil
}
