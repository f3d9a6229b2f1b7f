package collector

import (
	"context"
	"time"
)

// RawBar is one day of upstream data as the provider reports it: date plus
// high and low. Volatility is deliberately absent; deriving it belongs to
// the core, not to any fetcher.
type RawBar struct {
	Date time.Time
	High float64
	Low  float64
}

// Fetcher defines the interface for retrieving daily high/low bars.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]RawBar, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars []RawBar
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]RawBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return generateMockBars(20000, days), nil
}

func generateMockBars(basePrice float64, count int) []RawBar {
	bars := make([]RawBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = RawBar{
			Date: time.Now().AddDate(0, 0, -(count - i)),
			High: p * 1.006,
			Low:  p * 0.994,
		}
	}
	return bars
}
