package collector

import (
	"context"
	"errors"
	"testing"
	"time"
)

func bar(offset int, high, low float64) RawBar {
	return RawBar{
		Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset),
		High: high,
		Low:  low,
	}
}

func TestCollectDerivesVolatility(t *testing.T) {
	fetcher := &MockFetcher{Bars: []RawBar{
		bar(0, 100, 90),
		bar(1, 110, 95),
		bar(2, 105, 100),
	}}
	col := NewCollector(fetcher, "NDX100", 100)

	series, err := col.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(series))
	}
	want := []float64{10, 15, 5}
	for i, w := range want {
		if series[i].Volatility != w {
			t.Errorf("observation %d: volatility got %v, want %v", i, series[i].Volatility, w)
		}
	}
	for i := 1; i < len(series); i++ {
		if !series[i].Date.After(series[i-1].Date) {
			t.Error("series dates are not strictly increasing")
		}
	}
}

func TestCollectPropagatesInvertedBars(t *testing.T) {
	fetcher := &MockFetcher{Bars: []RawBar{bar(0, 90, 100)}}
	col := NewCollector(fetcher, "NDX100", 100)

	series, err := col.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series[0].Volatility != -10 {
		t.Errorf("inverted bar: volatility got %v, want -10", series[0].Volatility)
	}
}

func TestCollectWrapsFetchError(t *testing.T) {
	sentinel := errors.New("upstream down")
	col := NewCollector(&MockFetcher{Err: sentinel}, "NDX100", 100)

	_, err := col.Collect(context.Background())
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
}

func TestCollectRejectsEmptyResult(t *testing.T) {
	col := NewCollector(&MockFetcher{Bars: []RawBar{}}, "NDX100", 100)

	// Bars is non-nil but empty; MockFetcher returns it as-is.
	if _, err := col.Collect(context.Background()); err == nil {
		t.Fatal("expected error for empty fetch result")
	}
}
