package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIFetcherParsesWireShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization header: got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"date":"2025-06-02T00:00:00Z","high":110,"low":95},
			{"date":"2025-06-01T00:00:00Z","high":100,"low":90}
		]}`))
	}))
	defer ts.Close()

	f := NewAPIFetcher(ts.URL, "secret", "")
	bars, err := f.FetchDailyBars(context.Background(), "NDX100", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	// Out-of-order input must come back chronological.
	if !bars[0].Date.Before(bars[1].Date) {
		t.Error("bars not sorted by date")
	}
	if bars[0].High != 100 || bars[0].Low != 90 {
		t.Errorf("first bar: got high=%v low=%v", bars[0].High, bars[0].Low)
	}
}

func TestAPIFetcherRejectsMissingFields(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"date":"2025-06-01T00:00:00Z","high":100}]}`))
	}))
	defer ts.Close()

	f := NewAPIFetcher(ts.URL, "", "")
	if _, err := f.FetchDailyBars(context.Background(), "NDX100", 100); err == nil {
		t.Fatal("expected error for bar missing the low field")
	}
}

func TestAPIFetcherRejectsBadDate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"date":"not-a-date","high":100,"low":90}]}`))
	}))
	defer ts.Close()

	f := NewAPIFetcher(ts.URL, "", "")
	if _, err := f.FetchDailyBars(context.Background(), "NDX100", 100); err == nil {
		t.Fatal("expected error for unparsable date")
	}
}

func TestAPIFetcherUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	f := NewAPIFetcher(ts.URL, "", "")
	if _, err := f.FetchDailyBars(context.Background(), "NDX100", 100); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
