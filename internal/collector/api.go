package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"
)

// APIFetcher implements Fetcher against a dedicated data-provider REST API.
// The response contract is a single JSON object:
//
//	{ "data": [ { "date": "<ISO-8601>", "high": <number>, "low": <number> }, ... ] }
type APIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAPIFetcher creates a new fetcher with optional proxy support.
func NewAPIFetcher(baseURL, apiKey, proxyURL string) *APIFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &APIFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *APIFetcher) Name() string { return "api" }

// apiBar is one element of the provider's data array.
type apiBar struct {
	Date string   `json:"date"`
	High *float64 `json:"high"`
	Low  *float64 `json:"low"`
}

type apiResponse struct {
	Data []apiBar `json:"data"`
}

// FetchDailyBars requests the trailing `days` daily bars for a symbol.
// Missing or malformed fields fail the whole fetch; the caller keeps its
// previous series.
func (f *APIFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]RawBar, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d",
		f.BaseURL, url.QueryEscape(symbol), days)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}

	bars := make([]RawBar, 0, len(payload.Data))
	for i, b := range payload.Data {
		if b.Date == "" || b.High == nil || b.Low == nil {
			return nil, fmt.Errorf("decode bars: element %d is missing date/high/low", i)
		}
		date, err := time.Parse(time.RFC3339, b.Date)
		if err != nil {
			return nil, fmt.Errorf("decode bars: element %d: %w", i, err)
		}
		bars = append(bars, RawBar{Date: date.UTC(), High: *b.High, Low: *b.Low})
	}

	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}
