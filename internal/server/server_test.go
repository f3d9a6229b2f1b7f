package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/YCLstock/nasdaq100/internal/model"
	"github.com/YCLstock/nasdaq100/internal/session"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func populatedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	sess := session.New()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	series := make(model.Series, 0, 40)
	for i := 0; i < 40; i++ {
		series = append(series, model.DailyObservation{
			Date:       base.AddDate(0, 0, i),
			High:       110,
			Low:        100,
			Volatility: 10,
		})
	}
	if err := sess.SetSeries(series); err != nil {
		t.Fatal(err)
	}
	sess.MarkRefresh(model.RefreshState{
		LastUpdate: time.Now(),
		NextUpdate: time.Now().Add(12 * time.Hour),
	})

	return NewRouter(NewDashboardController(sess, "NDX100"))
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGetMetrics(t *testing.T) {
	w := get(populatedRouter(t), "/api/v1/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}

	var m model.Metrics
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if m.Current != 10 {
		t.Errorf("current: got %v, want 10", m.Current)
	}
	if m.Avg100d != 10 {
		t.Errorf("avg100d: got %v, want 10", m.Avg100d)
	}
}

func TestGetMetricsNoData(t *testing.T) {
	router := NewRouter(NewDashboardController(session.New(), "NDX100"))
	w := get(router, "/api/v1/metrics")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want 503", w.Code)
	}
}

func TestGetSeriesWindows(t *testing.T) {
	router := populatedRouter(t)

	for _, tc := range []struct {
		path string
		want int
	}{
		{"/api/v1/series?window=7", 7},
		{"/api/v1/series?window=30", 30},
		{"/api/v1/series?window=100", 40}, // only 40 observations exist
		{"/api/v1/series", 40},            // default window is 100
	} {
		w := get(router, tc.path)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tc.path, w.Code)
		}
		var body struct {
			Count int                      `json:"count"`
			Data  []model.DailyObservation `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode body: %v", tc.path, err)
		}
		if body.Count != tc.want || len(body.Data) != tc.want {
			t.Errorf("%s: got %d observations, want %d", tc.path, body.Count, tc.want)
		}
	}
}

func TestGetSeriesRejectsBadWindow(t *testing.T) {
	router := populatedRouter(t)
	for _, path := range []string{
		"/api/v1/series?window=14",
		"/api/v1/series?window=abc",
		"/api/v1/series?window=-7",
	} {
		if w := get(router, path); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", path, w.Code)
		}
	}
}

func TestGetStatus(t *testing.T) {
	w := get(populatedRouter(t), "/api/v1/status")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var body struct {
		Symbol       string    `json:"symbol"`
		Observations int       `json:"observations"`
		LastUpdate   time.Time `json:"last_update"`
		NextUpdate   time.Time `json:"next_update"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Symbol != "NDX100" {
		t.Errorf("symbol: got %q", body.Symbol)
	}
	if body.Observations != 40 {
		t.Errorf("observations: got %d, want 40", body.Observations)
	}
	if !body.NextUpdate.After(body.LastUpdate) {
		t.Error("next_update should be after last_update")
	}
}

func TestHealthz(t *testing.T) {
	w := get(populatedRouter(t), "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
}
