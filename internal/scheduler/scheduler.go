package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/YCLstock/nasdaq100/internal/collector"
	"github.com/YCLstock/nasdaq100/internal/model"
	"github.com/YCLstock/nasdaq100/internal/recorder"
	"github.com/YCLstock/nasdaq100/internal/session"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
)

var (
	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nasdaq100_refresh_total",
			Help: "Total number of refresh cycles by outcome",
		},
		[]string{"status"},
	)
	refreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nasdaq100_refresh_duration_seconds",
			Help:    "Duration of the fetch phase of a refresh cycle",
			Buckets: prometheus.DefBuckets,
		},
	)
	currentVolatility = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nasdaq100_current_volatility",
			Help: "Latest daily high-minus-low range",
		},
	)
	seriesSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nasdaq100_series_observations",
			Help: "Number of observations in the current series",
		},
	)
)

// Scheduler drives the refresh cycle: one fetch immediately on start, then
// one per calendar day at the configured local hour. The cycle is strictly
// sequential; a cron fire that lands while a fetch is still in flight is
// dropped rather than overlapped.
type Scheduler struct {
	Cron        *cron.Cron
	Collector   *collector.Collector
	Session     *session.Session
	Recorder    recorder.Recorder
	Ctx         context.Context
	RefreshHour int

	mu       sync.Mutex
	fetching bool
}

// New creates a Scheduler bound to one session.
func New(ctx context.Context, col *collector.Collector, sess *session.Session, rec recorder.Recorder, refreshHour int) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Collector:   col,
		Session:     sess,
		Recorder:    rec,
		Ctx:         ctx,
		RefreshHour: refreshHour,
	}
}

// Start registers the daily entry, starts cron, and kicks off the initial
// refresh in the background.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("0 0 %d * * *", s.RefreshHour)
	if _, err := s.Cron.AddFunc(spec, s.RunRefresh); err != nil {
		return fmt.Errorf("register daily refresh: %w", err)
	}
	s.Cron.Start()
	log.Printf("[INFO] scheduler started, daily refresh at %02d:00", s.RefreshHour)

	go s.RunRefresh()
	return nil
}

// Stop stops the cron scheduler; pending entries never fire again.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunRefresh executes one fetch-aggregate-arm cycle. On failure the
// previous series stays intact and the schedule still advances, so the
// system retries at the next cycle instead of spinning.
func (s *Scheduler) RunRefresh() {
	s.mu.Lock()
	if s.fetching {
		s.mu.Unlock()
		log.Println("[WARN] refresh already in flight, skipping")
		return
	}
	s.fetching = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.fetching = false
		s.mu.Unlock()
	}()

	if s.Ctx.Err() != nil {
		return
	}

	start := time.Now()
	series, err := s.Collector.Collect(s.Ctx)
	refreshDuration.Observe(time.Since(start).Seconds())

	now := time.Now()
	state := model.RefreshState{
		LastUpdate: now,
		NextUpdate: NextRefreshAt(now, s.RefreshHour),
	}

	if err == nil {
		err = s.Session.SetSeries(series)
	}
	s.Session.MarkRefresh(state)

	if err != nil {
		log.Printf("[ERROR] refresh: %v", err)
		refreshTotal.WithLabelValues("failed").Inc()
		s.record(&recorder.RefreshRecord{
			Timestamp:    now,
			Status:       "FAILED",
			Error:        err.Error(),
			Observations: s.Session.Len(),
			Metrics:      s.Session.Metrics(),
		})
		return
	}

	m := s.Session.Metrics()
	currentVolatility.Set(m.Current)
	seriesSize.Set(float64(len(series)))
	refreshTotal.WithLabelValues("ok").Inc()
	log.Printf("[INFO] refresh ok: %d observations, current volatility %.2f, next update %s",
		len(series), m.Current, state.NextUpdate.Format(time.RFC3339))

	s.record(&recorder.RefreshRecord{
		Timestamp:    now,
		Status:       "OK",
		Observations: len(series),
		Metrics:      m,
	})
}

func (s *Scheduler) record(rec *recorder.RefreshRecord) {
	if err := s.Recorder.RecordRefresh(rec); err != nil {
		log.Printf("[ERROR] record refresh: %v", err)
	}
}

// NextRefreshAt returns the next refresh instant strictly after the
// configured hour boundary: today at hour:00:00 if now is still before it,
// otherwise tomorrow. Local wall-clock time throughout; behavior across a
// DST transition follows whatever time.Date does for the local zone.
func NextRefreshAt(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if now.Hour() >= hour {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
