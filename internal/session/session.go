package session

import (
	"sync"

	"github.com/YCLstock/nasdaq100/internal/calculator"
	"github.com/YCLstock/nasdaq100/internal/model"
)

// Session owns one dashboard session's mutable state: the current series,
// its derived metrics, and the refresh timestamps. The scheduler is the
// only writer; HTTP handlers read concurrently through copies.
type Session struct {
	mu      sync.RWMutex
	series  model.Series
	metrics model.Metrics
	refresh model.RefreshState
}

// New creates an empty session with no data yet.
func New() *Session {
	return &Session{}
}

// SetSeries replaces the series wholesale and recomputes metrics in full.
// The old series and the old snapshot are discarded, not merged.
func (s *Session) SetSeries(series model.Series) error {
	metrics, err := calculator.Aggregate(series)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series = series
	s.metrics = metrics
	return nil
}

// MarkRefresh records the outcome timestamps of a fetch attempt. Called on
// every cycle, successful or not.
func (s *Session) MarkRefresh(state model.RefreshState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = state
}

// HasData reports whether at least one successful refresh has happened.
func (s *Session) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.series) > 0
}

// Metrics returns the current snapshot.
func (s *Session) Metrics() model.Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

// RefreshState returns the current refresh timestamps.
func (s *Session) RefreshState() model.RefreshState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// Len returns the number of observations held.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.series)
}

// Window returns a copy of the observations within the trailing `days`
// calendar days. Callers may hold the result as long as they like.
func (s *Session) Window(days int) model.Series {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slice := s.series.TrailingDays(days)
	out := make(model.Series, len(slice))
	copy(out, slice)
	return out
}
