package model

import "time"

// Metrics is one aggregation pass over a Series. It is recomputed in full
// on every series update and never mutated in place.
//
// Avg7d and Avg30d keep the upstream divisor quirk: the mean is taken over
// the nominal window size even when fewer observations exist, so both are
// understated for short series. Avg100d divides by the actual count.
type Metrics struct {
	Current float64 `json:"current"`
	Avg7d   float64 `json:"avg_7d"`
	Avg30d  float64 `json:"avg_30d"`
	Avg100d float64 `json:"avg_100d"`
	Max7d   float64 `json:"max_7d"`
	Max30d  float64 `json:"max_30d"`
	Min7d   float64 `json:"min_7d"`
	Min30d  float64 `json:"min_30d"`
}

// RefreshState tracks the refresh cycle for display. Written by the
// scheduler on every fetch attempt, successful or not.
type RefreshState struct {
	LastUpdate time.Time `json:"last_update"`
	NextUpdate time.Time `json:"next_update"`
}
