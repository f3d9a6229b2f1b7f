package model

import "time"

// DailyObservation is one day of index data with its derived volatility
// (the high-minus-low range for that day). Values are immutable once built.
type DailyObservation struct {
	Date       time.Time `json:"date"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	Volatility float64   `json:"volatility"`
}

// Series is an ordered run of daily observations, strictly increasing by
// date with no duplicates. It is replaced wholesale on every successful
// fetch; there is no incremental merge.
type Series []DailyObservation

// Last returns the most recent observation. Callers must check Len first.
func (s Series) Last() DailyObservation {
	return s[len(s)-1]
}

// TrailingDays returns the observations whose date falls within the last
// `days` calendar days ending at the latest observation. Works on any
// length; a short series comes back whole.
func (s Series) TrailingDays(days int) Series {
	if len(s) == 0 {
		return Series{}
	}
	cutoff := s[len(s)-1].Date.AddDate(0, 0, -days)
	for i, obs := range s {
		if obs.Date.After(cutoff) {
			return s[i:]
		}
	}
	return Series{}
}
