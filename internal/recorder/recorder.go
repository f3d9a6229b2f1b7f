package recorder

import (
	"time"

	"github.com/YCLstock/nasdaq100/internal/model"
)

// RefreshRecord holds the outcome of one refresh cycle.
type RefreshRecord struct {
	Timestamp    time.Time
	Status       string // "OK" or "FAILED"
	Error        string
	Observations int
	Metrics      model.Metrics
}

// Recorder persists refresh-cycle history for later inspection.
type Recorder interface {
	RecordRefresh(rec *RefreshRecord) error
	Close() error
}
