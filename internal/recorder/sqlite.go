package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists refresh history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers don't block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refresh_history (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			status       TEXT NOT NULL,
			error        TEXT,
			observations INTEGER,
			current      REAL,
			avg_7d       REAL,
			avg_30d      REAL,
			avg_100d     REAL,
			max_7d       REAL,
			max_30d      REAL,
			min_7d       REAL,
			min_30d      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_ts ON refresh_history(timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// RecordRefresh inserts one refresh-cycle row.
func (r *SQLiteRecorder) RecordRefresh(rec *RefreshRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(
		`INSERT INTO refresh_history
			(timestamp, status, error, observations,
			 current, avg_7d, avg_30d, avg_100d, max_7d, max_30d, min_7d, min_30d)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.Unix(), rec.Status, rec.Error, rec.Observations,
		rec.Metrics.Current, rec.Metrics.Avg7d, rec.Metrics.Avg30d, rec.Metrics.Avg100d,
		rec.Metrics.Max7d, rec.Metrics.Max30d, rec.Metrics.Min7d, rec.Metrics.Min30d,
	)
	if err != nil {
		return fmt.Errorf("insert refresh record: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
