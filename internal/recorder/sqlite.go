package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
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

	// WAL mode for better concurrent read performance (dashboards read while the pipeline writes).
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
		`CREATE TABLE IF NOT EXISTS runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			generated_at INTEGER NOT NULL,
			provider     TEXT,
			tickers      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(generated_at)`,

		`CREATE TABLE IF NOT EXISTS run_signals (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     INTEGER NOT NULL REFERENCES runs(id),
			ticker     TEXT NOT NULL,
			points     INTEGER,
			last_ts    INTEGER,
			last_close REAL,
			signal     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_signals_run ON run_signals(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts the run header and one row per ticker in a transaction.
func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	res, err := tx.Exec(`INSERT INTO runs (generated_at, provider, tickers) VALUES (?,?,?)`,
		rec.GeneratedAt.Unix(), rec.Provider, len(rec.Outcomes))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("run id: %w", err)
	}
	for _, o := range rec.Outcomes {
		if _, err := tx.Exec(`INSERT INTO run_signals
			(run_id, ticker, points, last_ts, last_close, signal)
			VALUES (?,?,?,?,?,?)`,
			runID, o.Ticker, o.Points, o.LastTime.Unix(), o.LastClose, string(o.Signal),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert signal for %s: %w", o.Ticker, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
