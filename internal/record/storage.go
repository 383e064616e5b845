// Package record persists probe runs to SQLite so regressions can be
// compared across runs of the harness.
package record

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vcto/mcp-probe/internal/harness"
)

// RunRecord is the stored summary of one harness run.
type RunRecord struct {
	RunID    string    `json:"run_id"`
	Target   string    `json:"target"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	OK       bool      `json:"ok"`
}

// OutcomeRecord is one stored step outcome.
type OutcomeRecord struct {
	RunID      string `json:"run_id"`
	Seq        int    `json:"seq"`
	Step       string `json:"step"`
	Status     string `json:"status"`
	ErrorKind  string `json:"error_kind"`
	Error      string `json:"error"`
	Detail     string `json:"detail"`
	DurationMS int64  `json:"duration_ms"`
}

// RunStore handles SQLite operations for run recording.
type RunStore struct {
	db     *sql.DB
	dbPath string
}

// NewRunStore opens (or creates) the run database at dbPath.
func NewRunStore(dbPath string) (*RunStore, error) {
	if dbPath == "" {
		dbPath = "./probe_runs.db"
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &RunStore{db: db, dbPath: dbPath}
	if err := store.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return store, nil
}

func (rs *RunStore) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		target TEXT NOT NULL,
		started DATETIME NOT NULL,
		finished DATETIME NOT NULL,
		ok INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started);

	CREATE TABLE IF NOT EXISTS outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		step TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('success', 'failed', 'skipped')),
		error_kind TEXT,
		error TEXT,
		detail TEXT,
		duration_ms INTEGER DEFAULT 0,
		UNIQUE(run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
	CREATE INDEX IF NOT EXISTS idx_outcomes_step ON outcomes(step);
	`
	_, err := rs.db.Exec(query)
	return err
}

// SaveRun stores a completed run and its outcomes, returning the run id.
func (rs *RunStore) SaveRun(target string, outcomes []harness.Outcome, started, finished time.Time) (string, error) {
	runID := uuid.New().String()

	ok := true
	for _, o := range outcomes {
		if o.Status == harness.StatusFailed {
			ok = false
		}
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, target, started, finished, ok) VALUES (?, ?, ?, ?, ?)`,
		runID, target, started, finished, ok,
	)
	if err != nil {
		return "", err
	}

	for i, o := range outcomes {
		_, err = tx.Exec(
			`INSERT INTO outcomes (run_id, seq, step, status, error_kind, error, detail, duration_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i+1, o.Step, string(o.Status), o.Kind, o.Err, string(o.Detail), o.Duration.Milliseconds(),
		)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// GetRun retrieves the stored outcomes for a run in step order.
func (rs *RunStore) GetRun(runID string) ([]OutcomeRecord, error) {
	rows, err := rs.db.Query(
		`SELECT run_id, seq, step, status, error_kind, error, detail, duration_ms
		 FROM outcomes WHERE run_id = ? ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []OutcomeRecord
	for rows.Next() {
		var rec OutcomeRecord
		err := rows.Scan(&rec.RunID, &rec.Seq, &rec.Step, &rec.Status,
			&rec.ErrorKind, &rec.Error, &rec.Detail, &rec.DurationMS)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRecentRuns retrieves the most recent run summaries.
func (rs *RunStore) GetRecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := rs.db.Query(
		`SELECT run_id, target, started, finished, ok
		 FROM runs ORDER BY started DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.Target, &r.Started, &r.Finished, &r.OK); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetStats returns basic statistics about recorded runs.
func (rs *RunStore) GetStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalRuns int64
	if err := rs.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&totalRuns); err != nil {
		return nil, err
	}
	stats["total_runs"] = totalRuns

	var passingRuns int64
	if err := rs.db.QueryRow("SELECT COUNT(*) FROM runs WHERE ok = 1").Scan(&passingRuns); err != nil {
		return nil, err
	}
	stats["passing_runs"] = passingRuns

	statusRows, err := rs.db.Query(
		`SELECT step, status, COUNT(*) FROM outcomes GROUP BY step, status`)
	if err != nil {
		return nil, err
	}
	defer statusRows.Close()

	stepCounts := make(map[string]int64)
	for statusRows.Next() {
		var step, status string
		var count int64
		if err := statusRows.Scan(&step, &status, &count); err != nil {
			return nil, err
		}
		stepCounts[step+"/"+status] = count
	}
	stats["steps"] = stepCounts

	return stats, nil
}

// Close closes the database connection.
func (rs *RunStore) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}
