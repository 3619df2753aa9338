package sweep

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists sweep runs and their per-combination results in sqlite.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sweep_runs (
	run_id TEXT PRIMARY KEY,
	source TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS sweep_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	dim INTEGER NOT NULL,
	tau DOUBLE NOT NULL,
	dt DOUBLE NOT NULL,
	deriv_win INTEGER NOT NULL,
	windows INTEGER NOT NULL,
	degenerate_windows INTEGER NOT NULL,
	max_h1 DOUBLE NOT NULL,
	periodicity DOUBLE NOT NULL,
	quasiperiodicity DOUBLE NOT NULL,
	FOREIGN KEY(run_id) REFERENCES sweep_runs(run_id)
);
CREATE INDEX IF NOT EXISTS idx_sweep_results_run ON sweep_results(run_id, periodicity DESC);
`

// OpenStore opens (creating if needed) a sweep store at path. Use
// ":memory:" for an ephemeral store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sweep: open store %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sweep: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun inserts a new sweep run row and returns its id.
func (s *Store) CreateRun(source string) (string, error) {
	runID := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO sweep_runs (run_id, source, created_at) VALUES (?, ?, ?)",
		runID, source, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("sweep: create run: %w", err)
	}
	return runID, nil
}

// RecordResult appends one combination result to a run.
func (s *Store) RecordResult(runID string, res ComboResult) error {
	maxH1 := 0.0
	if len(res.Scores.MaxPersistence) > 1 {
		maxH1 = res.Scores.MaxPersistence[1]
	}
	_, err := s.db.Exec(`
		INSERT INTO sweep_results
			(run_id, dim, tau, dt, deriv_win, windows, degenerate_windows, max_h1, periodicity, quasiperiodicity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, res.Config.Dim, res.Config.Tau, res.Config.DT, res.Config.DerivWin,
		res.Windows, res.DegenerateWindows, maxH1,
		res.Scores.Periodicity, res.Scores.Quasiperiodicity,
	)
	if err != nil {
		return fmt.Errorf("sweep: record result: %w", err)
	}
	return nil
}

// TopResults returns the best-scoring combinations of a run by
// periodicity, descending.
func (s *Store) TopResults(runID string, limit int) ([]ComboResult, error) {
	rows, err := s.db.Query(`
		SELECT dim, tau, dt, deriv_win, windows, degenerate_windows, max_h1, periodicity, quasiperiodicity
		FROM sweep_results
		WHERE run_id = ?
		ORDER BY periodicity DESC, dim ASC
		LIMIT ?`, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("sweep: query results: %w", err)
	}
	defer rows.Close()

	var out []ComboResult
	for rows.Next() {
		var r ComboResult
		var maxH1 float64
		if err := rows.Scan(
			&r.Config.Dim, &r.Config.Tau, &r.Config.DT, &r.Config.DerivWin,
			&r.Windows, &r.DegenerateWindows, &maxH1,
			&r.Scores.Periodicity, &r.Scores.Quasiperiodicity,
		); err != nil {
			return nil, fmt.Errorf("sweep: scan result: %w", err)
		}
		r.Scores.MaxPersistence = []float64{0, maxH1}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunCount reports how many sweep runs the store holds.
func (s *Store) RunCount() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM sweep_runs").Scan(&n)
	return n, err
}
