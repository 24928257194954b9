// Package store keeps a local history of runs in SQLite, next to the
// evidence bundles on disk. The bundle is the authoritative record; the
// database exists so past runs can be listed and reloaded without walking
// the bundle directory.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/zen-systems/burngate/pkg/evidence"
)

// Store wraps the run-history database.
type Store struct {
	db *sql.DB
}

// RunSummary is one row of the history listing.
type RunSummary struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Mode      string    `json:"mode"`
	State     string    `json:"state"`
	BudgetCap float64   `json:"budget_cap"`
	SpentUsdc float64   `json:"spent_usdc"`
}

// Open opens (or creates) the history database at the given path.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		timestamp DATETIME,
		mode TEXT,
		state TEXT,
		budget_cap REAL,
		spent_usdc REAL,
		result TEXT
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveStudy records a completed (or partial) matched-pair study.
func (s *Store) SaveStudy(run evidence.RunRecord, verdict *evidence.StudyVerdict) error {
	if verdict == nil {
		return fmt.Errorf("verdict is required")
	}
	resultJSON, err := json.Marshal(verdict)
	if err != nil {
		return err
	}
	spent := conditionSpend(verdict.NoZauth) + conditionSpend(verdict.WithZauth)
	return s.insertRun(run, string(verdict.State), spent, resultJSON)
}

// SaveComparison records an interleaved comparison.
func (s *Store) SaveComparison(run evidence.RunRecord, summary *evidence.ComparisonSummary) error {
	if summary == nil {
		return fmt.Errorf("summary is required")
	}
	resultJSON, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return s.insertRun(run, string(summary.State), summary.BudgetUsed, resultJSON)
}

// conditionSpend reconstructs a condition's total outlay from its per-trial
// means, check fees included.
func conditionSpend(c evidence.ConditionResults) float64 {
	return (c.MeanSpent + c.MeanZauthCost) * float64(c.Trials)
}

func (s *Store) insertRun(run evidence.RunRecord, state string, spent float64, resultJSON []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, timestamp, mode, state, budget_cap, spent_usdc, result) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Timestamp.UTC(), run.Mode, state, run.BudgetCap, spent, string(resultJSON))
	return err
}

// ListRuns returns run summaries, most recent first.
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, timestamp, mode, state, budget_cap, spent_usdc FROM runs ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Mode, &r.State, &r.BudgetCap, &r.SpentUsdc); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetStudy reloads a stored study verdict by run ID.
func (s *Store) GetStudy(runID string) (*evidence.StudyVerdict, error) {
	resultJSON, mode, err := s.getResult(runID)
	if err != nil {
		return nil, err
	}
	if mode != "study" {
		return nil, fmt.Errorf("run %s is a %s run, not a study", runID, mode)
	}
	var verdict evidence.StudyVerdict
	if err := json.Unmarshal([]byte(resultJSON), &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

// GetComparison reloads a stored comparison summary by run ID.
func (s *Store) GetComparison(runID string) (*evidence.ComparisonSummary, error) {
	resultJSON, mode, err := s.getResult(runID)
	if err != nil {
		return nil, err
	}
	if mode != "compare" {
		return nil, fmt.Errorf("run %s is a %s run, not a comparison", runID, mode)
	}
	var summary evidence.ComparisonSummary
	if err := json.Unmarshal([]byte(resultJSON), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *Store) getResult(runID string) (resultJSON, mode string, err error) {
	err = s.db.QueryRow(`SELECT result, mode FROM runs WHERE id = ?`, runID).Scan(&resultJSON, &mode)
	if err == sql.ErrNoRows {
		return "", "", fmt.Errorf("run %s not found", runID)
	}
	return resultJSON, mode, err
}
