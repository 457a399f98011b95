// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists completed analysis bundles to a local SQLite
// database. This is strictly a presentation-layer convenience: the engine
// never reads history, so two runs with the same input are independent.
//
// See docs/ARCHITECTURE.md § History.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/inbox-intel/pkg/types"
)

const dbFile = "history.db"

// Store manages the analysis history SQLite database.
type Store struct {
	db *sql.DB
}

// Summary is one history row without the full bundle payload.
type Summary struct {
	RunID          string  `json:"run_id"`
	CreatedAt      string  `json:"created_at"`
	Subject        string  `json:"subject"`
	EntityCount    int     `json:"entity_count"`
	ActualSearches int     `json:"actual_searches"`
	EfficiencyRate float64 `json:"efficiency_rate"`
	DraftWords     int     `json:"draft_words"`
}

// NewStore opens or creates the history database under cfg.Dir, creating the
// schema if needed.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	stmt := `CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		subject TEXT,
		self_party TEXT,
		entity_count INTEGER,
		actual_searches INTEGER,
		efficiency_rate REAL,
		draft_words INTEGER,
		bundle TEXT NOT NULL
	)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Save stores a completed analysis bundle.
func (s *Store) Save(result *types.AnalysisResult) error {
	bundle, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling bundle: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO runs
			(id, created_at, subject, self_party, entity_count,
			 actual_searches, efficiency_rate, draft_words, bundle)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID, result.Timestamp, result.Subject, result.SelfParty,
		len(result.Entities), result.Stats.ActualSearches,
		result.Stats.EfficiencyRate, result.Quality.WordCount, string(bundle),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// List returns run summaries, newest first, capped at limit (0 means all).
func (s *Store) List(limit int) ([]Summary, error) {
	q := `SELECT id, created_at, subject, entity_count, actual_searches,
			efficiency_rate, draft_words
		  FROM runs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var r Summary
		if err := rows.Scan(&r.RunID, &r.CreatedAt, &r.Subject, &r.EntityCount,
			&r.ActualSearches, &r.EfficiencyRate, &r.DraftWords); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get loads the full bundle for a run ID.
func (s *Store) Get(runID string) (*types.AnalysisResult, error) {
	var bundle string
	err := s.db.QueryRow(`SELECT bundle FROM runs WHERE id = ?`, runID).Scan(&bundle)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(bundle), &result); err != nil {
		return nil, fmt.Errorf("parsing bundle: %w", err)
	}
	return &result, nil
}
