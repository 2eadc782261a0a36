// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists batch results to SQLite so downstream
// reporting can query past runs without re-running the engine. Each
// batch is saved whole under a fresh run ID; nothing is ever patched.
// See docs/ARCHITECTURE § Results Store.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/skillcast/pkg/types"
)

const dbFile = "results.db"

// Store manages the results SQLite database.
type Store struct {
	db         *sql.DB
	resultsDir string
}

// RunResults bundles everything one batch produced: the four output
// tables, the diagnostics, and the configuration that shaped them.
type RunResults struct {
	Config            types.PipelineConfig
	DictionaryVersion string
	Demand            []types.DemandRow
	Matrix            []types.MatrixEntry
	Recommendations   []types.Recommendation
	Coverage          []types.CoverageRow
	Diagnostics       []types.Diagnostic
}

// RunInfo describes one stored run.
type RunInfo struct {
	ID                string    `json:"run_id" yaml:"run_id"`
	CreatedAt         time.Time `json:"created_at" yaml:"created_at"`
	DictionaryVersion string    `json:"dictionary_version" yaml:"dictionary_version"`
}

// New opens or creates the results database under cfg.ResultsDir,
// creating the schema if needed.
func New(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.ResultsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}

	dbPath := filepath.Join(cfg.ResultsDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, resultsDir: cfg.ResultsDir}
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
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			dictionary_version TEXT,
			config TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS demand (
			run_id TEXT NOT NULL REFERENCES runs(id),
			skill_id TEXT NOT NULL,
			period INTEGER NOT NULL,
			period_start TEXT NOT NULL,
			observed INTEGER NOT NULL,
			forecast REAL,
			growth REAL,
			trend TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_demand_run_skill ON demand(run_id, skill_id)`,
		`CREATE TABLE IF NOT EXISTS matrix (
			run_id TEXT NOT NULL REFERENCES runs(id),
			skill_id TEXT NOT NULL,
			course_id TEXT NOT NULL,
			weight REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matrix_run_skill ON matrix(run_id, skill_id)`,
		`CREATE TABLE IF NOT EXISTS recommendations (
			run_id TEXT NOT NULL REFERENCES runs(id),
			student_id TEXT,
			course_id TEXT NOT NULL,
			score REAL NOT NULL,
			rank INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS coverage (
			run_id TEXT NOT NULL REFERENCES runs(id),
			skill_id TEXT NOT NULL,
			demand_rank INTEGER NOT NULL,
			coverage_score REAL NOT NULL,
			gap_flag INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS diagnostics (
			run_id TEXT NOT NULL REFERENCES runs(id),
			stage TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			reason TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun persists one batch atomically and returns its run ID.
func (s *Store) SaveRun(ctx context.Context, results RunResults) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	configJSON, err := json.Marshal(results.Config)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, dictionary_version, config) VALUES (?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339), results.DictionaryVersion, string(configJSON),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	if err := insertDemand(ctx, tx, runID, results.Demand); err != nil {
		return "", err
	}
	if err := insertMatrix(ctx, tx, runID, results.Matrix); err != nil {
		return "", err
	}
	if err := insertRecommendations(ctx, tx, runID, results.Recommendations); err != nil {
		return "", err
	}
	if err := insertCoverage(ctx, tx, runID, results.Coverage); err != nil {
		return "", err
	}
	if err := insertDiagnostics(ctx, tx, runID, results.Diagnostics); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

func insertDemand(ctx context.Context, tx *sql.Tx, runID string, rows []types.DemandRow) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO demand (run_id, skill_id, period, period_start, observed, forecast, growth, trend)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing demand insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		var forecast, growth any
		if r.Forecast != nil {
			forecast = *r.Forecast
		}
		if r.Growth != nil {
			growth = *r.Growth
		}
		_, err := stmt.ExecContext(ctx,
			runID, r.SkillID, r.Period, r.PeriodStart.UTC().Format(time.RFC3339),
			r.Observed, forecast, growth, string(r.Trend))
		if err != nil {
			return fmt.Errorf("inserting demand row %s/%d: %w", r.SkillID, r.Period, err)
		}
	}
	return nil
}

func insertMatrix(ctx context.Context, tx *sql.Tx, runID string, entries []types.MatrixEntry) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO matrix (run_id, skill_id, course_id, weight) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing matrix insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, runID, e.SkillID, e.CourseID, e.Weight); err != nil {
			return fmt.Errorf("inserting matrix entry %s/%s: %w", e.SkillID, e.CourseID, err)
		}
	}
	return nil
}

func insertRecommendations(ctx context.Context, tx *sql.Tx, runID string, recs []types.Recommendation) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO recommendations (run_id, student_id, course_id, score, rank) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing recommendation insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx, runID, r.StudentID, r.CourseID, r.Score, r.Rank); err != nil {
			return fmt.Errorf("inserting recommendation %s/%s: %w", r.StudentID, r.CourseID, err)
		}
	}
	return nil
}

func insertCoverage(ctx context.Context, tx *sql.Tx, runID string, rows []types.CoverageRow) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO coverage (run_id, skill_id, demand_rank, coverage_score, gap_flag) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing coverage insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		gap := 0
		if r.Gap {
			gap = 1
		}
		if _, err := stmt.ExecContext(ctx, runID, r.SkillID, r.DemandRank, r.CoverageScore, gap); err != nil {
			return fmt.Errorf("inserting coverage row %s: %w", r.SkillID, err)
		}
	}
	return nil
}

func insertDiagnostics(ctx context.Context, tx *sql.Tx, runID string, diags []types.Diagnostic) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO diagnostics (run_id, stage, entity_id, reason) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing diagnostics insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range diags {
		if _, err := stmt.ExecContext(ctx, runID, d.Stage, d.EntityID, d.Reason); err != nil {
			return fmt.Errorf("inserting diagnostic %s/%s: %w", d.Stage, d.EntityID, err)
		}
	}
	return nil
}

// LatestRun returns the most recently saved run.
func (s *Store) LatestRun(ctx context.Context) (RunInfo, error) {
	var info RunInfo
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, dictionary_version FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&info.ID, &createdAt, &info.DictionaryVersion)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunInfo{}, fmt.Errorf("no runs stored")
		}
		return RunInfo{}, fmt.Errorf("querying latest run: %w", err)
	}

	info.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return RunInfo{}, fmt.Errorf("parsing run timestamp: %w", err)
	}
	return info, nil
}

// LoadRun reads one stored run's output tables back.
func (s *Store) LoadRun(ctx context.Context, runID string) (RunResults, error) {
	var results RunResults

	var configJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT dictionary_version, config FROM runs WHERE id = ?`, runID,
	).Scan(&results.DictionaryVersion, &configJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunResults{}, fmt.Errorf("run %s not found", runID)
		}
		return RunResults{}, fmt.Errorf("querying run: %w", err)
	}
	if err := json.Unmarshal([]byte(configJSON), &results.Config); err != nil {
		return RunResults{}, fmt.Errorf("parsing run config: %w", err)
	}

	if results.Demand, err = s.loadDemand(ctx, runID); err != nil {
		return RunResults{}, err
	}
	if results.Matrix, err = s.loadMatrix(ctx, runID); err != nil {
		return RunResults{}, err
	}
	if results.Recommendations, err = s.loadRecommendations(ctx, runID); err != nil {
		return RunResults{}, err
	}
	if results.Coverage, err = s.loadCoverage(ctx, runID); err != nil {
		return RunResults{}, err
	}
	if results.Diagnostics, err = s.loadDiagnostics(ctx, runID); err != nil {
		return RunResults{}, err
	}
	return results, nil
}

func (s *Store) loadDemand(ctx context.Context, runID string) ([]types.DemandRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT skill_id, period, period_start, observed, forecast, growth, trend
		 FROM demand WHERE run_id = ? ORDER BY skill_id, period`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying demand: %w", err)
	}
	defer rows.Close()

	var out []types.DemandRow
	for rows.Next() {
		var (
			r           types.DemandRow
			periodStart string
			forecast    sql.NullFloat64
			growth      sql.NullFloat64
			trend       string
		)
		if err := rows.Scan(&r.SkillID, &r.Period, &periodStart, &r.Observed, &forecast, &growth, &trend); err != nil {
			return nil, fmt.Errorf("scanning demand row: %w", err)
		}
		r.PeriodStart, _ = time.Parse(time.RFC3339, periodStart)
		if forecast.Valid {
			r.Forecast = &forecast.Float64
		}
		if growth.Valid {
			r.Growth = &growth.Float64
		}
		r.Trend = types.TrendLabel(trend)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) loadMatrix(ctx context.Context, runID string) ([]types.MatrixEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT skill_id, course_id, weight FROM matrix WHERE run_id = ? ORDER BY skill_id, course_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying matrix: %w", err)
	}
	defer rows.Close()

	var out []types.MatrixEntry
	for rows.Next() {
		var e types.MatrixEntry
		if err := rows.Scan(&e.SkillID, &e.CourseID, &e.Weight); err != nil {
			return nil, fmt.Errorf("scanning matrix entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) loadRecommendations(ctx context.Context, runID string) ([]types.Recommendation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT student_id, course_id, score, rank FROM recommendations
		 WHERE run_id = ? ORDER BY student_id, rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying recommendations: %w", err)
	}
	defer rows.Close()

	var out []types.Recommendation
	for rows.Next() {
		var r types.Recommendation
		if err := rows.Scan(&r.StudentID, &r.CourseID, &r.Score, &r.Rank); err != nil {
			return nil, fmt.Errorf("scanning recommendation: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) loadCoverage(ctx context.Context, runID string) ([]types.CoverageRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT skill_id, demand_rank, coverage_score, gap_flag FROM coverage
		 WHERE run_id = ? ORDER BY demand_rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying coverage: %w", err)
	}
	defer rows.Close()

	var out []types.CoverageRow
	for rows.Next() {
		var (
			r   types.CoverageRow
			gap int
		)
		if err := rows.Scan(&r.SkillID, &r.DemandRank, &r.CoverageScore, &gap); err != nil {
			return nil, fmt.Errorf("scanning coverage row: %w", err)
		}
		r.Gap = gap != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) loadDiagnostics(ctx context.Context, runID string) ([]types.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stage, entity_id, reason FROM diagnostics
		 WHERE run_id = ? ORDER BY stage, entity_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying diagnostics: %w", err)
	}
	defer rows.Close()

	var out []types.Diagnostic
	for rows.Next() {
		var d types.Diagnostic
		if err := rows.Scan(&d.Stage, &d.EntityID, &d.Reason); err != nil {
			return nil, fmt.Errorf("scanning diagnostic: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
