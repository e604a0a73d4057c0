// Package db provides PostgreSQL storage for completed pipeline runs.
package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-agent/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// ErrRunNotFound is returned when a run id has no record
var ErrRunNotFound = errors.New("run not found")

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the run tables when they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Write persists a run and returns its location. It satisfies output.Sink.
func (db *DB) Write(ctx context.Context, out *types.RunOutput) (string, error) {
	id, err := db.SaveRun(ctx, out)
	if err != nil {
		return "", err
	}
	return Location(id), nil
}

// Location formats the display location of a stored run
func Location(id uuid.UUID) string {
	return "postgres:pipeline_runs/" + id.String()
}

// SaveRun writes the run row, its artifacts and its stage timings in one
// transaction. Saving the same run twice replaces the earlier record.
func (db *DB) SaveRun(ctx context.Context, out *types.RunOutput) (uuid.UUID, error) {
	if out == nil {
		return uuid.Nil, fmt.Errorf("failed to save run: nil output")
	}
	id, err := uuid.Parse(out.RunID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid run id %q: %w", out.RunID, err)
	}
	arts, err := runArtifacts(out)
	if err != nil {
		return uuid.Nil, err
	}

	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := runRow(out)
	_, err = tx.Exec(ctx,
		`INSERT INTO pipeline_runs (id, company, role_title, job_source, primary_id, secondary_id,
		     is_low_match, score, final_score, status, created_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		 ON CONFLICT (id) DO UPDATE SET company = $2, role_title = $3, job_source = $4,
		     primary_id = $5, secondary_id = $6, is_low_match = $7, score = $8,
		     final_score = $9, status = $10, completed_at = $11`,
		id, row.Company, row.RoleTitle, row.JobSource, row.PrimaryID, row.SecondaryID,
		row.IsLowMatch, row.Score, row.FinalScore, row.Status, out.GeneratedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, a := range arts {
		batch.Queue(
			`INSERT INTO artifacts (run_id, step, category, content)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, content = $4, created_at = NOW()`,
			id, a.Step, a.Category, a.Content,
		)
	}
	for _, s := range runSteps(out) {
		batch.Queue(
			`INSERT INTO run_steps (run_id, step, category, status, started_at, duration_ms)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, status = $4,
			     started_at = $5, duration_ms = $6`,
			id, s.Step, s.Category, s.Status, s.StartedAt, s.DurationMS,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to save run artifacts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

const runColumns = `id, company, role_title, job_source, primary_id, secondary_id,
	is_low_match, score, final_score, status, created_at, completed_at`

func scanRun(row pgx.Row) (*Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.Company, &run.RoleTitle, &run.JobSource, &run.PrimaryID,
		&run.SecondaryID, &run.IsLowMatch, &run.Score, &run.FinalScore, &run.Status,
		&run.CreatedAt, &run.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRun retrieves a pipeline run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	run, err := scanRun(db.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM pipeline_runs WHERE id = $1`, runID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves recent runs, newest first, with optional filters
func (db *DB) ListRuns(ctx context.Context, filters RunFilters) ([]Run, error) {
	query, args := listRunsQuery(filters)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

func listRunsQuery(filters RunFilters) (string, []any) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}

	query := `SELECT ` + runColumns + ` FROM pipeline_runs WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Company != "" {
		query += fmt.Sprintf(" AND company ILIKE $%d", argNum)
		args = append(args, "%"+filters.Company+"%")
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)
	return query, args
}

// GetArtifact retrieves the JSON artifact a run stored for step
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) (*Artifact, error) {
	var a Artifact
	err := db.pool.QueryRow(ctx,
		`SELECT id, run_id, step, category, content, created_at
		 FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&a.ID, &a.RunID, &a.Step, &a.Category, &a.Content, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return &a, nil
}

// ListRunSteps returns the stage timings of a run in execution order
func (db *DB) ListRunSteps(ctx context.Context, runID uuid.UUID) ([]RunStep, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT run_id, step, category, status, started_at, duration_ms
		 FROM run_steps WHERE run_id = $1 ORDER BY started_at ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list run steps: %w", err)
	}
	defer rows.Close()

	var steps []RunStep
	for rows.Next() {
		var s RunStep
		if err := rows.Scan(&s.RunID, &s.Step, &s.Category, &s.Status, &s.StartedAt, &s.DurationMS); err != nil {
			return nil, fmt.Errorf("failed to scan run step: %w", err)
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

// DeleteRun deletes a pipeline run and all its artifacts (via cascade)
func (db *DB) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM pipeline_runs WHERE id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}
