package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elys-network/liquidity-bridge/internal/types"
	"github.com/lib/pq" // PostgreSQL driver for array support
	"github.com/rs/zerolog/log"
)

// ErrRunNotFound is returned when no stored run matches the requested id.
var ErrRunNotFound = errors.New("run not found")

// Store exposes the package-level run functions as a value, for callers that take an interface.
type Store struct{}

// SaveRun implements the web run store.
func (Store) SaveRun(ctx context.Context, run types.BatchRun) (int64, error) {
	return SaveRun(ctx, run)
}

// GetRunByID implements the web run store.
func (Store) GetRunByID(ctx context.Context, runID string) (*types.BatchRun, error) {
	return GetRunByID(ctx, runID)
}

// GetRecentRuns implements the web run store.
func (Store) GetRecentRuns(ctx context.Context, limit int) ([]types.BatchRun, error) {
	return GetRecentRuns(ctx, limit)
}

// Ping implements the web run store.
func (Store) Ping() error {
	return TestDBConnection()
}

// SaveRun saves an evaluated batch and returns its database row id.
func SaveRun(ctx context.Context, run types.BatchRun) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	// Marshal all JSONB fields
	parametersJSON, err := json.Marshal(run.Parameters)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal parameters: %w", err)
	}

	poolJSON, err := json.Marshal(run.Pool)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal pool: %w", err)
	}

	resultsJSON, err := json.Marshal(run.Results)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal results: %w", err)
	}

	unusable := 0
	for _, r := range run.Results {
		if !r.Range.Success {
			unusable++
		}
	}

	query := `
		INSERT INTO bridge_runs (
			run_uuid, started_at, finished_at,
			token0, token1, fee_bps,
			path_ids, unusable_ranges,
			parameters, pool, results
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING run_id;
	`

	var rowID int64
	err = DB.QueryRowContext(ctx,
		query,
		run.RunID, run.StartedAt, run.FinishedAt,
		run.Pool.Token0, run.Pool.Token1, run.Pool.FeeBps,
		pq.Array(run.PathIDs()), unusable,
		parametersJSON, poolJSON, resultsJSON,
	).Scan(&rowID)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	log.Info().
		Int64("row_id", rowID).
		Str("run_id", run.RunID).
		Int("paths", len(run.Results)).
		Int("unusable_ranges", unusable).
		Msg("Bridge run saved to database")

	return rowID, nil
}

const selectRunColumns = `run_uuid, started_at, finished_at, parameters, pool, results`

// GetRunByID loads a stored run by its uuid.
func GetRunByID(ctx context.Context, runID string) (*types.BatchRun, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	row := DB.QueryRowContext(ctx, `SELECT `+selectRunColumns+` FROM bridge_runs WHERE run_uuid = $1;`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRecentRuns loads the most recent runs, newest first.
func GetRecentRuns(ctx context.Context, limit int) ([]types.BatchRun, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	rows, err := DB.QueryContext(ctx, `SELECT `+selectRunColumns+` FROM bridge_runs ORDER BY started_at DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []types.BatchRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (types.BatchRun, error) {
	var run types.BatchRun
	var parametersJSON, poolJSON, resultsJSON []byte

	err := row.Scan(&run.RunID, &run.StartedAt, &run.FinishedAt, &parametersJSON, &poolJSON, &resultsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("failed to scan run: %w", err)
	}

	if err := json.Unmarshal(parametersJSON, &run.Parameters); err != nil {
		return run, fmt.Errorf("failed to unmarshal parameters: %w", err)
	}
	if err := json.Unmarshal(poolJSON, &run.Pool); err != nil {
		return run, fmt.Errorf("failed to unmarshal pool: %w", err)
	}
	if err := json.Unmarshal(resultsJSON, &run.Results); err != nil {
		return run, fmt.Errorf("failed to unmarshal results: %w", err)
	}
	return run, nil
}
