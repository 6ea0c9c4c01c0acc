package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aevon-lab/purchase-totals/internal/core/aggregation"
	"github.com/aevon-lab/purchase-totals/internal/core/storage"
	"github.com/google/uuid"
)

// TotalsAdapter implements storage.OutputStore using PostgreSQL.
// Replacing an output dataset and completing its run happen in a single
// transaction, so readers see either the previous run's totals or the new ones.
type TotalsAdapter struct {
	db *sql.DB
}

// NewTotalsAdapter creates a TotalsAdapter sharing the given connection.
func NewTotalsAdapter(db *sql.DB) *TotalsAdapter {
	return &TotalsAdapter{db: db}
}

// BeginRun records the run as Submitted and moves it to Running.
func (a *TotalsAdapter) BeginRun(ctx context.Context, run *aggregation.Run) error {
	if err := run.Transition(aggregation.RunSubmitted); err != nil {
		return err
	}
	run.SubmittedAt = time.Now().UTC()

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, queryInsertRun,
		run.ID,
		run.Job,
		run.Input,
		run.Output,
		string(aggregation.RunSubmitted),
		run.Fingerprint,
		run.SubmittedAt,
	); err != nil {
		return fmt.Errorf("begin run: insert run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, querySetRunState,
		run.ID,
		string(aggregation.RunRunning),
		string(aggregation.RunSubmitted),
	); err != nil {
		return fmt.Errorf("begin run: mark running: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("begin run: commit: %w", err)
	}
	return run.Transition(aggregation.RunRunning)
}

// CommitRun replaces the output dataset with totals and completes the run.
// A run whose output was already replaced by a later-submitted completed run is
// marked Failed instead and storage.ErrSuperseded is returned.
func (a *TotalsAdapter) CommitRun(ctx context.Context, run *aggregation.Run, totals map[string]int64) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("commit run: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, queryLockOutput, run.Output); err != nil {
		return fmt.Errorf("commit run: lock output %s: %w", run.Output, err)
	}

	var state string
	err = tx.QueryRowContext(ctx, queryRunStateForUpdate, run.ID).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrRunNotFound
	}
	if err != nil {
		return fmt.Errorf("commit run: read run state: %w", err)
	}
	if aggregation.RunState(state) != aggregation.RunRunning {
		return fmt.Errorf("commit run %s: %w: %s", run.ID, storage.ErrInvalidRunState, state)
	}

	var superseded bool
	if err := tx.QueryRowContext(ctx, queryNewerCompletedRun, run.Output, run.SubmittedAt).Scan(&superseded); err != nil {
		return fmt.Errorf("commit run: check newer runs: %w", err)
	}

	now := time.Now().UTC()

	if superseded {
		if _, err := tx.ExecContext(ctx, queryFinishRun,
			run.ID,
			string(aggregation.RunFailed),
			run.RowsRead,
			run.PairsEmitted,
			int64(0),
			storage.ErrSuperseded.Error(),
			now,
		); err != nil {
			return fmt.Errorf("commit run: mark superseded: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run: commit: %w", err)
		}
		slog.Warn("[TotalsAdapter] Skipping stale commit",
			"run_id", run.ID,
			"output", run.Output)
		a.markFailed(run, storage.ErrSuperseded, now)
		return storage.ErrSuperseded
	}

	if _, err := tx.ExecContext(ctx, queryDeleteTotals, run.Output); err != nil {
		return fmt.Errorf("commit run: clear %s: %w", run.Output, err)
	}

	insertStmt, err := tx.PrepareContext(ctx, queryInsertTotal)
	if err != nil {
		return fmt.Errorf("commit run: prepare insert: %w", err)
	}
	defer insertStmt.Close()

	keys := make([]string, 0, len(totals))
	for key := range totals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := insertStmt.ExecContext(ctx, run.Output, key, totals[key], run.ID, now); err != nil {
			return fmt.Errorf("commit run: insert %s/%s: %w", run.Output, key, err)
		}
	}

	if _, err := tx.ExecContext(ctx, queryFinishRun,
		run.ID,
		string(aggregation.RunCompleted),
		run.RowsRead,
		run.PairsEmitted,
		int64(len(totals)),
		"",
		now,
	); err != nil {
		return fmt.Errorf("commit run: mark completed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: commit: %w", err)
	}

	run.KeysWritten = int64(len(totals))
	run.FinishedAt = now
	if err := run.Transition(aggregation.RunCompleted); err != nil {
		return err
	}

	slog.Info("[TotalsAdapter] Committed",
		"run_id", run.ID,
		"output", run.Output,
		"keys", len(totals))
	return nil
}

// FailRun marks the run Failed. Totals are never touched, so the output dataset keeps
// the last completed run's contents.
func (a *TotalsAdapter) FailRun(ctx context.Context, run *aggregation.Run, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	now := time.Now().UTC()

	result, err := a.db.ExecContext(ctx, queryFailRun, run.ID, run.RowsRead, run.PairsEmitted, msg, now)
	if err != nil {
		return fmt.Errorf("fail run %s: %w", run.ID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		slog.Debug("[TotalsAdapter] Run not in ledger or already terminal", "run_id", run.ID)
	}

	a.markFailed(run, cause, now)
	return nil
}

func (a *TotalsAdapter) markFailed(run *aggregation.Run, cause error, at time.Time) {
	if !run.State.Terminal() {
		_ = run.Transition(aggregation.RunFailed)
	}
	if cause != nil {
		run.Error = cause.Error()
	}
	run.FinishedAt = at
}

// LookupTotal returns the total for key, or storage.ErrNotFound.
func (a *TotalsAdapter) LookupTotal(ctx context.Context, dataset, key string) (int64, error) {
	var total int64
	err := a.db.QueryRowContext(ctx, queryLookupTotal, dataset, key).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup total %s/%s: %w", dataset, key, err)
	}
	return total, nil
}

// GetRun returns the ledger entry for runID, or storage.ErrRunNotFound.
func (a *TotalsAdapter) GetRun(ctx context.Context, runID uuid.UUID) (*aggregation.Run, error) {
	run, err := scanRunRow(a.db.QueryRowContext(ctx, queryGetRun, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return run, nil
}
