package storage

import (
	"context"
	"errors"

	v1 "github.com/aevon-lab/purchase-totals/internal/api/v1"
	"github.com/aevon-lab/purchase-totals/internal/core/aggregation"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when an output dataset has no total for the requested key.
	// It is never conflated with a zero total.
	ErrNotFound = errors.New("aggregated total not found")

	// ErrRunNotFound is returned when no run exists with the requested ID.
	ErrRunNotFound = errors.New("aggregation run not found")

	// ErrSuperseded is returned when a run tries to commit after a newer run for the same
	// output dataset has already completed.
	ErrSuperseded = errors.New("aggregation run superseded by a newer completed run")

	// ErrInvalidRunState is returned when a run ledger update does not match the stored state.
	ErrInvalidRunState = errors.New("invalid aggregation run state")
)

// RecordStore holds input datasets: rows of encoded purchase histories keyed by row key.
type RecordStore interface {
	// SaveRecord creates or replaces one row.
	SaveRecord(ctx context.Context, dataset, key string, payload []byte) error

	// UpdateRecord atomically rewrites one row. fn receives the current payload (nil when the
	// row does not exist) and returns the replacement. The row is locked while fn runs.
	UpdateRecord(ctx context.Context, dataset, key string, fn func(current []byte) ([]byte, error)) error

	// UpdateRecords is UpdateRecord over several rows in one transaction. Rows are locked in
	// key order. If any fn fails nothing is written.
	UpdateRecords(ctx context.Context, dataset string, updates map[string]func(current []byte) ([]byte, error)) error

	// RetrieveRecordsAfterCursor pages rows of dataset with Seq > cursor in Seq order.
	// cursor=0 means "from the beginning".
	RetrieveRecordsAfterCursor(ctx context.Context, dataset string, cursor int64, limit int) ([]*v1.RawRecord, error)
}

// TotalReader is the read side of an output dataset.
type TotalReader interface {
	// LookupTotal returns the total for key in dataset, or ErrNotFound.
	LookupTotal(ctx context.Context, dataset, key string) (int64, error)

	// GetRun returns the ledger entry for a run, or ErrRunNotFound.
	GetRun(ctx context.Context, runID uuid.UUID) (*aggregation.Run, error)
}

// OutputStore is the write side of an output dataset plus the run ledger.
//
// Contract: CommitRun replaces the whole output dataset and marks the run Completed in a
// single transaction. Readers observe either the previous completed run or the new one,
// never a mix, and a failed or aborted run leaves the previous totals untouched.
type OutputStore interface {
	TotalReader

	// BeginRun records a Submitted run in the ledger and moves it to Running.
	BeginRun(ctx context.Context, run *aggregation.Run) error

	// CommitRun atomically replaces run.Output with totals and marks the run Completed.
	// Returns ErrSuperseded if a run submitted later has already completed.
	CommitRun(ctx context.Context, run *aggregation.Run, totals map[string]int64) error

	// FailRun marks the run Failed with the given cause. Totals are not touched.
	FailRun(ctx context.Context, run *aggregation.Run, cause error) error
}
