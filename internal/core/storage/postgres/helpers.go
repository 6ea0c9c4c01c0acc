package postgres

import (
	"database/sql"
	"fmt"

	v1 "github.com/aevon-lab/purchase-totals/internal/api/v1"
	"github.com/aevon-lab/purchase-totals/internal/core/aggregation"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecordRow scans one purchase_records row.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanRecordRow(row scanner) (*v1.RawRecord, error) {
	var rec v1.RawRecord
	if err := row.Scan(&rec.Dataset, &rec.Key, &rec.Payload, &rec.Seq); err != nil {
		return nil, fmt.Errorf("failed to scan record row: %w", err)
	}
	return &rec, nil
}

// scanRunRow scans one aggregation_runs row. finished_at is NULL until the run is terminal.
func scanRunRow(row scanner) (*aggregation.Run, error) {
	var (
		run      aggregation.Run
		state    string
		finished sql.NullTime
	)
	err := row.Scan(
		&run.ID,
		&run.Job,
		&run.Input,
		&run.Output,
		&state,
		&run.Fingerprint,
		&run.RowsRead,
		&run.PairsEmitted,
		&run.KeysWritten,
		&run.Error,
		&run.SubmittedAt,
		&finished,
	)
	if err != nil {
		return nil, err
	}
	run.State = aggregation.RunState(state)
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	return &run, nil
}
