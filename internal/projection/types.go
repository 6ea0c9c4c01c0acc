package projection

import (
	"time"

	"github.com/aevon-lab/purchase-totals/internal/core/aggregation"
)

// TotalResponse is the JSON body of GET /v1/totals/:dataset/:key.
type TotalResponse struct {
	Dataset string `json:"dataset"`
	Key     string `json:"key"`
	Total   int64  `json:"total"`
}

// RunResponse is the JSON body of GET /v1/runs/:run_id.
type RunResponse struct {
	RunID        string     `json:"run_id"`
	Job          string     `json:"job"`
	Input        string     `json:"input"`
	Output       string     `json:"output"`
	State        string     `json:"state"`
	Fingerprint  string     `json:"fingerprint"`
	RowsRead     int64      `json:"rows_read"`
	PairsEmitted int64      `json:"pairs_emitted"`
	KeysWritten  int64      `json:"keys_written"`
	Error        string     `json:"error,omitempty"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

func toRunResponse(run *aggregation.Run) RunResponse {
	resp := RunResponse{
		RunID:        run.ID.String(),
		Job:          run.Job,
		Input:        run.Input,
		Output:       run.Output,
		State:        string(run.State),
		Fingerprint:  run.Fingerprint,
		RowsRead:     run.RowsRead,
		PairsEmitted: run.PairsEmitted,
		KeysWritten:  run.KeysWritten,
		Error:        run.Error,
		SubmittedAt:  run.SubmittedAt,
	}
	if !run.FinishedAt.IsZero() {
		finished := run.FinishedAt
		resp.FinishedAt = &finished
	}
	return resp
}
