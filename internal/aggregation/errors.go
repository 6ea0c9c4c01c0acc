package aggregation

import (
	"fmt"

	"github.com/google/uuid"
)

// Phase names the step of a run that failed.
type Phase string

const (
	PhaseConfigure Phase = "configure"
	PhaseSubmit    Phase = "submit"
	PhaseMap       Phase = "map"
	PhaseReduce    Phase = "reduce"
	PhaseCommit    Phase = "commit"
)

// JobExecutionError is returned for any run that ends Failed. Err keeps the cause, so
// errors.As still finds a *v1.MalformedRecordError and errors.Is still finds sentinels
// such as aggregation.ErrOverflow, storage.ErrSuperseded or context.Canceled.
type JobExecutionError struct {
	Job   string
	RunID uuid.UUID
	Phase Phase
	Err   error
}

func (e *JobExecutionError) Error() string {
	return fmt.Sprintf("job %s run %s failed in %s phase: %v", e.Job, e.RunID, e.Phase, e.Err)
}

func (e *JobExecutionError) Unwrap() error {
	return e.Err
}
