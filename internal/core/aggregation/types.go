package aggregation

import (
	"fmt"
	"time"

	v1 "github.com/aevon-lab/purchase-totals/internal/api/v1"
	"github.com/google/uuid"
)

// Supported aggregation operators.
const (
	OpCount = "count"
	OpSum   = "sum"
	OpMin   = "min"
	OpMax   = "max"
)

// Dimension is the purchase attribute used as the grouping key.
type Dimension string

const (
	DimensionProduct  Dimension = "product"
	DimensionCustomer Dimension = "customer"
)

// ValueField is the purchase attribute contributed to a key's total.
type ValueField string

const (
	ValuePrice    ValueField = "price"
	ValueQuantity ValueField = "quantity"
)

// KeySelector extracts the grouping key from a purchase.
type KeySelector func(p v1.Purchase) string

// ValueSelector extracts the numeric contribution of a purchase.
type ValueSelector func(p v1.Purchase) int64

var keySelectors = map[Dimension]KeySelector{
	DimensionProduct:  func(p v1.Purchase) string { return p.Product },
	DimensionCustomer: func(p v1.Purchase) string { return p.Customer },
}

var valueSelectors = map[ValueField]ValueSelector{
	ValuePrice:    func(p v1.Purchase) int64 { return p.Price },
	ValueQuantity: func(p v1.Purchase) int64 { return p.Quantity },
}

// KeySelectorFor returns the key selector for a dimension.
func KeySelectorFor(d Dimension) (KeySelector, error) {
	sel, ok := keySelectors[d]
	if !ok {
		return nil, fmt.Errorf("unsupported dimension %q", d)
	}
	return sel, nil
}

// ValueSelectorFor returns the value selector for a purchase field.
func ValueSelectorFor(f ValueField) (ValueSelector, error) {
	sel, ok := valueSelectors[f]
	if !ok {
		return nil, fmt.Errorf("unsupported value field %q", f)
	}
	return sel, nil
}

// Pair is one intermediate (key, value) emitted by the extractor.
type Pair struct {
	Key   string
	Value int64
}

// RunState is a step of the aggregation run lifecycle.
type RunState string

const (
	RunConfigured RunState = "configured"
	RunSubmitted  RunState = "submitted"
	RunRunning    RunState = "running"
	RunCompleted  RunState = "completed"
	RunFailed     RunState = "failed"
)

var runTransitions = map[RunState][]RunState{
	RunConfigured: {RunSubmitted, RunFailed},
	RunSubmitted:  {RunRunning, RunFailed},
	RunRunning:    {RunCompleted, RunFailed},
}

// Terminal reports whether no further transition is possible.
func (s RunState) Terminal() bool {
	return s == RunCompleted || s == RunFailed
}

// Run is one execution of a job over its input dataset.
type Run struct {
	ID          uuid.UUID
	Job         string
	Input       string
	Output      string
	Fingerprint string // fingerprint of the job definition the run was started from
	State       RunState

	RowsRead     int64
	PairsEmitted int64
	KeysWritten  int64
	Error        string

	SubmittedAt time.Time
	FinishedAt  time.Time
}

// NewRun returns a run in the Configured state for def.
func NewRun(def JobDefinition) *Run {
	return &Run{
		ID:          uuid.New(),
		Job:         def.Name,
		Input:       def.Input,
		Output:      def.Output,
		Fingerprint: def.Fingerprint,
		State:       RunConfigured,
	}
}

// Transition moves the run to the next state, rejecting illegal edges.
func (r *Run) Transition(to RunState) error {
	for _, next := range runTransitions[r.State] {
		if next == to {
			r.State = to
			return nil
		}
	}
	return fmt.Errorf("run %s: illegal transition %s -> %s", r.ID, r.State, to)
}
