package aggregation

import core "github.com/aevon-lab/purchase-totals/internal/core/aggregation"

// Re-export core aggregation types for package-level compatibility.
type JobDefinition = core.JobDefinition
type Run = core.Run
type RunState = core.RunState
