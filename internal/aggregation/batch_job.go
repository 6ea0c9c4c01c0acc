package aggregation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	v1 "github.com/aevon-lab/purchase-totals/internal/api/v1"
	"github.com/aevon-lab/purchase-totals/internal/core/aggregation"
	"github.com/aevon-lab/purchase-totals/internal/core/partition"
	"github.com/aevon-lab/purchase-totals/internal/core/record"
	"github.com/aevon-lab/purchase-totals/internal/core/storage"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBatchSize     = 5000
	defaultMapWorkers    = 8
	defaultReduceWorkers = 8

	failRunTimeout = 10 * time.Second
)

// BatchJobParameter controls the parallelism of a run.
type BatchJobParameter struct {
	BatchSize     int // rows fetched per page from the input dataset
	MapWorkers    int
	ReduceWorkers int
	Partitions    int // shuffle partitions; each key belongs to exactly one
}

// DefaultBatchJobOptions returns safe defaults.
func DefaultBatchJobOptions() BatchJobParameter {
	return BatchJobParameter{
		BatchSize:     defaultBatchSize,
		MapWorkers:    defaultMapWorkers,
		ReduceWorkers: defaultReduceWorkers,
		Partitions:    partition.DefaultCount,
	}
}

func (o BatchJobParameter) normalized() BatchJobParameter {
	n := o
	if n.BatchSize <= 0 {
		n.BatchSize = defaultBatchSize
	}
	if n.MapWorkers <= 0 {
		n.MapWorkers = defaultMapWorkers
	}
	if n.ReduceWorkers <= 0 {
		n.ReduceWorkers = defaultReduceWorkers
	}
	if n.Partitions <= 0 {
		n.Partitions = partition.DefaultCount
	}
	return n
}

// Runner executes aggregation jobs: map over every row of the input dataset, shuffle
// pairs into key partitions, reduce each key, then replace the output dataset.
type Runner struct {
	records  storage.RecordStore
	output   storage.OutputStore
	codecs   *record.Registry
	opts     BatchJobParameter
	inflight singleflight.Group
}

// NewRunner creates a Runner reading from records and writing to output.
func NewRunner(
	records storage.RecordStore,
	output storage.OutputStore,
	codecs *record.Registry,
	opts BatchJobParameter,
) *Runner {
	return &Runner{
		records: records,
		output:  output,
		codecs:  codecs,
		opts:    opts.normalized(),
	}
}

// Run executes def once. Concurrent calls for the same job name share a single run,
// which executes under the context of the caller that started it: joined callers get
// the same Run and error, including a cancellation they did not ask for.
// A failed run returns a *JobExecutionError; the returned Run is never nil.
func (r *Runner) Run(ctx context.Context, def aggregation.JobDefinition) (*aggregation.Run, error) {
	v, err, shared := r.inflight.Do(def.Name, func() (interface{}, error) {
		return r.execute(ctx, def)
	})
	if shared {
		slog.Debug("[BatchJob] Joined in-flight run", "job", def.Name)
	}
	run, _ := v.(*aggregation.Run)
	return run, err
}

// RunAll runs each job in order and returns the joined errors of the failed ones.
// A failing job does not stop the others.
func (r *Runner) RunAll(ctx context.Context, defs []aggregation.JobDefinition) ([]*aggregation.Run, error) {
	runs := make([]*aggregation.Run, 0, len(defs))
	var errs []error
	for _, def := range defs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		run, err := r.Run(ctx, def)
		runs = append(runs, run)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return runs, errors.Join(errs...)
}

type jobPlan struct {
	extractor *aggregation.Extractor
	agg       aggregation.Aggregator
}

// bind resolves the extractor and aggregator of def. This is the Configured state.
func (r *Runner) bind(def aggregation.JobDefinition) (*jobPlan, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	codec, err := r.codecs.Get(record.Format(def.Format))
	if err != nil {
		return nil, err
	}
	extractor, err := aggregation.NewExtractor(def, codec)
	if err != nil {
		return nil, err
	}
	agg, ok := aggregation.Operators[def.Operator]
	if !ok {
		return nil, fmt.Errorf("unsupported operator %q", def.Operator)
	}
	return &jobPlan{extractor: extractor, agg: agg}, nil
}

func (r *Runner) execute(ctx context.Context, def aggregation.JobDefinition) (*aggregation.Run, error) {
	run := aggregation.NewRun(def)
	started := time.Now()

	plan, err := r.bind(def)
	if err != nil {
		_ = run.Transition(aggregation.RunFailed)
		run.Error = err.Error()
		return run, &JobExecutionError{Job: def.Name, RunID: run.ID, Phase: PhaseConfigure, Err: err}
	}

	if err := r.output.BeginRun(ctx, run); err != nil {
		return run, r.fail(ctx, run, PhaseSubmit, err)
	}

	slog.Info("[BatchJob] Run started",
		"job", run.Job,
		"run_id", run.ID,
		"input", run.Input,
		"output", run.Output,
		"map_workers", r.opts.MapWorkers,
		"reduce_workers", r.opts.ReduceWorkers,
		"partitions", r.opts.Partitions,
	)

	shuffle, err := r.mapPhase(ctx, run, plan.extractor)
	if err != nil {
		return run, r.fail(ctx, run, PhaseMap, err)
	}

	totals, err := r.reducePhase(ctx, shuffle, plan.agg)
	if err != nil {
		return run, r.fail(ctx, run, PhaseReduce, err)
	}

	if err := r.output.CommitRun(ctx, run, totals); err != nil {
		if errors.Is(err, storage.ErrSuperseded) {
			// The store already marked the run Failed.
			slog.Warn("[BatchJob] Run superseded by a newer completed run", "job", run.Job, "run_id", run.ID)
			return run, &JobExecutionError{Job: run.Job, RunID: run.ID, Phase: PhaseCommit, Err: err}
		}
		return run, r.fail(ctx, run, PhaseCommit, err)
	}

	slog.Info("[BatchJob] Run complete",
		"job", run.Job,
		"run_id", run.ID,
		"rows", run.RowsRead,
		"pairs", run.PairsEmitted,
		"keys", run.KeysWritten,
		"duration", time.Since(started),
	)
	return run, nil
}

// fail records the failure in the ledger. It uses a context detached from ctx so that a
// cancelled run is still marked Failed.
func (r *Runner) fail(ctx context.Context, run *aggregation.Run, phase Phase, cause error) error {
	jobErr := &JobExecutionError{Job: run.Job, RunID: run.ID, Phase: phase, Err: cause}

	failCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failRunTimeout)
	defer cancel()

	if err := r.output.FailRun(failCtx, run, cause); err != nil {
		slog.Error("[BatchJob] Could not record run failure", "run_id", run.ID, "error", err)
	}
	if !run.State.Terminal() {
		_ = run.Transition(aggregation.RunFailed)
		run.Error = cause.Error()
	}

	slog.Error("[BatchJob] Run failed",
		"job", run.Job,
		"run_id", run.ID,
		"phase", phase,
		"rows", run.RowsRead,
		"error", cause,
	)
	return jobErr
}

// shuffle holds grouped values: shuffle[p][key] is every value emitted for key, where
// p = partition.For(key, len(shuffle)).
type shuffle []map[string][]int64

func newShuffle(partitions int) shuffle {
	s := make(shuffle, partitions)
	for i := range s {
		s[i] = make(map[string][]int64)
	}
	return s
}

func (s shuffle) add(p aggregation.Pair) {
	idx := partition.For(p.Key, len(s))
	s[idx][p.Key] = append(s[idx][p.Key], p.Value)
}

// merge moves every value of other into s. Both must have the same partition count.
func (s shuffle) merge(other shuffle) {
	for idx, values := range other {
		for key, vs := range values {
			s[idx][key] = append(s[idx][key], vs...)
		}
	}
}

// mapPhase pages the input dataset into a channel consumed by MapWorkers extractors.
// Each worker shuffles into its own partitions; the barrier is errgroup.Wait, after which
// the per-worker partitions are merged.
func (r *Runner) mapPhase(ctx context.Context, run *aggregation.Run, extractor *aggregation.Extractor) (shuffle, error) {
	g, gctx := errgroup.WithContext(ctx)
	rows := make(chan *v1.RawRecord, r.opts.BatchSize)

	var rowsRead, pairsEmitted atomic.Int64

	g.Go(func() error {
		defer close(rows)
		var cursor int64
		for {
			page, err := r.records.RetrieveRecordsAfterCursor(gctx, run.Input, cursor, r.opts.BatchSize)
			if err != nil {
				return fmt.Errorf("read %s after cursor %d: %w", run.Input, cursor, err)
			}
			for _, row := range page {
				select {
				case rows <- row:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			if len(page) < r.opts.BatchSize {
				return nil
			}
			cursor = page[len(page)-1].Seq
		}
	})

	locals := make([]shuffle, r.opts.MapWorkers)
	for w := range locals {
		g.Go(func() error {
			local := newShuffle(r.opts.Partitions)
			for row := range rows {
				if err := gctx.Err(); err != nil {
					return err
				}
				n, err := extractor.Extract(row, local.add)
				if err != nil {
					return err
				}
				rowsRead.Add(1)
				pairsEmitted.Add(int64(n))
			}
			locals[w] = local
			return nil
		})
	}

	err := g.Wait()
	run.RowsRead = rowsRead.Load()
	run.PairsEmitted = pairsEmitted.Load()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := newShuffle(r.opts.Partitions)
	for _, local := range locals {
		merged.merge(local)
	}

	slog.Debug("[BatchJob] Map phase complete",
		"run_id", run.ID,
		"rows", run.RowsRead,
		"pairs", run.PairsEmitted)
	return merged, nil
}

// reducePhase runs one task per non-empty partition, at most ReduceWorkers at a time.
// Partitions are disjoint in key space, so no two tasks produce the same key.
func (r *Runner) reducePhase(ctx context.Context, s shuffle, agg aggregation.Aggregator) (map[string]int64, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.ReduceWorkers)

	results := make([]map[string]int64, len(s))
	for idx, values := range s {
		if len(values) == 0 {
			continue
		}
		g.Go(func() error {
			out := make(map[string]int64, len(values))
			for key, vs := range values {
				if err := gctx.Err(); err != nil {
					return err
				}
				total, err := aggregation.Reduce(agg, vs)
				if err != nil {
					return fmt.Errorf("reduce key %q: %w", key, err)
				}
				out[key] = total
			}
			results[idx] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totals := make(map[string]int64)
	for _, out := range results {
		for key, total := range out {
			totals[key] = total
		}
	}
	return totals, nil
}
