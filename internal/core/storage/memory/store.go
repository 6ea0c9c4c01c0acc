// Package memory provides an in-process implementation of storage.RecordStore and
// storage.OutputStore. It backs tests and `database.type: memory` deployments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	v1 "github.com/aevon-lab/purchase-totals/internal/api/v1"
	"github.com/aevon-lab/purchase-totals/internal/core/aggregation"
	"github.com/aevon-lab/purchase-totals/internal/core/storage"
	"github.com/google/uuid"
)

type row struct {
	payload []byte
	seq     int64
}

// Store keeps datasets, totals and the run ledger in maps guarded by one RWMutex.
// Output datasets are swapped as whole maps, so a reader never sees a partial commit.
type Store struct {
	mu      sync.RWMutex
	seq     int64
	records map[string]map[string]*row
	totals  map[string]map[string]int64
	runs    map[uuid.UUID]aggregation.Run
	now     func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]map[string]*row),
		totals:  make(map[string]map[string]int64),
		runs:    make(map[uuid.UUID]aggregation.Run),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SaveRecord creates or replaces one row. A replaced row keeps its sequence.
func (s *Store) SaveRecord(_ context.Context, dataset, key string, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("save record %s/%s: empty payload", dataset, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(dataset, key, payload)
	return nil
}

func (s *Store) putLocked(dataset, key string, payload []byte) {
	rows, ok := s.records[dataset]
	if !ok {
		rows = make(map[string]*row)
		s.records[dataset] = rows
	}
	cp := append([]byte(nil), payload...)
	if existing, ok := rows[key]; ok {
		existing.payload = cp
		return
	}
	s.seq++
	rows[key] = &row{payload: cp, seq: s.seq}
}

// UpdateRecord runs fn under the store's write lock.
func (s *Store) UpdateRecord(ctx context.Context, dataset, key string, fn func(current []byte) ([]byte, error)) error {
	return s.UpdateRecords(ctx, dataset, map[string]func([]byte) ([]byte, error){key: fn})
}

// UpdateRecords computes every replacement under the write lock before storing any of them.
func (s *Store) UpdateRecords(_ context.Context, dataset string, updates map[string]func(current []byte) ([]byte, error)) error {
	keys := make([]string, 0, len(updates))
	for key := range updates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([][]byte, len(keys))
	for i, key := range keys {
		var current []byte
		if r, ok := s.records[dataset][key]; ok {
			current = append([]byte(nil), r.payload...)
		}

		payload, err := updates[key](current)
		if err != nil {
			return err
		}
		if len(payload) == 0 {
			return fmt.Errorf("update record %s/%s: empty payload", dataset, key)
		}
		next[i] = payload
	}

	for i, key := range keys {
		s.putLocked(dataset, key, next[i])
	}
	return nil
}

// RetrieveRecordsAfterCursor pages rows in sequence order.
func (s *Store) RetrieveRecordsAfterCursor(ctx context.Context, dataset string, cursor int64, limit int) ([]*v1.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*v1.RawRecord
	for key, r := range s.records[dataset] {
		if r.seq <= cursor {
			continue
		}
		out = append(out, &v1.RawRecord{
			Dataset: dataset,
			Key:     key,
			Payload: append([]byte(nil), r.payload...),
			Seq:     r.seq,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// BeginRun records the run as Submitted and moves it to Running.
func (s *Store) BeginRun(ctx context.Context, run *aggregation.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := run.Transition(aggregation.RunSubmitted); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	run.SubmittedAt = s.now()
	if err := run.Transition(aggregation.RunRunning); err != nil {
		return err
	}
	s.runs[run.ID] = *run
	return nil
}

// CommitRun swaps the output dataset for totals and completes the run.
func (s *Store) CommitRun(ctx context.Context, run *aggregation.Run, totals map[string]int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.runs[run.ID]
	if !ok {
		return storage.ErrRunNotFound
	}
	if stored.State != aggregation.RunRunning {
		return fmt.Errorf("commit run %s: %w: %s", run.ID, storage.ErrInvalidRunState, stored.State)
	}

	now := s.now()
	for _, other := range s.runs {
		if other.Output == run.Output &&
			other.State == aggregation.RunCompleted &&
			other.SubmittedAt.After(run.SubmittedAt) {
			s.failLocked(run, storage.ErrSuperseded, now)
			return storage.ErrSuperseded
		}
	}

	next := make(map[string]int64, len(totals))
	for k, v := range totals {
		next[k] = v
	}
	s.totals[run.Output] = next

	run.KeysWritten = int64(len(totals))
	run.FinishedAt = now
	if err := run.Transition(aggregation.RunCompleted); err != nil {
		return err
	}
	s.runs[run.ID] = *run
	return nil
}

// FailRun marks the run Failed. Totals are untouched.
func (s *Store) FailRun(_ context.Context, run *aggregation.Run, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLocked(run, cause, s.now())
	return nil
}

func (s *Store) failLocked(run *aggregation.Run, cause error, at time.Time) {
	if !run.State.Terminal() {
		_ = run.Transition(aggregation.RunFailed)
	}
	if cause != nil {
		run.Error = cause.Error()
	}
	run.FinishedAt = at
	if stored, ok := s.runs[run.ID]; ok && stored.State.Terminal() {
		return
	}
	s.runs[run.ID] = *run
}

// LookupTotal returns the total for key, or storage.ErrNotFound.
func (s *Store) LookupTotal(_ context.Context, dataset, key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total, ok := s.totals[dataset][key]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return total, nil
}

// GetRun returns a copy of the ledger entry.
func (s *Store) GetRun(_ context.Context, runID uuid.UUID) (*aggregation.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, storage.ErrRunNotFound
	}
	return &run, nil
}

// Totals returns a copy of an output dataset.
func (s *Store) Totals(dataset string) map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int64, len(s.totals[dataset]))
	for k, v := range s.totals[dataset] {
		out[k] = v
	}
	return out
}

var (
	_ storage.RecordStore = (*Store)(nil)
	_ storage.OutputStore = (*Store)(nil)
)
