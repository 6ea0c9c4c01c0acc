package projection

import (
	"context"
	"errors"
	"fmt"

	"github.com/aevon-lab/purchase-totals/internal/core/aggregation"
	"github.com/aevon-lab/purchase-totals/internal/core/storage"
	"github.com/google/uuid"
)

var (
	// ErrUnknownRoute marks a path segment that no job serves.
	ErrUnknownRoute = errors.New("unknown totals route")

	// ErrUnknownDataset marks a dataset that is not the output of any job.
	ErrUnknownDataset = errors.New("unknown output dataset")
)

// QueryNotFoundError reports that a key has no aggregated total. It is distinct from a
// total of zero and matches storage.ErrNotFound with errors.Is.
type QueryNotFoundError struct {
	Dataset string
	Key     string
}

func (e *QueryNotFoundError) Error() string {
	return fmt.Sprintf("no total for %q in %s", e.Key, e.Dataset)
}

func (e *QueryNotFoundError) Unwrap() error {
	return storage.ErrNotFound
}

// Service is the read-only query layer over output datasets.
type Service struct {
	reader   storage.TotalReader
	routes   map[string]string // route segment -> output dataset
	datasets map[string]struct{}
}

// NewService creates a query service serving the outputs of jobs.
func NewService(reader storage.TotalReader, jobs []aggregation.JobDefinition) *Service {
	s := &Service{
		reader:   reader,
		routes:   make(map[string]string, len(jobs)),
		datasets: make(map[string]struct{}, len(jobs)),
	}
	for _, job := range jobs {
		if job.Route != "" {
			s.routes[job.Route] = job.Output
		}
		s.datasets[job.Output] = struct{}{}
	}
	return s
}

// LookupByRoute resolves route to its output dataset and returns the total for key.
func (s *Service) LookupByRoute(ctx context.Context, route, key string) (int64, error) {
	dataset, ok := s.routes[route]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownRoute, route)
	}
	return s.lookup(ctx, dataset, key)
}

// LookupTotal returns the total for key in an output dataset.
func (s *Service) LookupTotal(ctx context.Context, dataset, key string) (int64, error) {
	if _, ok := s.datasets[dataset]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownDataset, dataset)
	}
	return s.lookup(ctx, dataset, key)
}

func (s *Service) lookup(ctx context.Context, dataset, key string) (int64, error) {
	total, err := s.reader.LookupTotal(ctx, dataset, key)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, &QueryNotFoundError{Dataset: dataset, Key: key}
	}
	if err != nil {
		return 0, err
	}
	return total, nil
}

// GetRun returns the ledger entry for a run.
func (s *Service) GetRun(ctx context.Context, runID uuid.UUID) (*aggregation.Run, error) {
	return s.reader.GetRun(ctx, runID)
}
