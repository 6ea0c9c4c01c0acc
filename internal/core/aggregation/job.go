package aggregation

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// JobDefinition binds an extractor and an aggregator to an input and an output dataset.
// Definitions are loaded once at startup from YAML files and fingerprinted.
type JobDefinition struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Dimension   Dimension  `yaml:"dimension"` // grouping key: product | customer
	Value       ValueField `yaml:"value"`     // contribution per purchase: price | quantity
	Operator    string     `yaml:"operator"`  // count, sum, min, max
	Input       string     `yaml:"input"`     // input dataset name
	Output      string     `yaml:"output"`    // output dataset name
	Route       string     `yaml:"route"`     // path segment served by the query service
	Format      string     `yaml:"format"`    // row encoding of the input dataset
	Fingerprint string     `yaml:"-"`         // SHA-256 of the raw YAML file
}

var datasetNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]*$`)

// ApplyDefaults fills optional fields: value=price, operator=sum, format=json,
// route derived from the dimension ("products", "customers").
func (d *JobDefinition) ApplyDefaults() {
	if d.Value == "" {
		d.Value = ValuePrice
	}
	if d.Operator == "" {
		d.Operator = OpSum
	}
	if d.Format == "" {
		d.Format = "json"
	}
	if d.Route == "" && d.Dimension != "" {
		d.Route = string(d.Dimension) + "s"
	}
}

// Validate checks that every binding of the definition resolves.
func (d JobDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("job name must not be empty")
	}
	if _, err := KeySelectorFor(d.Dimension); err != nil {
		return fmt.Errorf("job %q: %w", d.Name, err)
	}
	if _, err := ValueSelectorFor(d.Value); err != nil {
		return fmt.Errorf("job %q: %w", d.Name, err)
	}
	if !ValidOperator(d.Operator) {
		return fmt.Errorf("job %q: unsupported operator %q", d.Name, d.Operator)
	}
	if !datasetNamePattern.MatchString(d.Input) {
		return fmt.Errorf("job %q: invalid input dataset %q", d.Name, d.Input)
	}
	if !datasetNamePattern.MatchString(d.Output) {
		return fmt.Errorf("job %q: invalid output dataset %q", d.Name, d.Output)
	}
	if d.Input == d.Output {
		return fmt.Errorf("job %q: input and output dataset must differ", d.Name)
	}
	if strings.Contains(d.Route, "/") {
		return fmt.Errorf("job %q: route must be a single path segment", d.Name)
	}
	return nil
}

// JobRepository defines the interface for loading job definitions.
type JobRepository interface {
	// Get returns the job with the given name, or an error if not found.
	Get(ctx context.Context, name string) (*JobDefinition, error)

	// List returns all jobs, optionally filtered by input dataset.
	List(ctx context.Context, input string) ([]JobDefinition, error)

	// GetJobs returns all jobs sorted by name.
	GetJobs() []JobDefinition
}

// FileSystemJobRepository loads job definitions from *.yaml files in a directory.
// Each file holds exactly one job. No hot reload.
type FileSystemJobRepository struct {
	dir  string
	jobs map[string]JobDefinition
}

// NewFileSystemJobRepository eagerly loads all jobs from dir. A missing directory
// means zero jobs; a malformed or conflicting file is an error.
func NewFileSystemJobRepository(dir string) (*FileSystemJobRepository, error) {
	repo := &FileSystemJobRepository{
		dir:  dir,
		jobs: make(map[string]JobDefinition),
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

// NewStaticJobRepository wraps already-built definitions. Defaults are applied and
// each definition is validated.
func NewStaticJobRepository(defs ...JobDefinition) (*FileSystemJobRepository, error) {
	repo := &FileSystemJobRepository{jobs: make(map[string]JobDefinition, len(defs))}
	for _, def := range defs {
		if err := repo.add(def, nil); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

func (r *FileSystemJobRepository) load() error {
	info, err := os.Stat(r.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("job definition dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("job definition path %q is not a directory", r.dir)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("reading job definition dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(r.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading job file %s: %w", path, err)
		}

		var def JobDefinition
		if err := yaml.Unmarshal(data, &def); err != nil {
			return fmt.Errorf("parsing job file %s: %w", path, err)
		}
		if def.Name == "" {
			continue // empty / comment-only file
		}
		if err := r.add(def, data); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func (r *FileSystemJobRepository) add(def JobDefinition, raw []byte) error {
	def.ApplyDefaults()
	if err := def.Validate(); err != nil {
		return err
	}
	if raw == nil {
		raw = []byte(fmt.Sprintf("%+v", def))
	}
	def.Fingerprint = fmt.Sprintf("%x", sha256.Sum256(raw))

	if _, exists := r.jobs[def.Name]; exists {
		return fmt.Errorf("job %q: duplicate job name", def.Name)
	}
	for _, other := range r.jobs {
		if other.Output == def.Output {
			return fmt.Errorf("job %q: output dataset %q already written by job %q", def.Name, def.Output, other.Name)
		}
		if other.Route == def.Route {
			return fmt.Errorf("job %q: route %q already served by job %q", def.Name, def.Route, other.Name)
		}
	}
	r.jobs[def.Name] = def
	return nil
}

// Get returns the job with the given name.
func (r *FileSystemJobRepository) Get(_ context.Context, name string) (*JobDefinition, error) {
	def, ok := r.jobs[name]
	if !ok {
		return nil, fmt.Errorf("job %q not found", name)
	}
	return &def, nil
}

// List returns all jobs reading from input, or every job when input is empty.
func (r *FileSystemJobRepository) List(_ context.Context, input string) ([]JobDefinition, error) {
	var out []JobDefinition
	for _, def := range r.GetJobs() {
		if input != "" && def.Input != input {
			continue
		}
		out = append(out, def)
	}
	return out, nil
}

// GetJobs returns all jobs sorted by name.
func (r *FileSystemJobRepository) GetJobs() []JobDefinition {
	jobs := make([]JobDefinition, 0, len(r.jobs))
	for _, def := range r.jobs {
		jobs = append(jobs, def)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs
}

var _ JobRepository = (*FileSystemJobRepository)(nil)
