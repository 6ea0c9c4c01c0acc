package config

import (
	"fmt"
	"strings"
	"time"

	coreagg "github.com/aevon-lab/purchase-totals/internal/core/aggregation"
	"github.com/aevon-lab/purchase-totals/internal/core/record"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "PURCHASES_"

// Config represents the top-level application config plus the resolved job definitions.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Aggregation AggregationConfig `koanf:"aggregation"`
	Ingestion   IngestionConfig   `koanf:"ingestion"`
	Log         LogConfig         `koanf:"log"`

	// Jobs is populated by Load after parsing job files.
	Jobs []coreagg.JobDefinition `koanf:"-"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	Type         string `koanf:"type"` // postgres | memory
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type AggregationConfig struct {
	JobsDir       string `koanf:"jobs_dir"`
	RequireJobs   bool   `koanf:"require_jobs"`
	Enabled       bool   `koanf:"enabled"`
	CronInterval  string `koanf:"cron_interval"` // parsed and validated on startup
	StartupDelay  string `koanf:"startup_delay"`
	BatchSize     int    `koanf:"batch_size"`
	MapWorkers    int    `koanf:"map_workers"`
	ReduceWorkers int    `koanf:"reduce_workers"`
	Partitions    int    `koanf:"partitions"`
}

// Intervals returns the parsed cron interval and startup delay. Both were checked by Validate.
func (c AggregationConfig) Intervals() (time.Duration, time.Duration) {
	interval, _ := time.ParseDuration(c.CronInterval)
	delay, _ := time.ParseDuration(c.StartupDelay)
	return interval, delay
}

type IngestionConfig struct {
	Dataset string `koanf:"dataset"`
	Format  string `koanf:"format"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug | info | warn | error
	Format string `koanf:"format"` // text | json
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	switch c.Database.Type {
	case "postgres":
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required")
		}
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be > 0")
		}
		if c.Database.MaxIdleConns <= 0 {
			return fmt.Errorf("database.max_idle_conns must be > 0")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported database.type %q", c.Database.Type)
	}

	if strings.TrimSpace(c.Aggregation.JobsDir) == "" {
		return fmt.Errorf("aggregation.jobs_dir is required")
	}
	interval, err := time.ParseDuration(c.Aggregation.CronInterval)
	if err != nil {
		return fmt.Errorf("invalid aggregation cron interval %q: %w", c.Aggregation.CronInterval, err)
	}
	if interval <= 0 {
		return fmt.Errorf("aggregation cron interval must be > 0")
	}
	delay, err := time.ParseDuration(c.Aggregation.StartupDelay)
	if err != nil {
		return fmt.Errorf("invalid aggregation startup delay %q: %w", c.Aggregation.StartupDelay, err)
	}
	if delay < 0 {
		return fmt.Errorf("aggregation startup delay must be >= 0")
	}
	if c.Aggregation.BatchSize <= 0 {
		return fmt.Errorf("aggregation.batch_size must be > 0")
	}
	if c.Aggregation.MapWorkers <= 0 {
		return fmt.Errorf("aggregation.map_workers must be > 0")
	}
	if c.Aggregation.ReduceWorkers <= 0 {
		return fmt.Errorf("aggregation.reduce_workers must be > 0")
	}
	if c.Aggregation.Partitions <= 0 {
		return fmt.Errorf("aggregation.partitions must be > 0")
	}

	if strings.TrimSpace(c.Ingestion.Dataset) == "" {
		return fmt.Errorf("ingestion.dataset is required")
	}
	switch record.Format(c.Ingestion.Format) {
	case record.FormatJSON, record.FormatProtobuf:
	default:
		return fmt.Errorf("unsupported ingestion.format %q", c.Ingestion.Format)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format %q (must be text or json)", c.Log.Format)
	}

	return nil
}

// validateJobs checks constraints across jobs: no job reads another job's output, and a
// job reading the ingestion dataset agrees on its row format.
func (c *Config) validateJobs() error {
	outputs := make(map[string]string, len(c.Jobs))
	for _, job := range c.Jobs {
		outputs[job.Output] = job.Name
	}
	for _, job := range c.Jobs {
		if writer, ok := outputs[job.Input]; ok {
			return fmt.Errorf("job %q reads %q, the output of job %q", job.Name, job.Input, writer)
		}
		if job.Input == c.Ingestion.Dataset && job.Format != c.Ingestion.Format {
			return fmt.Errorf("job %q reads %q as %s but ingestion writes %s",
				job.Name, job.Input, job.Format, c.Ingestion.Format)
		}
	}
	return nil
}

// Load parses config from file + env, validates it, then loads and validates job definitions.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                8080,
		"server.host":                "0.0.0.0",
		"server.max_body_size_mb":    1,
		"server.mode":                "release",
		"database.type":              "postgres",
		"database.dsn":               "",
		"database.max_open_conns":    25,
		"database.max_idle_conns":    25,
		"database.auto_migrate":      true,
		"aggregation.jobs_dir":       "./config/jobs",
		"aggregation.require_jobs":   true,
		"aggregation.enabled":        true,
		"aggregation.cron_interval":  "2m",
		"aggregation.startup_delay":  "0s",
		"aggregation.batch_size":     5000,
		"aggregation.map_workers":    8,
		"aggregation.reduce_workers": 8,
		"aggregation.partitions":     16,
		"ingestion.dataset":          "purchaseRecords",
		"ingestion.format":           "json",
		"log.level":                  "info",
		"log.format":                 "text",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// PURCHASES_DATABASE__DSN -> database.dsn
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repo, err := coreagg.NewFileSystemJobRepository(cfg.Aggregation.JobsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load aggregation jobs: %w", err)
	}
	cfg.Jobs = repo.GetJobs()
	if cfg.Aggregation.Enabled && cfg.Aggregation.RequireJobs && len(cfg.Jobs) == 0 {
		return nil, fmt.Errorf("no aggregation jobs found in %q", cfg.Aggregation.JobsDir)
	}
	if err := cfg.validateJobs(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
