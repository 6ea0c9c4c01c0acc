package cmd

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/aevon-lab/purchase-totals/internal/aggregation"
	corecfg "github.com/aevon-lab/purchase-totals/internal/core/config"
	"github.com/aevon-lab/purchase-totals/internal/core/record"
	"github.com/aevon-lab/purchase-totals/internal/core/storage"
	"github.com/aevon-lab/purchase-totals/internal/core/storage/memory"
	"github.com/aevon-lab/purchase-totals/internal/core/storage/postgres"
	"github.com/aevon-lab/purchase-totals/internal/migrations"
)

// app holds the wired storage and batch runner shared by every subcommand.
type app struct {
	db      *sql.DB // nil for the in-memory store
	records storage.RecordStore
	output  storage.OutputStore
	codecs  *record.Registry
	runner  *aggregation.Runner
	close   func() error
}

func buildApp(c *corecfg.Config) (*app, error) {
	codecs, err := record.NewDefaultRegistry()
	if err != nil {
		return nil, err
	}

	a := &app{codecs: codecs, close: func() error { return nil }}

	switch c.Database.Type {
	case "memory":
		store := memory.NewStore()
		a.records, a.output = store, store
		slog.Warn("[Storage] Using in-memory store; data is lost on exit")
	default:
		db, err := postgres.Open(c.Database.DSN, c.Database.MaxOpenConns, c.Database.MaxIdleConns)
		if err != nil {
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		if err := migrations.RunMigrations(db, c.Database.AutoMigrate); err != nil {
			db.Close()
			return nil, fmt.Errorf("run database migrations: %w", err)
		}
		records, err := postgres.NewAdapter(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.db = db
		a.records = records
		a.output = postgres.NewTotalsAdapter(db)
		a.close = records.Close
	}

	a.runner = aggregation.NewRunner(a.records, a.output, codecs, aggregation.BatchJobParameter{
		BatchSize:     c.Aggregation.BatchSize,
		MapWorkers:    c.Aggregation.MapWorkers,
		ReduceWorkers: c.Aggregation.ReduceWorkers,
		Partitions:    c.Aggregation.Partitions,
	})
	return a, nil
}
