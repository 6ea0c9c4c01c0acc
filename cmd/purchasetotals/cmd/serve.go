package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aevon-lab/purchase-totals/internal/aggregation"
	"github.com/aevon-lab/purchase-totals/internal/core/record"
	"github.com/aevon-lab/purchase-totals/internal/ingestion"
	"github.com/aevon-lab/purchase-totals/internal/projection"
	"github.com/aevon-lab/purchase-totals/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve ingestion and query APIs and run aggregation jobs periodically",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	codec, err := a.codecs.Get(record.Format(cfg.Ingestion.Format))
	if err != nil {
		return err
	}

	ingestionSvc := ingestion.NewService(a.records, codec, cfg.Ingestion.Dataset, cfg.Server.MaxBodySizeMB)
	projectionSvc := projection.NewService(a.output, cfg.Jobs)

	srv := server.New(cfg.Server.Addr(), a.db, cfg.Server.Mode)
	ingestionSvc.RegisterRoutes(srv.Engine)
	projectionSvc.RegisterRoutes(srv.Engine)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	if cfg.Aggregation.Enabled {
		interval, delay := cfg.Aggregation.Intervals()
		scheduler := aggregation.NewScheduler(interval, delay, a.runner, cfg.Jobs)
		go func() {
			if err := scheduler.Start(ctx); err != nil {
				slog.Error("[Scheduler] Stopped with error", "error", err)
			}
		}()
	} else {
		slog.Info("[Scheduler] Aggregation scheduler disabled by config")
	}

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("[Server] Stopped with error", "error", err)
		return err
	}

	slog.Info("Shutdown complete")
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
