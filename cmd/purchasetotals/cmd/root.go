// Package cmd provides the CLI commands for purchasetotals.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	corecfg "github.com/aevon-lab/purchase-totals/internal/core/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	// cfg is loaded once by the root command before any subcommand runs.
	cfg *corecfg.Config
)

var rootCmd = &cobra.Command{
	Use:   "purchasetotals",
	Short: "Aggregate purchase records into per-product and per-customer totals",
	Long: `purchasetotals ingests purchase records, periodically aggregates them with
map/shuffle/reduce batch jobs, and serves the resulting totals over HTTP.

Examples:
  purchasetotals serve --config purchasetotals.yaml
  purchasetotals run --job purchases_by_product`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "purchasetotals.yaml", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := corecfg.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	if err := initLogger(loaded.Log); err != nil {
		return err
	}
	cfg = loaded

	slog.Info("[Config] Loaded config",
		"config", cfgFile,
		"database", cfg.Database.Type,
		"jobs", len(cfg.Jobs))
	return nil
}

func initLogger(c corecfg.LogConfig) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.Level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
