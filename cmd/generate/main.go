// Command generate runs one synchronous generation pass over the input sheet
// and optionally exports the approved rows afterwards.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"feedgen/internal/app"
	"feedgen/internal/config"
	"feedgen/internal/logger"
)

var (
	exportAfter bool
	csvPath     string
)

var rootCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate titles and descriptions for every unprocessed feed row",
	Long: `Reads the input sheet, generates and scores titles and descriptions for rows
that have no result yet, and appends the results to the generated sheet.

Examples:
  generate                       # process new rows
  generate --export              # process, then export approved rows
  generate --export --csv out.csv`,
	SilenceUsage: true,
	RunE:         runGenerate,
}

func init() {
	rootCmd.Flags().BoolVar(&exportAfter, "export", false, "export approved rows after the run")
	rootCmd.Flags().StringVar(&csvPath, "csv", "", "also write the export as CSV to this path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = lg.Sync() }()
	zap.ReplaceGlobals(lg)

	a, err := app.New(cfg, lg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := a.Generation.Run(ctx)
	if err != nil {
		return fmt.Errorf("generation run: %w", err)
	}
	if err := printJSON(cmd, summary); err != nil {
		return err
	}

	if !exportAfter && csvPath == "" {
		return nil
	}
	if exportAfter {
		result, err := a.Exports.Export(ctx)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := printJSON(cmd, result); err != nil {
			return err
		}
	}
	if csvPath != "" {
		return writeCSV(ctx, a, csvPath)
	}
	return nil
}

func writeCSV(ctx context.Context, a *app.App, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := a.Exports.WriteCSV(ctx, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
