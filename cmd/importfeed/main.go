// Command importfeed loads an XLSX, CSV or TSV product feed into the input sheet
// of the configured sheet store, replacing its previous contents.
package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"feedgen/internal/app"
	"feedgen/internal/config"
	"feedgen/internal/domain"
	"feedgen/internal/feedimport"
	"feedgen/internal/logger"
	"feedgen/internal/sheets"
)

var (
	filePath    string
	sourceSheet string
	targetSheet string
)

var rootCmd = &cobra.Command{
	Use:   "importfeed --file FEED",
	Short: "Import a product feed into the input sheet",
	Long: `Reads a product feed file and writes it into the input sheet. The header row
must contain the configured item id column.

Examples:
  importfeed --file feed.xlsx
  importfeed --file feed.xlsx --source-sheet Products
  importfeed --file feed.csv --sheet staging_input`,
	SilenceUsage: true,
	RunE:         runImport,
}

func init() {
	rootCmd.Flags().StringVarP(&filePath, "file", "f", "", "feed file (.xlsx, .csv or .tsv)")
	rootCmd.Flags().StringVar(&sourceSheet, "source-sheet", "", "sheet to read from a workbook (default: first sheet)")
	rootCmd.Flags().StringVar(&targetSheet, "sheet", "", "destination sheet (default: feed.input_sheet)")
	_ = rootCmd.MarkFlagRequired("file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runImport(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = lg.Sync() }()

	table, err := feedimport.ReadFile(filePath, sourceSheet)
	if err != nil {
		return err
	}
	if len(table) == 0 || !slices.Contains(table[0], cfg.Feed.IDColumn) {
		return fmt.Errorf("%w: %q not found in %s", domain.ErrMissingIDColumn, cfg.Feed.IDColumn, filePath)
	}

	store, closeStore, _, err := app.OpenStore(cfg, lg)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer func() { _ = closeStore() }()
	}

	sheet := targetSheet
	if sheet == "" {
		sheet = cfg.Feed.InputSheet
	}
	if err := sheets.ReplaceSheet(cmd.Context(), store, sheet, table); err != nil {
		return fmt.Errorf("writing %s: %w", sheet, err)
	}

	lg.Info("importfeed: feed imported",
		zap.String("file", filePath),
		zap.String("sheet", sheet),
		zap.Int("rows", len(table)-1),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows into %s\n", len(table)-1, sheet)
	return nil
}
