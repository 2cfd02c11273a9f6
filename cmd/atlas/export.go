package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/industry-atlas/internal/cli"
	"github.com/Veraticus/industry-atlas/internal/common"
	"github.com/Veraticus/industry-atlas/internal/config"
	"github.com/Veraticus/industry-atlas/internal/export"
	"github.com/Veraticus/industry-atlas/internal/service"
	"github.com/Veraticus/industry-atlas/internal/stats"
)

// Export formats.
const (
	formatCSV    = "csv"
	formatSheets = "sheets"
)

func companiesExportCmd() *cobra.Command {
	var (
		flags    searchFlags
		format   string
		dir      string
		maxItems int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export matching companies to CSV or Google Sheets",
		Long: `Export the companies matching the same filters as 'atlas companies search'.
At most export.max_items companies are written.

CSV files are named companies_export_YYYY-MM-DD.csv. The sheets format
needs Google credentials; see 'atlas auth sheets'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			exporter, err := newExporter(cmd, format, dir, e.app)
			if err != nil {
				return err
			}

			filters, err := flags.filters(cmd, e.table)
			if err != nil {
				return err
			}
			logPredicate(e.translator(), filters)

			if maxItems <= 0 {
				maxItems = e.app.Export.MaxItems
			}

			store, err := e.companies(ctx)
			if err != nil {
				return err
			}
			companies, err := export.Collect(ctx, store, filters, maxItems)
			if errors.Is(err, common.ErrNothingToExport) {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No data to export."))
				return nil
			}
			if err != nil {
				return searchError(err)
			}

			location, err := exporter.Export(ctx, companies)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			slog.Info("exported companies", "format", format, "count", len(companies), "location", location)
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Exported %d companies to %s", len(companies), location)))
			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().StringVar(&format, "format", formatCSV, "export format (csv, sheets)")
	cmd.Flags().StringVar(&dir, "dir", "", "directory for CSV files (default export.dir)")
	cmd.Flags().IntVar(&maxItems, "max-items", 0, "maximum companies to export (default export.max_items)")

	return cmd
}

func newExporter(cmd *cobra.Command, format, dir string, app *config.App) (service.CompanyExporter, error) {
	switch format {
	case formatCSV:
		if dir == "" {
			dir = app.Export.Dir
		}
		return export.NewCSVWriter(dir, export.DefaultBaseName), nil
	case formatSheets:
		cfg, err := config.LoadSheetsConfig()
		if err != nil {
			return nil, common.NewUserError("Google Sheets is not configured, run 'atlas auth sheets'", err)
		}
		writer, err := export.NewSheetsWriter(cmd.Context(), *cfg, slog.Default())
		if err != nil {
			return nil, err
		}
		return writer, nil
	default:
		return nil, common.NewUserError(fmt.Sprintf("unknown export format %q (use csv or sheets)", format), nil)
	}
}

func companiesStatsCmd() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count companies per business category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			store, err := e.companies(ctx)
			if err != nil {
				return err
			}
			summary, err := stats.CategoryCounts(ctx, store, e.table, concurrency)
			if err != nil {
				return searchError(err)
			}
			return writeSummary(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", stats.DefaultConcurrency, "concurrent count queries")

	return cmd
}

func writeSummary(w io.Writer, summary *stats.Summary) error {
	fmt.Fprintln(w, cli.FormatTitle(fmt.Sprintf("%s %d companies", cli.ChartIcon, summary.Total)))

	table := cli.NewTable(w, "ID", "Category", "Companies")
	for _, c := range summary.Categories {
		table.Row(c.ID, c.Label, strconv.Itoa(c.Count))
	}
	return table.Flush()
}
