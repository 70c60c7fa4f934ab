package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/cli"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/config"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/core"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/log"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/render"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/report"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/scanner"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/sheets"
	gsheet "github.com/joshjohanning/hsa-expense-analyzer-cli/internal/sheets/google"
	"github.com/joshjohanning/hsa-expense-analyzer-cli/internal/stats"
)

var version = "dev"

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel)

	dir := flag.String("dir", cfg.ReceiptsDir, "receipts directory")
	categories := flag.Bool("categories", false, "show per-category rows under each year")
	noColor := flag.Bool("no-color", false, "disable colored output")
	chartWidth := flag.Int("chart-width", cfg.ChartWidth, "bar length of the largest chart value")
	exportSheet := flag.Bool("export-sheet", false, "export the yearly summary to Google Sheets")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("hsa-analyzer %s\n", version)
		return
	}

	cfg.ReceiptsDir = *dir
	cfg.ChartWidth = *chartWidth
	cli.ValidateConfig(logger, cfg)

	if cfg.ReceiptsDir == "" {
		logger.Error("No receipts directory: pass -dir or set HSA_RECEIPTS_DIR")
		os.Exit(1)
	}

	start := time.Now()
	agg, err := scanner.Scan(cfg.ReceiptsDir)
	if err != nil {
		var dirErr *scanner.DirectoryAccessError
		if errors.As(err, &dirErr) {
			logger.Error("Cannot read receipts directory",
				log.FieldPath, dirErr.Path, log.FieldError, dirErr.Err)
		} else {
			logger.Error("Scan failed", log.FieldError, err)
		}
		os.Exit(1)
	}

	years := agg.Years()
	logger.Debug("Scan complete",
		log.FieldPath, cfg.ReceiptsDir,
		log.FieldFiles, len(agg.Receipts),
		log.FieldInvalid, len(agg.InvalidFiles),
		log.FieldDuration, time.Since(start).Milliseconds())

	var byCategory map[string]*core.CategoryTotals
	if *categories {
		byCategory = agg.ByCategory
	}
	summary := report.BuildYearly(years, agg.ExpensesByYear, agg.ReimbursementsByYear, agg.ReceiptCounts, byCategory)
	st := stats.Summarize(years, agg.ExpensesByYear, agg.ReimbursementsByYear, agg.ReceiptCounts, agg.InvalidFiles)

	renderer := render.New(os.Stdout, render.Options{
		ChartWidth: cfg.ChartWidth,
		Categories: *categories,
		NoColor:    *noColor,
	})
	renderer.Report(years, summary, agg, st)

	if *exportSheet {
		ctx := context.Background()
		sheetLogger := logger.WithComponent(log.ComponentSheets)
		writer, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			sheetLogger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		rows := sheets.BuildRows(report.RowOrder(years), summary)
		if err := writer.WriteSummary(ctx, rows); err != nil {
			sheetLogger.Error("Summary export failed", log.FieldError, err)
			os.Exit(1)
		}
		sheetLogger.Info("Summary exported to Google Sheets", log.FieldRows, len(rows))
	}
}
