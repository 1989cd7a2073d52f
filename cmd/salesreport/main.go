// Command salesreport runs the sales pipeline once from the command line:
// it loads the dataset, applies an optional region filter and writes the
// per-seller aggregate report as CSV or JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"salesboard/internal/config"
	"salesboard/internal/exporter"
	"salesboard/internal/infrastructure"
	"salesboard/internal/sales"
	"salesboard/internal/services"
)

func main() {
	datasetPath := flag.String("dataset", "", "dataset file, .csv or .xlsx (defaults to the configured path)")
	regions := flag.String("regions", "", "comma-separated regions to include (default: all)")
	format := flag.String("format", "csv", "output format: csv or json")
	output := flag.String("out", "", "output file (defaults to stdout)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if *datasetPath == "" {
		*datasetPath = cfg.Dataset.Path
	}

	exportFormat, err := exporter.ParseFormat(*format)
	if err != nil {
		logger.Error("invalid format", "error", err)
		os.Exit(1)
	}

	store := sales.NewStore(*datasetPath, sales.NewLoader(cfg.Dataset.Columns, logger), logger)
	service := services.NewDashboardService(store, logger, nil)

	req := services.SelectionRequest{}
	if *regions != "" {
		var chosen []string
		for _, region := range strings.Split(*regions, ",") {
			if region = strings.TrimSpace(region); region != "" {
				chosen = append(chosen, region)
			}
		}
		req.Regions = &chosen
	}

	ctx := context.Background()
	rows, err := service.AggregateReport(ctx, req)
	if err != nil {
		logger.Error("failed to aggregate", "path", *datasetPath, "error", err)
		os.Exit(1)
	}
	summary, err := service.Summary(ctx, req)
	if err != nil {
		logger.Error("failed to summarize", "path", *datasetPath, "error", err)
		os.Exit(1)
	}

	selection := []string(nil)
	if req.Regions != nil {
		selection = *req.Regions
	} else if all, err := service.Regions(ctx); err == nil {
		selection = all
	}

	report := exporter.Report{
		GeneratedAt: time.Now().UTC(),
		Selection:   selection,
		Summary:     summary,
		Rows:        rows,
	}

	writer := exporter.NewReportWriter(logger)
	if *output == "" {
		if err := writer.Write(os.Stdout, exportFormat, report); err != nil {
			logger.Error("failed to write report", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := writer.WriteFile(*output, exportFormat, report); err != nil {
		logger.Error("failed to write report", "path", *output, "error", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s (%d sellers, %d rows)\n", *output, len(rows), summary.RowCount)
}
