// Package exporter renders the per-seller aggregate report as downloadable
// CSV or JSON files.
package exporter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"salesboard/pkg/contracts/domain"
)

// ErrUnknownFormat is returned for export formats other than csv and json.
var ErrUnknownFormat = errors.New("unknown export format")

// Format identifies an export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat normalizes a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type to serve the format with.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns a download filename for the report.
func (f Format) Filename() string {
	return "sales_report." + string(f)
}

// Report is the JSON export envelope. The CSV export carries only the
// aggregate rows; callers wanting the totals use JSON.
type Report struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Selection   []string             `json:"selection,omitempty"`
	Summary     domain.Summary       `json:"summary"`
	Rows        []domain.AggregateRow `json:"rows"`
}

// ReportWriter renders aggregate reports
type ReportWriter struct {
	logger *slog.Logger
}

// NewReportWriter creates a report writer
func NewReportWriter(logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{logger: logger.With(slog.String("component", "exporter"))}
}

// Write renders the report to w in the given format.
func (rw *ReportWriter) Write(w io.Writer, format Format, report Report) error {
	switch format {
	case FormatCSV:
		return rw.writeCSV(w, report)
	case FormatJSON:
		return rw.writeJSON(w, report)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile renders the report to a file, creating parent directories.
func (rw *ReportWriter) WriteFile(path string, format Format, report Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if err := rw.Write(file, format, report); err != nil {
		return err
	}

	rw.logger.Info("report written",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("rows", len(report.Rows)))
	return nil
}

// writeCSV emits a UTF-8 BOM so Excel opens accented seller names
// correctly, then one row per seller.
func (rw *ReportWriter) writeCSV(w io.Writer, report Report) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"seller", "units", "sales", "share"}); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range report.Rows {
		record := []string{
			row.Seller,
			fmt.Sprintf("%d", row.Units),
			row.Sales.String(),
			row.Share.String(),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

func (rw *ReportWriter) writeJSON(w io.Writer, report Report) error {
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now().UTC()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
