package sales

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"salesboard/pkg/contracts/domain"
)

// Loader reads a sales dataset file into a Table. It accepts delimited text
// (CSV) and spreadsheets (XLSX/XLSM); both feed the same row pipeline.
type Loader struct {
	columns ColumnMap
	logger  *slog.Logger
}

// NewLoader creates a loader for datasets using the given column labels.
func NewLoader(columns ColumnMap, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		columns: columns,
		logger:  logger.With(slog.String("component", "sales.loader")),
	}
}

// Load reads the file at path and produces a Table.
//
// The first-name and last-name columns are mandatory: without them the
// derived seller name cannot be built and loading fails with a SchemaError.
// The region and measure columns are optional at load time; their absence is
// recorded on the Table and surfaces later at the stage that references
// them. Measure cells that do not parse are a load-time ParseError naming
// the offending row.
func (l *Loader) Load(ctx context.Context, path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("stat dataset %s: %w", path, err)
	}

	rows, err := l.readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &ParseError{Path: path, Cause: errors.New("no header row")}
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}

	var missing []string
	for _, name := range []string{l.columns.FirstName, l.columns.LastName} {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Path: path, Missing: missing}
	}

	table := &Table{
		Columns: l.columns,
		Headers: headers,
	}
	_, table.HasRegion = index[l.columns.Region]
	_, table.HasUnits = index[l.columns.Units]
	_, table.HasSales = index[l.columns.Sales]

	known := map[string]bool{
		l.columns.FirstName: true,
		l.columns.LastName:  true,
		l.columns.Region:    true,
		l.columns.Units:     true,
		l.columns.Sales:     true,
	}
	for _, h := range headers {
		if !known[h] {
			table.ExtraHeaders = append(table.ExtraHeaders, h)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	table.Rows = make([]domain.Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		rowNum := n + 2 // 1-based, after the header row

		rec := domain.Record{
			FirstName: cell(row, l.columns.FirstName),
			LastName:  cell(row, l.columns.LastName),
		}
		rec.Seller = rec.FirstName + " " + rec.LastName

		if table.HasRegion {
			rec.Region = cell(row, l.columns.Region)
		}
		if table.HasUnits {
			raw := cell(row, l.columns.Units)
			units, err := parseUnits(raw)
			if err != nil {
				return nil, &ParseError{Path: path, Row: rowNum, Column: l.columns.Units, Cause: err}
			}
			rec.Units = units
		}
		if table.HasSales {
			raw := cell(row, l.columns.Sales)
			amount, err := parseAmount(raw)
			if err != nil {
				return nil, &ParseError{Path: path, Row: rowNum, Column: l.columns.Sales, Cause: err}
			}
			rec.Sales = amount
		}

		for _, h := range table.ExtraHeaders {
			rec.Extra = append(rec.Extra, cell(row, h))
		}

		table.Rows = append(table.Rows, rec)
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", path),
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", len(headers)),
		slog.Bool("has_region", table.HasRegion),
		slog.Bool("has_units", table.HasUnits),
		slog.Bool("has_sales", table.HasSales))

	return table, nil
}

// readRows reads the raw cell grid from a CSV or spreadsheet file.
func (l *Loader) readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return l.readSpreadsheet(path)
	default:
		return l.readDelimited(path)
	}
}

func (l *Loader) readDelimited(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows are handled per cell

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}
	return rows, nil
}

func (l *Loader) readSpreadsheet(path string) ([][]string, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Path: path, Cause: errors.New("workbook has no sheets")}
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}
	return rows, nil
}

// parseUnits parses an integer unit count, tolerating thousands separators.
func parseUnits(raw string) (int64, error) {
	if raw == "" {
		return 0, errors.New("empty unit count")
	}
	cleaned := strings.ReplaceAll(raw, ",", "")
	units, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid unit count %q", raw)
	}
	return units, nil
}

// parseAmount parses a decimal currency amount, tolerating thousands
// separators and a leading currency sign.
func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, errors.New("empty sale amount")
	}
	cleaned := strings.TrimPrefix(strings.ReplaceAll(raw, ",", ""), "$")
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid sale amount %q", raw)
	}
	return amount, nil
}
