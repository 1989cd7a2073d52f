package sales

import (
	"fmt"
	"strings"
)

// NotFoundError reports a dataset path that does not resolve to a file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dataset file not found: %s", e.Path)
}

// SchemaError reports required columns absent from the dataset header.
// It is a load-time failure: no table is produced and the caller must stop
// further processing.
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset %s is missing required columns: %s",
		e.Path, strings.Join(e.Missing, ", "))
}

// ParseError reports a dataset file that exists but is not valid tabular
// data, or a cell that does not parse as its column's type. Row is the
// 1-based row number in the source file; zero when the failure is not tied
// to a single row.
type ParseError struct {
	Path   string
	Row    int
	Column string
	Cause  error
}

func (e *ParseError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("dataset %s: row %d, column %q: %v", e.Path, e.Row, e.Column, e.Cause)
	case e.Row > 0:
		return fmt.Sprintf("dataset %s: row %d: %v", e.Path, e.Row, e.Cause)
	default:
		return fmt.Sprintf("dataset %s: %v", e.Path, e.Cause)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ColumnError reports a query-time reference to a column the loaded table
// does not carry. It halts the stage that needed the column but leaves the
// rest of the dashboard renderable.
type ColumnError struct {
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q not present in the loaded dataset", e.Column)
}
