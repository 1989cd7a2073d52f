package sales

import (
	"salesboard/pkg/contracts/domain"
)

// ColumnMap names the dataset columns the pipeline reads. The exact labels
// are configuration, not logic; the defaults match the original
// vendedores.csv layout.
type ColumnMap struct {
	FirstName string `yaml:"first_name" envconfig:"FIRST_NAME" default:"NOMBRE"`
	LastName  string `yaml:"last_name" envconfig:"LAST_NAME" default:"APELLIDO"`
	Region    string `yaml:"region" envconfig:"REGION" default:"REGION"`
	Units     string `yaml:"units" envconfig:"UNITS" default:"UNIDADES VENDIDAS"`
	Sales     string `yaml:"sales" envconfig:"SALES" default:"VENTAS TOTALES"`
	Seller    string `yaml:"seller" envconfig:"SELLER" default:"Vendedor"`
}

// DefaultColumns returns the column labels of the original dataset.
func DefaultColumns() ColumnMap {
	return ColumnMap{
		FirstName: "NOMBRE",
		LastName:  "APELLIDO",
		Region:    "REGION",
		Units:     "UNIDADES VENDIDAS",
		Sales:     "VENTAS TOTALES",
		Seller:    "Vendedor",
	}
}

// Table is an immutable, ordered collection of records loaded from one
// dataset file. Filtering and aggregation never mutate a Table; they build
// new values. The Has* flags record which optional columns the source file
// carries: the name columns are mandatory at load time, but a missing
// region or measure column only fails the stage that references it.
type Table struct {
	Columns      ColumnMap
	Headers      []string // source header row, original order
	ExtraHeaders []string // headers beyond the known columns, original order
	Rows         []domain.Record
	HasRegion    bool
	HasUnits     bool
	HasSales     bool
}

// Len returns the number of records in the table.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no records.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// withRows returns a copy of the table metadata holding the given rows.
func (t *Table) withRows(rows []domain.Record) *Table {
	return &Table{
		Columns:      t.Columns,
		Headers:      t.Headers,
		ExtraHeaders: t.ExtraHeaders,
		Rows:         rows,
		HasRegion:    t.HasRegion,
		HasUnits:     t.HasUnits,
		HasSales:     t.HasSales,
	}
}
