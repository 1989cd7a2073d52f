package domain

import (
	"github.com/shopspring/decimal"
)

// Record is one row of the sales dataset. Seller is derived at load time by
// joining the first and last name columns; it is the grouping key for every
// aggregation. Extra holds the values of columns the dataset carries beyond
// the known ones, in source-file order.
type Record struct {
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Seller    string          `json:"seller"`
	Region    string          `json:"region"`
	Units     int64           `json:"units"`
	Sales     decimal.Decimal `json:"sales"`
	Extra     []string        `json:"extra,omitempty"`
}

// AggregateRow is one seller after grouping: summed units, summed sales and
// the seller's share of the grand sales total of the current filtered view.
// Share is zero for every row when the grand total is zero.
type AggregateRow struct {
	Seller string          `json:"seller"`
	Units  int64           `json:"units"`
	Sales  decimal.Decimal `json:"sales"`
	Share  decimal.Decimal `json:"share"`
}

// Summary holds the scalar totals of a filtered view, computed directly over
// the rows rather than from aggregate rows.
type Summary struct {
	TotalSales decimal.Decimal `json:"total_sales"`
	TotalUnits int64           `json:"total_units"`
	RowCount   int             `json:"row_count"`
}

// SellerDetail is the drill-down view for a single seller: that seller's
// rows in the filtered view, their totals, and the distinct regions the
// seller appears in. A seller absent from the view yields an empty detail.
type SellerDetail struct {
	Seller     string   `json:"seller"`
	Summary    Summary  `json:"summary"`
	Regions    []string `json:"regions"`
	RegionList string   `json:"region_list"`
	Rows       []Record `json:"rows"`
}

// TableView is the display projection of a filtered table: every source
// column except the identity-source name columns, with values rendered as
// strings in source order.
type TableView struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}
