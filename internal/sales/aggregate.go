package sales

import (
	"github.com/shopspring/decimal"

	"salesboard/pkg/contracts/domain"
)

// Aggregate groups the table's records by seller name and sums both
// measures per group. Seller matching is exact and case-sensitive: two
// different people sharing a full name collapse into one row, which is
// preserved source behavior, not a defect to repair here.
//
// Sale amounts are summed with decimal arithmetic so totals do not drift
// across many rows. Each row's share is its sales divided by the grand
// total of all rows' sales; when the grand total is zero every share is
// zero and no division happens.
//
// Rows come back in first-appearance order. Display ordering is the
// reporter's job and must be asked for explicitly.
func Aggregate(t *Table) ([]domain.AggregateRow, error) {
	if !t.HasUnits {
		return nil, &ColumnError{Column: t.Columns.Units}
	}
	if !t.HasSales {
		return nil, &ColumnError{Column: t.Columns.Sales}
	}

	index := make(map[string]int, len(t.Rows))
	rows := make([]domain.AggregateRow, 0, len(t.Rows))

	for _, rec := range t.Rows {
		i, seen := index[rec.Seller]
		if !seen {
			i = len(rows)
			index[rec.Seller] = i
			rows = append(rows, domain.AggregateRow{
				Seller: rec.Seller,
				Sales:  decimal.Zero,
				Share:  decimal.Zero,
			})
		}
		rows[i].Units += rec.Units
		rows[i].Sales = rows[i].Sales.Add(rec.Sales)
	}

	grandTotal := decimal.Zero
	for _, row := range rows {
		grandTotal = grandTotal.Add(row.Sales)
	}

	if !grandTotal.IsZero() {
		for i := range rows {
			rows[i].Share = rows[i].Sales.Div(grandTotal)
		}
	}

	return rows, nil
}
