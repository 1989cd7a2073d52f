package sales

import (
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"salesboard/pkg/contracts/domain"
)

// Summarize computes the scalar totals of a filtered table directly over
// the rows. These totals must agree with the sums of the aggregate rows
// even though the two are computed independently.
func Summarize(t *Table) (domain.Summary, error) {
	if !t.HasUnits {
		return domain.Summary{}, &ColumnError{Column: t.Columns.Units}
	}
	if !t.HasSales {
		return domain.Summary{}, &ColumnError{Column: t.Columns.Sales}
	}

	summary := domain.Summary{
		TotalSales: decimal.Zero,
		RowCount:   t.Len(),
	}
	for _, rec := range t.Rows {
		summary.TotalUnits += rec.Units
		summary.TotalSales = summary.TotalSales.Add(rec.Sales)
	}
	return summary, nil
}

// DetailFor builds the drill-down view for one seller: their rows within
// the filtered table, their totals, and the distinct regions they appear
// in, ascending, joined for display. A seller with no rows in the view
// (say, a stale pick after the filter changed) yields an empty detail, not
// an error.
func DetailFor(t *Table, seller string) (domain.SellerDetail, error) {
	if !t.HasRegion {
		return domain.SellerDetail{}, &ColumnError{Column: t.Columns.Region}
	}

	rows := lo.Filter(t.Rows, func(rec domain.Record, _ int) bool {
		return rec.Seller == seller
	})

	own := t.withRows(rows)
	summary, err := Summarize(own)
	if err != nil {
		return domain.SellerDetail{}, err
	}

	regions := lo.Uniq(lo.Map(rows, func(rec domain.Record, _ int) string {
		return rec.Region
	}))
	sort.Strings(regions)

	return domain.SellerDetail{
		Seller:     seller,
		Summary:    summary,
		Regions:    regions,
		RegionList: strings.Join(regions, ", "),
		Rows:       rows,
	}, nil
}

// Projection renders the filtered table for display: every source column
// in original order except the identity-source name columns. The derived
// seller name is never part of the source headers, so it does not appear
// either; it is already surfaced by the aggregate and detail sections.
func Projection(t *Table) domain.TableView {
	extraIndex := make(map[string]int, len(t.ExtraHeaders))
	for i, h := range t.ExtraHeaders {
		extraIndex[h] = i
	}

	var headers []string
	for _, h := range t.Headers {
		if h == t.Columns.FirstName || h == t.Columns.LastName {
			continue
		}
		headers = append(headers, h)
	}

	view := domain.TableView{Headers: headers}
	for _, rec := range t.Rows {
		row := make([]string, 0, len(headers))
		for _, h := range headers {
			switch h {
			case t.Columns.Region:
				row = append(row, rec.Region)
			case t.Columns.Units:
				row = append(row, strconv.FormatInt(rec.Units, 10))
			case t.Columns.Sales:
				row = append(row, rec.Sales.String())
			default:
				if i, ok := extraIndex[h]; ok && i < len(rec.Extra) {
					row = append(row, rec.Extra[i])
				} else {
					row = append(row, "")
				}
			}
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// BuildCharts turns aggregate rows into the three chart-ready datasets with
// their display order made explicit: units descending by units, sales
// descending by sales, and share following the sales order. Ties break by
// seller name so the order is deterministic.
func BuildCharts(rows []domain.AggregateRow) domain.Charts {
	byUnits := make([]domain.AggregateRow, len(rows))
	copy(byUnits, rows)
	sort.SliceStable(byUnits, func(i, j int) bool {
		if byUnits[i].Units != byUnits[j].Units {
			return byUnits[i].Units > byUnits[j].Units
		}
		return byUnits[i].Seller < byUnits[j].Seller
	})

	bySales := make([]domain.AggregateRow, len(rows))
	copy(bySales, rows)
	sort.SliceStable(bySales, func(i, j int) bool {
		if !bySales[i].Sales.Equal(bySales[j].Sales) {
			return bySales[i].Sales.GreaterThan(bySales[j].Sales)
		}
		return bySales[i].Seller < bySales[j].Seller
	})

	return domain.Charts{
		Units: domain.ChartDataset{
			Name: "units_desc",
			Points: lo.Map(byUnits, func(row domain.AggregateRow, _ int) domain.ChartPoint {
				return domain.ChartPoint{Seller: row.Seller, Value: float64(row.Units)}
			}),
		},
		Sales: domain.ChartDataset{
			Name: "sales_desc",
			Points: lo.Map(bySales, func(row domain.AggregateRow, _ int) domain.ChartPoint {
				return domain.ChartPoint{Seller: row.Seller, Value: row.Sales.InexactFloat64()}
			}),
		},
		Share: domain.ChartDataset{
			Name: "share_by_sales_desc",
			Points: lo.Map(bySales, func(row domain.AggregateRow, _ int) domain.ChartPoint {
				return domain.ChartPoint{Seller: row.Seller, Value: row.Share.InexactFloat64()}
			}),
		},
	}
}
