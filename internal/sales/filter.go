package sales

import (
	"sort"

	"github.com/samber/lo"

	"salesboard/pkg/contracts/domain"
)

// Selection is the region filter chosen by the user. The zero value is the
// empty selection, which filters to an empty table; All selects every
// region and is the default when no filter was supplied.
type Selection struct {
	Regions []string
	All     bool
}

// SelectAll returns the default selection covering every region.
func SelectAll() Selection {
	return Selection{All: true}
}

// SelectRegions returns a selection of exactly the given regions. An empty
// or nil slice is the empty selection, not "all".
func SelectRegions(regions []string) Selection {
	return Selection{Regions: regions}
}

// Labels returns the regions a selection covers within the given table,
// for echoing the effective selection back to the caller.
func (s Selection) Labels(t *Table) []string {
	if s.All {
		regions, err := Regions(t)
		if err != nil {
			return nil
		}
		return regions
	}
	return s.Regions
}

// Filter returns the subsequence of records whose region is in the
// selection. Order is preserved and nothing is deduplicated. The empty
// selection yields an empty table, never an error: it means "no region
// chosen", which is distinct from "zero matching records". A table without
// the region column cannot be filtered and fails with a ColumnError.
func Filter(t *Table, sel Selection) (*Table, error) {
	if !t.HasRegion {
		return nil, &ColumnError{Column: t.Columns.Region}
	}

	if sel.All {
		rows := make([]domain.Record, len(t.Rows))
		copy(rows, t.Rows)
		return t.withRows(rows), nil
	}

	if len(sel.Regions) == 0 {
		return t.withRows(nil), nil
	}

	chosen := make(map[string]bool, len(sel.Regions))
	for _, region := range sel.Regions {
		chosen[region] = true
	}

	var rows []domain.Record
	for _, rec := range t.Rows {
		if chosen[rec.Region] {
			rows = append(rows, rec)
		}
	}
	return t.withRows(rows), nil
}

// Regions returns the distinct region values present in the table, in
// ascending order. It is the source for the dashboard's filter control.
func Regions(t *Table) ([]string, error) {
	if !t.HasRegion {
		return nil, &ColumnError{Column: t.Columns.Region}
	}

	regions := lo.Uniq(lo.Map(t.Rows, func(rec domain.Record, _ int) string {
		return rec.Region
	}))
	sort.Strings(regions)
	return regions, nil
}

// Sellers returns the distinct seller names present in the table, in
// ascending order. It feeds the seller picker of the detail section.
func Sellers(t *Table) []string {
	sellers := lo.Uniq(lo.Map(t.Rows, func(rec domain.Record, _ int) string {
		return rec.Seller
	}))
	sort.Strings(sellers)
	return sellers
}
