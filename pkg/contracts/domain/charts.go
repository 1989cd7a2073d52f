package domain

// ChartPoint is one bar or pie slice: a seller and a numeric value.
type ChartPoint struct {
	Seller string  `json:"seller"`
	Value  float64 `json:"value"`
}

// ChartDataset is a chart-ready series with an explicit display order.
type ChartDataset struct {
	Name   string       `json:"name"`
	Points []ChartPoint `json:"points"`
}

// Charts bundles the three per-seller datasets the dashboard renders:
// units sold, total sales and share of total sales.
type Charts struct {
	Units ChartDataset `json:"units"`
	Sales ChartDataset `json:"sales"`
	Share ChartDataset `json:"share"`
}

// DashboardView is the result of one full render pass for a selection.
// Sections that failed on a query-time column reference are nil and carry a
// message in Errors keyed by section name; the remaining sections still
// render.
type DashboardView struct {
	Regions   []string          `json:"regions"`
	Selection []string          `json:"selection"`
	Summary   *Summary          `json:"summary,omitempty"`
	Charts    *Charts           `json:"charts,omitempty"`
	Sellers   []string          `json:"sellers,omitempty"`
	Detail    *SellerDetail     `json:"detail,omitempty"`
	Table     *TableView        `json:"table,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}
