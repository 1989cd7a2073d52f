package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"salesboard/internal/infrastructure"
	"salesboard/internal/sales"
	"salesboard/pkg/contracts/domain"
)

// SelectionRequest carries the user's filter choices across one invocation.
// A nil Regions slice means "no filter supplied" and resolves to every
// region; an empty slice is the explicit empty selection. Seller is only
// consulted by the detail section.
type SelectionRequest struct {
	Regions *[]string `json:"regions" validate:"omitempty,dive,min=1"`
	Seller  string    `json:"seller" validate:"omitempty,min=1,max=200"`
}

// Selection resolves the request into a pipeline selection.
func (r SelectionRequest) Selection() sales.Selection {
	if r.Regions == nil {
		return sales.SelectAll()
	}
	return sales.SelectRegions(*r.Regions)
}

// DashboardService runs the sales pipeline against the cached dataset and
// shapes the results for the transport layer. Every method re-reads the
// store, so a changed selection or a changed file is picked up on the next
// call rather than through any reactive machinery.
type DashboardService struct {
	store    *sales.Store
	logger   *slog.Logger
	metrics  *infrastructure.Metrics
	validate *validator.Validate
}

// NewDashboardService creates a dashboard service. metrics may be nil in
// tests and CLI use; pipeline counters are then skipped.
func NewDashboardService(store *sales.Store, logger *slog.Logger, metrics *infrastructure.Metrics) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		store:    store,
		logger:   logger.With(slog.String("component", "dashboard_service")),
		metrics:  metrics,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ValidateRequest checks a selection request before it is run.
func (s *DashboardService) ValidateRequest(req SelectionRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSelection, err)
	}
	return nil
}

func (s *DashboardService) recordRun(stage string, err error) {
	if s.metrics != nil {
		s.metrics.RecordPipelineRun(stage, err)
	}
}

// filtered loads the dataset and applies the selection.
func (s *DashboardService) filtered(ctx context.Context, sel sales.Selection) (*sales.Table, error) {
	table, err := s.store.Get(ctx)
	s.recordRun("load", err)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.DatasetRows.Set(float64(table.Len()))
	}

	view, err := sales.Filter(table, sel)
	s.recordRun("filter", err)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Regions lists the distinct regions of the full dataset, ascending. It
// feeds the filter control, so it always reads the unfiltered table.
func (s *DashboardService) Regions(ctx context.Context) ([]string, error) {
	table, err := s.store.Get(ctx)
	s.recordRun("load", err)
	if err != nil {
		return nil, err
	}
	return sales.Regions(table)
}

// Sellers lists the distinct sellers within the selection, ascending.
func (s *DashboardService) Sellers(ctx context.Context, req SelectionRequest) ([]string, error) {
	view, err := s.filtered(ctx, req.Selection())
	if err != nil {
		return nil, err
	}
	return sales.Sellers(view), nil
}

// Summary computes the selection's scalar totals.
func (s *DashboardService) Summary(ctx context.Context, req SelectionRequest) (domain.Summary, error) {
	view, err := s.filtered(ctx, req.Selection())
	if err != nil {
		return domain.Summary{}, err
	}
	summary, err := sales.Summarize(view)
	s.recordRun("summarize", err)
	return summary, err
}

// AggregateReport returns the per-seller aggregate rows of the selection,
// in first-appearance order.
func (s *DashboardService) AggregateReport(ctx context.Context, req SelectionRequest) ([]domain.AggregateRow, error) {
	view, err := s.filtered(ctx, req.Selection())
	if err != nil {
		return nil, err
	}
	rows, err := sales.Aggregate(view)
	s.recordRun("aggregate", err)
	return rows, err
}

// Charts builds the three chart datasets for the selection.
func (s *DashboardService) Charts(ctx context.Context, req SelectionRequest) (*domain.Charts, error) {
	rows, err := s.AggregateReport(ctx, req)
	if err != nil {
		return nil, err
	}
	charts := sales.BuildCharts(rows)
	return &charts, nil
}

// SellerDetail builds the drill-down view for the request's seller within
// the selection. An unknown seller yields an empty detail, not an error.
func (s *DashboardService) SellerDetail(ctx context.Context, req SelectionRequest) (*domain.SellerDetail, error) {
	view, err := s.filtered(ctx, req.Selection())
	if err != nil {
		return nil, err
	}
	detail, err := sales.DetailFor(view, req.Seller)
	s.recordRun("detail", err)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// TableView projects the selection's rows for tabular display, dropping
// the name source columns.
func (s *DashboardService) TableView(ctx context.Context, req SelectionRequest) (*domain.TableView, error) {
	view, err := s.filtered(ctx, req.Selection())
	if err != nil {
		return nil, err
	}
	table := sales.Projection(view)
	return &table, nil
}

// Dashboard runs the full pipeline once and assembles every section of the
// view. Failures that poison the whole pass (missing file, bad schema,
// unparseable cells) are returned as errors; a section that merely
// references a column the dataset lacks degrades to an entry in
// DashboardView.Errors while the remaining sections still render.
func (s *DashboardService) Dashboard(ctx context.Context, req SelectionRequest) (*domain.DashboardView, error) {
	table, err := s.store.Get(ctx)
	s.recordRun("load", err)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.DatasetRows.Set(float64(table.Len()))
	}

	result := &domain.DashboardView{Errors: make(map[string]string)}

	sectionErr := func(section string, err error) {
		result.Errors[section] = err.Error()
		s.logger.WarnContext(ctx, "dashboard section degraded",
			slog.String("section", section),
			slog.String("error", err.Error()))
	}

	if regions, err := sales.Regions(table); err != nil {
		sectionErr("regions", err)
	} else {
		result.Regions = regions
	}

	sel := req.Selection()
	view, err := sales.Filter(table, sel)
	s.recordRun("filter", err)
	if err != nil {
		// Without the region column there is nothing to filter; the
		// remaining sections run over the full table as the original
		// dashboard did before a region was ever chosen.
		sectionErr("filter", err)
		view = table
	} else {
		result.Selection = sel.Labels(table)
	}

	if summary, err := sales.Summarize(view); err != nil {
		s.recordRun("summarize", err)
		sectionErr("summary", err)
	} else {
		s.recordRun("summarize", nil)
		result.Summary = &summary
	}

	rows, err := sales.Aggregate(view)
	s.recordRun("aggregate", err)
	if err != nil {
		sectionErr("charts", err)
	} else {
		charts := sales.BuildCharts(rows)
		result.Charts = &charts
	}

	result.Sellers = sales.Sellers(view)

	if req.Seller != "" {
		if detail, err := sales.DetailFor(view, req.Seller); err != nil {
			sectionErr("detail", err)
		} else {
			result.Detail = &detail
		}
	}

	tableView := sales.Projection(view)
	result.Table = &tableView

	return result, nil
}
