package http

import (
	"context"

	"salesboard/internal/services"
	"salesboard/pkg/contracts/domain"
)

// DashboardServiceInterface defines the service contract the dashboard
// handler depends on. Tests substitute a mock implementation.
type DashboardServiceInterface interface {
	ValidateRequest(req services.SelectionRequest) error
	Regions(ctx context.Context) ([]string, error)
	Sellers(ctx context.Context, req services.SelectionRequest) ([]string, error)
	Summary(ctx context.Context, req services.SelectionRequest) (domain.Summary, error)
	AggregateReport(ctx context.Context, req services.SelectionRequest) ([]domain.AggregateRow, error)
	Charts(ctx context.Context, req services.SelectionRequest) (*domain.Charts, error)
	SellerDetail(ctx context.Context, req services.SelectionRequest) (*domain.SellerDetail, error)
	TableView(ctx context.Context, req services.SelectionRequest) (*domain.TableView, error)
	Dashboard(ctx context.Context, req services.SelectionRequest) (*domain.DashboardView, error)
}
