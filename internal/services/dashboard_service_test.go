package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesboard/internal/sales"
)

const serviceCSV = `NOMBRE,APELLIDO,REGION,VENTAS TOTALES,UNIDADES VENDIDAS
Ana,García,North,100,2
Luis,Pérez,South,50,1
Ana,García,South,25.5,3
`

const noRegionCSV = `NOMBRE,APELLIDO,VENTAS TOTALES,UNIDADES VENDIDAS
Ana,García,100,2
Luis,Pérez,50,1
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, csv string) *DashboardService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vendedores.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	logger := discardLogger()
	store := sales.NewStore(path, sales.NewLoader(sales.DefaultColumns(), logger), logger)
	return NewDashboardService(store, logger, nil)
}

func regionsPtr(regions ...string) *[]string {
	return &regions
}

func TestDashboardServiceRegions(t *testing.T) {
	svc := newTestService(t, serviceCSV)

	regions, err := svc.Regions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"North", "South"}, regions)
}

func TestDashboardServiceSummary(t *testing.T) {
	svc := newTestService(t, serviceCSV)
	ctx := context.Background()

	t.Run("all regions by default", func(t *testing.T) {
		summary, err := svc.Summary(ctx, SelectionRequest{})
		require.NoError(t, err)
		assert.Equal(t, "175.5", summary.TotalSales.String())
		assert.Equal(t, int64(6), summary.TotalUnits)
		assert.Equal(t, 3, summary.RowCount)
	})

	t.Run("single region", func(t *testing.T) {
		summary, err := svc.Summary(ctx, SelectionRequest{Regions: regionsPtr("South")})
		require.NoError(t, err)
		assert.Equal(t, "75.5", summary.TotalSales.String())
		assert.Equal(t, 2, summary.RowCount)
	})

	t.Run("explicit empty selection", func(t *testing.T) {
		empty := []string{}
		summary, err := svc.Summary(ctx, SelectionRequest{Regions: &empty})
		require.NoError(t, err)
		assert.Equal(t, 0, summary.RowCount)
		assert.True(t, summary.TotalSales.IsZero())
	})
}

func TestDashboardServiceAggregateReport(t *testing.T) {
	svc := newTestService(t, serviceCSV)

	rows, err := svc.AggregateReport(context.Background(), SelectionRequest{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana García", rows[0].Seller)
	assert.Equal(t, "125.5", rows[0].Sales.String())
	assert.Equal(t, "Luis Pérez", rows[1].Seller)
}

func TestDashboardServiceCharts(t *testing.T) {
	svc := newTestService(t, serviceCSV)

	charts, err := svc.Charts(context.Background(), SelectionRequest{})
	require.NoError(t, err)
	require.Len(t, charts.Sales.Points, 2)
	assert.Equal(t, "Ana García", charts.Sales.Points[0].Seller)
	assert.Equal(t, "Ana García", charts.Units.Points[0].Seller)
}

func TestDashboardServiceSellerDetail(t *testing.T) {
	svc := newTestService(t, serviceCSV)
	ctx := context.Background()

	detail, err := svc.SellerDetail(ctx, SelectionRequest{Seller: "Ana García"})
	require.NoError(t, err)
	assert.Equal(t, "North, South", detail.RegionList)
	assert.Equal(t, "125.5", detail.Summary.TotalSales.String())

	unknown, err := svc.SellerDetail(ctx, SelectionRequest{Seller: "Nadie Aquí"})
	require.NoError(t, err)
	assert.Empty(t, unknown.Rows)
	assert.Equal(t, 0, unknown.Summary.RowCount)
}

func TestDashboardServiceTableView(t *testing.T) {
	svc := newTestService(t, serviceCSV)

	view, err := svc.TableView(context.Background(), SelectionRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"REGION", "VENTAS TOTALES", "UNIDADES VENDIDAS"}, view.Headers)
	require.Len(t, view.Rows, 3)
	assert.NotContains(t, view.Headers, "NOMBRE")
}

func TestDashboardServiceDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("full view", func(t *testing.T) {
		svc := newTestService(t, serviceCSV)

		view, err := svc.Dashboard(ctx, SelectionRequest{Seller: "Luis Pérez"})
		require.NoError(t, err)
		assert.Empty(t, view.Errors)
		assert.Equal(t, []string{"North", "South"}, view.Regions)
		assert.Equal(t, []string{"North", "South"}, view.Selection)
		require.NotNil(t, view.Summary)
		assert.Equal(t, "175.5", view.Summary.TotalSales.String())
		require.NotNil(t, view.Charts)
		require.NotNil(t, view.Detail)
		assert.Equal(t, "Luis Pérez", view.Detail.Seller)
		require.NotNil(t, view.Table)
	})

	t.Run("missing region column degrades sections", func(t *testing.T) {
		svc := newTestService(t, noRegionCSV)

		view, err := svc.Dashboard(ctx, SelectionRequest{})
		require.NoError(t, err)
		assert.Contains(t, view.Errors, "regions")
		assert.Contains(t, view.Errors, "filter")
		require.NotNil(t, view.Summary)
		assert.Equal(t, "150", view.Summary.TotalSales.String())
		require.NotNil(t, view.Charts)
		assert.Equal(t, []string{"Ana García", "Luis Pérez"}, view.Sellers)
	})

	t.Run("missing dataset is fatal", func(t *testing.T) {
		logger := discardLogger()
		store := sales.NewStore(filepath.Join(t.TempDir(), "nope.csv"), sales.NewLoader(sales.DefaultColumns(), logger), logger)
		svc := NewDashboardService(store, logger, nil)

		_, err := svc.Dashboard(ctx, SelectionRequest{})
		var notFound *sales.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestValidateRequest(t *testing.T) {
	svc := newTestService(t, serviceCSV)

	assert.NoError(t, svc.ValidateRequest(SelectionRequest{}))
	assert.NoError(t, svc.ValidateRequest(SelectionRequest{Regions: regionsPtr("North")}))

	err := svc.ValidateRequest(SelectionRequest{Regions: regionsPtr("")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSelection)
}
