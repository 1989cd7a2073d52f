package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "salesboard/internal/errors"
	"salesboard/internal/exporter"
	"salesboard/internal/services"
)

// DashboardHandler handles dashboard HTTP requests with RFC 7807 compliance
type DashboardHandler struct {
	service      DashboardServiceInterface
	writer       *exporter.ReportWriter
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, writer *exporter.ReportWriter, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		writer:       writer,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/regions", h.GetRegions)
	r.Get("/sellers", h.GetSellers)
	r.Get("/sellers/{seller}", h.GetSellerDetail)
	r.Get("/summary", h.GetSummary)
	r.Get("/report", h.GetReport)
	r.Get("/charts", h.GetCharts)
	r.Get("/table", h.GetTable)
	r.Get("/export", h.Export)

	// Selection changes are explicit: the client POSTs the new selection
	// and receives the whole dashboard recomputed in one pass.
	r.Post("/render", h.Render)

	return r
}

// selectionFromQuery builds the selection request from query parameters.
// An absent regions parameter means every region; regions= with an empty
// value is the explicit empty selection.
func selectionFromQuery(query url.Values) services.SelectionRequest {
	req := services.SelectionRequest{Seller: query.Get("seller")}

	values, present := query["regions"]
	if !present {
		return req
	}

	regions := make([]string, 0, len(values))
	for _, value := range values {
		for _, region := range strings.Split(value, ",") {
			if region = strings.TrimSpace(region); region != "" {
				regions = append(regions, region)
			}
		}
	}
	req.Regions = &regions
	return req
}

func (h *DashboardHandler) respondList(w http.ResponseWriter, r *http.Request, items []string) {
	if items == nil {
		items = []string{}
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   items,
		"count":  len(items),
	})
}

// GetRegions handles GET /api/dashboard/regions
func (h *DashboardHandler) GetRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.service.Regions(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.respondList(w, r, regions)
}

// GetSellers handles GET /api/dashboard/sellers
func (h *DashboardHandler) GetSellers(w http.ResponseWriter, r *http.Request) {
	req := selectionFromQuery(r.URL.Query())
	if err := h.service.ValidateRequest(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("regions", err.Error()))
		return
	}

	sellers, err := h.service.Sellers(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.respondList(w, r, sellers)
}

// GetSellerDetail handles GET /api/dashboard/sellers/{seller}
func (h *DashboardHandler) GetSellerDetail(w http.ResponseWriter, r *http.Request) {
	seller, err := url.PathUnescape(chi.URLParam(r, "seller"))
	if err != nil || seller == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("seller", "seller name is required"))
		return
	}

	req := selectionFromQuery(r.URL.Query())
	req.Seller = seller
	if err := h.service.ValidateRequest(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("seller", err.Error()))
		return
	}

	detail, err := h.service.SellerDetail(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   detail,
	})
}

// GetSummary handles GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	req := selectionFromQuery(r.URL.Query())
	if err := h.service.ValidateRequest(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("regions", err.Error()))
		return
	}

	summary, err := h.service.Summary(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// GetReport handles GET /api/dashboard/report
func (h *DashboardHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	req := selectionFromQuery(r.URL.Query())
	if err := h.service.ValidateRequest(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("regions", err.Error()))
		return
	}

	rows, err := h.service.AggregateReport(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	})
}

// GetCharts handles GET /api/dashboard/charts
func (h *DashboardHandler) GetCharts(w http.ResponseWriter, r *http.Request) {
	req := selectionFromQuery(r.URL.Query())
	if err := h.service.ValidateRequest(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("regions", err.Error()))
		return
	}

	charts, err := h.service.Charts(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   charts,
	})
}

// GetTable handles GET /api/dashboard/table
func (h *DashboardHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	req := selectionFromQuery(r.URL.Query())
	if err := h.service.ValidateRequest(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("regions", err.Error()))
		return
	}

	table, err := h.service.TableView(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   table,
	})
}

// Render handles POST /api/dashboard/render
func (h *DashboardHandler) Render(w http.ResponseWriter, r *http.Request) {
	var req services.SelectionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("body", "request body must be valid JSON"))
			return
		}
	}
	if err := h.service.ValidateRequest(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("selection", err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "rendering dashboard",
		slog.Any("regions", req.Regions),
		slog.String("seller", req.Seller))

	view, err := h.service.Dashboard(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   view,
	})
}

// Export handles GET /api/dashboard/export
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := exporter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", "format must be csv or json"))
		return
	}

	req := selectionFromQuery(r.URL.Query())
	if err := h.service.ValidateRequest(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("regions", err.Error()))
		return
	}

	rows, err := h.service.AggregateReport(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	summary, err := h.service.Summary(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	selection := []string(nil)
	if req.Regions != nil {
		selection = *req.Regions
	} else if regions, err := h.service.Regions(r.Context()); err == nil {
		selection = regions
	}

	report := exporter.Report{
		GeneratedAt: time.Now().UTC(),
		Selection:   selection,
		Summary:     summary,
		Rows:        rows,
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)

	if err := h.writer.Write(w, format, report); err != nil {
		// Headers are gone; the best we can do is log it.
		h.logger.ErrorContext(r.Context(), "export failed mid-stream",
			slog.String("error", err.Error()))
	}
}
