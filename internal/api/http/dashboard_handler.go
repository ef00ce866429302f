package http

import (
	"net/http"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/service"
)

type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardSvc.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *DashboardHandler) RevenueChart(w http.ResponseWriter, r *http.Request) {
	points, err := h.dashboardSvc.RevenueChart(r.Context(), queryInt(r, "days", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if points == nil {
		points = []domain.RevenuePoint{}
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *DashboardHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.dashboardSvc.TopProducts(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if products == nil {
		products = []domain.TopProduct{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *DashboardHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.dashboardSvc.Alerts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (h *DashboardHandler) StatusDistribution(w http.ResponseWriter, r *http.Request) {
	counts, err := h.dashboardSvc.StatusDistribution(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if counts == nil {
		counts = []domain.StatusCount{}
	}
	writeJSON(w, http.StatusOK, counts)
}
