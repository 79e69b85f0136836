package http

import (
	"net/http"
	"time"

	"github.com/anyemp/global-dashboard-go/internal/domain/dashboard"
	"github.com/anyemp/global-dashboard-go/internal/domain/preference"
	"github.com/anyemp/global-dashboard-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DashboardHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Categories(w http.ResponseWriter, r *http.Request)
	Overview(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetData(w http.ResponseWriter, r *http.Request)
	ClearAllCache(w http.ResponseWriter, r *http.Request)
	ClearCache(w http.ResponseWriter, r *http.Request)
}

type DashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	cacheMaxAge      time.Duration
}

// NewDashboardHandler serves cached data up to cacheMaxAge old unless a request
// names its own maxAge
func NewDashboardHandler(dashboardService dashboard.DashboardService, cacheMaxAge time.Duration) DashboardHandler {
	if cacheMaxAge <= 0 {
		cacheMaxAge = preference.DefaultCacheMaxAge
	}
	return &DashboardHandlerImpl{
		dashboardService: dashboardService,
		cacheMaxAge:      cacheMaxAge,
	}
}

// List returns the registry, optionally narrowed by category, status and hasApi
func (h *DashboardHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	hasAPI, err := getOptionalBoolQueryParam(r, "hasApi")
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	filter := dashboard.Filter{
		Category: r.URL.Query().Get("category"),
		Status:   dashboard.Status(r.URL.Query().Get("status")),
		HasAPI:   hasAPI,
	}
	response.Success(w, h.dashboardService.List(filter))
}

func (h *DashboardHandlerImpl) Categories(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.dashboardService.Categories())
}

func (h *DashboardHandlerImpl) Overview(w http.ResponseWriter, r *http.Request) {
	maxAge, err := getDurationQueryParam(r, "maxAge", h.cacheMaxAge)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	overview, err := h.dashboardService.GetOverview(r.Context(), maxAge)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, overview)
}

func (h *DashboardHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboardService.Get(chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, d)
}

func (h *DashboardHandlerImpl) GetData(w http.ResponseWriter, r *http.Request) {
	maxAge, err := getDurationQueryParam(r, "maxAge", h.cacheMaxAge)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	data, err := h.dashboardService.GetData(r.Context(), chi.URLParam(r, "id"), maxAge)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, data)
}

func (h *DashboardHandlerImpl) ClearAllCache(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboardService.ClearCache(""); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Dashboard cache cleared", nil)
}

func (h *DashboardHandlerImpl) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboardService.ClearCache(chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Dashboard cache cleared", nil)
}
