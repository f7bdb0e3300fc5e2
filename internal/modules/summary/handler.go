package summary

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/georgemunganga/pharmahub-backend/internal/modules/admin"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/apperr"
	"github.com/georgemunganga/pharmahub-backend/internal/platform/httpx"
)

type Handler struct {
	service Service
	log     *zap.Logger
}

func NewHandler(service Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterRoutes mounts the summary endpoints; they expect admin.RequireSession.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/vendors/{id}/summary", h.get)
	r.Post("/admin/vendors/{id}/summary/refresh", h.refresh)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}
	s, err := h.service.GetVendorSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, s)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}
	s, err := h.service.RefreshVendorSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, s)
}

func (h *Handler) authorized(w http.ResponseWriter, r *http.Request) bool {
	if admin.Authorize(admin.FromContext(r.Context()), admin.ActionViewAnalytics) {
		return true
	}
	httpx.WriteError(w, r, h.log, apperr.Forbidden("admin is not permitted to view vendor analytics"))
	return false
}
