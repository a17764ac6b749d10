package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/banben/yugabyte-db/internal/api/request"
	"github.com/banben/yugabyte-db/internal/api/response"
	"github.com/banben/yugabyte-db/internal/core"
	"github.com/banben/yugabyte-db/internal/model"
	"github.com/banben/yugabyte-db/internal/platform"
)

type Universe struct {
	svc     *core.UniverseService
	tenants *core.TenantService
}

func NewUniverse(services *core.Services) *Universe {
	return &Universe{svc: services.Universe, tenants: services.Tenant}
}

func (h *Universe) ListByTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	if !checkTenant(w, r, h.tenants, tenantID) {
		return
	}

	universes, err := h.svc.ListByTenant(r.Context(), tenantID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if universes == nil {
		universes = []model.Universe{}
	}
	response.WriteJSON(w, http.StatusOK, universes)
}

func (h *Universe) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	var req request.CreateUniverse
	if err := request.Decode(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	if !checkTenant(w, r, h.tenants, tenantID) {
		return
	}

	now := time.Now()
	universe := &model.Universe{
		ID:        platform.NewID(),
		TenantID:  tenantID,
		Name:      req.Name,
		Status:    model.UniverseStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.svc.Create(r.Context(), universe); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, universe)
}
