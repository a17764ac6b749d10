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

type Tenant struct {
	svc *core.TenantService
}

func NewTenant(services *core.Services) *Tenant {
	return &Tenant{svc: services.Tenant}
}

func (h *Tenant) List(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.svc.List(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if tenants == nil {
		tenants = []model.Tenant{}
	}
	response.WriteJSON(w, http.StatusOK, tenants)
}

func (h *Tenant) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTenant
	if err := request.Decode(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	now := time.Now()
	tenant := &model.Tenant{
		ID:        platform.NewID(),
		Code:      req.Code,
		Name:      req.Name,
		Status:    model.TenantStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.svc.Create(r.Context(), tenant); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, tenant)
}

func (h *Tenant) Get(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	tenant, err := h.svc.GetByID(r.Context(), tenantID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, tenant)
}
