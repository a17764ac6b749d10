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

type StorageConfig struct {
	svc     *core.StorageConfigService
	tenants *core.TenantService
}

func NewStorageConfig(services *core.Services) *StorageConfig {
	return &StorageConfig{svc: services.StorageConfig, tenants: services.Tenant}
}

func (h *StorageConfig) ListByTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	if !checkTenant(w, r, h.tenants, tenantID) {
		return
	}

	configs, err := h.svc.ListByTenant(r.Context(), tenantID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if configs == nil {
		configs = []model.StorageConfig{}
	}
	response.WriteJSON(w, http.StatusOK, configs)
}

func (h *StorageConfig) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	var req request.CreateStorageConfig
	if err := request.Decode(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	if !checkTenant(w, r, h.tenants, tenantID) {
		return
	}

	now := time.Now()
	cfg := &model.StorageConfig{
		ID:        platform.NewID(),
		TenantID:  tenantID,
		Name:      req.Name,
		S3Bucket:  req.S3Bucket,
		S3Region:  req.S3Region,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.svc.Create(r.Context(), cfg); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, cfg)
}
