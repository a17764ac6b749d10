package handler

import (
	"errors"
	"net/http"

	"github.com/banben/yugabyte-db/internal/api/request"
	"github.com/banben/yugabyte-db/internal/api/response"
	"github.com/banben/yugabyte-db/internal/core"
)

// checkTenant verifies the tenant exists before any tenant-scoped resource
// work. Returns false and writes the error response if it does not.
func checkTenant(w http.ResponseWriter, r *http.Request, tenants *core.TenantService, tenantID string) bool {
	exists, err := tenants.Exists(r.Context(), tenantID)
	if err != nil {
		response.WriteServiceError(w, err)
		return false
	}
	if !exists {
		response.WriteServiceError(w, &core.InvalidTenantError{ID: tenantID})
		return false
	}
	return true
}

// writeRequestError renders a body decode or validation failure. Per-field
// validation errors are returned as a field-to-messages map; everything else
// uses the plain error envelope.
func writeRequestError(w http.ResponseWriter, err error) {
	var fieldErrs request.FieldErrors
	if errors.As(err, &fieldErrs) {
		response.WriteJSON(w, http.StatusBadRequest, fieldErrs)
		return
	}
	response.WriteError(w, http.StatusBadRequest, err.Error())
}
