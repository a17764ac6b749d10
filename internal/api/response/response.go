package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/banben/yugabyte-db/internal/core"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteSuccess writes the bare success envelope used by delete endpoints.
func WriteSuccess(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// WriteServiceError maps a core service error to the right HTTP response.
// Validation failures surface as 400 with the service's message; anything
// else is an internal error and the message is not exposed.
func WriteServiceError(w http.ResponseWriter, err error) {
	var tenantErr *core.InvalidTenantError
	var scheduleErr *core.InvalidScheduleError
	var paramsErr *core.InvalidParamsError

	switch {
	case errors.As(err, &tenantErr), errors.As(err, &scheduleErr), errors.As(err, &paramsErr):
		WriteError(w, http.StatusBadRequest, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
