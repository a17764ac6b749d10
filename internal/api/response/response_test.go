package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banben/yugabyte-db/internal/core"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	payload := map[string]string{"hello": "world"}

	WriteJSON(w, http.StatusOK, payload)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "world", body["hello"])
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusBadRequest, "something went wrong")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "something went wrong", body["error"])
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	WriteSuccess(w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true}`, w.Body.String())
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "invalid tenant",
			err:        &core.InvalidTenantError{ID: "abc"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid Tenant UUID: abc",
		},
		{
			name:       "invalid schedule",
			err:        &core.InvalidScheduleError{ID: "def"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid Schedule UUID: def",
		},
		{
			name:       "invalid params",
			err:        &core.InvalidParamsError{Reason: "universe u1 not found"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "universe u1 not found",
		},
		{
			name:       "internal error is not exposed",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			WriteServiceError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body["error"])
		})
	}
}
