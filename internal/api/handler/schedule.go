package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/banben/yugabyte-db/internal/api/request"
	"github.com/banben/yugabyte-db/internal/api/response"
	"github.com/banben/yugabyte-db/internal/core"
	"github.com/banben/yugabyte-db/internal/model"
)

type Schedule struct {
	svc        *core.ScheduleService
	executions *core.ExecutionService
}

func NewSchedule(services *core.Services) *Schedule {
	return &Schedule{svc: services.Schedule, executions: services.Execution}
}

// ListByTenant returns every non-deleted schedule owned by the tenant.
func (h *Schedule) ListByTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	schedules, err := h.svc.ListByTenant(r.Context(), tenantID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if schedules == nil {
		schedules = []model.Schedule{}
	}
	response.WriteJSON(w, http.StatusOK, schedules)
}

// Create registers a recurring task schedule for the tenant. The first
// dispatch happens one full interval after creation.
func (h *Schedule) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	var req request.CreateSchedule
	if err := request.Decode(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	schedule, err := h.svc.Create(r.Context(), tenantID, req.TaskType, req.TaskParams, req.FrequencyMillis)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, schedule)
}

// Delete soft-deletes a schedule. The response body is a bare success
// envelope, and deleting an already deleted schedule is an error.
func (h *Schedule) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	scheduleID := chi.URLParam(r, "scheduleID")

	if err := h.svc.Delete(r.Context(), tenantID, scheduleID); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteSuccess(w)
}

// ListExecutions returns the execution ledger for a schedule, newest first.
func (h *Schedule) ListExecutions(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	scheduleID := chi.URLParam(r, "scheduleID")

	schedule, err := h.svc.GetOwned(r.Context(), tenantID, scheduleID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	executions, err := h.executions.ListBySchedule(r.Context(), schedule.ID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if executions == nil {
		executions = []model.Execution{}
	}
	response.WriteJSON(w, http.StatusOK, executions)
}
