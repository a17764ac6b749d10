package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/banben/yugabyte-db/internal/model"
	"github.com/banben/yugabyte-db/internal/platform"
)

// ScheduleService owns the Schedule store and the tenant-scoped API over it.
// Schedules are immutable apart from their due time and status: there is no
// update, only delete-and-recreate.
type ScheduleService struct {
	db      DB
	tenants *TenantService
	reg     model.Registry
}

func NewScheduleService(db DB, tenants *TenantService, reg model.Registry) *ScheduleService {
	return &ScheduleService{db: db, tenants: tenants, reg: reg}
}

// Create validates and persists a new Active schedule. The first dispatch is
// due one full frequency after creation.
func (s *ScheduleService) Create(ctx context.Context, tenantID, taskType string, rawParams json.RawMessage, frequencyMillis int64) (*model.Schedule, error) {
	exists, err := s.tenants.Exists(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &InvalidTenantError{ID: tenantID}
	}

	if frequencyMillis <= 0 {
		return nil, &InvalidParamsError{Reason: fmt.Sprintf("frequencyMillis must be positive, got %d", frequencyMillis)}
	}

	params, err := model.ParseTaskParams(taskType, rawParams)
	if err != nil {
		return nil, &InvalidParamsError{Reason: err.Error()}
	}
	if err := params.Validate(ctx, tenantID, s.reg); err != nil {
		return nil, &InvalidParamsError{Reason: err.Error()}
	}

	now := time.Now()
	schedule := &model.Schedule{
		ID:                   platform.NewID(),
		TenantID:             tenantID,
		TaskType:             taskType,
		TaskParams:           rawParams,
		FrequencyMillis:      frequencyMillis,
		NextExpectedTaskTime: now.Add(time.Duration(frequencyMillis) * time.Millisecond),
		Status:               model.ScheduleStatusActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO schedules (id, tenant_id, task_type, task_params, frequency_millis, next_expected_task_time, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schedule.ID, schedule.TenantID, schedule.TaskType, schedule.TaskParams,
		schedule.FrequencyMillis, schedule.NextExpectedTaskTime, schedule.Status,
		schedule.CreatedAt, schedule.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert schedule: %w", err)
	}

	return schedule, nil
}

// ListByTenant returns the tenant's non-deleted schedules in insertion order.
func (s *ScheduleService) ListByTenant(ctx context.Context, tenantID string) ([]model.Schedule, error) {
	exists, err := s.tenants.Exists(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &InvalidTenantError{ID: tenantID}
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, task_type, task_params, frequency_millis, next_expected_task_time, status, created_at, updated_at
		 FROM schedules WHERE tenant_id = $1 AND status <> $2 ORDER BY created_at, id`,
		tenantID, model.ScheduleStatusDeleted)
	if err != nil {
		return nil, fmt.Errorf("list schedules for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	return scanSchedules(rows)
}

// GetOwned looks up a schedule by ID within a tenant, in any status. Used by
// the execution audit listing, which must keep working after soft deletion.
func (s *ScheduleService) GetOwned(ctx context.Context, tenantID, scheduleID string) (*model.Schedule, error) {
	exists, err := s.tenants.Exists(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &InvalidTenantError{ID: tenantID}
	}

	var sch model.Schedule
	err = s.db.QueryRow(ctx,
		`SELECT id, tenant_id, task_type, task_params, frequency_millis, next_expected_task_time, status, created_at, updated_at
		 FROM schedules WHERE id = $1 AND tenant_id = $2`, scheduleID, tenantID,
	).Scan(&sch.ID, &sch.TenantID, &sch.TaskType, &sch.TaskParams, &sch.FrequencyMillis,
		&sch.NextExpectedTaskTime, &sch.Status, &sch.CreatedAt, &sch.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &InvalidScheduleError{ID: scheduleID}
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule %s: %w", scheduleID, err)
	}
	return &sch, nil
}

// Delete soft-deletes a schedule. The ownership and liveness checks happen in
// the same conditional UPDATE, so a cross-tenant ID, a missing ID and an
// already-deleted schedule all fail identically. An in-flight dispatch is
// left to finish; it just isn't followed by another one.
func (s *ScheduleService) Delete(ctx context.Context, tenantID, scheduleID string) error {
	exists, err := s.tenants.Exists(ctx, tenantID)
	if err != nil {
		return err
	}
	if !exists {
		return &InvalidTenantError{ID: tenantID}
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE schedules SET status = $1, updated_at = now()
		 WHERE id = $2 AND tenant_id = $3 AND status <> $1`,
		model.ScheduleStatusDeleted, scheduleID, tenantID,
	)
	if err != nil {
		return fmt.Errorf("delete schedule %s: %w", scheduleID, err)
	}
	if tag.RowsAffected() == 0 {
		return &InvalidScheduleError{ID: scheduleID}
	}
	return nil
}

// ListDue returns Active schedules whose due time has passed, ascending by
// due time. Due order is the only dispatch priority; tenants are not ranked.
func (s *ScheduleService) ListDue(ctx context.Context, now time.Time) ([]model.Schedule, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, task_type, task_params, frequency_millis, next_expected_task_time, status, created_at, updated_at
		 FROM schedules WHERE status = $1 AND next_expected_task_time <= $2
		 ORDER BY next_expected_task_time, id`,
		model.ScheduleStatusActive, now)
	if err != nil {
		return nil, fmt.Errorf("list due schedules: %w", err)
	}
	defer rows.Close()

	return scanSchedules(rows)
}

// AdvanceNextTaskTime moves a schedule's due time from one boundary to the
// next. The compare-and-set on the old boundary and Active status means a
// concurrent delete wins: the advance is dropped instead of resurrecting the
// row. Returns false when the schedule changed underneath us.
func (s *ScheduleService) AdvanceNextTaskTime(ctx context.Context, scheduleID string, from, to time.Time) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE schedules SET next_expected_task_time = $1, updated_at = now()
		 WHERE id = $2 AND status = $3 AND next_expected_task_time = $4`,
		to, scheduleID, model.ScheduleStatusActive, from,
	)
	if err != nil {
		return false, fmt.Errorf("advance schedule %s: %w", scheduleID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanSchedules(rows pgx.Rows) ([]model.Schedule, error) {
	var schedules []model.Schedule
	for rows.Next() {
		var sch model.Schedule
		if err := rows.Scan(&sch.ID, &sch.TenantID, &sch.TaskType, &sch.TaskParams,
			&sch.FrequencyMillis, &sch.NextExpectedTaskTime, &sch.Status,
			&sch.CreatedAt, &sch.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, sch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}
	return schedules, nil
}
