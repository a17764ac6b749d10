package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/banben/yugabyte-db/internal/model"
)

// ExecutionService is the execution ledger: one row per dispatch attempt,
// append-only, resolved exactly once. The partial unique index on pending
// rows backs the one-in-flight-dispatch invariant at the storage level.
type ExecutionService struct {
	db DB
}

func NewExecutionService(db DB) *ExecutionService {
	return &ExecutionService{db: db}
}

// RecordDispatch inserts a new Pending record and advances the schedule's
// due time from one boundary to the next in a single statement. The two
// writes commit or fail together; a schedule can never end up with a
// recorded dispatch whose boundary was not advanced. The advance carries
// the same compare-and-set as AdvanceNextTaskTime, so a concurrent delete
// drops it and the method reports false.
//
// Unique violations are split by constraint: the pending partial index
// means another dispatch is in flight (DispatchConflictError), the handle
// key means this exact boundary was already recorded (DuplicateHandleError).
func (s *ExecutionService) RecordDispatch(ctx context.Context, rec *model.Execution, from, to time.Time) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`WITH recorded AS (
		     INSERT INTO executions (id, schedule_id, task_handle, dispatched_at, terminal_status)
		     VALUES ($1, $2, $3, $4, $5)
		 )
		 UPDATE schedules SET next_expected_task_time = $6, updated_at = now()
		 WHERE id = $2 AND status = $7 AND next_expected_task_time = $8`,
		rec.ID, rec.ScheduleID, rec.TaskHandle, rec.DispatchedAt, rec.TerminalStatus,
		to, model.ScheduleStatusActive, from,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "idx_executions_pending" {
				return false, &DispatchConflictError{ScheduleID: rec.ScheduleID}
			}
			return false, &DuplicateHandleError{TaskHandle: rec.TaskHandle}
		}
		return false, fmt.Errorf("record dispatch: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// HasPending reports whether the schedule's most recent dispatch is still in
// flight. This is the scheduler's overlap guard.
func (s *ExecutionService) HasPending(ctx context.Context, scheduleID string) (bool, error) {
	var pending bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM executions WHERE schedule_id = $1 AND terminal_status = $2)`,
		scheduleID, model.ExecutionStatusPending,
	).Scan(&pending)
	if err != nil {
		return false, fmt.Errorf("check pending execution for schedule %s: %w", scheduleID, err)
	}
	return pending, nil
}

// ListPending returns all in-flight records for the reconcile pass.
func (s *ExecutionService) ListPending(ctx context.Context) ([]model.Execution, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, schedule_id, task_handle, dispatched_at, terminal_status, status_message, completed_at
		 FROM executions WHERE terminal_status = $1 ORDER BY dispatched_at, id`,
		model.ExecutionStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending executions: %w", err)
	}
	defer rows.Close()

	return scanExecutions(rows)
}

// Resolve transitions the record for a task handle to a terminal status.
// Idempotent per handle: a record already resolved is left untouched and
// reported as not updated.
func (s *ExecutionService) Resolve(ctx context.Context, taskHandle, terminalStatus string, message *string) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE executions SET terminal_status = $1, status_message = $2, completed_at = now()
		 WHERE task_handle = $3 AND terminal_status = $4`,
		terminalStatus, message, taskHandle, model.ExecutionStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("resolve execution %s: %w", taskHandle, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListBySchedule returns the full dispatch history for a schedule, oldest
// first. Records remain after the schedule itself is soft-deleted.
func (s *ExecutionService) ListBySchedule(ctx context.Context, scheduleID string) ([]model.Execution, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, schedule_id, task_handle, dispatched_at, terminal_status, status_message, completed_at
		 FROM executions WHERE schedule_id = $1 ORDER BY dispatched_at, id`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("list executions for schedule %s: %w", scheduleID, err)
	}
	defer rows.Close()

	return scanExecutions(rows)
}

func scanExecutions(rows pgx.Rows) ([]model.Execution, error) {
	var executions []model.Execution
	for rows.Next() {
		var e model.Execution
		if err := rows.Scan(&e.ID, &e.ScheduleID, &e.TaskHandle, &e.DispatchedAt,
			&e.TerminalStatus, &e.StatusMessage, &e.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan execution: %w", err)
		}
		executions = append(executions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate executions: %w", err)
	}
	return executions, nil
}
