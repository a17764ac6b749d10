package core

import "fmt"

// User-visible error kinds. The messages are part of the API contract and
// are rendered verbatim in 400 responses. A cross-tenant schedule lookup is
// deliberately indistinguishable from a missing schedule.

type InvalidTenantError struct {
	ID string
}

func (e *InvalidTenantError) Error() string {
	return fmt.Sprintf("Invalid Tenant UUID: %s", e.ID)
}

type InvalidScheduleError struct {
	ID string
}

func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("Invalid Schedule UUID: %s", e.ID)
}

type InvalidParamsError struct {
	Reason string
}

func (e *InvalidParamsError) Error() string {
	return e.Reason
}

// DispatchConflictError reports an attempted dispatch while a Pending
// execution record already exists. The overlap guard makes this unreachable
// in normal operation; the scheduler logs and skips it.
type DispatchConflictError struct {
	ScheduleID string
}

func (e *DispatchConflictError) Error() string {
	return fmt.Sprintf("dispatch conflict: schedule %s already has a pending execution", e.ScheduleID)
}

// DuplicateHandleError reports a dispatch whose task handle is already in
// the ledger. Handles are deterministic per schedule and boundary, so this
// means an earlier attempt recorded the same boundary and only the due-time
// advance is still owed.
type DuplicateHandleError struct {
	TaskHandle string
}

func (e *DuplicateHandleError) Error() string {
	return fmt.Sprintf("dispatch already recorded for task handle %s", e.TaskHandle)
}
