package scheduler

import (
	"context"
	"errors"
	"time"
)

// ErrRejectedSubmission marks a synchronous refusal by the orchestration
// engine. The scheduler leaves the schedule untouched and retries on the
// next tick.
var ErrRejectedSubmission = errors.New("submission rejected by orchestration engine")

// Dispatch is one unit of work handed to the orchestration engine.
type Dispatch struct {
	ScheduleID string
	TaskType   string
	// Boundary is the due boundary this dispatch covers. It keys the
	// engine-side dedupe so a crashed-and-restarted scheduler cannot run
	// the same cycle twice.
	Boundary time.Time
	Payload  map[string]any
}

// Engine is the scheduler's view of the task orchestration engine: accept a
// submission now, report its terminal outcome later. Status is non-blocking;
// whether the engine pushes completions or must be polled is an adapter
// concern.
type Engine interface {
	Submit(ctx context.Context, d Dispatch) (taskHandle string, err error)
	Status(ctx context.Context, taskHandle string) (string, error)
}
