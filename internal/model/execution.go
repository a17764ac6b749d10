package model

import "time"

// Execution is one ledger entry: a single dispatch of a schedule's task and
// its eventual outcome. Records are append-only and outlive schedule deletion.
type Execution struct {
	ID             string     `json:"id"`
	ScheduleID     string     `json:"scheduleId"`
	TaskHandle     string     `json:"taskHandle"`
	DispatchedAt   time.Time  `json:"dispatchedAt"`
	TerminalStatus string     `json:"terminalStatus"`
	StatusMessage  *string    `json:"statusMessage,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

const (
	ExecutionStatusPending = "Pending"
	ExecutionStatusSuccess = "Success"
	ExecutionStatusFailure = "Failure"
)
