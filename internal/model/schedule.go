package model

import (
	"encoding/json"
	"time"
)

// Schedule is a tenant-owned recurring-dispatch configuration. Task type,
// params and frequency are immutable after creation; only the due time and
// status change over a schedule's lifetime.
type Schedule struct {
	ID                   string          `json:"scheduleId"`
	TenantID             string          `json:"tenantId"`
	TaskType             string          `json:"taskType"`
	TaskParams           json.RawMessage `json:"taskParams"`
	FrequencyMillis      int64           `json:"frequencyMillis"`
	NextExpectedTaskTime time.Time       `json:"nextExpectedTaskTime"`
	Status               string          `json:"status"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

const (
	ScheduleStatusActive  = "Active"
	ScheduleStatusPaused  = "Paused"
	ScheduleStatusDeleted = "Deleted"
)

// Frequency returns the dispatch interval as a duration.
func (s *Schedule) Frequency() time.Duration {
	return time.Duration(s.FrequencyMillis) * time.Millisecond
}
