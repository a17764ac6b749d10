package request

import "encoding/json"

type CreateSchedule struct {
	TaskType        string          `json:"taskType" validate:"required"`
	TaskParams      json.RawMessage `json:"taskParams" validate:"required"`
	FrequencyMillis int64           `json:"frequencyMillis" validate:"required,gt=0"`
}
