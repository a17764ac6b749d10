package model

import "time"

// Universe is a long-lived managed cluster owned by a tenant. Schedules
// reference universes as the target of their recurring tasks.
type Universe struct {
	ID        string    `json:"universeId"`
	TenantID  string    `json:"tenantId"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	UniverseStatusActive    = "Active"
	UniverseStatusPaused    = "Paused"
	UniverseStatusDestroyed = "Destroyed"
)
