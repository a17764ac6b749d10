package model

import "time"

// Tenant is the isolation boundary. Every schedule, universe and storage
// config belongs to exactly one tenant.
type Tenant struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	TenantStatusActive    = "Active"
	TenantStatusSuspended = "Suspended"
)
