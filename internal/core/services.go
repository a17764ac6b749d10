package core

import (
	"context"
)

// registry composes the resource lookups task params need during validation.
type registry struct {
	universes *UniverseService
	configs   *StorageConfigService
}

func (r registry) UniverseOwned(ctx context.Context, tenantID, universeID string) (bool, error) {
	return r.universes.UniverseOwned(ctx, tenantID, universeID)
}

func (r registry) StorageConfigOwned(ctx context.Context, tenantID, configID string) (bool, error) {
	return r.configs.StorageConfigOwned(ctx, tenantID, configID)
}

type Services struct {
	Tenant        *TenantService
	Universe      *UniverseService
	StorageConfig *StorageConfigService
	Schedule      *ScheduleService
	Execution     *ExecutionService
}

func NewServices(db DB) *Services {
	tenants := NewTenantService(db)
	universes := NewUniverseService(db)
	configs := NewStorageConfigService(db)
	return &Services{
		Tenant:        tenants,
		Universe:      universes,
		StorageConfig: configs,
		Schedule:      NewScheduleService(db, tenants, registry{universes: universes, configs: configs}),
		Execution:     NewExecutionService(db),
	}
}
