package core

import (
	"context"
	"fmt"

	"github.com/banben/yugabyte-db/internal/model"
)

// UniverseService is the resource registry for managed universes.
type UniverseService struct {
	db DB
}

func NewUniverseService(db DB) *UniverseService {
	return &UniverseService{db: db}
}

func (s *UniverseService) Create(ctx context.Context, universe *model.Universe) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO universes (id, tenant_id, name, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		universe.ID, universe.TenantID, universe.Name, universe.Status,
		universe.CreatedAt, universe.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert universe: %w", err)
	}
	return nil
}

func (s *UniverseService) ListByTenant(ctx context.Context, tenantID string) ([]model.Universe, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, name, status, created_at, updated_at
		 FROM universes WHERE tenant_id = $1 ORDER BY created_at, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list universes for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	var universes []model.Universe
	for rows.Next() {
		var u model.Universe
		if err := rows.Scan(&u.ID, &u.TenantID, &u.Name, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan universe: %w", err)
		}
		universes = append(universes, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate universes: %w", err)
	}
	return universes, nil
}

// UniverseOwned implements model.Registry.
func (s *UniverseService) UniverseOwned(ctx context.Context, tenantID, universeID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM universes WHERE id = $1 AND tenant_id = $2)`,
		universeID, tenantID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("resolve universe %s: %w", universeID, err)
	}
	return exists, nil
}
