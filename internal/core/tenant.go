package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/banben/yugabyte-db/internal/model"
)

// TenantService is the tenant registry. Every tenant-scoped operation
// resolves the tenant here before touching anything else.
type TenantService struct {
	db DB
}

func NewTenantService(db DB) *TenantService {
	return &TenantService{db: db}
}

func (s *TenantService) Create(ctx context.Context, tenant *model.Tenant) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO tenants (id, code, name, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		tenant.ID, tenant.Code, tenant.Name, tenant.Status, tenant.CreatedAt, tenant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func (s *TenantService) GetByID(ctx context.Context, id string) (*model.Tenant, error) {
	var t model.Tenant
	err := s.db.QueryRow(ctx,
		`SELECT id, code, name, status, created_at, updated_at FROM tenants WHERE id = $1`, id,
	).Scan(&t.ID, &t.Code, &t.Name, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &InvalidTenantError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant %s: %w", id, err)
	}
	return &t, nil
}

// Exists reports whether the tenant ID resolves to a known tenant.
func (s *TenantService) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tenants WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("resolve tenant %s: %w", id, err)
	}
	return exists, nil
}

func (s *TenantService) List(ctx context.Context) ([]model.Tenant, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, code, name, status, created_at, updated_at FROM tenants ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []model.Tenant
	for rows.Next() {
		var t model.Tenant
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenants: %w", err)
	}
	return tenants, nil
}
