package core

import (
	"context"
	"fmt"

	"github.com/banben/yugabyte-db/internal/model"
)

// StorageConfigService manages tenant-owned backup destinations.
type StorageConfigService struct {
	db DB
}

func NewStorageConfigService(db DB) *StorageConfigService {
	return &StorageConfigService{db: db}
}

func (s *StorageConfigService) Create(ctx context.Context, cfg *model.StorageConfig) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO storage_configs (id, tenant_id, name, s3_bucket, s3_region, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		cfg.ID, cfg.TenantID, cfg.Name, cfg.S3Bucket, cfg.S3Region, cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert storage config: %w", err)
	}
	return nil
}

func (s *StorageConfigService) ListByTenant(ctx context.Context, tenantID string) ([]model.StorageConfig, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, name, s3_bucket, s3_region, created_at, updated_at
		 FROM storage_configs WHERE tenant_id = $1 ORDER BY created_at, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list storage configs for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	var configs []model.StorageConfig
	for rows.Next() {
		var c model.StorageConfig
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.S3Bucket, &c.S3Region, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan storage config: %w", err)
		}
		configs = append(configs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate storage configs: %w", err)
	}
	return configs, nil
}

// StorageConfigOwned implements model.Registry.
func (s *StorageConfigService) StorageConfigOwned(ctx context.Context, tenantID, configID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM storage_configs WHERE id = $1 AND tenant_id = $2)`,
		configID, tenantID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("resolve storage config %s: %w", configID, err)
	}
	return exists, nil
}
