package activity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB defines the database operations used by activity structs.
// *pgxpool.Pool satisfies this interface.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PlatformDB contains activities that read from the platform database.
type PlatformDB struct {
	db DB
}

// NewPlatformDB creates a new PlatformDB activity struct.
func NewPlatformDB(db DB) *PlatformDB {
	return &PlatformDB{db: db}
}

// GetBackupTarget resolves the universe and storage config a backup task
// points at. Both were validated at schedule creation; a miss here means
// the resource was removed since, and the workflow fails.
func (a *PlatformDB) GetBackupTarget(ctx context.Context, params BackupTaskParams) (*BackupTarget, error) {
	var target BackupTarget

	err := a.db.QueryRow(ctx,
		`SELECT id, tenant_id, name, status, created_at, updated_at
		 FROM universes WHERE id = $1`, params.UniverseUUID,
	).Scan(&target.Universe.ID, &target.Universe.TenantID, &target.Universe.Name,
		&target.Universe.Status, &target.Universe.CreatedAt, &target.Universe.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get universe %s: %w", params.UniverseUUID, err)
	}

	err = a.db.QueryRow(ctx,
		`SELECT id, tenant_id, name, s3_bucket, s3_region, created_at, updated_at
		 FROM storage_configs WHERE id = $1`, params.StorageConfigUUID,
	).Scan(&target.Config.ID, &target.Config.TenantID, &target.Config.Name,
		&target.Config.S3Bucket, &target.Config.S3Region, &target.Config.CreatedAt, &target.Config.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get storage config %s: %w", params.StorageConfigUUID, err)
	}

	if target.Universe.TenantID != target.Config.TenantID {
		return nil, fmt.Errorf("universe %s and storage config %s belong to different tenants",
			params.UniverseUUID, params.StorageConfigUUID)
	}

	return &target, nil
}
