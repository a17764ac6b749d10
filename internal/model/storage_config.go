package model

import "time"

// StorageConfig is a tenant-owned backup destination: an S3 bucket plus the
// credentials the backup workflows use to write snapshot artifacts.
type StorageConfig struct {
	ID        string    `json:"configId"`
	TenantID  string    `json:"tenantId"`
	Name      string    `json:"name"`
	S3Bucket  string    `json:"s3Bucket"`
	S3Region  string    `json:"s3Region"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
