package activity

import "github.com/banben/yugabyte-db/internal/model"

// BackupTaskParams is the dispatch payload of the backup workflows. The
// field names line up with the task params stored on the schedule.
type BackupTaskParams struct {
	UniverseUUID      string `json:"universeUUID"`
	StorageConfigUUID string `json:"storageConfigUUID"`
	Keyspace          string `json:"keyspace,omitempty"`
	TableName         string `json:"tableName,omitempty"`
}

// BackupTarget bundles the resolved universe and storage config a backup
// workflow operates on.
type BackupTarget struct {
	Universe model.Universe
	Config   model.StorageConfig
}

// SnapshotParams holds the parameters for CreateUniverseSnapshot.
type SnapshotParams struct {
	UniverseName string
	Keyspace     string
	TableName    string
}

// SnapshotResult reports where a snapshot archive landed on local disk.
type SnapshotResult struct {
	ArchivePath string
	SizeBytes   int64
}

// UploadSnapshotParams holds the parameters for UploadSnapshot.
type UploadSnapshotParams struct {
	Bucket      string
	Region      string
	Key         string
	ArchivePath string
}

// UploadResult reports the final object location of an uploaded snapshot.
type UploadResult struct {
	Location  string
	SizeBytes int64
}
