package model

import (
	"context"
	"encoding/json"
	"fmt"
)

// Supported task types.
const (
	TaskTypeBackupUniverse   = "BackupUniverse"
	TaskTypeMultiTableBackup = "MultiTableBackup"
)

// Registry resolves tenant-scoped resource references during task-params
// validation. Implemented by the core services against the platform DB.
type Registry interface {
	UniverseOwned(ctx context.Context, tenantID, universeID string) (bool, error)
	StorageConfigOwned(ctx context.Context, tenantID, configID string) (bool, error)
}

// TaskParams is the per-task-type payload of a schedule. Each variant
// validates its own references and renders the payload sent to the
// orchestration engine verbatim on every dispatch.
type TaskParams interface {
	TaskType() string
	Validate(ctx context.Context, tenantID string, reg Registry) error
	OrchestrationPayload() map[string]any
}

// ParseTaskParams decodes raw params into the variant for the given task type.
func ParseTaskParams(taskType string, raw json.RawMessage) (TaskParams, error) {
	var params TaskParams
	switch taskType {
	case TaskTypeBackupUniverse:
		params = &BackupUniverseParams{}
	case TaskTypeMultiTableBackup:
		params = &MultiTableBackupParams{}
	default:
		return nil, fmt.Errorf("unknown task type %q", taskType)
	}
	if err := json.Unmarshal(raw, params); err != nil {
		return nil, fmt.Errorf("decode %s params: %w", taskType, err)
	}
	return params, nil
}

// BackupUniverseParams describes a full-universe backup into a tenant
// storage config. Keyspace and table narrow the backup when set.
type BackupUniverseParams struct {
	UniverseUUID      string `json:"universeUUID"`
	StorageConfigUUID string `json:"storageConfigUUID"`
	Keyspace          string `json:"keyspace,omitempty"`
	TableName         string `json:"tableName,omitempty"`
}

func (p *BackupUniverseParams) TaskType() string { return TaskTypeBackupUniverse }

func (p *BackupUniverseParams) Validate(ctx context.Context, tenantID string, reg Registry) error {
	if p.UniverseUUID == "" {
		return fmt.Errorf("universeUUID is required")
	}
	if p.StorageConfigUUID == "" {
		return fmt.Errorf("storageConfigUUID is required")
	}
	return validateBackupTarget(ctx, tenantID, p.UniverseUUID, p.StorageConfigUUID, reg)
}

func (p *BackupUniverseParams) OrchestrationPayload() map[string]any {
	payload := map[string]any{
		"universeUUID":      p.UniverseUUID,
		"storageConfigUUID": p.StorageConfigUUID,
	}
	if p.Keyspace != "" {
		payload["keyspace"] = p.Keyspace
	}
	if p.TableName != "" {
		payload["tableName"] = p.TableName
	}
	return payload
}

// MultiTableBackupParams backs up every table in one keyspace.
type MultiTableBackupParams struct {
	UniverseUUID      string `json:"universeUUID"`
	StorageConfigUUID string `json:"storageConfigUUID"`
	Keyspace          string `json:"keyspace"`
}

func (p *MultiTableBackupParams) TaskType() string { return TaskTypeMultiTableBackup }

func (p *MultiTableBackupParams) Validate(ctx context.Context, tenantID string, reg Registry) error {
	if p.UniverseUUID == "" {
		return fmt.Errorf("universeUUID is required")
	}
	if p.StorageConfigUUID == "" {
		return fmt.Errorf("storageConfigUUID is required")
	}
	if p.Keyspace == "" {
		return fmt.Errorf("keyspace is required")
	}
	return validateBackupTarget(ctx, tenantID, p.UniverseUUID, p.StorageConfigUUID, reg)
}

func (p *MultiTableBackupParams) OrchestrationPayload() map[string]any {
	return map[string]any{
		"universeUUID":      p.UniverseUUID,
		"storageConfigUUID": p.StorageConfigUUID,
		"keyspace":          p.Keyspace,
	}
}

func validateBackupTarget(ctx context.Context, tenantID, universeID, configID string, reg Registry) error {
	owned, err := reg.UniverseOwned(ctx, tenantID, universeID)
	if err != nil {
		return fmt.Errorf("resolve universe %s: %w", universeID, err)
	}
	if !owned {
		return fmt.Errorf("universe %s not found", universeID)
	}
	owned, err = reg.StorageConfigOwned(ctx, tenantID, configID)
	if err != nil {
		return fmt.Errorf("resolve storage config %s: %w", configID, err)
	}
	if !owned {
		return fmt.Errorf("storage config %s not found", configID)
	}
	return nil
}
