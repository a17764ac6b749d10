package activity

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Snapshot contains activities that produce backup archives on local disk
// by driving the yb_backup tooling.
type Snapshot struct {
	logger  zerolog.Logger
	baseDir string
}

// NewSnapshot creates a new Snapshot activity struct. Archives are written
// under baseDir and cleaned up after upload.
func NewSnapshot(logger zerolog.Logger, baseDir string) *Snapshot {
	return &Snapshot{
		logger:  logger.With().Str("component", "snapshot").Logger(),
		baseDir: baseDir,
	}
}

// CreateUniverseSnapshot snapshots a universe (optionally narrowed to one
// keyspace or table) into a local archive and returns its path and size.
func (a *Snapshot) CreateUniverseSnapshot(ctx context.Context, params SnapshotParams) (*SnapshotResult, error) {
	if err := os.MkdirAll(a.baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	name := params.UniverseName
	if params.Keyspace != "" {
		name += "-" + params.Keyspace
	}
	if params.TableName != "" {
		name += "-" + params.TableName
	}
	archivePath := filepath.Join(a.baseDir, name+".tar.gz")

	args := []string{"--universe", params.UniverseName, "--output", archivePath}
	if params.Keyspace != "" {
		args = append(args, "--keyspace", params.Keyspace)
	}
	if params.TableName != "" {
		args = append(args, "--table", params.TableName)
	}

	a.logger.Info().Str("universe", params.UniverseName).Str("archive", archivePath).Msg("creating snapshot")

	cmd := exec.CommandContext(ctx, "yb_backup", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("yb_backup failed: %w: %s", err, string(output))
	}

	info, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("stat snapshot archive: %w", err)
	}

	return &SnapshotResult{ArchivePath: archivePath, SizeBytes: info.Size()}, nil
}

// RemoveSnapshot deletes a local snapshot archive after upload.
func (a *Snapshot) RemoveSnapshot(ctx context.Context, archivePath string) error {
	if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot archive: %w", err)
	}
	return nil
}
