package workflow

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/banben/yugabyte-db/internal/activity"
)

// BackupUniverseWorkflow snapshots a universe and ships the archive to the
// tenant's storage config. Keyspace and table in the params narrow the
// backup when set.
func BackupUniverseWorkflow(ctx workflow.Context, params activity.BackupTaskParams) error {
	return runBackup(ctx, params)
}

// MultiTableBackupWorkflow backs up every table in one keyspace. The params
// always carry a keyspace; everything else matches BackupUniverseWorkflow.
func MultiTableBackupWorkflow(ctx workflow.Context, params activity.BackupTaskParams) error {
	if params.Keyspace == "" {
		return temporal.NewNonRetryableApplicationError("keyspace is required", "InvalidParams", nil)
	}
	return runBackup(ctx, params)
}

func runBackup(ctx workflow.Context, params activity.BackupTaskParams) error {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:    3,
			InitialInterval:    1 * time.Second,
			MaximumInterval:    10 * time.Second,
			BackoffCoefficient: 2.0,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	// Resolve the backup target.
	var target activity.BackupTarget
	err := workflow.ExecuteActivity(ctx, "GetBackupTarget", params).Get(ctx, &target)
	if err != nil {
		return err
	}

	// Snapshots can take a long time on a big universe. Heartbeats keep the
	// activity from being considered stuck.
	snapshotCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Hour,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:    2,
			InitialInterval:    10 * time.Second,
			MaximumInterval:    time.Minute,
			BackoffCoefficient: 2.0,
		},
	})

	var snapshot activity.SnapshotResult
	err = workflow.ExecuteActivity(snapshotCtx, "CreateUniverseSnapshot", activity.SnapshotParams{
		UniverseName: target.Universe.Name,
		Keyspace:     params.Keyspace,
		TableName:    params.TableName,
	}).Get(ctx, &snapshot)
	if err != nil {
		return err
	}

	key := backupObjectKey(target.Universe.ID, params.Keyspace, params.TableName, workflow.Now(ctx))

	var upload activity.UploadResult
	err = workflow.ExecuteActivity(snapshotCtx, "UploadSnapshot", activity.UploadSnapshotParams{
		Bucket:      target.Config.S3Bucket,
		Region:      target.Config.S3Region,
		Key:         key,
		ArchivePath: snapshot.ArchivePath,
	}).Get(ctx, &upload)
	if err != nil {
		// Leave the archive in place for inspection; retention on the
		// snapshot dir reclaims it.
		return err
	}

	// Best effort. A leftover archive is reclaimed by dir retention.
	_ = workflow.ExecuteActivity(ctx, "RemoveSnapshot", snapshot.ArchivePath).Get(ctx, nil)

	workflow.GetLogger(ctx).Info("backup uploaded",
		"universe", target.Universe.ID,
		"location", upload.Location,
		"sizeBytes", upload.SizeBytes)

	return nil
}

// backupObjectKey lays out backup objects per universe by timestamp.
func backupObjectKey(universeID, keyspace, table string, now time.Time) string {
	scope := "full"
	if keyspace != "" {
		scope = keyspace
	}
	if table != "" {
		scope += "." + table
	}
	return fmt.Sprintf("backups/%s/%s/%s.tar.gz", universeID, scope, now.UTC().Format("20060102T150405Z"))
}
