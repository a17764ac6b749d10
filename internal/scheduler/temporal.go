package scheduler

import (
	"context"
	"errors"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/banben/yugabyte-db/internal/model"
)

const taskQueue = "platform-tasks"

// workflowNames maps task types to the Temporal workflows the worker registers.
var workflowNames = map[string]string{
	model.TaskTypeBackupUniverse:   "BackupUniverseWorkflow",
	model.TaskTypeMultiTableBackup: "MultiTableBackupWorkflow",
}

// TemporalEngine adapts a Temporal client to the Engine interface. The
// workflow ID embeds the schedule ID and due boundary, so re-submitting
// after a crash lands on the already-running execution instead of starting
// a second one.
type TemporalEngine struct {
	tc temporalclient.Client
}

func NewTemporalEngine(tc temporalclient.Client) *TemporalEngine {
	return &TemporalEngine{tc: tc}
}

func (e *TemporalEngine) Submit(ctx context.Context, d Dispatch) (string, error) {
	name, ok := workflowNames[d.TaskType]
	if !ok {
		return "", fmt.Errorf("%w: no workflow for task type %q", ErrRejectedSubmission, d.TaskType)
	}

	wfID := fmt.Sprintf("schedule-%s-%d", d.ScheduleID, d.Boundary.UnixMilli())
	_, err := e.tc.ExecuteWorkflow(ctx, temporalclient.StartWorkflowOptions{
		ID:        wfID,
		TaskQueue: taskQueue,
	}, name, d.Payload)
	if err != nil {
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &started) {
			// A prior submit for this boundary went through before we
			// recorded it. Reuse the handle.
			return wfID, nil
		}
		return "", fmt.Errorf("%w: %s", ErrRejectedSubmission, err)
	}
	return wfID, nil
}

func (e *TemporalEngine) Status(ctx context.Context, taskHandle string) (string, error) {
	resp, err := e.tc.DescribeWorkflowExecution(ctx, taskHandle, "")
	if err != nil {
		return "", fmt.Errorf("describe workflow %s: %w", taskHandle, err)
	}

	switch resp.GetWorkflowExecutionInfo().GetStatus() {
	case enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING,
		enumspb.WORKFLOW_EXECUTION_STATUS_CONTINUED_AS_NEW:
		return model.ExecutionStatusPending, nil
	case enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED:
		return model.ExecutionStatusSuccess, nil
	case enumspb.WORKFLOW_EXECUTION_STATUS_FAILED,
		enumspb.WORKFLOW_EXECUTION_STATUS_CANCELED,
		enumspb.WORKFLOW_EXECUTION_STATUS_TERMINATED,
		enumspb.WORKFLOW_EXECUTION_STATUS_TIMED_OUT:
		return model.ExecutionStatusFailure, nil
	default:
		return model.ExecutionStatusPending, nil
	}
}
