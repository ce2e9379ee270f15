package workflow

import (
	"context"
	"errors"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	apperrors "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
)

const workflowIDPrefix = "order-fulfillment-"

// TemporalBridge adapts the Bridge contract onto a Temporal cluster:
// StartProcess starts a FulfillmentWorkflow execution, ActiveTask queries
// its pending task, CompleteTask signals a task completion.
type TemporalBridge struct {
	client    client.Client
	taskQueue string
	logger    *zap.Logger
}

func NewTemporalBridge(c client.Client, taskQueue string, logger *zap.Logger) *TemporalBridge {
	return &TemporalBridge{
		client:    c,
		taskQueue: taskQueue,
		logger:    logger,
	}
}

func workflowID(correlationKey string) string {
	return workflowIDPrefix + correlationKey
}

func (b *TemporalBridge) StartProcess(ctx context.Context, correlationKey string, variables Variables) error {
	options := client.StartWorkflowOptions{
		ID:        workflowID(correlationKey),
		TaskQueue: b.taskQueue,
	}

	input := FulfillmentInput{
		OrderID:   correlationKey,
		Variables: variables,
	}

	_, err := b.client.ExecuteWorkflow(ctx, options, FulfillmentWorkflow, input)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			// Duplicate business key: the order's process already exists.
			return nil
		}
		return apperrors.NewEngineUnavailableError("starting fulfillment process", err)
	}

	b.logger.Info("fulfillment process started",
		zap.String("correlationKey", correlationKey),
		zap.String("workflowId", options.ID))
	return nil
}

func (b *TemporalBridge) ActiveTask(ctx context.Context, correlationKey string) (*TaskHandle, error) {
	response, err := b.client.QueryWorkflow(ctx, workflowID(correlationKey), "", QueryActiveTask)
	if err != nil {
		var notFound *serviceerror.NotFound
		if errors.As(err, &notFound) {
			// No execution for this key: process never started or already
			// purged. The orchestrator treats this as "no pending task".
			return nil, nil
		}
		return nil, apperrors.NewEngineUnavailableError("querying active task", err)
	}

	var state ActiveTaskState
	if err := response.Get(&state); err != nil {
		return nil, apperrors.NewEngineUnavailableError("decoding active task", err)
	}

	if state.Done || state.TaskID == "" {
		return nil, nil
	}

	return &TaskHandle{
		CorrelationKey:    correlationKey,
		ID:                state.TaskID,
		TaskDefinitionKey: state.TaskDefinitionKey,
	}, nil
}

func (b *TemporalBridge) CompleteTask(ctx context.Context, handle TaskHandle, variables Variables) error {
	completion := TaskCompletion{
		TaskID:    handle.ID,
		Variables: variables,
	}

	err := b.client.SignalWorkflow(ctx, workflowID(handle.CorrelationKey), "", SignalCompleteTask, completion)
	if err != nil {
		var notFound *serviceerror.NotFound
		if errors.As(err, &notFound) {
			// Execution already closed; the handle was consumed by an
			// earlier completion. Idempotent no-op.
			return nil
		}
		return apperrors.NewEngineUnavailableError("completing task", err)
	}

	b.logger.Info("task completion signaled",
		zap.String("correlationKey", handle.CorrelationKey),
		zap.String("task", handle.TaskDefinitionKey))
	return nil
}
