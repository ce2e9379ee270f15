package workflow

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InProcEngine runs the fulfillment process in memory, with no external
// engine at all. It satisfies the same Bridge contract as the Temporal
// adapter and backs engine-free deployments and tests.
type InProcEngine struct {
	mu        sync.Mutex
	instances map[string]*processInstance
	logger    *zap.Logger
}

type processInstance struct {
	taskID  string
	taskKey string
	done    bool
}

func NewInProcEngine(logger *zap.Logger) *InProcEngine {
	return &InProcEngine{
		instances: make(map[string]*processInstance),
		logger:    logger,
	}
}

func (e *InProcEngine) StartProcess(ctx context.Context, correlationKey string, variables Variables) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.instances[correlationKey]; exists {
		// Starting an already-started process is a no-op, matching the
		// engine's duplicate-business-key behavior.
		return nil
	}

	e.instances[correlationKey] = &processInstance{
		taskID:  uuid.New().String(),
		taskKey: TaskConfirmation,
	}
	e.logger.Info("process started",
		zap.String("correlationKey", correlationKey),
		zap.String("task", TaskConfirmation))
	return nil
}

func (e *InProcEngine) ActiveTask(ctx context.Context, correlationKey string) (*TaskHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instances[correlationKey]
	if !ok || inst.done {
		return nil, nil
	}

	return &TaskHandle{
		CorrelationKey:    correlationKey,
		ID:                inst.taskID,
		TaskDefinitionKey: inst.taskKey,
	}, nil
}

func (e *InProcEngine) CompleteTask(ctx context.Context, handle TaskHandle, variables Variables) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instances[handle.CorrelationKey]
	if !ok || inst.done {
		return nil
	}
	if handle.ID != inst.taskID {
		// Stale single-use handle: the task was already completed and the
		// process has moved on. Completing it again has no effect.
		e.logger.Debug("ignoring completion of stale task handle",
			zap.String("correlationKey", handle.CorrelationKey),
			zap.String("taskId", handle.ID))
		return nil
	}

	next, active := nextTaskKey(inst.taskKey, variables)
	if !active {
		inst.done = true
		inst.taskID = ""
		inst.taskKey = ""
		e.logger.Info("process finished",
			zap.String("correlationKey", handle.CorrelationKey))
		return nil
	}

	inst.taskKey = next
	inst.taskID = uuid.New().String()
	e.logger.Info("process advanced",
		zap.String("correlationKey", handle.CorrelationKey),
		zap.String("task", next))
	return nil
}
