package workflow

import (
	"github.com/google/uuid"
	"go.temporal.io/sdk/workflow"
)

// Signal and query names forming the wire contract between the bridge and
// FulfillmentWorkflow.
const (
	QueryActiveTask    = "active-task"
	SignalCompleteTask = "complete-task"
)

type FulfillmentInput struct {
	OrderID   string
	Variables map[string]interface{}
}

// ActiveTaskState is the query answer: the pending task, or Done once the
// process has ended.
type ActiveTaskState struct {
	TaskID            string
	TaskDefinitionKey string
	Done              bool
}

// TaskCompletion is the signal payload completing the pending task. An empty
// TaskID completes whatever task is pending; a non-empty TaskID must match
// the pending task, otherwise the completion is ignored (single-use handles).
type TaskCompletion struct {
	TaskID    string
	Variables map[string]interface{}
}

// FulfillmentWorkflow is the order fulfillment process: a sequence of
// pending tasks advanced by completion signals, with the routing decisions
// (stock short, cancellation, delivery failure) encoded in the completion
// variables. One execution per order, workflow id derived from the order id.
func FulfillmentWorkflow(ctx workflow.Context, input FulfillmentInput) error {
	logger := workflow.GetLogger(ctx)

	state := ActiveTaskState{
		TaskID:            newTaskID(ctx),
		TaskDefinitionKey: TaskConfirmation,
	}

	if err := workflow.SetQueryHandler(ctx, QueryActiveTask, func() (ActiveTaskState, error) {
		return state, nil
	}); err != nil {
		return err
	}

	completions := workflow.GetSignalChannel(ctx, SignalCompleteTask)

	for {
		var completion TaskCompletion
		for {
			completions.Receive(ctx, &completion)
			if completion.TaskID == "" || completion.TaskID == state.TaskID {
				break
			}
			logger.Info("ignoring completion for stale task",
				"orderID", input.OrderID,
				"signaledTaskID", completion.TaskID,
				"pendingTaskID", state.TaskID)
		}

		next, active := nextTaskKey(state.TaskDefinitionKey, completion.Variables)
		if !active {
			logger.Info("fulfillment process finished",
				"orderID", input.OrderID,
				"lastTask", state.TaskDefinitionKey)
			state = ActiveTaskState{Done: true}
			return nil
		}

		logger.Info("fulfillment process advanced",
			"orderID", input.OrderID,
			"task", next)
		state = ActiveTaskState{
			TaskID:            newTaskID(ctx),
			TaskDefinitionKey: next,
		}
	}
}

// newTaskID generates a task id outside workflow-deterministic code.
func newTaskID(ctx workflow.Context) string {
	var id string
	encoded := workflow.SideEffect(ctx, func(workflow.Context) interface{} {
		return uuid.New().String()
	})
	if err := encoded.Get(&id); err != nil {
		panic(err)
	}
	return id
}
