package workflow

import (
	"context"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
	apperrors "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
)

// Task definition keys agreed with the deployed fulfillment process. The
// orchestrator refuses to act on anything outside this set.
const (
	TaskConfirmation         = "ConfirmationTask"
	TaskPreparation          = "PreparationTask"
	TaskAwaitDelivery        = "AwaitDeliveryTask"
	TaskDeliveryConfirmation = "DeliveryConfirmationTask"
)

// Variable names carried on task completions. They encode the transition
// decision for the engine's gateways.
const (
	VarOrderID         = "orderId"
	VarStockAvailable  = "stockAvailable"
	VarCancelOrder     = "cancelOrder"
	VarDeliverySuccess = "deliverySuccess"
)

type Variables map[string]interface{}

// TaskHandle is an opaque reference to the single currently-pending task of
// an order's process instance. Handles are single-use: completing an
// already-completed handle is a no-op at the engine.
type TaskHandle struct {
	CorrelationKey    string
	ID                string
	TaskDefinitionKey string
}

// Bridge is the capability set this service consumes from the external
// process engine. Correlation key is the order id as a string.
type Bridge interface {
	StartProcess(ctx context.Context, correlationKey string, variables Variables) error
	// ActiveTask returns nil when the process has no pending task: it
	// finished through some path, or was never started.
	ActiveTask(ctx context.Context, correlationKey string) (*TaskHandle, error)
	CompleteTask(ctx context.Context, handle TaskHandle, variables Variables) error
}

// StatusForTaskKey maps the engine's pending task back to the order status
// it represents.
func StatusForTaskKey(key string) (string, error) {
	switch key {
	case TaskConfirmation:
		return domain.OrderStatusAwaitingConfirmation, nil
	case TaskPreparation:
		return domain.OrderStatusAwaitingPickup, nil
	case TaskAwaitDelivery:
		return domain.OrderStatusAwaitingDelivery, nil
	case TaskDeliveryConfirmation:
		return domain.OrderStatusDelivered, nil
	default:
		return "", apperrors.NewUnsupportedTaskError(key)
	}
}

// nextTaskKey routes the process after a task completes. The second return
// is false when the process ends: either the normal terminus after delivery
// confirmation or one of the cancellation branches.
func nextTaskKey(completed string, vars Variables) (string, bool) {
	switch completed {
	case TaskConfirmation:
		if boolVar(vars, VarStockAvailable) {
			return TaskPreparation, true
		}
		return "", false
	case TaskPreparation:
		if boolVar(vars, VarCancelOrder) {
			return "", false
		}
		return TaskAwaitDelivery, true
	case TaskAwaitDelivery:
		if boolVar(vars, VarDeliverySuccess) {
			return TaskDeliveryConfirmation, true
		}
		return "", false
	default:
		return "", false
	}
}

func boolVar(vars Variables, name string) bool {
	if vars == nil {
		return false
	}
	v, ok := vars[name].(bool)
	return ok && v
}
