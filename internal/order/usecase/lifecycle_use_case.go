package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/domain"
	apperrors "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/errors"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/metrics"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/workflow"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type TransitionCommitter interface {
	Commit(ctx context.Context, order *domain.Order, newStatus string) error
}

type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, lines []domain.OrderLine) (bool, error)
}

// LifecycleUseCase is the order lifecycle orchestrator: it validates
// requested transitions against the persisted status, drives the external
// process through the workflow bridge, resolves the actual new status from
// the engine's pending task, and commits it atomically with any stock
// restoration.
type LifecycleUseCase struct {
	orderRepo        OrderRepository
	bridge           workflow.Bridge
	ledger           AvailabilityChecker
	committer        TransitionCommitter
	logger           *zap.Logger
	maxRetryAttempts int
	engineTimeout    time.Duration
}

func NewLifecycleUseCase(
	orderRepo OrderRepository,
	bridge workflow.Bridge,
	ledger AvailabilityChecker,
	committer TransitionCommitter,
	logger *zap.Logger,
	maxRetryAttempts int,
	engineTimeout time.Duration,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		orderRepo:        orderRepo,
		bridge:           bridge,
		ledger:           ledger,
		committer:        committer,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
		engineTimeout:    engineTimeout,
	}
}

// RequestTransition advances the order toward targetStatus. The committed
// status is whatever the engine resolves to, which may be CANCELLED even
// for a forward request (stock short, failed delivery).
func (uc *LifecycleUseCase) RequestTransition(ctx context.Context, orderID, targetStatus string) (*domain.Order, error) {
	if !domain.IsValidStatus(targetStatus) {
		return nil, apperrors.NewValidationError("unknown order status: " + targetStatus)
	}

	return uc.withRetry(ctx, orderID, func(order *domain.Order) (*domain.Order, error) {
		if order.IsTerminal() {
			return nil, apperrors.NewAlreadyTerminalError(order.Status)
		}
		if !order.CanTransition(targetStatus) {
			return nil, apperrors.NewInvalidTransitionError(order.Status, targetStatus)
		}
		return uc.transitionOnce(ctx, order, targetStatus)
	})
}

// Cancel terminates the order. Non-admin callers may only cancel their own
// orders. Cancellation from a terminal status is rejected rather than
// repeated.
func (uc *LifecycleUseCase) Cancel(ctx context.Context, orderID string, caller domain.Caller) (*domain.Order, error) {
	return uc.withRetry(ctx, orderID, func(order *domain.Order) (*domain.Order, error) {
		if !caller.IsAdmin() && !order.IsOwnedBy(caller.UserID) {
			return nil, apperrors.NewForbiddenError("cannot cancel another user's order")
		}
		if order.IsTerminal() {
			return nil, apperrors.NewAlreadyTerminalError(order.Status)
		}
		return uc.transitionOnce(ctx, order, domain.OrderStatusCancelled)
	})
}

// ConfirmDelivery completes the final confirmation task. Only the owning
// user may confirm, only from DELIVERED, and confirming twice reports
// AlreadyConfirmed instead of repeating side effects.
func (uc *LifecycleUseCase) ConfirmDelivery(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsOwnedBy(userID) {
		return nil, apperrors.NewForbiddenError("cannot confirm another user's order")
	}
	if order.Status != domain.OrderStatusDelivered {
		return nil, apperrors.NewInvalidTransitionError(order.Status, domain.OrderStatusDelivered)
	}

	handle, err := uc.activeTask(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if handle == nil {
		return nil, apperrors.NewAlreadyConfirmedError("delivery already confirmed")
	}
	if handle.TaskDefinitionKey != workflow.TaskDeliveryConfirmation {
		return nil, apperrors.NewUnsupportedTaskError(handle.TaskDefinitionKey)
	}

	if err := uc.completeTask(ctx, *handle, nil); err != nil {
		return nil, err
	}

	uc.logger.Info("delivery confirmed",
		zap.String("orderId", order.ID),
		zap.String("userId", userID))
	return order, nil
}

func (uc *LifecycleUseCase) GetOrder(ctx context.Context, orderID string, caller domain.Caller) (*domain.Order, error) {
	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !order.IsOwnedBy(caller.UserID) {
		return nil, apperrors.NewForbiddenError("cannot read another user's order")
	}
	return order, nil
}

func (uc *LifecycleUseCase) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return uc.orderRepo.FindAll(ctx)
}

func (uc *LifecycleUseCase) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return uc.orderRepo.FindByUser(ctx, userID)
}

// transitionOnce performs a single orchestration attempt against an order
// snapshot. Callers have already validated permissions and the requested
// edge.
func (uc *LifecycleUseCase) transitionOnce(ctx context.Context, order *domain.Order, targetStatus string) (*domain.Order, error) {
	handle, err := uc.activeTask(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	if handle == nil {
		return uc.reconcileFinishedProcess(ctx, order)
	}

	variables, err := uc.taskVariables(ctx, order, handle.TaskDefinitionKey, targetStatus)
	if err != nil {
		return nil, err
	}

	if err := uc.completeTask(ctx, *handle, variables); err != nil {
		return nil, err
	}

	resolved, err := uc.resolveStatus(ctx, order.ID, handle.TaskDefinitionKey)
	if err != nil {
		return nil, err
	}

	if resolved != targetStatus {
		uc.logger.Warn("engine resolved transition differently than requested",
			zap.String("orderId", order.ID),
			zap.String("requested", targetStatus),
			zap.String("resolved", resolved))
	}

	if resolved == order.Status {
		return order, nil
	}

	if err := uc.committer.Commit(ctx, order, resolved); err != nil {
		return nil, err
	}
	metrics.Transitions.WithLabelValues(resolved).Inc()

	return uc.applied(order, resolved), nil
}

// reconcileFinishedProcess handles the race where the external process
// finished (or never existed) while the local order is still live: the
// order is force-resolved to CANCELLED with stock restored. The status
// compare-and-swap keeps the restoration at most once. Documented recovery
// behavior, not an error path.
func (uc *LifecycleUseCase) reconcileFinishedProcess(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	uc.logger.Warn("no active task for live order, reconciling to cancelled",
		zap.String("orderId", order.ID),
		zap.String("status", order.Status))

	if err := uc.committer.Commit(ctx, order, domain.OrderStatusCancelled); err != nil {
		return nil, err
	}
	metrics.Reconciliations.Inc()
	metrics.Transitions.WithLabelValues(domain.OrderStatusCancelled).Inc()

	return uc.applied(order, domain.OrderStatusCancelled), nil
}

// taskVariables encodes the transition decision for the engine's gateways.
func (uc *LifecycleUseCase) taskVariables(ctx context.Context, order *domain.Order, taskKey, targetStatus string) (workflow.Variables, error) {
	switch taskKey {
	case workflow.TaskConfirmation:
		if targetStatus == domain.OrderStatusCancelled {
			return workflow.Variables{workflow.VarStockAvailable: false}, nil
		}
		available, err := uc.ledger.CheckAvailability(ctx, order.Lines)
		if err != nil {
			return nil, err
		}
		return workflow.Variables{workflow.VarStockAvailable: available}, nil
	case workflow.TaskPreparation:
		return workflow.Variables{workflow.VarCancelOrder: targetStatus == domain.OrderStatusCancelled}, nil
	case workflow.TaskAwaitDelivery:
		return workflow.Variables{workflow.VarDeliverySuccess: targetStatus == domain.OrderStatusDelivered}, nil
	case workflow.TaskDeliveryConfirmation:
		return nil, nil
	default:
		return nil, apperrors.NewUnsupportedTaskError(taskKey)
	}
}

// resolveStatus re-reads the engine's pending task to learn where the
// process actually went.
func (uc *LifecycleUseCase) resolveStatus(ctx context.Context, orderID, completedTaskKey string) (string, error) {
	handle, err := uc.activeTask(ctx, orderID)
	if err != nil {
		return "", err
	}

	if handle == nil {
		// Process ended. The normal terminus is the delivery confirmation;
		// every other ending is a cancellation branch.
		if completedTaskKey == workflow.TaskDeliveryConfirmation {
			return domain.OrderStatusDelivered, nil
		}
		return domain.OrderStatusCancelled, nil
	}

	return workflow.StatusForTaskKey(handle.TaskDefinitionKey)
}

func (uc *LifecycleUseCase) activeTask(ctx context.Context, orderID string) (*workflow.TaskHandle, error) {
	engineCtx, cancel := context.WithTimeout(ctx, uc.engineTimeout)
	defer cancel()
	return uc.bridge.ActiveTask(engineCtx, orderID)
}

func (uc *LifecycleUseCase) completeTask(ctx context.Context, handle workflow.TaskHandle, variables workflow.Variables) error {
	engineCtx, cancel := context.WithTimeout(ctx, uc.engineTimeout)
	defer cancel()
	return uc.bridge.CompleteTask(engineCtx, handle, variables)
}

func (uc *LifecycleUseCase) applied(order *domain.Order, newStatus string) *domain.Order {
	updated := *order
	updated.Status = newStatus
	if newStatus == domain.OrderStatusDelivered {
		updated.PaymentStatus = domain.PaymentStatusPaid
	}
	return &updated
}

// withRetry re-reads the order and retries the attempt on optimistic-check
// conflicts and MySQL deadlocks, with the usual backoff and jitter. The
// loser of a concurrent transition observes the new state on re-read and
// typically surfaces AlreadyTerminal or InvalidTransition instead.
func (uc *LifecycleUseCase) withRetry(ctx context.Context, orderID string, attempt func(*domain.Order) (*domain.Order, error)) (*domain.Order, error) {
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	var lastErr error
	for i := 1; i <= uc.maxRetryAttempts; i++ {
		order, err := uc.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}

		result, err := attempt(order)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if i < uc.maxRetryAttempts {
			base := backoffs[min(i, len(backoffs))-1]
			jitter := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
			time.Sleep(jitter)
			uc.logger.Warn("transition conflict, retrying",
				zap.String("orderId", orderID),
				zap.Int("attempt", i),
				zap.Int("maxAttempts", uc.maxRetryAttempts),
				zap.Error(err))
		}
	}

	return nil, lastErr
}

func isRetryable(err error) bool {
	if _, ok := apperrors.IsConcurrentModificationError(err); ok {
		return true
	}
	return isDeadlockError(err)
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
