package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nfe, ok := err.(*NotFoundError); ok {
		return nfe, true
	}
	return nil, false
}

// InsufficientStockError names the first product whose requested quantity
// exceeds the available stock.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func NewInsufficientStockError(productID string, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID: productID,
		Requested: requested,
		Available: available,
	}
}

func IsInsufficientStockError(err error) (*InsufficientStockError, bool) {
	if ise, ok := err.(*InsufficientStockError); ok {
		return ise, true
	}
	return nil, false
}

type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func IsInvalidTransitionError(err error) (*InvalidTransitionError, bool) {
	if ite, ok := err.(*InvalidTransitionError); ok {
		return ite, true
	}
	return nil, false
}

// AlreadyTerminalError signals a mutation attempt against an order whose
// status is DELIVERED or CANCELLED.
type AlreadyTerminalError struct {
	Status string
}

func (e *AlreadyTerminalError) Error() string {
	return fmt.Sprintf("order is already in terminal status %s", e.Status)
}

func NewAlreadyTerminalError(status string) *AlreadyTerminalError {
	return &AlreadyTerminalError{Status: status}
}

func IsAlreadyTerminalError(err error) (*AlreadyTerminalError, bool) {
	if ate, ok := err.(*AlreadyTerminalError); ok {
		return ate, true
	}
	return nil, false
}

type AlreadyConfirmedError struct {
	Message string
}

func (e *AlreadyConfirmedError) Error() string {
	return e.Message
}

func NewAlreadyConfirmedError(message string) *AlreadyConfirmedError {
	return &AlreadyConfirmedError{Message: message}
}

func IsAlreadyConfirmedError(err error) (*AlreadyConfirmedError, bool) {
	if ace, ok := err.(*AlreadyConfirmedError); ok {
		return ace, true
	}
	return nil, false
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func IsForbiddenError(err error) (*ForbiddenError, bool) {
	if fe, ok := err.(*ForbiddenError); ok {
		return fe, true
	}
	return nil, false
}

// UnsupportedTaskError guards against process definition drift: the engine
// reported a task definition key outside the agreed set.
type UnsupportedTaskError struct {
	TaskDefinitionKey string
}

func (e *UnsupportedTaskError) Error() string {
	return fmt.Sprintf("unsupported task definition key: %s", e.TaskDefinitionKey)
}

func NewUnsupportedTaskError(key string) *UnsupportedTaskError {
	return &UnsupportedTaskError{TaskDefinitionKey: key}
}

func IsUnsupportedTaskError(err error) (*UnsupportedTaskError, bool) {
	if ute, ok := err.(*UnsupportedTaskError); ok {
		return ute, true
	}
	return nil, false
}

// ConcurrentModificationError means the order's persisted status no longer
// matched the expected status at commit time. Callers re-read and retry.
type ConcurrentModificationError struct {
	Message string
}

func (e *ConcurrentModificationError) Error() string {
	return e.Message
}

func NewConcurrentModificationError(message string) *ConcurrentModificationError {
	return &ConcurrentModificationError{Message: message}
}

func IsConcurrentModificationError(err error) (*ConcurrentModificationError, bool) {
	if cme, ok := err.(*ConcurrentModificationError); ok {
		return cme, true
	}
	return nil, false
}

type EngineUnavailableError struct {
	Message string
	Cause   error
}

func (e *EngineUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *EngineUnavailableError) Unwrap() error {
	return e.Cause
}

func NewEngineUnavailableError(message string, cause error) *EngineUnavailableError {
	return &EngineUnavailableError{Message: message, Cause: cause}
}

func IsEngineUnavailableError(err error) (*EngineUnavailableError, bool) {
	if eue, ok := err.(*EngineUnavailableError); ok {
		return eue, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
