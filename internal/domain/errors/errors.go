package errors

import (
	"errors"
	"fmt"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInsufficientStock  = errors.New("insufficient stock")
)

// Validation wraps ErrValidation with a caller-facing reason.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// InsufficientStockError carries the shortfall lines of a failed availability
// check or atomic decrement. errors.Is matches it against ErrInsufficientStock.
type InsufficientStockError struct {
	Shortfalls []model.Shortfall
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d item(s)", len(e.Shortfalls))
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
