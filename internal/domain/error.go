package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrConflict           = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidState       = errors.New("payment is not pending")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid executor context")
)

// InsufficientFundsError reports how much the operation needed versus what
// the account held. Amounts are in poisha.
type InsufficientFundsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance: required %d, available %d", e.Required, e.Available)
}

// Is lets callers match with errors.Is(err, ErrInsufficientFunds).
func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }
