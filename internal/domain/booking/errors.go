package booking

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// The failure taxonomy surfaced by the booking service. Every failure is
// terminal for the current call; nothing is retried internally.
var (
	ErrRiderNotFound     = errors.New("rider does not exist")
	ErrNoAccount         = errors.New("rider has no ledger account")
	ErrRouteNotFound     = errors.New("no distance recorded for the selected locations")
	ErrNoDriverAvailable = errors.New("no driver available for the selected date and time")

	// Admin-surface failures.
	ErrDriverNotFound = errors.New("driver does not exist")
	ErrWindowNotFound = errors.New("availability window does not exist")

	// ErrInvalidSlot rejects a malformed ride date or time before any store
	// access happens.
	ErrInvalidSlot = errors.New("ride date or time is malformed")
)

// InsufficientFundsError reports the exact shortfall so the caller can show
// how much the rider is missing.
type InsufficientFundsError struct {
	Balance  decimal.Decimal
	Required decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance $%s, required $%s",
		e.Balance.StringFixed(2), e.Required.StringFixed(2))
}

// StoreError wraps any underlying transactional failure (constraint
// violation, timeout, connection loss). Retrying with the same inputs is the
// caller's decision; the uniqueness constraints reject duplicates.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return "store failure: " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// WrapStore classifies an error: taxonomy errors pass through unchanged,
// anything else becomes a StoreError.
func WrapStore(err error) error {
	if err == nil || IsBusiness(err) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Err: err}
}

// IsBusiness reports whether err belongs to the business-failure taxonomy
// (as opposed to a store-level failure).
func IsBusiness(err error) bool {
	if errors.Is(err, ErrRiderNotFound) ||
		errors.Is(err, ErrNoAccount) ||
		errors.Is(err, ErrRouteNotFound) ||
		errors.Is(err, ErrNoDriverAvailable) ||
		errors.Is(err, ErrDriverNotFound) ||
		errors.Is(err, ErrWindowNotFound) ||
		errors.Is(err, ErrInvalidSlot) {
		return true
	}
	var ife *InsufficientFundsError
	return errors.As(err, &ife)
}
