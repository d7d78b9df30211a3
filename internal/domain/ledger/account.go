package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Kind distinguishes the two owner types of a ledger account.
type Kind string

const (
	KindRider  Kind = "rider"
	KindDriver Kind = "driver"
)

// Account is a balance-holding record owned by exactly one rider or one
// driver. The balance never goes negative; the booking executor enforces
// this before every debit and the store backs it with a CHECK constraint.
type Account struct {
	ID       int64
	RiderID  *int64
	DriverID *int64
	Kind     Kind
	Balance  decimal.Decimal
}

var (
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrBalanceBelowZero = errors.New("balance cannot go below zero")
)

// CanCover reports whether the balance covers the given amount.
func (a *Account) CanCover(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// Adjusted returns the balance after applying a signed delta, rejecting any
// result below zero.
func (a *Account) Adjusted(delta decimal.Decimal) (decimal.Decimal, error) {
	next := a.Balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, ErrBalanceBelowZero
	}
	return next, nil
}
