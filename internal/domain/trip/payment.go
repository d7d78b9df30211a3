package trip

import "github.com/shopspring/decimal"

// PaymentStatus of a payment row. Created in the same transaction as its
// ride and never updated afterwards.
type PaymentStatus string

const PaymentCompleted PaymentStatus = "completed"

// Payment is one-to-one with a ride and records what the rider's ledger
// account was charged.
type Payment struct {
	ID        int64
	RideID    int64
	AccountID int64
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	Status    PaymentStatus
}
