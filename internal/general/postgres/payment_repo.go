package postgres

import (
	"context"
	"fmt"

	"ride-booking/internal/domain/trip"
	"ride-booking/internal/ports"
)

// PaymentRepo persists payments using pgx and plain SQL.
type PaymentRepo struct{}

// NewPaymentRepo constructs a new PaymentRepo.
func NewPaymentRepo() ports.PaymentRepository {
	return &PaymentRepo{}
}

// Create inserts a new payment row and fills in the store-generated id.
func (repo *PaymentRepo) Create(ctx context.Context, p *trip.Payment) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO payments (ride_id, account_id, subtotal, tax, total, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING payment_id
	`,
		p.RideID,
		p.AccountID,
		p.Subtotal,
		p.Tax,
		p.Total,
		string(p.Status),
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}
