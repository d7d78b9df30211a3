package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"ride-booking/internal/domain/ledger"
	"ride-booking/internal/ports"
)

// AccountRepo persists ledger accounts and performs the money movement of a
// booking. Every method requires an enclosing unit of work.
type AccountRepo struct{}

// NewAccountRepo constructs a new AccountRepo.
func NewAccountRepo() ports.AccountRepository {
	return &AccountRepo{}
}

// CreateForRider opens the rider's ledger account with the given balance.
func (repo *AccountRepo) CreateForRider(ctx context.Context, riderID int64, openingBalance decimal.Decimal) (*ledger.Account, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if openingBalance.IsNegative() {
		return nil, ledger.ErrNegativeAmount
	}

	out := ledger.Account{
		RiderID: &riderID,
		Kind:    ledger.KindRider,
		Balance: openingBalance,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO ledger_accounts (rider_id, kind, balance)
		VALUES ($1, 'rider', $2)
		RETURNING account_id
	`, riderID, openingBalance).Scan(&out.ID)
	if err != nil {
		return nil, fmt.Errorf("insert ledger account: %w", err)
	}

	return &out, nil
}

// GetForRiderLocked reads the rider's account FOR UPDATE. The row lock is
// held until the enclosing transaction ends, so the funds check and the
// subsequent debit see the same balance. Returns nil when the rider has no
// account.
func (repo *AccountRepo) GetForRiderLocked(ctx context.Context, riderID int64) (*ledger.Account, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	out := ledger.Account{RiderID: &riderID, Kind: ledger.KindRider}
	err = tx.QueryRow(ctx, `
		SELECT account_id, balance
		FROM ledger_accounts
		WHERE rider_id = $1 AND kind = 'rider'
		FOR UPDATE
	`, riderID).Scan(&out.ID, &out.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query rider account: %w", err)
	}

	return &out, nil
}

// Debit subtracts amount only when the balance covers it. The WHERE clause
// makes check and write one atomic statement; the affected-row count reports
// whether the debit happened.
func (repo *AccountRepo) Debit(ctx context.Context, accountID int64, amount decimal.Decimal) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}
	if amount.IsNegative() {
		return false, ledger.ErrNegativeAmount
	}

	tag, err := tx.Exec(ctx, `
		UPDATE ledger_accounts
		SET balance = balance - $1
		WHERE account_id = $2 AND balance >= $1
	`, amount, accountID)
	if err != nil {
		return false, fmt.Errorf("debit account: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Credit adds amount to an account.
func (repo *AccountRepo) Credit(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}
	if amount.IsNegative() {
		return ledger.ErrNegativeAmount
	}

	tag, err := tx.Exec(ctx, `
		UPDATE ledger_accounts
		SET balance = balance + $1
		WHERE account_id = $2
	`, amount, accountID)
	if err != nil {
		return fmt.Errorf("credit account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("credit account: account %d not found", accountID)
	}

	return nil
}

// CreditDriver adds amount to the account owned by the given driver.
func (repo *AccountRepo) CreditDriver(ctx context.Context, driverID int64, amount decimal.Decimal) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}
	if amount.IsNegative() {
		return ledger.ErrNegativeAmount
	}

	tag, err := tx.Exec(ctx, `
		UPDATE ledger_accounts
		SET balance = balance + $1
		WHERE driver_id = $2 AND kind = 'driver'
	`, amount, driverID)
	if err != nil {
		return fmt.Errorf("credit driver account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("credit driver account: driver %d has no ledger account", driverID)
	}

	return nil
}
