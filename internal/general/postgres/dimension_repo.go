package postgres

import (
	"context"
	"fmt"

	"ride-booking/internal/ports"
)

// DimensionRepo resolves calendar dates and clock times to their surrogate
// ids. Both lookups are single-statement upserts: the DO UPDATE no-op makes
// RETURNING yield the id whether the row was just inserted or already
// existed, so concurrent callers always converge on one row per value.
type DimensionRepo struct{}

// NewDimensionRepo constructs a new DimensionRepo.
func NewDimensionRepo() ports.DimensionRepository {
	return &DimensionRepo{}
}

// EnsureDate returns the id of the date dimension row for the given
// calendar date, inserting it on first use.
func (repo *DimensionRepo) EnsureDate(ctx context.Context, date string) (int64, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO dates (date_value)
		VALUES ($1::date)
		ON CONFLICT (date_value) DO UPDATE SET date_value = EXCLUDED.date_value
		RETURNING date_id
	`, date).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure date row: %w", err)
	}

	return id, nil
}

// EnsureTime returns the id of the time dimension row for the given clock
// time, inserting it on first use.
func (repo *DimensionRepo) EnsureTime(ctx context.Context, timeOfDay string) (int64, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO times (time_value)
		VALUES ($1::time)
		ON CONFLICT (time_value) DO UPDATE SET time_value = EXCLUDED.time_value
		RETURNING time_id
	`, timeOfDay).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure time row: %w", err)
	}

	return id, nil
}
