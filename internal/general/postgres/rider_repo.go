package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ride-booking/internal/domain/rider"
	"ride-booking/internal/ports"
)

// RiderRepo persists riders using pgx and plain SQL.
type RiderRepo struct{}

// NewRiderRepo constructs a new RiderRepo.
func NewRiderRepo() ports.RiderRepository {
	return &RiderRepo{}
}

// GetByID fetches a rider by primary key. Returns nil when absent.
func (repo *RiderRepo) GetByID(ctx context.Context, id int64) (*rider.Rider, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out rider.Rider
	err = tx.QueryRow(ctx, `
		SELECT rider_id, name, created_at
		FROM riders
		WHERE rider_id = $1
	`, id).Scan(&out.ID, &out.Name, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query rider by id: %w", err)
	}

	return &out, nil
}

// GetOrCreateByName resolves a rider by name, inserting the row on first
// use. The unique constraint on riders.name plus ON CONFLICT keeps this
// race-free: concurrent calls with the same name converge on one row.
func (repo *RiderRepo) GetOrCreateByName(ctx context.Context, name string) (*rider.Rider, bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, false, err
	}

	out := rider.Rider{Name: name}
	err = tx.QueryRow(ctx, `
		INSERT INTO riders (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING rider_id, created_at
	`, name).Scan(&out.ID, &out.CreatedAt)
	if err == nil {
		return &out, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("insert rider: %w", err)
	}

	// the row already existed; fetch it
	err = tx.QueryRow(ctx, `
		SELECT rider_id, created_at
		FROM riders
		WHERE name = $1
	`, name).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("query rider by name: %w", err)
	}

	return &out, false, nil
}
