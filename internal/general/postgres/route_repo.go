package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"ride-booking/internal/ports"
)

// RouteRepo is the authoritative distance table. There is deliberately no
// estimation fallback: a pair that is not recorded cannot be priced.
type RouteRepo struct{}

// NewRouteRepo constructs a new RouteRepo.
func NewRouteRepo() ports.RouteRepository {
	return &RouteRepo{}
}

// DistanceBetween returns the recorded distance for a location pair and
// whether the pair exists.
func (repo *RouteRepo) DistanceBetween(ctx context.Context, pickupID, destinationID int64) (decimal.Decimal, bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return decimal.Zero, false, err
	}

	var miles decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT distance_miles
		FROM location_distances
		WHERE pickup_location_id = $1 AND destination_location_id = $2
	`, pickupID, destinationID).Scan(&miles)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("query route distance: %w", err)
	}

	return miles, true, nil
}

// Upsert records or overwrites the distance for a pair.
func (repo *RouteRepo) Upsert(ctx context.Context, pickupID, destinationID int64, miles decimal.Decimal) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO location_distances (pickup_location_id, destination_location_id, distance_miles)
		VALUES ($1, $2, $3)
		ON CONFLICT (pickup_location_id, destination_location_id)
		DO UPDATE SET distance_miles = EXCLUDED.distance_miles
	`, pickupID, destinationID, miles)
	if err != nil {
		return fmt.Errorf("upsert route distance: %w", err)
	}

	return nil
}
