package postgres

import (
	"context"
	"fmt"

	"ride-booking/internal/domain/trip"
	"ride-booking/internal/ports"
)

// RideSlotConstraint names the unique constraint that keeps a driver from
// holding two rides in the same (date, time) slot.
const RideSlotConstraint = "rides_driver_slot_key"

// RideRepo persists rides using pgx and plain SQL.
type RideRepo struct{}

// NewRideRepo constructs a new RideRepo.
func NewRideRepo() ports.RideRepository {
	return &RideRepo{}
}

// Create inserts a new ride row and fills in the store-generated id.
// A unique violation on RideSlotConstraint means a concurrent booking won
// the same driver slot.
func (repo *RideRepo) Create(ctx context.Context, r *trip.Ride) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO rides (
			rider_id, driver_id, pickup_location_id, destination_location_id,
			date_id, time_id, price, duration_minutes, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ride_id, created_at
	`,
		r.RiderID,
		r.DriverID,
		r.PickupLocationID,
		r.DestinationLocationID,
		r.DateID,
		r.TimeID,
		r.Price,
		r.DurationMinutes,
		string(r.Status),
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err, RideSlotConstraint) {
			return fmt.Errorf("driver %d already booked at this slot: %w", r.DriverID, err)
		}
		return fmt.Errorf("insert ride: %w", err)
	}

	return nil
}
