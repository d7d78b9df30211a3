package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ride-booking/internal/domain/driver"
	"ride-booking/internal/ports"
)

// DriverRepo persists drivers and serves the availability search.
type DriverRepo struct{}

// NewDriverRepo constructs a new DriverRepo.
func NewDriverRepo() ports.DriverRepository {
	return &DriverRepo{}
}

// GetByID fetches a driver by primary key. Returns nil when absent.
func (repo *DriverRepo) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out driver.Driver
	err = tx.QueryRow(ctx, `
		SELECT driver_id, name, created_at
		FROM drivers
		WHERE driver_id = $1
	`, id).Scan(&out.ID, &out.Name, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query driver by id: %w", err)
	}

	return &out, nil
}

// FindAvailable returns the lowest-id driver holding an active availability
// window that covers (dayOfWeek, hour) and no ride at the exact (date, time)
// slot, or nil when the candidate set is empty. The pre-check alone is not
// race-safe; the rides_driver_slot_key constraint settles concurrent winners.
func (repo *DriverRepo) FindAvailable(ctx context.Context, dayOfWeek, hour int, date, timeOfDay string) (*driver.Driver, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out driver.Driver
	err = tx.QueryRow(ctx, `
		SELECT DISTINCT d.driver_id, d.name, d.created_at
		FROM drivers d
		JOIN driver_availability da ON da.driver_id = d.driver_id
		WHERE da.is_active
		  AND da.day_of_week = $1
		  AND da.start_hour <= $2
		  AND da.end_hour > $2
		  AND NOT EXISTS (
		        SELECT 1
		        FROM rides r
		        JOIN dates dt ON dt.date_id = r.date_id
		        JOIN times tm ON tm.time_id = r.time_id
		        WHERE r.driver_id = d.driver_id
		          AND dt.date_value = $3::date
		          AND tm.time_value = $4::time
		  )
		ORDER BY d.driver_id
		LIMIT 1
	`, dayOfWeek, hour, date, timeOfDay).Scan(&out.ID, &out.Name, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find available driver: %w", err)
	}

	return &out, nil
}
