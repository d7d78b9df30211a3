package postgres

import (
	"context"
	"fmt"

	"ride-booking/internal/domain/driver"
	"ride-booking/internal/ports"
)

// AvailabilityRepo manages driver availability windows.
type AvailabilityRepo struct{}

// NewAvailabilityRepo constructs a new AvailabilityRepo.
func NewAvailabilityRepo() ports.AvailabilityRepository {
	return &AvailabilityRepo{}
}

// AddWindow inserts a window and fills in its store-generated id.
func (repo *AvailabilityRepo) AddWindow(ctx context.Context, w *driver.AvailabilityWindow) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO driver_availability (driver_id, day_of_week, start_hour, end_hour, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING availability_id
	`, w.DriverID, w.DayOfWeek, w.StartHour, w.EndHour, w.Active).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("insert availability window: %w", err)
	}

	return nil
}

// SetActive toggles a window; false means the window does not exist.
func (repo *AvailabilityRepo) SetActive(ctx context.Context, windowID int64, active bool) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE driver_availability
		SET is_active = $1
		WHERE availability_id = $2
	`, active, windowID)
	if err != nil {
		return false, fmt.Errorf("update availability window: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// ListForDriver returns all windows of one driver, ordered by weekday and
// start hour.
func (repo *AvailabilityRepo) ListForDriver(ctx context.Context, driverID int64) ([]driver.AvailabilityWindow, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT availability_id, driver_id, day_of_week, start_hour, end_hour, is_active
		FROM driver_availability
		WHERE driver_id = $1
		ORDER BY day_of_week, start_hour
	`, driverID)
	if err != nil {
		return nil, fmt.Errorf("query availability windows: %w", err)
	}
	defer rows.Close()

	var out []driver.AvailabilityWindow
	for rows.Next() {
		var w driver.AvailabilityWindow
		if err := rows.Scan(&w.ID, &w.DriverID, &w.DayOfWeek, &w.StartHour, &w.EndHour, &w.Active); err != nil {
			return nil, fmt.Errorf("scan availability window: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}
