package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"ride-booking/internal/ports"
)

// ReportRepo serves the read-only reporting queries straight off the pool;
// they need no unit of work.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepo constructs a ReportRepo bound to the given pool.
func NewReportRepo(pool *pgxpool.Pool) ports.ReportRepository {
	return &ReportRepo{pool: pool}
}

// RideHistory lists every ride with rider and driver names, newest first.
func (repo *ReportRepo) RideHistory(ctx context.Context) ([]ports.RideHistoryRow, error) {
	rows, err := repo.pool.Query(ctx, `
		SELECT r.ride_id, u.name, d.name, r.price, r.status
		FROM rides r
		JOIN riders u ON u.rider_id = r.rider_id
		JOIN drivers d ON d.driver_id = r.driver_id
		ORDER BY r.ride_id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query ride history: %w", err)
	}
	defer rows.Close()

	var out []ports.RideHistoryRow
	for rows.Next() {
		var row ports.RideHistoryRow
		if err := rows.Scan(&row.RideID, &row.RiderName, &row.DriverName, &row.Price, &row.Status); err != nil {
			return nil, fmt.Errorf("scan ride history row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// RiderSpending aggregates per-rider ride counts, amounts paid, and the
// current balance, biggest spenders first.
func (repo *ReportRepo) RiderSpending(ctx context.Context) ([]ports.RiderSpendingRow, error) {
	rows, err := repo.pool.Query(ctx, `
		SELECT u.name,
		       COUNT(r.ride_id),
		       SUM(p.subtotal),
		       SUM(p.tax),
		       SUM(p.total),
		       la.balance
		FROM riders u
		JOIN rides r ON r.rider_id = u.rider_id
		JOIN payments p ON p.ride_id = r.ride_id
		JOIN ledger_accounts la ON la.rider_id = u.rider_id AND la.kind = 'rider'
		GROUP BY u.name, la.balance
		ORDER BY SUM(p.total) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query rider spending: %w", err)
	}
	defer rows.Close()

	var out []ports.RiderSpendingRow
	for rows.Next() {
		var row ports.RiderSpendingRow
		if err := rows.Scan(&row.RiderName, &row.TotalRides, &row.Subtotal, &row.TotalTax, &row.TotalSpent, &row.CurrentBalance); err != nil {
			return nil, fmt.Errorf("scan rider spending row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DriverEarnings aggregates per-driver ride counts and gross price sums.
func (repo *ReportRepo) DriverEarnings(ctx context.Context) ([]ports.DriverEarningsRow, error) {
	rows, err := repo.pool.Query(ctx, `
		SELECT d.name, COUNT(r.ride_id), SUM(r.price)
		FROM drivers d
		JOIN rides r ON r.driver_id = d.driver_id
		GROUP BY d.name
		ORDER BY SUM(r.price) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query driver earnings: %w", err)
	}
	defer rows.Close()

	var out []ports.DriverEarningsRow
	for rows.Next() {
		var row ports.DriverEarningsRow
		if err := rows.Scan(&row.DriverName, &row.TotalRides, &row.TotalEarnings); err != nil {
			return nil, fmt.Errorf("scan driver earnings row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// PaymentAudit lists every payment with the rider charged and the driver
// paid, newest first.
func (repo *ReportRepo) PaymentAudit(ctx context.Context) ([]ports.PaymentAuditRow, error) {
	rows, err := repo.pool.Query(ctx, `
		SELECT p.payment_id, u.name, d.name, p.total, p.status
		FROM payments p
		JOIN rides r ON r.ride_id = p.ride_id
		JOIN riders u ON u.rider_id = r.rider_id
		JOIN drivers d ON d.driver_id = r.driver_id
		ORDER BY p.payment_id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query payment audit: %w", err)
	}
	defer rows.Close()

	var out []ports.PaymentAuditRow
	for rows.Next() {
		var row ports.PaymentAuditRow
		if err := rows.Scan(&row.PaymentID, &row.RiderName, &row.DriverName, &row.AmountPaid, &row.Status); err != nil {
			return nil, fmt.Errorf("scan payment audit row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
