package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"ride-booking/internal/domain/driver"
	"ride-booking/internal/domain/ledger"
	"ride-booking/internal/domain/rider"
	"ride-booking/internal/domain/trip"
)

// UnitOfWork manages a transaction spanning multiple repository operations.
// Repositories called inside fn share the transaction carried by ctx.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RiderRepository manages rider rows.
type RiderRepository interface {
	GetByID(ctx context.Context, id int64) (*rider.Rider, error)
	// GetOrCreateByName resolves a rider by name, creating the row if
	// absent. The bool reports whether a new rider was created. Must be
	// race-free under concurrent calls with the same name.
	GetOrCreateByName(ctx context.Context, name string) (*rider.Rider, bool, error)
}

// DriverRepository manages driver rows and availability-based lookup.
type DriverRepository interface {
	GetByID(ctx context.Context, id int64) (*driver.Driver, error)
	// FindAvailable returns the lowest-id driver with an active window
	// covering (dayOfWeek, hour) and no existing ride at the exact
	// (date, time) slot, or nil when no driver qualifies.
	FindAvailable(ctx context.Context, dayOfWeek, hour int, date, timeOfDay string) (*driver.Driver, error)
}

// AvailabilityRepository manages driver availability windows.
type AvailabilityRepository interface {
	AddWindow(ctx context.Context, w *driver.AvailabilityWindow) error
	// SetActive toggles a window; false means the window does not exist.
	SetActive(ctx context.Context, windowID int64, active bool) (bool, error)
	ListForDriver(ctx context.Context, driverID int64) ([]driver.AvailabilityWindow, error)
}

// AccountRepository manages ledger accounts and the money movement of a
// booking. Debit is conditional on sufficient balance so the funds check and
// the write cannot race.
type AccountRepository interface {
	CreateForRider(ctx context.Context, riderID int64, openingBalance decimal.Decimal) (*ledger.Account, error)
	// GetForRiderLocked reads the rider's account with a row lock held for
	// the remainder of the enclosing transaction. Returns nil when the
	// rider has no account.
	GetForRiderLocked(ctx context.Context, riderID int64) (*ledger.Account, error)
	// Debit subtracts amount if and only if the balance covers it,
	// reporting whether the debit happened.
	Debit(ctx context.Context, accountID int64, amount decimal.Decimal) (bool, error)
	Credit(ctx context.Context, accountID int64, amount decimal.Decimal) error
	// CreditDriver credits the account owned by the given driver.
	CreditDriver(ctx context.Context, driverID int64, amount decimal.Decimal) error
}

// RouteRepository is the authoritative distance table.
type RouteRepository interface {
	// DistanceBetween returns the recorded distance and whether the pair
	// exists. Absence is a booking failure, never estimated around.
	DistanceBetween(ctx context.Context, pickupID, destinationID int64) (decimal.Decimal, bool, error)
	Upsert(ctx context.Context, pickupID, destinationID int64, miles decimal.Decimal) error
}

// DimensionRepository resolves calendar dates and clock times to their
// surrogate ids, inserting on first use. Both operations are idempotent
// upserts: concurrent calls with the same value yield the same id.
type DimensionRepository interface {
	EnsureDate(ctx context.Context, date string) (int64, error)
	EnsureTime(ctx context.Context, timeOfDay string) (int64, error)
}

// RideRepository persists ride rows.
type RideRepository interface {
	// Create inserts the ride and fills in its store-generated id.
	Create(ctx context.Context, r *trip.Ride) error
}

// PaymentRepository persists payment rows.
type PaymentRepository interface {
	// Create inserts the payment and fills in its store-generated id.
	Create(ctx context.Context, p *trip.Payment) error
}

// ----- Report rows -----

type RideHistoryRow struct {
	RideID     int64           `json:"ride_id"`
	RiderName  string          `json:"rider_name"`
	DriverName string          `json:"driver_name"`
	Price      decimal.Decimal `json:"price"`
	Status     string          `json:"status"`
}

type RiderSpendingRow struct {
	RiderName      string          `json:"rider_name"`
	TotalRides     int64           `json:"total_rides"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

type DriverEarningsRow struct {
	DriverName    string          `json:"driver_name"`
	TotalRides    int64           `json:"total_rides"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
}

type PaymentAuditRow struct {
	PaymentID  int64           `json:"payment_id"`
	RiderName  string          `json:"rider"`
	DriverName string          `json:"driver"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Status     string          `json:"payment_status"`
}

// ReportRepository serves the read-only reporting queries. These run outside
// any unit of work.
type ReportRepository interface {
	RideHistory(ctx context.Context) ([]RideHistoryRow, error)
	RiderSpending(ctx context.Context) ([]RiderSpendingRow, error)
	DriverEarnings(ctx context.Context) ([]DriverEarningsRow, error)
	PaymentAudit(ctx context.Context) ([]PaymentAuditRow, error)
}
