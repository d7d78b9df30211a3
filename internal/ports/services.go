package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"ride-booking/internal/domain/driver"
)

// ----- DTOs for the booking service -----

// BookRequest is the validated input for booking a ride. The rider is
// referenced either by id or by name; an unknown name is created lazily
// together with a ledger account holding StartingBalance (or the configured
// default). DriverID pins a driver; nil means auto-assign by availability.
type BookRequest struct {
	RiderID               *int64
	RiderName             string
	StartingBalance       *decimal.Decimal
	DriverID              *int64
	PickupLocationID      int64
	DestinationLocationID int64
	RideDate              string // YYYY-MM-DD
	RideTime              string // HH:MM or HH:MM:SS, local clock time
}

// Receipt is the structured success result of a booking.
type Receipt struct {
	RideID          int64           `json:"ride_id"`
	DriverID        int64           `json:"driver_id"`
	DriverName      string          `json:"driver_name"`
	DistanceMiles   decimal.Decimal `json:"distance_miles"`
	Price           decimal.Decimal `json:"price"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	DurationMinutes int             `json:"estimated_minutes"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	Elapsed         time.Duration   `json:"-"`
	ElapsedMillis   int64           `json:"execution_time_ms"`
}

// CreateRiderResult is returned when a rider and their account are created
// explicitly.
type CreateRiderResult struct {
	RiderID   int64           `json:"rider_id"`
	Name      string          `json:"name"`
	AccountID int64           `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// BalanceOp selects the direction of an explicit balance adjustment.
type BalanceOp string

const (
	BalanceAdd    BalanceOp = "add"
	BalanceDeduct BalanceOp = "deduct"
)

// EventPublisher sends a serialized message to a broker exchange. Satisfied
// by the RabbitMQ publisher.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ----- Booking service interface -----

// BookingService is the boundary the transport layer calls into.
type BookingService interface {
	// Book executes the whole booking as one atomic unit of work and
	// returns a receipt, or one of the taxonomy failures with no
	// persistent side effects.
	Book(ctx context.Context, in BookRequest) (Receipt, error)

	// CreateRider creates a rider and their ledger account together.
	CreateRider(ctx context.Context, name string, startingBalance decimal.Decimal) (CreateRiderResult, error)

	// AdjustBalance adds to or deducts from a rider's account, returning
	// the new balance. Deductions below zero are rejected.
	AdjustBalance(ctx context.Context, riderID int64, amount decimal.Decimal, op BalanceOp) (decimal.Decimal, error)

	// SetRouteDistance records or updates the authoritative distance for a
	// location pair.
	SetRouteDistance(ctx context.Context, pickupID, destinationID int64, miles decimal.Decimal) error

	// GetRouteDistance reads the recorded distance for a location pair,
	// failing with ErrRouteNotFound when the pair is absent.
	GetRouteDistance(ctx context.Context, pickupID, destinationID int64) (decimal.Decimal, error)

	// AddAvailabilityWindow registers a weekly availability window for a
	// driver.
	AddAvailabilityWindow(ctx context.Context, driverID int64, dayOfWeek, startHour, endHour int) (*driver.AvailabilityWindow, error)

	// SetWindowActive toggles an availability window.
	SetWindowActive(ctx context.Context, windowID int64, active bool) error

	// ListDriverWindows returns all windows of one driver.
	ListDriverWindows(ctx context.Context, driverID int64) ([]driver.AvailabilityWindow, error)
}

// ReportService serves the read-only reporting queries.
type ReportService interface {
	RideHistory(ctx context.Context) ([]RideHistoryRow, error)
	RiderSpending(ctx context.Context) ([]RiderSpendingRow, error)
	DriverEarnings(ctx context.Context) ([]DriverEarningsRow, error)
	PaymentAudit(ctx context.Context) ([]PaymentAuditRow, error)
}
