package trip

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status of a ride. This system books rides as already completed; there is
// no cancellation or refund flow.
type Status string

const StatusCompleted Status = "completed"

// Ride is immutable once created. Price and duration come from the fare
// quote; date and time reference the deduplicated dimension tables.
type Ride struct {
	ID                    int64
	RiderID               int64
	DriverID              int64
	PickupLocationID      int64
	DestinationLocationID int64
	DateID                int64
	TimeID                int64
	Price                 decimal.Decimal
	DurationMinutes       int
	Status                Status
	CreatedAt             time.Time
}
