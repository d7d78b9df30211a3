package driver

import (
	"errors"
	"strings"
	"time"
)

// Driver is the domain entity corresponding to the `drivers` table.
// A driver owns exactly one ledger account and is credited their share of
// the price on every completed booking.
type Driver struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

var ErrNameRequired = errors.New("driver name is required")

// New validates and builds a driver that has not been persisted yet.
func New(name string) (*Driver, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return &Driver{Name: name}, nil
}
