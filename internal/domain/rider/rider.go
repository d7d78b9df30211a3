package rider

import (
	"errors"
	"strings"
	"time"
)

// Rider is the domain entity corresponding to the `riders` table.
// A rider owns exactly one ledger account, created together with the rider.
type Rider struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

var ErrNameRequired = errors.New("rider name is required")

// New validates and builds a rider that has not been persisted yet (ID is 0
// until the store assigns one).
func New(name string) (*Rider, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return &Rider{Name: name}, nil
}
