package fare

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Rates holds the pricing constants of the system. They are fixed per
// deployment (loaded from config), never per ride.
type Rates struct {
	BaseFare        decimal.Decimal // flat component of the price
	PerMileRate     decimal.Decimal // per-mile component
	TaxRate         decimal.Decimal // e.g. 0.0825
	DriverShare     decimal.Decimal // driver's fraction of the price, e.g. 0.80
	AverageSpeedMPH int64           // assumed speed for duration estimates
	MinimumMinutes  int             // floor for duration estimates
}

// Quote is the priced result of a distance lookup: everything the booking
// transaction needs to charge the rider and pay the driver.
type Quote struct {
	DistanceMiles   decimal.Decimal
	Price           decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	DurationMinutes int
}

var (
	ErrNegativeDistance = errors.New("distance must not be negative")
	ErrInvalidRates     = errors.New("rates must be non-negative with a positive speed")
)

// Default returns the rates the original deployment used.
func Default() Rates {
	return Rates{
		BaseFare:        decimal.RequireFromString("3.00"),
		PerMileRate:     decimal.RequireFromString("2.50"),
		TaxRate:         decimal.RequireFromString("0.0825"),
		DriverShare:     decimal.RequireFromString("0.80"),
		AverageSpeedMPH: 30,
		MinimumMinutes:  5,
	}
}

// Validate checks the rates for basic sanity.
func (r Rates) Validate() error {
	if r.BaseFare.IsNegative() || r.PerMileRate.IsNegative() || r.TaxRate.IsNegative() {
		return ErrInvalidRates
	}
	if r.DriverShare.IsNegative() || r.DriverShare.GreaterThan(decimal.NewFromInt(1)) {
		return ErrInvalidRates
	}
	if r.AverageSpeedMPH <= 0 || r.MinimumMinutes < 0 {
		return ErrInvalidRates
	}
	return nil
}

// QuoteFor prices a trip of the given distance. All monetary amounts are
// rounded half-up to cents; the duration estimate is ceil(miles/speed*60)
// floored at MinimumMinutes.
func (r Rates) QuoteFor(distanceMiles decimal.Decimal) (Quote, error) {
	if distanceMiles.IsNegative() {
		return Quote{}, ErrNegativeDistance
	}

	price := r.BaseFare.Add(distanceMiles.Mul(r.PerMileRate)).Round(2)
	tax := price.Mul(r.TaxRate).Round(2)
	total := price.Add(tax)

	minutes := int(distanceMiles.
		Div(decimal.NewFromInt(r.AverageSpeedMPH)).
		Mul(decimal.NewFromInt(60)).
		Ceil().
		IntPart())
	if minutes < r.MinimumMinutes {
		minutes = r.MinimumMinutes
	}

	return Quote{
		DistanceMiles:   distanceMiles,
		Price:           price,
		Tax:             tax,
		Total:           total,
		DurationMinutes: minutes,
	}, nil
}

// DriverEarnings returns the driver's cut of a price, rounded to cents.
func (r Rates) DriverEarnings(price decimal.Decimal) decimal.Decimal {
	return price.Mul(r.DriverShare).Round(2)
}
