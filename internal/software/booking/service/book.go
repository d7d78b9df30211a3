package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"ride-booking/internal/domain/booking"
	"ride-booking/internal/domain/fare"
	"ride-booking/internal/domain/trip"
	"ride-booking/internal/ports"
)

// Book executes the whole booking as one unit of work: resolve the rider and
// their locked account, price the route, pick the driver, move the money, and
// persist the ride with its payment. Any failure rolls everything back.
func (service *bookingService) Book(ctx context.Context, in ports.BookRequest) (ports.Receipt, error) {
	started := time.Now()
	correlationID := generateCorrelationID()
	ctx = service.logger.WithRequestID(ctx, correlationID)

	at, timeOfDay, err := parseSlot(in.RideDate, in.RideTime)
	if err != nil {
		return ports.Receipt{}, err
	}

	var (
		receipt  ports.Receipt
		riderID  int64
		quote    fare.Quote
		earnings decimal.Decimal
	)

	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		// resolve (and maybe create) the rider
		r, err := service.resolveRider(txCtx, in)
		if err != nil {
			return err
		}
		riderID = r.ID

		// lock the rider's account for the rest of the transaction
		account, err := service.accountRepo.GetForRiderLocked(txCtx, r.ID)
		if err != nil {
			return err
		}
		if account == nil {
			return booking.ErrNoAccount
		}

		// price the route
		quote, err = service.quoteRoute(txCtx, in.PickupLocationID, in.DestinationLocationID)
		if err != nil {
			return err
		}

		// pick the driver for the slot
		drv, err := service.resolveDriver(txCtx, in, at, timeOfDay)
		if err != nil {
			return err
		}

		// funds check against the locked balance
		if !account.CanCover(quote.Total) {
			return &booking.InsufficientFundsError{Balance: account.Balance, Required: quote.Total}
		}

		// resolve the date and time dimensions (idempotent upserts)
		dateID, err := service.dimRepo.EnsureDate(txCtx, in.RideDate)
		if err != nil {
			return err
		}
		timeID, err := service.dimRepo.EnsureTime(txCtx, timeOfDay)
		if err != nil {
			return err
		}

		// persist the ride; the driver-slot uniqueness constraint rejects a
		// concurrent booking of the same driver at the same slot here
		ride := &trip.Ride{
			RiderID:               r.ID,
			DriverID:              drv.ID,
			PickupLocationID:      in.PickupLocationID,
			DestinationLocationID: in.DestinationLocationID,
			DateID:                dateID,
			TimeID:                timeID,
			Price:                 quote.Price,
			DurationMinutes:       quote.DurationMinutes,
			Status:                trip.StatusCompleted,
		}
		if err := service.rideRepo.Create(txCtx, ride); err != nil {
			return err
		}

		payment := &trip.Payment{
			RideID:    ride.ID,
			AccountID: account.ID,
			Subtotal:  quote.Price,
			Tax:       quote.Tax,
			Total:     quote.Total,
			Status:    trip.PaymentCompleted,
		}
		if err := service.paymentRepo.Create(txCtx, payment); err != nil {
			return err
		}

		// conditional debit re-checks the balance at write time
		debited, err := service.accountRepo.Debit(txCtx, account.ID, quote.Total)
		if err != nil {
			return err
		}
		if !debited {
			return &booking.InsufficientFundsError{Balance: account.Balance, Required: quote.Total}
		}

		// pay the driver their share
		earnings = service.rates.DriverEarnings(quote.Price)
		if err := service.accountRepo.CreditDriver(txCtx, drv.ID, earnings); err != nil {
			return err
		}

		receipt = ports.Receipt{
			RideID:          ride.ID,
			DriverID:        drv.ID,
			DriverName:      drv.Name,
			DistanceMiles:   quote.DistanceMiles,
			Price:           quote.Price,
			Tax:             quote.Tax,
			Total:           quote.Total,
			DurationMinutes: quote.DurationMinutes,
			BalanceAfter:    account.Balance.Sub(quote.Total),
		}
		return nil
	})
	if err != nil {
		err = booking.WrapStore(err)
		service.logger.Error(ctx, "booking_failed", "Booking transaction rolled back", err, map[string]any{
			"pickup_location_id":      in.PickupLocationID,
			"destination_location_id": in.DestinationLocationID,
			"ride_date":               in.RideDate,
			"ride_time":               in.RideTime,
		})
		if booking.IsBusiness(err) {
			service.publishBookingFailed(ctx, in, correlationID, err)
		}
		return ports.Receipt{}, err
	}

	receipt.Elapsed = time.Since(started)
	receipt.ElapsedMillis = receipt.Elapsed.Milliseconds()

	ctx = service.logger.WithRideID(ctx, receipt.RideID)
	service.logger.Info(ctx, "booking_completed", "Ride booked and paid", map[string]any{
		"rider_id":          riderID,
		"driver_id":         receipt.DriverID,
		"total":             receipt.Total.StringFixed(2),
		"execution_time_ms": receipt.ElapsedMillis,
	})

	service.publishBookingCompleted(ctx, in, correlationID, riderID, receipt, earnings)

	return receipt, nil
}
