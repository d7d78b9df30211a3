package service

import (
	"context"
	"fmt"
	"time"

	"ride-booking/internal/domain/booking"
	"ride-booking/internal/domain/driver"
	"ride-booking/internal/domain/fare"
	"ride-booking/internal/domain/rider"
	"ride-booking/internal/ports"
)

// parseSlot validates the requested date and clock time and returns the
// combined timestamp plus the time normalized to HH:MM:SS.
func parseSlot(date, timeOfDay string) (time.Time, string, error) {
	if len(timeOfDay) == 5 { // HH:MM
		timeOfDay += ":00"
	}
	at, err := time.Parse("2006-01-02 15:04:05", date+" "+timeOfDay)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %s %s", booking.ErrInvalidSlot, date, timeOfDay)
	}
	return at, timeOfDay, nil
}

// resolveRider finds the rider the request refers to. A rider referenced by
// id must exist; a rider referenced by name is created on first use, together
// with a ledger account holding the requested (or default) starting balance.
func (service *bookingService) resolveRider(ctx context.Context, in ports.BookRequest) (*rider.Rider, error) {
	if in.RiderID != nil {
		r, err := service.riderRepo.GetByID(ctx, *in.RiderID)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, booking.ErrRiderNotFound
		}
		return r, nil
	}

	if _, err := rider.New(in.RiderName); err != nil {
		return nil, err
	}

	r, created, err := service.riderRepo.GetOrCreateByName(ctx, in.RiderName)
	if err != nil {
		return nil, err
	}
	if created {
		opening := service.openingBal
		if in.StartingBalance != nil {
			opening = *in.StartingBalance
		}
		if _, err := service.accountRepo.CreateForRider(ctx, r.ID, opening); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// quoteRoute prices the trip from the authoritative distance table. An
// unrecorded location pair fails the booking; distances are never estimated.
func (service *bookingService) quoteRoute(ctx context.Context, pickupID, destinationID int64) (fare.Quote, error) {
	miles, found, err := service.routeRepo.DistanceBetween(ctx, pickupID, destinationID)
	if err != nil {
		return fare.Quote{}, err
	}
	if !found {
		return fare.Quote{}, booking.ErrRouteNotFound
	}
	return service.rates.QuoteFor(miles)
}

// resolveDriver picks the driver for the slot. A pinned driver must exist;
// otherwise the lowest-id driver with an active window covering the weekday
// and hour, and no ride at the exact slot, wins.
func (service *bookingService) resolveDriver(ctx context.Context, in ports.BookRequest, at time.Time, timeOfDay string) (*driver.Driver, error) {
	if in.DriverID != nil {
		d, err := service.driverRepo.GetByID(ctx, *in.DriverID)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, booking.ErrDriverNotFound
		}
		return d, nil
	}

	d, err := service.driverRepo.FindAvailable(ctx, int(at.Weekday()), at.Hour(), in.RideDate, timeOfDay)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, booking.ErrNoDriverAvailable
	}
	return d, nil
}
