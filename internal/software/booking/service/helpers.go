package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ride-booking/internal/domain/booking"
	"ride-booking/internal/general/contracts"
	"ride-booking/internal/ports"
)

const producerName = "booking-service"

// generateCorrelationID creates a correlation ID for tracing requests.
func generateCorrelationID() string {
	return "req_" + uuid.NewString()
}

// failureKind maps a taxonomy error to the routing-key fragment of its
// failure event.
func failureKind(err error) string {
	var ife *booking.InsufficientFundsError
	switch {
	case errors.Is(err, booking.ErrRiderNotFound):
		return "rider_not_found"
	case errors.Is(err, booking.ErrNoAccount):
		return "no_account"
	case errors.Is(err, booking.ErrRouteNotFound):
		return "route_not_found"
	case errors.Is(err, booking.ErrNoDriverAvailable):
		return "no_driver_available"
	case errors.Is(err, booking.ErrDriverNotFound):
		return "driver_not_found"
	case errors.As(err, &ife):
		return "insufficient_funds"
	default:
		return "rejected"
	}
}

// publishBookingCompleted broadcasts a receipt event after the transaction
// committed. Publishing is best-effort: a broker failure never fails the
// booking.
func (service *bookingService) publishBookingCompleted(ctx context.Context, in ports.BookRequest, correlationID string, riderID int64, receipt ports.Receipt, earnings decimal.Decimal) {
	if service.pub == nil {
		return
	}

	msg := contracts.BookingCompleted{
		RideID:          receipt.RideID,
		RiderID:         riderID,
		DriverID:        receipt.DriverID,
		DriverName:      receipt.DriverName,
		PickupID:        in.PickupLocationID,
		DestinationID:   in.DestinationLocationID,
		RideDate:        in.RideDate,
		RideTime:        in.RideTime,
		DistanceMiles:   receipt.DistanceMiles.String(),
		Price:           receipt.Price.StringFixed(2),
		Tax:             receipt.Tax.StringFixed(2),
		Total:           receipt.Total.StringFixed(2),
		DriverEarnings:  earnings.StringFixed(2),
		DurationMinutes: receipt.DurationMinutes,
		Envelope: contracts.Envelope{
			CorrelationID: correlationID,
			Producer:      producerName,
			SentAt:        time.Now().UTC(),
		},
	}

	body, err := json.Marshal(msg)
	if err == nil {
		err = service.pub.Publish(contracts.ExchangeBookingTopic, contracts.RouteBookingCompleted, body)
	}
	if err != nil {
		service.logger.Error(ctx, "booking_event_publish_failed", "Failed to publish booking.completed", err, map[string]any{
			"ride_id": receipt.RideID,
		})
	}
}

// publishBookingFailed broadcasts a business rejection. Store failures are
// not broadcast.
func (service *bookingService) publishBookingFailed(ctx context.Context, in ports.BookRequest, correlationID string, cause error) {
	if service.pub == nil {
		return
	}

	kind := failureKind(cause)
	msg := contracts.BookingFailed{
		Kind:          kind,
		Reason:        cause.Error(),
		PickupID:      in.PickupLocationID,
		DestinationID: in.DestinationLocationID,
		RideDate:      in.RideDate,
		RideTime:      in.RideTime,
		Envelope: contracts.Envelope{
			CorrelationID: correlationID,
			Producer:      producerName,
			SentAt:        time.Now().UTC(),
		},
	}

	body, err := json.Marshal(msg)
	if err == nil {
		err = service.pub.Publish(contracts.ExchangeBookingTopic, contracts.RouteBookingFailedPrefix+kind, body)
	}
	if err != nil {
		service.logger.Error(ctx, "booking_event_publish_failed", "Failed to publish booking.failed", err, map[string]any{
			"kind": kind,
		})
	}
}
