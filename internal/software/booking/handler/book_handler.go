package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ride-booking/internal/domain/booking"
	"ride-booking/internal/ports"
)

// --- Request DTO (HTTP boundary) ---

type bookRequest struct {
	RiderID               *int64  `json:"rider_id"`
	RiderName             string  `json:"rider_name"`
	StartingBalance       *string `json:"starting_balance"`
	DriverID              *int64  `json:"driver_id"`
	PickupLocationID      int64   `json:"pickup_location_id"`
	DestinationLocationID int64   `json:"destination_location_id"`
	RideDate              string  `json:"ride_date"` // YYYY-MM-DD
	RideTime              string  `json:"ride_time"` // HH:MM or HH:MM:SS
}

// ----- Handler: POST /bookings -----

func (handler *BookingHTTPHandler) handleBook(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req bookRequest
	if !handler.decodeJSON(ctx, w, r, &req) {
		return
	}

	if req.RiderID == nil && strings.TrimSpace(req.RiderName) == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "rider_id or rider_name is required", nil)
		return
	}
	if req.PickupLocationID <= 0 || req.DestinationLocationID <= 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "pickup_location_id and destination_location_id are required", nil)
		return
	}
	if req.RideDate == "" || req.RideTime == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "ride_date and ride_time are required", nil)
		return
	}

	in := ports.BookRequest{
		RiderID:               req.RiderID,
		RiderName:             strings.TrimSpace(req.RiderName),
		DriverID:              req.DriverID,
		PickupLocationID:      req.PickupLocationID,
		DestinationLocationID: req.DestinationLocationID,
		RideDate:              req.RideDate,
		RideTime:              req.RideTime,
	}
	if req.StartingBalance != nil {
		bal, err := decimal.NewFromString(*req.StartingBalance)
		if err != nil || bal.IsNegative() {
			handler.httpError(ctx, w, http.StatusBadRequest, "starting_balance must be a non-negative decimal string", err)
			return
		}
		in.StartingBalance = &bal
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	receipt, err := handler.svc.Book(ctxWithTimeout, in)
	if err != nil {
		handler.bookingError(ctxWithTimeout, w, err)
		return
	}

	ctxWithTimeout = handler.logger.WithRideID(ctxWithTimeout, receipt.RideID)
	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, receipt)
}

// bookingError maps the booking failure taxonomy onto HTTP statuses.
func (handler *BookingHTTPHandler) bookingError(ctx context.Context, w http.ResponseWriter, err error) {
	var ife *booking.InsufficientFundsError
	var se *booking.StoreError

	switch {
	case errors.As(err, &ife):
		handler.httpError(ctx, w, http.StatusPaymentRequired, ife.Error(), err)
	case errors.Is(err, booking.ErrRiderNotFound),
		errors.Is(err, booking.ErrDriverNotFound),
		errors.Is(err, booking.ErrRouteNotFound),
		errors.Is(err, booking.ErrWindowNotFound),
		errors.Is(err, booking.ErrNoAccount):
		handler.httpError(ctx, w, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, booking.ErrNoDriverAvailable):
		handler.httpError(ctx, w, http.StatusConflict, err.Error(), err)
	case errors.As(err, &se):
		handler.httpError(ctx, w, http.StatusInternalServerError, "store failure", err)
	default:
		handler.httpError(ctx, w, http.StatusBadRequest, err.Error(), err)
	}
}
