package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type setRouteRequest struct {
	PickupLocationID      int64  `json:"pickup_location_id"`
	DestinationLocationID int64  `json:"destination_location_id"`
	DistanceMiles         string `json:"distance_miles"`
}

// ----- Handler: PUT /routes -----

func (handler *BookingHTTPHandler) handleSetRouteDistance(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req setRouteRequest
	if !handler.decodeJSON(ctx, w, r, &req) {
		return
	}

	if req.PickupLocationID <= 0 || req.DestinationLocationID <= 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "pickup_location_id and destination_location_id are required", nil)
		return
	}
	miles, err := decimal.NewFromString(req.DistanceMiles)
	if err != nil || miles.IsNegative() {
		handler.httpError(ctx, w, http.StatusBadRequest, "distance_miles must be a non-negative decimal string", err)
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := handler.svc.SetRouteDistance(ctxWithTimeout, req.PickupLocationID, req.DestinationLocationID, miles); err != nil {
		handler.bookingError(ctxWithTimeout, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type routeDistanceResponse struct {
	PickupLocationID      int64           `json:"pickup_location_id"`
	DestinationLocationID int64           `json:"destination_location_id"`
	DistanceMiles         decimal.Decimal `json:"distance_miles"`
}

// ----- Handler: GET /routes/{pickup_id}/{destination_id} -----

func (handler *BookingHTTPHandler) handleGetRouteDistance(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	pickupID, err := strconv.ParseInt(r.PathValue("pickup_id"), 10, 64)
	if err != nil || pickupID <= 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "pickup_id must be a positive integer", err)
		return
	}
	destinationID, err := strconv.ParseInt(r.PathValue("destination_id"), 10, 64)
	if err != nil || destinationID <= 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "destination_id must be a positive integer", err)
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	miles, err := handler.svc.GetRouteDistance(ctxWithTimeout, pickupID, destinationID)
	if err != nil {
		handler.bookingError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, routeDistanceResponse{
		PickupLocationID:      pickupID,
		DestinationLocationID: destinationID,
		DistanceMiles:         miles,
	})
}

type addWindowRequest struct {
	DayOfWeek int `json:"day_of_week"` // 0 = Sunday .. 6 = Saturday
	StartHour int `json:"start_hour"`  // inclusive
	EndHour   int `json:"end_hour"`    // exclusive
}

// ----- Handler: POST /drivers/{driver_id}/availability -----

func (handler *BookingHTTPHandler) handleAddWindow(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	driverID, err := strconv.ParseInt(r.PathValue("driver_id"), 10, 64)
	if err != nil || driverID <= 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "driver_id must be a positive integer", err)
		return
	}

	var req addWindowRequest
	if !handler.decodeJSON(ctx, w, r, &req) {
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	window, err := handler.svc.AddAvailabilityWindow(ctxWithTimeout, driverID, req.DayOfWeek, req.StartHour, req.EndHour)
	if err != nil {
		handler.bookingError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, window)
}

// ----- Handler: GET /drivers/{driver_id}/availability -----

func (handler *BookingHTTPHandler) handleListWindows(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	driverID, err := strconv.ParseInt(r.PathValue("driver_id"), 10, 64)
	if err != nil || driverID <= 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "driver_id must be a positive integer", err)
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	windows, err := handler.svc.ListDriverWindows(ctxWithTimeout, driverID)
	if err != nil {
		handler.bookingError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, windows)
}

type setWindowActiveRequest struct {
	Active bool `json:"active"`
}

// ----- Handler: PATCH /availability/{window_id} -----

func (handler *BookingHTTPHandler) handleSetWindowActive(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	windowID, err := strconv.ParseInt(r.PathValue("window_id"), 10, 64)
	if err != nil || windowID <= 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "window_id must be a positive integer", err)
		return
	}

	var req setWindowActiveRequest
	if !handler.decodeJSON(ctx, w, r, &req) {
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := handler.svc.SetWindowActive(ctxWithTimeout, windowID, req.Active); err != nil {
		handler.bookingError(ctxWithTimeout, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
