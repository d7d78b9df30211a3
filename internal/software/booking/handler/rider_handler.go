package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ride-booking/internal/ports"
)

type createRiderRequest struct {
	Name            string  `json:"name"`
	StartingBalance *string `json:"starting_balance"`
}

// ----- Handler: POST /riders -----

func (handler *BookingHTTPHandler) handleCreateRider(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req createRiderRequest
	if !handler.decodeJSON(ctx, w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "name is required", nil)
		return
	}

	balance := decimal.Zero
	if req.StartingBalance != nil {
		var err error
		balance, err = decimal.NewFromString(*req.StartingBalance)
		if err != nil || balance.IsNegative() {
			handler.httpError(ctx, w, http.StatusBadRequest, "starting_balance must be a non-negative decimal string", err)
			return
		}
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.CreateRider(ctxWithTimeout, strings.TrimSpace(req.Name), balance)
	if err != nil {
		handler.bookingError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, res)
}

type adjustBalanceRequest struct {
	Amount    string `json:"amount"`
	Operation string `json:"operation"` // add | deduct
}

type adjustBalanceResponse struct {
	RiderID int64           `json:"rider_id"`
	Balance decimal.Decimal `json:"balance"`
}

// ----- Handler: POST /riders/{rider_id}/balance -----

func (handler *BookingHTTPHandler) handleAdjustBalance(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	riderID, err := strconv.ParseInt(r.PathValue("rider_id"), 10, 64)
	if err != nil || riderID <= 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "rider_id must be a positive integer", err)
		return
	}

	var req adjustBalanceRequest
	if !handler.decodeJSON(ctx, w, r, &req) {
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		handler.httpError(ctx, w, http.StatusBadRequest, "amount must be a non-negative decimal string", err)
		return
	}

	op := ports.BalanceOp(strings.ToLower(strings.TrimSpace(req.Operation)))
	if op != ports.BalanceAdd && op != ports.BalanceDeduct {
		handler.httpError(ctx, w, http.StatusBadRequest, "operation must be one of: add, deduct", nil)
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	balance, err := handler.svc.AdjustBalance(ctxWithTimeout, riderID, amount, op)
	if err != nil {
		handler.bookingError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, adjustBalanceResponse{
		RiderID: riderID,
		Balance: balance,
	})
}
