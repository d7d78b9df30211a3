package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"ride-booking/internal/general/logger"
	"ride-booking/internal/ports"
)

// ReportHTTPHandler serves the read-only reporting queries over HTTP.
type ReportHTTPHandler struct {
	svc    ports.ReportService
	logger *logger.Logger
}

// NewReportHTTPHandler wires an HTTP handler around the report service.
func NewReportHTTPHandler(svc ports.ReportService, logger *logger.Logger) *ReportHTTPHandler {
	return &ReportHTTPHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the report endpoints on the provided mux.
func (handler *ReportHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /reports/rides", handler.handleRideHistory)
	mux.HandleFunc("GET /reports/rider-spending", handler.handleRiderSpending)
	mux.HandleFunc("GET /reports/driver-earnings", handler.handleDriverEarnings)
	mux.HandleFunc("GET /reports/payments", handler.handlePaymentAudit)
}

// The report endpoints share one shape: run the query with a bound context
// and return the rows as a JSON array.

func (handler *ReportHTTPHandler) handleRideHistory(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)
	handler.report(ctx, w, func(ctx context.Context) (any, error) {
		return handler.svc.RideHistory(ctx)
	})
}

func (handler *ReportHTTPHandler) handleRiderSpending(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)
	handler.report(ctx, w, func(ctx context.Context) (any, error) {
		return handler.svc.RiderSpending(ctx)
	})
}

func (handler *ReportHTTPHandler) handleDriverEarnings(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)
	handler.report(ctx, w, func(ctx context.Context) (any, error) {
		return handler.svc.DriverEarnings(ctx)
	})
}

func (handler *ReportHTTPHandler) handlePaymentAudit(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)
	handler.report(ctx, w, func(ctx context.Context) (any, error) {
		return handler.svc.PaymentAudit(ctx)
	})
}

func (handler *ReportHTTPHandler) report(ctx context.Context, w http.ResponseWriter, query func(context.Context) (any, error)) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := query(ctxWithTimeout)
	if err != nil {
		handler.logger.Error(ctxWithTimeout, "report_query_failed", "Report query failed", err, nil)
		handler.jsonResponse(ctxWithTimeout, w, http.StatusInternalServerError, map[string]string{"error": "report query failed"})
		return
	}
	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, rows)
}

// jsonResponse encodes data to a JSON HTTP response, buffering first so the
// status can still change on encode failure.
func (handler *ReportHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	buf, err := json.Marshal(data)
	if err != nil {
		handler.logger.Error(ctx, "response_encode_failed", "Failed to encode response", err, nil)
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *ReportHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
	reqID := r.Header.Get("X-Request-ID")
	if strings.TrimSpace(reqID) == "" {
		reqID = randID()
	}
	return handler.logger.WithRequestID(ctx, reqID)
}

// randID generates a random 24-char hex string suitable for request IDs.
func randID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
