package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ride-booking/internal/general/logger"
	"ride-booking/internal/ports"
)

// BookingHTTPHandler adapts HTTP requests to the booking service.
type BookingHTTPHandler struct {
	svc    ports.BookingService
	logger *logger.Logger
}

// NewBookingHTTPHandler wires an HTTP handler around the booking service.
func NewBookingHTTPHandler(svc ports.BookingService, logger *logger.Logger) *BookingHTTPHandler {
	return &BookingHTTPHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts booking endpoints on the provided mux.
func (handler *BookingHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /bookings", handler.handleBook)

	mux.HandleFunc("POST /riders", handler.handleCreateRider)
	mux.HandleFunc("POST /riders/{rider_id}/balance", handler.handleAdjustBalance)

	mux.HandleFunc("PUT /routes", handler.handleSetRouteDistance)
	mux.HandleFunc("GET /routes/{pickup_id}/{destination_id}", handler.handleGetRouteDistance)
	mux.HandleFunc("POST /drivers/{driver_id}/availability", handler.handleAddWindow)
	mux.HandleFunc("GET /drivers/{driver_id}/availability", handler.handleListWindows)
	mux.HandleFunc("PATCH /availability/{window_id}", handler.handleSetWindowActive)

	mux.HandleFunc("GET /health", handler.handleHealth)
}

func (handler *BookingHTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	handler.jsonResponse(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON enforces the content type, bounds the body at 1 MiB, and
// decodes strictly into dst. It writes the error response itself and reports
// whether decoding succeeded.
func (handler *BookingHTTPHandler) decodeJSON(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handler.httpError(ctx, w, http.StatusRequestEntityTooLarge, "request body too large", err)
			return false
		}
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON: "+err.Error(), err)
		return false
	}
	return true
}

// jsonResponse encodes data to a JSON HTTP response, buffering first so the
// status can still change on encode failure.
func (handler *BookingHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	var buf []byte
	var err error

	if data != nil {
		buf, err = json.Marshal(data)
		if err != nil {
			handler.logger.Error(ctx, "response_encode_failed", "Failed to encode response", err, nil)
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
			return
		}
	} else {
		buf = []byte("{}")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

// httpError sends a JSON error response with a message.
func (handler *BookingHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	} else if status == http.StatusBadRequest {
		action = "validation_failed"
	} else if status == http.StatusUnsupportedMediaType {
		action = "unsupported_media_type"
	}
	handler.logger.Error(ctx, action, msg, err, nil)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *BookingHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
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
