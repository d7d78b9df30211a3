package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// ErrorObject is emitted only for error logs.
type ErrorObject struct {
	Msg   string `json:"msg"`
	Stack string `json:"stack"`
}

// LogEntry is the single-line JSON format written to stdout.
type LogEntry struct {
	Timestamp string       `json:"timestamp"`
	Level     string       `json:"level"` // DEBUG | INFO | ERROR
	Service   string       `json:"service"`
	Action    string       `json:"action"`               // event name (e.g., booking_completed)
	Message   string       `json:"message"`              // human-readable description
	Hostname  string       `json:"hostname"`             // service hostname
	RequestID string       `json:"request_id,omitempty"` // correlation ID for tracing
	RideID    int64        `json:"ride_id,omitempty"`    // ride identifier (when applicable)
	Details   any          `json:"details,omitempty"`    // optional extra fields (map or struct)
	Error     *ErrorObject `json:"error,omitempty"`
}

// Logger writes structured single-line JSON log entries.
type Logger struct {
	service  string
	hostname string
	mu       sync.Mutex
}

// New creates a structured logger for the given service.
func New(service string) *Logger {
	hn, err := os.Hostname()
	if err != nil || strings.TrimSpace(hn) == "" {
		hn = "unknown-hostname"
	}
	if strings.TrimSpace(service) == "" {
		service = "unknown-service"
	}
	return &Logger{service: service, hostname: hn}
}

// emit marshals and prints a single JSON line to stdout.
func (l *Logger) emit(e LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, err := json.Marshal(e)
	if err != nil {
		// retry without Details, the usual source of marshal failures
		e.Details = nil
		if b, err = json.Marshal(e); err != nil {
			fmt.Fprintf(os.Stderr, "log marshal failed: %v\n", err)
			return
		}
	}
	fmt.Println(string(b))
}

func (l *Logger) entry(ctx context.Context, level, action, msg string) LogEntry {
	action = strings.TrimSpace(action)
	if action == "" {
		action = "unspecified"
	}
	return LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Service:   l.service,
		Action:    action,
		Message:   strings.TrimSpace(msg),
		Hostname:  l.hostname,
		RequestID: requestID(ctx),
		RideID:    rideID(ctx),
	}
}

// Debug writes a DEBUG line with optional details.
func (l *Logger) Debug(ctx context.Context, action, msg string, details any) {
	e := l.entry(ctx, "DEBUG", action, msg)
	e.Details = details
	l.emit(e)
}

// Info writes an INFO line with optional details.
func (l *Logger) Info(ctx context.Context, action, msg string, details any) {
	e := l.entry(ctx, "INFO", action, msg)
	e.Details = details
	l.emit(e)
}

// Error writes an ERROR line and attaches an error stack trace.
func (l *Logger) Error(ctx context.Context, action, msg string, err error, details any) {
	if err == nil {
		err = fmt.Errorf("unknown error")
	}
	e := l.entry(ctx, "ERROR", action, msg)
	e.Details = details
	e.Error = &ErrorObject{
		Msg:   strings.TrimSpace(err.Error()),
		Stack: string(debug.Stack()),
	}
	l.emit(e)
}

// ----- context helpers -----

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "ridebooking_request_id"
	ctxKeyRideID    ctxKey = "ridebooking_ride_id"
)

// WithRequestID returns a new context carrying request_id.
func (l *Logger) WithRequestID(ctx context.Context, reqID string) context.Context {
	if strings.TrimSpace(reqID) == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyRequestID, reqID)
}

// WithRideID returns a new context carrying ride_id.
func (l *Logger) WithRideID(ctx context.Context, rideID int64) context.Context {
	if rideID <= 0 {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyRideID, rideID)
}

func requestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if s, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return s
	}
	return ""
}

func rideID(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if id, ok := ctx.Value(ctxKeyRideID).(int64); ok {
		return id
	}
	return 0
}
