package contracts

import "time"

// Envelope adds cross-cutting headers all messages may carry.
type Envelope struct {
	CorrelationID string    `json:"correlation_id,omitempty"` // correlation for tracing across consumers
	Producer      string    `json:"producer,omitempty"`       // producer service name
	SentAt        time.Time `json:"sent_at,omitempty"`        // ISO-8601 send time (UTC)
}
