package contracts

// Exchanges
const (
	ExchangeBookingTopic = "booking_topic"
)

// Queues
const (
	QueueBookingReceipts = "booking_receipts"
	QueueBookingFailures = "booking_failures"
)

// Routing patterns
const (
	RouteBookingCompleted    = "booking.completed"
	RouteBookingFailedPrefix = "booking.failed." // {kind}
)
