package contracts

// BookingCompleted is published after a booking transaction commits. Amounts
// are decimal strings to keep consumers away from binary floats.
type BookingCompleted struct {
	RideID          int64  `json:"ride_id"`
	RiderID         int64  `json:"rider_id"`
	DriverID        int64  `json:"driver_id"`
	DriverName      string `json:"driver_name"`
	PickupID        int64  `json:"pickup_location_id"`
	DestinationID   int64  `json:"destination_location_id"`
	RideDate        string `json:"ride_date"`
	RideTime        string `json:"ride_time"`
	DistanceMiles   string `json:"distance_miles"`
	Price           string `json:"price"`
	Tax             string `json:"tax"`
	Total           string `json:"total"`
	DriverEarnings  string `json:"driver_earnings"`
	DurationMinutes int    `json:"estimated_minutes"`
	Envelope        `json:"envelope"`
}

// BookingFailed is published when a booking is rejected for a business
// reason. Store-level failures are not broadcast.
type BookingFailed struct {
	Kind          string `json:"kind"` // e.g. "insufficient_funds"
	Reason        string `json:"reason"`
	PickupID      int64  `json:"pickup_location_id"`
	DestinationID int64  `json:"destination_location_id"`
	RideDate      string `json:"ride_date"`
	RideTime      string `json:"ride_time"`
	Envelope      `json:"envelope"`
}
