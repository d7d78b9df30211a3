package driver

import (
	"errors"
	"time"
)

// AvailabilityWindow marks a driver as bookable on a given weekday between
// start hour (inclusive) and end hour (exclusive). A driver may hold any
// number of windows; only active ones count.
type AvailabilityWindow struct {
	ID        int64
	DriverID  int64
	DayOfWeek int // 0 = Sunday .. 6 = Saturday
	StartHour int // 0..23
	EndHour   int // 1..24, exclusive
	Active    bool
}

var (
	ErrInvalidDay   = errors.New("day of week must be between 0 and 6")
	ErrInvalidHours = errors.New("start hour must be before end hour, within 0..24")
)

// NewWindow validates and builds an active availability window.
func NewWindow(driverID int64, dayOfWeek, startHour, endHour int) (*AvailabilityWindow, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, ErrInvalidDay
	}
	if startHour < 0 || startHour > 23 || endHour < 1 || endHour > 24 || startHour >= endHour {
		return nil, ErrInvalidHours
	}
	return &AvailabilityWindow{
		DriverID:  driverID,
		DayOfWeek: dayOfWeek,
		StartHour: startHour,
		EndHour:   endHour,
		Active:    true,
	}, nil
}

// Covers reports whether the window makes the driver bookable at ts.
func (w *AvailabilityWindow) Covers(ts time.Time) bool {
	if !w.Active {
		return false
	}
	if int(ts.Weekday()) != w.DayOfWeek {
		return false
	}
	h := ts.Hour()
	return w.StartHour <= h && h < w.EndHour
}
