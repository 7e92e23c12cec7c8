package types

import "time"

// RideStatus is the lifecycle tag of the active ride
type RideStatus string

const (
	RideIdle       RideStatus = "idle"
	RideRequesting RideStatus = "requesting"
	RideConfirmed  RideStatus = "confirmed"
	RideArrived    RideStatus = "arrived"
	RideOnTrip     RideStatus = "on_trip"
)

// RideOrigin tells which app started the booking
type RideOrigin string

const (
	OriginRideApp  RideOrigin = "ride_app"
	OriginCalendar RideOrigin = "calendar"
)

// ActiveRide is the one ride record in the system
type ActiveRide struct {
	Status      RideStatus `json:"status"`
	Attempt     uint64     `json:"attempt"` // bumped on every book/cancel, stale tasks compare against it
	Origin      RideOrigin `json:"origin,omitempty"`
	Pickup      string     `json:"pickup,omitempty"`
	Destination string     `json:"destination,omitempty"`
	EventID     string     `json:"event_id,omitempty"`
	Driver      string     `json:"driver,omitempty"`
	Vehicle     string     `json:"vehicle,omitempty"`
	Plate       string     `json:"plate,omitempty"`
	ETAMinutes  int        `json:"eta_minutes,omitempty"`
	RequestedAt time.Time  `json:"requested_at,omitempty"`
}

// Active reports whether a booking is in progress
func (r ActiveRide) Active() bool {
	return r.Status != "" && r.Status != RideIdle
}

// rideTransitions lists the forward edges of the ride lifecycle.
// Every non-idle status may additionally drop back to idle.
var rideTransitions = map[RideStatus]RideStatus{
	RideIdle:       RideRequesting,
	RideRequesting: RideConfirmed,
	RideConfirmed:  RideArrived,
	RideArrived:    RideOnTrip,
	RideOnTrip:     RideIdle,
}

// CanTransition reports whether from -> to is a legal ride transition
func CanTransition(from, to RideStatus) bool {
	if from == "" {
		from = RideIdle
	}
	if to == RideIdle {
		return true
	}
	next, ok := rideTransitions[from]
	return ok && next == to
}

// RideRequest describes a booking
type RideRequest struct {
	Pickup      string     `json:"pickup" validate:"required,max=256"`
	Destination string     `json:"destination" validate:"required,max=256"`
	Origin      RideOrigin `json:"origin,omitempty"`
	EventID     string     `json:"event_id,omitempty"`
}
