package router

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/store"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/utils"
)

// DefaultPickup is used when a calendar booking names no pickup
const DefaultPickup = "Current location"

const rideMerchant = "Rideshare"

type driverProfile struct {
	name    string
	vehicle string
	plate   string
	eta     int
	fare    decimal.Decimal
}

// drivers are handed out round-robin by attempt
var drivers = []driverProfile{
	{name: "Marcus", vehicle: "Grey Toyota Prius", plate: "7KJD229", eta: 4, fare: decimal.RequireFromString("14.60")},
	{name: "Priya", vehicle: "White Honda Civic", plate: "8XRT501", eta: 6, fare: decimal.RequireFromString("18.25")},
	{name: "Dmitri", vehicle: "Black Tesla Model 3", plate: "6LMN884", eta: 3, fare: decimal.RequireFromString("22.90")},
	{name: "Aiko", vehicle: "Blue Kia Niro", plate: "9PQA317", eta: 5, fare: decimal.RequireFromString("16.40")},
}

func driverFor(attempt uint64) driverProfile {
	return drivers[attempt%uint64(len(drivers))]
}

// BookRide requests a ride. Only one ride can be active; booking over a
// live ride fails with a conflict and leaves it untouched.
func (r *Router) BookRide(ctx context.Context, req types.RideRequest) (types.ActiveRide, error) {
	ride, err := r.bookRide(ctx, req)
	return ride, r.outcome("book_ride", err)
}

// ScheduleRideFromCalendar books a ride to a calendar event's location and
// brings the rideshare app to the front
func (r *Router) ScheduleRideFromCalendar(ctx context.Context, eventID, pickup string) (types.ActiveRide, error) {
	if err := utils.ValidateID(eventID, "event_id", true); err != nil {
		return types.ActiveRide{}, r.outcome("schedule_ride", err)
	}
	if strings.TrimSpace(pickup) == "" {
		pickup = DefaultPickup
	}

	var destination string
	err := r.store.View(func(tx *store.Tx) error {
		event, ok := tx.CalendarEvent(eventID)
		if !ok {
			return &types.NotFoundError{Kind: "calendar event", ID: eventID}
		}
		destination = strings.TrimSpace(event.Location)
		if destination == "" {
			return &types.ValidationError{Field: "location", Reason: "event has no location"}
		}
		return nil
	})
	if err != nil {
		return types.ActiveRide{}, r.outcome("schedule_ride", err)
	}

	ride, err := r.bookRide(ctx, types.RideRequest{
		Pickup:      pickup,
		Destination: destination,
		Origin:      types.OriginCalendar,
		EventID:     eventID,
	})
	if err != nil {
		return types.ActiveRide{}, r.outcome("schedule_ride", err)
	}

	if _, err := r.nav.Open(types.AppRideshare); err != nil {
		r.log.Warn("Could not open rideshare app", zap.Error(err))
	}
	return ride, r.outcome("schedule_ride", nil)
}

func (r *Router) bookRide(ctx context.Context, req types.RideRequest) (types.ActiveRide, error) {
	req.Pickup = strings.TrimSpace(req.Pickup)
	req.Destination = strings.TrimSpace(req.Destination)
	if req.Origin == "" {
		req.Origin = types.OriginRideApp
	}
	if req.Origin != types.OriginRideApp && req.Origin != types.OriginCalendar {
		return types.ActiveRide{}, &types.ValidationError{Field: "origin", Reason: "must be ride_app or calendar"}
	}
	if err := utils.ValidateStruct(req); err != nil {
		return types.ActiveRide{}, err
	}

	var booked types.ActiveRide
	var from types.RideStatus
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		cur := tx.Ride()
		if cur.Active() {
			return types.RideAlreadyActiveError(cur.Status)
		}
		from = cur.Status
		if req.EventID != "" {
			if _, ok := tx.CalendarEvent(req.EventID); !ok {
				return &types.NotFoundError{Kind: "calendar event", ID: req.EventID}
			}
		}

		booked = types.ActiveRide{
			Status:      types.RideRequesting,
			Attempt:     cur.Attempt + 1,
			Origin:      req.Origin,
			Pickup:      req.Pickup,
			Destination: req.Destination,
			EventID:     req.EventID,
			RequestedAt: tx.Now(),
		}
		return tx.SetActiveRide(booked)
	})
	if err != nil {
		return types.ActiveRide{}, err
	}
	r.rideMoved(from, booked.Status)

	attempt := booked.Attempt
	r.spawn("ride_confirm", r.delays.RideConfirm, func(ctx context.Context) {
		r.confirmRide(ctx, attempt)
	})
	return booked, nil
}

// confirmRide assigns a driver if the booking it was scheduled for is
// still waiting, then schedules the arrival
func (r *Router) confirmRide(ctx context.Context, attempt uint64) {
	applied := false
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		ride := tx.Ride()
		if ride.Attempt != attempt || ride.Status != types.RideRequesting {
			return nil
		}
		d := driverFor(attempt)
		ride.Status = types.RideConfirmed
		ride.Driver = d.name
		ride.Vehicle = d.vehicle
		ride.Plate = d.plate
		ride.ETAMinutes = d.eta
		applied = true
		return tx.SetActiveRide(ride)
	})
	if err != nil {
		r.log.Warn("Ride confirmation failed", zap.Uint64("attempt", attempt), zap.Error(err))
		return
	}
	if !applied {
		r.stale("ride_confirm", zap.Uint64("attempt", attempt))
		return
	}
	r.rideMoved(types.RideRequesting, types.RideConfirmed)

	r.spawn("ride_arrival", r.delays.RideArrival, func(ctx context.Context) {
		r.arriveRide(ctx, attempt)
	})
}

func (r *Router) arriveRide(ctx context.Context, attempt uint64) {
	applied := false
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		ride := tx.Ride()
		if ride.Attempt != attempt || ride.Status != types.RideConfirmed {
			return nil
		}
		ride.Status = types.RideArrived
		ride.ETAMinutes = 0
		applied = true
		return tx.SetActiveRide(ride)
	})
	if err != nil {
		r.log.Warn("Ride arrival failed", zap.Uint64("attempt", attempt), zap.Error(err))
		return
	}
	if !applied {
		r.stale("ride_arrival", zap.Uint64("attempt", attempt))
		return
	}
	r.rideMoved(types.RideConfirmed, types.RideArrived)
}

// StartTrip picks the rider up. The driver must have arrived.
func (r *Router) StartTrip(ctx context.Context) (types.ActiveRide, error) {
	var ride types.ActiveRide
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		var err error
		ride, err = tx.AdvanceRide(types.RideArrived, types.RideOnTrip)
		return err
	})
	if err == nil {
		r.rideMoved(types.RideArrived, types.RideOnTrip)
	}
	return ride, r.outcome("start_trip", err)
}

// CompleteRide ends the trip and charges the fare
func (r *Router) CompleteRide(ctx context.Context) (types.Transaction, error) {
	var fare types.Transaction
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		ride := tx.Ride()
		if ride.Status != types.RideOnTrip {
			return &types.ConflictError{Reason: "no trip in progress, ride is " + string(ride.Status)}
		}

		merchant := rideMerchant
		if ride.Driver != "" {
			merchant += " (" + ride.Driver + ")"
		}
		t, err := tx.AppendTransaction(types.Transaction{
			Merchant: merchant,
			Amount:   driverFor(ride.Attempt).fare.Neg(),
			Category: "transport",
		})
		if err != nil {
			return err
		}
		fare = t
		return tx.SetActiveRide(types.ActiveRide{Status: types.RideIdle, Attempt: ride.Attempt + 1})
	})
	if err == nil {
		r.rideMoved(types.RideOnTrip, types.RideIdle)
	}
	return fare, r.outcome("complete_ride", err)
}

// CancelRide drops the active ride. Cancelling with no ride is a no-op.
func (r *Router) CancelRide(ctx context.Context) (types.ActiveRide, error) {
	var ride types.ActiveRide
	var from types.RideStatus
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		cur := tx.Ride()
		from = cur.Status
		if !cur.Active() {
			ride = cur
			return nil
		}
		ride = types.ActiveRide{Status: types.RideIdle, Attempt: cur.Attempt + 1}
		return tx.SetActiveRide(ride)
	})
	if err == nil && from != ride.Status {
		r.rideMoved(from, ride.Status)
	}
	return ride, r.outcome("cancel_ride", err)
}

func (r *Router) rideMoved(from, to types.RideStatus) {
	if from == "" {
		from = types.RideIdle
	}
	r.metrics.RecordRideTransition(string(from), string(to))
	r.log.Debug("Ride status changed", zap.String("from", string(from)), zap.String("to", string(to)))
}
