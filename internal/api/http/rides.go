package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

type rideFromEventRequest struct {
	Pickup string `json:"pickup"`
}

// GetRide returns the active ride
func (h *Handlers) GetRide(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Ride())
}

// BookRide requests a ride
func (h *Handlers) BookRide(c *gin.Context) {
	var req types.RideRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ride, err := h.router.BookRide(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, ride)
}

// CancelRide cancels the active ride
func (h *Handlers) CancelRide(c *gin.Context) {
	ride, err := h.router.CancelRide(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ride)
}

// StartTrip starts the trip once the driver has arrived
func (h *Handlers) StartTrip(c *gin.Context) {
	ride, err := h.router.StartTrip(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ride)
}

// CompleteRide ends the trip and returns the fare
func (h *Handlers) CompleteRide(c *gin.Context) {
	fare, err := h.router.CompleteRide(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fare)
}

// RideFromEvent books a ride to a calendar event. The body is optional.
func (h *Handlers) RideFromEvent(c *gin.Context) {
	var req rideFromEventRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	ride, err := h.router.ScheduleRideFromCalendar(c.Request.Context(), c.Param("id"), req.Pickup)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"ride": ride, "navigation": h.navBody(h.nav.State())})
}
