package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

// ListMail returns the inbox
func (h *Handlers) ListMail(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"emails": h.store.Emails()})
}

// MarkMailRead marks an email as read
func (h *Handlers) MarkMailRead(c *gin.Context) {
	if err := h.router.MarkEmailRead(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteMail deletes an email
func (h *Handlers) DeleteMail(c *gin.Context) {
	if err := h.router.DeleteEmail(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListEvents returns the calendar
func (h *Handlers) ListEvents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": h.store.CalendarEvents()})
}

// CreateEvent adds a calendar event
func (h *Handlers) CreateEvent(c *gin.Context) {
	var e types.CalendarEvent
	if !h.bindJSON(c, &e) {
		return
	}
	e.ID = ""
	saved, err := h.router.UpsertCalendarEvent(c.Request.Context(), e)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// UpdateEvent edits a calendar event
func (h *Handlers) UpdateEvent(c *gin.Context) {
	var e types.CalendarEvent
	if !h.bindJSON(c, &e) {
		return
	}
	e.ID = c.Param("id")
	saved, err := h.router.UpsertCalendarEvent(c.Request.Context(), e)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// DeleteEvent removes a calendar event
func (h *Handlers) DeleteEvent(c *gin.Context) {
	if err := h.router.DeleteCalendarEvent(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMusic returns the player and library
func (h *Handlers) GetMusic(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"player":  h.store.Player(),
		"library": h.store.Library(),
	})
}

// PlayTrack plays a library track
func (h *Handlers) PlayTrack(c *gin.Context) {
	player, err := h.router.PlayTrack(c.Request.Context(), c.Param("track_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

// TogglePlayback pauses or resumes
func (h *Handlers) TogglePlayback(c *gin.Context) {
	player, err := h.router.TogglePlayback(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}
