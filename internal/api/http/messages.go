package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

type sendToNameRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// ListConversations returns every thread, most recent first
func (h *Handlers) ListConversations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"conversations": h.store.Conversations()})
}

// GetConversation returns one thread
func (h *Handlers) GetConversation(c *gin.Context) {
	contactID := c.Param("contact_id")
	conv, ok := h.store.Conversation(contactID)
	if !ok {
		h.respondError(c, &types.NotFoundError{Kind: "conversation", ID: contactID})
		return
	}
	c.JSON(http.StatusOK, conv)
}

// SendMessage sends a message to a contact. The reply arrives later on the stream.
func (h *Handlers) SendMessage(c *gin.Context) {
	var req types.SendMessageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	msg, err := h.router.SendMessage(c.Request.Context(), c.Param("contact_id"), req.Text, req.ImageRef)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, msg)
}

// SendMessageToName sends a message by contact name, creating the contact if needed
func (h *Handlers) SendMessageToName(c *gin.Context) {
	var req sendToNameRequest
	if !h.bindJSON(c, &req) {
		return
	}
	contact, msg, err := h.router.SendMessageToName(c.Request.Context(), req.Name, req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"contact": contact, "message": msg})
}

// MarkConversationRead clears a thread's unread flag
func (h *Handlers) MarkConversationRead(c *gin.Context) {
	if err := h.router.MarkConversationRead(c.Request.Context(), c.Param("contact_id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ShareItinerary sends an event or a note to a contact
func (h *Handlers) ShareItinerary(c *gin.Context) {
	var req types.ShareItineraryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	msg, err := h.router.ShareItinerary(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
