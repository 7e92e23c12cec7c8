package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

// GetCart returns the cart
func (h *Handlers) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.store.Cart()})
}

// AddToCart puts a product in the cart
func (h *Handlers) AddToCart(c *gin.Context) {
	var req types.AddToCartRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.router.AddToCart(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// RemoveFromCart drops a cart line
func (h *Handlers) RemoveFromCart(c *gin.Context) {
	if err := h.router.RemoveFromCart(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Checkout buys one cart line
func (h *Handlers) Checkout(c *gin.Context) {
	t, err := h.router.Checkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// CheckoutAll buys the whole cart
func (h *Handlers) CheckoutAll(c *gin.Context) {
	charged, err := h.router.CheckoutAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transactions": charged})
}

// GetLedger returns the wallet's transactions
func (h *Handlers) GetLedger(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"transactions": h.store.Transactions()})
}
