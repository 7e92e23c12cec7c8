package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/navigation"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/registry"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/router"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/store"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	store    *store.Store
	apps     *registry.Registry
	nav      *navigation.Controller
	router   *router.Router
	metrics  *monitoring.Metrics
	log      *logging.Logger
	started  time.Time
	version  string
	genState func() string
}

// NewHandlers creates a new handler set
func NewHandlers(
	st *store.Store,
	apps *registry.Registry,
	nav *navigation.Controller,
	rt *router.Router,
	metrics *monitoring.Metrics,
	logger *logging.Logger,
) *Handlers {
	return &Handlers{
		store:   st,
		apps:    apps,
		nav:     nav,
		router:  rt,
		metrics: metrics,
		log:     logger.Named("api"),
		started: time.Now(),
		version: "0.1.0",
	}
}

// WithGeneratorState reports the generator breaker state on /health
func (h *Handlers) WithGeneratorState(fn func() string) *Handlers {
	h.genState = fn
	return h
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")

	api.GET("/state", h.GetState)
	api.GET("/contacts", h.ListContacts)

	nav := api.Group("/nav")
	nav.GET("", h.GetNav)
	nav.GET("/skins", h.ListSkins)
	nav.GET("/home", h.GetHome)
	nav.POST("/unlock", h.Unlock)
	nav.POST("/lock", h.Lock)
	nav.POST("/paginate", h.Paginate)
	nav.POST("/close", h.CloseApp)
	nav.PUT("/open", h.OpenApp)
	api.PUT("/skin/:skin", h.SwitchSkin)

	messages := api.Group("/messages")
	messages.GET("", h.ListConversations)
	messages.POST("", h.SendMessageToName)
	messages.GET("/:contact_id", h.GetConversation)
	messages.POST("/:contact_id", h.SendMessage)
	messages.POST("/:contact_id/read", h.MarkConversationRead)

	cart := api.Group("/cart")
	cart.GET("", h.GetCart)
	cart.POST("", h.AddToCart)
	cart.POST("/checkout", h.CheckoutAll)
	cart.DELETE("/:id", h.RemoveFromCart)
	cart.POST("/:id/checkout", h.Checkout)

	api.GET("/ledger", h.GetLedger)

	ride := api.Group("/ride")
	ride.GET("", h.GetRide)
	ride.POST("", h.BookRide)
	ride.DELETE("", h.CancelRide)
	ride.POST("/start", h.StartTrip)
	ride.POST("/complete", h.CompleteRide)
	ride.POST("/from-event/:id", h.RideFromEvent)

	apps := api.Group("/apps")
	apps.GET("", h.ListApps)
	apps.GET("/store", h.ListStore)
	apps.POST("/:id/install", h.InstallApp)

	api.POST("/itinerary/share", h.ShareItinerary)

	mail := api.Group("/mail")
	mail.GET("", h.ListMail)
	mail.POST("/:id/read", h.MarkMailRead)
	mail.DELETE("/:id", h.DeleteMail)

	calendar := api.Group("/calendar")
	calendar.GET("", h.ListEvents)
	calendar.POST("", h.CreateEvent)
	calendar.PUT("/:id", h.UpdateEvent)
	calendar.DELETE("/:id", h.DeleteEvent)

	music := api.Group("/music")
	music.GET("", h.GetMusic)
	music.POST("/play/:track_id", h.PlayTrack)
	music.POST("/toggle", h.TogglePlayback)
}

// Root identifies the service
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "PhoneSim shell",
		"version": h.version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":           "healthy",
		"uptime_seconds":   int64(time.Since(h.started).Seconds()),
		"apps":             h.apps.Len(),
		"active_skin":      h.nav.ActiveSkin(),
		"pending_installs": len(h.router.PendingInstalls()),
		"subscribers":      h.store.Bus().Subscribers(),
		"dropped_changes":  h.store.Bus().Dropped(),
		"catalog_frozen":   h.apps.Frozen(),
	}
	if h.genState != nil {
		body["generator"] = h.genState()
	}
	c.JSON(http.StatusOK, body)
}

// GetState returns every collection plus the navigation of every skin
func (h *Handlers) GetState(c *gin.Context) {
	skin := h.nav.ActiveSkin()
	c.JSON(http.StatusOK, gin.H{
		"entities":    h.store.Snapshot(),
		"active_skin": skin,
		"foreground":  h.nav.Foreground(skin),
		"navigation":  h.nav.States(),
	})
}

// ListContacts returns the address book
func (h *Handlers) ListContacts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"contacts": h.store.Contacts()})
}

// respondError maps the error taxonomy onto status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case types.IsValidation(err):
		status = http.StatusBadRequest
	case types.IsNotFound(err), types.IsUnknownApp(err):
		status = http.StatusNotFound
	case types.IsConflict(err):
		status = http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		h.log.Error("Request failed",
			zap.String("request_id", tracing.RequestID(c.Request.Context())),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// bindJSON decodes the body into v, answering 400 on failure
func (h *Handlers) bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		h.respondError(c, &types.ValidationError{Field: "body", Reason: err.Error()})
		return false
	}
	return true
}
