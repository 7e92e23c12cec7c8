package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

// GetNav returns the active skin's navigation state
func (h *Handlers) GetNav(c *gin.Context) {
	c.JSON(http.StatusOK, h.navBody(h.nav.State()))
}

// ListSkins returns the navigation state of every skin
func (h *Handlers) ListSkins(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"active": h.nav.ActiveSkin(),
		"skins":  h.nav.States(),
	})
}

// GetHome returns the dock and the current home page of the active skin
func (h *Handlers) GetHome(c *gin.Context) {
	state := h.nav.State()
	c.JSON(http.StatusOK, gin.H{
		"state": h.navBody(state),
		"dock":  h.apps.Dock(state.Skin),
		"apps":  h.apps.Page(state.Skin, state.Page, h.store.IsInstalled),
	})
}

// Unlock leaves the lock screen
func (h *Handlers) Unlock(c *gin.Context) {
	c.JSON(http.StatusOK, h.navBody(h.nav.Unlock()))
}

// Lock returns to the lock screen
func (h *Handlers) Lock(c *gin.Context) {
	c.JSON(http.StatusOK, h.navBody(h.nav.Lock()))
}

// Paginate moves the home grid
func (h *Handlers) Paginate(c *gin.Context) {
	var req types.PaginateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.navBody(h.nav.Paginate(req.Delta)))
}

// CloseApp goes home
func (h *Handlers) CloseApp(c *gin.Context) {
	c.JSON(http.StatusOK, h.navBody(h.nav.Close()))
}

// OpenApp opens an app, or goes home for a null app_id. Unknown apps leave
// the screen as it was.
func (h *Handlers) OpenApp(c *gin.Context) {
	var req types.OpenAppRequest
	if !h.bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.navBody(h.nav.OpenSurface(req.AppID)))
}

// SwitchSkin changes the active skin
func (h *Handlers) SwitchSkin(c *gin.Context) {
	skin, ok := types.ParseSkin(c.Param("skin"))
	if !ok {
		h.respondError(c, &types.ValidationError{Field: "skin", Reason: "unknown skin " + c.Param("skin")})
		return
	}
	state, err := h.nav.SwitchSkin(skin)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.navBody(state))
}

func (h *Handlers) navBody(state types.NavigationState) gin.H {
	return gin.H{
		"skin":       state.Skin,
		"mode":       state.Mode(),
		"locked":     state.Locked,
		"page":       state.Page,
		"page_count": state.PageCount,
		"foreground": state.Foreground,
	}
}
