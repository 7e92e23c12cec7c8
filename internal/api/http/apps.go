package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/router"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

type appView struct {
	types.AppDescriptor
	Installed bool `json:"installed"`
	Visible   bool `json:"visible"`
}

// ListApps lists the catalog with install state and visibility on the active skin
func (h *Handlers) ListApps(c *gin.Context) {
	skin := h.nav.ActiveSkin()
	all := h.apps.All()
	out := make([]appView, 0, len(all))
	for _, d := range all {
		out = append(out, appView{
			AppDescriptor: d,
			Installed:     !d.Installable || h.store.IsInstalled(d.ID),
			Visible:       h.apps.Visible(d.ID, skin, h.store.IsInstalled),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"apps":    out,
		"skin":    skin,
		"pending": h.router.PendingInstalls(),
	})
}

// ListStore lists the apps the app store offers
func (h *Handlers) ListStore(c *gin.Context) {
	offered := h.apps.Installable()
	pending := make(map[string]bool)
	for _, appID := range h.router.PendingInstalls() {
		pending[appID] = true
	}

	out := make([]gin.H, 0, len(offered))
	for _, d := range offered {
		status := "available"
		switch {
		case h.store.IsInstalled(d.ID):
			status = string(router.InstallInstalled)
		case pending[d.ID]:
			status = string(router.InstallPending)
		}
		out = append(out, gin.H{"app": d, "status": status})
	}
	c.JSON(http.StatusOK, gin.H{"apps": out, "count": len(out)})
}

// InstallApp downloads an app from the store
func (h *Handlers) InstallApp(c *gin.Context) {
	appID := c.Param("id")
	status, err := h.router.InstallApp(c.Request.Context(), appID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	code := http.StatusAccepted
	if status == router.InstallInstalled {
		code = http.StatusOK
	}
	c.JSON(code, gin.H{"app_id": appID, "status": status})
}
