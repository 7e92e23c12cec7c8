package router

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/store"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

// InstallStatus reports where an install request ended up
type InstallStatus string

const (
	InstallPending   InstallStatus = "pending"
	InstallInstalled InstallStatus = "installed"
)

// InstallApp starts downloading an app from the store. Asking again while
// the download runs, or after it finished, changes nothing.
func (r *Router) InstallApp(ctx context.Context, appID string) (InstallStatus, error) {
	desc, err := r.catalog.Resolve(appID)
	if err != nil {
		return "", r.outcome("install_app", err)
	}
	if !desc.Installable {
		return "", r.outcome("install_app", &types.ConflictError{Reason: appID + " is built in"})
	}
	if err := ctx.Err(); err != nil {
		return "", r.outcome("install_app", err)
	}
	if r.store.IsInstalled(appID) {
		return InstallInstalled, r.outcome("install_app", nil)
	}

	r.mu.Lock()
	if _, ok := r.pending[appID]; ok {
		r.mu.Unlock()
		return InstallPending, r.outcome("install_app", nil)
	}
	r.pending[appID] = struct{}{}
	r.mu.Unlock()

	r.log.Info("Installing app", zap.String("app_id", appID))
	abandon := func() {
		r.mu.Lock()
		delete(r.pending, appID)
		r.mu.Unlock()
	}
	scheduled := r.spawnOr("install", r.delays.Install, func(ctx context.Context) {
		r.finishInstall(ctx, appID)
	}, func() {
		abandon()
		r.log.Info("Install cancelled", zap.String("app_id", appID))
	})
	if !scheduled {
		abandon()
		return "", r.outcome("install_app", context.Canceled)
	}
	return InstallPending, r.outcome("install_app", nil)
}

// PendingInstalls lists apps still downloading
func (r *Router) PendingInstalls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.pending))
	for appID := range r.pending {
		out = append(out, appID)
	}
	return out
}

func (r *Router) finishInstall(ctx context.Context, appID string) {
	r.mu.Lock()
	_, ok := r.pending[appID]
	r.mu.Unlock()
	if !ok {
		r.stale("install", zap.String("app_id", appID))
		return
	}

	var count int
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		if _, err := tx.Install(appID); err != nil {
			return err
		}
		count = len(tx.InstalledApps())
		return nil
	})

	r.mu.Lock()
	delete(r.pending, appID)
	r.mu.Unlock()

	if err != nil {
		r.log.Warn("Install failed", zap.String("app_id", appID), zap.Error(err))
		return
	}
	r.metrics.SetInstalledApps(count)
	r.log.Info("App installed", zap.String("app_id", appID))
}
