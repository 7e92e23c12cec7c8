package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/utils"
)

// ErrFrozen is returned when registering after startup
var ErrFrozen = errors.New("registry is frozen")

// Registry is the app catalog
type Registry struct {
	mu     sync.RWMutex
	apps   map[string]types.AppDescriptor
	order  []string // registration order
	frozen bool
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		apps: make(map[string]types.AppDescriptor),
	}
}

// Register adds a descriptor. Missing capabilities come from the kind table
// and a descriptor without skins appears on every skin.
func (r *Registry) Register(d types.AppDescriptor) error {
	if err := utils.ValidateID(d.ID, "id", true); err != nil {
		return err
	}
	if err := utils.ValidateName(d.Name, "name"); err != nil {
		return err
	}
	spec, ok := SpecFor(d.Kind)
	if !ok {
		return &types.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown app kind %q", d.Kind)}
	}
	for _, s := range d.Skins {
		if _, ok := types.ParseSkin(string(s)); !ok {
			return &types.ValidationError{Field: "skins", Reason: fmt.Sprintf("unknown skin %q", s)}
		}
	}
	if d.Page < 0 {
		return &types.ValidationError{Field: "page", Reason: "must not be negative"}
	}

	if len(d.Capabilities) == 0 {
		d.Capabilities = append([]types.Capability(nil), spec.Capabilities...)
	}
	if len(d.Skins) == 0 {
		d.Skins = types.AllSkins()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}
	if _, exists := r.apps[d.ID]; exists {
		return &types.ConflictError{Reason: fmt.Sprintf("app %q already registered", d.ID)}
	}
	if spec.Singleton {
		for _, id := range r.order {
			if r.apps[id].Kind == d.Kind {
				return &types.ConflictError{Reason: fmt.Sprintf("only one %s app may be registered", d.Kind)}
			}
		}
	}

	r.apps[d.ID] = d
	r.order = append(r.order, d.ID)
	return nil
}

// Freeze ends registration
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether registration has ended
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Resolve returns the descriptor for appID
func (r *Registry) Resolve(appID string) (types.AppDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.apps[appID]
	if !ok {
		return types.AppDescriptor{}, &types.UnknownAppError{AppID: appID}
	}
	return d, nil
}

// Launch checks that appID names a registered app
func (r *Registry) Launch(appID string) error {
	_, err := r.Resolve(appID)
	return err
}

// RepliesFor reports whether messages sent from appID get generated replies
func (r *Registry) RepliesFor(appID string) bool {
	d, err := r.Resolve(appID)
	if err != nil {
		return false
	}
	spec, _ := SpecFor(d.Kind)
	return spec.Replies
}

// All lists descriptors in registration order
func (r *Registry) All() []types.AppDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.AppDescriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.apps[id])
	}
	return out
}

// Installable lists apps offered by the app store
func (r *Registry) Installable() []types.AppDescriptor {
	var out []types.AppDescriptor
	for _, d := range r.All() {
		if d.Installable {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of registered apps
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Visible reports whether appID is launchable on skin given the installed set
func (r *Registry) Visible(appID string, skin types.Skin, installed func(string) bool) bool {
	d, err := r.Resolve(appID)
	if err != nil {
		return false
	}
	return visible(d, skin, installed)
}

func visible(d types.AppDescriptor, skin types.Skin, installed func(string) bool) bool {
	if !d.On(skin) {
		return false
	}
	if d.Installable {
		return installed != nil && installed(d.ID)
	}
	return true
}

// HomeApps lists the apps on a skin's home grid, dock apps excluded,
// ordered by preferred page then registration order. Installable apps only
// appear once installed.
func (r *Registry) HomeApps(skin types.Skin, installed func(string) bool) []types.AppDescriptor {
	var out []types.AppDescriptor
	for _, d := range r.All() {
		if !d.Dock && visible(d, skin, installed) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Page < out[j].Page
	})
	return out
}

// Dock lists the apps pinned to the dock on a skin
func (r *Registry) Dock(skin types.Skin) []types.AppDescriptor {
	var out []types.AppDescriptor
	for _, d := range r.All() {
		if d.Dock && visible(d, skin, nil) {
			out = append(out, d)
		}
	}
	return out
}

// PageCount is the number of home pages the skin needs. There is always
// at least one page.
func (r *Registry) PageCount(skin types.Skin, installed func(string) bool) int {
	if pages := len(r.layout(skin, installed)); pages > 1 {
		return pages
	}
	return 1
}

// Page returns the apps on one home page
func (r *Registry) Page(skin types.Skin, page int, installed func(string) bool) []types.AppDescriptor {
	pages := r.layout(skin, installed)
	if page < 0 || page >= len(pages) {
		return nil
	}
	return pages[page]
}

// layout places each home app on its declared page, spilling to the next
// page when one is full. Pages between placed apps may be empty.
func (r *Registry) layout(skin types.Skin, installed func(string) bool) [][]types.AppDescriptor {
	per := GridSize(skin)
	var pages [][]types.AppDescriptor
	cur := 0
	for _, d := range r.HomeApps(skin, installed) {
		if d.Page > cur {
			cur = d.Page
		}
		for cur < len(pages) && len(pages[cur]) >= per {
			cur++
		}
		for len(pages) <= cur {
			pages = append(pages, nil)
		}
		pages[cur] = append(pages[cur], d)
	}
	return pages
}
