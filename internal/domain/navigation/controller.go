package navigation

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/events"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

// Catalog is the part of the app registry navigation needs
type Catalog interface {
	Launch(appID string) error
	Visible(appID string, skin types.Skin, installed func(string) bool) bool
	PageCount(skin types.Skin, installed func(string) bool) int
}

type skinState struct {
	locked     bool
	page       int
	foreground string
}

// Controller owns the UI position of every skin
type Controller struct {
	mu     sync.Mutex
	active types.Skin
	skins  map[types.Skin]*skinState // Protected by mu

	catalog   Catalog
	installed func(string) bool
	bus       *events.Bus
	metrics   *monitoring.Metrics
	log       *logging.Logger
}

// NewController boots every skin locked with the primary skin active.
// installed reports installed optional apps and may be nil.
func NewController(catalog Catalog, installed func(string) bool) *Controller {
	c := &Controller{
		active:    types.PrimarySkin,
		skins:     make(map[types.Skin]*skinState),
		catalog:   catalog,
		installed: installed,
		log:       logging.NewNop(),
	}
	for _, s := range types.AllSkins() {
		c.skins[s] = &skinState{locked: true}
	}
	return c
}

// WithBus publishes navigation changes on bus
func (c *Controller) WithBus(bus *events.Bus) *Controller {
	c.bus = bus
	return c
}

// WithMetrics adds metrics collection
func (c *Controller) WithMetrics(metrics *monitoring.Metrics) *Controller {
	c.metrics = metrics
	return c
}

// WithLogger sets the logger
func (c *Controller) WithLogger(logger *logging.Logger) *Controller {
	c.log = logger.Named("nav")
	return c
}

// ActiveSkin returns the skin on screen
func (c *Controller) ActiveSkin() types.Skin {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// State returns the active skin's navigation state
func (c *Controller) State() types.NavigationState {
	skin := c.ActiveSkin()
	return c.StateOf(skin)
}

// StateOf returns one skin's navigation state
func (c *Controller) StateOf(skin types.Skin) types.NavigationState {
	pages := c.pageCount(skin)

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(skin, pages)
}

// States returns every skin's state in menu order
func (c *Controller) States() []types.NavigationState {
	out := make([]types.NavigationState, 0, len(c.skins))
	for _, s := range types.AllSkins() {
		out = append(out, c.StateOf(s))
	}
	return out
}

// Foreground returns the app in front on skin, or "" at home or locked
func (c *Controller) Foreground(skin types.Skin) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.skins[skin]
	if !ok || st.locked {
		return ""
	}
	return st.foreground
}

// IsForeground reports whether appID is in front on the active skin
func (c *Controller) IsForeground(appID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.skins[c.active]
	return !st.locked && st.foreground == appID
}

// Unlock moves a locked skin to its first home page
func (c *Controller) Unlock() types.NavigationState {
	return c.apply("unlock", func(st *skinState, _ int) bool {
		if !st.locked {
			return false
		}
		st.locked = false
		st.page = 0
		st.foreground = ""
		return true
	})
}

// Lock locks the active skin. Unlocking lands on the first home page.
func (c *Controller) Lock() types.NavigationState {
	return c.apply("lock", func(st *skinState, _ int) bool {
		if st.locked {
			return false
		}
		st.locked = true
		st.foreground = ""
		return true
	})
}

// Paginate moves the home grid by delta pages. Moves that would leave
// [0, pageCount-1] are ignored.
func (c *Controller) Paginate(delta int) types.NavigationState {
	return c.apply("paginate", func(st *skinState, pages int) bool {
		if st.locked || st.foreground != "" || delta == 0 {
			return false
		}
		target := st.page + delta
		if target < 0 || target >= pages {
			return false
		}
		st.page = target
		return true
	})
}

// Open brings appID to the front of the active skin, keeping the home page
// index for when it closes. Opening the app already in front does nothing.
// An unregistered app is an UnknownAppError; an app that is registered but
// not on this skin or not installed leaves the state unchanged.
func (c *Controller) Open(appID string) (types.NavigationState, error) {
	if err := c.catalog.Launch(appID); err != nil {
		return c.State(), err
	}

	skin := c.ActiveSkin()
	if !c.catalog.Visible(appID, skin, c.installed) {
		c.log.Debug("App not available on skin", zap.String("app", appID), zap.String("skin", string(skin)))
		return c.StateOf(skin), nil
	}

	return c.applyOn(skin, "open", func(st *skinState, _ int) bool {
		if st.locked || st.foreground == appID {
			return false
		}
		st.foreground = appID
		return true
	}), nil
}

// Close returns the active skin from an app to its home page
func (c *Controller) Close() types.NavigationState {
	return c.apply("close", func(st *skinState, _ int) bool {
		if st.locked || st.foreground == "" {
			return false
		}
		st.foreground = ""
		return true
	})
}

// OpenSurface opens appID, or goes home when appID is nil. Unknown apps
// are ignored.
func (c *Controller) OpenSurface(appID *string) types.NavigationState {
	if appID == nil {
		return c.Close()
	}
	state, err := c.Open(*appID)
	if err != nil {
		c.log.Debug("Ignoring open of unknown app", zap.String("app", *appID))
	}
	return state
}

// SwitchSkin makes skin active. The skin being left drops back to its home
// page; switching to the primary skin locks it.
func (c *Controller) SwitchSkin(skin types.Skin) (types.NavigationState, error) {
	if _, ok := types.ParseSkin(string(skin)); !ok {
		return c.State(), &types.ValidationError{Field: "skin", Reason: "unknown skin " + string(skin)}
	}
	pages := c.pageCount(skin)

	c.mu.Lock()
	if c.active == skin {
		state := c.snapshot(skin, pages)
		c.mu.Unlock()
		return state, nil
	}

	from := c.active
	c.skins[from].foreground = ""
	c.active = skin

	target := c.skins[skin]
	target.foreground = ""
	if target.page >= pages {
		target.page = pages - 1
	}
	if skin == types.PrimarySkin {
		target.locked = true
	}
	state := c.snapshot(skin, pages)
	c.mu.Unlock()

	c.log.Debug("Switched skin", zap.String("from", string(from)), zap.String("to", string(skin)))
	c.publish(skin, "switch_skin", state)
	return state, nil
}

// apply runs fn against the active skin
func (c *Controller) apply(action string, fn func(st *skinState, pages int) bool) types.NavigationState {
	return c.applyOn(c.ActiveSkin(), action, fn)
}

// applyOn runs fn against skin if it is still active. The page count is
// computed before taking the lock because the catalog reads the store.
func (c *Controller) applyOn(skin types.Skin, action string, fn func(st *skinState, pages int) bool) types.NavigationState {
	pages := c.pageCount(skin)

	c.mu.Lock()
	if c.active != skin {
		// Skin switched underneath us
		c.mu.Unlock()
		return c.State()
	}
	changed := fn(c.skins[skin], pages)
	state := c.snapshot(skin, pages)
	c.mu.Unlock()

	if changed {
		c.publish(skin, action, state)
	}
	return state
}

func (c *Controller) snapshot(skin types.Skin, pages int) types.NavigationState {
	st := c.skins[skin]
	return types.NavigationState{
		Skin:       skin,
		Locked:     st.locked,
		Page:       st.page,
		PageCount:  pages,
		Foreground: st.foreground,
	}
}

func (c *Controller) pageCount(skin types.Skin) int {
	if c.catalog == nil {
		return 1
	}
	return c.catalog.PageCount(skin, c.installed)
}

func (c *Controller) publish(skin types.Skin, action string, state types.NavigationState) {
	c.metrics.RecordNavTransition(string(skin), action)
	c.bus.Publish(events.Change{
		Kind:      events.NavigationChanged,
		EntityID:  string(skin),
		Payload:   state,
		Timestamp: time.Now(),
	})
}
