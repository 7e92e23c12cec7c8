package router

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/store"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/providers/generation"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/id"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

// Catalog resolves app descriptors
type Catalog interface {
	Resolve(appID string) (types.AppDescriptor, error)
	RepliesFor(appID string) bool
}

// Navigator is the part of the navigation controller rules consult
type Navigator interface {
	IsForeground(appID string) bool
	Open(appID string) (types.NavigationState, error)
}

// Delays are the simulated latencies of async work
type Delays struct {
	Reply       time.Duration
	RideConfirm time.Duration
	RideArrival time.Duration
	Install     time.Duration
}

// Router applies cross-app rules
type Router struct {
	store   *store.Store
	catalog Catalog
	nav     Navigator
	gen     generation.Generator

	delays     Delays
	genTimeout time.Duration
	log        *logging.Logger
	metrics    *monitoring.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup

	mu      sync.Mutex
	closed  bool                // Protected by mu
	pending map[string]struct{} // installs in flight, protected by mu
}

// New creates a router. Delays default to zero.
func New(st *store.Store, catalog Catalog, nav Navigator, gen generation.Generator) *Router {
	ctx, cancel := context.WithCancel(context.Background())
	return &Router{
		store:      st,
		catalog:    catalog,
		nav:        nav,
		gen:        gen,
		genTimeout: 30 * time.Second,
		log:        logging.NewNop(),
		ctx:        ctx,
		cancel:     cancel,
		pending:    make(map[string]struct{}),
	}
}

// WithDelays sets the simulated latencies
func (r *Router) WithDelays(d Delays) *Router {
	r.delays = d
	return r
}

// WithGenerationTimeout bounds each generator call
func (r *Router) WithGenerationTimeout(d time.Duration) *Router {
	if d > 0 {
		r.genTimeout = d
	}
	return r
}

// WithLogger sets the logger
func (r *Router) WithLogger(logger *logging.Logger) *Router {
	r.log = logger.Named("router")
	return r
}

// WithMetrics adds metrics collection
func (r *Router) WithMetrics(metrics *monitoring.Metrics) *Router {
	r.metrics = metrics
	return r
}

// Wait blocks until every scheduled task has finished, including tasks
// scheduled by other tasks
func (r *Router) Wait() {
	r.tasks.Wait()
}

// Close cancels pending tasks and waits for them to exit. Rules keep
// working afterwards but schedule nothing.
func (r *Router) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.cancel()
	r.tasks.Wait()
}

// spawn runs fn after delay on the task group. The task is skipped when
// the router closes first. It reports whether the task was scheduled.
func (r *Router) spawn(name string, delay time.Duration, fn func(ctx context.Context)) bool {
	return r.spawnOr(name, delay, fn, nil)
}

// spawnOr is spawn with a hook run when a scheduled task is cancelled
// before fn starts.
func (r *Router) spawnOr(name string, delay time.Duration, fn func(ctx context.Context), cancelled func()) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.log.Debug("Router closed, task not scheduled", zap.String("task", name))
		return false
	}
	r.tasks.Add(1)
	r.mu.Unlock()

	r.metrics.TaskScheduled()
	go func() {
		defer r.tasks.Done()
		defer r.metrics.TaskDone()

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-r.ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
		if r.ctx.Err() != nil {
			if cancelled != nil {
				cancelled()
			}
			return
		}
		fn(r.ctx)
	}()
	return true
}

// stale records an async result dropped by a relevance check
func (r *Router) stale(task string, fields ...zap.Field) {
	r.metrics.RecordStaleTask(task)
	r.log.Debug("Discarding stale result", append(fields, zap.String("task", task))...)
}

// outcome records a rule invocation and passes err through
func (r *Router) outcome(rule string, err error) error {
	switch {
	case err == nil:
		r.metrics.RecordRouterAction(rule, "ok")
	case types.IsValidation(err):
		r.metrics.RecordRouterAction(rule, "invalid")
	case types.IsConflict(err):
		r.metrics.RecordRouterAction(rule, "conflict")
	case types.IsNotFound(err), types.IsUnknownApp(err):
		r.metrics.RecordRouterAction(rule, "not_found")
	default:
		r.metrics.RecordRouterAction(rule, "error")
	}
	return err
}

// knownID rejects an ID minted for another entity kind without touching
// the store. Only kinds whose IDs the store always generates are checked.
func knownID(kind string, p id.Prefix, value string) error {
	if !id.HasPrefix(value, p) {
		return &types.NotFoundError{Kind: kind, ID: value}
	}
	return nil
}
