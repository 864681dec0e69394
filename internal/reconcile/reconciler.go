package reconcile

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/platformset/internal/schedule"
	"github.com/dshills/platformset/internal/settings"
)

// View pairs a host view identity with its settings store.
type View struct {
	// ID identifies the view for per-view reconciler state.
	ID uuid.UUID

	// Settings is the view's live settings store.
	Settings settings.Store
}

// NewView wraps a settings store with a fresh view identity.
func NewView(s settings.Store) View {
	return View{ID: uuid.New(), Settings: s}
}

// Reconciler applies platform settings layers to views and keeps them
// current through change listeners.
type Reconciler struct {
	identity  Identity
	scheduler schedule.Scheduler
	templates []string

	mu sync.Mutex
	// seen tracks views that have been reconciled at least once; the
	// detach step is skipped the very first time since no listener exists.
	seen map[uuid.UUID]bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithTemplates overrides the fallback template list used when the
// platform_settings_keys setting is absent or empty.
func WithTemplates(templates []string) Option {
	return func(r *Reconciler) {
		if len(templates) > 0 {
			r.templates = templates
		}
	}
}

// New creates a Reconciler for the given host identity and scheduler.
func New(id Identity, scheduler schedule.Scheduler, opts ...Option) *Reconciler {
	r := &Reconciler{
		identity:  id,
		scheduler: scheduler,
		templates: DefaultTemplates,
		seen:      make(map[uuid.UUID]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Identity returns the ambient identity values used for expansion.
func (r *Reconciler) Identity() Identity {
	return r.identity
}

// Keys returns the concrete key list the view's settings select, in
// merge-priority order.
func (r *Reconciler) Keys(s settings.Store) []string {
	templates := templatesFrom(s.Get(KeysSetting, nil))
	if templates == nil {
		templates = r.templates
	}
	return Expand(templates, r.identity)
}

// Reconcile merges the applicable platform settings into the view.
// Intended for view activation, where the view may or may not have been
// reconciled before.
func (r *Reconciler) Reconcile(view View) {
	r.run(view, false)
}

// ReconcileFirst is Reconcile for a view known to be fresh (new or just
// loaded); the listener-detach step is skipped since none exists yet.
func (r *Reconciler) ReconcileFirst(view View) {
	r.run(view, true)
}

func (r *Reconciler) run(view View, forceFirst bool) {
	s := view.Settings

	first := forceFirst || !r.initialized(view.ID)

	// Detaching before writing is the re-entrancy guard: our own writes
	// must not re-invoke us through the listener attached below.
	if !first {
		s.ClearOnChange(ListenerName)
	}

	for _, w := range Plan(s, r.Keys(s)) {
		s.Set(w.Key, w.Value)
	}

	if s.Get(GuardSetting, false) != true {
		s.Set(GuardSetting, true)
	}
	r.markInitialized(view.ID)

	s.AddOnChange(ListenerName, func() {
		// Run on a fresh event-loop turn, never inside the change
		// notification's own call stack.
		r.scheduler.Defer(func() {
			r.Reconcile(view)
		})
	})
}

func (r *Reconciler) initialized(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.seen[id]
}

func (r *Reconciler) markInitialized(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seen[id] = true
}

// Forget drops per-view state, for hosts that recycle view identities.
func (r *Reconciler) Forget(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.seen, id)
}

// Listener adapts host view lifecycle callbacks onto a Reconciler.
type Listener struct {
	reconciler *Reconciler
}

// NewListener creates a lifecycle adapter for the reconciler.
func NewListener(r *Reconciler) *Listener {
	return &Listener{reconciler: r}
}

// OnActivated handles a view gaining focus.
func (l *Listener) OnActivated(view View) {
	l.reconciler.Reconcile(view)
}

// OnNew handles creation of a fresh view.
func (l *Listener) OnNew(view View) {
	l.reconciler.ReconcileFirst(view)
}

// OnLoad handles a view finishing load from disk.
func (l *Listener) OnLoad(view View) {
	l.reconciler.ReconcileFirst(view)
}
