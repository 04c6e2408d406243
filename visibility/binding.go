package visibility

import (
	"sync"

	"github.com/gympanel/authpipe/internal/metrics"
)

// Spec declares what an element requires to be visible. A Spec with no
// permissions hides the element unconditionally.
type Spec struct {
	// Permissions the viewer must hold. RequireAll selects between
	// all-of and any-of semantics; any-of is the default.
	Permissions []string
	RequireAll  bool

	// Module, when set, additionally requires module-level access.
	Module string
}

// View is the permission view a visibility decision reads from.
type View interface {
	HasAny(perms ...string) bool
	HasAll(perms ...string) bool
	CanAccessModule(module string) bool
}

// Renderer attaches and detaches the bound element. Hidden content must be
// removed entirely, not merely styled away.
type Renderer interface {
	Show()
	Hide()
}

// Visible reports whether spec is satisfied by view. The module check runs
// first when a module is declared; an empty permission list fails closed.
func Visible(view View, spec Spec) bool {
	if len(spec.Permissions) == 0 {
		return false
	}
	if spec.Module != "" && !view.CanAccessModule(spec.Module) {
		return false
	}
	if spec.RequireAll {
		return view.HasAll(spec.Permissions...)
	}
	return view.HasAny(spec.Permissions...)
}

// Subscribable is the slice of the permission resolver a Binding needs:
// a change stream over the live permission list.
type Subscribable interface {
	Subscribe(fn func([]string)) (cancel func())
}

// Binding keeps a rendered element in sync with the live permission view.
// It evaluates once at bind time and again on every permission change,
// calling the renderer only when the decision flips. Release detaches the
// subscription; a released Binding never touches the renderer again.
type Binding struct {
	view     View
	spec     Spec
	renderer Renderer
	metrics  *metrics.Metrics

	mu       sync.Mutex
	shown    bool
	started  bool
	released bool
	cancel   func()
}

// Bind subscribes b to source and applies the initial visibility decision.
// The returned Binding must be Released on element teardown.
func Bind(source Subscribable, view View, spec Spec, renderer Renderer, m *metrics.Metrics) *Binding {
	b := &Binding{
		view:     view,
		spec:     spec,
		renderer: renderer,
		metrics:  m,
	}
	b.cancel = source.Subscribe(func([]string) {
		b.recompute()
	})
	b.recompute()
	return b
}

// Shown reports the last applied visibility decision.
func (b *Binding) Shown() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.started && b.shown
}

// Release unsubscribes from the permission stream. Idempotent.
func (b *Binding) Release() {
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		return
	}
	b.released = true
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (b *Binding) recompute() {
	visible := Visible(b.view, b.spec)

	b.mu.Lock()
	if b.released || (b.started && visible == b.shown) {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.shown = visible
	b.mu.Unlock()

	if visible {
		b.metrics.Inc(metrics.MetricVisibilityShown)
		b.renderer.Show()
	} else {
		b.metrics.Inc(metrics.MetricVisibilityHidden)
		b.renderer.Hide()
	}
}
