package permission

import (
	"errors"
	"sync"
)

// Module names covered by the default registry.
const (
	ModuleClients   = "clients"
	ModuleRoutines  = "routines"
	ModulePlans     = "plans"
	ModuleSchedules = "schedules"
	ModuleExercises = "exercises"
	ModuleReports   = "reports"
	ModuleScreen    = "screen"
)

type moduleEntry struct {
	resource     string
	capabilities []string
}

// ModuleRegistry maps module names to the capability set that belongs to
// each module. Read-only after [ModuleRegistry.Freeze].
type ModuleRegistry struct {
	mu      sync.RWMutex
	modules map[string]moduleEntry
	order   []string
	frozen  bool
}

// NewModuleRegistry creates an empty registry.
func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{
		modules: make(map[string]moduleEntry),
	}
}

// Register adds a module with its resource name and capability set. Must be
// called before [ModuleRegistry.Freeze].
func (r *ModuleRegistry) Register(name, resource string, capabilities []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.New("registry frozen")
	}
	if name == "" {
		return errors.New("module name cannot be empty")
	}
	if resource == "" {
		return errors.New("module resource cannot be empty")
	}
	if _, exists := r.modules[name]; exists {
		return errors.New("module already registered")
	}

	caps := make([]string, 0, len(capabilities))
	seen := make(map[string]struct{}, len(capabilities))
	for _, c := range capabilities {
		if _, _, err := SplitCapability(c); err != nil {
			return err
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		caps = append(caps, c)
	}

	r.modules[name] = moduleEntry{resource: resource, capabilities: caps}
	r.order = append(r.order, name)
	return nil
}

// Freeze prevents further registrations. Must be called before the registry
// is used for authorization checks.
func (r *ModuleRegistry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Permissions returns the capability set of the named module, or false if
// the module is unknown.
func (r *ModuleRegistry) Permissions(module string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.modules[module]
	if !ok {
		return nil, false
	}
	out := make([]string, len(entry.capabilities))
	copy(out, entry.capabilities)
	return out, true
}

// Resource returns the resource name of the named module, or false if the
// module is unknown.
func (r *ModuleRegistry) Resource(module string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.modules[module]
	if !ok {
		return "", false
	}
	return entry.resource, true
}

// Modules returns the registered module names in registration order.
func (r *ModuleRegistry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of registered modules.
func (r *ModuleRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.modules)
}

func crud(resource string) []string {
	return []string{
		Capability(resource, ActionCreate),
		Capability(resource, ActionRead),
		Capability(resource, ActionUpdate),
		Capability(resource, ActionDelete),
	}
}

// DefaultRegistry returns the frozen module→permission table of the
// platform: full CRUD for the business modules, read-oriented sets for
// reports and screen.
func DefaultRegistry() *ModuleRegistry {
	r := NewModuleRegistry()
	_ = r.Register(ModuleClients, "client", crud("client"))
	_ = r.Register(ModuleRoutines, "routine", crud("routine"))
	_ = r.Register(ModulePlans, "plan", crud("plan"))
	_ = r.Register(ModuleSchedules, "schedule", crud("schedule"))
	_ = r.Register(ModuleExercises, "exercise", crud("exercise"))
	_ = r.Register(ModuleReports, "report", []string{
		Capability("report", ActionRead),
		Capability("report", "export"),
	})
	_ = r.Register(ModuleScreen, "screen", []string{
		Capability("screen", ActionRead),
		Capability("screen", ActionUpdate),
	})
	r.Freeze()
	return r
}
