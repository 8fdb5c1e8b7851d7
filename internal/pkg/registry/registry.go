package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotEnabled is returned when disabling a capability that is not
// registered.
var ErrNotEnabled = errors.New("capability is not enabled")

// Capability is an optional module looked up by name at runtime. The core
// never imports a capability's package directly; it asks the registry and
// degrades gracefully when the capability is absent.
type Capability interface {
	Name() string
}

// DependencyDeclarer is implemented by capabilities that require other
// capabilities to stay enabled.
type DependencyDeclarer interface {
	DependsOn() []string
}

// ConflictError reports an attempt to disable a capability that others
// still depend on.
type ConflictError struct {
	Name       string
	Dependents []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot disable %s: required by %v", e.Name, e.Dependents)
}

// Registry holds enabled capabilities keyed by name.
type Registry struct {
	mu           sync.RWMutex
	capabilities map[string]Capability
}

func New() *Registry {
	return &Registry{
		capabilities: make(map[string]Capability),
	}
}

// Register enables a capability. Re-registering replaces the previous handle.
func (r *Registry) Register(c Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[c.Name()] = c
}

// Has reports whether the named capability is enabled.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.capabilities[name]
	return ok
}

// Get returns the capability handle if enabled.
func (r *Registry) Get(name string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.capabilities[name]
	return c, ok
}

// Disable removes a capability. It fails with a ConflictError when other
// enabled capabilities declare a dependency on it.
func (r *Registry) Disable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.capabilities[name]; !ok {
		return fmt.Errorf("%s: %w", name, ErrNotEnabled)
	}

	var dependents []string
	for other, c := range r.capabilities {
		if other == name {
			continue
		}
		declarer, ok := c.(DependencyDeclarer)
		if !ok {
			continue
		}
		for _, dep := range declarer.DependsOn() {
			if dep == name {
				dependents = append(dependents, other)
			}
		}
	}

	if len(dependents) > 0 {
		sort.Strings(dependents)
		return &ConflictError{Name: name, Dependents: dependents}
	}

	delete(r.capabilities, name)
	return nil
}

// Names returns the enabled capability names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.capabilities))
	for name := range r.capabilities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
