// Package registry holds the in-memory component registry populated by the
// scanner and consumed by the build pipeline. Component names are the
// registry keys; the same name may never come from two different files.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/conneroisu/marklet/internal/errors"
	"github.com/conneroisu/marklet/internal/types"
)

// ComponentRegistry manages all discovered components
type ComponentRegistry struct {
	components map[string]*types.Component
	mutex      sync.RWMutex
	watchers   []chan types.ComponentEvent
}

// NewComponentRegistry creates a new component registry
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		components: make(map[string]*types.Component),
		watchers:   make([]chan types.ComponentEvent, 0),
	}
}

// Register adds or updates a component. Re-registering the same file updates
// the entry; a name collision from a different file is an error, since the
// loader registry would silently drop one of the two.
func (r *ComponentRegistry) Register(component *types.Component) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := types.EventTypeAdded
	if existing, exists := r.components[component.Name]; exists {
		if existing.FilePath != component.FilePath {
			return errors.ErrDuplicateName(component.Name, existing.FilePath, component.FilePath)
		}
		eventType = types.EventTypeUpdated
	}

	r.components[component.Name] = component

	r.notify(types.ComponentEvent{
		Type:      eventType,
		Component: component,
		Timestamp: time.Now(),
	})

	return nil
}

// Get retrieves a component by name
func (r *ComponentRegistry) Get(name string) (*types.Component, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	component, exists := r.components[name]
	return component, exists
}

// GetAll returns all registered components sorted by name. The returned
// slice is a copy.
func (r *ComponentRegistry) GetAll() []*types.Component {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*types.Component, 0, len(r.components))
	for _, component := range r.components {
		result = append(result, component)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Names returns the sorted component names.
func (r *ComponentRegistry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Remove removes a component from the registry
func (r *ComponentRegistry) Remove(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	component, exists := r.components[name]
	if !exists {
		return
	}

	delete(r.components, name)

	r.notify(types.ComponentEvent{
		Type:      types.EventTypeRemoved,
		Component: component,
		Timestamp: time.Now(),
	})
}

// Count returns the number of registered components
func (r *ComponentRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.components)
}

// Watch returns a channel that receives component events
func (r *ComponentRegistry) Watch() <-chan types.ComponentEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan types.ComponentEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *ComponentRegistry) UnWatch(ch <-chan types.ComponentEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// notify sends an event to every watcher without blocking. Callers hold the
// write lock.
func (r *ComponentRegistry) notify(event types.ComponentEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
