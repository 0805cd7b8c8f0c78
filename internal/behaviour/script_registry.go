package behaviour

import (
	"sort"
	"sync"
)

type Constructor func() Behaviour

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Constructor)
)

// Register makes a behaviour available to scene files under name.
// Registering the same name again replaces the constructor.
func Register(name string, constructor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = constructor
}

// Available returns the registered names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create returns a fresh behaviour, or nil when name is unknown.
func Create(name string) Behaviour {
	registryMu.RLock()
	constructor, exists := registry[name]
	registryMu.RUnlock()
	if !exists {
		return nil
	}
	return constructor()
}
