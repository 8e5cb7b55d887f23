package clrt

import (
	"fmt"
	"sort"
	"sync"
)

// OpenConfig carries the settings a backend may need to open
type OpenConfig struct {
	// FixturePath is the runtime description read by the fixture backend
	FixturePath string
}

// Opener creates a Runtime for one backend
type Opener func(cfg OpenConfig) (Runtime, error)

var (
	registryMu sync.Mutex
	registry   = map[string]Opener{}
)

// Register makes a backend available under name. Backends register from
// init, so a name is only present when its build constraints were met
func Register(name string, open Opener) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = open
}

// Backends lists the registered backend names in sorted order
func Backends() []string {
	registryMu.Lock()
	defer registryMu.Unlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open creates a Runtime from the named backend
func Open(name string, cfg OpenConfig) (Runtime, error) {
	registryMu.Lock()
	open, ok := registry[name]
	registryMu.Unlock()

	if !ok {
		return nil, fmt.Errorf("backend %q is not available in this build (have %v)", name, Backends())
	}
	return open(cfg)
}
