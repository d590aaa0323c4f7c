package module

import (
	"sort"
	"sync"
)

// process wide port registry filled during bootstrap
var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores a port set for a module name; a repeat name overwrites
func Register(name string, ports any) {
	mu.Lock()
	reg[name] = ports
	mu.Unlock()
}

// Names lists registered modules in sorted order
func Names() []string {
	mu.RLock()
	out := make([]string, 0, len(reg))
	for n := range reg {
		out = append(out, n)
	}
	mu.RUnlock()
	sort.Strings(out)
	return out
}

// Reset clears the registry for tests
func Reset() {
	mu.Lock()
	reg = map[string]any{}
	mu.Unlock()
}
