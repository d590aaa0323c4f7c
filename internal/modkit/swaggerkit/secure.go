package swaggerkit

import (
	"sort"
	"strings"
	"sync"
)

const bearerScheme = "bearerAuth"

var (
	secureMu    sync.Mutex
	securePaths = map[string]map[string]bool{}
)

// MarkSecurePath records that method on path requires a bearer token
func MarkSecurePath(path, method string) {
	secureMu.Lock()
	defer secureMu.Unlock()
	m := securePaths[path]
	if m == nil {
		m = map[string]bool{}
		securePaths[path] = m
	}
	m[strings.ToLower(method)] = true
}

// SecurePaths lists the marked paths in order
func SecurePaths() []string {
	secureMu.Lock()
	defer secureMu.Unlock()
	out := make([]string, 0, len(securePaths))
	for p := range securePaths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// applySecurity adds the bearer scheme and a security requirement to every
// marked operation present in the spec
func applySecurity(spec map[string]any) {
	secureMu.Lock()
	defer secureMu.Unlock()
	if len(securePaths) == 0 {
		return
	}
	paths, _ := spec["paths"].(map[string]any)
	for path, methods := range securePaths {
		node, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		for method := range methods {
			if op, ok := node[method].(map[string]any); ok {
				op["security"] = []any{map[string]any{bearerScheme: []any{}}}
			}
		}
	}

	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemes, ok := comps["securitySchemes"].(map[string]any)
	if !ok {
		schemes = map[string]any{}
		comps["securitySchemes"] = schemes
	}
	schemes[bearerScheme] = map[string]any{"type": "http", "scheme": "bearer"}
}

// resetSecure clears marks between tests
func resetSecure() {
	secureMu.Lock()
	securePaths = map[string]map[string]bool{}
	secureMu.Unlock()
}
