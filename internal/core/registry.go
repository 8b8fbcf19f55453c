package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]TableDefinition)
	registryMu sync.RWMutex
)

// Register adds a table definition to the registry.
// Panics if a table with the same key is already registered.
func Register(def TableDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("table already registered: %s", def.Info.Key))
	}

	// Populate Columns from FieldSpecs if not set
	if len(def.Info.Columns) == 0 && len(def.FieldSpecs) > 0 {
		def.Info.Columns = make([]string, len(def.FieldSpecs))
		for i, spec := range def.FieldSpecs {
			def.Info.Columns[i] = spec.Name
		}
	}

	registry[def.Info.Key] = def
}

// Get returns a table definition by key.
// Returns false if not found.
func Get(key string) (TableDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered table definitions.
// Sorted by tab then by key for consistent ordering.
func All() []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TableDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Tab != result[j].Info.Tab {
			return result[i].Info.Tab < result[j].Info.Tab
		}
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// ByTab returns all table definitions listed under a tab.
// Sorted by key for consistent ordering.
func ByTab(tab string) []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var result []TableDefinition
	for _, def := range registry {
		if def.Info.Tab == tab {
			result = append(result, def)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// Tabs returns all unique tab names, sorted alphabetically.
func Tabs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	for _, def := range registry {
		seen[def.Info.Tab] = true
	}

	tabs := make([]string, 0, len(seen))
	for t := range seen {
		tabs = append(tabs, t)
	}

	sort.Strings(tabs)
	return tabs
}

// Columns returns the grid column metadata for a table.
func Columns(key string) ([]ColumnMeta, bool) {
	def, ok := Get(key)
	if !ok {
		return nil, false
	}

	meta := make([]ColumnMeta, len(def.FieldSpecs))
	for i, spec := range def.FieldSpecs {
		title := spec.Label
		if title == "" {
			title = spec.Name
		}
		meta[i] = ColumnMeta{
			Field:    spec.Name,
			Title:    title,
			Type:     fieldTypeName(spec.Type),
			Required: spec.Required,
			Hidden:   spec.Hidden,
			Values:   spec.EnumValues,
		}
	}
	return meta, true
}

// TableCount returns the number of registered tables.
func TableCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered tables.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]TableDefinition)
}
