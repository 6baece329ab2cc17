package scene

import (
	"sort"
	"strings"
	"sync"
)

// Component is anything attachable to a Node. Component implementations are
// plain structs; the engine reads and writes them through the property
// walker and never constructs them itself.
type Component interface {
	// TypeName returns the stable, fully qualified type identifier used to
	// correlate components across structurally congruent graphs.
	TypeName() string
}

var (
	regMu     sync.RWMutex
	tracked   = map[string]bool{}
	essential = map[string]bool{}
	aliases   = map[string]string{}
)

// RegisterTracked marks a component type as interesting to snapshot, diff
// and apply. Tracked types are implicitly essential: a clone that lost its
// tracked components would be useless for editing.
func RegisterTracked(typeName string) {
	regMu.Lock()
	defer regMu.Unlock()
	tracked[typeName] = true
	essential[typeName] = true
}

// RegisterEssential marks a component type as kept when cloning, without
// tracking its properties.
func RegisterEssential(typeName string) {
	regMu.Lock()
	defer regMu.Unlock()
	essential[typeName] = true
}

// RegisterAlias records a well-known legacy name for a current type, used as
// the last resort when re-resolving a type after a host reload.
func RegisterAlias(legacy, current string) {
	regMu.Lock()
	defer regMu.Unlock()
	aliases[legacy] = current
}

// IsTracked reports whether the type's properties are snapshotted.
func IsTracked(typeName string) bool {
	regMu.RLock()
	defer regMu.RUnlock()
	return tracked[typeName]
}

// IsEssential reports whether the type survives cloning.
func IsEssential(typeName string) bool {
	regMu.RLock()
	defer regMu.RUnlock()
	return essential[typeName]
}

// TrackedTypes returns the sorted set of tracked type names.
func TrackedTypes() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	names := make([]string, 0, len(tracked))
	for name := range tracked {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupType resolves a possibly stale type identifier to its canonical
// registered name. Resolution order: exact registered name, then a scan of
// registered names by simple (unqualified) name, then the legacy alias
// table. Returns false when nothing matches; callers skip the entry.
func LookupType(typeName string) (string, bool) {
	regMu.RLock()
	defer regMu.RUnlock()

	if essential[typeName] || tracked[typeName] {
		return typeName, true
	}

	simple := simpleName(typeName)
	for name := range essential {
		if simpleName(name) == simple {
			return name, true
		}
	}

	if current, ok := aliases[typeName]; ok {
		return current, true
	}
	return "", false
}

func simpleName(typeName string) string {
	if i := strings.LastIndexByte(typeName, '.'); i >= 0 {
		return typeName[i+1:]
	}
	return typeName
}
