package scene

import "sync"

// Registry tracks the scenes currently loaded in the host, by name. Scene
// names plus hierarchy paths are the only identity that survives a host
// reload, so everything that must be re-located afterwards goes through
// this registry rather than through node pointers.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	scenes map[string]*Node
}

// NewRegistry creates an empty scene registry.
func NewRegistry() *Registry {
	return &Registry{scenes: make(map[string]*Node)}
}

// Add registers a scene root under a name, replacing any previous root with
// the same name.
func (r *Registry) Add(name string, root *Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scenes[name]; !ok {
		r.order = append(r.order, name)
	}
	r.scenes[name] = root
}

// Scene returns the root of the named scene, or nil.
func (r *Registry) Scene(name string) *Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scenes[name]
}

// Names returns the loaded scene names in load order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// NameOf returns the name under which the given root is registered.
func (r *Registry) NameOf(root *Node) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, sc := range r.scenes {
		if sc == root {
			return name, true
		}
	}
	return "", false
}

// Clear drops every scene, as a host reload does.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.scenes = make(map[string]*Node)
}
