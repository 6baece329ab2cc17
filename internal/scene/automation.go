package scene

import (
	"strings"
	"sync"
)

// Automation is an editor automation hook registered by some module: an
// asset post-processor, an auto-build trigger, an exporter. The preview
// engine never runs these; it only needs to disable the foreign ones while
// a session is live so that editing the clone cannot fire a third-party
// build pipeline.
type Automation struct {
	// Name is the hook's registered name, e.g. "AutoBuildOnSave".
	Name string
	// Owner is the owning module's namespace prefix, e.g. "com.example.autobuild".
	Owner string
	// Enabled is the hook's current activation state.
	Enabled bool
}

// AutomationRegistry holds the automation hooks known to the host.
type AutomationRegistry struct {
	mu    sync.Mutex
	hooks []*Automation
}

// NewAutomationRegistry creates an empty registry.
func NewAutomationRegistry() *AutomationRegistry {
	return &AutomationRegistry{}
}

// Register adds a hook. Hooks register enabled unless stated otherwise.
func (r *AutomationRegistry) Register(a *Automation) {
	if a == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, a)
}

// Hooks returns a snapshot of the registered hooks.
func (r *AutomationRegistry) Hooks() []*Automation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Automation(nil), r.hooks...)
}

// Find returns the registered hook with the given name, or nil.
func (r *AutomationRegistry) Find(name string) *Automation {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.hooks {
		if h.Name == name {
			return h
		}
	}
	return nil
}

// SuppressPolicy decides which hooks a session disables. Owners matching an
// allow prefix are never touched. Hooks recognized as belonging to one of
// the two known foreign families follow their toggle; every other
// non-allowed hook is treated as foreign and suppressed unconditionally.
type SuppressPolicy struct {
	AllowPrefixes []string

	AutoBuildFragments []string
	ExporterFragments  []string

	SuppressAutoBuild bool
	SuppressExporters bool
}

func (p SuppressPolicy) allowed(owner string) bool {
	for _, prefix := range p.AllowPrefixes {
		if strings.HasPrefix(owner, prefix) {
			return true
		}
	}
	return false
}

func containsAny(name string, fragments []string) bool {
	for _, f := range fragments {
		if f != "" && strings.Contains(name, f) {
			return true
		}
	}
	return false
}

// shouldSuppress applies the policy to a single hook.
func (p SuppressPolicy) shouldSuppress(a *Automation) bool {
	if p.allowed(a.Owner) {
		return false
	}
	if containsAny(a.Name, p.AutoBuildFragments) {
		return p.SuppressAutoBuild
	}
	if containsAny(a.Name, p.ExporterFragments) {
		return p.SuppressExporters
	}
	// Not explicitly allowed: foreign.
	return true
}

// SuppressionRecord remembers the prior enabled state of every hook a
// session disabled, keyed by hook name so restoration still works when the
// hook objects were rebuilt in the meantime.
type SuppressionRecord struct {
	reg   *AutomationRegistry
	prior map[string]bool
}

// Suppress disables every hook the policy marks as foreign and returns the
// record needed to undo it. Already-disabled hooks are recorded too, so
// Restore puts back exactly the state found at suppression time.
func (r *AutomationRegistry) Suppress(p SuppressPolicy) *SuppressionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := &SuppressionRecord{reg: r, prior: make(map[string]bool)}
	for _, h := range r.hooks {
		if !p.shouldSuppress(h) {
			continue
		}
		rec.prior[h.Name] = h.Enabled
		h.Enabled = false
	}
	return rec
}

// Names returns the names of the suppressed hooks, unordered.
func (sr *SuppressionRecord) Names() []string {
	if sr == nil {
		return nil
	}
	names := make([]string, 0, len(sr.prior))
	for name := range sr.prior {
		names = append(names, name)
	}
	return names
}

// Count returns how many hooks were suppressed.
func (sr *SuppressionRecord) Count() int {
	if sr == nil {
		return 0
	}
	return len(sr.prior)
}

// Restore re-enables the suppressed hooks to their recorded prior state.
// Hooks that disappeared from the registry are skipped. Safe to call on nil
// and safe to call twice; the second call repeats the same assignments.
func (sr *SuppressionRecord) Restore() {
	if sr == nil || sr.reg == nil {
		return
	}
	sr.reg.mu.Lock()
	defer sr.reg.mu.Unlock()
	for _, h := range sr.reg.hooks {
		if prior, ok := sr.prior[h.Name]; ok {
			h.Enabled = prior
		}
	}
}
