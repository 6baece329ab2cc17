package session

import (
	"github.com/rigtools/rigpreview/internal/pathres"
	"github.com/rigtools/rigpreview/internal/scene"
)

// Tracker maintains the correspondence between the original preview root and
// its clone. Correlation is purely path-based: the two graphs are
// structurally congruent by construction, so a node's relative path under
// one root addresses its counterpart under the other. The pre-session
// property values that complete the correspondence context live in
// Engine.baseline, keyed by the same relative paths.
type Tracker struct {
	originalRoot *scene.Node
	cloneRoot    *scene.Node
	targetPath   string
}

// SetContext records the original root and the session's target node. The
// target's path is computed once; the clone side is attached later, after
// isolation builds it.
func (t *Tracker) SetContext(originalRoot, target *scene.Node) {
	t.originalRoot = originalRoot
	t.cloneRoot = nil
	t.targetPath = pathres.Relative(target, originalRoot)
}

// SetClone attaches the clone root once isolation has built it.
func (t *Tracker) SetClone(cloneRoot *scene.Node) { t.cloneRoot = cloneRoot }

// Counterpart maps a node under the original root to the congruent node
// under the clone root, or nil when either side is missing.
func (t *Tracker) Counterpart(n *scene.Node) *scene.Node {
	if t.originalRoot == nil || t.cloneRoot == nil {
		return nil
	}
	return pathres.Resolve(t.cloneRoot, pathres.Relative(n, t.originalRoot))
}

// Original maps a clone-side node back to its original, or nil.
func (t *Tracker) Original(n *scene.Node) *scene.Node {
	if t.originalRoot == nil || t.cloneRoot == nil {
		return nil
	}
	return pathres.Resolve(t.originalRoot, pathres.Relative(n, t.cloneRoot))
}

// Target resolves the session target's counterpart in the clone, or nil.
func (t *Tracker) Target() *scene.Node {
	if t.cloneRoot == nil {
		return nil
	}
	return pathres.Resolve(t.cloneRoot, t.targetPath)
}

// Clear drops all references so nothing outlives the session.
func (t *Tracker) Clear() {
	t.originalRoot = nil
	t.cloneRoot = nil
	t.targetPath = ""
}

// guardSelection sets the selection to want and re-asserts it for up to
// ticks host loop turns. External selection handlers running in the same
// turn can override the selection after the engine sets it; the guard wins
// the race within its budget and then gives up, so a user who genuinely
// selects something else right after isolation is not fought forever.
func (e *Engine) guardSelection(want *scene.Node, ticks int) {
	e.host.SetSelection(want)
	e.guardTick(want, ticks)
}

func (e *Engine) guardTick(want *scene.Node, remaining int) {
	if remaining <= 0 {
		return
	}
	e.host.Defer(func() {
		if e.state != Active {
			return
		}
		if e.host.Selection() != want {
			e.log.Debug("selection stolen, re-asserting",
				"remaining", remaining-1)
			e.host.SetSelection(want)
		}
		e.guardTick(want, remaining-1)
	})
}
