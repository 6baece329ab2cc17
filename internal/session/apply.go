package session

import (
	"errors"

	"github.com/rigtools/rigpreview/internal/changeset"
	"github.com/rigtools/rigpreview/internal/pathres"
	"github.com/rigtools/rigpreview/internal/property"
	"github.com/rigtools/rigpreview/internal/scene"
	"github.com/rigtools/rigpreview/internal/snapshot"
)

// apply writes a change set onto the component graph under root. Failures
// are per-entry: a missing node, a type mismatch or an unrestorable value
// skips that entry with a log line and the rest still land. Returns the
// applied and skipped entry counts.
func (e *Engine) apply(root *scene.Node, cs changeset.ChangeSet) (applied, skipped int) {
	for _, cc := range cs.Components {
		node := pathres.Resolve(root, cc.Key.Path)
		if node == nil {
			e.log.Warn("apply: node not found",
				"key", cc.Key.String())
			e.trace.Skipped(e.sessionID, "apply", cc.Key.String(), "", "node not found")
			skipped += len(cc.Entries)
			continue
		}
		comp := findComponent(node, cc.Key.Type)
		if comp == nil {
			e.log.Warn("apply: component not found",
				"key", cc.Key.String())
			e.trace.Skipped(e.sessionID, "apply", cc.Key.String(), "", "component not found")
			skipped += len(cc.Entries)
			continue
		}
		for _, entry := range cc.Entries {
			if e.applyEntry(comp, cc.Key, entry) {
				applied++
			} else {
				skipped++
			}
		}
	}
	return applied, skipped
}

// applyEntry sets one property. The component is re-walked per entry: an
// array-size entry resizes the backing slice, which invalidates every
// setter captured before it.
func (e *Engine) applyEntry(comp scene.Component, key snapshot.ComponentKey, entry changeset.Entry) bool {
	var target *property.Prop
	for _, p := range property.Walk(comp) {
		if p.Path == entry.Path {
			prop := p
			target = &prop
			break
		}
	}
	if target == nil {
		e.log.Warn("apply: property not found",
			"key", key.String(), "path", entry.Path)
		e.trace.Skipped(e.sessionID, "apply", key.String(), entry.Path, "property not found")
		return false
	}
	if target.Kind != entry.Kind {
		e.log.Warn("apply: property kind changed",
			"key", key.String(), "path", entry.Path,
			"have", target.Kind.String(), "want", entry.Kind.String())
		e.trace.Skipped(e.sessionID, "apply", key.String(), entry.Path, "kind mismatch")
		return false
	}

	val, err := property.Deserialize(entry.Value, entry.Kind)
	if err != nil {
		reason := "deserialize failed"
		if errors.Is(err, property.ErrUnrestorableReference) {
			reason = "object reference cannot be restored"
		}
		e.log.Warn("apply: cannot restore value",
			"key", key.String(), "path", entry.Path, "error", err)
		e.trace.Skipped(e.sessionID, "apply", key.String(), entry.Path, reason)
		return false
	}
	if err := target.Set(val); err != nil {
		e.log.Warn("apply: set failed",
			"key", key.String(), "path", entry.Path, "error", err)
		e.trace.Skipped(e.sessionID, "apply", key.String(), entry.Path, "set failed")
		return false
	}
	e.trace.Applied(e.sessionID, key.String(), entry.Path, true)
	return true
}

// findComponent matches a component on a node by type name, falling back to
// the alias table so buffers written under a legacy type name still apply.
func findComponent(node *scene.Node, typeName string) scene.Component {
	if c := node.Component(typeName); c != nil {
		return c
	}
	canonical, ok := scene.LookupType(typeName)
	if !ok {
		return nil
	}
	return node.Component(canonical)
}
