package simulation

import (
	"context"
	"math"
	"testing"

	"github.com/rigtools/rigpreview/internal/pathres"
	"github.com/rigtools/rigpreview/internal/property"
	"github.com/rigtools/rigpreview/internal/scene"
)

// AssertFloat asserts a walker-visible float property at nodePath/propPath
// in the final scene.
func AssertFloat(t *testing.T, result Result, nodePath, propPath string, want float64) {
	t.Helper()
	got, ok := lookupProperty(result.Scene, nodePath, propPath)
	if !ok {
		t.Errorf("AssertFloat: %s %s not found", nodePath, propPath)
		return
	}
	if math.Abs(got.Float-want) > 1e-9 {
		t.Errorf("AssertFloat: %s %s = %v, want %v", nodePath, propPath, got.Float, want)
	}
}

// AssertString asserts a walker-visible string property in the final scene.
func AssertString(t *testing.T, result Result, nodePath, propPath, want string) {
	t.Helper()
	got, ok := lookupProperty(result.Scene, nodePath, propPath)
	if !ok {
		t.Errorf("AssertString: %s %s not found", nodePath, propPath)
		return
	}
	if got.Str != want {
		t.Errorf("AssertString: %s %s = %q, want %q", nodePath, propPath, got.Str, want)
	}
}

func lookupProperty(root *scene.Node, nodePath, propPath string) (property.Value, bool) {
	node := pathres.Resolve(root, nodePath)
	if node == nil {
		return property.Value{}, false
	}
	for _, c := range node.Components() {
		for _, p := range property.Walk(c) {
			if p.Path == propPath {
				return p.Get(), true
			}
		}
	}
	return property.Value{}, false
}

// AssertCloneGone asserts no preview clone survived the session.
func AssertCloneGone(t *testing.T, result Result) {
	t.Helper()
	found := false
	result.Scene.Visit(func(n *scene.Node) {
		if n.Name == "Rig (Preview)" {
			found = true
		}
	})
	if found {
		t.Error("AssertCloneGone: preview clone still present after exit")
	}
}

// AssertRootsActive asserts every top-level root in the final scene is
// active again.
func AssertRootsActive(t *testing.T, result Result) {
	t.Helper()
	for _, top := range result.Scene.Children() {
		if !top.Active {
			t.Errorf("AssertRootsActive: root %s still deactivated", top.Name)
		}
	}
}

// AssertBufferEmpty asserts the durable change buffer holds nothing.
func AssertBufferEmpty(t *testing.T, result Result) {
	t.Helper()
	pending, err := result.Store.LoadBuffer(context.Background())
	if err != nil {
		t.Fatalf("AssertBufferEmpty: %v", err)
	}
	if pending != nil {
		t.Errorf("AssertBufferEmpty: buffer still holds a change set from %s", pending.Origin)
	}
}

// AssertHookEnabled asserts the named automation hook's enabled state.
func AssertHookEnabled(t *testing.T, result Result, name string, want bool) {
	t.Helper()
	hook := result.Host.Automations().Find(name)
	if hook == nil {
		t.Fatalf("AssertHookEnabled: hook %s not registered", name)
	}
	if hook.Enabled != want {
		t.Errorf("AssertHookEnabled: %s enabled = %v, want %v", name, hook.Enabled, want)
	}
}
