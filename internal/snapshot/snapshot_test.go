package snapshot

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rigtools/rigpreview/internal/property"
	"github.com/rigtools/rigpreview/internal/scene"
)

type chain struct {
	Gravity float64
	Dir     property.Vec3
	Bones   []string
	Group   property.Ref
	Handler func() // unsupported kind, must be skipped
}

func (*chain) TypeName() string { return "snap.Chain" }

type decor struct {
	Label string
}

func (*decor) TypeName() string { return "snap.Decor" }

func init() {
	scene.RegisterTracked("snap.Chain")
}

func buildRig() *scene.Node {
	root := scene.NewNode("Rig")
	spine := scene.NewNode("Spine")
	tail := scene.NewNode("Tail")
	tail.AddComponent(&chain{
		Gravity: 0.3,
		Dir:     property.Vec3{X: 0, Y: -1, Z: 0},
		Bones:   []string{"a", "b"},
		Group:   property.Ref{ID: "grp"},
	})
	tail.AddComponent(&decor{Label: "untracked"})
	spine.AddChild(tail)
	root.AddChild(spine)
	return root
}

func TestCapture(t *testing.T) {
	store := NewStore(nil)
	base := store.Capture(buildRig())

	key := ComponentKey{Path: "Spine/Tail", Type: "snap.Chain"}
	ps, ok := base[key]
	if !ok {
		t.Fatalf("missing key %s; have %v", key, base)
	}
	if len(base) != 1 {
		t.Errorf("captured %d components, want 1 (untracked must be ignored)", len(base))
	}

	if got := ps["Gravity"]; got.Kind != property.KindFloat || got.Value != "0.3" {
		t.Errorf("Gravity = %+v", got)
	}
	if got := ps["Dir"]; got.Kind != property.KindVec3 || got.Value != "0,-1,0" {
		t.Errorf("Dir = %+v", got)
	}
	if got := ps["Bones/size"]; got.Kind != property.KindArraySize || got.Value != "2" {
		t.Errorf("Bones/size = %+v", got)
	}
	if got := ps["Group"]; got.Kind != property.KindObjectRef || got.Value != "grp" {
		t.Errorf("Group = %+v", got)
	}
	if _, ok := ps["Handler"]; ok {
		t.Error("unsupported kind must not be captured")
	}
}

func TestCapture_Idempotent(t *testing.T) {
	root := buildRig()
	store := NewStore(nil)

	a := store.Capture(root)
	b := store.Capture(root)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("captures differ (-first +second):\n%s", diff)
	}
}

func TestCapture_IncludesInactiveNodes(t *testing.T) {
	root := buildRig()
	root.Child("Spine").Active = false

	base := NewStore(nil).Capture(root)
	if _, ok := base[ComponentKey{Path: "Spine/Tail", Type: "snap.Chain"}]; !ok {
		t.Error("components under inactive nodes must be captured")
	}
}

func TestCapture_DuplicateKeyKeepsFirst(t *testing.T) {
	root := scene.NewNode("Rig")
	first := &chain{Gravity: 1}
	second := &chain{Gravity: 2}
	root.AddComponent(first)
	root.AddComponent(second)

	base := NewStore(nil).Capture(root)
	ps := base[ComponentKey{Path: "", Type: "snap.Chain"}]
	if ps == nil {
		t.Fatal("duplicate-keyed component missing entirely")
	}
	if ps["Gravity"].Value != "1" {
		t.Errorf("Gravity = %s, want the first component's value", ps["Gravity"].Value)
	}
}

func TestCapture_NilRoot(t *testing.T) {
	base := NewStore(nil).Capture(nil)
	if len(base) != 0 {
		t.Errorf("Capture(nil) = %v, want empty", base)
	}
}

func TestComponentKey_String(t *testing.T) {
	key := ComponentKey{Path: "Spine/Tail", Type: "snap.Chain"}
	if got := key.String(); got != "snap.Chain@Spine/Tail" {
		t.Errorf("String = %q", got)
	}
}
