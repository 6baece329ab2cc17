package pathres

import (
	"testing"

	"github.com/rigtools/rigpreview/internal/scene"
)

func buildHierarchy() (root, spine, tail *scene.Node) {
	root = scene.NewNode("Rig")
	spine = scene.NewNode("Spine")
	tail = scene.NewNode("Tail")
	spine.AddChild(tail)
	root.AddChild(spine)
	return root, spine, tail
}

func TestRelative(t *testing.T) {
	root, spine, tail := buildHierarchy()

	tests := []struct {
		name string
		node *scene.Node
		want string
	}{
		{"direct child", spine, "Spine"},
		{"grandchild", tail, "Spine/Tail"},
		{"root itself", root, ""},
		{"nil node", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Relative(tt.node, root); got != tt.want {
				t.Errorf("Relative = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRelative_Deterministic(t *testing.T) {
	root, _, tail := buildHierarchy()
	a := Relative(tail, root)
	b := Relative(tail, root)
	if a != b {
		t.Errorf("identical inputs gave %q then %q", a, b)
	}
}

func TestResolve(t *testing.T) {
	root, spine, tail := buildHierarchy()

	if got := Resolve(root, "Spine/Tail"); got != tail {
		t.Errorf("Resolve(Spine/Tail) = %v", got)
	}
	if got := Resolve(root, "Spine"); got != spine {
		t.Errorf("Resolve(Spine) = %v", got)
	}
	if got := Resolve(root, ""); got != root {
		t.Errorf("Resolve(\"\") = %v, want root", got)
	}
	if got := Resolve(root, "Spine/Missing"); got != nil {
		t.Errorf("missing segment must resolve to nil, got %v", got)
	}
	if got := Resolve(nil, "Spine"); got != nil {
		t.Errorf("nil root must resolve to nil, got %v", got)
	}
}

func TestRoundTrip_AcrossCongruentGraphs(t *testing.T) {
	rootA, _, tailA := buildHierarchy()
	rootB, _, tailB := buildHierarchy()

	path := Relative(tailA, rootA)
	if got := Resolve(rootB, path); got != tailB {
		t.Errorf("congruent resolve = %v, want counterpart tail", got)
	}
}

func TestLocate(t *testing.T) {
	reg := scene.NewRegistry()
	root, _, tail := buildHierarchy()
	reg.Add("Main", root)

	sp, ok := Locate(tail, reg)
	if !ok {
		t.Fatal("Locate failed for a registered scene")
	}
	if sp.Scene != "Main" || sp.Path != "Spine/Tail" {
		t.Errorf("sp = %+v", sp)
	}
	if got := sp.Resolve(reg); got != tail {
		t.Errorf("sp.Resolve = %v, want tail", got)
	}

	orphan := scene.NewNode("Orphan")
	if _, ok := Locate(orphan, reg); ok {
		t.Error("Locate must fail for a node outside all scenes")
	}
}

func TestScenePath_SurvivesRebuild(t *testing.T) {
	reg := scene.NewRegistry()
	rootA, _, tailA := buildHierarchy()
	reg.Add("Main", rootA)

	sp, _ := Locate(tailA, reg)

	// Rebuild the scene from scratch, as a host reload does.
	reg.Clear()
	rootB, _, tailB := buildHierarchy()
	reg.Add("Main", rootB)

	got := sp.Resolve(reg)
	if got != tailB {
		t.Errorf("resolved %v, want the rebuilt tail", got)
	}
	if got == tailA {
		t.Error("resolution must not depend on the old identity")
	}
}

func TestScenePath_IsZero(t *testing.T) {
	if !(ScenePath{}).IsZero() {
		t.Error("zero value must report IsZero")
	}
	if (ScenePath{Scene: "Main"}).IsZero() {
		t.Error("non-zero path must not report IsZero")
	}
}
