package simulation

import (
	"testing"

	"github.com/rigtools/rigpreview/internal/pathres"
	"github.com/rigtools/rigpreview/internal/property"
	"github.com/rigtools/rigpreview/internal/rig"
	"github.com/rigtools/rigpreview/internal/scene"
)

// SpringRig builds the standard test scene: a character root with a spring
// chain on its tail, a sphere collider on its hips, and a foreign trigger
// that cloning must strip.
//
//	SceneRoot
//	└── Rig
//	    ├── Hips   (SphereCollider)
//	    └── Tail   (SpringChain, AutoBuildTrigger)
func SpringRig() *scene.Node {
	root := scene.NewNode("SceneRoot")
	rigNode := scene.NewNode("Rig")

	hips := scene.NewNode("Hips")
	hips.AddComponent(&rig.SphereCollider{Offset: property.Vec3{X: 0, Y: 0.9, Z: 0}, Radius: 0.25})

	tail := scene.NewNode("Tail")
	tail.AddComponent(&rig.SpringChain{
		Gravity:    0.3,
		GravityDir: property.Vec3{X: 0, Y: -1, Z: 0},
		Stiffness:  1,
		Drag:       0.4,
		HitRadius:  0.02,
		RootBones:  []string{"tail_00", "tail_01"},
	})
	tail.AddComponent(&rig.AutoBuildTrigger{Target: "all"})

	rigNode.AddChild(hips)
	rigNode.AddChild(tail)
	root.AddChild(rigNode)
	return root
}

// Chain resolves the spring chain component at path under root.
func Chain(t *testing.T, root *scene.Node, path string) *rig.SpringChain {
	t.Helper()
	node := pathres.Resolve(root, path)
	if node == nil {
		t.Fatalf("Chain: path %q does not resolve", path)
	}
	sc, ok := node.Component(rig.TypeSpringChain).(*rig.SpringChain)
	if !ok {
		t.Fatalf("Chain: no spring chain at %q", path)
	}
	return sc
}

// Collider resolves the sphere collider component at path under root.
func Collider(t *testing.T, root *scene.Node, path string) *rig.SphereCollider {
	t.Helper()
	node := pathres.Resolve(root, path)
	if node == nil {
		t.Fatalf("Collider: path %q does not resolve", path)
	}
	sc, ok := node.Component(rig.TypeSphereCollider).(*rig.SphereCollider)
	if !ok {
		t.Fatalf("Collider: no sphere collider at %q", path)
	}
	return sc
}
