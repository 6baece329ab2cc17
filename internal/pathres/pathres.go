// Package pathres computes and re-resolves stable relative addresses inside
// a scene hierarchy. Paths are the only correlation mechanism between two
// structurally congruent graphs (original and clone) and the only identity
// that survives a host reload, so they depend on node names alone, never on
// object identity.
package pathres

import (
	"strings"

	"github.com/rigtools/rigpreview/internal/scene"
)

// Relative builds the '/'-joined chain of names from root (exclusive) to
// node (inclusive). Identical inputs always yield identical output. When
// root is not an ancestor of node the chain runs to node's topmost ancestor
// instead; resolution against the wrong root then simply misses.
func Relative(node, root *scene.Node) string {
	if node == nil || node == root {
		return ""
	}
	var segs []string
	for n := node; n != nil && n != root; n = n.Parent() {
		segs = append(segs, n.Name)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, "/")
}

// Resolve walks named children segment by segment from root. A missing
// segment yields nil — a recoverable miss, never an error: the caller is
// usually probing a graph that is expected, not guaranteed, to be congruent.
func Resolve(root *scene.Node, path string) *scene.Node {
	if root == nil {
		return nil
	}
	if path == "" {
		return root
	}
	cur := root
	for _, seg := range strings.Split(path, "/") {
		cur = cur.Child(seg)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// ScenePath addresses a node across a host reload: the containing scene's
// name plus the full hierarchy path from the scene root. Plain data by
// construction.
type ScenePath struct {
	Scene string `json:"scene"`
	Path  string `json:"path"`
}

// Locate computes the ScenePath of a node. Returns false when the node's
// root is not a registered scene.
func Locate(node *scene.Node, reg *scene.Registry) (ScenePath, bool) {
	if node == nil || reg == nil {
		return ScenePath{}, false
	}
	root := node.Root()
	name, ok := reg.NameOf(root)
	if !ok {
		return ScenePath{}, false
	}
	return ScenePath{Scene: name, Path: Relative(node, root)}, true
}

// Resolve re-locates the addressed node in the current object graph, or nil.
func (sp ScenePath) Resolve(reg *scene.Registry) *scene.Node {
	if reg == nil {
		return nil
	}
	return Resolve(reg.Scene(sp.Scene), sp.Path)
}

// IsZero reports whether the path is unset.
func (sp ScenePath) IsZero() bool { return sp.Scene == "" && sp.Path == "" }

func (sp ScenePath) String() string { return sp.Scene + ":" + sp.Path }
