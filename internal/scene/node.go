// Package scene models the host's object hierarchy as seen by the preview
// engine: named nodes with components, per-type registries that mark which
// component types the engine tracks, deep cloning with foreign-component
// stripping, a registry of loaded scenes, and the automation-hook registry
// used to suppress third-party build systems for the duration of a session.
//
// The package is deliberately host-agnostic; the real editor adapts its own
// object graph onto these types. Nothing here is safe for concurrent use
// except where noted — the engine runs on a single cooperative event loop.
package scene

// Node is one element of a scene hierarchy. Children are ordered; component
// order is the attachment order.
type Node struct {
	Name   string
	Active bool

	parent     *Node
	children   []*Node
	components []Component
}

// NewNode creates an active, detached node.
func NewNode(name string) *Node {
	return &Node{Name: name, Active: true}
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in order. The returned slice is the
// live backing slice; callers must not mutate it.
func (n *Node) Children() []*Node { return n.children }

// AddChild appends c as the last child, detaching it from any previous
// parent first.
func (n *Node) AddChild(c *Node) {
	if c == nil || c == n {
		return
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

// RemoveChild detaches c from n. A node that is not a child is ignored.
func (n *Node) RemoveChild(c *Node) {
	for i, child := range n.children {
		if child == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// Child returns the first direct child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Root walks up to the topmost ancestor.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// AddComponent attaches a component to the node.
func (n *Node) AddComponent(c Component) {
	if c == nil {
		return
	}
	n.components = append(n.components, c)
}

// Components returns the node's components in attachment order. The returned
// slice is the live backing slice; callers must not mutate it.
func (n *Node) Components() []Component { return n.components }

// Component returns the first component with the given type name, or nil.
func (n *Node) Component(typeName string) Component {
	for _, c := range n.components {
		if c.TypeName() == typeName {
			return c
		}
	}
	return nil
}

// Visit calls fn for n and every descendant, depth-first in child order.
// Inactive nodes are visited too: snapshot capture must see the whole
// subtree regardless of activation state.
func (n *Node) Visit(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Visit(fn)
	}
}

// ActiveInHierarchy reports whether the node and all its ancestors are
// active.
func (n *Node) ActiveInHierarchy() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if !cur.Active {
			return false
		}
	}
	return true
}
