package scene

import "reflect"

// CloneTree deep-copies the subtree rooted at root. Components whose type is
// not on the essential allow-list are stripped from the clone — foreign
// triggers must not ride along into the simulated environment. Returns the
// clone and the number of stripped components.
//
// The clone is structurally congruent with the original (same names, same
// child order) but shares no object identity with it.
func CloneTree(root *Node) (*Node, int) {
	if root == nil {
		return nil, 0
	}
	stripped := 0
	clone := cloneNode(root, &stripped)
	return clone, stripped
}

func cloneNode(n *Node, stripped *int) *Node {
	c := &Node{Name: n.Name, Active: n.Active}
	for _, comp := range n.components {
		if !IsEssential(comp.TypeName()) {
			*stripped++
			continue
		}
		c.components = append(c.components, CloneComponent(comp))
	}
	for _, child := range n.children {
		c.AddChild(cloneNode(child, stripped))
	}
	return c
}

// CloneComponent produces an independent copy of a component using generic
// reflection: a shallow struct copy followed by a deep copy of any slice or
// nested struct fields, so curves and bone lists do not alias the original.
func CloneComponent(c Component) Component {
	v := reflect.ValueOf(c)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		// Value components copy by assignment.
		return c
	}
	dst := reflect.New(v.Elem().Type())
	dst.Elem().Set(v.Elem())
	deepCopyOwned(dst.Elem())
	return dst.Interface().(Component)
}

// deepCopyOwned replaces slice fields with independent copies, recursing
// into nested structs. Maps and pointers are left alone: components under
// this engine's property model do not carry them, and anything it cannot
// copy is better shared than half-copied.
func deepCopyOwned(v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			f := v.Field(i)
			if f.CanSet() {
				deepCopyOwned(f)
			}
		}
	case reflect.Slice:
		if v.IsNil() {
			return
		}
		cp := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(cp, v)
		v.Set(cp)
		for i := 0; i < v.Len(); i++ {
			deepCopyOwned(v.Index(i))
		}
	}
}
