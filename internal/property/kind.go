// Package property defines the typed property model shared by the snapshot,
// diff and apply stages: value kinds, a tagged Value union, a string codec,
// and a reflection-based walker that enumerates the editable properties of a
// component without any per-type schema.
package property

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the wire type of a property value. The kind tag travels
// with every serialized value so that a change entry can be re-applied after
// the in-memory object graph has been rebuilt.
type Kind int

const (
	KindUnknown Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindVec2
	KindVec3
	KindVec4
	KindQuat
	KindColor
	KindEnum
	KindCurve
	KindBounds
	KindArraySize
	KindObjectRef
)

var kindNames = map[Kind]string{
	KindUnknown:   "unknown",
	KindBool:      "bool",
	KindInt:       "int",
	KindFloat:     "float",
	KindString:    "string",
	KindVec2:      "vec2",
	KindVec3:      "vec3",
	KindVec4:      "vec4",
	KindQuat:      "quat",
	KindColor:     "color",
	KindEnum:      "enum",
	KindCurve:     "curve",
	KindBounds:    "bounds",
	KindArraySize: "array-size",
	KindObjectRef: "object-ref",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a kind name back to its Kind. Unrecognized names map to
// KindUnknown rather than failing, so a buffer written by a newer version
// degrades to skipped entries instead of a decode error.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return k
		}
	}
	return KindUnknown
}

// MarshalJSON encodes the kind as its stable name. The durable change buffer
// must stay readable across releases; integer constants would not be.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("decoding property kind: %w", err)
	}
	*k = ParseKind(name)
	return nil
}

// Numeric reports whether values of this kind are compared with a float
// tolerance rather than exact string equality.
func (k Kind) Numeric() bool {
	switch k {
	case KindFloat, KindVec2, KindVec3, KindVec4, KindQuat, KindColor:
		return true
	default:
		return false
	}
}
