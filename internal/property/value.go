package property

// Vec2 is a two-component vector.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec3 is a three-component vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec4 is a four-component vector.
type Vec4 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Quat is a rotation quaternion.
type Quat struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Color is an RGBA color with float components.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Keyframe is one key of an animation curve.
type Keyframe struct {
	Time       float64 `json:"t"`
	Value      float64 `json:"v"`
	InTangent  float64 `json:"in"`
	OutTangent float64 `json:"out"`
}

// Curve is an ordered list of keyframes.
type Curve struct {
	Keys []Keyframe `json:"keys"`
}

// Clone returns a deep copy of the curve.
func (c Curve) Clone() Curve {
	if c.Keys == nil {
		return Curve{}
	}
	keys := make([]Keyframe, len(c.Keys))
	copy(keys, c.Keys)
	return Curve{Keys: keys}
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Center  Vec3 `json:"center"`
	Extents Vec3 `json:"extents"`
}

// Ref is an opaque reference to another object in the host environment.
// The identifier is stable only within one process lifetime; after a host
// reload it cannot be resolved back into a live reference.
type Ref struct {
	ID string
}

// Value is a tagged union holding one property value. Exactly the fields
// implied by Kind are meaningful; the rest stay zero.
type Value struct {
	Kind   Kind
	Bool   bool
	Int    int64
	Float  float64
	Str    string
	Vec    [4]float64 // vec2/3/4, quat (x,y,z,w), color (r,g,b,a)
	Curve  Curve
	Bounds Bounds
}

func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func IntValue(n int64) Value     { return Value{Kind: KindInt, Int: n} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func EnumValue(n int64) Value    { return Value{Kind: KindEnum, Int: n} }
func ArraySizeValue(n int) Value { return Value{Kind: KindArraySize, Int: int64(n)} }
func RefValue(id string) Value   { return Value{Kind: KindObjectRef, Str: id} }
func CurveValue(c Curve) Value   { return Value{Kind: KindCurve, Curve: c.Clone()} }
func BoundsValue(b Bounds) Value { return Value{Kind: KindBounds, Bounds: b} }

func Vec2Value(v Vec2) Value {
	return Value{Kind: KindVec2, Vec: [4]float64{v.X, v.Y, 0, 0}}
}

func Vec3Value(v Vec3) Value {
	return Value{Kind: KindVec3, Vec: [4]float64{v.X, v.Y, v.Z, 0}}
}

func Vec4Value(v Vec4) Value {
	return Value{Kind: KindVec4, Vec: [4]float64{v.X, v.Y, v.Z, v.W}}
}

func QuatValue(q Quat) Value {
	return Value{Kind: KindQuat, Vec: [4]float64{q.X, q.Y, q.Z, q.W}}
}

func ColorValue(c Color) Value {
	return Value{Kind: KindColor, Vec: [4]float64{c.R, c.G, c.B, c.A}}
}

// AsVec2 reinterprets the vector payload.
func (v Value) AsVec2() Vec2 { return Vec2{v.Vec[0], v.Vec[1]} }

// AsVec3 reinterprets the vector payload.
func (v Value) AsVec3() Vec3 { return Vec3{v.Vec[0], v.Vec[1], v.Vec[2]} }

// AsVec4 reinterprets the vector payload.
func (v Value) AsVec4() Vec4 { return Vec4{v.Vec[0], v.Vec[1], v.Vec[2], v.Vec[3]} }

// AsQuat reinterprets the vector payload.
func (v Value) AsQuat() Quat { return Quat{v.Vec[0], v.Vec[1], v.Vec[2], v.Vec[3]} }

// AsColor reinterprets the vector payload.
func (v Value) AsColor() Color { return Color{v.Vec[0], v.Vec[1], v.Vec[2], v.Vec[3]} }
