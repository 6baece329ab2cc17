package property

import (
	"fmt"
	"reflect"
)

// Prop is one enumerated property of a component: a stable path, a kind,
// and typed accessors bound to the underlying field.
type Prop struct {
	Path string
	Kind Kind
	Get  func() Value
	Set  func(Value) error
}

// denied lists bookkeeping fields that are never meaningful to snapshot or
// diff: hierarchy/ownership, visibility and script-reference plumbing.
var denied = map[string]bool{
	"Owner":     true,
	"Enabled":   true,
	"HideFlags": true,
	"Script":    true,
}

var (
	vec2Type   = reflect.TypeOf(Vec2{})
	vec3Type   = reflect.TypeOf(Vec3{})
	vec4Type   = reflect.TypeOf(Vec4{})
	quatType   = reflect.TypeOf(Quat{})
	colorType  = reflect.TypeOf(Color{})
	curveType  = reflect.TypeOf(Curve{})
	boundsType = reflect.TypeOf(Bounds{})
	refType    = reflect.TypeOf(Ref{})
)

// Walk enumerates the codec-visible properties of a component in declaration
// order. The component must be a pointer to a struct; anything else yields
// nil. Paths are '/'-joined field chains, slices contribute a "<field>/size"
// entry followed by their elements. Fields on the deny-list are skipped, and
// fields of unsupported types surface as KindUnknown so callers can skip
// them uniformly.
func Walk(component any) []Prop {
	v := reflect.ValueOf(component)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil
	}
	var props []Prop
	walkStruct(v, "", &props)
	return props
}

func walkStruct(v reflect.Value, prefix string, out *[]Prop) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || denied[f.Name] {
			continue
		}
		path := f.Name
		if prefix != "" {
			path = prefix + "/" + f.Name
		}
		walkValue(v.Field(i), path, out)
	}
}

func walkValue(fv reflect.Value, path string, out *[]Prop) {
	switch fv.Type() {
	case vec2Type:
		*out = append(*out, structProp(path, KindVec2,
			func() Value { return Vec2Value(fv.Interface().(Vec2)) },
			func(val Value) { fv.Set(reflect.ValueOf(val.AsVec2())) }))
		return
	case vec3Type:
		*out = append(*out, structProp(path, KindVec3,
			func() Value { return Vec3Value(fv.Interface().(Vec3)) },
			func(val Value) { fv.Set(reflect.ValueOf(val.AsVec3())) }))
		return
	case vec4Type:
		*out = append(*out, structProp(path, KindVec4,
			func() Value { return Vec4Value(fv.Interface().(Vec4)) },
			func(val Value) { fv.Set(reflect.ValueOf(val.AsVec4())) }))
		return
	case quatType:
		*out = append(*out, structProp(path, KindQuat,
			func() Value { return QuatValue(fv.Interface().(Quat)) },
			func(val Value) { fv.Set(reflect.ValueOf(val.AsQuat())) }))
		return
	case colorType:
		*out = append(*out, structProp(path, KindColor,
			func() Value { return ColorValue(fv.Interface().(Color)) },
			func(val Value) { fv.Set(reflect.ValueOf(val.AsColor())) }))
		return
	case curveType:
		*out = append(*out, structProp(path, KindCurve,
			func() Value { return CurveValue(fv.Interface().(Curve)) },
			func(val Value) { fv.Set(reflect.ValueOf(val.Curve.Clone())) }))
		return
	case boundsType:
		*out = append(*out, structProp(path, KindBounds,
			func() Value { return BoundsValue(fv.Interface().(Bounds)) },
			func(val Value) { fv.Set(reflect.ValueOf(val.Bounds)) }))
		return
	case refType:
		*out = append(*out, Prop{
			Path: path,
			Kind: KindObjectRef,
			Get:  func() Value { return RefValue(fv.Interface().(Ref).ID) },
			// References are reported, never restored.
			Set: func(Value) error { return ErrUnrestorableReference },
		})
		return
	}

	switch fv.Kind() {
	case reflect.Bool:
		*out = append(*out, Prop{
			Path: path,
			Kind: KindBool,
			Get:  func() Value { return BoolValue(fv.Bool()) },
			Set: func(val Value) error {
				if val.Kind != KindBool {
					return kindMismatch(path, KindBool, val.Kind)
				}
				fv.SetBool(val.Bool)
				return nil
			},
		})
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// Named integer types are enumerations; plain ints are counts.
		kind := KindInt
		if fv.Type().PkgPath() != "" {
			kind = KindEnum
		}
		*out = append(*out, Prop{
			Path: path,
			Kind: kind,
			Get:  func() Value { return Value{Kind: kind, Int: fv.Int()} },
			Set: func(val Value) error {
				if val.Kind != kind {
					return kindMismatch(path, kind, val.Kind)
				}
				fv.SetInt(val.Int)
				return nil
			},
		})
	case reflect.Float32, reflect.Float64:
		*out = append(*out, Prop{
			Path: path,
			Kind: KindFloat,
			Get:  func() Value { return FloatValue(fv.Float()) },
			Set: func(val Value) error {
				if val.Kind != KindFloat {
					return kindMismatch(path, KindFloat, val.Kind)
				}
				fv.SetFloat(val.Float)
				return nil
			},
		})
	case reflect.String:
		*out = append(*out, Prop{
			Path: path,
			Kind: KindString,
			Get:  func() Value { return StringValue(fv.String()) },
			Set: func(val Value) error {
				if val.Kind != KindString {
					return kindMismatch(path, KindString, val.Kind)
				}
				fv.SetString(val.Str)
				return nil
			},
		})
	case reflect.Slice:
		walkSlice(fv, path, out)
	case reflect.Struct:
		walkStruct(fv, path, out)
	default:
		*out = append(*out, Prop{
			Path: path,
			Kind: KindUnknown,
			Get:  func() Value { return Value{Kind: KindUnknown} },
			Set:  func(Value) error { return ErrUnsupportedKind },
		})
	}
}

func walkSlice(fv reflect.Value, path string, out *[]Prop) {
	*out = append(*out, Prop{
		Path: path + "/size",
		Kind: KindArraySize,
		Get:  func() Value { return ArraySizeValue(fv.Len()) },
		Set: func(val Value) error {
			if val.Kind != KindArraySize {
				return kindMismatch(path+"/size", KindArraySize, val.Kind)
			}
			n := int(val.Int)
			if n < 0 {
				return fmt.Errorf("property %s: negative size %d", path, n)
			}
			if n == fv.Len() {
				return nil
			}
			resized := reflect.MakeSlice(fv.Type(), n, n)
			reflect.Copy(resized, fv)
			fv.Set(resized)
			return nil
		},
	})
	for i := 0; i < fv.Len(); i++ {
		walkValue(fv.Index(i), fmt.Sprintf("%s/%d", path, i), out)
	}
}

// structProp builds a Prop for one of the known math/value struct types,
// enforcing the kind tag on set.
func structProp(path string, kind Kind, get func() Value, set func(Value)) Prop {
	return Prop{
		Path: path,
		Kind: kind,
		Get:  get,
		Set: func(val Value) error {
			if val.Kind != kind {
				return kindMismatch(path, kind, val.Kind)
			}
			set(val)
			return nil
		},
	}
}

func kindMismatch(path string, want, got Kind) error {
	return fmt.Errorf("property %s: kind mismatch, want %s got %s", path, want, got)
}
