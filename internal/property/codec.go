package property

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnrestorableReference is returned when deserializing an object-reference
// value. Reference identifiers do not survive a host reload, so restoring
// them is a permanent non-goal; callers report "cannot restore" and continue.
var ErrUnrestorableReference = errors.New("object reference cannot be restored")

// ErrUnsupportedKind is returned when deserializing a value of an unknown
// kind. Such entries are skipped, never fatal.
var ErrUnsupportedKind = errors.New("unsupported property kind")

// Serialize converts a value into its transport string. Unknown kinds
// serialize to the empty string and are expected to be skipped by callers.
// Floats keep full round-trip precision ('g' formatting, 64-bit).
func Serialize(v Value) string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt, KindEnum, KindArraySize:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return formatFloat(v.Float)
	case KindString, KindObjectRef:
		return v.Str
	case KindVec2:
		return joinFloats(v.Vec[:2])
	case KindVec3:
		return joinFloats(v.Vec[:3])
	case KindVec4, KindQuat, KindColor:
		return joinFloats(v.Vec[:4])
	case KindCurve:
		data, err := json.Marshal(v.Curve)
		if err != nil {
			return ""
		}
		return string(data)
	case KindBounds:
		data, err := json.Marshal(v.Bounds)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

// Deserialize parses a transport string back into a value of the given kind.
// Object references return ErrUnrestorableReference by design; unknown kinds
// return ErrUnsupportedKind.
func Deserialize(s string, k Kind) (Value, error) {
	switch k {
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, fmt.Errorf("parsing bool %q: %w", s, err)
		}
		return BoolValue(b), nil
	case KindInt, KindEnum, KindArraySize:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("parsing %s %q: %w", k, s, err)
		}
		return Value{Kind: k, Int: n}, nil
	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, fmt.Errorf("parsing float %q: %w", s, err)
		}
		return FloatValue(f), nil
	case KindString:
		return StringValue(s), nil
	case KindVec2, KindVec3, KindVec4, KindQuat, KindColor:
		comps, err := splitFloats(s, vectorArity(k))
		if err != nil {
			return Value{}, fmt.Errorf("parsing %s %q: %w", k, s, err)
		}
		v := Value{Kind: k}
		copy(v.Vec[:], comps)
		return v, nil
	case KindCurve:
		var c Curve
		if err := json.Unmarshal([]byte(s), &c); err != nil {
			return Value{}, fmt.Errorf("parsing curve: %w", err)
		}
		return Value{Kind: KindCurve, Curve: c}, nil
	case KindBounds:
		var b Bounds
		if err := json.Unmarshal([]byte(s), &b); err != nil {
			return Value{}, fmt.Errorf("parsing bounds: %w", err)
		}
		return BoundsValue(b), nil
	case KindObjectRef:
		return Value{}, ErrUnrestorableReference
	default:
		return Value{}, ErrUnsupportedKind
	}
}

func vectorArity(k Kind) int {
	switch k {
	case KindVec2:
		return 2
	case KindVec3:
		return 3
	default:
		return 4
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func joinFloats(fs []float64) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = formatFloat(f)
	}
	return strings.Join(parts, ",")
}

func splitFloats(s string, arity int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != arity {
		return nil, fmt.Errorf("expected %d components, got %d", arity, len(parts))
	}
	fs := make([]float64, arity)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}
	return fs, nil
}
