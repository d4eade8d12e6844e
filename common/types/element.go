package types

import (
	"fmt"
	"math"
	"reflect"

	"golang.org/x/exp/constraints"

	"github.com/scusemua/chained-hashtable/common/utils"
	"github.com/shopspring/decimal"
)

// ElementKind identifies which variant an Element holds.
type ElementKind int

const (
	IntKind ElementKind = iota
	UintKind
	BoolKind
	FloatKind
	RefKind
)

func (k ElementKind) String() string {
	switch k {
	case IntKind:
		return "Int"
	case UintKind:
		return "Uint"
	case BoolKind:
		return "Bool"
	case FloatKind:
		return "Float"
	case RefKind:
		return "Ref"
	default:
		return fmt.Sprintf("ElementKind(%d)", int(k))
	}
}

// Element is a generic key or value stored in a hash table.
//
// Element is a closed sum type: the only implementations are Int, Uint, Bool, Float and Ref.
// Callers are expected to switch over those five types. No conversion between variants is ever
// performed implicitly, so a table whose keys are Int will never match a Uint key, even if the
// two carry the same numeric value.
type Element interface {
	// Kind returns the variant held by the Element.
	Kind() ElementKind

	fmt.Stringer

	element()
}

// Int is the signed integer variant of Element.
type Int int64

// Uint is the unsigned integer variant of Element.
type Uint uint64

// Bool is the boolean variant of Element.
type Bool bool

// Float is the floating-point variant of Element.
type Float float64

// Ref is the opaque reference variant of Element.
//
// The table never takes ownership of Value. Two Refs are equal when their values compare equal
// with ==, so Value should hold a comparable type (a pointer, a string, a small struct, ...).
type Ref struct {
	Value any
}

func (Int) Kind() ElementKind   { return IntKind }
func (Uint) Kind() ElementKind  { return UintKind }
func (Bool) Kind() ElementKind  { return BoolKind }
func (Float) Kind() ElementKind { return FloatKind }
func (Ref) Kind() ElementKind   { return RefKind }

func (i Int) String() string   { return fmt.Sprintf("Int(%d)", int64(i)) }
func (u Uint) String() string  { return fmt.Sprintf("Uint(%d)", uint64(u)) }
func (b Bool) String() string  { return fmt.Sprintf("Bool(%t)", bool(b)) }
func (f Float) String() string { return fmt.Sprintf("Float(%g)", float64(f)) }
func (r Ref) String() string   { return fmt.Sprintf("Ref(%v)", r.Value) }

func (Int) element()   {}
func (Uint) element()  {}
func (Bool) element()  {}
func (Float) element() {}
func (Ref) element()   {}

// IntOf wraps any signed integer in an Int.
func IntOf[T constraints.Signed](v T) Element {
	return Int(v)
}

// UintOf wraps any unsigned integer in a Uint.
func UintOf[T constraints.Unsigned](v T) Element {
	return Uint(v)
}

// FloatOf wraps any floating-point number in a Float.
func FloatOf[T constraints.Float](v T) Element {
	return Float(v)
}

// NewRef wraps v in a Ref.
func NewRef(v any) Element {
	return Ref{Value: v}
}

// AsInt returns the value of e if e is an Int.
func AsInt(e Element) (int64, bool) {
	i, ok := e.(Int)
	return int64(i), ok
}

// AsUint returns the value of e if e is a Uint.
func AsUint(e Element) (uint64, bool) {
	u, ok := e.(Uint)
	return uint64(u), ok
}

// AsBool returns the value of e if e is a Bool.
func AsBool(e Element) (bool, bool) {
	b, ok := e.(Bool)
	return bool(b), ok
}

// AsFloat returns the value of e if e is a Float.
func AsFloat(e Element) (float64, bool) {
	f, ok := e.(Float)
	return float64(f), ok
}

// AsRef returns the referenced value of e if e is a Ref.
func AsRef(e Element) (any, bool) {
	r, ok := e.(Ref)
	return r.Value, ok
}

// Bits returns the raw 64-bit pattern of a scalar Element.
//
// Int values are reinterpreted as unsigned, so negative integers map to large unsigned values.
// Ref elements have no bit pattern and return false.
func Bits(e Element) (uint64, bool) {
	switch v := e.(type) {
	case Int:
		return uint64(v), true
	case Uint:
		return uint64(v), true
	case Bool:
		if v {
			return 1, true
		}
		return 0, true
	case Float:
		return math.Float64bits(float64(v)), true
	case Ref:
		return 0, false
	default:
		return 0, false
	}
}

// Equal reports whether a and b hold the same variant and the same value.
//
// Nil elements are only equal to each other. Refs holding values of a non-comparable dynamic
// type are never equal.
func Equal(a, b Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Uint:
		bv, ok := b.(Uint)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case Ref:
		bv, ok := b.(Ref)
		return ok && refEqual(av.Value, bv.Value)
	default:
		return false
	}
}

// Identical is like Equal, except that two Floats are compared by bit pattern: a NaN is identical
// to itself and -0 is not identical to +0. It agrees with Bits.
func Identical(a, b Element) bool {
	af, aok := a.(Float)
	bf, bok := b.(Float)
	if !aok || !bok {
		return Equal(a, b)
	}

	return math.Float64bits(float64(af)) == math.Float64bits(float64(bf))
}

// ApproxEqual is like Equal, except that two Floats are considered equal when they differ by no
// more than utils.Epsilon.
func ApproxEqual(a, b Element) bool {
	af, aok := a.(Float)
	bf, bok := b.(Float)
	if !aok || !bok {
		return Equal(a, b)
	}

	if math.IsNaN(float64(af)) || math.IsNaN(float64(bf)) || math.IsInf(float64(af), 0) || math.IsInf(float64(bf), 0) {
		return af == bf
	}

	return utils.EqualWithTolerance(decimal.NewFromFloat(float64(af)), decimal.NewFromFloat(float64(bf)))
}

// Comparable reports whether e can be used with == and as a Go map key without panicking. Only
// Refs holding a slice, map or function, or a struct or array containing one, are not.
func Comparable(e Element) bool {
	ref, ok := e.(Ref)
	if !ok || ref.Value == nil {
		return true
	}

	return reflect.ValueOf(ref.Value).Comparable()
}

func refEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Type() != bv.Type() || !av.Comparable() || !bv.Comparable() {
		return false
	}

	return a == b
}
