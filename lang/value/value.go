// Package value implements the VM's tagged value model: a closed
// set of variant types sharing the Value interface, with the coercion,
// equality, ordering and deep-clone rules the interpreter and compiler rely
// on.
//
// There is no class hierarchy here, by design: Value is a sealed interface and every
// variant is a concrete, unrelated Go type. Reference variants (*Vector,
// *HashMap, *DataObject, *ByteBuffer, *Code) are ordinary Go pointers backed
// by the garbage collector; DeepClone is a structural copy, not a
// refcounting scheme, so cycles are reclaimed by the GC exactly the way a
// cyclic slice or map is.
package value

import (
	"fmt"
	"strconv"

	"github.com/sorthlang/gosorth/lang/token"
)

// Value is the sealed interface implemented by every runtime value variant.
type Value interface {
	// Type returns the short type name used in error messages and by the
	// `type` word (e.g. "int", "vector", "data-object").
	Type() string
	// String renders the value the way `to_string` does.
	String() string

	sealed()
}

// None is the unit value. There is exactly one: the zero value of NoneValue.
type NoneValue struct{}

func (NoneValue) Type() string   { return "none" }
func (NoneValue) String() string { return "none" }
func (NoneValue) sealed()        {}

// None is the canonical None value.
var None Value = NoneValue{}

type IntValue int64

func (IntValue) Type() string      { return "int" }
func (v IntValue) String() string  { return strconv.FormatInt(int64(v), 10) }
func (IntValue) sealed()           {}

type FloatValue float64

func (FloatValue) Type() string     { return "float" }
func (v FloatValue) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (FloatValue) sealed()          {}

type BoolValue bool

func (BoolValue) Type() string     { return "bool" }
func (v BoolValue) String() string { return strconv.FormatBool(bool(v)) }
func (BoolValue) sealed()          {}

type StringValue string

func (StringValue) Type() string     { return "string" }
func (v StringValue) String() string { return string(v) }
func (StringValue) sealed()          {}

// TokenValue carries a scanned token as first-class data.
type TokenValue struct {
	Token token.Token
}

func (TokenValue) Type() string        { return "token" }
func (v TokenValue) String() string    { return v.Token.String() }
func (TokenValue) sealed()             {}

// FromToken builds the appropriate Value for a scanned token: a Number token
// becomes Int or Float, a String token becomes a String, and a Word token
// becomes a TokenValue (so words pushed as literal data round-trip).
func FromToken(t token.Token) Value {
	switch t.Kind {
	case token.Number:
		if t.Number.Kind == token.FloatNumber {
			return FloatValue(t.Number.Float)
		}
		return IntValue(t.Number.Int)
	case token.String:
		return StringValue(t.Text)
	default:
		return TokenValue{Token: t}
	}
}

// --- predicates -------------------------------------------------------

func IsNone(v Value) bool   { _, ok := v.(NoneValue); return ok }
func IsInt(v Value) bool    { _, ok := v.(IntValue); return ok }
func IsFloat(v Value) bool  { _, ok := v.(FloatValue); return ok }
func IsBool(v Value) bool   { _, ok := v.(BoolValue); return ok }
func IsString(v Value) bool { _, ok := v.(StringValue); return ok }
func IsToken(v Value) bool  { _, ok := v.(TokenValue); return ok }

func isNumeric(v Value) bool {
	switch v.(type) {
	case IntValue, FloatValue, BoolValue:
		return true
	default:
		return false
	}
}

func bothNumeric(a, b Value) bool { return isNumeric(a) && isNumeric(b) }

func isStringable(v Value) bool {
	switch t := v.(type) {
	case StringValue:
		return true
	case TokenValue:
		return t.Token.IsTextual()
	default:
		return false
	}
}

func bothStringable(a, b Value) bool { return isStringable(a) && isStringable(b) }

// --- coercions ---------------------------------------------------

// ToInt coerces v to an int64. None -> 0, Bool -> 1|0, Int/Float cross
// convert, number-tokens coerce through their inner variant. Any other type
// fails.
func ToInt(v Value) (int64, error) {
	switch t := v.(type) {
	case NoneValue:
		return 0, nil
	case IntValue:
		return int64(t), nil
	case FloatValue:
		return int64(t), nil
	case BoolValue:
		if t {
			return 1, nil
		}
		return 0, nil
	case TokenValue:
		if t.Token.IsNumber() {
			if t.Token.Number.Kind == token.FloatNumber {
				return int64(t.Token.Number.Float), nil
			}
			return t.Token.Number.Int, nil
		}
	}
	return 0, fmt.Errorf("value of type %s could not be converted to int", v.Type())
}

// ToFloat coerces v to a float64, with the same rules as ToInt.
func ToFloat(v Value) (float64, error) {
	switch t := v.(type) {
	case NoneValue:
		return 0, nil
	case IntValue:
		return float64(t), nil
	case FloatValue:
		return float64(t), nil
	case BoolValue:
		if t {
			return 1, nil
		}
		return 0, nil
	case TokenValue:
		if t.Token.IsNumber() {
			if t.Token.Number.Kind == token.FloatNumber {
				return t.Token.Number.Float, nil
			}
			return float64(t.Token.Number.Int), nil
		}
	}
	return 0, fmt.Errorf("value of type %s could not be converted to float", v.Type())
}

// ToBool coerces v to a bool: None -> false, numbers -> nonzero, Bool ->
// itself, anything else fails.
func ToBool(v Value) (bool, error) {
	switch t := v.(type) {
	case NoneValue:
		return false, nil
	case BoolValue:
		return bool(t), nil
	case IntValue:
		return t != 0, nil
	case FloatValue:
		return t != 0, nil
	case TokenValue:
		if t.Token.IsNumber() {
			if t.Token.Number.Kind == token.FloatNumber {
				return t.Token.Number.Float != 0, nil
			}
			return t.Token.Number.Int != 0, nil
		}
	}
	return false, fmt.Errorf("value of type %s could not be converted to bool", v.Type())
}

// Truth is the non-failing counterpart to ToBool used by JumpIfZero /
// JumpIfNotZero: any
// value that cannot be coerced to bool is considered true, mirroring
// get_bool_val's permissive fallback in the conventional approach.
func Truth(v Value) bool {
	b, err := ToBool(v)
	if err != nil {
		return true
	}
	return b
}

// ToStringVal coerces v to its textual content: None -> "", String ->
// itself, a textual Token -> its text, Bool/Int/Float -> their decimal
// rendering. Non-stringable types fail.
func ToStringVal(v Value) (string, error) {
	switch t := v.(type) {
	case NoneValue:
		return "", nil
	case StringValue:
		return string(t), nil
	case BoolValue, IntValue, FloatValue:
		return t.String(), nil
	case TokenValue:
		if t.Token.IsTextual() {
			return t.Token.Text, nil
		}
		return t.Token.String(), nil
	}
	return "", fmt.Errorf("value of type %s could not be converted to string", v.Type())
}

// --- equality & ordering -------------------------------------------------

// Equal implements the coercing equality used throughout the VM:
// numerics cross-convert, stringables cross-convert, and everything else
// compares structurally only against its own kind.
func Equal(a, b Value) bool {
	if IsNone(a) && IsNone(b) {
		return true
	}
	if bothNumeric(a, b) {
		switch {
		case IsFloat(a) || IsFloat(b):
			af, _ := ToFloat(a)
			bf, _ := ToFloat(b)
			return af == bf
		case IsInt(a) || IsInt(b):
			ai, _ := ToInt(a)
			bi, _ := ToInt(b)
			return ai == bi
		default:
			ab, _ := ToBool(a)
			bb, _ := ToBool(b)
			return ab == bb
		}
	}
	if bothStringable(a, b) {
		as, _ := ToStringVal(a)
		bs, _ := ToStringVal(b)
		return as == bs
	}

	switch av := a.(type) {
	case *Vector:
		bv, ok := b.(*Vector)
		return ok && av.equal(bv)
	case *HashMap:
		bv, ok := b.(*HashMap)
		return ok && av.equal(bv)
	case *DataObject:
		bv, ok := b.(*DataObject)
		return ok && av.equal(bv)
	case *ByteBuffer:
		bv, ok := b.(*ByteBuffer)
		return ok && av.equal(bv)
	case *Code:
		bv, ok := b.(*Code)
		return ok && av.equal(bv)
	default:
		return false
	}
}

// Compare orders a and b, returning -1, 0 or 1. Ordering is partial and
// type-respecting: numerics cross-convert the same as Equal; containers
// order lexicographically by element; anything else that isn't equal is
// unordered and Compare returns an error.
func Compare(a, b Value) (int, error) {
	if Equal(a, b) {
		return 0, nil
	}
	if bothNumeric(a, b) {
		af, _ := ToFloat(a)
		bf, _ := ToFloat(b)
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if bothStringable(a, b) {
		as, _ := ToStringVal(a)
		bs, _ := ToStringVal(b)
		switch {
		case as < bs:
			return -1, nil
		case as > bs:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if av, ok := a.(*Vector); ok {
		if bv, ok := b.(*Vector); ok {
			return av.compare(bv)
		}
	}
	return 0, fmt.Errorf("values of type %s and %s are not comparable", a.Type(), b.Type())
}

// DeepClone returns a value whose transitive reference graph is disjoint
// from v's. Scalars are already immutable and are returned
// as-is.
func DeepClone(v Value) Value {
	switch t := v.(type) {
	case *Vector:
		return t.deepClone()
	case *HashMap:
		return t.deepClone()
	case *DataObject:
		return t.deepClone()
	case *ByteBuffer:
		return t.deepClone()
	case *Code:
		return t.deepClone()
	default:
		return v
	}
}
