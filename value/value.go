// Package value defines the closed scalar domain stored in tabdb tables:
// Int, Text, Bool and Null.
//
// Equality is structural and kind-exact (Int(1) != Text("1")). Ordering is a
// partial order defined only within a kind; Null is equal to Null but
// unordered against everything, itself included. Value is a comparable
// struct, so it can key a Go map directly: the kind tag keeps cross-kind
// keys distinct without any hand-rolled hashing.
package value

import (
	"fmt"
	"strconv"
)

// Type identifies the kind a Value carries, or the kind a column accepts.
type Type uint8

const (
	TypeNull Type = iota
	TypeInt
	TypeText
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeText:
		return "text"
	case TypeBool:
		return "bool"
	case TypeNull:
		return "null"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// ParseType maps a type name ("int", "text", "bool", "null") to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "int":
		return TypeInt, nil
	case "text":
		return TypeText, nil
	case "bool":
		return TypeBool, nil
	case "null":
		return TypeNull, nil
	}
	return TypeNull, fmt.Errorf("unknown type %q", s)
}

// Value is a tagged scalar. Exactly one payload field is meaningful,
// selected by T; constructors keep the others zeroed so that == compares
// structurally and kind-exactly.
type Value struct {
	T Type
	I int64
	S string
	B bool
}

// Null is the single null value.
var Null = Value{T: TypeNull}

func Int(i int64) Value   { return Value{T: TypeInt, I: i} }
func Text(s string) Value { return Value{T: TypeText, S: s} }
func Bool(b bool) Value   { return Value{T: TypeBool, B: b} }

// Matches reports whether the value is admissible in a column declared with
// type t. Null is admissible in every column; anything else must match the
// declared kind exactly. This is the sole type gate for inserts.
func (v Value) Matches(t Type) bool {
	return v.T == TypeNull || v.T == t
}

// Compare orders two values. ok is false when the pair is incomparable:
// kinds differ, or either side is Null. Callers that need a total order
// (sorting) must treat incomparable pairs as equal rank.
func Compare(a, b Value) (cmp int, ok bool) {
	if a.T != b.T || a.T == TypeNull {
		return 0, false
	}
	switch a.T {
	case TypeInt:
		switch {
		case a.I < b.I:
			return -1, true
		case a.I > b.I:
			return 1, true
		}
		return 0, true
	case TypeText:
		switch {
		case a.S < b.S:
			return -1, true
		case a.S > b.S:
			return 1, true
		}
		return 0, true
	case TypeBool:
		// false < true
		switch {
		case !a.B && b.B:
			return -1, true
		case a.B && !b.B:
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func (v Value) String() string {
	switch v.T {
	case TypeInt:
		return strconv.FormatInt(v.I, 10)
	case TypeText:
		return strconv.Quote(v.S)
	case TypeBool:
		return strconv.FormatBool(v.B)
	case TypeNull:
		return "NULL"
	}
	return fmt.Sprintf("value(%d)", uint8(v.T))
}
