package types

import (
	"encoding/binary"
	"strconv"
	"strings"

	"toydbms/pkg/dberror"
)

// Value is an immutable tagged union of an integer and a string.
// The zero Value is the integer 0.
type Value struct {
	typ Type
	i   int64
	s   string
}

func NewInt(v int64) Value {
	return Value{typ: IntType, i: v}
}

func NewString(v string) Value {
	return Value{typ: StringType, s: v}
}

// ParseValue converts the textual form of a value into a Value of type t.
func ParseValue(text string, t Type) (Value, error) {
	switch t {
	case IntType:
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return Value{}, dberror.Newf(dberror.ErrCategoryTypeMismatch, dberror.CodeTypeMismatch,
				"cannot parse %q as %s", text, t)
		}
		return NewInt(i), nil
	case StringType:
		return NewString(text), nil
	default:
		return Value{}, dberror.Newf(dberror.ErrCategoryInternal, dberror.CodeInternal,
			"unknown value type %d", int(t))
	}
}

func (v Value) Type() Type { return v.typ }

// Int returns the integer payload; it is 0 for string values.
func (v Value) Int() int64 { return v.i }

// Str returns the string payload; it is "" for integer values.
func (v Value) Str() string { return v.s }

func (v Value) String() string {
	if v.typ == IntType {
		return strconv.FormatInt(v.i, 10)
	}
	return v.s
}

// Equals reports whether both values carry the same tag and payload.
// Values of different types are never equal.
func (v Value) Equals(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	if v.typ == IntType {
		return v.i == other.i
	}
	return v.s == other.s
}

// Compare returns -1, 0 or +1. Ordering is only defined between values of
// the same type; comparing across types is an error.
func (v Value) Compare(other Value) (int, error) {
	if v.typ != other.typ {
		return 0, dberror.Newf(dberror.ErrCategoryTypeMismatch, dberror.CodeTypeMismatch,
			"cannot compare %s with %s", v.typ, other.typ)
	}
	if v.typ == IntType {
		switch {
		case v.i < other.i:
			return -1, nil
		case v.i > other.i:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return strings.Compare(v.s, other.s), nil
}

// AppendKey appends an unambiguous binary encoding of v to buf. Two values
// produce the same encoding iff they are Equal.
func (v Value) AppendKey(buf []byte) []byte {
	buf = append(buf, byte(v.typ))
	if v.typ == IntType {
		return binary.AppendVarint(buf, v.i)
	}
	buf = binary.AppendUvarint(buf, uint64(len(v.s)))
	return append(buf, v.s...)
}
