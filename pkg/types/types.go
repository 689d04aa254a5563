package types

import (
	"strings"

	"toydbms/pkg/dberror"
)

// Type is the declared type of a column or the tag of a Value.
type Type int

const (
	IntType Type = iota
	StringType
)

// String returns a string representation of the type
func (t Type) String() string {
	switch t {
	case IntType:
		return "INT_TYPE"
	case StringType:
		return "STRING_TYPE"
	default:
		return "UNKNOWN_TYPE"
	}
}

// ParseType maps a type name as written in catalog files ("int", "string")
// to a Type. Matching is case-insensitive.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int", "integer", "int_type":
		return IntType, nil
	case "str", "string", "string_type":
		return StringType, nil
	default:
		return 0, dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidCatalog,
			"unknown column type %q", name)
	}
}
