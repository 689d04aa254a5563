package catalog

import (
	"strings"

	"toydbms/pkg/dberror"
	"toydbms/pkg/types"
)

// SortOrder is the declared physical order of a column in its table file.
type SortOrder int

const (
	Unknown SortOrder = iota
	Asc
	Desc
	Unsorted
)

func (o SortOrder) String() string {
	switch o {
	case Asc:
		return "ASC"
	case Desc:
		return "DESC"
	case Unsorted:
		return "UNSORTED"
	default:
		return "UNKNOWN"
	}
}

// Ordered reports whether rows of the table arrive sorted by this column.
func (o SortOrder) Ordered() bool {
	return o == Asc || o == Desc
}

// ParseSortOrder maps "asc", "desc", "unsorted" and "unknown" (or "") to a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	case "unsorted":
		return Unsorted, nil
	case "", "unknown":
		return Unknown, nil
	default:
		return Unknown, dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidCatalog,
			"unknown sort order %q", s)
	}
}

// Column holds the statistics of one column.
type Column struct {
	Name   string      // Column name, unqualified
	Type   types.Type  // Declared value type
	Order  SortOrder   // Declared sort order of the table file
	Unique bool        // Whether no two rows share a value
	Min    types.Value // Observed minimum, valid when HasBounds
	Max    types.Value // Observed maximum, valid when HasBounds

	HasBounds bool
}

// NewColumn creates column statistics without observed bounds.
func NewColumn(name string, typ types.Type, order SortOrder, unique bool) *Column {
	return &Column{Name: name, Type: typ, Order: order, Unique: unique}
}

// WithBounds sets the observed [min, max] of the column.
// Bounds must carry the column type and satisfy min <= max.
func (c *Column) WithBounds(min, max types.Value) (*Column, error) {
	if min.Type() != c.Type || max.Type() != c.Type {
		return nil, dberror.Newf(dberror.ErrCategoryTypeMismatch, dberror.CodeInvalidCatalog,
			"bounds of column %s must be %s", c.Name, c.Type)
	}

	cmp, err := min.Compare(max)
	if err != nil {
		return nil, err
	}
	if cmp > 0 {
		return nil, dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidCatalog,
			"column %s has min %s greater than max %s", c.Name, min, max)
	}

	c.Min, c.Max, c.HasBounds = min, max, true
	return c, nil
}

func (c *Column) clone(name string) *Column {
	cp := *c
	cp.Name = name
	return &cp
}
