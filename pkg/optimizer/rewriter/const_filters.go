package rewriter

import (
	"github.com/cockroachdb/errors"

	"toydbms/pkg/catalog"
	"toydbms/pkg/dberror"
	"toydbms/pkg/query"
	"toydbms/pkg/types"
)

// Bound is an optional value.
type Bound struct {
	Value types.Value
	Set   bool
}

func bound(v types.Value) Bound { return Bound{Value: v, Set: true} }

// Interval summarises the constant filters of one column: either an exact
// value, or exclusive lower and upper bounds (each optional).
type Interval struct {
	Exact Bound
	Lower Bound // attribute > Lower
	Upper Bound // attribute < Upper
}

// ColumnBounds is the result of folding a list of constant filters.
type ColumnBounds struct {
	// Valid is false when the filters contradict each other.
	Valid bool

	intervals map[string]*Interval
	order     []string // attributes in first-seen order
}

// RewriteConstFilters folds predicates in input order. The first
// contradiction makes the result invalid and stops the fold.
func RewriteConstFilters(predicates []*query.ConstPredicate) (ColumnBounds, error) {
	result := ColumnBounds{Valid: true, intervals: make(map[string]*Interval)}

	for _, p := range predicates {
		iv, ok := result.intervals[p.Attribute]
		if !ok {
			iv = &Interval{}
			result.intervals[p.Attribute] = iv
			result.order = append(result.order, p.Attribute)
		}

		ok, err := iv.add(p.Relation, p.Value)
		if err != nil {
			return ColumnBounds{}, errors.Wrapf(err, "folding %s", p)
		}
		if !ok {
			return ColumnBounds{Valid: false}, nil
		}
	}
	return result, nil
}

// add folds one comparison into the interval and reports whether it is
// still satisfiable.
func (iv *Interval) add(rel types.Relation, v types.Value) (bool, error) {
	switch rel {
	case types.Equal:
		if iv.Upper.Set {
			if le, err := cmpLE(iv.Upper.Value, v); err != nil || le {
				return false, err
			}
			iv.Upper = Bound{}
		}
		if iv.Lower.Set {
			if le, err := cmpLE(v, iv.Lower.Value); err != nil || le {
				return false, err
			}
			iv.Lower = Bound{}
		}
		if iv.Exact.Set {
			return iv.Exact.Value.Equals(v), nil
		}
		iv.Exact = bound(v)

	case types.Less:
		if iv.Exact.Set {
			le, err := cmpLE(v, iv.Exact.Value)
			return !le, err
		}
		if iv.Lower.Set {
			if le, err := cmpLE(v, iv.Lower.Value); err != nil || le {
				return false, err
			}
		}
		if !iv.Upper.Set {
			iv.Upper = bound(v)
		} else if lt, err := cmpLT(v, iv.Upper.Value); err != nil {
			return false, err
		} else if lt {
			iv.Upper = bound(v)
		}

	case types.Greater:
		if iv.Exact.Set {
			le, err := cmpLE(iv.Exact.Value, v)
			return !le, err
		}
		if iv.Upper.Set {
			if le, err := cmpLE(iv.Upper.Value, v); err != nil || le {
				return false, err
			}
		}
		if !iv.Lower.Set {
			iv.Lower = bound(v)
		} else if lt, err := cmpLT(iv.Lower.Value, v); err != nil {
			return false, err
		} else if lt {
			iv.Lower = bound(v)
		}

	default:
		return false, errors.AssertionFailedf("unknown relation %d", rel)
	}
	return true, nil
}

// Attributes returns the constrained attributes in first-seen order.
func (b ColumnBounds) Attributes() []string {
	return append([]string(nil), b.order...)
}

// Interval returns the folded interval of attribute.
func (b ColumnBounds) Interval(attribute string) (Interval, bool) {
	iv, ok := b.intervals[attribute]
	if !ok {
		return Interval{}, false
	}
	return *iv, true
}

// Tighten compares the interval of attribute with the column's observed
// range. It returns the predicates still worth evaluating, at most one per
// kind, and empty=true when no stored row can satisfy the interval.
// Bounds the data already satisfies are dropped.
func (b ColumnBounds) Tighten(attribute string, col *catalog.Column) (preds []*query.ConstPredicate, empty bool, err error) {
	iv, ok := b.intervals[attribute]
	if !ok {
		return nil, false, dberror.UnknownIdentifierf(dberror.CodeUnknownAttribute,
			"no filters on attribute %s", attribute)
	}
	known := col != nil && col.HasBounds

	if iv.Exact.Set {
		if known {
			below, err := cmpLT(iv.Exact.Value, col.Min)
			if err != nil {
				return nil, false, err
			}
			above, err := cmpLT(col.Max, iv.Exact.Value)
			if err != nil {
				return nil, false, err
			}
			if below || above {
				return nil, true, nil
			}
		}
		return []*query.ConstPredicate{
			{Attribute: attribute, Value: iv.Exact.Value, Relation: types.Equal},
		}, false, nil
	}

	if iv.Lower.Set {
		keep := true
		if known {
			if le, err := cmpLE(col.Max, iv.Lower.Value); err != nil {
				return nil, false, err
			} else if le {
				return nil, true, nil
			}
			if keep, err = cmpLE(col.Min, iv.Lower.Value); err != nil {
				return nil, false, err
			}
		}
		if keep {
			preds = append(preds, &query.ConstPredicate{Attribute: attribute, Value: iv.Lower.Value, Relation: types.Greater})
		}
	}

	if iv.Upper.Set {
		keep := true
		if known {
			if le, err := cmpLE(iv.Upper.Value, col.Min); err != nil {
				return nil, false, err
			} else if le {
				return nil, true, nil
			}
			if keep, err = cmpLE(iv.Upper.Value, col.Max); err != nil {
				return nil, false, err
			}
		}
		if keep {
			preds = append(preds, &query.ConstPredicate{Attribute: attribute, Value: iv.Upper.Value, Relation: types.Less})
		}
	}

	return preds, false, nil
}

func cmpLT(a, b types.Value) (bool, error) {
	c, err := a.Compare(b)
	return c < 0, err
}

func cmpLE(a, b types.Value) (bool, error) {
	c, err := a.Compare(b)
	return c <= 0, err
}
