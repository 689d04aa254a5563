// Package query defines the query shape consumed by the planner: a FROM
// list, an optional WHERE predicate tree, a selection clause and a DISTINCT
// flag. Predicates and FROM entries are closed sum types; every variant
// implements an unexported marker method so the set cannot grow outside
// this package.
package query

import (
	"fmt"
	"strings"

	"toydbms/pkg/types"
)

// Predicate is one node of a WHERE tree.
type Predicate interface {
	fmt.Stringer
	predicate()
}

// ConstPredicate compares an attribute with a literal: attr <rel> value.
type ConstPredicate struct {
	Attribute string
	Value     types.Value
	Relation  types.Relation
}

// AttributePredicate compares two attributes: left <rel> right.
type AttributePredicate struct {
	Left     string
	Right    string
	Relation types.Relation
}

// AndPredicate is the conjunction of two predicates.
type AndPredicate struct {
	Left, Right Predicate
}

// OrPredicate is the disjunction of two predicates. The planner rejects it.
type OrPredicate struct {
	Left, Right Predicate
}

// InQueryPredicate is "attribute IN (sub-query)". The planner rejects it.
type InQueryPredicate struct {
	Attribute string
	Query     *Query
}

func (*ConstPredicate) predicate()     {}
func (*AttributePredicate) predicate() {}
func (*AndPredicate) predicate()       {}
func (*OrPredicate) predicate()        {}
func (*InQueryPredicate) predicate()   {}

func (p *ConstPredicate) String() string {
	if p.Value.Type() == types.StringType {
		return fmt.Sprintf("%s %s '%s'", p.Attribute, p.Relation, p.Value)
	}
	return fmt.Sprintf("%s %s %s", p.Attribute, p.Relation, p.Value)
}

func (p *AttributePredicate) String() string {
	return fmt.Sprintf("%s %s %s", p.Left, p.Relation, p.Right)
}

func (p *AndPredicate) String() string {
	return fmt.Sprintf("(%s AND %s)", p.Left, p.Right)
}

func (p *OrPredicate) String() string {
	return fmt.Sprintf("(%s OR %s)", p.Left, p.Right)
}

func (p *InQueryPredicate) String() string {
	return fmt.Sprintf("%s IN (...)", p.Attribute)
}

// And folds predicates into a left-deep AND tree. It returns nil for no
// predicates.
func And(preds ...Predicate) Predicate {
	var out Predicate
	for _, p := range preds {
		if out == nil {
			out = p
			continue
		}
		out = &AndPredicate{Left: out, Right: p}
	}
	return out
}

// TableName returns the table part of a qualified attribute name, i.e. the
// prefix before the first '.'.
func TableName(attribute string) string {
	table, _, _ := strings.Cut(attribute, ".")
	return table
}
