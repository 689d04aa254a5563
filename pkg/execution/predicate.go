package execution

import (
	"github.com/cockroachdb/errors"

	"toydbms/pkg/dberror"
	"toydbms/pkg/query"
	"toydbms/pkg/tuple"
	"toydbms/pkg/types"
)

// rowPredicate is a simple predicate bound to positions of one header.
// It compares the value at left with either the constant or the value at right.
type rowPredicate struct {
	source   query.Predicate
	left     int
	right    int
	constant types.Value
	isConst  bool
	relation types.Relation
}

func bindPredicate(h *tuple.Header, p query.Predicate) (*rowPredicate, error) {
	switch p := p.(type) {
	case *query.ConstPredicate:
		idx, err := h.Index(p.Attribute)
		if err != nil {
			return nil, err
		}
		return &rowPredicate{source: p, left: idx, constant: p.Value, isConst: true, relation: p.Relation}, nil

	case *query.AttributePredicate:
		l, err := h.Index(p.Left)
		if err != nil {
			return nil, err
		}
		r, err := h.Index(p.Right)
		if err != nil {
			return nil, err
		}
		return &rowPredicate{source: p, left: l, right: r, relation: p.Relation}, nil

	default:
		return nil, dberror.Unsupportedf(dberror.CodeUnsupportedPredicate,
			"filter cannot evaluate predicate %s", p)
	}
}

func (p *rowPredicate) matches(row *tuple.Row) (bool, error) {
	rhs := p.constant
	if !p.isConst {
		rhs = row.Value(p.right)
	}

	cmp, err := row.Value(p.left).Compare(rhs)
	if err != nil {
		return false, errors.Wrapf(err, "evaluating %s", p.source)
	}
	return p.relation.Holds(cmp), nil
}
