package execution

import (
	"fmt"

	"toydbms/pkg/iterator"
	"toydbms/pkg/query"
	"toydbms/pkg/tuple"
)

// Filter passes through the child rows that satisfy one simple predicate:
// a constant comparison or a comparison between two attributes of the
// child's header. Filtering doesn't change the header.
type Filter struct {
	*iterator.UnaryOperator
	predicate *rowPredicate
}

// NewFilter binds predicate to child's header. AND, OR and IN predicates are
// rejected; callers split conjunctions into a chain of Filters.
func NewFilter(child iterator.Operator, predicate query.Predicate) (*Filter, error) {
	unary, err := iterator.NewUnaryOperator(child)
	if err != nil {
		return nil, err
	}

	bound, err := bindPredicate(child.Header(), predicate)
	if err != nil {
		return nil, err
	}

	return &Filter{UnaryOperator: unary, predicate: bound}, nil
}

// Next pulls from the child until a row matches or the child is exhausted.
func (f *Filter) Next() (*tuple.Row, error) {
	for {
		row, err := f.FetchNext()
		if err != nil || row == nil {
			return nil, err
		}

		ok, err := f.predicate.matches(row)
		if err != nil {
			return nil, err
		}
		if ok {
			return row, nil
		}
	}
}

// Predicate returns the predicate the filter evaluates.
func (f *Filter) Predicate() query.Predicate {
	return f.predicate.source
}

func (f *Filter) Explain() string {
	return fmt.Sprintf("Filter %s", f.predicate.source)
}
