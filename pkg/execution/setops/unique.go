package setops

import (
	"github.com/cockroachdb/errors"

	"toydbms/pkg/iterator"
	"toydbms/pkg/tuple"
)

// Unique emits each distinct row once, in first-seen order. Memory grows
// with the number of distinct rows.
type Unique struct {
	*iterator.UnaryOperator
	seen *RowSet
}

func NewUnique(child iterator.Operator) (*Unique, error) {
	unary, err := iterator.NewUnaryOperator(child)
	if err != nil {
		return nil, err
	}
	return &Unique{UnaryOperator: unary, seen: NewRowSet()}, nil
}

func (u *Unique) Next() (*tuple.Row, error) {
	for {
		row, err := u.FetchNext()
		if err != nil || row == nil {
			return nil, err
		}
		if u.seen.Add(row.Values()) {
			return row, nil
		}
	}
}

// Reset rewinds the child and forgets every emitted row.
func (u *Unique) Reset() error {
	u.seen.Clear()
	return errors.Wrap(u.UnaryOperator.Reset(), "resetting unique")
}

func (u *Unique) Explain() string { return "Unique" }
