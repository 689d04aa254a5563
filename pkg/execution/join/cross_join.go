package join

import (
	"toydbms/pkg/iterator"
	"toydbms/pkg/tuple"
)

// CrossJoin pairs every left row with every right row.
type CrossJoin struct {
	*nestedLoop
}

func NewCrossJoin(left, right iterator.Operator) (*CrossJoin, error) {
	loop, err := newNestedLoop(left, right, func(_, _ *tuple.Row) bool { return true })
	if err != nil {
		return nil, err
	}
	return &CrossJoin{nestedLoop: loop}, nil
}

func (c *CrossJoin) Explain() string { return "CrossJoin" }
