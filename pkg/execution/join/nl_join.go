package join

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"toydbms/pkg/iterator"
	"toydbms/pkg/tuple"
)

// NLJoin is an equality join on one attribute of each side:
// left.leftAttr = right.rightAttr. Output rows are the left values followed
// by the right values, left-major: every match for the first left row comes
// before any match for the second.
type NLJoin struct {
	*nestedLoop
	leftAttr, rightAttr string
}

// NewNLJoin builds the join and buffers right. leftAttr must belong to the
// left header and rightAttr to the right header.
func NewNLJoin(left, right iterator.Operator, leftAttr, rightAttr string) (*NLJoin, error) {
	if left == nil || right == nil {
		return nil, errors.AssertionFailedf("join children cannot be nil")
	}

	li, err := left.Header().Index(leftAttr)
	if err != nil {
		return nil, err
	}
	ri, err := right.Header().Index(rightAttr)
	if err != nil {
		return nil, err
	}

	loop, err := newNestedLoop(left, right, func(l, r *tuple.Row) bool {
		return l.Value(li).Equals(r.Value(ri))
	})
	if err != nil {
		return nil, err
	}

	return &NLJoin{nestedLoop: loop, leftAttr: leftAttr, rightAttr: rightAttr}, nil
}

// Attributes returns the join attribute pair.
func (j *NLJoin) Attributes() (left, right string) {
	return j.leftAttr, j.rightAttr
}

func (j *NLJoin) Explain() string {
	return fmt.Sprintf("NLJoin %s = %s", j.leftAttr, j.rightAttr)
}
