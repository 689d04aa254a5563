// Package join provides the two join operators of the engine: an equality
// nested-loop join over one attribute pair and an unconditional cross join.
//
// Both share one nested-loop driver. The right child is drained into memory
// when the join is constructed; each left row is then paired with every
// buffered right row. Reset rewinds the left child and the right cursor but
// never reads the right child again.
package join

import (
	"github.com/cockroachdb/errors"

	"toydbms/pkg/iterator"
	"toydbms/pkg/tuple"
)

// matcher decides whether a left/right pair belongs to the output.
type matcher func(left, right *tuple.Row) bool

type nestedLoop struct {
	left   iterator.Operator
	right  iterator.Operator
	header *tuple.Header

	buffered *iterator.SliceIterator[*tuple.Row]
	current  *tuple.Row // left row being paired; nil before the first pull
	match    matcher
}

func newNestedLoop(left, right iterator.Operator, match matcher) (*nestedLoop, error) {
	if left == nil || right == nil {
		return nil, errors.AssertionFailedf("join children cannot be nil")
	}

	header, err := tuple.Concat(left.Header(), right.Header())
	if err != nil {
		return nil, errors.Wrap(err, "building join header")
	}

	rows, err := iterator.Collect(right)
	if err != nil {
		return nil, errors.Wrap(err, "buffering right side of join")
	}

	return &nestedLoop{
		left:     left,
		right:    right,
		header:   header,
		buffered: iterator.NewSliceIterator(rows),
		match:    match,
	}, nil
}

func (n *nestedLoop) Header() *tuple.Header {
	return n.header
}

func (n *nestedLoop) Next() (*tuple.Row, error) {
	if n.buffered.Len() == 0 {
		return nil, nil
	}

	for {
		if n.current == nil {
			row, err := n.left.Next()
			if err != nil {
				return nil, errors.Wrap(err, "reading left side of join")
			}
			if row == nil {
				return nil, nil
			}
			n.current = row
		}

		right, ok := n.buffered.Next()
		if !ok {
			n.current = nil
			n.buffered.Rewind()
			continue
		}

		if n.match(n.current, right) {
			return tuple.Combine(n.header, n.current, right), nil
		}
	}
}

func (n *nestedLoop) Reset() error {
	if err := n.left.Reset(); err != nil {
		return errors.Wrap(err, "resetting left side of join")
	}
	n.buffered.Rewind()
	n.current = nil
	return nil
}

// Children returns the left and right inputs.
func (n *nestedLoop) Children() []iterator.Operator {
	return []iterator.Operator{n.left, n.right}
}

// BufferedRows returns how many right rows the join holds in memory.
func (n *nestedLoop) BufferedRows() int {
	return n.buffered.Len()
}
