package iterator

import (
	"github.com/cockroachdb/errors"

	"toydbms/pkg/tuple"
)

// UnaryOperator provides a base implementation for operators with a single child.
// It handles child delegation so that Filter, Projection, AliasAppender and
// the distinct operators only implement their specific Next logic.
//
// UnaryOperator handles:
// - Forwarding the header from the child
// - Providing FetchNext helper for reading from child
// - Rewinding the child on Reset
type UnaryOperator struct {
	child Operator
}

// NewUnaryOperator creates a new unary operator base with the given child.
func NewUnaryOperator(child Operator) (*UnaryOperator, error) {
	if child == nil {
		return nil, errors.AssertionFailedf("child operator cannot be nil")
	}
	return &UnaryOperator{child: child}, nil
}

// FetchNext retrieves the next row from the child operator.
// Returns nil once the child is exhausted.
func (u *UnaryOperator) FetchNext() (*tuple.Row, error) {
	row, err := u.child.Next()
	if err != nil {
		return nil, errors.Wrap(err, "reading child row")
	}
	return row, nil
}

// Header returns the child's header.
// Operators that transform the schema should override this method.
func (u *UnaryOperator) Header() *tuple.Header {
	return u.child.Header()
}

// Reset rewinds the child operator.
func (u *UnaryOperator) Reset() error {
	if err := u.child.Reset(); err != nil {
		return errors.Wrap(err, "resetting child operator")
	}
	return nil
}

// Child returns the child operator (useful for inspection/testing).
func (u *UnaryOperator) Child() Operator {
	return u.child
}

// Children implements Explainer.
func (u *UnaryOperator) Children() []Operator {
	return []Operator{u.child}
}
