package iterator

import "toydbms/pkg/tuple"

// Operator defines the contract for every node of an execution tree.
// Operators are pull-based: the parent calls Next until it returns a nil row.
//
// Operators are not safe for concurrent use. A plan is driven by one caller.
type Operator interface {
	// Header returns the fixed schema of the rows produced by Next.
	// It is valid before the first call to Next and never changes.
	Header() *tuple.Header

	// Next produces the next row, or nil once the operator is exhausted.
	// An exhausted operator stays exhausted until Reset.
	Next() (*tuple.Row, error)

	// Reset rewinds the operator so that it produces the same sequence again
	// from the start. Joins rely on it to rescan their inputs. Reset never
	// repeats work an operator did at construction time.
	Reset() error
}

// Explainer is implemented by operators that can describe themselves in a
// plan tree.
type Explainer interface {
	// Explain returns a one-line description of the operator itself.
	Explain() string

	// Children returns the operator's inputs, outer input first.
	Children() []Operator
}
