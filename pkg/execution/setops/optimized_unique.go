package setops

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"toydbms/pkg/iterator"
	"toydbms/pkg/tuple"
	"toydbms/pkg/types"
)

// OptimizedUnique removes duplicates from input that arrives grouped by the
// ordering attributes: equal rows then always sit in one contiguous run of
// equal ordering values. Only the rest of the row is hashed, and the set is
// cleared whenever any ordering value changes, so memory is bounded by the
// largest run instead of the whole result.
//
// If the input is not actually grouped, duplicates separated by another
// group are emitted twice.
type OptimizedUnique struct {
	*iterator.UnaryOperator
	ordered []string
	order   []int // positions of the ordering attributes
	rest    []int // every other position

	current []types.Value // ordering values of the current run; nil before the first row
	seen    *RowSet
}

// NewOptimizedUnique creates the operator. orderedAttrs must be attributes of
// child's header.
func NewOptimizedUnique(child iterator.Operator, orderedAttrs []string) (*OptimizedUnique, error) {
	unary, err := iterator.NewUnaryOperator(child)
	if err != nil {
		return nil, err
	}

	header := child.Header()
	isOrder := make([]bool, header.Len())
	order := make([]int, 0, len(orderedAttrs))
	for _, attr := range orderedAttrs {
		idx, err := header.Index(attr)
		if err != nil {
			return nil, err
		}
		if !isOrder[idx] {
			isOrder[idx] = true
			order = append(order, idx)
		}
	}

	rest := make([]int, 0, header.Len()-len(order))
	for i, ordered := range isOrder {
		if !ordered {
			rest = append(rest, i)
		}
	}

	return &OptimizedUnique{
		UnaryOperator: unary,
		ordered:       orderedAttrs,
		order:         order,
		rest:          rest,
		seen:          NewRowSet(),
	}, nil
}

func (u *OptimizedUnique) Next() (*tuple.Row, error) {
	for {
		row, err := u.FetchNext()
		if err != nil || row == nil {
			return nil, err
		}

		key := row.Project(u.order)
		if u.current == nil || !equalValues(u.current, key) {
			u.current = key
			u.seen.Clear()
		}

		if u.seen.Add(row.Project(u.rest)) {
			return row, nil
		}
	}
}

// Reset rewinds the child and drops the current run.
func (u *OptimizedUnique) Reset() error {
	u.current = nil
	u.seen.Clear()
	return errors.Wrap(u.UnaryOperator.Reset(), "resetting optimized unique")
}

// Tracked returns how many rows of the current run are remembered.
func (u *OptimizedUnique) Tracked() int { return u.seen.Len() }

func (u *OptimizedUnique) Explain() string {
	return fmt.Sprintf("OptimizedUnique [%s]", strings.Join(u.ordered, ", "))
}
