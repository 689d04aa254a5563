package optimizer

import (
	"strings"

	"toydbms/pkg/dberror"
	"toydbms/pkg/query"
)

// Candidate is a pending join predicate that connects the relation being
// grown to a table not yet in it.
type Candidate struct {
	Index     int // position in the applier's predicate list
	Predicate *query.AttributePredicate
	Unique    bool // at least one endpoint column is catalog-unique
}

// SelectionPolicy picks the next join among the candidates, which are given
// in predicate order and are never empty.
type SelectionPolicy func(candidates []Candidate) Candidate

// PreferUnique takes the first candidate joining on a unique column, since
// such a join cannot multiply the rows of the other side. Without one it
// falls back to the first candidate.
func PreferUnique(candidates []Candidate) Candidate {
	for _, c := range candidates {
		if c.Unique {
			return c
		}
	}
	return candidates[0]
}

// FirstConnecting takes candidates in predicate order.
func FirstConnecting(candidates []Candidate) Candidate {
	return candidates[0]
}

// PolicyByName resolves a configured policy name. The empty name selects
// PreferUnique.
func PolicyByName(name string) (SelectionPolicy, error) {
	switch strings.ToLower(name) {
	case "", "prefer-unique":
		return PreferUnique, nil
	case "first-connecting":
		return FirstConnecting, nil
	default:
		return nil, dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidQuery,
			"unknown join policy %q", name)
	}
}
