package rewriter

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"toydbms/pkg/dberror"
	"toydbms/pkg/query"
	"toydbms/pkg/types"
)

// InequalityFilters is the result of rewriting attribute inequalities.
type InequalityFilters struct {
	Valid      bool
	Predicates []*query.AttributePredicate // surviving predicates, as given
}

// InequalityRewriter tracks the strict order implied by a list of
// attribute inequalities: greater[a] holds every attribute known to be
// strictly greater than a.
type InequalityRewriter struct {
	greater map[string]map[string]struct{}
}

func NewInequalityRewriter() *InequalityRewriter {
	return &InequalityRewriter{greater: make(map[string]map[string]struct{})}
}

// Rewrite consumes predicates in order. A predicate already implied by the
// earlier ones is dropped; one that contradicts them, or compares an
// attribute with itself, makes the whole set invalid.
func (r *InequalityRewriter) Rewrite(predicates []*query.AttributePredicate) (InequalityFilters, error) {
	result := InequalityFilters{Valid: true}

	for _, p := range predicates {
		less, greater := p.Left, p.Right
		switch p.Relation {
		case types.Less:
		case types.Greater:
			less, greater = greater, less
		default:
			return InequalityFilters{}, dberror.Unsupportedf(dberror.CodeUnsupportedPredicate,
				"%s is not an inequality", p)
		}

		if less == greater {
			return InequalityFilters{Valid: false}, nil
		}
		if r.Less(less, greater) {
			continue
		}
		if r.Less(greater, less) {
			return InequalityFilters{Valid: false}, nil
		}

		result.Predicates = append(result.Predicates, p)
		r.add(less, greater)
	}
	return result, nil
}

// Less reports whether a < b is implied by the predicates seen so far.
func (r *InequalityRewriter) Less(a, b string) bool {
	_, ok := r.greater[a][b]
	return ok
}

// Greater returns the attributes known to be greater than a, sorted.
func (r *InequalityRewriter) Greater(a string) []string {
	out := maps.Keys(r.greater[a])
	slices.Sort(out)
	return out
}

func (r *InequalityRewriter) add(less, greater string) {
	if r.Less(less, greater) {
		return
	}

	set, ok := r.greater[less]
	if !ok {
		set = make(map[string]struct{})
		r.greater[less] = set
	}
	set[greater] = struct{}{}

	for _, above := range r.Greater(greater) {
		r.add(less, above)
	}

	below := maps.Keys(r.greater)
	slices.Sort(below)
	for _, a := range below {
		if r.Less(a, less) {
			r.add(a, greater)
		}
	}
}
