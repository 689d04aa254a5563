package optimizer

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"toydbms/pkg/catalog"
	"toydbms/pkg/dberror"
	"toydbms/pkg/execution"
	"toydbms/pkg/execution/join"
	"toydbms/pkg/iterator"
	"toydbms/pkg/logging"
	"toydbms/pkg/query"
	"toydbms/pkg/types"
)

// Component is one connected group of FROM entries, already joined.
type Component struct {
	Operator iterator.Operator
	Joined   bool     // at least one join was built
	Tables   []string // tables in the order they were added
}

// JoinsApplier turns a set of table operators and equality join predicates
// into connected components. Each component starts from one table and grows
// by one table per join until no pending predicate connects it to an unused
// table. Tables are visited in lexicographic order so that a query always
// gets the same plan.
type JoinsApplier struct {
	tables     map[string]iterator.Operator
	predicates []*query.AttributePredicate
	catalog    *catalog.Catalog
	policy     SelectionPolicy
	log        *slog.Logger

	used     map[string]bool
	consumed []bool
}

// NewJoinsApplier checks that every predicate is an equality between columns
// of two different known tables with the same type. A nil policy means
// PreferUnique.
func NewJoinsApplier(
	tables map[string]iterator.Operator,
	predicates []*query.AttributePredicate,
	cat *catalog.Catalog,
	policy SelectionPolicy,
) (*JoinsApplier, error) {
	if len(tables) == 0 {
		return nil, errors.AssertionFailedf("no tables to join")
	}
	if policy == nil {
		policy = PreferUnique
	}

	for _, p := range predicates {
		if err := validateJoin(p, tables, cat); err != nil {
			return nil, err
		}
	}

	return &JoinsApplier{
		tables:     tables,
		predicates: predicates,
		catalog:    cat,
		policy:     policy,
		log:        logging.WithComponent("joins"),
		used:       make(map[string]bool, len(tables)),
		consumed:   make([]bool, len(predicates)),
	}, nil
}

func validateJoin(p *query.AttributePredicate, tables map[string]iterator.Operator, cat *catalog.Catalog) error {
	if p.Relation != types.Equal {
		return dberror.Unsupportedf(dberror.CodeUnsupportedJoin, "join predicate %s must be an equality", p)
	}

	lt, rt := query.TableName(p.Left), query.TableName(p.Right)
	if lt == rt {
		return dberror.Unsupportedf(dberror.CodeUnsupportedJoin, "%s compares columns of one table", p)
	}
	for _, t := range []string{lt, rt} {
		if _, ok := tables[t]; !ok {
			return dberror.UnknownIdentifierf(dberror.CodeUnknownTable, "join %s references table %s outside FROM", p, t)
		}
	}

	lc, err := cat.Column(p.Left)
	if err != nil {
		return err
	}
	rc, err := cat.Column(p.Right)
	if err != nil {
		return err
	}
	if lc.Type != rc.Type {
		return dberror.Newf(dberror.ErrCategoryTypeMismatch, dberror.CodeTypeMismatch,
			"cannot join %s (%s) with %s (%s)", p.Left, lc.Type, p.Right, rc.Type)
	}
	return nil
}

// WithLogger replaces the logger used for join decisions.
func (j *JoinsApplier) WithLogger(l *slog.Logger) *JoinsApplier {
	j.log = l
	return j
}

// Apply builds every component. The applier is single use.
func (j *JoinsApplier) Apply() ([]Component, error) {
	names := maps.Keys(j.tables)
	slices.Sort(names)
	return j.ApplyFrom(names[0])
}

// ApplyFrom builds the component containing first before the others.
func (j *JoinsApplier) ApplyFrom(first string) ([]Component, error) {
	if _, ok := j.tables[first]; !ok {
		return nil, dberror.UnknownIdentifierf(dberror.CodeUnknownTable, "unknown table %s", first)
	}
	if len(j.used) > 0 {
		return nil, errors.AssertionFailedf("joins already applied")
	}

	names := maps.Keys(j.tables)
	slices.Sort(names)

	var components []Component
	for _, name := range append([]string{first}, names...) {
		if j.used[name] {
			continue
		}
		c, err := j.grow(name)
		if err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	return components, nil
}

func (j *JoinsApplier) grow(start string) (Component, error) {
	j.used[start] = true
	c := Component{Operator: j.tables[start], Tables: []string{start}}

	for {
		next, ok := j.nextJoin()
		if !ok {
			break
		}

		left, right := next.Predicate.Left, next.Predicate.Right
		if !j.used[query.TableName(left)] {
			left, right = right, left
		}
		table := query.TableName(right)

		joined, err := join.NewNLJoin(c.Operator, j.tables[table], left, right)
		if err != nil {
			return Component{}, errors.Wrapf(err, "joining %s", table)
		}
		j.log.Debug("join added", "left", left, "right", right, "unique", next.Unique)

		c.Operator = joined
		c.Joined = true
		c.Tables = append(c.Tables, table)
		j.used[table] = true
		j.consumed[next.Index] = true

		if c.Operator, err = j.applyResiduals(c.Operator); err != nil {
			return Component{}, err
		}
	}
	return c, nil
}

// nextJoin collects the pending predicates touching the relation and lets
// the policy choose.
func (j *JoinsApplier) nextJoin() (Candidate, bool) {
	var candidates []Candidate
	for i, p := range j.predicates {
		if j.consumed[i] {
			continue
		}
		if !j.used[query.TableName(p.Left)] && !j.used[query.TableName(p.Right)] {
			continue
		}
		candidates = append(candidates, Candidate{Index: i, Predicate: p, Unique: j.unique(p)})
	}

	if len(candidates) == 0 {
		return Candidate{}, false
	}
	return j.policy(candidates), true
}

func (j *JoinsApplier) unique(p *query.AttributePredicate) bool {
	for _, attr := range []string{p.Left, p.Right} {
		if col, err := j.catalog.Column(attr); err == nil && col.Unique {
			return true
		}
	}
	return false
}

// applyResiduals filters op by every pending predicate whose tables are
// both already joined.
func (j *JoinsApplier) applyResiduals(op iterator.Operator) (iterator.Operator, error) {
	for i, p := range j.predicates {
		if j.consumed[i] || !j.used[query.TableName(p.Left)] || !j.used[query.TableName(p.Right)] {
			continue
		}

		f, err := execution.NewFilter(op, p)
		if err != nil {
			return nil, err
		}
		j.log.Debug("residual join filter", "predicate", p.String())
		op = f
		j.consumed[i] = true
	}
	return op, nil
}

// CrossJoinComponents folds components left to right into cross joins.
// A component that contains a join is cached before it becomes the inner
// side, so the join is computed once instead of on every rescan.
func CrossJoinComponents(components []Component) (iterator.Operator, error) {
	if len(components) == 0 {
		return nil, errors.AssertionFailedf("no components to combine")
	}

	result := components[0].Operator
	for _, c := range components[1:] {
		right := c.Operator
		if c.Joined {
			cached, err := execution.NewCache(right)
			if err != nil {
				return nil, err
			}
			right = cached
		}

		cross, err := join.NewCrossJoin(result, right)
		if err != nil {
			return nil, err
		}
		result = cross
	}
	return result, nil
}
