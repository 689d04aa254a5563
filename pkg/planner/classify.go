package planner

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"toydbms/pkg/catalog"
	"toydbms/pkg/dberror"
	"toydbms/pkg/query"
	"toydbms/pkg/types"
)

// predicates is the WHERE clause split by how the planner uses each leaf.
type predicates struct {
	consts       map[string][]*query.ConstPredicate // by table
	inequalities []*query.AttributePredicate        // same table, < or >
	joins        []*query.AttributePredicate        // different tables, =
}

// classify flattens the AND tree rooted at where and validates every leaf
// against the FROM entries and the catalog.
func classify(where query.Predicate, from map[string]bool, cat *catalog.Catalog) (*predicates, error) {
	out := &predicates{consts: make(map[string][]*query.ConstPredicate)}
	if where == nil {
		return out, nil
	}

	var walk func(p query.Predicate) error
	walk = func(p query.Predicate) error {
		switch p := p.(type) {
		case *query.AndPredicate:
			if err := walk(p.Left); err != nil {
				return err
			}
			return walk(p.Right)

		case *query.ConstPredicate:
			col, err := resolve(p.Attribute, from, cat)
			if err != nil {
				return err
			}
			if col.Type != p.Value.Type() {
				return dberror.Newf(dberror.ErrCategoryTypeMismatch, dberror.CodeTypeMismatch,
					"%s compares %s column with %s literal", p, col.Type, p.Value.Type())
			}
			t := query.TableName(p.Attribute)
			out.consts[t] = append(out.consts[t], p)
			return nil

		case *query.AttributePredicate:
			return out.addAttributePredicate(p, from, cat)

		case *query.OrPredicate:
			return dberror.Unsupportedf(dberror.CodeUnsupportedPredicate, "OR predicates are not supported: %s", p)

		case *query.InQueryPredicate:
			return dberror.Unsupportedf(dberror.CodeUnsupportedPredicate, "IN sub-queries are not supported: %s", p)

		default:
			return dberror.Unsupportedf(dberror.CodeUnsupportedPredicate, "unsupported predicate %s", p)
		}
	}

	if err := walk(where); err != nil {
		return nil, err
	}
	return out, nil
}

func (ps *predicates) addAttributePredicate(p *query.AttributePredicate, from map[string]bool, cat *catalog.Catalog) error {
	left, err := resolve(p.Left, from, cat)
	if err != nil {
		return err
	}
	right, err := resolve(p.Right, from, cat)
	if err != nil {
		return err
	}
	if left.Type != right.Type {
		return dberror.Newf(dberror.ErrCategoryTypeMismatch, dberror.CodeTypeMismatch,
			"%s compares %s with %s", p, left.Type, right.Type)
	}

	sameTable := query.TableName(p.Left) == query.TableName(p.Right)
	switch {
	case sameTable && p.Relation == types.Equal:
		return dberror.Unsupportedf(dberror.CodeUnsupportedPredicate,
			"equality between attributes of one table is not supported: %s", p)
	case sameTable:
		ps.inequalities = append(ps.inequalities, p)
	case p.Relation == types.Equal:
		ps.joins = append(ps.joins, p)
	default:
		return dberror.Unsupportedf(dberror.CodeUnsupportedJoin,
			"inequality joins are not supported: %s", p)
	}
	return nil
}

// tables returns the tables having constant filters, sorted.
func (ps *predicates) tables() []string {
	names := maps.Keys(ps.consts)
	slices.Sort(names)
	return names
}

// resolve checks that attribute belongs to a FROM entry and to the catalog.
func resolve(attribute string, from map[string]bool, cat *catalog.Catalog) (*catalog.Column, error) {
	table := query.TableName(attribute)
	if !from[table] {
		return nil, dberror.UnknownIdentifierf(dberror.CodeUnknownTable,
			"%s references %s, which is not in FROM", attribute, table)
	}
	return cat.Column(attribute)
}
