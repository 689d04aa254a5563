package query

import (
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"toydbms/pkg/dberror"
	"toydbms/pkg/types"
)

// Decode reads a query document in YAML form:
//
//	from: [emp, {table: dept}, {alias: s, query: {...}}]
//	select: "*"                      # or [emp.id, {attr: emp.id, agg: max}]
//	distinct: true
//	where:
//	  and:
//	    - {attr: emp.id, op: "<", value: 10}
//	    - {left: emp.dept, op: "=", right: dept.name}
//
// Integer scalars become integer values; every other scalar is a string.
// Textual SQL parsing is not done here.
func Decode(r io.Reader) (*Query, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, invalidf("malformed query document: %v", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, invalidf("empty query document")
	}
	return decodeQuery(root.Content[0])
}

func invalidf(format string, args ...any) error {
	return dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidQuery, format, args...)
}

func fields(n *yaml.Node) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, invalidf("line %d: expected a mapping", n.Line)
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out[n.Content[i].Value] = n.Content[i+1]
	}
	return out, nil
}

func decodeQuery(n *yaml.Node) (*Query, error) {
	f, err := fields(n)
	if err != nil {
		return nil, err
	}

	q := &Query{Selection: SelectAll()}

	from, ok := f["from"]
	if !ok || from.Kind != yaml.SequenceNode || len(from.Content) == 0 {
		return nil, invalidf("line %d: query needs a non-empty from list", n.Line)
	}
	for _, item := range from.Content {
		part, err := decodeFromPart(item)
		if err != nil {
			return nil, err
		}
		q.From = append(q.From, part)
	}

	if sel, ok := f["select"]; ok {
		if q.Selection, err = decodeSelection(sel); err != nil {
			return nil, err
		}
	}

	if d, ok := f["distinct"]; ok {
		if err := d.Decode(&q.Distinct); err != nil {
			return nil, invalidf("line %d: distinct must be a boolean", d.Line)
		}
	}

	if w, ok := f["where"]; ok {
		if q.Where, err = decodePredicate(w); err != nil {
			return nil, err
		}
	}

	return q, nil
}

func decodeFromPart(n *yaml.Node) (FromPart, error) {
	if n.Kind == yaml.ScalarNode {
		return &FromTable{Name: n.Value}, nil
	}

	f, err := fields(n)
	if err != nil {
		return nil, err
	}
	if t, ok := f["table"]; ok {
		return &FromTable{Name: t.Value}, nil
	}

	sub, ok := f["query"]
	alias, hasAlias := f["alias"]
	if !ok || !hasAlias || alias.Value == "" {
		return nil, invalidf("line %d: from entry needs either table or query with alias", n.Line)
	}
	q, err := decodeQuery(sub)
	if err != nil {
		return nil, errors.Wrapf(err, "sub-query %s", alias.Value)
	}
	return &FromQuery{Query: q, Alias: alias.Value}, nil
}

func decodeSelection(n *yaml.Node) (Selection, error) {
	if n.Kind == yaml.ScalarNode && n.Value == "*" {
		return SelectAll(), nil
	}
	if n.Kind != yaml.SequenceNode {
		return Selection{}, invalidf("line %d: select must be \"*\" or a list", n.Line)
	}

	var sel Selection
	for _, item := range n.Content {
		if item.Kind == yaml.ScalarNode {
			sel.Attributes = append(sel.Attributes, SelectedAttribute{Name: item.Value})
			continue
		}
		f, err := fields(item)
		if err != nil {
			return Selection{}, err
		}
		attr, ok := f["attr"]
		if !ok {
			return Selection{}, invalidf("line %d: selected attribute needs attr", item.Line)
		}
		agg := NoAggregate
		if a, ok := f["agg"]; ok {
			if agg, err = parseAggregate(a); err != nil {
				return Selection{}, err
			}
		}
		sel.Attributes = append(sel.Attributes, SelectedAttribute{Name: attr.Value, Aggregate: agg})
	}
	return sel, nil
}

func parseAggregate(n *yaml.Node) (Aggregate, error) {
	switch strings.ToLower(n.Value) {
	case "", "none":
		return NoAggregate, nil
	case "min":
		return Min, nil
	case "max":
		return Max, nil
	case "count":
		return Count, nil
	case "sum":
		return Sum, nil
	case "avg":
		return Avg, nil
	default:
		return NoAggregate, invalidf("line %d: unknown aggregate %q", n.Line, n.Value)
	}
}

func decodePredicate(n *yaml.Node) (Predicate, error) {
	f, err := fields(n)
	if err != nil {
		return nil, err
	}

	if and, ok := f["and"]; ok {
		children, err := decodeChildren(and)
		if err != nil {
			return nil, err
		}
		return And(children...), nil
	}

	if or, ok := f["or"]; ok {
		children, err := decodeChildren(or)
		if err != nil {
			return nil, err
		}
		out := children[0]
		for _, c := range children[1:] {
			out = &OrPredicate{Left: out, Right: c}
		}
		return out, nil
	}

	if attr, ok := f["attr"]; ok {
		if sub, ok := f["in"]; ok {
			q, err := decodeQuery(sub)
			if err != nil {
				return nil, err
			}
			return &InQueryPredicate{Attribute: attr.Value, Query: q}, nil
		}
		rel, err := decodeRelation(f, n)
		if err != nil {
			return nil, err
		}
		v, ok := f["value"]
		if !ok {
			return nil, invalidf("line %d: constant predicate needs a value", n.Line)
		}
		val, err := decodeValue(v)
		if err != nil {
			return nil, err
		}
		return &ConstPredicate{Attribute: attr.Value, Value: val, Relation: rel}, nil
	}

	left, hasLeft := f["left"]
	right, hasRight := f["right"]
	if !hasLeft || !hasRight {
		return nil, invalidf("line %d: unrecognised predicate", n.Line)
	}
	rel, err := decodeRelation(f, n)
	if err != nil {
		return nil, err
	}
	return &AttributePredicate{Left: left.Value, Right: right.Value, Relation: rel}, nil
}

func decodeChildren(n *yaml.Node) ([]Predicate, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return nil, invalidf("line %d: expected a non-empty list of predicates", n.Line)
	}
	out := make([]Predicate, 0, len(n.Content))
	for _, c := range n.Content {
		p, err := decodePredicate(c)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func decodeRelation(f map[string]*yaml.Node, n *yaml.Node) (types.Relation, error) {
	op, ok := f["op"]
	if !ok {
		return 0, invalidf("line %d: predicate needs op", n.Line)
	}
	rel, ok := types.ParseRelation(op.Value)
	if !ok {
		return 0, invalidf("line %d: unsupported operator %q", op.Line, op.Value)
	}
	return rel, nil
}

func decodeValue(n *yaml.Node) (types.Value, error) {
	if n.Kind != yaml.ScalarNode {
		return types.Value{}, invalidf("line %d: value must be a scalar", n.Line)
	}
	if n.ShortTag() == "!!int" {
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return types.Value{}, invalidf("line %d: bad integer %q", n.Line, n.Value)
		}
		return types.NewInt(i), nil
	}
	return types.NewString(n.Value), nil
}
