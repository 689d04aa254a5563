package query

// FromPart is one entry of the FROM list.
type FromPart interface {
	fromPart()
}

// FromTable names a stored table.
type FromTable struct {
	Name string
}

// FromQuery is a nested query whose result is exposed under Alias.
type FromQuery struct {
	Query *Query
	Alias string
}

func (*FromTable) fromPart() {}
func (*FromQuery) fromPart() {}

// Aggregate is the aggregate function applied to a selected attribute.
type Aggregate int

const (
	NoAggregate Aggregate = iota
	Min
	Max
	Count
	Sum
	Avg
)

func (a Aggregate) String() string {
	switch a {
	case Min:
		return "MIN"
	case Max:
		return "MAX"
	case Count:
		return "COUNT"
	case Sum:
		return "SUM"
	case Avg:
		return "AVG"
	default:
		return ""
	}
}

// SelectedAttribute is one entry of an explicit selection list.
type SelectedAttribute struct {
	Name      string
	Aggregate Aggregate
}

// Selection is either ALL ("*") or an explicit attribute list.
type Selection struct {
	All        bool
	Attributes []SelectedAttribute
}

// SelectAll returns the "*" selection.
func SelectAll() Selection {
	return Selection{All: true}
}

// Select returns an explicit selection of plain attributes.
func Select(names ...string) Selection {
	attrs := make([]SelectedAttribute, len(names))
	for i, name := range names {
		attrs[i] = SelectedAttribute{Name: name}
	}
	return Selection{Attributes: attrs}
}

// Query is one SELECT.
type Query struct {
	From      []FromPart
	Where     Predicate // nil when there is no WHERE clause
	Selection Selection
	Distinct  bool
}
