package types

// Relation is the comparison operator of a simple predicate.
type Relation int

const (
	Equal Relation = iota
	Less
	Greater
)

func (r Relation) String() string {
	switch r {
	case Equal:
		return "="
	case Less:
		return "<"
	case Greater:
		return ">"
	default:
		return "UNKNOWN"
	}
}

// Holds reports whether a comparison result (as returned by Value.Compare)
// satisfies the relation.
func (r Relation) Holds(cmp int) bool {
	switch r {
	case Equal:
		return cmp == 0
	case Less:
		return cmp < 0
	case Greater:
		return cmp > 0
	default:
		return false
	}
}

// Mirror returns the relation obtained by swapping both sides: a < b iff b > a.
func (r Relation) Mirror() Relation {
	switch r {
	case Less:
		return Greater
	case Greater:
		return Less
	default:
		return r
	}
}

// ParseRelation maps "=", "<" and ">" to a Relation.
func ParseRelation(op string) (Relation, bool) {
	switch op {
	case "=", "==":
		return Equal, true
	case "<":
		return Less, true
	case ">":
		return Greater, true
	default:
		return 0, false
	}
}
