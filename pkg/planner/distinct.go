package planner

import (
	"toydbms/pkg/catalog"
	"toydbms/pkg/query"
)

// DistinctStrategy is how a plan eliminates duplicate rows.
type DistinctStrategy int

const (
	// NoDistinct means the query did not ask for DISTINCT.
	NoDistinct DistinctStrategy = iota
	// SkipDistinct means the rows are already known to be distinct.
	SkipDistinct
	// UniqueStrategy remembers every emitted row.
	UniqueStrategy
	// OptimizedUniqueStrategy relies on the output being grouped by ordered
	// attributes of the outer-most table.
	OptimizedUniqueStrategy
)

func (s DistinctStrategy) String() string {
	switch s {
	case SkipDistinct:
		return "skip"
	case UniqueStrategy:
		return "unique"
	case OptimizedUniqueStrategy:
		return "optimized-unique"
	default:
		return "none"
	}
}

// DistinctInput is what a DistinctPolicy may look at.
type DistinctInput struct {
	Tables    []string // FROM entries: table names and sub-query aliases
	Outer     string   // table whose rows drive the output order
	Projected []string // output attributes
	Catalog   *catalog.Catalog
}

// DistinctDecision is the outcome of a DistinctPolicy.
type DistinctDecision struct {
	Strategy DistinctStrategy
	Ordered  []string // ordering attributes, for OptimizedUniqueStrategy
}

// DistinctPolicy chooses how to remove duplicates from a DISTINCT query.
type DistinctPolicy func(in DistinctInput) DistinctDecision

// CatalogDistinct uses catalog facts to avoid work:
//   - over a single table, projecting a unique column makes every row
//     distinct already
//   - ordered outer-table attributes in the output group equal rows together
//     and allow OptimizedUnique
//   - otherwise rows go through Unique
func CatalogDistinct(in DistinctInput) DistinctDecision {
	if len(in.Tables) == 1 {
		for _, attr := range in.Projected {
			if col, err := in.Catalog.Column(attr); err == nil && col.Unique {
				return DistinctDecision{Strategy: SkipDistinct}
			}
		}
	}

	var ordered []string
	for _, attr := range in.Projected {
		if query.TableName(attr) != in.Outer {
			continue
		}
		if col, err := in.Catalog.Column(attr); err == nil && col.Order.Ordered() {
			ordered = append(ordered, attr)
		}
	}
	if len(ordered) > 0 {
		return DistinctDecision{Strategy: OptimizedUniqueStrategy, Ordered: ordered}
	}
	return DistinctDecision{Strategy: UniqueStrategy}
}

// AlwaysUnique ignores the catalog.
func AlwaysUnique(DistinctInput) DistinctDecision {
	return DistinctDecision{Strategy: UniqueStrategy}
}
