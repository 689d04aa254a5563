package optimizer

import (
	"math"

	"toydbms/pkg/catalog"
	"toydbms/pkg/execution"
	"toydbms/pkg/execution/join"
	"toydbms/pkg/execution/setops"
	"toydbms/pkg/iterator"
	"toydbms/pkg/query"
	"toydbms/pkg/types"
)

// Default constants for cardinality estimation
const (
	DefaultTableCardinality = 1000 // Table size when the catalog has no entry
	DefaultJoinSelectivity  = 0.1  // Equality join without a unique side
	EqualitySelectivity     = 0.1  // Equality filter on a non-unique column
	RangeSelectivity        = 0.33 // Inequality filter
	MinCardinality          = 1    // Floor for any non-empty estimate
)

// CardinalityEstimator estimates the number of rows an operator tree
// produces from the catalog statistics. The estimates only feed plan
// explanations and logs; they never change the plan.
type CardinalityEstimator struct {
	catalog *catalog.Catalog
}

func NewCardinalityEstimator(cat *catalog.Catalog) *CardinalityEstimator {
	return &CardinalityEstimator{catalog: cat}
}

// Estimate returns the estimated output rows of op.
func (ce *CardinalityEstimator) Estimate(op iterator.Operator) int64 {
	switch node := op.(type) {
	case *execution.Empty:
		return 0
	case *execution.Filter:
		return ce.estimateFilter(node)
	case *execution.AliasAppender:
		if t, err := ce.catalog.Table(query.TableName(node.Header().Name(0))); err == nil {
			return int64(t.Rows)
		}
		return ce.Estimate(node.Child())
	case *execution.Projection:
		return ce.Estimate(node.Child())
	case *execution.Cache:
		return int64(node.Len())
	case *setops.Unique:
		return ce.Estimate(node.Child())
	case *setops.OptimizedUnique:
		return ce.Estimate(node.Child())
	case *join.NLJoin:
		return ce.estimateJoin(node)
	case *join.CrossJoin:
		children := node.Children()
		return ce.Estimate(children[0]) * ce.Estimate(children[1])
	default:
		return ce.estimateScan(op)
	}
}

// estimateScan uses the row count of the table the leaf's columns belong to.
func (ce *CardinalityEstimator) estimateScan(op iterator.Operator) int64 {
	h := op.Header()
	if h.Len() == 0 {
		return DefaultTableCardinality
	}
	t, err := ce.catalog.Table(query.TableName(h.Name(0)))
	if err != nil {
		return DefaultTableCardinality
	}
	return int64(t.Rows)
}

func (ce *CardinalityEstimator) estimateFilter(f *execution.Filter) int64 {
	child := ce.Estimate(f.Child())
	if child == 0 {
		return 0
	}

	switch p := f.Predicate().(type) {
	case *query.ConstPredicate:
		if p.Relation != types.Equal {
			return scale(child, RangeSelectivity)
		}
		if col, err := ce.catalog.Column(p.Attribute); err == nil && col.Unique {
			return MinCardinality
		}
		return scale(child, EqualitySelectivity)
	case *query.AttributePredicate:
		if p.Relation != types.Equal {
			return scale(child, RangeSelectivity)
		}
		return scale(child, DefaultJoinSelectivity)
	default:
		return child
	}
}

// estimateJoin assumes a unique join column matches at most one row.
func (ce *CardinalityEstimator) estimateJoin(j *join.NLJoin) int64 {
	children := j.Children()
	left, right := ce.Estimate(children[0]), ce.Estimate(children[1])
	if left == 0 || right == 0 {
		return 0
	}

	la, ra := j.Attributes()
	if col, err := ce.catalog.Column(ra); err == nil && col.Unique {
		return left
	}
	if col, err := ce.catalog.Column(la); err == nil && col.Unique {
		return right
	}
	return scale(left*right, DefaultJoinSelectivity)
}

func scale(rows int64, selectivity float64) int64 {
	return int64(math.Max(MinCardinality, math.Round(float64(rows)*selectivity)))
}
