// Package rewriter simplifies the filter predicates of a query before any
// operator is built.
//
// RewriteConstFilters folds every constant comparison on a column into one
// interval, and ColumnBounds.Tighten checks that interval against the
// catalog's observed [min, max]. InequalityRewriter keeps the transitive
// closure of attribute inequalities to drop implied ones and detect cycles.
// Both report an unsatisfiable set through a Valid flag; it is a planning
// outcome, not an error.
package rewriter
