// Package planner turns a query into an executable operator tree.
//
// Build runs the planning steps in order:
//
//  1. resolve the FROM list into row sources, planning sub-queries recursively
//  2. classify the WHERE conjunction into constant filters, same-table
//     inequalities and cross-table equality joins
//  3. fold constant filters per column and check them against the catalog
//  4. drop implied inequalities and detect inequality cycles
//  5. order joins and cross-join the connected components
//  6. project the selected attributes
//  7. pick a duplicate elimination strategy for DISTINCT
//
// A filter set proven unsatisfiable is not an error: the affected tables are
// replaced by Empty operators and the plan is marked Empty.
package planner
