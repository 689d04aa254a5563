// Package execution is the root of ToyDBMS's query execution engine.
//
// The engine uses the iterator (volcano) model: every operator implements
// iterator.Operator with Header / Next / Reset. Operators are composed into a
// tree; calling Next on the root pulls one row at a time through the
// pipeline. Only Cache and the joins' right sides materialise their input,
// once, when they are constructed.
//
// # Sub-packages
//
//   - [toydbms/pkg/execution/scanner] – row sources that feed table rows into
//     the pipeline.
//   - [toydbms/pkg/execution/join]    – nested-loop equality join and cross join.
//   - [toydbms/pkg/execution/setops]  – duplicate elimination (Unique and
//     OptimizedUnique).
//
// This package holds the single-input operators: Filter, Projection,
// AliasAppender, Cache and Empty.
package execution
