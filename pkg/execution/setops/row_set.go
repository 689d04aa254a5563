// Package setops implements duplicate elimination over row streams.
//
// Unique remembers every distinct row it has emitted. OptimizedUnique relies
// on the input being grouped by a set of ordering attributes and only
// remembers rows of the current group.
package setops

import (
	"slices"

	"toydbms/pkg/tuple"
	"toydbms/pkg/types"
)

// RowSet is a hash set of value tuples. Keys are bucketed by their SipHash
// and compared value by value inside a bucket, so hash collisions never merge
// distinct keys.
type RowSet struct {
	buckets map[uint64][][]types.Value
	size    int
}

func NewRowSet() *RowSet {
	return &RowSet{buckets: make(map[uint64][][]types.Value)}
}

// Add inserts values and reports whether they were absent.
// The set keeps the slice; callers must not modify it afterwards.
func (s *RowSet) Add(values []types.Value) bool {
	h := tuple.HashValues(values)
	bucket := s.buckets[h]
	if slices.ContainsFunc(bucket, func(existing []types.Value) bool {
		return equalValues(existing, values)
	}) {
		return false
	}

	s.buckets[h] = append(bucket, values)
	s.size++
	return true
}

// Contains reports whether values are in the set.
func (s *RowSet) Contains(values []types.Value) bool {
	return slices.ContainsFunc(s.buckets[tuple.HashValues(values)], func(existing []types.Value) bool {
		return equalValues(existing, values)
	})
}

func (s *RowSet) Len() int { return s.size }

// Clear empties the set.
func (s *RowSet) Clear() {
	clear(s.buckets)
	s.size = 0
}

func equalValues(a, b []types.Value) bool {
	return slices.EqualFunc(a, b, types.Value.Equals)
}
