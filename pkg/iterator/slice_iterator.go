package iterator

// SliceIterator provides a generic cursor over a slice of any type T.
// It encapsulates the slice+index pattern shared by operators that buffer
// their input in memory (Cache, the nested-loop joins' right side).
//
// Design:
//   - Always ready to use after construction
//   - Rewind only moves the cursor; the data is never copied or reloaded
//   - Not thread-safe
type SliceIterator[T any] struct {
	data         []T // The underlying slice to iterate over
	currentIndex int // Current position in the slice
}

// NewSliceIterator creates a new iterator over the given slice.
func NewSliceIterator[T any](data []T) *SliceIterator[T] {
	return &SliceIterator[T]{data: data}
}

// HasNext checks if there are more elements available.
func (it *SliceIterator[T]) HasNext() bool {
	return it.currentIndex < len(it.data)
}

// Next returns the next element and advances the position.
// The second result is false when the iterator is exhausted.
func (it *SliceIterator[T]) Next() (T, bool) {
	var zero T
	if it.currentIndex >= len(it.data) {
		return zero, false
	}

	element := it.data[it.currentIndex]
	it.currentIndex++
	return element, true
}

// Rewind resets the iterator position to the beginning of the slice.
func (it *SliceIterator[T]) Rewind() {
	it.currentIndex = 0
}

// Len returns the total number of elements in the slice.
func (it *SliceIterator[T]) Len() int {
	return len(it.data)
}

// Remaining returns the number of elements left to iterate.
func (it *SliceIterator[T]) Remaining() int {
	if it.currentIndex >= len(it.data) {
		return 0
	}
	return len(it.data) - it.currentIndex
}
