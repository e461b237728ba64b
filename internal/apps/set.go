package apps

// OrderedSet is a set that remembers insertion order. Add and Has are
// constant time; Values returns elements in first-insertion order.
type OrderedSet[T comparable] struct {
	index map[T]struct{}
	order []T
}

// NewOrderedSet returns an empty set.
func NewOrderedSet[T comparable]() *OrderedSet[T] {
	return &OrderedSet[T]{index: make(map[T]struct{})}
}

// Add inserts v and reports whether it was not already present.
// Re-adding an existing value does not move it.
func (s *OrderedSet[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

// Len returns the number of distinct values.
func (s *OrderedSet[T]) Len() int {
	return len(s.order)
}

// Values returns a copy of the values in insertion order. The result is
// never nil so that it encodes as [] in JSON output.
func (s *OrderedSet[T]) Values() []T {
	out := make([]T, len(s.order))
	copy(out, s.order)
	return out
}
