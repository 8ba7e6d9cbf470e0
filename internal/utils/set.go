// Copyright (c) 2024 RoseLoverX

package utils

// Set is an unordered collection of comparable values. The environment
// serializes all access, so no locking happens here.
type Set[T comparable] struct {
	m map[T]struct{}
}

func NewSet[T comparable]() *Set[T] {
	return &Set[T]{m: make(map[T]struct{})}
}

// Add reports whether the key was newly inserted.
func (s *Set[T]) Add(key T) bool {
	if _, ok := s.m[key]; ok {
		return false
	}
	s.m[key] = struct{}{}
	return true
}

func (s *Set[T]) Has(key T) bool {
	_, ok := s.m[key]
	return ok
}

func (s *Set[T]) Delete(key T) {
	delete(s.m, key)
}

func (s *Set[T]) Len() int {
	return len(s.m)
}

func (s *Set[T]) Values() []T {
	values := make([]T, 0, len(s.m))
	for k := range s.m {
		values = append(values, k)
	}
	return values
}
