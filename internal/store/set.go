package store

import (
	"iter"
)

type HashSet[T comparable] struct {
	members *HashMap[T, struct{}]
}

func NewHashSet[T comparable](opts ...Option[T]) *HashSet[T] {
	return &HashSet[T]{
		members: NewHashMap[T, struct{}](opts...),
	}
}

func (s *HashSet[T]) Add(members ...T) int {
	added := 0
	for _, member := range members {
		if s.members.Insert(member, struct{}{}) == nil {
			added++
		}
	}
	return added
}

func (s *HashSet[T]) Remove(members ...T) int {
	removed := 0
	for _, member := range members {
		if s.members.Remove(member) {
			removed++
		}
	}
	return removed
}

func (s *HashSet[T]) Contains(member T) bool {
	return s.members.ContainsKey(member)
}

func (s *HashSet[T]) Members() []T {
	return s.members.Keys()
}

func (s *HashSet[T]) Len() int {
	return s.members.Len()
}

func (s *HashSet[T]) Pop() (T, bool) {
	for member := range s.members.All() {
		s.members.Remove(member)
		return member, true
	}

	var zero T
	return zero, false
}

func (s *HashSet[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for member := range s.members.All() {
			if !yield(member) {
				return
			}
		}
	}
}
