package store

import (
	"iter"

	"github.com/pkg/errors"
)

// DynamicArray is a growable contiguous sequence. Storage doubles when an
// Add or Insert finds it full; removals shift in place and keep the storage.
type DynamicArray[T comparable] struct {
	items           []T
	count           int
	initialCapacity int
}

func NewDynamicArray[T comparable](opts ...ArrayOption) *DynamicArray[T] {
	cfg := arrayConfig{initialCapacity: DefaultArrayCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &DynamicArray[T]{
		items:           make([]T, cfg.initialCapacity),
		initialCapacity: cfg.initialCapacity,
	}
}

func (a *DynamicArray[T]) Len() int {
	return a.count
}

func (a *DynamicArray[T]) Cap() int {
	return len(a.items)
}

func (a *DynamicArray[T]) Add(item T) {
	a.ensureRoom()
	a.items[a.count] = item
	a.count++
}

func (a *DynamicArray[T]) Get(index int) (T, error) {
	if err := a.checkIndex(index, a.count); err != nil {
		var zero T
		return zero, err
	}
	return a.items[index], nil
}

func (a *DynamicArray[T]) Set(index int, item T) error {
	if err := a.checkIndex(index, a.count); err != nil {
		return err
	}
	a.items[index] = item
	return nil
}

// Insert places item at index, shifting later elements right. index may equal
// Len, which appends.
func (a *DynamicArray[T]) Insert(index int, item T) error {
	if err := a.checkIndex(index, a.count+1); err != nil {
		return err
	}

	a.ensureRoom()
	copy(a.items[index+1:a.count+1], a.items[index:a.count])
	a.items[index] = item
	a.count++
	return nil
}

func (a *DynamicArray[T]) RemoveAt(index int) error {
	if err := a.checkIndex(index, a.count); err != nil {
		return err
	}

	copy(a.items[index:a.count-1], a.items[index+1:a.count])
	a.count--

	var zero T
	a.items[a.count] = zero
	return nil
}

func (a *DynamicArray[T]) Remove(item T) bool {
	i := a.IndexOf(item)
	if i < 0 {
		return false
	}
	return a.RemoveAt(i) == nil
}

func (a *DynamicArray[T]) IndexOf(item T) int {
	for i := 0; i < a.count; i++ {
		if a.items[i] == item {
			return i
		}
	}
	return -1
}

func (a *DynamicArray[T]) LastIndexOf(item T) int {
	for i := a.count - 1; i >= 0; i-- {
		if a.items[i] == item {
			return i
		}
	}
	return -1
}

func (a *DynamicArray[T]) Contains(item T) bool {
	return a.IndexOf(item) >= 0
}

func (a *DynamicArray[T]) Clear() {
	a.items = make([]T, a.initialCapacity)
	a.count = 0
}

func (a *DynamicArray[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < a.count; i++ {
			if !yield(i, a.items[i]) {
				return
			}
		}
	}
}

func (a *DynamicArray[T]) ToSlice() []T {
	result := make([]T, a.count)
	copy(result, a.items[:a.count])
	return result
}

func (a *DynamicArray[T]) CopyTo(dst []T, offset int) error {
	if offset < 0 || len(dst)-offset < a.count {
		return errors.Wrapf(ErrInvalidArgument, "copy %d items into %d slots at offset %d", a.count, len(dst), offset)
	}
	copy(dst[offset:], a.items[:a.count])
	return nil
}

func (a *DynamicArray[T]) ensureRoom() {
	if a.count < len(a.items) {
		return
	}
	items := make([]T, len(a.items)*2)
	copy(items, a.items[:a.count])
	a.items = items
}

func (a *DynamicArray[T]) checkIndex(index, limit int) error {
	if index < 0 || index >= limit {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d, length %d", index, a.count)
	}
	return nil
}
