// Package ring provides a fixed-capacity buffer that evicts its oldest
// element on overflow. It is not safe for concurrent use.
package ring

// Buffer holds at most Cap elements in insertion order.
type Buffer[T any] struct {
	items []T
	start int
	size  int
}

// New creates a Buffer holding at most capacity elements. Capacity below one
// is raised to one.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{items: make([]T, capacity)}
}

// Cap returns the retention bound.
func (b *Buffer[T]) Cap() int { return len(b.items) }

// Len returns the number of retained elements.
func (b *Buffer[T]) Len() int { return b.size }

// Push appends v, evicting the oldest element when full. It reports whether
// an element was evicted.
func (b *Buffer[T]) Push(v T) bool {
	if b.size < len(b.items) {
		b.items[(b.start+b.size)%len(b.items)] = v
		b.size++
		return false
	}

	b.items[b.start] = v
	b.start = (b.start + 1) % len(b.items)
	return true
}

// Oldest returns a copy of the retained elements, oldest first.
func (b *Buffer[T]) Oldest() []T {
	out := make([]T, b.size)
	for i := range b.size {
		out[i] = b.items[(b.start+i)%len(b.items)]
	}
	return out
}

// Newest returns a copy of the retained elements, newest first.
func (b *Buffer[T]) Newest() []T {
	out := make([]T, b.size)
	for i := range b.size {
		out[i] = b.items[(b.start+b.size-1-i)%len(b.items)]
	}
	return out
}

// Each calls fn for every retained element, oldest first.
func (b *Buffer[T]) Each(fn func(T)) {
	for i := range b.size {
		fn(b.items[(b.start+i)%len(b.items)])
	}
}
