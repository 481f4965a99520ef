// Package history provides fixed-capacity, insertion-ordered buffers used for
// the rolling price history and the trade ledger.
package history

import "encoding/json"

// Bounded keeps the most recent Cap() values in insertion order. Appending to a
// full buffer evicts the oldest value.
type Bounded[T any] struct {
	values []T
	size   int
	index  int
	filled bool
}

// New builds an empty buffer holding at most capacity values.
func New[T any](capacity int) *Bounded[T] {
	if capacity <= 0 {
		panic("history: capacity must be positive")
	}
	return &Bounded[T]{
		values: make([]T, capacity),
		size:   capacity,
	}
}

// From builds a buffer from an ordered slice, keeping only the newest values.
func From[T any](capacity int, values []T) *Bounded[T] {
	b := New[T](capacity)
	b.AppendAll(values)
	return b
}

// Append adds v as the newest value.
func (b *Bounded[T]) Append(v T) {
	b.values[b.index] = v
	b.index = (b.index + 1) % b.size
	if b.index == 0 {
		b.filled = true
	}
}

// AppendAll appends values in order. Only the newest Cap() survive.
func (b *Bounded[T]) AppendAll(values []T) {
	if len(values) > b.size {
		values = values[len(values)-b.size:]
	}
	for _, v := range values {
		b.Append(v)
	}
}

// Len reports how many values are held.
func (b *Bounded[T]) Len() int {
	if b.filled {
		return b.size
	}
	return b.index
}

// Cap reports the capacity.
func (b *Bounded[T]) Cap() int { return b.size }

// Values returns a copy, oldest first.
func (b *Bounded[T]) Values() []T {
	length := b.Len()
	result := make([]T, 0, length)
	if length == 0 {
		return result
	}
	if b.filled {
		result = append(result, b.values[b.index:]...)
	}
	result = append(result, b.values[:b.index]...)
	return result
}

// Last returns the newest value, if any.
func (b *Bounded[T]) Last() (T, bool) {
	var zero T
	if b.Len() == 0 {
		return zero, false
	}
	idx := (b.index - 1 + b.size) % b.size
	return b.values[idx], true
}

// Tail returns up to n of the newest values, newest first.
func (b *Bounded[T]) Tail(n int) []T {
	values := b.Values()
	if n > len(values) {
		n = len(values)
	}
	if n <= 0 {
		return []T{}
	}
	out := make([]T, 0, n)
	for i := len(values) - 1; i >= len(values)-n; i-- {
		out = append(out, values[i])
	}
	return out
}

// MarshalJSON encodes the buffer as a plain array, oldest first.
func (b *Bounded[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Values())
}

// UnmarshalJSON replaces the contents with the decoded array. The capacity of
// the receiver is kept; longer arrays are trimmed from the front.
func (b *Bounded[T]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	size := b.size
	if size <= 0 {
		size = len(values)
		if size == 0 {
			size = 1
		}
	}
	*b = *New[T](size)
	b.AppendAll(values)
	return nil
}
