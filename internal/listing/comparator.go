package listing

import "cmp"

// Comparator orders two items: negative if a sorts before b, zero if equal,
// positive otherwise.
type Comparator[T any] func(a, b T) int

// CompareBy orders items by a key extracted from each item.
func CompareBy[T any, K cmp.Ordered](key func(T) K) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	}
}

// Reverse inverts c.
func Reverse[T any](c Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		return c(b, a)
	}
}
