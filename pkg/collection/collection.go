// Package collection provides copy-on-write helpers for id-keyed slices held
// by the stores. None of the helpers modify their input.
package collection

// Identifiable is implemented by entities with a comparable id.
type Identifiable[K comparable] interface {
	GetID() K
}

// ReplaceByID returns a new slice where every element whose id equals id
// is replaced by replace(element). All other elements are carried over
// as-is, so pointer elements keep their identity. found reports whether
// any element matched.
func ReplaceByID[T Identifiable[K], K comparable](items []T, id K, replace func(T) T) (out []T, found bool) {
	out = make([]T, len(items))
	for i, item := range items {
		if item.GetID() == id {
			out[i] = replace(item)
			found = true
			continue
		}
		out[i] = item
	}
	return out, found
}

// RemoveByID returns a new slice without the elements whose id equals id.
func RemoveByID[T Identifiable[K], K comparable](items []T, id K) (out []T, found bool) {
	out = make([]T, 0, len(items))
	for _, item := range items {
		if item.GetID() == id {
			found = true
			continue
		}
		out = append(out, item)
	}
	return out, found
}

// FindByID returns the first element whose id equals id.
func FindByID[T Identifiable[K], K comparable](items []T, id K) (T, bool) {
	for _, item := range items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Prepend returns a new slice with item first. An element already present
// under the same id is dropped so ids stay unique.
func Prepend[T Identifiable[K], K comparable](items []T, item T) []T {
	rest, _ := RemoveByID(items, item.GetID())
	out := make([]T, 0, len(rest)+1)
	out = append(out, item)
	return append(out, rest...)
}

// Clone returns a shallow copy of items. A nil input yields an empty, non-nil slice.
func Clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
