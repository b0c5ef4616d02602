// Package collection has the few generic slice helpers the services share.
//
//	ids := collection.Unique(collection.Map(lines, func(l LineItem) uint { return l.FoodID }))
//	byID := collection.KeyBy(foods, func(f models.Food) uint { return f.ID })
package collection

// Map transforms each element of s using fn. A nil s yields an empty,
// non-nil slice so JSON encodes it as [].
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// FlatMap maps every element to a slice and concatenates the results.
func FlatMap[T, R any](s []T, fn func(T) []R) []R {
	var out []R
	for _, v := range s {
		out = append(out, fn(v)...)
	}
	return out
}

// Unique drops repeated elements, keeping first occurrences in order.
func Unique[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	out := make([]T, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// KeyBy indexes s by the key fn returns. Later elements win on collision.
func KeyBy[T any, K comparable](s []T, fn func(T) K) map[K]T {
	out := make(map[K]T, len(s))
	for _, v := range s {
		out[fn(v)] = v
	}
	return out
}
