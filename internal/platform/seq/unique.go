package seq

// Unique returns the distinct elements of items in first-occurrence order.
func Unique[T comparable](items []T) []T {
	return UniqueBy(items, func(item T) T { return item })
}

// UniqueBy keeps the first element seen for every key.
func UniqueBy[T any, K comparable](items []T, key func(T) K) []T {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}
