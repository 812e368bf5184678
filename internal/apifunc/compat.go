package apifunc

import (
	"cmp"
	"slices"
)

// sortedKeys returns the keys of m in sorted order (nil for an empty map),
// matching slices.Sorted(maps.Keys(m)) on toolchains older than Go 1.23.
func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	var keys []K
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
