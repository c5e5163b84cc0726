package diff

import "sort"

// sortedMapKeys returns m's keys in lexicographic order, the same
// deterministic-iteration discipline ir.Schema applies to its own maps
// (spec.md §9 "Deterministic set iteration").
func sortedMapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
