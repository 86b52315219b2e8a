package corpus

import "strings"

// NormalizeProducers flattens a producer list into the single invariant shape:
// an ordered sequence of distinct, non-empty, trimmed names. Input order is
// preserved by first occurrence. This runs once at the ingestion boundary;
// nothing downstream re-validates producer lists.
func NormalizeProducers(names ...[]string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0)
	for _, group := range names {
		for _, name := range group {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			result = append(result, name)
		}
	}
	return result
}
