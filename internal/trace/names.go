package trace

import (
	"fmt"
	"strings"
)

// nameOf looks v up in a name table indexed by value.
func nameOf[T ~uint8](names []string, v T) string {
	if int(v) < len(names) && names[v] != "" {
		return names[v]
	}
	return "unknown"
}

// parseName is the case-insensitive inverse of nameOf. Aliases map extra
// spellings to values.
func parseName[T ~uint8](what string, names []string, aliases map[string]T, s string) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if v, ok := aliases[s]; ok {
		return v, nil
	}
	for i, n := range names {
		if n != "" && n == s {
			return T(i), nil //nolint:gosec
		}
	}
	var valid []string
	for _, n := range names {
		if n != "" {
			valid = append(valid, n)
		}
	}
	var zero T
	return zero, fmt.Errorf("invalid trace %s: %q (expected: %s)", what, s, strings.Join(valid, "|"))
}
