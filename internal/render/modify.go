package render

import (
	"fmt"
	"regexp"
	"slices"
)

// Modify merges rendered into existing. When pattern is set, its first
// match is replaced; otherwise, or when nothing matches, rendered is
// appended. matched reports whether the pattern was found.
func Modify(existing, rendered []byte, pattern string) (out []byte, matched bool, err error) {
	if pattern == "" {
		return slices.Concat(existing, rendered), false, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, false, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
	}

	loc := re.FindIndex(existing)
	if loc == nil {
		return slices.Concat(existing, rendered), false, nil
	}

	return slices.Concat(existing[:loc[0]], rendered, existing[loc[1]:]), true, nil
}
