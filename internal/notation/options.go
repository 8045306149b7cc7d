package notation

import (
	"strconv"
	"strings"

	"sanity-yaml/internal/field"
)

// ParseOptions parses the raw options text into an option set.
//
// Items are comma separated. "key:value" items become entries; bare items
// become the primary option when there is exactly one and primary is set,
// and the enumerated list option otherwise. Integer values are converted.
func ParseOptions(raw, primary string) field.Options {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	opts := field.Options{}

	var bare []string

	for item := range strings.SplitSeq(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		key, value, ok := strings.Cut(item, ":")
		if !ok || strings.TrimSpace(key) == "" {
			bare = append(bare, unquote(item))
			continue
		}

		opts[strings.TrimSpace(key)] = scalar(unquote(strings.TrimSpace(value)))
	}

	switch {
	case len(bare) == 1 && primary != "":
		opts[primary] = scalar(bare[0])
	case len(bare) > 0:
		opts[field.OptionList] = bare
	}

	if len(opts) == 0 {
		return nil
	}

	return opts
}

func scalar(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}

	return s
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}

	return s
}
