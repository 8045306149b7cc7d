package notation

import (
	"regexp"
	"strings"

	"sanity-yaml/internal/field"
	"sanity-yaml/internal/source"
)

// Sigils used by the declaration notation.
const (
	ReferenceSigil = "->"
	ArraySuffix    = "[]"
	RequiredSuffix = "!"
	annotationSep  = '|'
)

// optionsPattern matches the parenthesized options suffix. It is greedy so
// that nested parentheses stay inside the captured options.
var optionsPattern = regexp.MustCompile(`\((.*)\)`)

// Declaration is a normalized field declaration.
type Declaration struct {
	// Kind is the declared kind; it may be outside the supported set.
	Kind field.Kind
	// Nested is the value handed to the kind handler: the object mapping,
	// the array element declaration(s), or the referenced type name.
	Nested *source.Value
	// Options is the raw text inside the parenthesized suffix.
	Options string
}

// Parse classifies a declaration. The boolean result is false when the
// value is empty and the node must be skipped entirely.
func Parse(name string, v *source.Value) (Declaration, bool) {
	if v.IsEmpty() {
		return Declaration{}, false
	}

	var opts, stripped string

	if v.IsScalar() {
		decl, _ := SplitAnnotation(v.Text)
		opts, stripped = ExtractOptions(strings.TrimSpace(decl))
	}

	switch {
	case v.IsSequence():
		return Declaration{Kind: field.KindArray, Nested: v}, true

	case v.IsScalar() && strings.HasPrefix(stripped, ReferenceSigil):
		target := strings.TrimSpace(strings.TrimPrefix(stripped, ReferenceSigil))

		return Declaration{Kind: field.KindReference, Nested: source.String(target), Options: opts}, true

	case strings.Contains(name, ArraySuffix):
		nested := v
		if v.IsScalar() {
			nested = source.String(stripped)
		}

		return Declaration{Kind: field.KindArray, Nested: nested, Options: opts}, true

	case v.IsMapping():
		return Declaration{Kind: field.KindObject, Nested: v}, true
	}

	kind := field.Kind(stripped)
	if kind == field.KindFile {
		return Declaration{Kind: kind, Nested: source.String(stripped), Options: opts}, true
	}

	// Recognized or not, the stripped token is the kind; unrecognized
	// tokens are rejected by the handler dispatch.
	return Declaration{Kind: kind, Options: opts}, true
}

// Value re-serializes the declaration into a raw value that classifies to
// the same kind under any field name without sigils.
func (d Declaration) Value() *source.Value {
	switch d.Kind {
	case field.KindArray:
		if d.Nested.IsSequence() {
			return d.Nested
		}

		return source.Seq(d.Nested)

	case field.KindObject:
		return d.Nested

	case field.KindReference:
		return source.String(ReferenceSigil + d.Nested.Text + wrapOptions(d.Options))

	default:
		return source.String(string(d.Kind) + wrapOptions(d.Options))
	}
}

// ExtractOptions splits a declaration string into its options text and
// the declaration with the options suffix removed.
func ExtractOptions(s string) (options, stripped string) {
	loc := optionsPattern.FindStringSubmatchIndex(s)
	if loc == nil {
		return "", s
	}

	return s[loc[2]:loc[3]], strings.TrimSpace(s[:loc[0]] + s[loc[1]:])
}

// SplitAnnotation splits a declaration string at the first "|" outside of
// parentheses into the declaration and its validation annotation.
func SplitAnnotation(s string) (decl, annotation string) {
	depth := 0

	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case annotationSep:
			if depth == 0 {
				return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
			}
		}
	}

	return s, ""
}

func wrapOptions(opts string) string {
	if opts == "" {
		return ""
	}

	return "(" + opts + ")"
}
