package render

import (
	"fmt"
	"strconv"
	"strings"

	"sanity-yaml/internal/field"
)

const indentUnit = "\t"

// SanityFields renders fields as the entries of a Sanity fields array,
// one per line group, each indented by depth tabs. Named fields are
// wrapped in defineField unless bare is set.
func SanityFields(fields []*field.Node, depth int, bare bool) string {
	w := &codeWriter{depth: depth, bare: bare}

	for _, f := range fields {
		w.field(f)
	}

	return w.String()
}

type codeWriter struct {
	lines []string
	depth int
	bare  bool
}

func (w *codeWriter) String() string {
	return strings.Join(w.lines, "\n")
}

func (w *codeWriter) line(format string, args ...any) {
	w.lines = append(w.lines, strings.Repeat(indentUnit, w.depth)+fmt.Sprintf(format, args...))
}

func (w *codeWriter) field(n *field.Node) {
	if isSimpleElement(n) {
		w.line("{ type: %s },", strconv.Quote(n.Kind.String()))
		return
	}

	wrap := !w.bare && !n.IsAnonymous()

	if wrap {
		w.line("defineField({")
	} else {
		w.line("{")
	}

	w.depth++
	w.props(n)
	w.depth--

	if wrap {
		w.line("}),")
	} else {
		w.line("},")
	}
}

func (w *codeWriter) props(n *field.Node) {
	if n.Name != "" {
		w.line("name: %s,", strconv.Quote(n.Name))
	}

	w.line("type: %s,", strconv.Quote(n.Kind.String()))

	if n.Kind == field.KindReference && n.To != "" {
		w.line("to: [{ type: %s }],", strconv.Quote(n.To))
	}

	opts := n.Options

	if n.Kind == field.KindText {
		if rows, ok := opts[field.OptionRows]; ok {
			w.line("rows: %s,", jsValue(rows))
		}

		opts = withoutKey(opts, field.OptionRows)
	}

	if len(opts) > 0 {
		parts := make([]string, 0, len(opts))
		for _, k := range opts.Keys() {
			parts = append(parts, k+": "+jsValue(opts[k]))
		}

		w.line("options: { %s },", strings.Join(parts, ", "))
	}

	switch n.Kind {
	case field.KindObject:
		w.line("fields: [")
		w.depth++

		for _, c := range n.Children {
			w.field(c)
		}

		w.depth--
		w.line("],")

	case field.KindArray:
		w.line("of: [")
		w.depth++

		for _, e := range n.ElementTypes {
			w.field(e)
		}

		w.depth--
		w.line("],")
	}

	if !n.Validation.IsZero() {
		w.line("validation: (Rule) => %s,", n.Validation)
	}
}

// isSimpleElement reports whether n renders as a one-line array member.
func isSimpleElement(n *field.Node) bool {
	return n.IsAnonymous() && !n.Kind.IsContainer() && len(n.Options) == 0 &&
		n.Validation.IsZero() && n.To == ""
}

func withoutKey(opts field.Options, key string) field.Options {
	if _, ok := opts[key]; !ok {
		return opts
	}

	out := make(field.Options, len(opts)-1)

	for k, v := range opts {
		if k != key {
			out[k] = v
		}
	}

	return out
}

func jsValue(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case []string:
		quoted := make([]string, 0, len(val))
		for _, s := range val {
			quoted = append(quoted, strconv.Quote(s))
		}

		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return strconv.Quote(fmt.Sprint(val))
	}
}
