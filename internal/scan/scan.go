// Package scan finds declared kinds outside the supported set before any
// schema is built.
package scan

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"sanity-yaml/internal/diagnostic"
	"sanity-yaml/internal/field"
	"sanity-yaml/internal/match"
	"sanity-yaml/internal/notation"
	"sanity-yaml/internal/source"
)

// Report maps schema names to the unsupported kind tokens declared in them.
type Report map[string]map[string]struct{}

// Empty reports whether no unsupported kind was found.
func (r Report) Empty() bool {
	return len(r) == 0
}

// Schemas returns the schema names with findings, sorted.
func (r Report) Schemas() []string {
	return slices.Sorted(maps.Keys(r))
}

// Kinds returns the unsupported tokens of schema, sorted.
func (r Report) Kinds(schema string) []string {
	return slices.Sorted(maps.Keys(r[schema]))
}

// Merge adds every finding of other to r.
func (r Report) Merge(other Report) {
	for schema, kinds := range other {
		for k := range kinds {
			r.add(schema, k)
		}
	}
}

func (r Report) add(schema, kind string) {
	if r[schema] == nil {
		r[schema] = map[string]struct{}{}
	}

	r[schema][kind] = struct{}{}
}

// Result is the outcome of scanning one or more documents.
type Result struct {
	Report      Report
	Diagnostics diagnostic.Diagnostics
}

// Document scans every schema entry of doc.
func Document(doc *source.Document) Result {
	res := Result{Report: Report{}}

	for _, e := range doc.Schemas() {
		s := &scanner{schema: e.Key, file: doc.Path, res: &res}

		if e.Value.IsMapping() {
			for _, f := range e.Value.Entries {
				s.value(f.Key, f.Value, f.Key)
			}
		}
	}

	return res
}

// Documents scans docs and merges their findings.
func Documents(docs []*source.Document) Result {
	res := Result{Report: Report{}}

	for _, doc := range docs {
		r := Document(doc)
		res.Report.Merge(r.Report)
		res.Diagnostics.Merge(r.Diagnostics)
	}

	return res
}

type scanner struct {
	schema string
	file   string
	res    *Result
}

// value mirrors the handler dispatch: containers are descended the same
// way the resolver descends them, every other kind is checked against the
// supported set.
func (s *scanner) value(name string, v *source.Value, path string) {
	decl, ok := notation.Parse(name, v)
	if !ok {
		return
	}

	switch decl.Kind {
	case field.KindObject:
		for _, e := range decl.Nested.Entries {
			s.value(e.Key, e.Value, path+"."+e.Key)
		}

	case field.KindArray:
		if !decl.Nested.IsSequence() {
			s.value("", decl.Nested, path+".[]")
			return
		}

		for i, item := range decl.Nested.Items {
			s.value("", item, path+"."+strconv.Itoa(i))
		}

	default:
		if decl.Kind == "" || decl.Kind.IsSupported() {
			return
		}

		s.res.Report.add(s.schema, decl.Kind.String())
		s.res.Diagnostics.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.SeverityWarning,
			Code:        diagnostic.CodeUnsupportedKind,
			Message:     fmt.Sprintf("unsupported kind %q", decl.Kind),
			Schema:      s.schema,
			FieldPath:   path,
			File:        s.file,
			Pos:         v.Pos(),
			Suggestions: match.Suggest(decl.Kind.String(), field.SupportedKindNames(), match.DefaultSuggestLimit),
		})
	}
}
