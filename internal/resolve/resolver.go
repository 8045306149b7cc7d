package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"sanity-yaml/internal/diagnostic"
	"sanity-yaml/internal/field"
	"sanity-yaml/internal/logger"
	"sanity-yaml/internal/match"
	"sanity-yaml/internal/notation"
	"sanity-yaml/internal/source"
)

// Config holds configuration for the resolution process.
type Config struct {
	// Defaults supplies option values not set locally, e.g. text rows.
	Defaults field.Defaults
	// Passthrough emits kinds outside the supported set as leaf nodes
	// typed by their raw token instead of dropping them.
	Passthrough bool
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() Config {
	return Config{
		Defaults: field.DefaultFieldDefaults(),
	}
}

// Resolver builds field definition trees. It holds no per-build state and
// is safe for concurrent use.
type Resolver struct {
	config   Config
	log      logger.Logger
	handlers map[field.Kind]handler
}

// Schema is the resolved form of one top-level schema entry.
type Schema struct {
	Name        string
	Title       string
	Fields      []*field.Node
	Diagnostics diagnostic.Diagnostics
}

// NewResolver creates a new Resolver. A nil log discards all events.
func NewResolver(config Config, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNop()
	}

	if config.Defaults.Text.Rows <= 0 {
		config.Defaults.Text.Rows = field.DefaultTextRows
	}

	return &Resolver{
		config:   config,
		log:      log,
		handlers: handlerTable(),
	}
}

// Build resolves one schema entry into its ordered top-level fields.
func (r *Resolver) Build(name string, value *source.Value) *Schema {
	b := &build{resolver: r, schema: &Schema{Name: name, Title: match.Title(name)}}

	if !value.IsMapping() {
		b.warn(diagnostic.CodeSchemaNotMapping,
			fmt.Sprintf("schema %q is not a mapping of fields", name), "", value)

		return b.schema
	}

	b.walk("", value, "")

	return b.schema
}

// BuildDocument resolves every schema entry of doc in declaration order.
func (r *Resolver) BuildDocument(doc *source.Document) []*Schema {
	entries := doc.Schemas()
	out := make([]*Schema, 0, len(entries))

	for _, e := range entries {
		out = append(out, r.Build(e.Key, e.Value))
	}

	return out
}

// build carries the state of a single Build call.
type build struct {
	resolver *Resolver
	schema   *Schema
}

// walk visits the keyed children of parent in pre-order. A child becomes a
// top-level field only when its parent key has no array suffix and its
// parent is not itself a keyed object or sequence; deeper nodes are
// resolved in place by the object and array handlers.
func (b *build) walk(parentKey string, parent *source.Value, path string) {
	visit := func(key string, v *source.Value) {
		if key == "" {
			return
		}

		childPath := joinPath(path, key)

		if !strings.Contains(parentKey, notation.ArraySuffix) &&
			(parentKey == "" || !(parent.IsMapping() || parent.IsSequence())) {
			if n := b.classify(key, v, childPath); n != nil {
				b.schema.Fields = append(b.schema.Fields, n)
			}
		}

		b.walk(key, v, childPath)
	}

	switch {
	case parent.IsMapping():
		for _, e := range parent.Entries {
			visit(e.Key, e.Value)
		}
	case parent.IsSequence():
		for i, item := range parent.Items {
			visit(strconv.Itoa(i), item)
		}
	}
}

// classify resolves a single declaration. It returns nil when the node is
// skipped or dropped.
func (b *build) classify(name string, v *source.Value, path string) *field.Node {
	decl, ok := notation.Parse(name, v)
	if !ok {
		b.info(diagnostic.CodeEmptyDeclaration, "field has no declaration, skipped", path, v)

		return nil
	}

	validation, cleaned := notation.ParseValidation(name, v)

	h, ok := b.resolver.handlers[decl.Kind]
	if !ok {
		if !b.resolver.config.Passthrough || decl.Kind == "" {
			b.warn(diagnostic.CodeUnknownKind,
				fmt.Sprintf("no handler for kind %q, field dropped", decl.Kind), path, v,
				match.Suggest(decl.Kind.String(), field.SupportedKindNames(), match.DefaultSuggestLimit)...)

			return nil
		}

		h = handlePassthrough
	}

	n := h(b, input{name: cleaned, decl: decl, path: path, value: v})
	if n == nil {
		return nil
	}

	if n.Kind != field.KindArray && strings.Contains(n.Name, notation.ArraySuffix) {
		b.warn(diagnostic.CodeArraySuffixKept,
			fmt.Sprintf("%q is a %s, not an array; the name keeps its %s suffix", n.Name, n.Kind, notation.ArraySuffix),
			path, v)
	}

	if validation != nil {
		for _, rule := range validation.Rules {
			n.Validation = n.Validation.With(rule)
		}
	}

	n.ResolvedType = field.TypeOf(n)

	return n
}

func (b *build) info(code, msg, path string, at *source.Value) {
	b.schema.Diagnostics.Add(diagnostic.Diagnostic{
		Severity:  diagnostic.SeverityInfo,
		Code:      code,
		Message:   msg,
		Schema:    b.schema.Name,
		FieldPath: path,
		Pos:       at.Pos(),
	})
	b.resolver.log.Info(msg, "schema", b.schema.Name, "field", path, "pos", at.Pos())
}

func (b *build) warn(code, msg, path string, at *source.Value, suggestions ...string) {
	b.schema.Diagnostics.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.SeverityWarning,
		Code:        code,
		Message:     msg,
		Schema:      b.schema.Name,
		FieldPath:   path,
		Pos:         at.Pos(),
		Suggestions: suggestions,
	})

	keyvals := []any{"schema", b.schema.Name, "field", path, "pos", at.Pos()}
	if len(suggestions) > 0 {
		keyvals = append(keyvals, "suggestions", strings.Join(suggestions, ", "))
	}

	b.resolver.log.Warn(msg, keyvals...)
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}

	return parent + "." + key
}
