package field

import (
	"slices"
	"strings"
	"unicode"
)

// Type expression literals.
const (
	TypeString   = "string"
	TypeNumber   = "number"
	TypeBoolean  = "boolean"
	TypeUnknown  = "any"
	TypeGeopoint = "{ lat: number; lng: number; alt: number }"
	TypeSlug     = "{ current: string }"

	unionSep = " | "
)

// leafTypes maps leaf kinds to their type expression. The string kind is
// handled separately because of enumerated options; "url" has no handler
// but is mapped for passthrough declarations.
var leafTypes = map[Kind]string{
	KindDatetime:  TypeString,
	KindDate:      TypeString,
	"url":         TypeString,
	KindText:      TypeString,
	KindEmail:     TypeString,
	KindNumber:    TypeNumber,
	KindBoolean:   TypeBoolean,
	KindGeopoint:  TypeGeopoint,
	KindSlug:      TypeSlug,
	KindReference: TypeUnknown,
	KindFile:      TypeUnknown,
}

// LeafType returns the type expression for a leaf kind. Unknown kinds
// fall back to the kind token itself.
func LeafType(kind Kind, opts Options) string {
	if kind == KindString {
		if list := opts.List(); len(list) > 0 {
			quoted := make([]string, 0, len(list))
			for _, item := range list {
				quoted = append(quoted, quoteLiteral(item))
			}

			return strings.Join(quoted, unionSep)
		}

		return TypeString
	}

	if t, ok := leafTypes[kind]; ok {
		return t
	}

	return string(kind)
}

// TypeOf returns the type expression for n, computed from its kind and
// already-resolved descendants.
func TypeOf(n *Node) string {
	switch n.Kind {
	case KindObject:
		return InlineObject(n.Children)
	case KindArray:
		// An enumerated list on the array restricts its values.
		if len(n.Options.List()) > 0 {
			return arrayOf([]string{LeafType(KindString, n.Options)})
		}

		return ArrayType(n.ElementTypes)
	default:
		return LeafType(n.Kind, n.Options)
	}
}

// ElementType returns the expression an array element contributes.
// Object elements expand to an inline structural literal.
func ElementType(e *Node) string {
	if e.Kind == KindObject {
		return InlineObject(e.Children)
	}

	if e.ResolvedType != "" {
		return e.ResolvedType
	}

	return string(e.Kind)
}

// ArrayType joins the distinct element expressions into an array type.
// The union is parenthesized when more than one expression is joined or
// when the single expression is itself a union.
func ArrayType(elements []*Node) string {
	var exprs []string

	for _, e := range elements {
		expr := ElementType(e)
		if expr == "" || slices.Contains(exprs, expr) {
			continue
		}

		exprs = append(exprs, expr)
	}

	return arrayOf(exprs)
}

func arrayOf(exprs []string) string {
	if len(exprs) == 0 {
		return TypeUnknown + "[]"
	}

	joined := strings.Join(exprs, unionSep)
	if len(exprs) > 1 || IsUnion(joined) {
		return "(" + joined + ")[]"
	}

	return joined + "[]"
}

// InlineObject renders fields as a single-line object type literal in
// declaration order, e.g. "{ name: string; count: number }".
func InlineObject(children []*Node) string {
	parts := make([]string, 0, len(children))

	for _, c := range children {
		if c.IsAnonymous() {
			continue
		}

		t := c.ResolvedType
		if t == "" {
			t = TypeUnknown
		}

		parts = append(parts, PropertyName(c.Name)+": "+t)
	}

	if len(parts) == 0 {
		return "{}"
	}

	return "{ " + strings.Join(parts, "; ") + " }"
}

// IsUnion reports whether expr has a union separator outside of any
// braces, brackets, parentheses, or quotes.
func IsUnion(expr string) bool {
	depth := 0

	var quote rune

	for i, r := range expr {
		switch {
		case quote != 0:
			if r == quote && (i == 0 || expr[i-1] != '\\') {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '{' || r == '(' || r == '[' || r == '<':
			depth++
		case r == '}' || r == ')' || r == ']' || r == '>':
			depth--
		case r == '|' && depth == 0:
			return true
		}
	}

	return false
}

// PropertyName returns name as a type-literal property key, quoting it
// when it is not a valid identifier.
func PropertyName(name string) string {
	if isIdent(name) {
		return name
	}

	return quoteLiteral(name)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}

		if i > 0 && unicode.IsDigit(r) {
			continue
		}

		return false
	}

	return true
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
