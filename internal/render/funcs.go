package render

import (
	"maps"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/Masterminds/sprig/v3"
	"github.com/gosimple/slug"
	"github.com/iancoleman/strcase"

	"sanity-yaml/internal/field"
	"sanity-yaml/internal/match"
	"sanity-yaml/internal/typegen"
)

// FuncMap returns the template functions: sprig plus the schema helpers.
func FuncMap() template.FuncMap {
	fm := sprig.TxtFuncMap()

	maps.Copy(fm, template.FuncMap{
		"pascalCase":       strcase.ToCamel,
		"camelCase":        strcase.ToLowerCamel,
		"kebabCase":        strcase.ToKebab,
		"snakeCase":        strcase.ToSnake,
		"titleCase":        match.Title,
		"sentenceCase":     sentenceCase,
		"slugify":          slug.Make,
		"hasFields":        hasFields,
		"isObject":         isObject,
		"inlineObjectType": inlineObjectType,
		"formatType":       typegen.Format,
		"sanityFields":     SanityFields,
		"tsProperty":       field.PropertyName,
		"notLast":          notLast,
	})

	return fm
}

// sentenceCase turns an identifier into a sentence, e.g. "blogPost" -> "Blog post".
func sentenceCase(s string) string {
	joined := strings.Join(match.Words(s), " ")
	if joined == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(joined)

	return string(unicode.ToUpper(r)) + joined[size:]
}

func hasFields(v any) bool {
	switch val := v.(type) {
	case *field.Node:
		return val != nil && val.HasChildren()
	case []*field.Node:
		return len(val) > 0
	case *typegen.Tree:
		return val.Len() > 0
	case typegen.Expr:
		return val.IsObject() && val.Fields.Len() > 0
	default:
		return false
	}
}

func isObject(v any) bool {
	switch val := v.(type) {
	case typegen.Expr:
		return val.IsObject()
	case *typegen.Tree:
		return val != nil
	case *field.Node:
		return val != nil && val.Kind == field.KindObject
	case map[string]any:
		return true
	default:
		return false
	}
}

func inlineObjectType(v any) string {
	switch val := v.(type) {
	case typegen.Expr:
		if val.IsObject() {
			return typegen.Format(val.Fields)
		}

		return val.Literal
	case *typegen.Tree:
		return typegen.Format(val)
	case *field.Node:
		return field.TypeOf(val)
	case string:
		return val
	default:
		return field.TypeUnknown
	}
}

func notLast(i, n int) bool {
	return i < n-1
}
