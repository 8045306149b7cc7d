package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"sanity-yaml/internal/diagnostic"
	"sanity-yaml/internal/field"
	"sanity-yaml/internal/notation"
	"sanity-yaml/internal/source"
)

const (
	anonymousElementName = "array"
	ruleEmail            = "email()"
)

type input struct {
	name  string
	decl  notation.Declaration
	path  string
	value *source.Value
}

// handler produces a node for one declaration, or nil to drop it.
type handler func(b *build, in input) *field.Node

// handlerTable returns the closed kind dispatch table.
func handlerTable() map[field.Kind]handler {
	table := map[field.Kind]handler{
		field.KindString:    handleString,
		field.KindEmail:     handleString,
		field.KindText:      handleText,
		field.KindSlug:      handleSlug,
		field.KindObject:    handleObject,
		field.KindArray:     handleArray,
		field.KindReference: handleReference,
		field.KindFile:      handleFile,
	}

	for _, k := range field.GenericKinds() {
		if _, ok := table[k]; !ok {
			table[k] = handleGeneric
		}
	}

	return table
}

func handleObject(b *build, in input) *field.Node {
	n := &field.Node{Kind: field.KindObject, Children: []*field.Node{}}
	if in.name != anonymousElementName {
		n.Name = in.name
	}

	if !in.decl.Nested.IsMapping() {
		b.warn(diagnostic.CodeObjectNotMapping, "object declaration is not a mapping, no fields resolved", in.path, in.value)

		return n
	}

	for _, e := range in.decl.Nested.Entries {
		if child := b.classify(e.Key, e.Value, joinPath(in.path, e.Key)); child != nil {
			n.Children = append(n.Children, child)
		}
	}

	return n
}

func handleArray(b *build, in input) *field.Node {
	n := &field.Node{
		Name:    strings.Replace(in.name, notation.ArraySuffix, "", 1),
		Kind:    field.KindArray,
		Options: notation.ParseOptions(in.decl.Options, field.OptionLayout),
	}

	nested := in.decl.Nested
	if nested.IsSequence() && len(nested.Items) == 0 {
		b.warn(diagnostic.CodeArrayElementUnresolved, "array declares no element type, field dropped", in.path, in.value)

		return nil
	}

	if !nested.IsSequence() {
		el := b.classify("", nested, joinPath(in.path, "[]"))
		if el == nil {
			b.warn(diagnostic.CodeArrayElementUnresolved, "array element did not resolve, field dropped", in.path, in.value)

			return nil
		}

		n.ElementTypes = []*field.Node{el}

		return n
	}

	for i, item := range nested.Items {
		el := b.classify("", item, joinPath(in.path, strconv.Itoa(i)))
		if el == nil {
			b.warn(diagnostic.CodeArrayElementUnresolved,
				fmt.Sprintf("array element %d did not resolve, field dropped", i), in.path, item)

			return nil
		}

		n.ElementTypes = append(n.ElementTypes, el)
	}

	return n
}

func handleString(_ *build, in input) *field.Node {
	n := &field.Node{
		Name:    in.name,
		Kind:    in.decl.Kind,
		Options: notation.ParseOptions(in.decl.Options, ""),
	}

	if in.decl.Kind == field.KindEmail {
		n.Validation = n.Validation.With(ruleEmail)
	}

	return n
}

func handleText(b *build, in input) *field.Node {
	opts := notation.ParseOptions(in.decl.Options, field.OptionRows)
	if _, ok := opts[field.OptionRows]; !ok {
		if opts == nil {
			opts = field.Options{}
		}

		opts[field.OptionRows] = b.resolver.config.Defaults.Text.Rows
	}

	return &field.Node{Name: in.name, Kind: field.KindText, Options: opts}
}

func handleSlug(_ *build, in input) *field.Node {
	return &field.Node{
		Name:    in.name,
		Kind:    field.KindSlug,
		Options: notation.ParseOptions(in.decl.Options, field.OptionSource),
	}
}

func handleReference(_ *build, in input) *field.Node {
	return &field.Node{
		Name:    in.name,
		Kind:    field.KindReference,
		To:      in.decl.Nested.Text,
		Options: notation.ParseOptions(in.decl.Options, ""),
	}
}

func handleFile(_ *build, in input) *field.Node {
	return &field.Node{
		Name:    in.name,
		Kind:    field.KindFile,
		Options: notation.ParseOptions(in.decl.Options, field.OptionAccept),
	}
}

func handleGeneric(_ *build, in input) *field.Node {
	return &field.Node{
		Name:    in.name,
		Kind:    in.decl.Kind,
		Options: notation.ParseOptions(in.decl.Options, ""),
	}
}

// handlePassthrough keeps an unsupported kind as a leaf; its type
// expression falls back to the raw kind token.
func handlePassthrough(b *build, in input) *field.Node {
	b.info(diagnostic.CodeUnsupportedKind,
		fmt.Sprintf("kind %q is not supported, emitted as-is", in.decl.Kind), in.path, in.value)

	return handleGeneric(b, in)
}
