package typegen

import (
	"strings"

	"sanity-yaml/internal/field"
)

const defaultIndent = "  "

// Format renders the tree as a multi-line type literal, e.g.
//
//	{
//	  title: string;
//	  seo: {
//	    description: string;
//	  };
//	}
func Format(t *Tree) string {
	var sb strings.Builder

	writeTree(&sb, t, 0)

	return sb.String()
}

func writeTree(sb *strings.Builder, t *Tree, depth int) {
	if t.Len() == 0 {
		sb.WriteString("{}")
		return
	}

	sb.WriteString("{\n")

	for _, k := range t.Keys() {
		e, _ := t.Get(k)

		sb.WriteString(strings.Repeat(defaultIndent, depth+1))
		sb.WriteString(field.PropertyName(k))
		sb.WriteString(": ")

		if e.IsObject() {
			writeTree(sb, e.Fields, depth+1)
		} else {
			sb.WriteString(e.Literal)
		}

		sb.WriteString(";\n")
	}

	sb.WriteString(strings.Repeat(defaultIndent, depth))
	sb.WriteString("}")
}
