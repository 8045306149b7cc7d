package render

import (
	"sanity-yaml/internal/field"
	"sanity-yaml/internal/resolve"
	"sanity-yaml/internal/typegen"
)

// Data is the template data of one schema entry.
type Data struct {
	// Name is the schema entry key, e.g. "blogPost".
	Name string
	// Title is the display title derived from Name.
	Title string
	// Fileset is the name of the fileset being generated.
	Fileset string
	// Source is the schema file the entry was read from.
	Source string
	// Fields are the resolved top-level field definitions.
	Fields []*field.Node
	// Types is the derived type tree.
	Types *typegen.Tree
	// RemoveDefineField emits plain objects instead of defineField calls.
	RemoveDefineField bool
}

// NewData assembles template data from a resolved schema.
func NewData(schema *resolve.Schema, types typegen.Result) Data {
	return Data{
		Name:   schema.Name,
		Title:  schema.Title,
		Fields: schema.Fields,
		Types:  types.Types,
	}
}
