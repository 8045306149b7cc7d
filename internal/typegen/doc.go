// Package typegen derives the type tree of a schema from its resolved
// field definitions.
//
// Each top-level field maps to a type expression: object fields become a
// nested ordered tree, every other field contributes its resolved literal.
// Names found inside an object or an array of objects are absorbed; a later
// top-level field with an absorbed name is not emitted again.
package typegen
