// Package render turns resolved schemas into files.
//
// Templates are text/template documents with the sprig function set plus
// casing and schema helpers. Two templates are embedded: the Sanity schema
// definition (builtin:sanity-schema) and the TypeScript type declaration
// (builtin:typescript). Output paths are templates too.
//
// Rendering never touches the filesystem for writes: changes are collected
// in a Batch and written together by WriteFiles once every fileset has
// rendered successfully.
package render
