// Package source loads YAML schema documents into an ordered raw value tree.
//
// The tree keeps mapping keys in declaration order, which every later stage
// depends on: field lists, type trees, and inline object literals are all
// emitted in the order fields were written.
//
// # Document shape
//
//	blogPost:               # schema name
//	  title: string         # field name -> declaration
//	  body: text(5)
//	  author: ->person
//	  tags[]: string
//	  seo:
//	    description: string
//
// A declaration is a scalar string, a nested mapping, or a sequence of
// declarations. See package notation for how declarations are classified.
package source
