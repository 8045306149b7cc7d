// Package notation classifies raw field declarations.
//
// A declaration encodes its kind with a small set of sigils:
//
//	tags[]: string            # "[]" on the name: array of the value's kind
//	tags: [string, number]    # sequence value: array of each element's kind
//	author: ->person          # "->" prefix: reference to the named type
//	body: text(rows:5)        # parenthesized suffix: options for the kind
//	seo: { title: string }    # mapping value: object
//	date!: datetime | max(4)  # "!" on the name and "|" annotation: validation
//
// Parse resolves the kind, the nested value handed to the kind handler,
// and the raw options string. ParseValidation extracts the validation
// descriptor and the cleaned field name. Both are pure functions.
package notation
