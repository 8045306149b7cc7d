// Package resolve turns a raw schema value into an ordered list of field
// definition nodes.
//
// Resolution pipeline, per schema entry:
//  1. Visit every keyed node of the raw tree in pre-order
//  2. Skip nodes already owned by an enclosing object or array
//  3. Classify the node (notation.Parse) and extract validation
//     (notation.ParseValidation)
//  4. Dispatch to the kind handler; object and array handlers recurse
//  5. Attach the validation descriptor and the node's type expression
//
// Malformed nodes are dropped locally and reported as diagnostics; a single
// bad field never fails the schema.
package resolve
