package field

import (
	"maps"
	"slices"
	"strings"
)

// Node is a resolved field definition.
type Node struct {
	// Name is empty for anonymous array element nodes.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Kind is the field classification; outside the supported set only in
	// passthrough mode.
	Kind Kind `json:"type" yaml:"type"`
	// Validation is the optional validation descriptor.
	Validation *Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
	// Options holds kind-specific options.
	Options Options `json:"options,omitempty" yaml:"options,omitempty"`
	// To is the referenced type name (reference kind only).
	To string `json:"to,omitempty" yaml:"to,omitempty"`
	// Children are the fields of an object node.
	Children []*Node `json:"fields,omitempty" yaml:"fields,omitempty"`
	// ElementTypes are the element declarations of an array node.
	ElementTypes []*Node `json:"of,omitempty" yaml:"of,omitempty"`
	// ResolvedType is the type expression this node contributes.
	ResolvedType string `json:"_type,omitempty" yaml:"_type,omitempty"`
}

// IsAnonymous reports whether the node has no addressable name.
func (n *Node) IsAnonymous() bool {
	return n.Name == ""
}

// HasChildren reports whether the node is an object with at least one field.
func (n *Node) HasChildren() bool {
	return n.Kind == KindObject && len(n.Children) > 0
}

// Walk visits n and all of its descendants depth-first, children before
// array elements, stopping early if fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}

	if !fn(n) {
		return false
	}

	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}

	for _, e := range n.ElementTypes {
		if !e.Walk(fn) {
			return false
		}
	}

	return true
}

// Options is a kind-specific option set.
// Values are strings, ints, or string lists.
type Options map[string]any

// Well-known option keys.
const (
	OptionList   = "list"
	OptionRows   = "rows"
	OptionSource = "source"
	OptionAccept = "accept"
	OptionLayout = "layout"
)

// List returns the enumerated list option, if any.
func (o Options) List() []string {
	if o == nil {
		return nil
	}

	list, _ := o[OptionList].([]string)

	return list
}

// Keys returns the option keys in lexical order.
func (o Options) Keys() []string {
	return slices.Sorted(maps.Keys(o))
}

// Validation is the validation descriptor attached to a node. Rules are
// opaque and rendered verbatim in declaration order.
type Validation struct {
	Rules []string `json:"rules" yaml:"rules"`
}

// IsZero reports whether the descriptor carries no rules.
func (v *Validation) IsZero() bool {
	return v == nil || len(v.Rules) == 0
}

// String renders the rule chain, e.g. "Rule.max(4).required()".
func (v *Validation) String() string {
	if v.IsZero() {
		return ""
	}

	return "Rule." + strings.Join(v.Rules, ".")
}

// With returns a copy of v with rule appended unless it is already present.
func (v *Validation) With(rule string) *Validation {
	out := &Validation{}
	if v != nil {
		out.Rules = append(out.Rules, v.Rules...)
	}

	if !slices.Contains(out.Rules, rule) {
		out.Rules = append(out.Rules, rule)
	}

	return out
}
