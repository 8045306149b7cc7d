package source

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:generate stringer -type=NodeKind -trimprefix=Kind

// NodeKind is the structural shape of a raw value.
type NodeKind int

const (
	KindNull NodeKind = iota
	KindScalar
	KindMapping
	KindSequence
)

// YAML core schema tags used for scalar truthiness.
const (
	tagString = "!!str"
	tagInt    = "!!int"
	tagFloat  = "!!float"
	tagBool   = "!!bool"
	tagNull   = "!!null"
)

// Value is one node of the raw value tree.
type Value struct {
	Kind NodeKind
	// Text is the scalar text (scalars only).
	Text string
	// Tag is the resolved YAML tag (scalars only).
	Tag string
	// Entries holds mapping entries in declaration order.
	Entries []Entry
	// Items holds sequence elements.
	Items []*Value

	Line   int
	Column int
}

// Entry is a single key/value pair of a mapping.
type Entry struct {
	Key   string
	Value *Value
}

// String returns a scalar string value.
func String(s string) *Value {
	return &Value{Kind: KindScalar, Text: s, Tag: tagString}
}

// Map returns a mapping value with the given entries.
func Map(entries ...Entry) *Value {
	return &Value{Kind: KindMapping, Entries: entries}
}

// Seq returns a sequence value with the given items.
func Seq(items ...*Value) *Value {
	return &Value{Kind: KindSequence, Items: items}
}

// Pair is a shorthand for building mapping entries.
func Pair(key string, v *Value) Entry {
	return Entry{Key: key, Value: v}
}

// IsMapping reports whether v is a non-nil mapping.
func (v *Value) IsMapping() bool {
	return v != nil && v.Kind == KindMapping
}

// IsSequence reports whether v is a non-nil sequence.
func (v *Value) IsSequence() bool {
	return v != nil && v.Kind == KindSequence
}

// IsScalar reports whether v is a non-nil scalar.
func (v *Value) IsScalar() bool {
	return v != nil && v.Kind == KindScalar
}

// IsString reports whether v is a scalar tagged as a string.
func (v *Value) IsString() bool {
	return v.IsScalar() && v.Tag == tagString
}

// IsEmpty reports whether v carries no declaration: null, an empty string,
// false, or a numeric zero. Empty mappings and sequences are not empty.
func (v *Value) IsEmpty() bool {
	if v == nil || v.Kind == KindNull {
		return true
	}

	if v.Kind != KindScalar {
		return false
	}

	switch v.Tag {
	case tagNull:
		return true
	case tagBool:
		return strings.EqualFold(v.Text, "false")
	case tagInt, tagFloat:
		return strings.Trim(v.Text, "+-0._") == ""
	default:
		return v.Text == ""
	}
}

// Get returns the value stored under key in a mapping.
func (v *Value) Get(key string) (*Value, bool) {
	if !v.IsMapping() {
		return nil, false
	}

	for _, e := range v.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}

	return nil, false
}

// Keys returns the mapping keys in declaration order.
func (v *Value) Keys() []string {
	if !v.IsMapping() {
		return nil
	}

	keys := make([]string, 0, len(v.Entries))
	for _, e := range v.Entries {
		keys = append(keys, e.Key)
	}

	return keys
}

// Pos returns a "line:column" position string, or "" when unknown.
func (v *Value) Pos() string {
	if v == nil || v.Line == 0 {
		return ""
	}

	return fmt.Sprintf("%d:%d", v.Line, v.Column)
}

// UnmarshalYAML implements custom YAML unmarshaling for Value.
// Mapping order is preserved and aliases are expanded in place.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	converted, err := fromNode(node)
	if err != nil {
		return err
	}

	*v = *converted

	return nil
}

// maxAliasValues bounds the values produced by alias expansion in one
// document, so nested aliases cannot grow a small file exponentially.
const maxAliasValues = 100_000

// fromNode converts a yaml.Node into a Value.
func fromNode(node *yaml.Node) (*Value, error) {
	c := &converter{expanding: make(map[*yaml.Node]bool)}

	return c.convert(node)
}

// converter expands aliases in place. expanding holds the anchors on the
// current alias path; aliased counts values created under any alias.
type converter struct {
	expanding map[*yaml.Node]bool
	depth     int
	aliased   int
}

func (c *converter) convert(node *yaml.Node) (*Value, error) {
	if node == nil {
		return &Value{Kind: KindNull}, nil
	}

	if c.depth > 0 {
		c.aliased++
		if c.aliased > maxAliasValues {
			return nil, fmt.Errorf("line %d: %w (more than %d values)", node.Line, ErrAliasExpansion, maxAliasValues)
		}
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return &Value{Kind: KindNull}, nil
		}

		return c.convert(node.Content[0])

	case yaml.AliasNode:
		return c.alias(node)

	case yaml.ScalarNode:
		if node.ShortTag() == tagNull {
			return &Value{Kind: KindNull, Tag: tagNull, Line: node.Line, Column: node.Column}, nil
		}

		return &Value{
			Kind:   KindScalar,
			Text:   node.Value,
			Tag:    node.ShortTag(),
			Line:   node.Line,
			Column: node.Column,
		}, nil

	case yaml.MappingNode:
		out := &Value{Kind: KindMapping, Line: node.Line, Column: node.Column}

		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}

			val, err := c.convert(valNode)
			if err != nil {
				return nil, err
			}

			out.Entries = append(out.Entries, Entry{Key: keyNode.Value, Value: val})
		}

		return out, nil

	case yaml.SequenceNode:
		out := &Value{Kind: KindSequence, Line: node.Line, Column: node.Column}

		for _, item := range node.Content {
			val, err := c.convert(item)
			if err != nil {
				return nil, err
			}

			out.Items = append(out.Items, val)
		}

		return out, nil

	default:
		return nil, fmt.Errorf("unexpected YAML node kind %v", node.Kind)
	}
}

func (c *converter) alias(node *yaml.Node) (*Value, error) {
	target := node.Alias
	if target == nil {
		return nil, fmt.Errorf("line %d: unknown anchor %q", node.Line, node.Value)
	}

	if c.expanding[target] {
		return nil, fmt.Errorf("line %d: %w: *%s", node.Line, ErrAliasCycle, node.Value)
	}

	c.expanding[target] = true
	c.depth++

	defer func() {
		delete(c.expanding, target)
		c.depth--
	}()

	return c.convert(target)
}
