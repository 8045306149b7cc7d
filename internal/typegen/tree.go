package typegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// Expr is a type expression: a literal type string or a nested object.
type Expr struct {
	Literal string
	Fields  *Tree
}

// IsObject reports whether the expression is a nested object.
func (e Expr) IsObject() bool {
	return e.Fields != nil
}

// MarshalJSON encodes a literal as a string and an object as a mapping.
func (e Expr) MarshalJSON() ([]byte, error) {
	if e.IsObject() {
		return e.Fields.MarshalJSON()
	}

	return json.Marshal(e.Literal)
}

// MarshalYAML encodes a literal as a scalar and an object as a mapping.
func (e Expr) MarshalYAML() (any, error) {
	if e.IsObject() {
		return e.Fields.MarshalYAML()
	}

	return e.Literal, nil
}

// Tree maps field names to type expressions, preserving insertion order.
type Tree struct {
	keys   []string
	values map[string]Expr
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{values: make(map[string]Expr)}
}

// Set stores e under name. Replacing a name keeps its original position.
func (t *Tree) Set(name string, e Expr) {
	if _, ok := t.values[name]; !ok {
		t.keys = append(t.keys, name)
	}

	t.values[name] = e
}

// Get returns the expression stored under name.
func (t *Tree) Get(name string) (Expr, bool) {
	if t == nil {
		return Expr{}, false
	}

	e, ok := t.values[name]

	return e, ok
}

// Keys returns the names in insertion order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}

	return slices.Clone(t.keys)
}

// Entry is one name/expression pair of a tree.
type Entry struct {
	Name string
	Expr Expr
}

// Entries returns the pairs in insertion order.
func (t *Tree) Entries() []Entry {
	keys := t.Keys()
	out := make([]Entry, 0, len(keys))

	for _, k := range keys {
		out = append(out, Entry{Name: k, Expr: t.values[k]})
	}

	return out
}

// Len returns the number of names.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}

	return len(t.keys)
}

// MarshalJSON encodes the tree as an object with keys in insertion order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range t.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", k, err)
		}

		val, err := t.values[k].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode %q: %w", k, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML encodes the tree as a mapping node with keys in insertion order.
func (t *Tree) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, k := range t.Keys() {
		var val yaml.Node

		e := t.values[k]
		if e.IsObject() {
			v, err := e.Fields.MarshalYAML()
			if err != nil {
				return nil, err
			}

			val = *v.(*yaml.Node)
		} else {
			val = yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Literal}
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}

	return node, nil
}

// NameSet is a set of field names.
type NameSet map[string]struct{}

// Add inserts names into the set.
func (s NameSet) Add(names ...string) {
	for _, n := range names {
		s[n] = struct{}{}
	}
}

// Has reports whether name is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]

	return ok
}

// Merge inserts every name of other.
func (s NameSet) Merge(other NameSet) {
	maps.Copy(s, other)
}

// Sorted returns the names in lexical order.
func (s NameSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}
