package typegen

import (
	"sanity-yaml/internal/field"
)

// Result is the derived type tree of one schema.
type Result struct {
	// Types maps top-level field names to their type expressions.
	Types *Tree
	// Absorbed holds every name nested inside an object or an array of
	// objects.
	Absorbed NameSet
}

// Derive builds the type tree for fields. Fields are processed in order;
// a field is skipped when an earlier field already absorbed its name.
func Derive(fields []*field.Node) Result {
	res := Result{Types: NewTree(), Absorbed: NameSet{}}

	for _, f := range fields {
		if f.IsAnonymous() || res.Absorbed.Has(f.Name) {
			continue
		}

		expr, nested := derive(f)
		res.Absorbed.Merge(nested)
		res.Types.Set(f.Name, expr)
	}

	return res
}

// derive returns the expression of n and the names nested inside it.
func derive(n *field.Node) (Expr, NameSet) {
	switch n.Kind {
	case field.KindObject:
		fields := NewTree()
		names := NameSet{}

		for _, c := range n.Children {
			if c.IsAnonymous() {
				continue
			}

			expr, nested := derive(c)
			names.Add(c.Name)
			names.Merge(nested)
			fields.Set(c.Name, expr)
		}

		return Expr{Fields: fields}, names

	case field.KindArray:
		names := NameSet{}

		for _, el := range n.ElementTypes {
			_, nested := derive(el)
			names.Merge(nested)
		}

		return Expr{Literal: literal(n)}, names

	default:
		return Expr{Literal: literal(n)}, nil
	}
}

func literal(n *field.Node) string {
	if n.ResolvedType != "" {
		return n.ResolvedType
	}

	return field.TypeOf(n)
}
