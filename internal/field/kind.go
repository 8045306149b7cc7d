// Package field defines the resolved field-definition tree: the closed set
// of field kinds, the Node type, and the type expression each node
// contributes to generated type declarations.
package field

// Kind is the classification label of a field.
type Kind string

// Supported field kinds.
const (
	KindString    Kind = "string"
	KindText      Kind = "text"
	KindEmail     Kind = "email"
	KindSlug      Kind = "slug"
	KindNumber    Kind = "number"
	KindBoolean   Kind = "boolean"
	KindDatetime  Kind = "datetime"
	KindDate      Kind = "date"
	KindGeopoint  Kind = "geopoint"
	KindObject    Kind = "object"
	KindArray     Kind = "array"
	KindReference Kind = "reference"
	KindFile      Kind = "file"
)

// Kinds without a dedicated handler; they resolve to a plain leaf node.
var genericKinds = []Kind{
	KindDatetime,
	KindDate,
	KindNumber,
	KindBoolean,
	KindGeopoint,
	KindSlug,
}

// supportedKinds is the set of kinds the resolver can handle.
var supportedKinds = map[Kind]bool{
	KindString:    true,
	KindObject:    true,
	KindArray:     true,
	KindEmail:     true,
	KindText:      true,
	KindSlug:      true,
	KindReference: true,
	KindFile:      true,
	KindDatetime:  true,
	KindDate:      true,
	KindNumber:    true,
	KindBoolean:   true,
	KindGeopoint:  true,
}

// SupportedKinds returns every supported kind, handler-backed kinds first.
func SupportedKinds() []Kind {
	return append([]Kind{
		KindString,
		KindObject,
		KindArray,
		KindEmail,
		KindText,
		KindReference,
		KindFile,
	}, genericKinds...)
}

// SupportedKindNames returns SupportedKinds as strings.
func SupportedKindNames() []string {
	kinds := SupportedKinds()
	names := make([]string, 0, len(kinds))

	for _, k := range kinds {
		names = append(names, k.String())
	}

	return names
}

// GenericKinds returns the kinds served by the generic leaf handler.
func GenericKinds() []Kind {
	return append([]Kind(nil), genericKinds...)
}

// IsSupported reports whether k is in the supported set.
func (k Kind) IsSupported() bool {
	return supportedKinds[k]
}

// IsContainer reports whether nodes of this kind carry nested nodes.
func (k Kind) IsContainer() bool {
	return k == KindObject || k == KindArray
}

func (k Kind) String() string {
	return string(k)
}
