package notation

import (
	"strings"

	"sanity-yaml/internal/field"
	"sanity-yaml/internal/source"
)

const (
	ruleRequired = "required()"
	rulePrefix   = "Rule."
)

// ParseValidation extracts the validation descriptor from a declaration and
// returns the field name with any validation suffix removed.
//
// The annotation after "|" is kept verbatim as a single rule; a trailing
// "!" on the name adds required(). Without markers the descriptor is nil
// and the name is returned unchanged.
func ParseValidation(name string, v *source.Value) (*field.Validation, string) {
	var validation *field.Validation

	if v.IsScalar() {
		if _, annotation := SplitAnnotation(v.Text); annotation != "" {
			validation = validation.With(strings.TrimPrefix(annotation, rulePrefix))
		}
	}

	cleaned := strings.TrimSpace(name)
	if strings.HasSuffix(cleaned, RequiredSuffix) {
		cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, RequiredSuffix))
		validation = validation.With(ruleRequired)
	}

	if validation == nil {
		return nil, name
	}

	return validation, cleaned
}
