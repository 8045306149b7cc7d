package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

//go:generate stringer -type=Severity -linecomment

// Diagnostic codes emitted by the resolution pipeline.
const (
	CodeEmptyDeclaration       = "empty_declaration"
	CodeUnknownKind            = "unknown_kind"
	CodeUnsupportedKind        = "unsupported_kind"
	CodeArrayElementUnresolved = "array_element_unresolved"
	CodeObjectNotMapping       = "object_not_mapping"
	CodeDuplicateSchema        = "duplicate_schema"
	CodeSchemaNotMapping       = "schema_not_mapping"
	CodeArraySuffixKept        = "array_suffix_kept"
)

// Diagnostics holds all diagnostic information from resolution.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Schema identifies the top-level schema entry this relates to (if any).
	Schema string
	// FieldPath identifies which field this relates to (if any).
	FieldPath string
	// File is the schema file the diagnostic was raised in (if known).
	File string
	// Pos is the "line:column" of the declaration (if known).
	Pos string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo    Severity = iota // info
	SeverityWarning                 // warning
	SeverityError                   // error
)

// Add records d under its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// SetFile sets File on every diagnostic that has none.
func (d *Diagnostics) SetFile(path string) {
	for _, group := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for i := range group {
			if group[i].File == "" {
				group[i].File = path
			}
		}
	}
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// ByCode returns every diagnostic, of any severity, carrying the given code.
func (d *Diagnostics) ByCode(code string) []Diagnostic {
	var out []Diagnostic

	for _, group := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range group {
			if diag.Code == code {
				out = append(out, diag)
			}
		}
	}

	return out
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if loc := d.Location(); loc != "" {
		prefix = append(prefix, loc)
	}

	if d.Schema != "" {
		prefix = append(prefix, "["+d.Schema+"]")
	}

	if d.FieldPath != "" {
		prefix = append(prefix, d.FieldPath)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

// Location returns "file:line:column", omitting the parts that are unknown.
func (d Diagnostic) Location() string {
	switch {
	case d.File != "" && d.Pos != "":
		return d.File + ":" + d.Pos
	case d.File != "":
		return d.File
	default:
		return d.Pos
	}
}
