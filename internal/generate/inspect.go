package generate

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"

	"sanity-yaml/internal/diagnostic"
	"sanity-yaml/internal/field"
	"sanity-yaml/internal/logger"
	"sanity-yaml/internal/resolve"
	"sanity-yaml/internal/source"
	"sanity-yaml/internal/typegen"
)

// Inspect output formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatDump = "dump"
)

// Inspection is the resolved view of one schema entry.
type Inspection struct {
	Name     string        `json:"name" yaml:"name"`
	Title    string        `json:"title" yaml:"title"`
	Fields   []*field.Node `json:"fields" yaml:"fields"`
	Types    *typegen.Tree `json:"types" yaml:"types"`
	Absorbed []string      `json:"absorbed,omitempty" yaml:"absorbed,omitempty"`
}

// Inspect resolves every schema of doc without rendering anything.
func Inspect(doc *source.Document, cfg resolve.Config, log logger.Logger) ([]Inspection, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	schemas := resolve.NewResolver(cfg, log).BuildDocument(doc)
	out := make([]Inspection, 0, len(schemas))

	for _, s := range schemas {
		derived := typegen.Derive(s.Fields)
		s.Diagnostics.SetFile(doc.Path)
		diags.Merge(s.Diagnostics)

		out = append(out, Inspection{
			Name:     s.Name,
			Title:    s.Title,
			Fields:   s.Fields,
			Types:    derived.Types,
			Absorbed: derived.Absorbed.Sorted(),
		})
	}

	return out, diags
}

// WriteInspection prints items to w in the given format.
func WriteInspection(w io.Writer, items []Inspection, format string) error {
	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}

		return enc.Close()

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}

		return nil

	case FormatDump:
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(w, items)

		return nil

	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, FormatYAML, FormatJSON, FormatDump)
	}
}
