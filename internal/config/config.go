// Package config loads the generator configuration.
//
// Sources are layered in order, later sources winning: built-in defaults,
// the YAML config file, SANITY_YAML_* environment variables, and command
// line overrides.
package config

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"dario.cat/mergo"

	"sanity-yaml/internal/field"
)

// Template names resolved from the embedded template set.
const (
	BuiltinPrefix      = "builtin:"
	TemplateSchema     = BuiltinPrefix + "sanity-schema"
	TemplateTypeScript = BuiltinPrefix + "typescript"
)

// Config is the generator configuration.
type Config struct {
	// FieldDefaults supplies default options, e.g. text rows.
	FieldDefaults field.Defaults `koanf:"field_defaults"`
	// RemoveDefineField emits plain field objects instead of defineField calls.
	RemoveDefineField bool `koanf:"remove_define_field"`
	// Filesets are the named input groups to generate.
	Filesets map[string]Fileset `koanf:"filesets" validate:"dive"`
	// Partials is a doublestar glob of template files available to every
	// template through {{ template "name" . }}, named by their base name
	// without extension.
	Partials string `koanf:"partials"`

	// Path is the config file the configuration was read from.
	Path string `koanf:"-"`
	// Dir is the directory relative paths resolve against.
	Dir string `koanf:"-"`
}

// Fileset is a group of schema files rendered through the same outputs.
type Fileset struct {
	// InputPath is a doublestar glob relative to the config directory.
	InputPath string `koanf:"input_path" validate:"required"`
	// FieldDefaults overrides the global defaults for this fileset.
	FieldDefaults *field.Defaults `koanf:"field_defaults"`
	// Outputs are rendered once per schema entry.
	Outputs []Output `koanf:"outputs" validate:"required,min=1,dive"`
}

// Output is one rendering target of a fileset.
type Output struct {
	// Template is a builtin template name or a template file path.
	Template string `koanf:"template" validate:"required"`
	// OutputPath is a templated file path written per schema.
	OutputPath string `koanf:"output_path" validate:"required_without=TargetFile"`
	// TargetFile is an existing file updated in place (modify mode).
	TargetFile string `koanf:"target_file" validate:"required_without=OutputPath"`
	// Regex selects the region of TargetFile to replace.
	Regex string `koanf:"regex" validate:"excluded_without=TargetFile"`
}

// IsModify reports whether the output updates an existing file.
func (o Output) IsModify() bool {
	return o.TargetFile != ""
}

// IsBuiltin reports whether the template is embedded.
func (o Output) IsBuiltin() bool {
	return strings.HasPrefix(o.Template, BuiltinPrefix)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		FieldDefaults:     field.DefaultFieldDefaults(),
		RemoveDefineField: false,
		Filesets:          map[string]Fileset{},
		Dir:               ".",
	}
}

// FilesetNames returns the fileset names, sorted.
func (c *Config) FilesetNames() []string {
	return slices.Sorted(maps.Keys(c.Filesets))
}

// DefaultsFor returns the field defaults of the named fileset: the global
// defaults with any fileset override applied on top.
func (c *Config) DefaultsFor(name string) (field.Defaults, error) {
	out := c.FieldDefaults

	fs, ok := c.Filesets[name]
	if !ok || fs.FieldDefaults == nil {
		return out, nil
	}

	if err := mergo.Merge(&out, *fs.FieldDefaults, mergo.WithOverride); err != nil {
		return field.Defaults{}, fmt.Errorf("failed to merge field defaults of fileset %s: %w", name, err)
	}

	return out, nil
}

// ResolvePath makes p relative to the config directory unless it is absolute.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(c.Dir, p)
}
