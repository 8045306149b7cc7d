package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrNotMapping is returned when a document root is not a mapping of schema names.
var ErrNotMapping = errors.New("document root must be a mapping of schema names")

// Alias expansion errors.
var (
	ErrAliasCycle     = errors.New("alias refers to an enclosing anchor")
	ErrAliasExpansion = errors.New("alias expansion exceeds limit")
)

// Document is a parsed schema document.
type Document struct {
	// Path is the file the document was read from (empty for in-memory input).
	Path string
	// Root maps schema names to their field mappings.
	Root *Value
}

// Schemas returns the top-level schema entries in declaration order.
func (d *Document) Schemas() []Entry {
	if d == nil || d.Root == nil {
		return nil
	}

	return d.Root.Entries
}

// LoadFile loads and parses a YAML schema document from the given path.
func LoadFile(fsys afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	doc.Path = path

	return doc, nil
}

// Parse parses YAML data into a Document.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node

	err := yaml.Unmarshal(data, &root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	val, err := fromNode(&root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	// An empty document declares no schemas.
	if val.Kind == KindNull {
		val = Map()
	}

	if !val.IsMapping() {
		return nil, ErrNotMapping
	}

	return &Document{Root: val}, nil
}

// Glob expands a doublestar pattern relative to baseDir and returns the
// matching file paths in lexical order. A pattern without meta characters
// matches itself only if the file exists.
func Glob(fsys afero.Fs, baseDir, pattern string) ([]string, error) {
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(baseDir, pattern)
	}

	base, rest := doublestar.SplitPattern(filepath.ToSlash(filepath.Clean(pattern)))

	matches, err := doublestar.Glob(afero.NewIOFS(afero.NewBasePathFs(fsys, base)), rest,
		doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid input pattern %q: %w", pattern, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(filepath.FromSlash(base), filepath.FromSlash(m)))
	}

	sort.Strings(paths)

	return paths, nil
}
