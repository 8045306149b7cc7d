package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/spf13/afero"

	"sanity-yaml/internal/config"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

var (
	// ErrTemplateNotFound is returned when a template cannot be located.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrDuplicatePartial is returned when two partial files share a name.
	ErrDuplicatePartial = errors.New("duplicate partial name")
)

// Engine loads, caches, and executes templates. It is safe for concurrent use.
type Engine struct {
	fs    afero.Fs
	funcs template.FuncMap

	mu       sync.Mutex
	cache    map[string]*template.Template
	partials []partial
}

// partial is a named template parsed into every template the engine loads.
type partial struct {
	name string
	src  string
}

// NewEngine creates an Engine reading user templates from fsys.
func NewEngine(fsys afero.Fs) *Engine {
	return &Engine{
		fs:    fsys,
		funcs: FuncMap(),
		cache: make(map[string]*template.Template),
	}
}

// Builtins returns the names of the embedded templates.
func Builtins() []string {
	entries, _ := builtinTemplates.ReadDir("templates")

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, config.BuiltinPrefix+strings.TrimSuffix(e.Name(), ".tmpl"))
	}

	return names
}

// SetPartials reads the partial template files at paths. Each is named by
// its base name without extension and becomes callable from every template
// as {{ template "name" . }}. Previously parsed templates are dropped.
func (e *Engine) SetPartials(paths []string) error {
	partials := make([]partial, 0, len(paths))
	seen := make(map[string]string, len(paths))

	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		if prev, dup := seen[name]; dup {
			return fmt.Errorf("%w: %q in %s and %s", ErrDuplicatePartial, name, prev, p)
		}

		seen[name] = p

		data, err := afero.ReadFile(e.fs, p)
		if err != nil {
			return fmt.Errorf("failed to read partial %s: %w", p, err)
		}

		if _, err := template.New(name).Funcs(e.funcs).Parse(string(data)); err != nil {
			return fmt.Errorf("failed to parse partial %s: %w", p, err)
		}

		partials = append(partials, partial{name: name, src: string(data)})
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.partials = partials
	e.cache = make(map[string]*template.Template)

	return nil
}

// Template returns the parsed template called name: a builtin name or a
// file path.
func (e *Engine) Template(name string) (*template.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t, ok := e.cache[name]; ok {
		return t, nil
	}

	src, err := e.source(name)
	if err != nil {
		return nil, err
	}

	t, err := e.parse(name, string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	if err := e.addPartials(t); err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	e.cache[name] = t

	return t, nil
}

// Execute renders the template called name with data.
func (e *Engine) Execute(name string, data any) ([]byte, error) {
	t, err := e.Template(name)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}

	return buf.Bytes(), nil
}

// ExpandPath renders a templated output path such as
// "generated/{{ .Name }}.ts".
func (e *Engine) ExpandPath(pattern string, data any) (string, error) {
	if !strings.Contains(pattern, "{{") {
		return pattern, nil
	}

	t, err := e.parse("path", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to parse output path %q: %w", pattern, err)
	}

	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("executing output path %q: %w", pattern, err)
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("output path %q expanded to an empty path", pattern)
	}

	return out, nil
}

func (e *Engine) parse(name, src string) (*template.Template, error) {
	return template.New(name).Option("missingkey=error").Funcs(e.funcs).Parse(src)
}

// addPartials associates every partial with t. Must be called with mu held.
func (e *Engine) addPartials(t *template.Template) error {
	for _, p := range e.partials {
		if t.Lookup(p.name) != nil {
			continue
		}

		if _, err := t.New(p.name).Parse(p.src); err != nil {
			return fmt.Errorf("partial %s: %w", p.name, err)
		}
	}

	return nil
}

func (e *Engine) source(name string) ([]byte, error) {
	if builtin, ok := strings.CutPrefix(name, config.BuiltinPrefix); ok {
		data, err := builtinTemplates.ReadFile("templates/" + builtin + ".tmpl")
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}

		return data, nil
	}

	ok, err := afero.Exists(e.fs, name)
	if err != nil {
		return nil, fmt.Errorf("failed to stat template %s: %w", name, err)
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	data, err := afero.ReadFile(e.fs, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", name, err)
	}

	return data, nil
}
