package source

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	yaml := `
blogPost:
  title: string
  body: text(5)
  author: ->person
  tags[]: string
  seo:
    description: string
    keywords: [string]
settings:
  enabled: boolean
`

	doc, err := Parse([]byte(yaml))
	require.NoError(t, err)

	schemas := doc.Schemas()
	require.Len(t, schemas, 2)
	assert.Equal(t, "blogPost", schemas[0].Key)
	assert.Equal(t, "settings", schemas[1].Key)

	post := schemas[0].Value
	require.True(t, post.IsMapping())

	// Declaration order is preserved
	assert.Equal(t, []string{"title", "body", "author", "tags[]", "seo"}, post.Keys())

	title, ok := post.Get("title")
	require.True(t, ok)
	assert.True(t, title.IsString())
	assert.Equal(t, "string", title.Text)

	seo, ok := post.Get("seo")
	require.True(t, ok)
	require.True(t, seo.IsMapping())

	keywords, ok := seo.Get("keywords")
	require.True(t, ok)
	require.True(t, keywords.IsSequence())
	require.Len(t, keywords.Items, 1)
	assert.Equal(t, "string", keywords.Items[0].Text)
	assert.Equal(t, 9, keywords.Line)
}

func TestParseEmptyDocument(t *testing.T) {
	doc, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, doc.Schemas())
}

func TestParseRejectsNonMappingRoot(t *testing.T) {
	_, err := Parse([]byte("- string\n- number\n"))
	require.ErrorIs(t, err, ErrNotMapping)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("a: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse schema YAML")
}

func TestParseExpandsAliases(t *testing.T) {
	yaml := `
shared: &seo
  description: string
page:
  seo: *seo
`

	doc, err := Parse([]byte(yaml))
	require.NoError(t, err)

	page, _ := doc.Root.Get("page")
	seo, ok := page.Get("seo")
	require.True(t, ok)
	require.True(t, seo.IsMapping())
	assert.Equal(t, []string{"description"}, seo.Keys())
}

func TestParseRejectsAliasCycles(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"self reference", "s:\n  a: &x\n    b: *x\n"},
		{"through a sequence", "s:\n  a: &x\n    - string\n    - *x\n"},
		{"nested anchors", "s:\n  a: &x\n    b: &y\n      c: *x\n  d: *y\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, ErrAliasCycle)
		})
	}
}

func TestParseAllowsRepeatedAliases(t *testing.T) {
	doc, err := Parse([]byte("shared: &s string\npost:\n  a: *s\n  b: *s\n  c: [*s, *s]\n"))
	require.NoError(t, err)

	post, _ := doc.Root.Get("post")
	assert.Equal(t, []string{"a", "b", "c"}, post.Keys())
}

func TestParseLimitsAliasExpansion(t *testing.T) {
	var sb strings.Builder

	sb.WriteString("l0: &l0 [string, string]\n")

	for i := 1; i <= 22; i++ {
		fmt.Fprintf(&sb, "l%d: &l%d [*l%d, *l%d]\n", i, i, i-1, i-1)
	}

	done := make(chan error, 1)

	go func() {
		_, err := Parse([]byte(sb.String()))
		done <- err
	}()

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrAliasExpansion)
	case <-time.After(5 * time.Second):
		t.Fatal("alias expansion was not bounded")
	}
}

func TestValueIsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		expected bool
	}{
		{name: "null", yaml: "field: ~", expected: true},
		{name: "missing value", yaml: "field:", expected: true},
		{name: "empty string", yaml: `field: ""`, expected: true},
		{name: "false", yaml: "field: false", expected: true},
		{name: "zero", yaml: "field: 0", expected: true},
		{name: "quoted zero", yaml: `field: "0"`, expected: false},
		{name: "kind", yaml: "field: string", expected: false},
		{name: "true", yaml: "field: true", expected: false},
		{name: "empty mapping", yaml: "field: {}", expected: false},
		{name: "empty sequence", yaml: "field: []", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			v, ok := doc.Root.Get("field")
			require.True(t, ok)
			assert.Equal(t, tt.expected, v.IsEmpty())
		})
	}

	assert.True(t, (*Value)(nil).IsEmpty())
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/slices.yaml", []byte("hero:\n  title: string\n"), 0o644))

	doc, err := LoadFile(fs, "/project/slices.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/project/slices.yaml", doc.Path)
	require.Len(t, doc.Schemas(), 1)

	_, err = LoadFile(fs, "/project/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read schema file")
}

func TestGlob(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, p := range []string{
		"/project/schemas/b.yaml",
		"/project/schemas/a.yaml",
		"/project/schemas/nested/c.yaml",
		"/project/schemas/readme.md",
	} {
		require.NoError(t, afero.WriteFile(fs, p, []byte("x: string\n"), 0o644))
	}

	t.Run("double star", func(t *testing.T) {
		paths, err := Glob(fs, "/project", "./schemas/**/*.yaml")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.FromSlash("/project/schemas/a.yaml"),
			filepath.FromSlash("/project/schemas/b.yaml"),
			filepath.FromSlash("/project/schemas/nested/c.yaml"),
		}, paths)
	})

	t.Run("literal path", func(t *testing.T) {
		paths, err := Glob(fs, "/project", "schemas/a.yaml")
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.FromSlash("/project/schemas/a.yaml")}, paths)
	})

	t.Run("no match", func(t *testing.T) {
		paths, err := Glob(fs, "/project", "schemas/missing.yaml")
		require.NoError(t, err)
		assert.Empty(t, paths)
	})
}
