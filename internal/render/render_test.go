package render

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanity-yaml/internal/config"
	"sanity-yaml/internal/resolve"
	"sanity-yaml/internal/source"
	"sanity-yaml/internal/typegen"
)

func lines(l ...string) string {
	return strings.Join(l, "\n")
}

func schemaData(t *testing.T, yamlText string) Data {
	t.Helper()

	doc, err := source.Parse([]byte(yamlText))
	require.NoError(t, err)

	entries := doc.Schemas()
	require.Len(t, entries, 1)

	schema := resolve.NewResolver(resolve.DefaultConfig(), nil).Build(entries[0].Key, entries[0].Value)

	return NewData(schema, typegen.Derive(schema.Fields))
}

const postSchema = `
post:
  title!: string
  body: text
  tags[]: string
  author: ->person
`

func TestSanityFields(t *testing.T) {
	data := schemaData(t, `
post:
  status: string(draft, published)
  seo:
    description: text(5)
  links[]:
    url: string
  contact: email
`)

	t.Run("Should wrap named fields in defineField", func(t *testing.T) {
		expected := lines(
			`defineField({`,
			`	name: "status",`,
			`	type: "string",`,
			`	options: { list: ["draft", "published"] },`,
			`}),`,
			`defineField({`,
			`	name: "seo",`,
			`	type: "object",`,
			`	fields: [`,
			`		defineField({`,
			`			name: "description",`,
			`			type: "text",`,
			`			rows: 5,`,
			`		}),`,
			`	],`,
			`}),`,
			`defineField({`,
			`	name: "links",`,
			`	type: "array",`,
			`	of: [`,
			`		{`,
			`			type: "object",`,
			`			fields: [`,
			`				defineField({`,
			`					name: "url",`,
			`					type: "string",`,
			`				}),`,
			`			],`,
			`		},`,
			`	],`,
			`}),`,
			`defineField({`,
			`	name: "contact",`,
			`	type: "email",`,
			`	validation: (Rule) => Rule.email(),`,
			`}),`,
		)

		assert.Equal(t, expected, SanityFields(data.Fields, 0, false))
	})

	t.Run("Should emit plain objects when bare", func(t *testing.T) {
		out := SanityFields(data.Fields[1:2], 1, true)

		assert.Equal(t, lines(
			`	{`,
			`		name: "seo",`,
			`		type: "object",`,
			`		fields: [`,
			`			{`,
			`				name: "description",`,
			`				type: "text",`,
			`				rows: 5,`,
			`			},`,
			`		],`,
			`	},`,
		), out)
		assert.NotContains(t, out, "defineField")
	})
}

func TestEngine_Builtins(t *testing.T) {
	engine := NewEngine(afero.NewMemMapFs())
	data := schemaData(t, postSchema)

	assert.ElementsMatch(t, []string{config.TemplateSchema, config.TemplateTypeScript}, Builtins())

	t.Run("Should render the sanity schema", func(t *testing.T) {
		out, err := engine.Execute(config.TemplateSchema, data)
		require.NoError(t, err)

		expected := lines(
			`import { defineField, defineType } from "sanity";`,
			``,
			`export default defineType({`,
			`	name: "post",`,
			`	title: "Post",`,
			`	type: "object",`,
			`	fields: [`,
			`		defineField({`,
			`			name: "title",`,
			`			type: "string",`,
			`			validation: (Rule) => Rule.required(),`,
			`		}),`,
			`		defineField({`,
			`			name: "body",`,
			`			type: "text",`,
			`			rows: 3,`,
			`		}),`,
			`		defineField({`,
			`			name: "tags",`,
			`			type: "array",`,
			`			of: [`,
			`				{ type: "string" },`,
			`			],`,
			`		}),`,
			`		defineField({`,
			`			name: "author",`,
			`			type: "reference",`,
			`			to: [{ type: "person" }],`,
			`		}),`,
			`	],`,
			`});`,
			``,
		)

		assert.Equal(t, expected, string(out))
	})

	t.Run("Should render plain objects without defineField", func(t *testing.T) {
		bare := data
		bare.RemoveDefineField = true

		out, err := engine.Execute(config.TemplateSchema, bare)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(string(out), "export default {\n\tname: \"post\","))
		assert.True(t, strings.HasSuffix(string(out), "\t],\n};\n"))
		assert.NotContains(t, string(out), "defineField")
	})

	t.Run("Should render the typescript declaration", func(t *testing.T) {
		out, err := engine.Execute(config.TemplateTypeScript, data)
		require.NoError(t, err)

		expected := lines(
			`export interface Post {`,
			`  title: string;`,
			`  body: string;`,
			`  tags: string[];`,
			`  author: any;`,
			`}`,
			``,
		)

		assert.Equal(t, expected, string(out))
	})

	t.Run("Should fail for an unknown builtin", func(t *testing.T) {
		_, err := engine.Execute("builtin:nope", data)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})
}

func TestEngine_UserTemplates(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "tpl/index.tmpl",
		[]byte(`export { default as {{ camelCase .Name }} } from "./{{ kebabCase .Name }}";`+"\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "tpl/props.tmpl", []byte(
		`{{ range $i, $e := .Types.Entries }}{{ tsProperty $e.Name }}: {{ inlineObjectType $e.Expr }}`+
			`{{ if notLast $i (len $.Types.Entries) }}, {{ end }}{{ end }}`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "tpl/broken.tmpl", []byte(`{{ .Name `), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "tpl/missing.tmpl", []byte(`{{ .Nope }}`), 0o644))

	engine := NewEngine(fsys)
	data := schemaData(t, "blogPost:\n  title: string\n  seo:\n    a: number\n")

	t.Run("Should render with casing helpers", func(t *testing.T) {
		out, err := engine.Execute("tpl/index.tmpl", data)
		require.NoError(t, err)
		assert.Equal(t, `export { default as blogPost } from "./blog-post";`+"\n", string(out))
	})

	t.Run("Should expose ordered type entries", func(t *testing.T) {
		out, err := engine.Execute("tpl/props.tmpl", data)
		require.NoError(t, err)
		assert.Equal(t, "title: string, seo: {\n  a: number;\n}", string(out))
	})

	t.Run("Should report missing templates", func(t *testing.T) {
		_, err := engine.Execute("tpl/none.tmpl", data)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("Should report parse errors", func(t *testing.T) {
		_, err := engine.Execute("tpl/broken.tmpl", data)
		assert.ErrorContains(t, err, "failed to parse template")
	})

	t.Run("Should report missing data", func(t *testing.T) {
		_, err := engine.Execute("tpl/missing.tmpl", data)
		assert.ErrorContains(t, err, "executing template")
	})

	t.Run("Should cache parsed templates", func(t *testing.T) {
		first, err := engine.Template("tpl/index.tmpl")
		require.NoError(t, err)

		second, err := engine.Template("tpl/index.tmpl")
		require.NoError(t, err)

		assert.Same(t, first, second)
	})
}

func TestEngine_Partials(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "partials/header.tmpl",
		[]byte(`// {{ titleCase .Name }} ({{ .Fileset }})`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "partials/blocks.tmpl",
		[]byte(`{{ define "exportName" }}{{ camelCase .Name }}Schema{{ end }}`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "partials/other/header.tmpl", []byte(`dup`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "partials/broken.tmpl", []byte(`{{ .Name `), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "tpl/main.tmpl",
		[]byte(`{{ template "header" . }}`+"\n"+`export const {{ template "exportName" . }} = {};`), 0o644))

	data := schemaData(t, "blogPost:\n  title: string\n")
	data.Fileset = "blog"

	t.Run("Should make partials callable from user templates", func(t *testing.T) {
		engine := NewEngine(fsys)
		require.NoError(t, engine.SetPartials([]string{"partials/header.tmpl", "partials/blocks.tmpl"}))

		out, err := engine.Execute("tpl/main.tmpl", data)
		require.NoError(t, err)
		assert.Equal(t, "// Blog Post (blog)\nexport const blogPostSchema = {};", string(out))
	})

	t.Run("Should keep builtins working alongside partials", func(t *testing.T) {
		engine := NewEngine(fsys)
		require.NoError(t, engine.SetPartials([]string{"partials/header.tmpl"}))

		out, err := engine.Execute(config.TemplateTypeScript, data)
		require.NoError(t, err)
		assert.Contains(t, string(out), "title")
	})

	t.Run("Should fail when a called partial is not loaded", func(t *testing.T) {
		_, err := NewEngine(fsys).Execute("tpl/main.tmpl", data)
		assert.ErrorContains(t, err, "executing template")
	})

	t.Run("Should drop cached templates when partials change", func(t *testing.T) {
		engine := NewEngine(fsys)

		first, err := engine.Template("tpl/main.tmpl")
		require.NoError(t, err)

		require.NoError(t, engine.SetPartials([]string{"partials/header.tmpl", "partials/blocks.tmpl"}))

		second, err := engine.Template("tpl/main.tmpl")
		require.NoError(t, err)

		assert.NotSame(t, first, second)
		assert.NotNil(t, second.Lookup("header"))
		assert.NotNil(t, second.Lookup("exportName"))
	})

	t.Run("Should reject invalid partials", func(t *testing.T) {
		tests := []struct {
			name  string
			paths []string
			want  string
		}{
			{"duplicate name", []string{"partials/header.tmpl", "partials/other/header.tmpl"}, ErrDuplicatePartial.Error()},
			{"parse error", []string{"partials/broken.tmpl"}, "failed to parse partial partials/broken.tmpl"},
			{"missing file", []string{"partials/none.tmpl"}, "failed to read partial"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := NewEngine(fsys).SetPartials(tt.paths)
				assert.ErrorContains(t, err, tt.want)
			})
		}
	})
}

func TestEngine_ExpandPath(t *testing.T) {
	engine := NewEngine(afero.NewMemMapFs())
	data := Data{Name: "blogPost", Fileset: "blog"}

	tests := []struct {
		pattern  string
		expected string
		wantErr  bool
	}{
		{"generated/plain.ts", "generated/plain.ts", false},
		{"generated/{{ .Name }}.ts", "generated/blogPost.ts", false},
		{"{{ .Fileset }}/{{ kebabCase .Name }}.tsx", "blog/blog-post.tsx", false},
		{"{{ .Nope }}.ts", "", true},
		{"{{ \"\" }}", "", true},
		{"{{ .Name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := engine.ExpandPath(tt.pattern, data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFuncs(t *testing.T) {
	fm := FuncMap()

	tests := []struct {
		fn       string
		in       string
		expected string
	}{
		{"pascalCase", "blog_post", "BlogPost"},
		{"camelCase", "BlogPost", "blogPost"},
		{"kebabCase", "blogPost", "blog-post"},
		{"snakeCase", "blogPost", "blog_post"},
		{"titleCase", "blogPost", "Blog Post"},
		{"sentenceCase", "blogPost", "Blog post"},
		{"slugify", "Blog Post!", "blog-post"},
	}

	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			f, ok := fm[tt.fn].(func(string) string)
			require.True(t, ok)
			assert.Equal(t, tt.expected, f(tt.in))
		})
	}

	assert.Contains(t, fm, "upper", "sprig functions are available")
	assert.Empty(t, sentenceCase(""))
}

func TestHelpers(t *testing.T) {
	data := schemaData(t, "post:\n  seo:\n    a: number\n  title: string\n")
	seo, _ := data.Types.Get("seo")
	title, _ := data.Types.Get("title")

	assert.True(t, hasFields(data.Fields))
	assert.True(t, hasFields(data.Fields[0]))
	assert.False(t, hasFields(data.Fields[1]))
	assert.True(t, hasFields(seo))
	assert.False(t, hasFields("x"))

	assert.True(t, isObject(seo))
	assert.False(t, isObject(title))
	assert.True(t, isObject(data.Fields[0]))
	assert.False(t, isObject(42))

	assert.Equal(t, "string", inlineObjectType(title))
	assert.Equal(t, "{\n  a: number;\n}", inlineObjectType(seo))
	assert.Equal(t, "any", inlineObjectType(42))

	assert.True(t, notLast(0, 2))
	assert.False(t, notLast(1, 2))
}
