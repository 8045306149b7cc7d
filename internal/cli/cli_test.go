package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanity-yaml/internal/config"
	"sanity-yaml/internal/generate"
)

const testConfig = `
filesets:
  blog:
    input_path: schemas/*.yaml
    outputs:
      - template: builtin:sanity-schema
        output_path: generated/{{ .Name }}.ts
`

func setup(t *testing.T, schemas string) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "sanity-yaml.config.yaml", []byte(testConfig), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "schemas/blog.yaml", []byte(schemas), 0o644))

	return fsys
}

func run(t *testing.T, fsys afero.Fs, args ...string) (string, error) {
	t.Helper()

	out, _, err := runWithStderr(t, fsys, args...)

	return out, err
}

func runWithStderr(t *testing.T, fsys afero.Fs, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd(fsys)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "disabled"}, args...))

	err := cmd.Execute()

	return out.String(), errOut.String(), err
}

func TestGenerateCommand(t *testing.T) {
	t.Run("Should generate from the discovered config", func(t *testing.T) {
		fsys := setup(t, "post:\n  title: string\n  body: text\n")

		out, err := run(t, fsys, "generate")
		require.NoError(t, err)
		assert.Contains(t, out, "Generated 1 files from 1 schemas")

		data, err := afero.ReadFile(fsys, "generated/post.ts")
		require.NoError(t, err)
		assert.Contains(t, string(data), "rows: 3,")
	})

	t.Run("Should generate without a subcommand", func(t *testing.T) {
		fsys := setup(t, "post:\n  title: string\n")

		_, err := run(t, fsys)
		require.NoError(t, err)

		exists, err := afero.Exists(fsys, "generated/post.ts")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Should apply flag overrides", func(t *testing.T) {
		fsys := setup(t, "post:\n  body: text\n")

		_, err := run(t, fsys, "generate", "--text-rows", "7", "--remove-define-field")
		require.NoError(t, err)

		data, err := afero.ReadFile(fsys, "generated/post.ts")
		require.NoError(t, err)
		assert.Contains(t, string(data), "rows: 7,")
		assert.NotContains(t, string(data), "defineField")
	})

	t.Run("Should list files on dry run", func(t *testing.T) {
		fsys := setup(t, "post:\n  title: string\n")

		out, err := run(t, fsys, "generate", "--dry-run")
		require.NoError(t, err)
		assert.Contains(t, out, "would write generated/post.ts")

		exists, err := afero.Exists(fsys, "generated/post.ts")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Should decline unsupported kinds without --yes", func(t *testing.T) {
		fsys := setup(t, "post:\n  tint: color\n")

		_, err := run(t, fsys, "generate")
		assert.ErrorIs(t, err, generate.ErrDeclined)
	})

	t.Run("Should accept unsupported kinds with --yes", func(t *testing.T) {
		fsys := setup(t, "post:\n  tint: color\n")

		_, err := run(t, fsys, "generate", "--yes")
		require.NoError(t, err)

		data, err := afero.ReadFile(fsys, "generated/post.ts")
		require.NoError(t, err)
		assert.Contains(t, string(data), `type: "color",`)
	})

	t.Run("Should print resolution warnings with their location", func(t *testing.T) {
		fsys := setup(t, "post:\n  title: string\n  tags[]: ->author\n")

		out, errOut, err := runWithStderr(t, fsys, "generate")
		require.NoError(t, err)
		assert.Contains(t, out, "Generated 1 files from 1 schemas")
		assert.Contains(t, errOut, "warning:")
		assert.Contains(t, errOut, "schemas/blog.yaml:3:11 [post] tags[]: [array_suffix_kept]")
	})

	t.Run("Should fail without a config", func(t *testing.T) {
		_, err := run(t, afero.NewMemMapFs(), "generate")
		assert.ErrorIs(t, err, config.ErrNotFound)
	})
}

func TestScanCommand(t *testing.T) {
	t.Run("Should report unsupported kinds", func(t *testing.T) {
		fsys := setup(t, "post:\n  title: strng\n  tint: color\n")

		out, err := run(t, fsys, "scan")
		require.NoError(t, err)

		assert.Contains(t, out, "color")
		assert.Contains(t, out, "strng")
		assert.Contains(t, out, "schemas/blog.yaml:2:10 [post] title: [unsupported_kind]")
		assert.Contains(t, out, "(did you mean string?)")
	})

	t.Run("Should report a clean fileset", func(t *testing.T) {
		fsys := setup(t, "post:\n  title: string\n")

		out, err := run(t, fsys, "scan")
		require.NoError(t, err)
		assert.Contains(t, out, "No unsupported field types found.")
	})
}

func TestInspectCommand(t *testing.T) {
	fsys := setup(t, "post:\n  title: string\n  tags[]: string\n")

	out, err := run(t, fsys, "inspect", "schemas/blog.yaml", "--format", "json")
	require.NoError(t, err)

	assert.Contains(t, out, `"name": "post"`)
	assert.Contains(t, out, `"tags": "string[]"`)

	_, err = run(t, fsys, "inspect")
	assert.Error(t, err)
}

func TestInspectCommand_PrintsDiagnostics(t *testing.T) {
	fsys := setup(t, "post:\n  title: string\n  tags[]: ->author\n")

	out, errOut, err := runWithStderr(t, fsys, "inspect", "schemas/blog.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "name: post")
	assert.Contains(t, errOut, "schemas/blog.yaml:3:11")
	assert.Contains(t, errOut, "[array_suffix_kept]")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, afero.NewMemMapFs(), "version")
	require.NoError(t, err)
	assert.Equal(t, "sanity-yaml dev\n", out)
}
