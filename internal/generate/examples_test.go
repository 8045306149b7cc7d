package generate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanity-yaml/internal/config"
)

// exampleFs overlays an in-memory layer on an example directory so runs
// never touch the checked-in files.
func exampleFs(t *testing.T, dir string) afero.Fs {
	t.Helper()

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)

	base := afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), abs))

	return afero.NewCopyOnWriteFs(base, afero.NewMemMapFs())
}

func TestExamples(t *testing.T) {
	root := filepath.Join("..", "..", "examples")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		t.Run(e.Name(), func(t *testing.T) {
			fsys := exampleFs(t, filepath.Join(root, e.Name()))

			cfg, err := config.Load(fsys, config.LoadOptions{
				Dir:      ".",
				Required: true,
				Environ:  func() []string { return nil },
			})
			require.NoError(t, err)

			res, err := New(fsys, cfg, nil).Run(context.Background(), Options{})
			require.NoError(t, err)

			assert.NotZero(t, res.Schemas)
			assert.Empty(t, res.Diagnostics.Warnings)

			for _, f := range res.Files {
				data, err := afero.ReadFile(fsys, f.Path)
				require.NoError(t, err, f.Path)
				assert.NotEmpty(t, data, f.Path)
			}
		})
	}
}

func TestExamples_Blog(t *testing.T) {
	fsys := exampleFs(t, filepath.Join("..", "..", "examples", "blog"))

	cfg, err := config.Load(fsys, config.LoadOptions{Dir: ".", Required: true, Environ: func() []string { return nil }})
	require.NoError(t, err)

	_, err = New(fsys, cfg, nil).Run(context.Background(), Options{})
	require.NoError(t, err)

	index := readFile(t, fsys, "generated/index.ts")
	assert.Equal(t, "// Generated by sanity-yaml. Do not edit between the markers.\n"+
		"export { default as author } from \"./schemas/author\";\n"+
		"export { default as blogPost } from \"./schemas/blog-post\";\n"+
		"// sanity-yaml:exports\n", index)

	post := readFile(t, fsys, "generated/schemas/blog-post.ts")
	assert.Contains(t, post, "validation: (Rule) => Rule.max(120).required(),")
	assert.Contains(t, post, `options: { source: "title" },`)
	assert.Contains(t, post, "rows: 2,")
	assert.Contains(t, post, "rows: 4,")
	assert.Contains(t, post, `options: { accept: ".pdf" },`)

	types := readFile(t, fsys, "generated/types/blog-post.ts")
	assert.Contains(t, types, "export interface BlogPost {")
	assert.Contains(t, types, `status: "draft" | "review" | "published";`)
	assert.Contains(t, types, "tags: string[];")
}
