package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/spf13/afero"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ErrTargetNotFound is returned when a modify target does not exist.
var ErrTargetNotFound = errors.New("target file not found")

// GeneratedFile is a file ready to be written.
type GeneratedFile struct {
	Path    string
	Content []byte
}

// Change is one rendered output of one schema entry.
type Change struct {
	// Path is the file written or modified.
	Path string
	// Content is the rendered template output.
	Content []byte
	// Modify merges Content into the existing file instead of replacing it.
	Modify bool
	// Regex selects the replaced region in modify mode.
	Regex string
	// Schema names the entry the change was rendered for.
	Schema string
}

// Batch accumulates changes in memory. Modify changes read the target from
// the batch when an earlier change produced it, and from disk otherwise.
type Batch struct {
	fs afero.Fs

	mu    sync.Mutex
	files map[string][]byte
	order []string
}

// NewBatch creates an empty Batch reading existing files from fsys.
func NewBatch(fsys afero.Fs) *Batch {
	return &Batch{fs: fsys, files: make(map[string][]byte)}
}

// Apply records c. For modify changes, matched reports whether the regex
// was found; an unmatched regex falls back to appending.
func (b *Batch) Apply(c Change) (matched bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !c.Modify {
		b.set(c.Path, c.Content)

		return false, nil
	}

	existing, err := b.current(c.Path)
	if err != nil {
		return false, err
	}

	out, matched, err := Modify(existing, c.Content, c.Regex)
	if err != nil {
		return false, fmt.Errorf("failed to modify %s: %w", c.Path, err)
	}

	b.set(c.Path, out)

	return matched, nil
}

// Files returns the accumulated files in first-touched order.
func (b *Batch) Files() []GeneratedFile {
	b.mu.Lock()
	defer b.mu.Unlock()

	files := make([]GeneratedFile, 0, len(b.order))
	for _, p := range b.order {
		files = append(files, GeneratedFile{Path: p, Content: slices.Clone(b.files[p])})
	}

	return files
}

func (b *Batch) set(path string, content []byte) {
	if _, ok := b.files[path]; !ok {
		b.order = append(b.order, path)
	}

	b.files[path] = content
}

func (b *Batch) current(path string) ([]byte, error) {
	if content, ok := b.files[path]; ok {
		return content, nil
	}

	ok, err := afero.Exists(b.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, path)
	}

	content, err := afero.ReadFile(b.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return content, nil
}

// WriteFiles writes all generated files, creating parent directories as
// needed.
func WriteFiles(fsys afero.Fs, files []GeneratedFile) error {
	for _, file := range files {
		if dir := filepath.Dir(file.Path); dir != "." {
			if err := fsys.MkdirAll(dir, dirPerm); err != nil {
				return fmt.Errorf("creating output directory %s: %w", dir, err)
			}
		}

		if err := afero.WriteFile(fsys, file.Path, file.Content, filePerm); err != nil {
			return fmt.Errorf("writing file %s: %w", file.Path, err)
		}
	}

	return nil
}
