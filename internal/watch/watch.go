// Package watch reruns generation when schema, template, or config files
// change.
package watch

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/romdo/go-debounce"
	"github.com/spf13/afero"

	"sanity-yaml/internal/config"
	"sanity-yaml/internal/logger"
)

const (
	// DefaultDelay coalesces bursts of events, e.g. editors writing a
	// temp file and renaming it.
	DefaultDelay = 200 * time.Millisecond
	maxWaitRatio = 5
)

// Extensions that trigger a run.
var watchedExt = []string{".yaml", ".yml", ".tmpl"}

var ignoredDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"dist":         true,
}

// Options configures Watch.
type Options struct {
	// Dirs are the directories to watch (not recursive).
	Dirs []string
	// Delay is the debounce delay. Zero means DefaultDelay.
	Delay time.Duration
	// Match selects the paths that trigger a run. Nil means Relevant.
	Match func(path string) bool
	// Log receives watcher events. Nil discards them.
	Log logger.Logger
}

// Watch calls onChange after matching files change, until ctx is done.
// Calls never overlap; events arriving during a call schedule one more run.
func Watch(ctx context.Context, opts Options, onChange func(context.Context) error) error {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}

	if opts.Match == nil {
		opts.Match = Relevant
	}

	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Close()

	for _, dir := range opts.Dirs {
		if err := w.Add(dir); err != nil {
			log.Warn("Failed to watch directory", "path", dir, "error", err)
		}
	}

	log.Info("Watching for changes", "directories", len(w.WatchList()))

	trigger := make(chan struct{}, 1)

	debounced, cancel := debounce.NewWithMaxWait(opts.Delay, opts.Delay*maxWaitRatio, func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Has(fsnotify.Chmod) || !opts.Match(ev.Name) {
				continue
			}

			log.Debug("Change detected", "path", ev.Name, "op", ev.Op.String())
			debounced()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			log.Warn("File watcher error", "error", err)

		case <-trigger:
			if err := onChange(ctx); err != nil {
				log.Error("Regeneration failed", "error", err)
			}
		}
	}
}

// Relevant reports whether path is a schema, template, or config file.
func Relevant(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(watchedExt, ext)
}

// Dirs returns the directories a configuration depends on: the config
// directory, every directory under each input or partials pattern's static
// prefix, and the directories of user templates.
func Dirs(fsys afero.Fs, cfg *config.Config) ([]string, error) {
	dirs := map[string]struct{}{filepath.Clean(cfg.Dir): {}}

	for _, name := range cfg.FilesetNames() {
		fc := cfg.Filesets[name]

		if err := walkDirs(fsys, cfg.ResolvePath(fc.InputPath), dirs); err != nil {
			return nil, fmt.Errorf("fileset %s: %w", name, err)
		}

		for _, o := range fc.Outputs {
			if !o.IsBuiltin() {
				dirs[filepath.Dir(cfg.ResolvePath(o.Template))] = struct{}{}
			}
		}
	}

	if cfg.Partials != "" {
		if err := walkDirs(fsys, cfg.ResolvePath(cfg.Partials), dirs); err != nil {
			return nil, fmt.Errorf("partials: %w", err)
		}
	}

	return slices.Sorted(maps.Keys(dirs)), nil
}

// walkDirs adds the static base of pattern and every directory below it.
func walkDirs(fsys afero.Fs, pattern string, dirs map[string]struct{}) error {
	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))

	err := afero.Walk(fsys, filepath.FromSlash(base), func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if ignoredDirs[info.Name()] {
			return filepath.SkipDir
		}

		dirs[filepath.Clean(p)] = struct{}{}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", base, err)
	}

	return nil
}
