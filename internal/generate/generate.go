package generate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"sanity-yaml/internal/config"
	"sanity-yaml/internal/diagnostic"
	"sanity-yaml/internal/logger"
	"sanity-yaml/internal/prompt"
	"sanity-yaml/internal/render"
	"sanity-yaml/internal/resolve"
	"sanity-yaml/internal/scan"
	"sanity-yaml/internal/source"
	"sanity-yaml/internal/typegen"
)

// ErrDeclined is returned when the user rejects unsupported field types.
var ErrDeclined = errors.New("generation declined: unsupported field types")

// Options controls a single run.
type Options struct {
	// DryRun renders everything but writes nothing.
	DryRun bool
	// Confirmer is asked when unsupported kinds are found. Nil declines.
	Confirmer prompt.Confirmer
	// Report receives the unsupported kind report. Nil discards it.
	Report io.Writer
}

// Result is the outcome of a run.
type Result struct {
	// Files are the rendered files in the order they were produced.
	Files []render.GeneratedFile
	// Schemas counts the schema entries built across all filesets.
	Schemas int
	// Diagnostics collects scan and resolution diagnostics.
	Diagnostics diagnostic.Diagnostics
	// Written reports whether Files were written to disk.
	Written bool
}

// Fileset is a configured fileset with its loaded documents.
type Fileset struct {
	Name   string
	Config config.Fileset
	Docs   []*source.Document
}

// Generator runs the pipeline over one configuration.
type Generator struct {
	fs     afero.Fs
	cfg    *config.Config
	log    logger.Logger
	engine *render.Engine
}

// New creates a Generator. A nil log discards output.
func New(fsys afero.Fs, cfg *config.Config, log logger.Logger) *Generator {
	if log == nil {
		log = logger.NewNop()
	}

	return &Generator{
		fs:     fsys,
		cfg:    cfg,
		log:    log,
		engine: render.NewEngine(fsys),
	}
}

// Run executes the pipeline.
func (g *Generator) Run(ctx context.Context, opts Options) (*Result, error) {
	sets, err := g.Load()
	if err != nil {
		return nil, err
	}

	if err := g.loadPartials(); err != nil {
		return nil, err
	}

	res := &Result{}

	scanned := scan.Documents(allDocs(sets))
	res.Diagnostics.Merge(scanned.Diagnostics)

	passthrough, err := g.confirm(ctx, scanned.Report, opts)
	if err != nil {
		return res, err
	}

	changes, err := g.build(ctx, sets, passthrough, res)
	if err != nil {
		return res, err
	}

	batch := render.NewBatch(g.fs)

	for _, c := range changes {
		matched, err := batch.Apply(c)
		if err != nil {
			return res, fmt.Errorf("schema %s: %w", c.Schema, err)
		}

		if c.Modify && c.Regex != "" && !matched {
			g.log.Warn("Pattern not found, appending instead", "file", c.Path, "regex", c.Regex, "schema", c.Schema)
		}
	}

	res.Files = batch.Files()

	if opts.DryRun {
		return res, nil
	}

	if err := render.WriteFiles(g.fs, res.Files); err != nil {
		return res, err
	}

	res.Written = true

	g.log.Info("Generation complete", "schemas", res.Schemas, "files", len(res.Files))

	return res, nil
}

// Load expands the input pattern of every fileset and parses the matching
// documents. Filesets are returned sorted by name.
func (g *Generator) Load() ([]Fileset, error) {
	sets := make([]Fileset, 0, len(g.cfg.Filesets))

	for _, name := range g.cfg.FilesetNames() {
		fc := g.cfg.Filesets[name]

		paths, err := source.Glob(g.fs, g.cfg.Dir, fc.InputPath)
		if err != nil {
			return nil, fmt.Errorf("fileset %s: %w", name, err)
		}

		if len(paths) == 0 {
			g.log.Warn("No schema files matched", "fileset", name, "pattern", fc.InputPath)
		}

		set := Fileset{Name: name, Config: fc}

		for _, p := range paths {
			doc, err := source.LoadFile(g.fs, p)
			if err != nil {
				return nil, fmt.Errorf("fileset %s: %w", name, err)
			}

			set.Docs = append(set.Docs, doc)
		}

		g.log.Debug("Loaded fileset", "fileset", name, "files", len(set.Docs))

		sets = append(sets, set)
	}

	return sets, nil
}

// loadPartials hands the files matching the partials pattern to the engine.
func (g *Generator) loadPartials() error {
	if g.cfg.Partials == "" {
		return nil
	}

	paths, err := source.Glob(g.fs, g.cfg.Dir, g.cfg.Partials)
	if err != nil {
		return fmt.Errorf("partials: %w", err)
	}

	if len(paths) == 0 {
		g.log.Warn("No partials matched", "pattern", g.cfg.Partials)
	}

	if err := g.engine.SetPartials(paths); err != nil {
		return fmt.Errorf("partials: %w", err)
	}

	g.log.Debug("Loaded partials", "files", len(paths))

	return nil
}

// confirm runs the unsupported kind gate and reports whether passthrough
// mode is on.
func (g *Generator) confirm(ctx context.Context, report scan.Report, opts Options) (bool, error) {
	if report.Empty() {
		return false, nil
	}

	c := opts.Confirmer
	if c == nil {
		c = prompt.Static(false)
	}

	out := opts.Report
	if out == nil {
		out = io.Discard
	}

	ok, err := prompt.Gate(ctx, c, report, out)
	if err != nil {
		return false, err
	}

	if !ok {
		return false, ErrDeclined
	}

	return true, nil
}

type filesetOutput struct {
	changes []render.Change
	schemas int
	diags   diagnostic.Diagnostics
}

// build resolves and renders every fileset concurrently. The returned
// changes keep fileset order so that writes are deterministic.
func (g *Generator) build(ctx context.Context, sets []Fileset, passthrough bool, res *Result) ([]render.Change, error) {
	outputs := make([]filesetOutput, len(sets))

	eg, ctx := errgroup.WithContext(ctx)

	for i, set := range sets {
		eg.Go(func() error {
			out, err := g.buildFileset(ctx, set, passthrough)
			if err != nil {
				return fmt.Errorf("fileset %s: %w", set.Name, err)
			}

			outputs[i] = out

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var changes []render.Change

	for _, out := range outputs {
		changes = append(changes, out.changes...)
		res.Schemas += out.schemas
		res.Diagnostics.Merge(out.diags)
	}

	return changes, nil
}

func (g *Generator) buildFileset(ctx context.Context, set Fileset, passthrough bool) (filesetOutput, error) {
	var out filesetOutput

	defaults, err := g.cfg.DefaultsFor(set.Name)
	if err != nil {
		return out, err
	}

	r := resolve.NewResolver(resolve.Config{Defaults: defaults, Passthrough: passthrough}, g.log)
	seen := make(map[string]string)

	for _, doc := range set.Docs {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		for _, schema := range r.BuildDocument(doc) {
			if prev, dup := seen[schema.Name]; dup {
				msg := fmt.Sprintf("schema %s in %s was already declared in %s", schema.Name, doc.Path, prev)
				out.diags.Add(diagnostic.Diagnostic{
					Severity: diagnostic.SeverityWarning,
					Code:     diagnostic.CodeDuplicateSchema,
					Message:  msg,
					Schema:   schema.Name,
					File:     doc.Path,
				})
				g.log.Warn("Duplicate schema", "schema", schema.Name, "fileset", set.Name, "file", doc.Path, "previous", prev)
			}

			seen[schema.Name] = doc.Path

			schema.Diagnostics.SetFile(doc.Path)
			out.diags.Merge(schema.Diagnostics)
			out.schemas++

			data := render.NewData(schema, typegen.Derive(schema.Fields))
			data.Fileset = set.Name
			data.Source = doc.Path
			data.RemoveDefineField = g.cfg.RemoveDefineField

			for _, o := range set.Config.Outputs {
				c, err := g.renderOutput(o, data)
				if err != nil {
					return out, fmt.Errorf("schema %s: %w", schema.Name, err)
				}

				out.changes = append(out.changes, c)
			}
		}
	}

	return out, nil
}

func (g *Generator) renderOutput(o config.Output, data render.Data) (render.Change, error) {
	tmpl := o.Template
	if !o.IsBuiltin() {
		tmpl = g.cfg.ResolvePath(tmpl)
	}

	content, err := g.engine.Execute(tmpl, data)
	if err != nil {
		return render.Change{}, err
	}

	pattern := o.OutputPath
	if o.IsModify() {
		pattern = o.TargetFile
	}

	path, err := g.engine.ExpandPath(pattern, data)
	if err != nil {
		return render.Change{}, err
	}

	return render.Change{
		Path:    g.cfg.ResolvePath(path),
		Content: content,
		Modify:  o.IsModify(),
		Regex:   o.Regex,
		Schema:  data.Name,
	}, nil
}

func allDocs(sets []Fileset) []*source.Document {
	var docs []*source.Document
	for _, s := range sets {
		docs = append(docs, s.Docs...)
	}

	return docs
}
