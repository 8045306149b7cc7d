package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sanity-yaml/internal/config"
	"sanity-yaml/internal/diagnostic"
	"sanity-yaml/internal/generate"
	"sanity-yaml/internal/prompt"
	"sanity-yaml/internal/resolve"
	"sanity-yaml/internal/scan"
	"sanity-yaml/internal/source"
	"sanity-yaml/internal/watch"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		yes    bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render every configured fileset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd.Flags(), true)
			if err != nil {
				return err
			}

			return a.runGenerate(cmd, cfg, yes, dryRun)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept unsupported field types without asking")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the files that would be written")

	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, cfg *config.Config, yes, dryRun bool) error {
	res, err := generate.New(a.fs, cfg, a.log).Run(cmd.Context(), generate.Options{
		DryRun:    dryRun,
		Confirmer: prompt.Auto(yes),
		Report:    cmd.ErrOrStderr(),
	})
	if res != nil {
		printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics)
	}

	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if dryRun {
		for _, f := range res.Files {
			fmt.Fprintln(out, "would write", f.Path)
		}

		return nil
	}

	fmt.Fprintf(out, "Generated %d files from %d schemas\n", len(res.Files), res.Schemas)

	return nil
}

func (a *app) inspectCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Print the resolved fields and types of schema files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd.Flags(), false)
			if err != nil {
				return err
			}

			rc := resolve.Config{Defaults: cfg.FieldDefaults, Passthrough: true}

			var (
				items []generate.Inspection
				diags diagnostic.Diagnostics
			)

			for _, path := range args {
				doc, err := source.LoadFile(a.fs, path)
				if err != nil {
					return err
				}

				inspected, d := generate.Inspect(doc, rc, a.log)
				items = append(items, inspected...)
				diags.Merge(d)
			}

			printDiagnostics(cmd.ErrOrStderr(), diags)

			return generate.WriteInspection(cmd.OutOrStdout(), items, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", generate.FormatYAML, "output format (yaml, json, dump)")

	return cmd
}

func (a *app) scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List unsupported field types without generating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd.Flags(), true)
			if err != nil {
				return err
			}

			sets, err := generate.New(a.fs, cfg, a.log).Load()
			if err != nil {
				return err
			}

			var docs []*source.Document
			for _, s := range sets {
				docs = append(docs, s.Docs...)
			}

			res := scan.Documents(docs)
			out := cmd.OutOrStdout()

			if res.Report.Empty() {
				fmt.Fprintln(out, "No unsupported field types found.")
				return nil
			}

			fmt.Fprint(out, prompt.FormatReport(res.Report))

			printDiagnostics(out, res.Diagnostics)

			return nil
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever schemas, templates, or the config change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd.Flags(), true)
			if err != nil {
				return err
			}

			if err := a.runGenerate(cmd, cfg, yes, false); err != nil {
				a.log.Error("Generation failed", "error", err)
			}

			dirs, err := watch.Dirs(a.fs, cfg)
			if err != nil {
				return err
			}

			return watch.Watch(cmd.Context(), watch.Options{Dirs: dirs, Log: a.log}, func(context.Context) error {
				cfg, err := a.loadConfig(cmd.Flags(), true)
				if err != nil {
					return err
				}

				return a.runGenerate(cmd, cfg, yes, false)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept unsupported field types without asking")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "sanity-yaml", Version)
		},
	}
}
