// Package cli wires the sanity-yaml commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"sanity-yaml/internal/config"
	"sanity-yaml/internal/diagnostic"
	"sanity-yaml/internal/logger"
)

// Version is set at build time.
var Version = "dev"

var (
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath        string
	logLevel          string
	logJSON           bool
	textRows          int
	removeDefineField bool
}

// app carries the dependencies of one CLI invocation.
type app struct {
	fs      afero.Fs
	environ func() []string
	flags   globalFlags
	log     logger.Logger
}

// NewRootCmd builds the command tree over fsys.
func NewRootCmd(fsys afero.Fs) *cobra.Command {
	a := &app{fs: fsys, environ: os.Environ, log: logger.NewNop()}

	gen := a.generateCmd()

	root := &cobra.Command{
		Use:   "sanity-yaml",
		Short: "Generate Sanity schemas and TypeScript types from YAML",
		Long: "sanity-yaml reads YAML schema declarations and renders Sanity schema " +
			"definitions and TypeScript interfaces for every configured fileset.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.log = logger.SetupLogger(a.flags.logLevel, a.flags.logJSON, false)
			cmd.SetContext(logger.ContextWithLogger(cmd.Context(), a.log))

			return nil
		},
		RunE: gen.RunE,
	}

	root.Flags().AddFlagSet(gen.Flags())

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.configPath, "config", "c", "", "path to the config file")
	pf.StringVar(&a.flags.logLevel, "log-level", string(logger.InfoLevel), "log level (debug, info, warn, error, disabled)")
	pf.BoolVar(&a.flags.logJSON, "log-json", false, "log as JSON")
	pf.IntVar(&a.flags.textRows, "text-rows", 0, "default rows for text fields")
	pf.BoolVar(&a.flags.removeDefineField, "remove-define-field", false, "emit plain objects instead of defineField calls")

	root.AddCommand(
		gen,
		a.inspectCmd(),
		a.scanCmd(),
		a.watchCmd(),
		versionCmd(),
	)

	return root
}

// loadConfig loads the configuration, applying flag overrides that were
// set explicitly.
func (a *app) loadConfig(flags *pflag.FlagSet, required bool) (*config.Config, error) {
	overrides := map[string]any{}

	if flags.Changed("text-rows") {
		overrides["field_defaults.text.rows"] = a.flags.textRows
	}

	if flags.Changed("remove-define-field") {
		overrides["remove_define_field"] = a.flags.removeDefineField
	}

	cfg, err := config.Load(a.fs, config.LoadOptions{
		Path:      a.flags.configPath,
		Dir:       ".",
		Required:  required,
		Overrides: overrides,
		Environ:   a.environ,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a.log.Debug("Loaded config", "path", cfg.Path, "filesets", len(cfg.Filesets))

	return cfg, nil
}

// Execute runs the CLI against the OS filesystem and returns the process
// exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd(afero.NewOsFs())

	if err := root.ExecuteContext(ctx); err != nil {
		printError(root.ErrOrStderr(), err)
		return 1
	}

	return 0
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error:"), err)
}

// printDiagnostics writes errors and warnings, one per line. Infos are
// left to the log.
func printDiagnostics(w io.Writer, diags diagnostic.Diagnostics) {
	for _, d := range diags.Errors {
		fmt.Fprintln(w, errorStyle.Render("error:"), d)
	}

	for _, d := range diags.Warnings {
		fmt.Fprintln(w, warnStyle.Render("warning:"), d)
	}
}
