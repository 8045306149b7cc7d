// Package prompt asks the user to accept unsupported kinds before generation.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"sanity-yaml/internal/scan"
)

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, title, description string) (bool, error)
}

// Static answers every question with the same value.
type Static bool

// Confirm returns the fixed answer.
func (s Static) Confirm(context.Context, string, string) (bool, error) {
	return bool(s), nil
}

// Form asks through an interactive huh form.
type Form struct{}

// Confirm shows a confirm field and waits for the answer. An aborted form
// counts as a decline.
func (Form) Confirm(ctx context.Context, title, description string) (bool, error) {
	var accepted bool

	confirm := huh.NewConfirm().
		Title(title).
		Description(description).
		WithButtonAlignment(lipgloss.Left).
		Affirmative("Yes, generate anyway").
		Negative("No").
		Value(&accepted)

	if err := huh.NewForm(huh.NewGroup(confirm)).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}

		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}

	return accepted, nil
}

// Interactive reports whether both stdin and stdout are terminals.
func Interactive() bool {
	in := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	out := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	return in && out
}

// Auto picks the confirmer for the current session: yes accepts without
// asking, a non-interactive session declines, otherwise a form is shown.
func Auto(yes bool) Confirmer {
	switch {
	case yes:
		return Static(true)
	case !Interactive():
		return Static(false)
	default:
		return Form{}
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	schemaStyle = lipgloss.NewStyle().Bold(true)
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// FormatReport renders the unsupported kinds of each schema.
func FormatReport(r scan.Report) string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("Unsupported field types found:"))
	sb.WriteString("\n")

	for _, schema := range r.Schemas() {
		kinds := r.Kinds(schema)
		for i, k := range kinds {
			kinds[i] = kindStyle.Render(k)
		}

		fmt.Fprintf(&sb, "  %s: %s\n", schemaStyle.Render(schema), strings.Join(kinds, ", "))
	}

	return sb.String()
}

// Gate prints the report to out and asks whether to continue. An empty
// report passes without asking.
func Gate(ctx context.Context, c Confirmer, r scan.Report, out io.Writer) (bool, error) {
	if r.Empty() {
		return true, nil
	}

	if _, err := io.WriteString(out, FormatReport(r)); err != nil {
		return false, fmt.Errorf("failed to print report: %w", err)
	}

	return c.Confirm(ctx,
		"Continue with unsupported types?",
		"They will be emitted with their declared name as the type.")
}
