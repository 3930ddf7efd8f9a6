package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/apibody/log"
)

// Check validates schemas, including every nested declaration, without
// building them.
type Check struct {
	Schemas []string `arg:"" default:"-" help:"Schema files, or '-' for stdin." name:"schema" type:"existingfile"`
	Quiet   bool     `help:"Report failures only." short:"q"`

	out io.Writer
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	w := c.out
	if w == nil {
		w = os.Stdout
	}

	r := lipgloss.NewRenderer(w)
	pass := r.NewStyle().Foreground(lipgloss.Color("2"))
	fail := r.NewStyle().Foreground(lipgloss.Color("1"))
	note := r.NewStyle().Faint(true)

	failed := 0

	for _, name := range uniqueSources(c.Schemas) {
		s, err := loadSchema(ctx, name)
		if err != nil {
			failed++

			log.DebugContext(ctx, "schema check failed", slog.Any("error", err))
			fmt.Fprintf(w, "%s %s: %v\n", fail.Render("✘"), sourceName(name), err)

			continue
		}

		if !c.Quiet {
			fmt.Fprintf(w, "%s %s %s\n", pass.Render("✔"), sourceName(name),
				note.Render(fmt.Sprintf("(%d params, %d inputs)",
					len(s.Params()), len(s.Inputs()))))
		}
	}

	if failed > 0 {
		return ErrCheck.With(slog.Int("failed", failed))
	}

	return nil
}
