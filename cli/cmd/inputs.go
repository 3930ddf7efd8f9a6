package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/apibody/schema"
)

// Inputs lists the runtime inputs a schema reads.
type Inputs struct {
	Schema string `arg:"" default:"-" help:"Schema file, or '-' for stdin." type:"existingfile"`
	Format string `default:"table" enum:"table,json,yaml" help:"Output format." short:"f"`
	Indent int    `default:"2" help:"Indentation width of json and yaml output (0 for compact output)."`

	out io.Writer
}

// inputEntry is the json and yaml form of a [schema.Input].
type inputEntry struct {
	Key      string        `json:"key"               yaml:"key"`
	Type     string        `json:"type"              yaml:"type"`
	Required bool          `json:"required"          yaml:"required"`
	Default  *schema.Value `json:"default,omitempty" yaml:"default,omitempty"`
}

// Run executes the inputs command.
func (c *Inputs) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := loadSchema(ctx, c.Schema)
	if err != nil {
		return err
	}

	w := c.out
	if w == nil {
		w = os.Stdout
	}

	inputs := s.Inputs()

	switch c.Format {
	case "json", "yaml":
		entries := make([]inputEntry, len(inputs))
		for i, in := range inputs {
			entries[i] = inputEntry{
				Key:      in.Key,
				Type:     in.Type.String(),
				Required: in.Required,
			}

			if !in.Required {
				entries[i].Default = &in.Default
			}
		}

		if c.Format == "yaml" {
			err = schema.FormatYAML(ctx, w, entries, c.Indent)
		} else {
			err = schema.FormatJSON(ctx, w, entries, c.Indent)
		}

	default:
		_, err = fmt.Fprintln(w, inputTable(lipgloss.NewRenderer(w), inputs))
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func inputTable(r *lipgloss.Renderer, inputs []schema.Input) string {
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	required := cell.Foreground(lipgloss.Color("1"))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Faint(true)).
		Headers("KEY", "TYPE", "REQUIRED", "DEFAULT").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 2 && inputs[row].Required:
				return required
			default:
				return cell
			}
		})

	for _, in := range inputs {
		def := ""
		if !in.Required {
			def = in.Default.String()
		}

		t.Row(in.Key, in.Type.String(), strconv.FormatBool(in.Required), def)
	}

	return t.String()
}
