package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/apibody/schema"
)

// OutputFlags holds the flags shared by commands that write a document.
type OutputFlags struct {
	Format string `default:"json" enum:"json,yaml" help:"Output format." short:"f"`
	Indent int    `default:"2"                     help:"Indentation width (0 for compact output)."`
	Output string `default:"-"                     help:"Write to file instead of stdout."          short:"o"`
}

// write encodes v to the configured destination.
func (o OutputFlags) write(ctx context.Context, v any) (err error) {
	w, closeFn, err := o.open()
	if err != nil {
		return err
	}

	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = ErrWriteOutput.Wrap(cerr).
				With(slog.String("output", o.Output))
		}
	}()

	switch o.Format {
	case "yaml":
		err = schema.FormatYAML(ctx, w, v, o.Indent)
	default:
		err = schema.FormatJSON(ctx, w, v, o.Indent)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).
			With(slog.String("format", o.Format))
	}

	return nil
}

func (o OutputFlags) open() (io.Writer, func() error, error) {
	if o.Output == "" || o.Output == stdinSource {
		return os.Stdout, func() error { return nil }, nil
	}

	f, err := os.Create(o.Output)
	if err != nil {
		return nil, nil, ErrWriteOutput.Wrap(err).
			With(slog.String("output", o.Output))
	}

	return f, f.Close, nil
}
