package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/ardnew/apibody/schema"
)

// Describe prints the declaration tree of a schema.
type Describe struct {
	Schema string `arg:"" default:"-" help:"Schema file, or '-' for stdin." type:"existingfile"`

	out io.Writer
}

// Run executes the describe command.
func (d *Describe) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := loadSchema(ctx, d.Schema)
	if err != nil {
		return err
	}

	w := d.out
	if w == nil {
		w = os.Stdout
	}

	st := makeTreeStyles(lipgloss.NewRenderer(w))

	root := tree.Root(st.root.Render(sourceName(d.Schema))).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(st.branch)

	if err := st.addParams(root, s.Params()); err != nil {
		return withSource(err, d.Schema)
	}

	if _, err := fmt.Fprintln(w, root.String()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

type treeStyles struct {
	root, branch, key, mode, typ, value lipgloss.Style
}

func makeTreeStyles(r *lipgloss.Renderer) treeStyles {
	return treeStyles{
		root:   r.NewStyle().Bold(true),
		branch: r.NewStyle().Faint(true),
		key:    r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		mode:   r.NewStyle().Foreground(lipgloss.Color("5")),
		typ:    r.NewStyle().Foreground(lipgloss.Color("3")),
		value:  r.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

// addParams adds a node for each of params to t, recursing into Map and List
// literals.
func (st treeStyles) addParams(t *tree.Tree, params []schema.Param) error {
	for _, p := range params {
		label := st.label(p)

		if !p.HasBody() {
			t.Child(label)

			continue
		}

		children, err := p.Children()
		if err != nil {
			return err
		}

		sub := tree.Root(label)
		if err := st.addParams(sub, children); err != nil {
			return err
		}

		t.Child(sub)
	}

	return nil
}

// label renders p as `"key" mode Type = literal`.
func (st treeStyles) label(p schema.Param) string {
	s := st.key.Render(strconv.Quote(p.Key)) + " " +
		st.mode.Render(p.Mode.String()) + " " +
		st.typ.Render(p.Type.String())

	switch {
	case p.Type.IsList() && p.HasBody():
		s += " = " + st.value.Render("["+p.Raw+"]")
	case p.Mode != schema.ModeDynamic && !p.HasBody():
		s += " = " + st.value.Render(p.Value.String())
	}

	return s
}
