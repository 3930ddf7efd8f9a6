package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/apibody/log"
	"github.com/ardnew/apibody/schema"
)

var (
	keyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	typeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// promptModel asks for one input at a time.
type promptModel struct {
	inputs   []schema.Input
	index    int
	field    textinput.Model
	answers  map[string]string
	aborted  bool
	quitting bool
}

func newPromptModel(inputs []schema.Input) promptModel {
	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Focus()

	m := promptModel{
		inputs:  inputs,
		field:   ti,
		answers: make(map[string]string, len(inputs)),
	}

	return m.prepare()
}

// prepare configures the field for the current input.
func (m promptModel) prepare() promptModel {
	if m.index >= len(m.inputs) {
		return m
	}

	in := m.inputs[m.index]

	m.field.Reset()
	m.field.Prompt = keyStyle.Render(in.Key) + " " +
		typeStyle.Render(in.Type.String()) + hintStyle.Render(" › ")
	m.field.Placeholder = placeholder(in.Type)

	return m
}

func placeholder(t schema.Type) string {
	switch {
	case t == schema.TypeString:
		return "text"
	case t == schema.TypeNumber:
		return "42"
	case t == schema.TypeBoolean:
		return "true"
	case t == schema.TypeMap:
		return `{"key": "value"}`
	case t.IsList():
		return `[1, "two"]`
	default:
		return ""
	}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			m.quitting = true

			return m, tea.Quit

		case tea.KeyEnter:
			in := m.inputs[m.index]
			m.answers[in.Key] = m.field.Value()
			m.index++

			if m.index >= len(m.inputs) {
				m.quitting = true

				return m, tea.Quit
			}

			return m.prepare(), tea.Println(
				doneStyle.Render("✔ ") + keyStyle.Render(in.Key) + " = " + m.answers[in.Key],
			)
		}
	}

	var cmd tea.Cmd

	m.field, cmd = m.field.Update(msg)

	return m, cmd
}

func (m promptModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.field.View())
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(fmt.Sprintf(
		"%d/%d · enter to accept · esc to cancel", m.index+1, len(m.inputs),
	)))
	b.WriteString("\n")

	return b.String()
}

// runPrompt reads an answer for each of inputs from in, drawing the prompt
// on out. It returns the raw text of each answer keyed by input key.
func runPrompt(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
	inputs []schema.Input,
) (map[string]string, error) {
	log.DebugContext(ctx, "prompting for inputs",
		slog.Int("count", len(inputs)))

	p := tea.NewProgram(newPromptModel(inputs),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := p.Run()
	if err != nil {
		return nil, ErrPrompt.Wrap(err)
	}

	m, ok := final.(promptModel)
	if !ok || m.aborted {
		return nil, ErrPrompt.With(slog.String("reason", "cancelled"))
	}

	return m.answers, nil
}
