package cmd

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/ardnew/apibody/input"
	"github.com/ardnew/apibody/log"
	"github.com/ardnew/apibody/schema"
)

// Compile builds a request body from a schema and runtime inputs.
type Compile struct {
	Schema string `arg:"" default:"-" help:"Schema file, or '-' for stdin." type:"existingfile"`

	Inputs      []string `help:"YAML or JSON file of inputs (repeatable, later files win)." placeholder:"FILE"     short:"i" type:"existingfile"`
	Set         []string `help:"Set an input to the value of an expression."                placeholder:"KEY=EXPR" short:"s"`
	SetString   []string `help:"Set an input to literal text."                              placeholder:"KEY=TEXT" short:"S"`
	Interactive bool     `help:"Prompt for required inputs that were not supplied."                                short:"I"`

	Envelope string `default:"none" enum:"none,jsonrpc" help:"Wrap the body in a request envelope."`
	Method   string `default:"call"                     help:"Method of the JSON-RPC envelope."`
	ID       int64  `                                   help:"ID of the JSON-RPC envelope (random if 0)." name:"id"`

	OutputFlags `embed:""`
}

// Run executes the compile command.
func (c *Compile) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := loadSchema(ctx, c.Schema)
	if err != nil {
		return err
	}

	values, err := c.values(ctx)
	if err != nil {
		return err
	}

	if c.Interactive {
		if err := c.prompt(ctx, s, &values); err != nil {
			return err
		}
	}

	body, err := s.Build(ctx, values)
	if err != nil {
		return withSource(err, c.Schema)
	}

	log.DebugContext(ctx, "body compiled",
		slog.Int("keys", body.Len()),
		slog.String("envelope", c.Envelope))

	var doc any = body
	if c.Envelope == "jsonrpc" {
		doc = newRequest(c.Method, body, c.ID)
	}

	return c.write(ctx, doc)
}

// values collects inputs from files, then expression assignments, then text
// assignments. Later sources replace keys set by earlier ones.
func (c *Compile) values(ctx context.Context) (input.Values, error) {
	var values input.Values

	opts := inputOptions()

	for _, name := range c.Inputs {
		if name == stdinSource && c.Schema == stdinSource {
			return nil, ErrReadInputs.With(
				slog.String("reason", "schema and inputs both read from stdin"),
			)
		}

		file, err := input.ReadFile(ctx, name, opts...)
		if err != nil {
			return nil, ErrReadInputs.Wrap(err)
		}

		values.Merge(file)
	}

	for _, a := range c.Set {
		if err := values.Set(ctx, a, opts...); err != nil {
			return nil, ErrReadInputs.Wrap(err)
		}
	}

	for _, a := range c.SetString {
		if err := values.SetString(a); err != nil {
			return nil, ErrReadInputs.Wrap(err)
		}
	}

	return values, nil
}

// prompt asks for every required input missing from values.
func (c *Compile) prompt(ctx context.Context, s *schema.Schema, values *input.Values) error {
	var missing []schema.Input

	for _, in := range s.Inputs() {
		if _, ok := (*values)[in.Key]; in.Required && !ok {
			missing = append(missing, in)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	if c.Schema == stdinSource {
		return ErrPrompt.With(
			slog.String("reason", "schema read from stdin"),
		)
	}

	answers, err := runPrompt(ctx, os.Stdin, os.Stderr, missing)
	if err != nil {
		return err
	}

	return applyAnswers(ctx, values, missing, answers)
}

// applyAnswers stores prompted text. String inputs are stored verbatim and
// all other types are evaluated as expressions.
func applyAnswers(
	ctx context.Context,
	values *input.Values,
	missing []schema.Input,
	answers map[string]string,
) error {
	for _, in := range missing {
		text, ok := answers[in.Key]
		if !ok {
			continue
		}

		var err error
		if in.Type == schema.TypeString {
			err = values.SetString(in.Key + "=" + text)
		} else {
			err = values.Set(ctx, in.Key+"="+text, inputOptions()...)
		}

		if err != nil {
			return ErrPrompt.Wrap(err).With(slog.String("key", in.Key))
		}
	}

	return nil
}

// request is a JSON-RPC 2.0 request envelope.
type request struct {
	JSONRPC string      `json:"jsonrpc" yaml:"jsonrpc"`
	Method  string      `json:"method"  yaml:"method"`
	Params  *schema.Map `json:"params"  yaml:"params"`
	ID      int64       `json:"id"      yaml:"id"`
}

// newRequest wraps params in a request for method. A zero id is replaced with
// a random one.
func newRequest(method string, params *schema.Map, id int64) request {
	if id == 0 {
		id = rand.Int64N(1_000_000_000) + 1
	}

	return request{
		JSONRPC: "2.0",
		Method:  strings.ToLower(method),
		Params:  params,
		ID:      id,
	}
}
