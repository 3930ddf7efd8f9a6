package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/apibody/cli/cmd"
	"github.com/ardnew/apibody/log"
	"github.com/ardnew/apibody/pkg"
	"github.com/ardnew/apibody/schema"
)

// CLI is the top-level command-line interface for apibody.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	MaxDepth int              `default:"${maxDepth}" help:"Maximum nesting depth of Map and List literals (0 for no limit)."`
	Version  kong.VersionFlag `                      help:"Print version and exit."                                          short:"V"`

	Compile  cmd.Compile  `cmd:"" default:"withargs" help:"Compile a schema into a request body"`
	Check    cmd.Check    `cmd:""                   help:"Validate schemas without building them"`
	Describe cmd.Describe `cmd:""                   help:"Show the declaration tree of a schema"`
	Inputs   cmd.Inputs   `cmd:""                   help:"List the runtime inputs a schema reads"`
	Init     cmd.Init     `cmd:""                   help:"Initialize configuration file"`
}

// Run executes the apibody CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"maxDepth":           strconv.Itoa(schema.DefaultMaxDepth),
		"version":            pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithCache(ctx, new(schema.Cache))
	ctx = cmd.WithSchemaOptions(ctx,
		schema.WithMaxDepth(cli.MaxDepth),
		schema.WithLogger(log.Default()),
	)

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
