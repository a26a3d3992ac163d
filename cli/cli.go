package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/wgslpp/cli/cmd"
	"github.com/ardnew/wgslpp/pkg"
)

// CLI is the top-level command-line interface for wgslpp.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Manifest string   `help:"Manifest file declaring search roots and variables" name:"manifest" optional:""            short:"m" type:"existingfile"`
	Search   []string `help:"Shader search root(s), highest priority first"      name:"search"   short:"I"              type:"existingdir"`
	Set      []string `help:"Define a variable as NAME=VALUE"                    name:"set"      placeholder:"NAME=VALUE" short:"D"`

	Version kong.VersionFlag `help:"Print version and exit" name:"version" short:"V"`

	List  cmd.List  `cmd:"" help:"List workspace shaders and their directives"`
	Check cmd.Check `cmd:"" help:"Parse and render every shader, reporting all failures"`
	Fmt   cmd.Fmt   `cmd:"" help:"Format shader template source"`
	Init  cmd.Init  `cmd:"" help:"Write a starter manifest or configuration file"`
	Repl  cmd.Repl  `cmd:"" help:"Evaluate expressions interactively"`

	Render cmd.Render `cmd:"" default:"withargs" help:"Render a shader with directives resolved"`
}

// Run executes the wgslpp CLI with the given context and arguments.
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

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":            strings.TrimSpace(pkg.Version),
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	// Parse command line
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
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath+".yaml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx, cmd.Options{
		Manifest: cli.Manifest,
		Search:   cli.Search,
		Define:   cli.Set,
	})

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Callsite which don't use TextUnmarshaler.
	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
