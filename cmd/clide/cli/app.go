// Package cli holds the root command and the state shared by subcommands.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/willibrandon/goclide/cmd/clide/config"
	"github.com/willibrandon/goclide/cmd/clide/output"
	"github.com/willibrandon/goclide/observability"
)

// Banner is printed by `clide help` without arguments.
const Banner = `CLIDE is a CLI IDE for .NET

  Usage:
    clide -h/--help
    clide --version
    clide command [arguments...] [options...]

  Examples:
    clide new ProjectName
    clide prop RootNamespace=Foo
    clide ref add ../lib/Foo.dll
    clide gen

  Further help:
    clide commands         list all 'clide' commands
    clide help <COMMAND>   show help on COMMAND
`

// App is one invocation of clide. Options and Logger are populated before
// any subcommand runs.
type App struct {
	Console *output.Console
	Options *config.Options
	Logger  observability.Logger
	Root    *cobra.Command

	viper  *viper.Viper
	tracer *sdktrace.TracerProvider
}

// NewApp builds the root command writing to console.
func NewApp(console *output.Console) *App {
	app := &App{
		Console: console,
		Logger:  observability.NewNullLogger(),
		viper:   config.NewViper(),
	}

	root := &cobra.Command{
		Use:   "clide",
		Short: "CLI IDE for .NET projects, solutions and templates",
		Long: `clide edits MSBuild projects and Visual Studio solutions from the command
line and generates files from token-substituted templates.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  app.setup,
		PersistentPostRunE: app.teardown,
		RunE: func(cmd *cobra.Command, args []string) error {
			console.Print(Banner)
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(console.Out())
	root.SetErr(console.Err())

	flags := root.PersistentFlags()
	flags.StringP(config.KeyWorkingDirectory, "W", "", "Directory clide works in (default: current directory)")
	flags.StringP(config.KeyProject, "P", "", "Project file to use (default: first project in the working directory)")
	flags.StringP(config.KeyTemplates, "T", config.Defaults().Templates, "Template search path, entries separated by ';'")
	flags.String(config.KeyVerbosity, config.Defaults().Verbosity, "Display verbosity (quiet, normal, detailed, diagnostic)")
	flags.BoolP(config.KeyDebug, "D", false, "Print debug output")
	flags.String(config.KeyTrace, config.Defaults().Trace, "Trace exporter (none, stdout, otlp)")
	flags.String(config.KeyOTLPEndpoint, "", "OTLP gRPC endpoint for --trace otlp")
	_ = app.viper.BindPFlags(flags)

	root.Version = GetVersion()
	root.SetVersionTemplate(GetFullVersion() + "\n")

	app.Root = root
	return app
}

// AddCommand adds subcommands to the root command.
func (a *App) AddCommand(cmds ...*cobra.Command) {
	a.Root.AddCommand(cmds...)
}

// Execute runs the command line args.
func (a *App) Execute(ctx context.Context, args []string) error {
	a.Root.SetArgs(args)
	err := a.Root.ExecuteContext(ctx)
	if shutdownErr := a.shutdown(ctx); err == nil {
		err = shutdownErr
	}
	return err
}

func (a *App) setup(cmd *cobra.Command, args []string) error {
	opts, err := config.Load(a.viper)
	if err != nil {
		return err
	}
	a.Options = opts

	verbosity, err := output.ParseVerbosity(opts.Verbosity)
	if err != nil {
		return err
	}
	if opts.Debug {
		verbosity = output.VerbosityDiagnostic
	}
	a.Console.SetVerbosity(verbosity)

	level, err := opts.LogLevel()
	if err != nil {
		return err
	}
	a.Logger = observability.NewLogger(a.Console.Err(), level).
		ForContext("Command", cmd.Name())

	cfg := opts.TracerConfig(GetVersion())
	if cfg.ExporterType == observability.ExporterStdout {
		cfg.StdoutWriter = a.Console.Err()
	}
	tp, err := observability.SetupTracing(Context(cmd), cfg)
	if err != nil {
		return err
	}
	a.tracer = tp

	a.Logger.Debug("Working directory {WorkingDirectory}, project {Project}", opts.WorkingDirectory, opts.Project)
	return nil
}

func (a *App) teardown(cmd *cobra.Command, args []string) error {
	return a.shutdown(Context(cmd))
}

func (a *App) shutdown(ctx context.Context) error {
	tp := a.tracer
	a.tracer = nil
	return observability.ShutdownTracing(ctx, tp)
}

// Context returns the command's context, falling back to Background.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
