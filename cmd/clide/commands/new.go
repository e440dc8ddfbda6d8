package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/willibrandon/goclide/cmd/clide/cli"
	"github.com/willibrandon/goclide/project"
)

// NewNewCommand creates the new command.
func NewNewCommand(app *cli.App) *cobra.Command {
	var (
		bare       bool
		framework  string
		outputType string
	)

	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Create a new project",
		Long: `Usage: clide new NAME [--bare]

Creates NAME.csproj in the working directory with Debug and Release
configurations and the C# build targets.`,
		Args: cobra.MaximumNArgs(1),
		RunE: traced("new", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return showCommandHelp(app, cmd)
			}
			return runNew(ctx, app, args[0], bare, framework, outputType)
		}),
	}

	cmd.Flags().BoolVar(&bare, "bare", false, "Create an empty project without default properties")
	cmd.Flags().StringVar(&framework, "framework", "4.0", "Target framework version, e.g. 3.5 or v4.0")
	cmd.Flags().StringVar(&outputType, "output-type", "Library", "Project output type (Library, Exe, WinExe)")

	return cmd
}

func runNew(ctx context.Context, app *cli.App, name string, bare bool, framework, outputType string) error {
	name = strings.TrimSuffix(name, ".csproj")
	path := filepath.Join(app.Options.WorkingDirectory, name+".csproj")

	p, err := project.Load(path)
	if err != nil {
		return err
	}
	if p.Exists() {
		return fmt.Errorf("project already exists: %s", name)
	}

	if !bare {
		p.SetDefaultProjectAttributes()
		global := p.Configurations().AddGlobal()
		global.AddDefaultGlobalProperties(p.ID(), framework, outputType, name, name)
		p.Configurations().Add("Debug").AddDefaultDebugProperties()
		p.Configurations().Add("Release").AddDefaultReleaseProperties()
		p.AddDefaultCSharpImport()
	}

	if err := saveProject(ctx, app, p); err != nil {
		return err
	}
	app.Console.Success("Created new projet: %s", name)
	return nil
}
