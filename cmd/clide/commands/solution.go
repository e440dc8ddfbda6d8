package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/willibrandon/goclide/cmd/clide/cli"
	"github.com/willibrandon/goclide/project"
	"github.com/willibrandon/goclide/solution"
)

// NewSolutionCommand creates the solution command and its add and rm
// subcommands.
func NewSolutionCommand(app *cli.App) *cobra.Command {
	var (
		blank bool
		name  string
	)

	cmd := &cobra.Command{
		Use:     "solution",
		Aliases: []string{"sln"},
		Short:   "Create a solution for the current project",
		Long: `Usage: clide solution [--blank] [--name NAME]

Creates NAME.sln in the working directory, named after the directory by
default. Unless --blank is given the current project is added to it.`,
		Args: cobra.NoArgs,
		RunE: traced("solution", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return runSolution(ctx, app, name, blank)
		}),
	}

	cmd.Flags().BoolVar(&blank, "blank", false, "Create the solution without projects or configuration sections")
	cmd.PersistentFlags().StringVarP(&name, "name", "n", "", "Solution name (default: working directory name)")

	cmd.AddCommand(newSolutionAddCommand(app, &name), newSolutionRemoveCommand(app, &name))
	return cmd
}

// solutionPath returns the name and path of the solution a command works
// on. Without --name it is the solution already in the working directory,
// else one named after the directory.
func solutionPath(app *cli.App, name string) (string, string, error) {
	wd := app.Options.WorkingDirectory
	if name == "" {
		found, err := solution.FindSolutionFile(wd)
		if err != nil {
			return "", "", err
		}
		if found != "" {
			return strings.TrimSuffix(filepath.Base(found), filepath.Ext(found)), found, nil
		}
		name = filepath.Base(wd)
	}
	name = strings.TrimSuffix(name, solution.Extension)
	return name, filepath.Join(wd, name+solution.Extension), nil
}

// findEntry returns the solution entry for the project file at path,
// matching on the resolved file or the project name.
func findEntry(s *solution.Solution, path, name string) (solution.Project, bool) {
	dir := filepath.Dir(s.Path)
	for _, entry := range s.Projects {
		if samePath(solution.ResolveProjectPath(dir, entry.Path), path) {
			return entry, true
		}
	}
	return s.FindProject(name)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func runSolution(ctx context.Context, app *cli.App, name string, blank bool) error {
	name, path, err := solutionPath(app, name)
	if err != nil {
		return err
	}

	s, err := loadSolution(ctx, path)
	if err != nil {
		return err
	}
	if s.Exists() {
		app.Console.Warning("Solution already exists: %s", name)
		return nil
	}

	s.AutoGenerateProjectConfigurationPlatforms = !blank
	if !blank && app.Options.HasProject() {
		p, err := openProject(ctx, app)
		if err != nil {
			return err
		}
		if _, err := s.Add(p); err != nil {
			return err
		}
		app.Console.Detail("Added project %s", p.Name())
	}

	if err := saveSolution(ctx, app, s); err != nil {
		return err
	}
	app.Console.Success("Created new solution: %s", name)
	return nil
}

func newSolutionAddCommand(app *cli.App, name *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add PROJECT...",
		Short: "Add project files to the solution",
		Long:  `Usage: clide solution add ../src/Foo.csproj [Bar.csproj...]`,
		Args:  cobra.MinimumNArgs(1),
		RunE: traced("solution.add", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			solutionName, path, err := solutionPath(app, *name)
			if err != nil {
				return err
			}
			s, err := loadSolution(ctx, path)
			if err != nil {
				return err
			}
			for _, arg := range args {
				p, err := project.Load(app.Options.Resolve(arg))
				if err != nil {
					return err
				}
				if !p.Exists() {
					app.Console.Warning("Project not found: %s", arg)
					continue
				}
				if _, found := findEntry(s, p.Path, p.Name()); found {
					app.Console.Info("%s already added to %s", p.Name(), solutionName)
					continue
				}
				if _, err := s.Add(p); err != nil {
					return err
				}
				app.Console.Success("Added %s to %s", p.Name(), solutionName)
			}
			return saveSolution(ctx, app, s)
		}),
	}
}

func newSolutionRemoveCommand(app *cli.App, name *string) *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME...",
		Aliases: []string{"remove"},
		Short:   "Remove projects from the solution by name",
		Long:    `Usage: clide solution rm Foo [Bar...]`,
		Args:    cobra.MinimumNArgs(1),
		RunE: traced("solution.rm", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			solutionName, path, err := solutionPath(app, *name)
			if err != nil {
				return err
			}
			s, err := loadSolution(ctx, path)
			if err != nil {
				return err
			}
			if !s.Exists() {
				return fmt.Errorf("solution not found: %s", solutionName)
			}
			for _, arg := range args {
				if solution.IsProjectFile(arg) {
					arg = strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
				}
				if s.RemoveProject(arg) {
					app.Console.Success("Removed %s from %s", arg, solutionName)
				} else {
					app.Console.Warning("%s is not in %s", arg, solutionName)
				}
			}
			return saveSolution(ctx, app, s)
		}),
	}
}
