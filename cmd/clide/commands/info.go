package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/willibrandon/goclide/cmd/clide/cli"
	"github.com/willibrandon/goclide/cmd/clide/output"
	"github.com/willibrandon/goclide/solution"
)

// infoOutput is the structured form of `clide info`.
type infoOutput struct {
	Version       string        `json:"version" yaml:"version"`
	Options       any           `json:"options" yaml:"options"`
	TemplateRoots []string      `json:"templateRoots" yaml:"templateRoots"`
	Solution      *solutionInfo `json:"solution,omitempty" yaml:"solution,omitempty"`
}

type solutionInfo struct {
	Path     string         `json:"path" yaml:"path"`
	Projects []solutionItem `json:"projects" yaml:"projects"`
}

// solutionItem is a solution entry with its path on this machine.
type solutionItem struct {
	Name   string `json:"name" yaml:"name"`
	Path   string `json:"path" yaml:"path"`
	Exists bool   `json:"exists" yaml:"exists"`
}

// describeSolution reads the working directory's solution, if there is
// exactly one.
func describeSolution(ctx context.Context, app *cli.App) (*solutionInfo, error) {
	path, err := solution.FindSolutionFile(app.Options.WorkingDirectory)
	if err != nil || path == "" {
		return nil, err
	}
	s, err := loadSolution(ctx, path)
	if err != nil {
		return nil, err
	}

	info := &solutionInfo{Path: path, Projects: []solutionItem{}}
	dir := filepath.Dir(path)
	for _, entry := range s.Projects {
		if entry.TypeID == solution.ProjectTypeSolutionFolder {
			continue
		}
		host := solution.ResolveProjectPath(dir, entry.Path)
		_, statErr := os.Stat(host)
		info.Projects = append(info.Projects, solutionItem{Name: entry.Name, Path: host, Exists: statErr == nil})
	}
	return info, nil
}

// NewInfoCommand creates the info command.
func NewInfoCommand(app *cli.App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Prints out info about environment/configuration",
		Long: `Usage: clide info [--format console|json|yaml]

Prints the resolved global options. Options come from flags, then CLIDE_*
environment variables, then defaults.`,
		Args: cobra.NoArgs,
		RunE: traced("info", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			opts := app.Options
			sln, err := describeSolution(ctx, app)
			if err != nil {
				app.Logger.Warn("Skipping solution: {Error}", err)
			}

			structured := infoOutput{
				Version:       cli.GetVersion(),
				Options:       opts,
				TemplateRoots: opts.TemplateRoots(),
				Solution:      sln,
			}
			switch f {
			case output.FormatJSON:
				return output.WriteJSON(app.Console.Out(), structured)
			case output.FormatYAML:
				return output.WriteYAML(app.Console.Out(), structured)
			}

			for _, entry := range opts.Entries() {
				app.Console.Println(fmt.Sprintf("%s: %s", entry[0], entry[1]))
			}
			for _, root := range opts.TemplateRoots() {
				app.Console.Detail("TemplateRoot: %s", root)
			}
			if sln != nil {
				app.Console.Println("Solution: " + sln.Path)
				for _, item := range sln.Projects {
					if item.Exists {
						app.Console.Detail("  %s (%s)", item.Name, item.Path)
					} else {
						app.Console.Detail("  %s (%s, missing)", item.Name, item.Path)
					}
				}
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(output.FormatConsole), "Output format (console, json, yaml)")
	return cmd
}
