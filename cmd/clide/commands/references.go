package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/willibrandon/goclide/cmd/clide/cli"
	"github.com/willibrandon/goclide/project"
	"github.com/willibrandon/goclide/solution"
)

// NewReferencesCommand creates the references command.
func NewReferencesCommand(app *cli.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "references",
		Aliases: []string{"ref", "refs"},
		Short:   "Manage a project's references",
		Long: `Usage: clide references [add|rm] [System.Xml ../lib/Foo.dll ../src/Foo.csproj]

Without arguments, lists the project's references. Names that are not files
are added as GAC references, project files as project references, and other
files as assembly references with a HintPath.`,
		Args: cobra.NoArgs,
		RunE: traced("references", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			p, err := openProject(ctx, app)
			if err != nil {
				return err
			}
			return printReferences(app, p)
		}),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add REFERENCE...",
			Short: "Add GAC, assembly or project references",
			Args:  cobra.MinimumNArgs(1),
			RunE: traced("references.add", func(ctx context.Context, cmd *cobra.Command, args []string) error {
				p, err := openProject(ctx, app)
				if err != nil {
					return err
				}
				for _, ref := range args {
					if err := addReference(app, p, ref); err != nil {
						return err
					}
				}
				return saveProject(ctx, app, p)
			}),
		},
		&cobra.Command{
			Use:     "rm REFERENCE...",
			Aliases: []string{"remove"},
			Short:   "Remove references by name or project file",
			Args:    cobra.MinimumNArgs(1),
			RunE: traced("references.rm", func(ctx context.Context, cmd *cobra.Command, args []string) error {
				p, err := openProject(ctx, app)
				if err != nil {
					return err
				}
				for _, ref := range args {
					removeReference(app, p, ref)
				}
				return saveProject(ctx, app, p)
			}),
		},
	)
	return cmd
}

func printReferences(app *cli.App, p *project.Project) error {
	refs := p.References().All()
	projectRefs := p.ProjectReferences().All()
	if len(refs) == 0 && len(projectRefs) == 0 {
		app.Console.Println("This project has no references")
		return nil
	}
	for _, r := range refs {
		if hint := r.HintPath(); hint != "" {
			app.Console.Println(fmt.Sprintf("%s (%s)", r.Name(), hint))
		} else {
			app.Console.Println(r.Name())
		}
	}
	for _, r := range projectRefs {
		app.Console.Println(fmt.Sprintf("%s (%s)", r.Name(), r.ProjectFile()))
	}
	return nil
}

func addReference(app *cli.App, p *project.Project, ref string) error {
	path := app.Options.Resolve(ref)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		if p.References().Get(ref) != nil {
			app.Console.Info("%s already added to %s", ref, p.Name())
			return nil
		}
		p.References().AddGacReference(ref)
		app.Console.Success("Added reference %s to %s", ref, p.Name())
		return nil
	}

	rel, err := solution.RelativeProjectPath(p.Path, path)
	if err != nil {
		return err
	}

	if strings.HasSuffix(strings.ToLower(path), "proj") {
		target, err := project.Load(path)
		if err != nil {
			return err
		}
		if p.ProjectReferences().Get(rel) != nil {
			app.Console.Info("%s already added to %s", target.Name(), p.Name())
			return nil
		}
		p.ProjectReferences().Add(target.Name(), rel, target.ID())
		app.Console.Success("Added reference %s to %s", target.Name(), p.Name())
		return nil
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if p.References().Get(name) != nil {
		app.Console.Info("%s already added to %s", name, p.Name())
		return nil
	}
	p.References().AddDll(name, rel)
	app.Console.Success("Added reference %s to %s", name, p.Name())
	return nil
}

func removeReference(app *cli.App, p *project.Project, ref string) {
	removed := false
	if solution.IsProjectFile(ref) {
		path := app.Options.Resolve(ref)
		rel, err := solution.RelativeProjectPath(p.Path, path)
		if err == nil {
			removed = p.ProjectReferences().Remove(rel)
		}
		if !removed {
			removed = p.ProjectReferences().Remove(strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref)))
		}
	} else {
		name := ref
		if strings.EqualFold(filepath.Ext(ref), ".dll") {
			name = strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref))
		}
		removed = p.References().Remove(name) || p.ProjectReferences().Remove(name)
	}

	if removed {
		app.Console.Success("Removed reference %s from %s", ref, p.Name())
	} else {
		app.Console.Warning("%s is not referenced by %s", ref, p.Name())
	}
}
