package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/willibrandon/goclide/cmd/clide/cli"
	"github.com/willibrandon/goclide/project"
)

// itemKind describes one item list of a project, such as Content.
type itemKind struct {
	use     string
	aliases []string
	short   string
	noun    string
	items   func(*project.Project) *project.ItemPaths
}

// NewContentCommand creates the content command.
func NewContentCommand(app *cli.App) *cobra.Command {
	return newItemsCommand(app, itemKind{
		use:   "content",
		short: "Manage a project's content files",
		noun:  "content",
		items: (*project.Project).Content,
	})
}

// NewSourceCommand creates the source command.
func NewSourceCommand(app *cli.App) *cobra.Command {
	return newItemsCommand(app, itemKind{
		use:     "source",
		aliases: []string{"src", "compile"},
		short:   "Manage a project's compiled source files",
		noun:    "source files",
		items:   (*project.Project).CompilePaths,
	})
}

func newItemsCommand(app *cli.App, kind itemKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:     kind.use,
		Aliases: kind.aliases,
		Short:   kind.short,
		Long: fmt.Sprintf(`Usage: clide %s add|rm file1.html file2.txt

Without arguments, lists the project's %s.`, kind.use, kind.noun),
		Args: cobra.NoArgs,
		RunE: traced(kind.use, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			p, err := openProject(ctx, app)
			if err != nil {
				return err
			}
			includes := kind.items(p).Includes()
			if len(includes) == 0 {
				app.Console.Println(fmt.Sprintf("This project has no %s", kind.noun))
				return nil
			}
			for _, include := range includes {
				app.Console.Println(include)
			}
			return nil
		}),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add FILE...",
			Short: "Add files to the project",
			Args:  cobra.MinimumNArgs(1),
			RunE: traced(kind.use+".add", func(ctx context.Context, cmd *cobra.Command, args []string) error {
				p, err := openProject(ctx, app)
				if err != nil {
					return err
				}
				items := kind.items(p)
				for _, file := range args {
					if items.Get(file) != nil {
						app.Console.Info("%s already added to %s", file, p.Name())
						continue
					}
					items.Add(file)
					app.Console.Success("Added %s to %s", file, p.Name())
				}
				return saveProject(ctx, app, p)
			}),
		},
		&cobra.Command{
			Use:     "rm FILE...",
			Aliases: []string{"remove"},
			Short:   "Remove files from the project",
			Args:    cobra.MinimumNArgs(1),
			RunE: traced(kind.use+".rm", func(ctx context.Context, cmd *cobra.Command, args []string) error {
				p, err := openProject(ctx, app)
				if err != nil {
					return err
				}
				items := kind.items(p)
				for _, file := range args {
					if items.Remove(file) {
						app.Console.Success("Removed %s from %s", file, p.Name())
					} else {
						app.Console.Warning("%s is not in %s", file, p.Name())
					}
				}
				return saveProject(ctx, app, p)
			}),
		},
	)
	return cmd
}
