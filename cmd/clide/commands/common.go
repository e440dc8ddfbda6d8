package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/willibrandon/goclide/cmd/clide/cli"
	"github.com/willibrandon/goclide/observability"
	"github.com/willibrandon/goclide/project"
	"github.com/willibrandon/goclide/solution"
)

// ErrNoProject is returned by commands that edit a project when the working
// directory has none and --project was not given.
var ErrNoProject = errors.New("no project found, create one with 'clide new NAME' or pass --project")

type runFunc func(ctx context.Context, cmd *cobra.Command, args []string) error

// traced runs fn inside a command span.
func traced(name string, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, span := observability.StartCommandSpan(cli.Context(cmd), name)
		err := fn(ctx, cmd, args)
		observability.EndSpanWithError(span, err)
		return err
	}
}

// openProject loads the selected project, which must exist.
func openProject(ctx context.Context, app *cli.App) (*project.Project, error) {
	if !app.Options.HasProject() {
		return nil, ErrNoProject
	}
	path := app.Options.ProjectPath()
	_, span := observability.StartDocumentLoadSpan(ctx, "project", path)
	p, err := project.Load(path)
	if err == nil && !p.Exists() {
		err = fmt.Errorf("project not found: %s", app.Options.Project)
	}
	observability.EndSpanWithError(span, err)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func saveProject(ctx context.Context, app *cli.App, p *project.Project) error {
	_, span := observability.StartDocumentSaveSpan(ctx, "project", p.Path)
	err := p.Save()
	observability.EndSpanWithError(span, err)
	if err != nil {
		return fmt.Errorf("failed to save project %s: %w", p.Path, err)
	}
	app.Logger.Debug("Saved project {Path}", p.Path)
	return nil
}

func loadSolution(ctx context.Context, path string) (*solution.Solution, error) {
	_, span := observability.StartDocumentLoadSpan(ctx, "solution", path)
	s, err := solution.Load(path)
	observability.EndSpanWithError(span, err)
	return s, err
}

func saveSolution(ctx context.Context, app *cli.App, s *solution.Solution) error {
	_, span := observability.StartDocumentSaveSpan(ctx, "solution", s.Path)
	err := s.Save()
	observability.EndSpanWithError(span, err)
	if err != nil {
		return fmt.Errorf("failed to save solution %s: %w", s.Path, err)
	}
	app.Logger.Debug("Saved solution {Path}", s.Path)
	return nil
}
