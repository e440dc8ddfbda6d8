package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/willibrandon/goclide/cmd/clide/cli"
	"github.com/willibrandon/goclide/observability"
	"github.com/willibrandon/goclide/pp"
	"github.com/willibrandon/goclide/templates"
	"github.com/willibrandon/goclide/tokenizer"
)

type generateOptions struct {
	output      string
	noProject   bool
	keepMissing bool
	config      string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(app *cli.App) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:     "generate [TEMPLATE [ARGS...]]",
		Aliases: []string{"gen"},
		Short:   "Generate a clide template",
		Long: `Usage: clide generate [Template] [TemplateOptions]

Without arguments, lists the templates found on the template search path.
With a template name, prints the template's usage. With further arguments,
generates the template into the output directory. Arguments of the form
Key=Value become tokens; other arguments become ARG1, ARG2 and so on.
Properties of the current project are available as tokens too.`,
		RunE: traced("generate", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			catalog := templates.NewCatalog(app.Options.TemplateRoots()...)
			catalog.Logger = app.Logger

			switch len(args) {
			case 0:
				return listTemplates(app, catalog)
			case 1:
				return printTemplateUsage(app, catalog, args[0])
			default:
				return generateTemplate(ctx, app, catalog, opts, args[0], args[1:])
			}
		}),
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (default: working directory)")
	cmd.Flags().BoolVar(&opts.noProject, "no-project", false, "Do not use the current project's properties as tokens")
	cmd.Flags().BoolVar(&opts.keepMissing, "keep-missing", false, "Generate paths whose names still contain unresolved tokens")
	cmd.Flags().StringVar(&opts.config, "config", "", "Project configuration to read properties from (default: the project's default)")

	return cmd
}

func listTemplates(app *cli.App, catalog *templates.Catalog) error {
	all := catalog.Sorted()
	if len(all) == 0 {
		app.Console.Println("No templates found")
		app.Console.Detail("Searched: %s", strings.Join(catalog.Roots, ", "))
		return nil
	}
	for _, t := range all {
		app.Console.Println(fmt.Sprintf("%s: %s", t.Name(), t.Description()))
	}
	return nil
}

func resolveTemplate(app *cli.App, catalog *templates.Catalog, name string) (*templates.Template, bool) {
	if t, ok := catalog.Get(name); ok {
		return t, true
	}
	return catalog.Resolve(app.Options.Resolve(name))
}

func printTemplateUsage(app *cli.App, catalog *templates.Catalog, name string) error {
	t, ok := resolveTemplate(app, catalog, name)
	if !ok {
		app.Console.Println(fmt.Sprintf("Template not found: %s", name))
		return nil
	}
	app.Console.Print(t.Usage())
	return nil
}

func generateTemplate(ctx context.Context, app *cli.App, catalog *templates.Catalog, opts *generateOptions, name string, args []string) error {
	t, ok := resolveTemplate(app, catalog, name)
	if !ok {
		app.Console.Println(fmt.Sprintf("Template not found: %s", name))
		return nil
	}

	outputDir := app.Options.WorkingDirectory
	if opts.output != "" {
		outputDir = app.Options.Resolve(opts.output)
	}

	tokens := tokenizer.Source(tokenizer.ParseArguments(args))
	if !opts.noProject && app.Options.HasProject() {
		p, err := openProject(ctx, app)
		if err != nil {
			return err
		}
		tokens = tokenizer.Merge(pp.ProjectTokens(p, opts.config, true), tokens)
	}

	tok := tokenizer.New()
	tok.WorkingDirectory = app.Options.WorkingDirectory
	tok.SkipIfMissingTokens = !opts.keepMissing
	tok.Logger = app.Logger

	_, span := observability.StartGenerateSpan(ctx, t.Name(), t.Path, outputDir)
	result, err := t.Generate(tok, outputDir, tokens)
	if result != nil {
		span.SetAttributes(observability.AttrFileCount.Int(len(result.Files)))
	}
	observability.EndSpanWithError(span, err)
	if err != nil {
		return err
	}

	for _, f := range result.Files {
		app.Console.Detail("  create %s", f)
	}
	for _, s := range result.Skipped {
		if s.Reason == tokenizer.SkipMissingTokens {
			app.Console.Detail("  skip   %s (unresolved token)", s.Target)
		}
	}
	app.Console.Success("Generated template %s", t.Name())
	return nil
}
