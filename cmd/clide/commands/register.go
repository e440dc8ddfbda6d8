package commands

import "github.com/willibrandon/goclide/cmd/clide/cli"

// Register adds every clide command to app.
func Register(app *cli.App) {
	app.AddCommand(
		NewNewCommand(app),
		NewSolutionCommand(app),
		NewGenerateCommand(app),
		NewReferencesCommand(app),
		NewPropertiesCommand(app),
		NewContentCommand(app),
		NewSourceCommand(app),
		NewInfoCommand(app),
		NewCommandsCommand(app),
		NewVersionCommand(app.Console),
	)
	app.Root.SetHelpCommand(NewHelpCommand(app))
}
