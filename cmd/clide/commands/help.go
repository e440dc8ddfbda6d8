package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/willibrandon/goclide/cmd/clide/cli"
)

// NewHelpCommand replaces cobra's help command with clide's banner and
// per-command usage.
func NewHelpCommand(app *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Provide help on the 'clide' command",
		Long:  `Show the clide banner, or the usage of a single command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				app.Console.Print(cli.Banner)
				return nil
			}
			target, _, err := app.Root.Find(args)
			if err != nil || target == app.Root {
				app.Console.Println(fmt.Sprintf("Command not found: %s", strings.Join(args, " ")))
				return nil
			}
			return showCommandHelp(app, target)
		},
	}
}

func showCommandHelp(app *cli.App, cmd *cobra.Command) error {
	text := cmd.Long
	if text == "" {
		text = cmd.Short
	}
	app.Console.Println(strings.TrimRight(text, "\n"))
	if flags := cmd.LocalNonPersistentFlags(); flags.HasAvailableFlags() {
		app.Console.Println("")
		app.Console.Println("Options:")
		app.Console.Print(flags.FlagUsages())
	}
	if subs := visibleCommands(cmd); len(subs) > 0 {
		app.Console.Println("")
		app.Console.Println("Subcommands:")
		for _, sub := range subs {
			app.Console.Println(fmt.Sprintf("  %-8s %s", sub.Name(), sub.Short))
		}
	}
	return nil
}

func visibleCommands(cmd *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() {
			cmds = append(cmds, c)
		}
	}
	return cmds
}

// NewCommandsCommand lists every command with its description.
func NewCommandsCommand(app *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the available commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range visibleCommands(app.Root) {
				app.Console.Println(fmt.Sprintf("%s\t%s", c.Name(), c.Short))
			}
			return nil
		},
	}
}
