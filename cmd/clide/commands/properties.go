package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/willibrandon/goclide/cmd/clide/cli"
	"github.com/willibrandon/goclide/project"
)

// GlobalConfigurationName is shown for --global.
const GlobalConfigurationName = "GLOBAL"

// NewPropertiesCommand creates the properties command.
func NewPropertiesCommand(app *cli.App) *cobra.Command {
	var (
		configName string
		global     bool
	)

	cmd := &cobra.Command{
		Use:     "properties [Name][=Value]...",
		Aliases: []string{"prop", "props"},
		Short:   "Get or set configuration properties",
		Long: `Usage: clide properties [Name][=Value] [--config NAME | --global]

Without arguments, prints every property of the selected configuration.
Name prints one property; Name=Value sets it. The default configuration is
the project's own default, usually Debug.`,
		RunE: traced("properties", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			p, err := openProject(ctx, app)
			if err != nil {
				return err
			}
			if global && configName != "" {
				return fmt.Errorf("--config and --global cannot be combined")
			}

			selected, label, err := selectConfiguration(p, configName, global)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				app.Console.Println("Selected configuration: " + label)
				for _, prop := range selected {
					app.Console.Println(fmt.Sprintf("%s: %s", prop.Name(), prop.Text()))
				}
				return nil
			}

			changed := false
			for _, arg := range args {
				name, value, set := strings.Cut(arg, "=")
				if !set {
					printProperty(app, selected, name)
					continue
				}
				if err := setProperty(p, configName, global, name, value); err != nil {
					return err
				}
				app.Console.Println(fmt.Sprintf("Setting %s to %s", name, value))
				changed = true
			}
			if !changed {
				return nil
			}
			return saveProject(ctx, app, p)
		}),
	}

	cmd.Flags().StringVarP(&configName, "config", "c", "", "Configuration to read or change (default: the project's default)")
	cmd.Flags().BoolVarP(&global, "global", "g", false, "Use the global, unconditioned properties")

	return cmd
}

// selectConfiguration returns the properties in scope and the name shown
// for them.
func selectConfiguration(p *project.Project, name string, global bool) ([]*project.Property, string, error) {
	if global {
		return p.GlobalProperties(), GlobalConfigurationName, nil
	}
	if name == "" {
		name = p.DefaultConfigurationName()
	}
	c := p.Config(name)
	if c == nil {
		return nil, "", fmt.Errorf("configuration not found: %s", name)
	}
	return c.Properties(), c.Name(), nil
}

// setProperty updates the property where it already is, or adds it to the
// first group in scope.
func setProperty(p *project.Project, configName string, global bool, name, value string) error {
	if global {
		for _, prop := range p.GlobalProperties() {
			if prop.Name() == name {
				prop.SetText(value)
				return nil
			}
		}
		g := p.Global()
		if g == nil {
			g = p.Configurations().AddGlobal()
		}
		g.Set(name, value)
		return nil
	}
	if configName == "" {
		configName = p.DefaultConfigurationName()
	}
	c := p.Config(configName)
	if c == nil {
		return fmt.Errorf("configuration not found: %s", configName)
	}
	c.Set(name, value)
	return nil
}

func printProperty(app *cli.App, props []*project.Property, name string) {
	for _, prop := range props {
		if prop.Name() == name {
			app.Console.Println(prop.Text())
			return
		}
	}
	app.Console.Warning("Property not found: %s", name)
}
