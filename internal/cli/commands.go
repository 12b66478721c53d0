package cli

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vfx-pipeline/houdinictl/internal/engine"
)

// commandEntry is the printable form of a resolved command.
type commandEntry struct {
	AppInstance string `yaml:"app_instance"`
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Panel       bool   `yaml:"panel,omitempty"`
}

// menuSectionOut is the printable form of a menu section.
type menuSectionOut struct {
	Title    string         `yaml:"title"`
	Commands []commandEntry `yaml:"commands"`
}

// commandsOutput is the yaml document printed by the commands subcommand.
type commandsOutput struct {
	Context string           `yaml:"context,omitempty"`
	Menu    []menuSectionOut `yaml:"menu,omitempty"`
	Shelf   []commandEntry   `yaml:"shelf,omitempty"`
	Startup []commandEntry   `yaml:"startup,omitempty"`
	Plugins []string         `yaml:"plugins,omitempty"`
}

// newCommandsCommand creates the "commands" subcommand that prints the
// resolved menu, shelf, startup and plugin launch surfaces.
func newCommandsCommand(opts *Options) *cobra.Command {
	var scene string
	var startupOnly bool

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List the resolved menu, shelf and startup commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, logger, err := loadEngine(cmd, opts)
			if err != nil {
				return err
			}

			var current engine.Context
			if scene != "" {
				current, err = eng.ResolveContext(scene)
				if err != nil {
					logger.Warn("context could not be resolved", "scene", scene, "error", err)
				}
			}

			startup, err := eng.StartupCommands()
			if err != nil {
				return err
			}

			out := commandsOutput{Startup: toEntries(startup)}

			if !startupOnly {
				out.Context = current.String()
				if menu := eng.BuildMenu(current); menu != nil {
					for _, section := range menu.Sections {
						out.Menu = append(out.Menu, menuSectionOut{
							Title:    section.Title,
							Commands: toEntries(section.Commands),
						})
					}
				}
				out.Shelf = toEntries(eng.BuildShelf())

				plan, err := eng.LaunchPlan()
				if err != nil {
					return err
				}
				for _, p := range plan {
					out.Plugins = append(out.Plugins, p.ID)
				}
			}

			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer func() { _ = enc.Close() }()
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&scene, "scene", "", "Scene file path used to resolve the current context")
	cmd.Flags().BoolVar(&startupOnly, "startup-only", false, "Print only the resolved startup commands")
	addVarFlags(cmd)
	return cmd
}

// toEntries converts resolved commands into their printable form.
func toEntries(commands []engine.Command) []commandEntry {
	var out []commandEntry
	for _, c := range commands {
		out = append(out, commandEntry{
			AppInstance: c.AppInstance,
			Name:        c.Name,
			Title:       c.Title,
			Panel:       c.Panel,
		})
	}
	return out
}
