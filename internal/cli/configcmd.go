package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uniknow/c4puml/pkg/config"
)

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or locate " + config.FileName,
	}
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configPathCommand())
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default " + config.FileName,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Default().Save(path, force); err != nil {
				if !force {
					return fmt.Errorf("%w (use --force to overwrite)", err)
				}
				return err
			}
			printSuccess("Wrote %s", StyleHighlight.Render(path))
			printNextStep("Export", "c4puml export workspace.json")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// configPathCommand prints the file export would load.
func (c *CLI) configPathCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(stdout, config.Find(configPath))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "explicit project file")
	return cmd
}
