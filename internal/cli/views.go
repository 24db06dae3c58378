package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/uniknow/c4puml/pkg/config"
	c4io "github.com/uniknow/c4puml/pkg/io"
)

func (c *CLI) viewsCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "views [workspace.json]",
		Short: "List the views of a workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			input := cfg.Workspace
			if len(args) == 1 {
				input = args[0]
			}
			if input == "" {
				return fmt.Errorf("no workspace given and none set in %s", config.FileName)
			}

			ws, err := c4io.ImportWorkspace(input)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("loaded workspace", "name", ws.Name, "elements", ws.Model.ElementCount())

			if ws.Views.IsEmpty() {
				printWarning("%s has no views", input)
				return nil
			}
			var rows [][]string
			for _, v := range ws.Views.Views() {
				rows = append(rows, viewRow(v))
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers(viewHeaders...).
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					switch {
					case row == -1:
						return styleHeader
					case col == 0:
						return StyleHighlight
					}
					return StyleValue
				})
			fmt.Fprintln(stdout, t.Render())
			printDetail("%d views", ws.Views.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "project file (default ./"+config.FileName+")")
	return cmd
}
