package cli

import (
	"slices"

	"github.com/spf13/cobra"
)

func newThemesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List configured themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.configOnly()
			if err != nil {
				return err
			}
			names := cfg.ThemeNames()
			slices.Sort(names)
			for _, name := range names {
				theme, _ := cfg.Theme(name)
				marker := " "
				if name == cfg.Graph.Theme {
					marker = "*"
				}
				cmd.Printf("%s %-12s background=#%s text=#%s grid=#%s\n", marker, name, theme.BackgroundColor, theme.TextColor, theme.GridColor)
			}
			return nil
		},
	}
}
