/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"

	"github.com/quotedesk/quotedesk/cmd"
	"github.com/spf13/cobra"
)

// NewThemeCmd creates the theme command.
func NewThemeCmd(provide provider) *cobra.Command {
	if provide == nil {
		panic("NewThemeCmd: provider dependency cannot be nil")
	}
	return &cobra.Command{
		Use:       "theme [toggle|dark|light]",
		Short:     "Show or change the color theme",
		Long:      `Without argument, print the current theme. The choice survives logout.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"toggle", "dark", "light"},
		RunE: func(c *cobra.Command, args []string) error {
			ctx := contextOf(c)
			rt, err := provide(ctx)
			if err != nil {
				return err
			}
			dark := rt.session.DarkMode()
			if len(args) == 1 {
				switch args[0] {
				case "toggle":
					dark, err = rt.session.ToggleDarkMode(ctx)
				case "dark":
					dark = true
					err = rt.session.SetDarkMode(ctx, true)
				case "light":
					dark = false
					err = rt.session.SetDarkMode(ctx, false)
				}
				if err != nil {
					return fmt.Errorf("save theme: %w", err)
				}
			}
			fmt.Fprintln(c.OutOrStdout(), themeName(dark))
			return nil
		},
	}
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

func init() {
	cmd.RootCmd.AddCommand(NewThemeCmd(deps.env))
}
