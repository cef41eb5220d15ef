/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quotedesk/quotedesk/cmd"
	"github.com/quotedesk/quotedesk/internal/admin"
	"github.com/quotedesk/quotedesk/internal/notify"
	"github.com/quotedesk/quotedesk/internal/tui/state"
	"github.com/spf13/cobra"
)

// consoleProvider returns the admin service and toast queue of the console.
type consoleProvider func(ctx context.Context) (*admin.Service, *notify.Queue, error)

// programRunner runs a bubbletea model until it quits.
type programRunner func(m tea.Model) error

func runProgram(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// NewConsoleCmd creates the console command.
func NewConsoleCmd(provide provider, open consoleProvider, run programRunner) *cobra.Command {
	if provide == nil || open == nil || run == nil {
		panic("NewConsoleCmd: dependencies cannot be nil")
	}
	return &cobra.Command{
		Use:   "console",
		Short: "Open the interactive quote console",
		Long: `Open the interactive quote console: browse, search and select quotes,
then send, delete or export them. Press ? inside the console for the keys.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			ctx := contextOf(c)
			rt, err := provide(ctx)
			if err != nil {
				return err
			}
			if !rt.session.IsAuthenticated() {
				return errors.New(msgNotLoggedIn)
			}
			svc, queue, err := open(ctx)
			if err != nil {
				return err
			}
			model := state.NewModel(ctx, svc, queue)
			defer model.Close()
			if err := run(model); err != nil {
				return fmt.Errorf("console: %w", err)
			}
			return nil
		},
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewConsoleCmd(deps.env, deps.console, runProgram))
}
