/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quotedesk/quotedesk/internal/colors"
	"github.com/quotedesk/quotedesk/internal/config"
	"github.com/quotedesk/quotedesk/internal/version"
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           "quotedesk",
	Short:         "Quotes, clients and exports from the terminal.",
	Long:          `Quotes, clients and exports from the terminal.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyFlags()
	},
}

var (
	flagAPIURL string
	flagFormat string
	flagDebug  bool
	flagQuiet  bool
)

// reportedError marks an error the user has already been shown.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// Reported wraps err so Execute does not print it a second time.
func Reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// Execute runs the root command. Errors not already shown are printed.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil && !IsReported(err) {
		colors.Error(err.Error())
	}
	return err
}

// OutputFormat returns the value of the --format flag.
func OutputFormat() string {
	return flagFormat
}

func init() {
	RootCmd.Version = version.String()

	// Hide the completion command
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			if cmd.Long != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", cmd.Long)
			}
			return
		}
		printHelpText(cmd)
	})

	RootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Backend base URL (overrides api_url)")
	RootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "table", "Output format: table, compact, json")
	RootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Print debug output")
	RootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only print errors and warnings")
}

// applyFlags copies global flags over the loaded configuration.
func applyFlags() {
	if flagAPIURL != "" {
		config.Set("api_url", strings.TrimRight(flagAPIURL, "/"))
	}
	if flagDebug || config.GetBool("debug", false) {
		colors.SetDebug(true)
	}
	if flagQuiet || config.GetBool("quiet", false) {
		colors.SetQuiet(true)
	}
}

// ApplyLogFlags records --debug and --quiet in the configuration ahead of
// flag parsing, so the file logger started before Execute sees them.
func ApplyLogFlags(args []string) {
	for _, arg := range args {
		switch arg {
		case "--":
			return
		case "--debug", "--debug=true":
			config.Set("debug", "true")
		case "--quiet", "--quiet=true", "-q":
			config.Set("quiet", "true")
		}
	}
}

func printHelpText(cmd *cobra.Command) {
	commandOrder := []string{
		"login",
		"register",
		"logout",
		"whoami",
		"theme",
		"quotes",
		"public",
		"contact",
		"refs",
		"console",
		"help",
		"version",
	}

	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-24s %s", found.Use, found.Short))
	}

	helpText := fmt.Sprintf(`quotedesk %s

Quotes, clients and exports from the terminal.

USAGE:
    quotedesk [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    --api-url <url>     Backend base URL
    -f, --format <fmt>  Output format: table, compact, json
    --debug             Print debug output
    -q, --quiet         Only print errors and warnings
    -h, --help          Show help message
`, version.String(), strings.Join(cmdLines, "\n"))
	fmt.Fprint(cmd.OutOrStdout(), helpText)
}
