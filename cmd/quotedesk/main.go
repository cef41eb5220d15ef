/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"os"

	"github.com/quotedesk/quotedesk/cmd"
	"github.com/quotedesk/quotedesk/internal/colors"
	"github.com/quotedesk/quotedesk/internal/config"
	"github.com/quotedesk/quotedesk/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], cmd.Execute))
}

// run loads configuration and logging, then executes the command line.
// The console owns the terminal, so it gets no structured startup lines.
func run(args []string, execute func() error) int {
	config.Load()
	cmd.ApplyLogFlags(args)
	if len(args) > 0 && args[0] == "console" {
		colors.DisableStructuredLogging()
	}
	if err := logging.InitGlobal(); err != nil {
		colors.Debug("logging disabled: " + err.Error())
	}
	defer func() {
		if err := logging.ShutdownGlobal(); err != nil {
			colors.Debug("logging shutdown: " + err.Error())
		}
	}()

	colors.StructuredInfo("startup", "main", "started", nil, nil)
	if err := execute(); err != nil {
		colors.StructuredError("startup", "main", "failed", err, nil)
		return 1
	}
	colors.StructuredInfo("startup", "main", "completed", nil, nil)
	return 0
}
