// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"github.com/creachadair/jcr"
	"github.com/creachadair/jcr/internal/config"
	"github.com/creachadair/jcr/rule"
	"github.com/spf13/cobra"
)

var eventsFlags struct {
	format string
}

var eventsCmd = &cobra.Command{
	Use:   "events [file ...]",
	Short: "Log the events of documents",
	Long: `Parse each document and write one log record per event to stdout.

Each record carries the event name as its message, the line, column, and
offset of the event, and its payload.

Examples:
  # Log events as text
  jcrcheck events a.jcr

  # Log events as JSON
  jcrcheck events --format json a.jcr`,
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().StringVar(&eventsFlags.format, "format", "", "output format: text, json (uses config if not specified)")
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ecfg := *cfg
	ecfg.LogLevel = "debug"
	if eventsFlags.format != "" {
		ecfg.LogFormat = eventsFlags.format
	}
	if err := config.Validate(&ecfg); err != nil {
		return err
	}
	tr := jcr.NewTracer[rule.Rule](nil, ecfg.NewLogger(cmd.OutOrStdout()))
	for _, name := range inputs(args) {
		if err := parseInput(cmd, cfg, name, tr); err != nil {
			return err
		}
	}
	return nil
}
