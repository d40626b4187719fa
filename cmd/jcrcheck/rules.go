// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/creachadair/jcr/rule"
	"github.com/spf13/cobra"
)

var rulesFlags struct {
	resolve bool
}

var rulesCmd = &cobra.Command{
	Use:   "rules [file ...]",
	Short: "List the rule bindings of documents",
	Long: `Parse each document and list its rule bindings in the order they occur.

With --resolve, a binding that is a bare reference to another rule is shown
with the rule it ultimately refers to.

Examples:
  # List bindings
  jcrcheck rules a.jcr

  # Follow references
  jcrcheck rules --resolve a.jcr`,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().BoolVar(&rulesFlags.resolve, "resolve", false, "follow reference bindings")
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := cfg.NewLogger(cmd.ErrOrStderr())
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 4, 4, 1, ' ', 0)
	defer tw.Flush()

	for _, name := range inputs(args) {
		reg := rule.NewRegistry()
		if err := parseInput(cmd, cfg, name, reg); err != nil {
			return err
		}
		log.Debug("loaded rules", "input", name, "count", reg.Len())
		for _, id := range reg.Names() {
			r, _ := reg.Lookup(id)
			if rulesFlags.resolve {
				if r, err = reg.Resolve(id); err != nil {
					return err
				}
			}
			fmt.Fprintf(tw, "$%s\t= %s\n", id, r)
		}
	}
	return nil
}
