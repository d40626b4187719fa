// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"

	"github.com/creachadair/jcr"
	"github.com/creachadair/jcr/rule"
	"github.com/creachadair/jcr/tree"
	"github.com/spf13/cobra"
)

var checkFlags struct {
	quiet bool
}

var checkCmd = &cobra.Command{
	Use:   "check [file ...]",
	Short: "Check that documents are well-formed",
	Long: `Parse each document and report whether it is valid.

A document is valid if it is syntactically correct, its objects have no
duplicate keys, every rule it references is bound, and no binding is a cycle
of bare references.

Examples:
  # Check two files
  jcrcheck check a.jcr b.jcr

  # Check standard input, reporting only failures
  jcrcheck check --quiet < a.jcr`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVarP(&checkFlags.quiet, "quiet", "q", false, "report only failures")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := cfg.NewLogger(cmd.ErrOrStderr())
	out := cmd.OutOrStdout()

	names := inputs(args)
	var failed int
	for _, name := range names {
		reg := rule.NewRegistry()
		if err := parseInput(cmd, cfg, name, jcr.NewMulti[rule.Rule](new(tree.Builder), reg)); err != nil {
			failed++
			log.Debug("check failed", "input", name, "error", err)
			fmt.Fprintf(out, "%s: %v\n", name, err)
			continue
		}
		log.Debug("check passed", "input", name, "rules", reg.Len())
		if !checkFlags.quiet {
			fmt.Fprintf(out, "%s: ok\n", name)
		}
	}
	if failed != 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(names))
	}
	return nil
}
