// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"strings"

	"github.com/creachadair/jcr"
	"github.com/creachadair/jcr/rule"
	"github.com/creachadair/jcr/tree"
	"github.com/spf13/cobra"
)

var fmtFlags struct {
	indent  int
	lineMax int
	compact bool
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [file ...]",
	Short: "Pretty-print documents",
	Long: `Parse each document and write it to stdout in a standard layout.

By default, bindings are written one per line with their rules aligned,
followed by the indented root value. Comments are kept at the top of the
output. With --compact, each binding and the root value are written on a
single line without comments.

Examples:
  # Format with four-space indentation
  jcrcheck fmt --indent 4 a.jcr

  # Compact output
  jcrcheck fmt --compact < a.jcr`,
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().IntVar(&fmtFlags.indent, "indent", 2, "spaces per indentation level")
	fmtCmd.Flags().IntVar(&fmtFlags.lineMax, "line-items", 3, "maximum simple array elements per line")
	fmtCmd.Flags().BoolVar(&fmtFlags.compact, "compact", false, "write each value on a single line")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	f := tree.Formatter{
		Indent:       strings.Repeat(" ", max(fmtFlags.indent, 1)),
		MaxLineItems: fmtFlags.lineMax,
	}
	for _, name := range inputs(args) {
		if fmtFlags.compact {
			if err := parseInput(cmd, cfg, name, jcr.NewEncoder[rule.Rule](out)); err != nil {
				return err
			}
			continue
		}
		b := new(tree.Builder)
		if err := parseInput(cmd, cfg, name, b); err != nil {
			return err
		}
		doc, err := b.Document()
		if err != nil {
			return err
		}
		if err := f.Format(out, doc); err != nil {
			return err
		}
	}
	return nil
}
