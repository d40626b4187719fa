// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"github.com/creachadair/jcr/rule"
	"github.com/creachadair/jcr/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [file ...]",
	Short: "Print event metrics for documents",
	Long: `Parse each document and print metrics about their events in the
Prometheus text exposition format. The metrics cover all the inputs.

A document that fails to parse is counted up to the point of failure, and
the command reports an error after printing the metrics.

Example:
  jcrcheck stats a.jcr b.jcr`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := cfg.NewLogger(cmd.ErrOrStderr())

	reg := prometheus.NewRegistry()
	c := stats.NewCounter[rule.Rule](nil, reg)
	var perr error
	for _, name := range inputs(args) {
		if err := parseInput(cmd, cfg, name, c); err != nil {
			log.Warn("parse failed", "input", name, "error", err)
			if perr == nil {
				perr = err
			}
		}
	}

	mfs, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(cmd.OutOrStdout(), mf); err != nil {
			return err
		}
	}
	return perr
}
