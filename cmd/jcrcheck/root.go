// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/creachadair/jcr"
	"github.com/creachadair/jcr/internal/config"
	"github.com/creachadair/jcr/rule"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "jcrcheck",
	Short: "Check and inspect content-rule documents",
	Long: `Jcrcheck reads documents written in the content-rule notation, a superset
of JSON that adds type keywords, ranges, and named rule bindings.

Each command reads the files named by its arguments, or standard input if
there are none or an argument is "-".`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default settings if empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

// loadConfig loads the configuration selected by the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// inputs returns the input names for args.
func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

// parseInput parses the document named by name and delivers its events to h.
// The name "-" denotes the input of cmd.
func parseInput(cmd *cobra.Command, cfg *config.Config, name string, h jcr.Handler[rule.Rule]) error {
	var r io.Reader
	if name == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	st := jcr.NewStream(r, rule.Compiler{})
	config.Configure(cfg, st)
	if name != "-" {
		st.SetSource(name)
	}
	if cfg.Strict {
		h = jcr.NewChecker(h)
	}
	return st.Parse(h)
}
