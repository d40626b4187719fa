// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Program jcrcheck reads content-rule documents and reports on them.
//
// Usage:
//
//	# Check that each document is well-formed and its rules are bound
//	jcrcheck check schema.jcr other.jcr
//
//	# Log the events of a document
//	jcrcheck events --format json schema.jcr
//
//	# Pretty-print a document read from stdin
//	jcrcheck fmt < schema.jcr
//
//	# List the rule bindings of a document
//	jcrcheck rules --resolve schema.jcr
//
//	# Print event metrics in the Prometheus text format
//	jcrcheck stats *.jcr
//
// Input settings are read from the YAML file named by --config.
package main

func main() {
	Execute()
}
