// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/creachadair/jcr/tree"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

// newCmd returns a command reading input from stdin and capturing its output
// and log, and resets the global flags.
func newCmd(t *testing.T, config, input string) (cmd *cobra.Command, out, log *bytes.Buffer) {
	t.Helper()
	cfgFile, verbose = config, false
	out, log = new(bytes.Buffer), new(bytes.Buffer)
	cmd = &cobra.Command{}
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(out)
	cmd.SetErr(log)
	return cmd, out, log
}

func TestCheck(t *testing.T) {
	checkFlags.quiet = false

	t.Run("Valid", func(t *testing.T) {
		cmd, out, _ := newCmd(t, "testdata/jcr.yaml", "")
		if err := runCheck(cmd, []string{"testdata/schema.jcr"}); err != nil {
			t.Fatalf("runCheck: unexpected error: %v", err)
		}
		if got, want := out.String(), "testdata/schema.jcr: ok\n"; got != want {
			t.Errorf("Output: got %q, want %q", got, want)
		}
	})

	t.Run("Stdin", func(t *testing.T) {
		cmd, out, _ := newCmd(t, "", `{"a": [1, 2.5, null]}`)
		if err := runCheck(cmd, nil); err != nil {
			t.Fatalf("runCheck: unexpected error: %v", err)
		}
		if got, want := out.String(), "-: ok\n"; got != want {
			t.Errorf("Output: got %q, want %q", got, want)
		}
	})

	t.Run("BigInteger", func(t *testing.T) {
		cmd, out, _ := newCmd(t, "testdata/jcr.yaml", `{"n": 36893488147419103232}`)
		if err := runCheck(cmd, nil); err != nil {
			t.Fatalf("runCheck: unexpected error: %v", err)
		}
		if got, want := out.String(), "-: ok\n"; got != want {
			t.Errorf("Output: got %q, want %q", got, want)
		}
	})

	t.Run("Failures", func(t *testing.T) {
		cmd, out, _ := newCmd(t, "testdata/jcr.yaml", "$a = [$b]")
		err := runCheck(cmd, []string{"testdata/schema.jcr", "testdata/bad.jcr", "-"})
		if err == nil || err.Error() != "2 of 3 inputs failed" {
			t.Errorf("runCheck: got %v, want 2 failures", err)
		}
		for _, want := range []string{
			"testdata/schema.jcr: ok\n",
			`testdata/bad.jcr: at testdata/bad.jcr:1:10: Name: duplicate key "a"`,
			"-: at 1:1: EndDocument: undefined rule $b (referenced by $a)",
		} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("Output is missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("CommentsDisabled", func(t *testing.T) {
		cmd, _, _ := newCmd(t, "", "")
		if err := runCheck(cmd, []string{"testdata/schema.jcr"}); err == nil {
			t.Error("runCheck: got nil, want error")
		}
	})

	t.Run("Quiet", func(t *testing.T) {
		checkFlags.quiet = true
		defer func() { checkFlags.quiet = false }()

		cmd, out, _ := newCmd(t, "", "[true]")
		if err := runCheck(cmd, nil); err != nil {
			t.Fatalf("runCheck: unexpected error: %v", err)
		}
		if out.Len() != 0 {
			t.Errorf("Output: got %q, want empty", out)
		}
	})

	t.Run("Verbose", func(t *testing.T) {
		cmd, _, log := newCmd(t, "", "$x = integer $x")
		verbose = true
		if err := runCheck(cmd, nil); err != nil {
			t.Fatalf("runCheck: unexpected error: %v", err)
		}
		if got := log.String(); !strings.Contains(got, `msg="check passed" input=- rules=1`) {
			t.Errorf("Log: got %q", got)
		}
	})

	t.Run("BadConfig", func(t *testing.T) {
		cmd, _, _ := newCmd(t, "testdata/nonesuch.yaml", "1")
		if err := runCheck(cmd, nil); err == nil {
			t.Error("runCheck: got nil, want error")
		}
	})

	t.Run("MissingInput", func(t *testing.T) {
		cmd, out, _ := newCmd(t, "", "")
		if err := runCheck(cmd, []string{"testdata/nonesuch.jcr"}); err == nil {
			t.Error("runCheck: got nil, want error")
		}
		if !strings.HasPrefix(out.String(), "testdata/nonesuch.jcr: open ") {
			t.Errorf("Output: got %q", out)
		}
	})
}

func TestEvents(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		eventsFlags.format = "json"
		cmd, out, _ := newCmd(t, "", "[true]")
		if err := runEvents(cmd, nil); err != nil {
			t.Fatalf("runEvents: unexpected error: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		if len(lines) != 5 {
			t.Fatalf("Got %d records, want 5:\n%s", len(lines), out)
		}
		for i, want := range []string{
			`"msg":"BeginDocument"`,
			`"msg":"BeginArray","line":1,"column":1,"offset":0`,
			`"msg":"BoolValue","line":1,"column":2,"offset":1,"value":true`,
			`"msg":"EndArray"`,
			`"msg":"EndDocument"`,
		} {
			if !strings.Contains(lines[i], want) {
				t.Errorf("Record %d: got %s, want %s", i+1, lines[i], want)
			}
		}
	})

	t.Run("Text", func(t *testing.T) {
		eventsFlags.format = ""
		cmd, out, _ := newCmd(t, "", `{"k": 1..5}`)
		if err := runEvents(cmd, nil); err != nil {
			t.Fatalf("runEvents: unexpected error: %v", err)
		}
		for _, want := range []string{"msg=Name", "text=k", "msg=UintegerRangeValue", "from=1 to=5"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("Output is missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("BadFormat", func(t *testing.T) {
		eventsFlags.format = "xml"
		defer func() { eventsFlags.format = "" }()
		cmd, _, _ := newCmd(t, "", "1")
		if err := runEvents(cmd, nil); err == nil {
			t.Error("runEvents: got nil, want error")
		}
	})

	t.Run("SyntaxError", func(t *testing.T) {
		cmd, _, _ := newCmd(t, "", "[1,")
		if err := runEvents(cmd, nil); err == nil {
			t.Error("runEvents: got nil, want error")
		}
	})
}

func TestFmt(t *testing.T) {
	data, err := os.ReadFile("testdata/schema.jcr")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := tree.Parse(bytes.NewReader(data), &tree.Options{AllowComments: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	t.Run("Pretty", func(t *testing.T) {
		fmtFlags.indent, fmtFlags.lineMax, fmtFlags.compact = 4, 3, false
		cmd, out, _ := newCmd(t, "testdata/jcr.yaml", string(data))
		if err := runFmt(cmd, nil); err != nil {
			t.Fatalf("runFmt: unexpected error: %v", err)
		}
		var want bytes.Buffer
		if err := (tree.Formatter{Indent: "    ", MaxLineItems: 3}).Format(&want, doc); err != nil {
			t.Fatalf("Format: %v", err)
		}
		if diff := cmp.Diff(want.String(), out.String()); diff != "" {
			t.Errorf("Output (-want, +got):\n%s", diff)
		}
		if !strings.HasPrefix(out.String(), "// A sample schema.\n$port = 1..65535\n$name = string\n$id   = $name\n") {
			t.Errorf("Output has the wrong header:\n%s", out)
		}
	})

	t.Run("Compact", func(t *testing.T) {
		fmtFlags.compact = true
		defer func() { fmtFlags.compact = false }()

		cmd, out, _ := newCmd(t, "testdata/jcr.yaml", "")
		if err := runFmt(cmd, []string{"testdata/schema.jcr"}); err != nil {
			t.Fatalf("runFmt: unexpected error: %v", err)
		}
		const want = `$port = 1..65535
$name = string
$id = $name
{"host":$name,"port":$port,"tags":[string]}
`
		if diff := cmp.Diff(want, out.String()); diff != "" {
			t.Errorf("Output (-want, +got):\n%s", diff)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		fmtFlags.compact = false
		cmd, _, _ := newCmd(t, "", "")
		if err := runFmt(cmd, []string{"testdata/bad.jcr"}); err == nil {
			t.Error("runFmt: got nil, want error")
		}
	})
}

func TestRules(t *testing.T) {
	tests := []struct {
		resolve bool
		want    string
	}{
		{false, "$port = 1..65535\n$name = string\n$id   = $name\n"},
		{true, "$port = 1..65535\n$name = string\n$id   = string\n"},
	}
	for _, test := range tests {
		rulesFlags.resolve = test.resolve
		cmd, out, _ := newCmd(t, "testdata/jcr.yaml", "")
		if err := runRules(cmd, []string{"testdata/schema.jcr"}); err != nil {
			t.Fatalf("runRules: unexpected error: %v", err)
		}
		if diff := cmp.Diff(test.want, out.String()); diff != "" {
			t.Errorf("Rules resolve=%v (-want, +got):\n%s", test.resolve, diff)
		}
	}
	rulesFlags.resolve = false

	cmd, _, _ := newCmd(t, "", "$a = [$b]")
	if err := runRules(cmd, nil); err == nil || !strings.Contains(err.Error(), "undefined rule $b") {
		t.Errorf("runRules: got %v, want undefined rule", err)
	}
}

func TestStats(t *testing.T) {
	cmd, out, _ := newCmd(t, "testdata/jcr.yaml", "[1, -2]")
	if err := runStats(cmd, []string{"testdata/schema.jcr", "-"}); err != nil {
		t.Fatalf("runStats: unexpected error: %v", err)
	}
	for _, want := range []string{
		"jcr_documents_total 2\n",
		`jcr_events_total{event="NamedRule"} 3` + "\n",
		`jcr_events_total{event="Comment"} 1` + "\n",
		`jcr_events_total{event="IntegerValue"} 1` + "\n",
		"jcr_max_depth 2\n",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Output is missing %q:\n%s", want, out)
		}
	}

	cmd, out, log := newCmd(t, "", "[1,")
	if err := runStats(cmd, nil); err == nil {
		t.Error("runStats: got nil, want error")
	}
	if !strings.Contains(out.String(), "jcr_documents_total 0\n") {
		t.Errorf("Output is missing the document count:\n%s", out)
	}
	if !strings.Contains(log.String(), `msg="parse failed"`) {
		t.Errorf("Log: got %q", log)
	}
}
