// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package tree_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/creachadair/jcr/tree"
	"github.com/google/go-cmp/cmp"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Scalar", `true`, "true\n"},
		{"Short", `[1, 2, 3]`, "[1, 2, 3]\n"},
		{"Single", `{"a": {"b": 1}}`, `{"a": {"b": 1}}` + "\n"},
		{"Bindings", `$port = 1..65535 $name = string`,
			"$port = 1..65535\n$name = string\n"},
		{"Aligned", `{"id": 1, "name": "x", "on": true}`, `{
  "id":   1,
  "name": "x",
  "on":   true
}
`},
		{"Nested", `$p = 1..65535 $nm = string
{"host": $nm, "port": $p, "tags": ["a", "b"], "meta": {"x": [1, 2, 3, 4]}}`, `$p  = 1..65535
$nm = string
{
  "host": $nm,
  "port": $p,
  "tags": ["a", "b"],

  "meta": {
    "x": [
      1,
      2,
      3,
      4
    ]
  }
}
`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := mustParse(t, test.input, nil)
			got := tree.FormatToString(doc)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Format: (-want, +got)\n%s", diff)
			}

			// Formatted output parses to the same document.
			again := mustParse(t, got, nil)
			if again.JCR() != doc.JCR() {
				t.Errorf("Reparse: got %#q, want %#q", again.JCR(), doc.JCR())
			}
		})
	}
}

func TestFormatComments(t *testing.T) {
	const input = "// Header line.\n/* block\n     continued\n   */\n[1]"
	doc := mustParse(t, input, &tree.Options{AllowComments: true})

	var buf bytes.Buffer
	if err := tree.Format(&buf, doc); err != nil {
		t.Fatalf("Format: %v", err)
	}
	const want = "// Header line.\n/*\n block\n continued\n*/\n[1]\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Format: (-want, +got)\n%s", diff)
	}
}

func TestFormatter(t *testing.T) {
	doc := mustParse(t, `[[1, 2], {"a": 1, "b": 2}]`, nil)
	f := tree.Formatter{Indent: "    ", MaxLineItems: 1}

	var buf bytes.Buffer
	if err := f.FormatNode(&buf, doc.Root); err != nil {
		t.Fatalf("FormatNode: %v", err)
	}
	want := strings.Join([]string{
		"[",
		"    [",
		"        1,",
		"        2",
		"    ],",
		"    {",
		`        "a": 1,`,
		`        "b": 2`,
		"    }",
		"]",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("FormatNode: (-want, +got)\n%s", diff)
	}
}
