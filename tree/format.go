// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// A Formatter carries the settings for pretty-printing documents.
// A zero value is ready for use with default settings.
type Formatter struct {
	// Indent is the text used for each level of indentation. It should not
	// contain tabs. If empty, two spaces are used.
	Indent string

	// MaxLineItems is the largest number of simple array elements that are
	// rendered on a single line. If zero, 3 is used.
	MaxLineItems int
}

func (f Formatter) indent() string {
	if f.Indent == "" {
		return "  "
	}
	return f.Indent
}

func (f Formatter) maxLineItems() int {
	if f.MaxLineItems <= 0 {
		return 3
	}
	return f.MaxLineItems
}

// Format renders a pretty-printed representation of d to w with default
// settings.
func Format(w io.Writer, d *Document) error {
	var f Formatter
	return f.Format(w, d)
}

// FormatToString formats d to a string with default settings.
// In case of error in formatting, it returns an empty string.
func FormatToString(d *Document) string {
	var buf bytes.Buffer
	if Format(&buf, d) != nil {
		return ""
	}
	return buf.String()
}

// Format renders a pretty-printed representation of d to w using the
// settings from f. Comments are written first, then the bindings with their
// rules aligned, then the root value.
func (f Formatter) Format(w io.Writer, d *Document) error {
	tw := tabwriter.NewWriter(w, 4, 4, 1, ' ', 0)
	for _, c := range d.Comments {
		fmt.Fprint(tw, indentComment(c, ""), "\n")
	}
	for _, b := range d.Rules {
		fmt.Fprint(tw, "$", b.Name, "\t= ", b.Rule.String(), "\n")
	}
	if d.Root != nil {
		tw.Flush()
		f.formatValue(tw, d.Root, "", "")
		io.WriteString(tw, "\n")
	}
	return tw.Flush()
}

// FormatNode renders a pretty-printed representation of v to w using the
// settings from f.
func (f Formatter) FormatNode(w io.Writer, v Node) error {
	tw := tabwriter.NewWriter(w, 4, 4, 1, ' ', 0)
	f.formatValue(tw, v, "", "")
	return tw.Flush()
}

type writeFlusher interface {
	io.Writer
	Flush() error
}

// formatValue writes a representation of v to w, prefixed by init, with
// nested lines indented by indent.
func (f Formatter) formatValue(w writeFlusher, v Node, init, indent string) {
	switch t := v.(type) {
	case *Array:
		f.formatArray(w, t, init, indent)
	case *Object:
		f.formatObject(w, t, init, indent)
	case *Member:
		f.formatValue(w, t.Value, init, indent)
	default:
		fmt.Fprint(w, init, v.JCR())
	}
}

func (f Formatter) formatArray(w writeFlusher, a *Array, init, indent string) {
	if f.isBoring(a) {
		fmt.Fprint(w, init, "[")
		for i, v := range a.Values {
			if i > 0 {
				io.WriteString(w, ", ")
			}
			f.formatValue(w, v, "", "")
		}
		io.WriteString(w, "]")
		return
	}

	fmt.Fprint(w, init, "[\n")
	adent := indent + f.indent()
	for i, v := range a.Values {
		f.formatValue(w, v, adent, adent)
		if i < len(a.Values)-1 {
			io.WriteString(w, ",")
		}
		io.WriteString(w, "\n")
	}
	w.Flush()
	fmt.Fprint(w, indent, "]")
}

func (f Formatter) formatObject(w writeFlusher, o *Object, init, indent string) {
	if f.isBoring(o) {
		fmt.Fprint(w, init, "{")
		for _, m := range o.Members {
			fmt.Fprint(w, quoteKey(m.Key), ": ")
			f.formatValue(w, m.Value, "", "")
		}
		io.WriteString(w, "}")
		return
	}

	fmt.Fprint(w, init, "{\n")
	mdent := indent + f.indent()
	prevBoring, curBoring := true, true
	for i, m := range o.Members {
		// Leave extra space before the next member if either it or its
		// predecessor was non-boring.
		prevBoring, curBoring = curBoring, f.isBoring(m.Value)
		if i != 0 && !(prevBoring && curBoring) {
			io.WriteString(w, "\n")
		}
		fmt.Fprint(w, mdent, quoteKey(m.Key), f.objSep(m.Value))
		f.formatValue(w, m.Value, "", mdent)
		if i < len(o.Members)-1 {
			io.WriteString(w, ",")
		}
		io.WriteString(w, "\n")
	}
	w.Flush()
	fmt.Fprint(w, indent, "}")
}

func quoteKey(key string) string { return (&String{Value: key}).JCR() }

// objSep returns a key-value separator for the given value.
// Boring values get indented so they line up in columns;
// non-boring values are stapled directly to the key.
func (f Formatter) objSep(v Node) string {
	if f.isBoring(v) {
		return ":\t"
	}
	return ": "
}

// isBoring reports whether v has a simple enough structure that it can be
// rendered on one line.
func (f Formatter) isBoring(v Node) bool {
	switch t := v.(type) {
	case *Array:
		for i, v := range t.Values {
			if !f.isBoring(v) || i >= f.maxLineItems() {
				return false
			}
		}
		return true
	case *Member:
		return f.isBoring(t.Value)
	case *Object:
		if len(t.Members) == 1 {
			return f.isBoring(t.Members[0].Value)
		}
		return len(t.Members) == 0
	default:
		return true
	}
}

// indentComment realigns comment text from s and indents it by indent.
func indentComment(s, indent string) string {
	tag, text := classifyComment(s)

	if strings.Count(text, "\n") == 0 {
		switch tag {
		case "/*":
			return indent + "/* " + text + " */"
		default:
			return indent + "//" + text
		}
	}

	// The comment has multiple lines, and lines after the first are possibly
	// indented.
	lines := strings.Split(text, "\n")
	outdentCommentLines(lines)
	all := make([]string, 0, len(lines)+2)
	all = append(all, indent+"/*")
	for _, line := range lines {
		all = append(all, indent+" "+line)
	}
	all = append(all, indent+"*/")
	return strings.Join(all, "\n")
}

func classifyComment(s string) (tag, text string) {
	ns := strings.TrimSpace(s)
	if tail, ok := strings.CutPrefix(ns, "//"); ok {
		return "//", tail
	}
	if tail, ok := strings.CutPrefix(ns, "/*"); ok {
		return "/*", strings.TrimSpace(strings.TrimSuffix(tail, "*/"))
	}
	return "//", " " + ns
}

// trimSpaceSuffix removes whitespace from the suffix of s.
func trimSpaceSuffix(s string) string { return strings.TrimSpace("|" + s)[1:] }

// outdentCommentLines modifies lines to remove the shortest prefix of leading
// indentation common to all lines after the first, and any trailing
// whitespace. The first line is assumed to be flush left already.
func outdentCommentLines(lines []string) {
	pfx := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var ns int
		for _, c := range line {
			if c != ' ' && c != '\t' {
				break
			}
			ns++
		}
		if pfx < 0 || ns < pfx {
			pfx = ns
		}
	}
	if pfx < 0 {
		pfx = 0
	}
	lines[0] = trimSpaceSuffix(lines[0])
	for i, line := range lines[1:] {
		if len(line) < pfx {
			lines[i+1] = trimSpaceSuffix(line)
		} else {
			lines[i+1] = trimSpaceSuffix(line[pfx:])
		}
	}
}
