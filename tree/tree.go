// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package tree implements a syntax tree for content-rule documents, and a
// jcr.Handler that builds one from an event stream.
package tree

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/creachadair/jcr"
	"github.com/creachadair/jcr/rule"
)

// A Node is an element of a document tree.
type Node interface {
	// JCR renders the node as compact content-rule text.
	JCR() string

	// Pos reports the location of the node in its input. A node constructed
	// other than by a Builder reports a zero Context.
	Pos() jcr.Context
}

type at struct{ ctx jcr.Context }

func (a at) Pos() jcr.Context { return a.ctx }

// An Object is a collection of members, in input order.
type Object struct {
	Members []*Member
	at
}

// Len reports the number of members in o.
func (o *Object) Len() int { return len(o.Members) }

// Find returns the member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	for _, m := range o.Members {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Keys returns the keys of o in input order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.Members))
	for i, m := range o.Members {
		out[i] = m.Key
	}
	return out
}

func (o *Object) JCR() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o.Members {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.JCR())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (o *Object) String() string { return fmt.Sprintf("Object(len=%d)", len(o.Members)) }

// A Member is a key-value pair in an object.
type Member struct {
	Key   string
	Value Node
	at
}

func (m *Member) JCR() string { return jcr.Quote(m.Key) + ":" + m.Value.JCR() }

func (m *Member) String() string { return fmt.Sprintf("Member(key=%q)", m.Key) }

// An Array is a sequence of values.
type Array struct {
	Values []Node
	at
}

// Len reports the number of values in a.
func (a *Array) Len() int { return len(a.Values) }

func (a *Array) JCR() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a.Values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JCR())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (a *Array) String() string { return fmt.Sprintf("Array(len=%d)", len(a.Values)) }

// A String is a string value.
type String struct {
	Value string
	at
}

func (s *String) JCR() string { return jcr.Quote(s.Value) }

// An Integer is a signed integer value.
type Integer struct {
	Value int64
	at
}

func (n *Integer) JCR() string { return strconv.FormatInt(n.Value, 10) }

// A Uinteger is an unsigned integer value.
type Uinteger struct {
	Value uint64
	at
}

func (n *Uinteger) JCR() string { return strconv.FormatUint(n.Value, 10) }

// A BigInteger is an integer value too large for 64 bits.
type BigInteger struct {
	Value *big.Int
	at
}

func (n *BigInteger) JCR() string { return n.Value.String() }

// A Double is a floating-point value with the count of significant digits it
// was written with. A Precision of zero means the count is not known.
type Double struct {
	Value     float64
	Precision int
	at
}

func (n *Double) JCR() string { return jcr.FormatDouble(n.Value, n.Precision) }

// A Bool is a Boolean value.
type Bool struct {
	Value bool
	at
}

func (b *Bool) JCR() string { return strconv.FormatBool(b.Value) }

// Null is the null value.
type Null struct{ at }

func (Null) JCR() string { return "null" }

// An IntRange is a signed integer range, inclusive of both bounds.
type IntRange struct {
	From, To int64
	at
}

func (r *IntRange) JCR() string {
	return strconv.FormatInt(r.From, 10) + ".." + strconv.FormatInt(r.To, 10)
}

// A UintRange is an unsigned integer range, inclusive of both bounds.
type UintRange struct {
	From, To uint64
	at
}

func (r *UintRange) JCR() string {
	return strconv.FormatUint(r.From, 10) + ".." + strconv.FormatUint(r.To, 10)
}

// A RuleRef is a reference to a named rule.
type RuleRef struct {
	Name string
	at
}

func (r *RuleRef) JCR() string { return "$" + r.Name }

// A RuleDef is an inline rule, such as a type keyword.
type RuleDef struct {
	Rule *rule.Rule
	at
}

func (r *RuleDef) JCR() string { return r.Rule.String() }

// A Binding associates a name with a rule.
type Binding struct {
	Name string
	Rule *rule.Rule
	at
}

func (b *Binding) JCR() string { return "$" + b.Name + " = " + b.Rule.String() }

// A Document is the content of a single input: zero or more rule bindings
// and an optional root value.
type Document struct {
	Rules    []*Binding
	Root     Node     // nil if the document has only bindings
	Comments []string // in input order, if comments were enabled
}

// Binding returns the binding for name in d, or nil.
func (d *Document) Binding(name string) *Binding {
	for _, b := range d.Rules {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// JCR renders d as content-rule text, one binding per line followed by the
// root value, if any.
func (d *Document) JCR() string {
	var lines []string
	for _, b := range d.Rules {
		lines = append(lines, b.JCR())
	}
	if d.Root != nil {
		lines = append(lines, d.Root.JCR())
	}
	return strings.Join(lines, "\n")
}
