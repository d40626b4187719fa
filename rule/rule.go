// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package rule defines a representation of content rules, and handlers that
// compile and resolve them from a jcr event stream.
//
// A *Rule is the handle type the jcr package passes through its events. Once
// built, a rule is not modified, so a handle may be shared freely between the
// producer, a Registry, and any other consumer.
package rule

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/creachadair/jcr"
)

// Kind identifies the form of a Rule.
type Kind byte

const (
	Any       Kind = iota // any value
	String                // any string
	Integer               // any integer
	Float                 // any number
	Boolean               // true or false
	Literal               // exactly Value
	IntRange              // a signed integer in Value (jcr.IntegerRange)
	UintRange             // an unsigned integer in Value (jcr.UintegerRange)
	Object                // an object whose members match Members
	Array                 // an array whose elements match Items
	Ref                   // the rule bound to Name
)

var kindStr = [...]string{
	Any:       "any",
	String:    "string",
	Integer:   "integer",
	Float:     "float",
	Boolean:   "boolean",
	Literal:   "literal",
	IntRange:  "range",
	UintRange: "range",
	Object:    "object",
	Array:     "array",
	Ref:       "reference",
}

func (k Kind) String() string {
	if int(k) < len(kindStr) {
		return kindStr[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// keywords maps type keywords to the kinds they denote.
var keywords = map[string]Kind{
	"any":     Any,
	"string":  String,
	"integer": Integer,
	"float":   Float,
	"boolean": Boolean,
}

// KindOf reports the kind denoted by a type keyword.
func KindOf(keyword string) (Kind, bool) {
	k, ok := keywords[keyword]
	return k, ok
}

// A Rule is a content rule.
type Rule struct {
	Kind Kind

	// For Literal, the value: one of string, int64, uint64, *big.Int,
	// jcr.Double, bool, or jcr.NullType.
	// For IntRange, a jcr.IntegerRange; for UintRange, a jcr.UintegerRange.
	Value any

	Members []Member // for Object, in input order
	Items   []*Rule  // for Array
	Name    string   // for Ref
}

// A Member is a named member of an Object rule.
type Member struct {
	Name string
	Rule *Rule
}

// Find returns the rule for the member of r with the given name, or nil.
func (r *Rule) Find(name string) *Rule {
	for _, m := range r.Members {
		if m.Name == name {
			return m.Rule
		}
	}
	return nil
}

// Refs returns the names of all rules referenced by r or its descendants, in
// the order they occur. Names may be repeated.
func (r *Rule) Refs() []string {
	var out []string
	var walk func(*Rule)
	walk = func(r *Rule) {
		if r == nil {
			return
		}
		switch r.Kind {
		case Ref:
			out = append(out, r.Name)
		case Object:
			for _, m := range r.Members {
				walk(m.Rule)
			}
		case Array:
			for _, it := range r.Items {
				walk(it)
			}
		}
	}
	walk(r)
	return out
}

// String renders r as content-rule text.
func (r *Rule) String() string {
	var sb strings.Builder
	r.writeTo(&sb)
	return sb.String()
}

func (r *Rule) writeTo(sb *strings.Builder) {
	if r == nil {
		sb.WriteString("<nil>")
		return
	}
	switch r.Kind {
	case Any, String, Integer, Float, Boolean:
		sb.WriteString(r.Kind.String())
	case Literal:
		sb.WriteString(literalText(r.Value))
	case IntRange:
		v := r.Value.(jcr.IntegerRange)
		sb.WriteString(strconv.FormatInt(v.From, 10) + ".." + strconv.FormatInt(v.To, 10))
	case UintRange:
		v := r.Value.(jcr.UintegerRange)
		sb.WriteString(strconv.FormatUint(v.From, 10) + ".." + strconv.FormatUint(v.To, 10))
	case Object:
		sb.WriteByte('{')
		for i, m := range r.Members {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(jcr.Quote(m.Name))
			sb.WriteByte(':')
			m.Rule.writeTo(sb)
		}
		sb.WriteByte('}')
	case Array:
		sb.WriteByte('[')
		for i, it := range r.Items {
			if i > 0 {
				sb.WriteByte(',')
			}
			it.writeTo(sb)
		}
		sb.WriteByte(']')
	case Ref:
		sb.WriteString("$" + r.Name)
	default:
		fmt.Fprintf(sb, "<%v>", r.Kind)
	}
}

func literalText(v any) string {
	switch t := v.(type) {
	case string:
		return jcr.Quote(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case *big.Int:
		return t.String()
	case jcr.Double:
		return jcr.FormatDouble(t.Value, t.Precision)
	case bool:
		return strconv.FormatBool(t)
	case jcr.NullType:
		return "null"
	default:
		panic(fmt.Sprintf("invalid literal type %T", v))
	}
}
