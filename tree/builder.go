// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"errors"
	"io"
	"math/big"

	"github.com/creachadair/jcr"
	"github.com/creachadair/jcr/rule"
)

// Options control how Parse reads its input. A nil *Options is ready for
// use and selects strict JSON-style syntax.
type Options struct {
	AllowComments       bool
	AllowTrailingCommas bool
	MaxDepth            int    // if positive, the maximum nesting depth
	Source              string // the input name reported in positions
}

// Parse parses and returns a single document from r.
func Parse(r io.Reader, opts *Options) (*Document, error) {
	st := jcr.NewStream(r, rule.Compiler{})
	if opts != nil {
		st.AllowComments(opts.AllowComments)
		st.AllowTrailingCommas(opts.AllowTrailingCommas)
		st.SetMaxDepth(opts.MaxDepth)
		st.SetSource(opts.Source)
	}
	b := new(Builder)
	if err := st.Parse(b); err != nil {
		return nil, err
	}
	return b.Document()
}

var (
	_ jcr.Handler[rule.Rule] = (*Builder)(nil)
	_ jcr.BigIntegerHandler  = (*Builder)(nil)
	_ jcr.CommentHandler     = (*Builder)(nil)
)

// A Builder is a jcr.Handler that constructs a Document from the events of
// a stream. Objects with duplicate keys are rejected with *jcr.ConsumerError.
type Builder struct {
	stk []Node // open *Object, *Array, and *Member frames
	doc *Document
}

// Document returns the completed document. It reports an error if no
// document has been received or if the document is incomplete.
func (b *Builder) Document() (*Document, error) {
	if b.doc == nil {
		return nil, errors.New("no document")
	} else if len(b.stk) != 0 {
		return nil, errors.New("incomplete value")
	}
	return b.doc, nil
}

// Depth reports the number of objects and arrays currently open.
func (b *Builder) Depth() int {
	var n int
	for _, v := range b.stk {
		if _, ok := v.(*Member); !ok {
			n++
		}
	}
	return n
}

// PendingName reports the key of the member awaiting its value, if any.
func (b *Builder) PendingName() (string, bool) {
	if n := len(b.stk); n > 0 {
		if m, ok := b.stk[n-1].(*Member); ok {
			return m.Key, true
		}
	}
	return "", false
}

func (b *Builder) top() Node { return b.stk[len(b.stk)-1] }

func (b *Builder) pop() Node {
	last := b.top()
	b.stk = b.stk[:len(b.stk)-1]
	return last
}

func (b *Builder) push(v Node) { b.stk = append(b.stk, v) }

// reduce pops the innermost container and attaches it to its parent.
func (b *Builder) reduce(event string) error { return b.reduceValue(event, b.pop()) }

// reduceValue attaches v to the innermost open frame, or makes it the root.
func (b *Builder) reduceValue(event string, v Node) error {
	if len(b.stk) == 0 {
		if b.doc.Root != nil {
			return jcr.Consumerf(v.Pos(), event, "document already has a root value")
		}
		b.doc.Root = v
		return nil
	}
	switch prev := b.top().(type) {
	case *Member:
		prev.Value = v
		b.pop()
	case *Array:
		prev.Values = append(prev.Values, v)
	case *Object:
		return jcr.Consumerf(v.Pos(), event, "value without a key in object")
	}
	return nil
}

// BeginDocument discards any previous document.
func (b *Builder) BeginDocument() error {
	b.stk = b.stk[:0]
	b.doc = new(Document)
	return nil
}

func (b *Builder) EndDocument() error { return nil }

func (b *Builder) BeginObject(ctx jcr.Context) error {
	b.push(&Object{at: at{ctx}})
	return nil
}

func (b *Builder) EndObject(jcr.Context) error { return b.reduce("EndObject") }

func (b *Builder) BeginArray(ctx jcr.Context) error {
	b.push(&Array{at: at{ctx}})
	return nil
}

func (b *Builder) EndArray(jcr.Context) error { return b.reduce("EndArray") }

func (b *Builder) Name(text []byte, ctx jcr.Context) error {
	// The member is added to its object eagerly, so the object is complete
	// as soon as its last value is reduced.
	var obj *Object
	if n := len(b.stk); n > 0 {
		obj, _ = b.stk[n-1].(*Object)
	}
	if obj == nil {
		return jcr.Consumerf(ctx, "Name", "key %q outside an object", text)
	}
	key := string(text)
	if obj.Find(key) != nil {
		return jcr.Consumerf(ctx, "Name", "duplicate key %q", key)
	}
	m := &Member{Key: key, at: at{ctx}}
	obj.Members = append(obj.Members, m)
	b.push(m)
	return nil
}

func (b *Builder) StringValue(text []byte, ctx jcr.Context) error {
	return b.reduceValue("StringValue", &String{Value: string(text), at: at{ctx}})
}

func (b *Builder) IntegerValue(v int64, ctx jcr.Context) error {
	return b.reduceValue("IntegerValue", &Integer{Value: v, at: at{ctx}})
}

func (b *Builder) UintegerValue(v uint64, ctx jcr.Context) error {
	return b.reduceValue("UintegerValue", &Uinteger{Value: v, at: at{ctx}})
}

func (b *Builder) DoubleValue(v float64, precision int, ctx jcr.Context) error {
	return b.reduceValue("DoubleValue", &Double{Value: v, Precision: precision, at: at{ctx}})
}

func (b *Builder) BoolValue(v bool, ctx jcr.Context) error {
	return b.reduceValue("BoolValue", &Bool{Value: v, at: at{ctx}})
}

func (b *Builder) NullValue(ctx jcr.Context) error {
	return b.reduceValue("NullValue", &Null{at: at{ctx}})
}

func (b *Builder) IntegerRangeValue(from, to int64, ctx jcr.Context) error {
	return b.reduceValue("IntegerRangeValue", &IntRange{From: from, To: to, at: at{ctx}})
}

func (b *Builder) UintegerRangeValue(from, to uint64, ctx jcr.Context) error {
	return b.reduceValue("UintegerRangeValue", &UintRange{From: from, To: to, at: at{ctx}})
}

func (b *Builder) RuleName(text []byte, ctx jcr.Context) error {
	return b.reduceValue("RuleName", &RuleRef{Name: string(text), at: at{ctx}})
}

func (b *Builder) RuleDefinition(r *rule.Rule, ctx jcr.Context) error {
	return b.reduceValue("RuleDefinition", &RuleDef{Rule: r, at: at{ctx}})
}

func (b *Builder) NamedRule(name []byte, r *rule.Rule, ctx jcr.Context) error {
	b.doc.Rules = append(b.doc.Rules, &Binding{Name: string(name), Rule: r, at: at{ctx}})
	return nil
}

// BigIntegerValue implements jcr.BigIntegerHandler.
func (b *Builder) BigIntegerValue(v *big.Int, ctx jcr.Context) error {
	return b.reduceValue("BigIntegerValue", &BigInteger{Value: new(big.Int).Set(v), at: at{ctx}})
}

// Comment implements jcr.CommentHandler.
func (b *Builder) Comment(text []byte, _ jcr.Context) error {
	if b.doc == nil {
		b.doc = new(Document)
	}
	b.doc.Comments = append(b.doc.Comments, string(text))
	return nil
}
