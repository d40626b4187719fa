// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package rule

import (
	"errors"
	"math/big"

	"github.com/creachadair/jcr"
)

var (
	_ jcr.RuleCompiler[Rule] = Compiler{}
	_ jcr.RuleBuilder[Rule]  = (*Builder)(nil)
	_ jcr.BigIntegerHandler  = (*Builder)(nil)
)

// Compiler implements jcr.RuleCompiler for *Rule handles.
// A zero value is ready for use.
type Compiler struct{}

// TypeRule returns a new rule for the given type keyword.
func (Compiler) TypeRule(keyword string, ctx jcr.Context) (*Rule, error) {
	k, ok := KindOf(keyword)
	if !ok {
		return nil, jcr.Consumerf(ctx, "TypeRule", "unknown type keyword %q", keyword)
	}
	return &Rule{Kind: k}, nil
}

// Builder returns a new empty Builder.
func (Compiler) Builder() jcr.RuleBuilder[Rule] { return new(Builder) }

// A Builder is a jcr.Handler that compiles the events of a single value into
// a Rule. Objects and arrays become Object and Array rules, scalars become
// Literal rules, and rule events are incorporated by reference.
//
// A Builder rejects duplicate member names and nested bindings with a
// *jcr.ConsumerError.
type Builder struct {
	stk  []*Rule  // open objects and arrays
	name []string // pending member name for each open object
	root *Rule
}

// Reset discards any partial state in b so it can be reused.
func (b *Builder) Reset() { b.stk, b.name, b.root = b.stk[:0], b.name[:0], nil }

// Rule returns the compiled rule. It reports an error if no value has been
// received or if the value is incomplete.
func (b *Builder) Rule() (*Rule, error) {
	if len(b.stk) != 0 {
		return nil, errors.New("incomplete rule")
	} else if b.root == nil {
		return nil, errors.New("empty rule")
	}
	return b.root, nil
}

// add attaches r to the innermost open container, or makes it the root.
func (b *Builder) add(event string, r *Rule, ctx jcr.Context) error {
	n := len(b.stk)
	if n == 0 {
		if b.root != nil {
			return jcr.Consumerf(ctx, event, "rule already has a value")
		}
		b.root = r
		return nil
	}
	switch top := b.stk[n-1]; top.Kind {
	case Object:
		top.Members = append(top.Members, Member{Name: b.name[n-1], Rule: r})
	case Array:
		top.Items = append(top.Items, r)
	}
	return nil
}

func (b *Builder) push(event string, r *Rule, ctx jcr.Context) error {
	if err := b.add(event, r, ctx); err != nil {
		return err
	}
	b.stk = append(b.stk, r)
	b.name = append(b.name, "")
	return nil
}

func (b *Builder) pop() error {
	b.stk = b.stk[:len(b.stk)-1]
	b.name = b.name[:len(b.name)-1]
	return nil
}

func (b *Builder) literal(event string, v any, ctx jcr.Context) error {
	return b.add(event, &Rule{Kind: Literal, Value: v}, ctx)
}

func (b *Builder) BeginDocument() error { return nil }
func (b *Builder) EndDocument() error   { return nil }

func (b *Builder) BeginObject(ctx jcr.Context) error {
	return b.push("BeginObject", &Rule{Kind: Object}, ctx)
}

func (b *Builder) EndObject(jcr.Context) error { return b.pop() }

func (b *Builder) BeginArray(ctx jcr.Context) error {
	return b.push("BeginArray", &Rule{Kind: Array}, ctx)
}

func (b *Builder) EndArray(jcr.Context) error { return b.pop() }

func (b *Builder) Name(text []byte, ctx jcr.Context) error {
	n := len(b.stk)
	if n == 0 || b.stk[n-1].Kind != Object {
		return jcr.Consumerf(ctx, "Name", "name %q outside an object", text)
	} else if b.stk[n-1].Find(string(text)) != nil {
		return jcr.Consumerf(ctx, "Name", "duplicate member %q", text)
	}
	b.name[n-1] = string(text)
	return nil
}

func (b *Builder) StringValue(text []byte, ctx jcr.Context) error {
	return b.literal("StringValue", string(text), ctx)
}

func (b *Builder) IntegerValue(v int64, ctx jcr.Context) error {
	return b.literal("IntegerValue", v, ctx)
}

func (b *Builder) UintegerValue(v uint64, ctx jcr.Context) error {
	return b.literal("UintegerValue", v, ctx)
}

func (b *Builder) DoubleValue(v float64, precision int, ctx jcr.Context) error {
	return b.literal("DoubleValue", jcr.Double{Value: v, Precision: precision}, ctx)
}

func (b *Builder) BoolValue(v bool, ctx jcr.Context) error {
	return b.literal("BoolValue", v, ctx)
}

func (b *Builder) NullValue(ctx jcr.Context) error {
	return b.literal("NullValue", jcr.NullType{}, ctx)
}

func (b *Builder) IntegerRangeValue(from, to int64, ctx jcr.Context) error {
	return b.add("IntegerRangeValue", &Rule{Kind: IntRange, Value: jcr.IntegerRange{From: from, To: to}}, ctx)
}

func (b *Builder) UintegerRangeValue(from, to uint64, ctx jcr.Context) error {
	return b.add("UintegerRangeValue", &Rule{Kind: UintRange, Value: jcr.UintegerRange{From: from, To: to}}, ctx)
}

func (b *Builder) RuleName(text []byte, ctx jcr.Context) error {
	return b.add("RuleName", &Rule{Kind: Ref, Name: string(text)}, ctx)
}

func (b *Builder) RuleDefinition(rule *Rule, ctx jcr.Context) error {
	return b.add("RuleDefinition", rule, ctx)
}

func (b *Builder) NamedRule(name []byte, _ *Rule, ctx jcr.Context) error {
	return jcr.Consumerf(ctx, "NamedRule", "binding of %q inside a rule", name)
}

// BigIntegerValue implements jcr.BigIntegerHandler.
func (b *Builder) BigIntegerValue(v *big.Int, ctx jcr.Context) error {
	return b.literal("BigIntegerValue", new(big.Int).Set(v), ctx)
}
