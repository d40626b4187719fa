// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package rule

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/creachadair/jcr"
)

// UndefinedError reports a reference to a rule name that is not bound.
type UndefinedError struct {
	Name string
	From string // the binding containing the reference, or "" at top level
}

func (e *UndefinedError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("undefined rule $%s", e.Name)
	}
	return fmt.Sprintf("undefined rule $%s (referenced by $%s)", e.Name, e.From)
}

// CycleError reports a chain of bindings that refer only to one another, and
// so never reach a rule that constrains a value.
type CycleError struct {
	Names []string // the bindings on the cycle, in order
}

func (e *CycleError) Error() string {
	return "reference cycle: $" + strings.Join(e.Names, " -> $")
}

// A Registry records rule bindings by name. It is a jcr.Handler that binds
// each NamedRule event, and at EndDocument checks that every reference in
// the document is bound and that no binding is a cycle of bare references.
//
// A Registry stores the handles it is given, so Lookup reports the identical
// *Rule that was bound.
type Registry struct {
	jcr.NopHandler[Rule]

	rules map[string]*Rule
	ctx   map[string]jcr.Context // where each name was bound
	names []string               // in binding order
	refs  []ref                  // references outside bindings
}

type ref struct {
	name string
	ctx  jcr.Context
}

var _ jcr.Handler[Rule] = (*Registry)(nil)

// NewRegistry constructs an empty Registry. A zero Registry is also empty and
// ready for use.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]*Rule), ctx: make(map[string]jcr.Context)}
}

// Bind binds rule to name. It reports an error if name is already bound or
// rule is nil.
func (r *Registry) Bind(name string, rule *Rule) error {
	return r.bind(name, rule, jcr.Context{})
}

func (r *Registry) bind(name string, rule *Rule, ctx jcr.Context) error {
	if rule == nil {
		return fmt.Errorf("nil rule for $%s", name)
	} else if _, ok := r.rules[name]; ok {
		return fmt.Errorf("rule $%s already bound at %v", name, r.ctx[name])
	}
	if r.rules == nil {
		r.rules = make(map[string]*Rule)
		r.ctx = make(map[string]jcr.Context)
	}
	r.rules[name] = rule
	r.ctx[name] = ctx
	r.names = append(r.names, name)
	return nil
}

// Lookup reports the rule bound to name, if any.
func (r *Registry) Lookup(name string) (*Rule, bool) {
	rule, ok := r.rules[name]
	return rule, ok
}

// Len reports the number of bound rules.
func (r *Registry) Len() int { return len(r.names) }

// Names returns the bound names in the order they were bound.
func (r *Registry) Names() []string { return append([]string(nil), r.names...) }

// Resolve reports the rule bound to name, following bindings that are bare
// references to other names. It reports *UndefinedError if any name on the
// chain is unbound, or *CycleError if the chain returns to a name it has
// already visited.
func (r *Registry) Resolve(name string) (*Rule, error) {
	var chain []string
	seen := make(map[string]int)
	from := ""
	for {
		if i, ok := seen[name]; ok {
			return nil, &CycleError{Names: append(chain[i:], name)}
		}
		rule, ok := r.rules[name]
		if !ok {
			return nil, &UndefinedError{Name: name, From: from}
		}
		if rule.Kind != Ref {
			return rule, nil
		}
		seen[name] = len(chain)
		chain = append(chain, name)
		from, name = name, rule.Name
	}
}

// Check reports an error if any binding refers to an unbound name, if any
// binding is part of a reference cycle, or if any name referenced outside
// the bindings is unbound.
func (r *Registry) Check() error {
	for _, name := range r.names {
		for _, ref := range r.rules[name].Refs() {
			if _, ok := r.rules[ref]; !ok {
				return &UndefinedError{Name: ref, From: name}
			}
		}
		if _, err := r.Resolve(name); err != nil {
			return err
		}
	}
	for _, ref := range r.refs {
		if _, ok := r.rules[ref.name]; !ok {
			return &UndefinedError{Name: ref.name}
		}
	}
	return nil
}

// BeginDocument discards all bindings and references.
func (r *Registry) BeginDocument() error {
	clear(r.rules)
	clear(r.ctx)
	r.names, r.refs = r.names[:0], r.refs[:0]
	return nil
}

// EndDocument checks the bindings and references of the document.
func (r *Registry) EndDocument() error {
	if err := r.Check(); err != nil {
		return &jcr.ConsumerError{Context: r.errContext(err), Event: "EndDocument", Err: err}
	}
	return nil
}

// errContext reports the position best associated with err.
func (r *Registry) errContext(err error) jcr.Context {
	switch e := err.(type) {
	case *UndefinedError:
		if e.From != "" {
			return r.ctx[e.From]
		}
		for _, ref := range r.refs {
			if ref.name == e.Name {
				return ref.ctx
			}
		}
	case *CycleError:
		return r.ctx[e.Names[0]]
	}
	return jcr.Context{}
}

// RuleName records a reference to be checked at EndDocument.
func (r *Registry) RuleName(text []byte, ctx jcr.Context) error {
	r.refs = append(r.refs, ref{name: string(text), ctx: ctx})
	return nil
}

// BigIntegerValue implements jcr.BigIntegerHandler. Values do not affect the
// bindings, so big integers are accepted and ignored.
func (r *Registry) BigIntegerValue(*big.Int, jcr.Context) error { return nil }

// NamedRule binds rule to name.
func (r *Registry) NamedRule(name []byte, rule *Rule, ctx jcr.Context) error {
	if err := r.bind(string(name), rule, ctx); err != nil {
		return &jcr.ConsumerError{Context: ctx, Event: "NamedRule", Err: err}
	}
	return nil
}
