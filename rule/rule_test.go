// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package rule_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/creachadair/jcr"
	"github.com/creachadair/jcr/rule"
	"github.com/google/go-cmp/cmp"
)

// compile parses input as the binding "$r = ..." and returns its rule.
// The name $tag is also bound, for use as a reference.
func compile(t *testing.T, input string) *rule.Rule {
	t.Helper()
	reg := rule.NewRegistry()
	if err := jcr.NewStream(strings.NewReader("$tag = any $r = "+input), rule.Compiler{}).Parse(reg); err != nil {
		t.Fatalf("Parse %#q failed: %v", input, err)
	}
	r, ok := reg.Lookup("r")
	if !ok {
		t.Fatal("Rule $r not bound")
	}
	return r
}

func TestCompile(t *testing.T) {
	tests := []string{
		`any`, `string`, `integer`, `float`, `boolean`,
		`"text"`, `-3`, `25`, `1.50`, `true`, `null`,
		`1..10`, `-5..5`,
		`[]`, `{}`,
		`[integer,"x",[1..2]]`,
		`{"a":string,"b":{"c":[boolean,null]},"d":$r}`,
	}
	for _, input := range tests {
		if got := compile(t, input).String(); got != input {
			t.Errorf("Compile %#q: got %#q", input, got)
		}
	}
}

func TestCompileStructure(t *testing.T) {
	r := compile(t, `{"port": 1..65535, "host": string, "tags": [$tag, 2.50]}`)
	want := &rule.Rule{Kind: rule.Object, Members: []rule.Member{
		{Name: "port", Rule: &rule.Rule{Kind: rule.UintRange, Value: jcr.UintegerRange{From: 1, To: 65535}}},
		{Name: "host", Rule: &rule.Rule{Kind: rule.String}},
		{Name: "tags", Rule: &rule.Rule{Kind: rule.Array, Items: []*rule.Rule{
			{Kind: rule.Ref, Name: "tag"},
			{Kind: rule.Literal, Value: jcr.Double{Value: 2.5, Precision: 3}},
		}}},
	}}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("Rule: (-want, +got)\n%s", diff)
	}
	if got := r.Find("host"); got == nil || got.Kind != rule.String {
		t.Errorf("Find(host): got %v, want string", got)
	}
	if got := r.Find("nonesuch"); got != nil {
		t.Errorf("Find(nonesuch): got %v, want nil", got)
	}
	if diff := cmp.Diff([]string{"tag"}, r.Refs()); diff != "" {
		t.Errorf("Refs: (-want, +got)\n%s", diff)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		input string
		event string
	}{
		{`{"a": 1, "a": 2}`, "Name"},
		{`{"a": {"b": 1, "b": 1}}`, "Name"},
	}
	for _, test := range tests {
		err := jcr.NewStream(strings.NewReader("$r = "+test.input), rule.Compiler{}).Parse(rule.NewRegistry())
		var cerr *jcr.ConsumerError
		if !errors.As(err, &cerr) {
			t.Errorf("Parse %#q: got %v, want *ConsumerError", test.input, err)
			continue
		}
		if cerr.Event != test.event {
			t.Errorf("Parse %#q: event %q, want %q", test.input, cerr.Event, test.event)
		}
	}
}

func TestBuilder(t *testing.T) {
	var ctx jcr.Context
	b := rule.Compiler{}.Builder()
	if _, err := b.Rule(); err == nil {
		t.Error("Rule of an empty builder: got nil, want error")
	}

	d := jcr.NewDispatcher[rule.Rule](b)
	d.BeginArray(ctx)
	if _, err := b.Rule(); err == nil {
		t.Error("Rule of an incomplete builder: got nil, want error")
	}
	if err := d.NamedRule([]byte("x"), &rule.Rule{}, ctx); err == nil {
		t.Error("NamedRule in a builder: got nil, want error")
	}
	if err := d.NameString("k", ctx); err == nil {
		t.Error("Name in an array: got nil, want error")
	}
	d.Value(int8(-4), ctx)
	d.EndArray(ctx)
	if err := d.Null(ctx); err == nil {
		t.Error("Second value: got nil, want error")
	}

	r, err := b.Rule()
	if err != nil {
		t.Fatalf("Rule failed: %v", err)
	}
	if got, want := r.String(), "[-4]"; got != want {
		t.Errorf("Rule: got %q, want %q", got, want)
	}
}

func TestBuilderSharesHandles(t *testing.T) {
	var ctx jcr.Context
	shared := &rule.Rule{Kind: rule.Integer}
	b := new(rule.Builder)
	d := jcr.NewDispatcher[rule.Rule](b)
	d.BeginObject(ctx)
	d.NameString("a", ctx)
	d.RuleDefinition(shared, ctx)
	d.NameString("b", ctx)
	d.RuleDefinition(shared, ctx)
	d.EndObject(ctx)

	r, err := b.Rule()
	if err != nil {
		t.Fatalf("Rule failed: %v", err)
	}
	if r.Find("a") != shared || r.Find("b") != shared {
		t.Error("Builder did not keep the shared rule handle")
	}

	b.Reset()
	if _, err := b.Rule(); err == nil {
		t.Error("Rule after Reset: got nil, want error")
	}
}

func TestTypeRule(t *testing.T) {
	var c rule.Compiler
	for _, kw := range jcr.Keywords() {
		r, err := c.TypeRule(kw, jcr.Context{})
		if err != nil {
			t.Errorf("TypeRule(%q) failed: %v", kw, err)
			continue
		}
		if got := r.String(); got != kw {
			t.Errorf("TypeRule(%q): got %q", kw, got)
		}
	}
	if _, err := c.TypeRule("number", jcr.Context{}); err == nil {
		t.Error("TypeRule(number): got nil, want error")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind rule.Kind
		want string
	}{
		{rule.Any, "any"},
		{rule.Boolean, "boolean"},
		{rule.IntRange, "range"},
		{rule.Ref, "reference"},
		{rule.Kind(99), "Kind(99)"},
	}
	for _, test := range tests {
		if got := test.kind.String(); got != test.want {
			t.Errorf("String(%d): got %q, want %q", test.kind, got, test.want)
		}
	}
}
