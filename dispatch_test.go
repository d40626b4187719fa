// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jcr_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/creachadair/jcr"
	"github.com/creachadair/jcr/rule"
	"github.com/creachadair/mds/mtest"
)

func TestDispatcherNormalize(t *testing.T) {
	th := new(testHandler)
	d := jcr.NewDispatcher[rule.Rule](th)
	var ctx jcr.Context

	d.BeginDocument()
	d.BeginArray(ctx)
	jcr.Int(d, int8(-3), ctx)
	jcr.Int(d, int16(-300), ctx)
	jcr.Int(d, int32(math.MinInt32), ctx)
	jcr.Int(d, 5, ctx)
	jcr.Uint(d, uint8(255), ctx)
	jcr.Uint(d, uint16(80), ctx)
	jcr.Uint(d, uint64(math.MaxUint64), ctx)
	jcr.Float(d, float32(0.5), 1, ctx)
	jcr.Float(d, 2.25, 3, ctx)
	jcr.IntRange(d, int8(-5), int8(5), ctx)
	jcr.UintRange(d, uint32(1), uint32(10), ctx)
	d.Bool(true, ctx)
	d.Null(ctx)
	d.StringValue("s", ctx)
	d.Text([]byte("t"), ctx)
	d.EndArray(ctx)
	d.EndDocument()

	const want = `
<
BeginArray
Integer -3
Integer -300
Integer -2147483648
Integer 5
Uinteger 255
Uinteger 80
Uinteger 18446744073709551615
Double 0.5 (1)
Double 2.25 (3)
IntRange -5..5
UintRange 1..10
Bool true
Null
String "s"
String "t"
EndArray
>`
	if diff := diffStrings(want, th.output()); diff != "" {
		t.Errorf("Output: (-want, +got)\n%s", diff)
	}
}

func TestDispatcherValue(t *testing.T) {
	th := new(testHandler)
	d := jcr.NewDispatcher[rule.Rule](th)
	var ctx jcr.Context

	values := []any{
		nil, jcr.NullType{}, "a", []byte("b"), true,
		int(-1), int8(-2), int16(-3), int32(-4), int64(-5),
		uint(1), uint8(2), uint16(3), uint32(4), uint64(5),
		float32(1.5), 0.25, jcr.Double{Value: 1.5, Precision: 3},
		jcr.IntegerRange{From: -1, To: 1}, jcr.UintegerRange{From: 2, To: 4},
		big.NewInt(-7), new(big.Int).SetUint64(math.MaxUint64),
	}
	for _, v := range values {
		if err := d.Value(v, ctx); err != nil {
			t.Errorf("Value(%#v) failed: %v", v, err)
		}
	}

	const want = `
Null
Null
String "a"
String "b"
Bool true
Integer -1
Integer -2
Integer -3
Integer -4
Integer -5
Uinteger 1
Uinteger 2
Uinteger 3
Uinteger 4
Uinteger 5
Double 1.5 (0)
Double 0.25 (0)
Double 1.5 (3)
IntRange -1..1
UintRange 2..4
Integer -7
Uinteger 18446744073709551615`
	if diff := diffStrings(want, th.output()); diff != "" {
		t.Errorf("Output: (-want, +got)\n%s", diff)
	}

	t.Run("Unsupported", func(t *testing.T) {
		mtest.MustPanic(t, func() { d.Value([]int{1}, ctx) })
		mtest.MustPanic(t, func() { d.Value(struct{}{}, ctx) })
		mtest.MustPanic(t, func() { d.Value(complex(1, 2), ctx) })
	})
}

func TestDispatcherBigInteger(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	var ctx jcr.Context

	t.Run("Unsupported", func(t *testing.T) {
		d := jcr.NewDispatcher[rule.Rule](new(testHandler))
		if err := d.BigInteger(huge, ctx); !errors.Is(err, jcr.ErrIntegerRange) {
			t.Errorf("BigInteger: got %v, want %v", err, jcr.ErrIntegerRange)
		}
	})

	t.Run("Supported", func(t *testing.T) {
		th := &bigHandler{testHandler: new(testHandler)}
		d := jcr.NewDispatcher[rule.Rule](th)
		if err := d.BigInteger(huge, ctx); err != nil {
			t.Fatalf("BigInteger: unexpected error: %v", err)
		}
		if err := d.BigInteger(big.NewInt(12), ctx); err != nil {
			t.Fatalf("BigInteger: unexpected error: %v", err)
		}
		const want = "BigInteger 123456789012345678901234567890\nUinteger 12"
		if diff := diffStrings(want, th.output()); diff != "" {
			t.Errorf("Output: (-want, +got)\n%s", diff)
		}
	})
}

func TestDispatcherPropagates(t *testing.T) {
	errBad := errors.New("bad")
	th := &testHandler{failOn: "IntRange", failErr: errBad}
	d := jcr.NewDispatcher[rule.Rule](th)

	// The dispatcher does not check its arguments.
	if err := d.Value(jcr.UintegerRange{From: 10, To: 1}, jcr.Context{}); err != nil {
		t.Errorf("Value: unexpected error: %v", err)
	}
	if err := jcr.IntRange(d, 1, 2, jcr.Context{}); err != errBad {
		t.Errorf("IntRange: got %v, want %v", err, errBad)
	}
	if d.Handler() != jcr.Handler[rule.Rule](th) {
		t.Error("Handler did not return the wrapped handler")
	}
}

func TestNopHandler(t *testing.T) {
	var h jcr.Handler[rule.Rule] = jcr.NopHandler[rule.Rule]{}
	d := jcr.NewDispatcher(h)
	r := &rule.Rule{Kind: rule.Any}
	for _, err := range []error{
		d.BeginDocument(),
		d.NamedRule([]byte("x"), r, jcr.Context{}),
		d.RuleDefinition(r, jcr.Context{}),
		d.RuleName([]byte("x"), jcr.Context{}),
		d.EndDocument(),
	} {
		if err != nil {
			t.Errorf("NopHandler: unexpected error: %v", err)
		}
	}
}
