// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jcr

import (
	"fmt"
	"math/big"

	"golang.org/x/exp/constraints"
)

// A Dispatcher is the producer-facing side of a Handler. It accepts values in
// whatever form the producer has them and forwards each call to exactly one
// method of the handler. A Dispatcher does not check its arguments, and
// returns the handler's error unchanged.
type Dispatcher[R any] struct{ h Handler[R] }

// NewDispatcher returns a Dispatcher that delivers events to h.
func NewDispatcher[R any](h Handler[R]) Dispatcher[R] { return Dispatcher[R]{h: h} }

// Handler returns the handler d delivers to.
func (d Dispatcher[R]) Handler() Handler[R] { return d.h }

func (d Dispatcher[R]) BeginDocument() error           { return d.h.BeginDocument() }
func (d Dispatcher[R]) EndDocument() error             { return d.h.EndDocument() }
func (d Dispatcher[R]) BeginObject(ctx Context) error  { return d.h.BeginObject(ctx) }
func (d Dispatcher[R]) EndObject(ctx Context) error    { return d.h.EndObject(ctx) }
func (d Dispatcher[R]) BeginArray(ctx Context) error   { return d.h.BeginArray(ctx) }
func (d Dispatcher[R]) EndArray(ctx Context) error     { return d.h.EndArray(ctx) }
func (d Dispatcher[R]) Bool(v bool, ctx Context) error { return d.h.BoolValue(v, ctx) }
func (d Dispatcher[R]) Null(ctx Context) error         { return d.h.NullValue(ctx) }

// Name reports a key given as bytes.
func (d Dispatcher[R]) Name(text []byte, ctx Context) error {
	return d.h.Name(text, ctx)
}

// NameString reports a key given as a string.
func (d Dispatcher[R]) NameString(name string, ctx Context) error {
	return d.h.Name([]byte(name), ctx)
}

// Text reports a string value given as bytes.
func (d Dispatcher[R]) Text(text []byte, ctx Context) error {
	return d.h.StringValue(text, ctx)
}

// StringValue reports a string value given as a string.
func (d Dispatcher[R]) StringValue(s string, ctx Context) error {
	return d.h.StringValue([]byte(s), ctx)
}

// RuleName reports a reference to the rule called name.
func (d Dispatcher[R]) RuleName(name []byte, ctx Context) error {
	return d.h.RuleName(name, ctx)
}

// RuleDefinition reports an anonymous rule.
func (d Dispatcher[R]) RuleDefinition(rule *R, ctx Context) error {
	return d.h.RuleDefinition(rule, ctx)
}

// NamedRule binds rule to name.
func (d Dispatcher[R]) NamedRule(name []byte, rule *R, ctx Context) error {
	return d.h.NamedRule(name, rule, ctx)
}

// BigInteger reports an integer of arbitrary size. Values that fit in 64 bits
// are reported as IntegerValue (negative) or UintegerValue (non-negative).
// Larger values go to the handler's BigIntegerValue method if it accepts them
// (see AcceptsBigIntegers); otherwise BigInteger reports an error wrapping
// ErrIntegerRange.
func (d Dispatcher[R]) BigInteger(v *big.Int, ctx Context) error {
	switch {
	case v.Sign() < 0 && v.IsInt64():
		return d.h.IntegerValue(v.Int64(), ctx)
	case v.Sign() >= 0 && v.IsUint64():
		return d.h.UintegerValue(v.Uint64(), ctx)
	}
	if AcceptsBigIntegers(d.h) {
		return d.h.(BigIntegerHandler).BigIntegerValue(v, ctx)
	}
	return fmt.Errorf("value %v: %w", v, ErrIntegerRange)
}

// Value reports v, whose concrete type selects the event. It accepts nil and
// NullType (NullValue), string and []byte (StringValue), bool (BoolValue), any
// integer type (IntegerValue or UintegerValue by signedness), float32 and
// float64 (DoubleValue with unknown precision), Double (DoubleValue),
// IntegerRange, UintegerRange, and *big.Int (see BigInteger).
// Value panics if v does not have one of those types.
func (d Dispatcher[R]) Value(v any, ctx Context) error {
	switch t := v.(type) {
	case nil, NullType:
		return d.h.NullValue(ctx)
	case string:
		return d.StringValue(t, ctx)
	case []byte:
		return d.h.StringValue(t, ctx)
	case bool:
		return d.h.BoolValue(t, ctx)
	case int:
		return Int(d, t, ctx)
	case int8:
		return Int(d, t, ctx)
	case int16:
		return Int(d, t, ctx)
	case int32:
		return Int(d, t, ctx)
	case int64:
		return Int(d, t, ctx)
	case uint:
		return Uint(d, t, ctx)
	case uint8:
		return Uint(d, t, ctx)
	case uint16:
		return Uint(d, t, ctx)
	case uint32:
		return Uint(d, t, ctx)
	case uint64:
		return Uint(d, t, ctx)
	case float32:
		return Float(d, t, 0, ctx)
	case float64:
		return Float(d, t, 0, ctx)
	case Double:
		return d.h.DoubleValue(t.Value, t.Precision, ctx)
	case IntegerRange:
		return d.h.IntegerRangeValue(t.From, t.To, ctx)
	case UintegerRange:
		return d.h.UintegerRangeValue(t.From, t.To, ctx)
	case *big.Int:
		return d.BigInteger(t, ctx)
	default:
		panic(fmt.Sprintf("unsupported value type %T", v))
	}
}

// NullType represents the null constant. Dispatcher.Value reports a
// NullType{} as NullValue.
type NullType struct{}

// A Double is a floating-point value with the number of significant digits of
// its source literal.
type Double struct {
	Value     float64
	Precision int
}

// An IntegerRange is an inclusive range of signed integers.
type IntegerRange struct{ From, To int64 }

// An UintegerRange is an inclusive range of unsigned integers.
type UintegerRange struct{ From, To uint64 }

// Signed normalizes a signed integer of any width to int64.
func Signed[T constraints.Signed](v T) int64 { return int64(v) }

// Unsigned normalizes an unsigned integer of any width to uint64.
func Unsigned[T constraints.Unsigned](v T) uint64 { return uint64(v) }

// Floating normalizes a floating-point value of either width to float64.
func Floating[T constraints.Float](v T) float64 { return float64(v) }

// Int reports a signed integer of any width as an IntegerValue.
func Int[R any, T constraints.Signed](d Dispatcher[R], v T, ctx Context) error {
	return d.h.IntegerValue(Signed(v), ctx)
}

// Uint reports an unsigned integer of any width as an UintegerValue.
func Uint[R any, T constraints.Unsigned](d Dispatcher[R], v T, ctx Context) error {
	return d.h.UintegerValue(Unsigned(v), ctx)
}

// Float reports a floating-point value of either width as a DoubleValue with
// the given number of significant digits.
func Float[R any, T constraints.Float](d Dispatcher[R], v T, precision int, ctx Context) error {
	return d.h.DoubleValue(Floating(v), precision, ctx)
}

// IntRange reports an inclusive range of signed integers.
func IntRange[R any, T constraints.Signed](d Dispatcher[R], from, to T, ctx Context) error {
	return d.h.IntegerRangeValue(Signed(from), Signed(to), ctx)
}

// UintRange reports an inclusive range of unsigned integers.
func UintRange[R any, T constraints.Unsigned](d Dispatcher[R], from, to T, ctx Context) error {
	return d.h.UintegerRangeValue(Unsigned(from), Unsigned(to), ctx)
}
