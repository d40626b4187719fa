// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jcr

import (
	"fmt"
	"math/big"
)

// Multi is a Handler that delivers each event to a sequence of handlers in
// order. Delivery stops at the first handler that reports an error, and that
// error is returned.
//
// A Multi forwards comments only to the handlers that accept them. It accepts
// big integers only if all its handlers do.
type Multi[R any] []Handler[R]

// NewMulti returns a Multi that delivers events to each of hs in order.
func NewMulti[R any](hs ...Handler[R]) Multi[R] { return Multi[R](hs) }

func (m Multi[R]) each(f func(Handler[R]) error) error {
	for _, h := range m {
		if err := f(h); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi[R]) BeginDocument() error {
	return m.each(func(h Handler[R]) error { return h.BeginDocument() })
}

func (m Multi[R]) EndDocument() error {
	return m.each(func(h Handler[R]) error { return h.EndDocument() })
}

func (m Multi[R]) BeginObject(ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.BeginObject(ctx) })
}

func (m Multi[R]) EndObject(ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.EndObject(ctx) })
}

func (m Multi[R]) BeginArray(ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.BeginArray(ctx) })
}

func (m Multi[R]) EndArray(ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.EndArray(ctx) })
}

func (m Multi[R]) Name(text []byte, ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.Name(text, ctx) })
}

func (m Multi[R]) StringValue(text []byte, ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.StringValue(text, ctx) })
}

func (m Multi[R]) IntegerValue(v int64, ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.IntegerValue(v, ctx) })
}

func (m Multi[R]) UintegerValue(v uint64, ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.UintegerValue(v, ctx) })
}

func (m Multi[R]) DoubleValue(v float64, precision int, ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.DoubleValue(v, precision, ctx) })
}

func (m Multi[R]) BoolValue(v bool, ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.BoolValue(v, ctx) })
}

func (m Multi[R]) NullValue(ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.NullValue(ctx) })
}

func (m Multi[R]) IntegerRangeValue(from, to int64, ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.IntegerRangeValue(from, to, ctx) })
}

func (m Multi[R]) UintegerRangeValue(from, to uint64, ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.UintegerRangeValue(from, to, ctx) })
}

func (m Multi[R]) RuleName(text []byte, ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.RuleName(text, ctx) })
}

func (m Multi[R]) RuleDefinition(rule *R, ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.RuleDefinition(rule, ctx) })
}

func (m Multi[R]) NamedRule(name []byte, rule *R, ctx Context) error {
	return m.each(func(h Handler[R]) error { return h.NamedRule(name, rule, ctx) })
}

// Comment implements CommentHandler.
func (m Multi[R]) Comment(text []byte, ctx Context) error {
	return m.each(func(h Handler[R]) error {
		if ch, ok := h.(CommentHandler); ok {
			return ch.Comment(text, ctx)
		}
		return nil
	})
}

// AcceptsBigIntegers reports whether every handler of m accepts big integers.
func (m Multi[R]) AcceptsBigIntegers() bool {
	for _, h := range m {
		if !AcceptsBigIntegers(h) {
			return false
		}
	}
	return true
}

// BigIntegerValue implements BigIntegerHandler. If any handler of m does not
// accept big integers, no handler receives v, and BigIntegerValue reports an
// error wrapping ErrIntegerRange.
func (m Multi[R]) BigIntegerValue(v *big.Int, ctx Context) error {
	if !m.AcceptsBigIntegers() {
		return fmt.Errorf("value %v: %w", v, ErrIntegerRange)
	}
	return m.each(func(h Handler[R]) error { return NewDispatcher(h).BigInteger(v, ctx) })
}
