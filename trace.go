// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jcr

import (
	"context"
	"log/slog"
	"math/big"
)

// A Tracer is a Handler that forwards each event to another handler and logs
// it. Events are logged at debug level, with the event name as the
// message and the position and payload as attributes. An event that the
// wrapped handler rejects is logged again at warning level with the error.
type Tracer[R any] struct {
	h   Handler[R]
	log *slog.Logger
}

// NewTracer returns a Tracer that logs to logger and forwards to h.
// If h == nil, events are logged and discarded. If logger == nil, the
// default logger is used.
func NewTracer[R any](h Handler[R], logger *slog.Logger) *Tracer[R] {
	if h == nil {
		h = NopHandler[R]{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracer[R]{h: h, log: logger}
}

func posAttrs(ctx Context) []slog.Attr {
	return []slog.Attr{
		slog.Int("line", ctx.Line),
		slog.Int("column", ctx.Column),
		slog.Int("offset", ctx.Offset),
	}
}

func (t *Tracer[R]) trace(event string, err error, attrs ...slog.Attr) error {
	t.log.LogAttrs(context.Background(), slog.LevelDebug, event, attrs...)
	if err != nil {
		t.log.LogAttrs(context.Background(), slog.LevelWarn, event,
			append(attrs, slog.Any("error", err))...)
	}
	return err
}

func (t *Tracer[R]) at(event string, ctx Context, err error, attrs ...slog.Attr) error {
	return t.trace(event, err, append(posAttrs(ctx), attrs...)...)
}

func (t *Tracer[R]) BeginDocument() error { return t.trace("BeginDocument", t.h.BeginDocument()) }
func (t *Tracer[R]) EndDocument() error   { return t.trace("EndDocument", t.h.EndDocument()) }

func (t *Tracer[R]) BeginObject(ctx Context) error {
	return t.at("BeginObject", ctx, t.h.BeginObject(ctx))
}

func (t *Tracer[R]) EndObject(ctx Context) error {
	return t.at("EndObject", ctx, t.h.EndObject(ctx))
}

func (t *Tracer[R]) BeginArray(ctx Context) error {
	return t.at("BeginArray", ctx, t.h.BeginArray(ctx))
}

func (t *Tracer[R]) EndArray(ctx Context) error {
	return t.at("EndArray", ctx, t.h.EndArray(ctx))
}

func (t *Tracer[R]) Name(text []byte, ctx Context) error {
	return t.at("Name", ctx, t.h.Name(text, ctx), slog.String("text", string(text)))
}

func (t *Tracer[R]) StringValue(text []byte, ctx Context) error {
	return t.at("StringValue", ctx, t.h.StringValue(text, ctx), slog.String("text", string(text)))
}

func (t *Tracer[R]) IntegerValue(v int64, ctx Context) error {
	return t.at("IntegerValue", ctx, t.h.IntegerValue(v, ctx), slog.Int64("value", v))
}

func (t *Tracer[R]) UintegerValue(v uint64, ctx Context) error {
	return t.at("UintegerValue", ctx, t.h.UintegerValue(v, ctx), slog.Uint64("value", v))
}

func (t *Tracer[R]) DoubleValue(v float64, precision int, ctx Context) error {
	return t.at("DoubleValue", ctx, t.h.DoubleValue(v, precision, ctx),
		slog.Float64("value", v), slog.Int("precision", precision))
}

func (t *Tracer[R]) BoolValue(v bool, ctx Context) error {
	return t.at("BoolValue", ctx, t.h.BoolValue(v, ctx), slog.Bool("value", v))
}

func (t *Tracer[R]) NullValue(ctx Context) error {
	return t.at("NullValue", ctx, t.h.NullValue(ctx))
}

func (t *Tracer[R]) IntegerRangeValue(from, to int64, ctx Context) error {
	return t.at("IntegerRangeValue", ctx, t.h.IntegerRangeValue(from, to, ctx),
		slog.Int64("from", from), slog.Int64("to", to))
}

func (t *Tracer[R]) UintegerRangeValue(from, to uint64, ctx Context) error {
	return t.at("UintegerRangeValue", ctx, t.h.UintegerRangeValue(from, to, ctx),
		slog.Uint64("from", from), slog.Uint64("to", to))
}

func (t *Tracer[R]) RuleName(text []byte, ctx Context) error {
	return t.at("RuleName", ctx, t.h.RuleName(text, ctx), slog.String("name", string(text)))
}

func (t *Tracer[R]) RuleDefinition(rule *R, ctx Context) error {
	return t.at("RuleDefinition", ctx, t.h.RuleDefinition(rule, ctx), slog.Any("rule", rule))
}

func (t *Tracer[R]) NamedRule(name []byte, rule *R, ctx Context) error {
	return t.at("NamedRule", ctx, t.h.NamedRule(name, rule, ctx),
		slog.String("name", string(name)), slog.Any("rule", rule))
}

// Comment implements CommentHandler.
func (t *Tracer[R]) Comment(text []byte, ctx Context) error {
	var err error
	if ch, ok := t.h.(CommentHandler); ok {
		err = ch.Comment(text, ctx)
	}
	return t.at("Comment", ctx, err, slog.String("text", string(text)))
}

// AcceptsBigIntegers reports whether the wrapped handler accepts big integers.
func (t *Tracer[R]) AcceptsBigIntegers() bool { return AcceptsBigIntegers(t.h) }

// BigIntegerValue implements BigIntegerHandler.
func (t *Tracer[R]) BigIntegerValue(v *big.Int, ctx Context) error {
	err := NewDispatcher(t.h).BigInteger(v, ctx)
	return t.at("BigIntegerValue", ctx, err, slog.String("value", v.String()))
}
