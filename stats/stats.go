// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package stats implements a jcr.Handler that records Prometheus metrics
// about the events of a stream.
//
// Metrics:
//   - jcr_events_total: events delivered, by event name
//   - jcr_handler_errors_total: events rejected by the wrapped handler, by event name
//   - jcr_documents_total: documents completed
//   - jcr_max_depth: largest nesting depth of objects and arrays seen
package stats

import (
	"math/big"

	"github.com/creachadair/jcr"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace is the metric namespace used by a Counter.
const Namespace = "jcr"

// A Counter is a jcr.Handler that counts events and forwards them to another
// handler.
type Counter[R any] struct {
	h jcr.Handler[R]

	events    *prometheus.CounterVec
	errors    *prometheus.CounterVec
	documents prometheus.Counter
	maxDepth  prometheus.Gauge

	depth, max int
}

// NewCounter returns a Counter that forwards to h and registers its metrics
// with reg. If h == nil, events are counted and discarded. If reg == nil, the
// metrics are registered with a new empty registry.
//
// NewCounter panics if the metrics cannot be registered, for example if reg
// already has a Counter registered.
func NewCounter[R any](h jcr.Handler[R], reg prometheus.Registerer) *Counter[R] {
	if h == nil {
		h = jcr.NopHandler[R]{}
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	c := &Counter[R]{
		h: h,
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "events_total",
				Help:      "Total number of events delivered, by event name",
			},
			[]string{"event"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "handler_errors_total",
				Help:      "Total number of events rejected by the handler, by event name",
			},
			[]string{"event"},
		),
		documents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "documents_total",
			Help:      "Total number of documents completed",
		}),
		maxDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "max_depth",
			Help:      "Largest nesting depth of objects and arrays seen",
		}),
	}
	reg.MustRegister(c.events, c.errors, c.documents, c.maxDepth)
	return c
}

// Events returns the counter for the named event, for example "NullValue".
func (c *Counter[R]) Events(event string) prometheus.Counter {
	return c.events.WithLabelValues(event)
}

// Depth reports the current nesting depth.
func (c *Counter[R]) Depth() int { return c.depth }

// MaxDepth reports the largest nesting depth seen.
func (c *Counter[R]) MaxDepth() int { return c.max }

func (c *Counter[R]) count(event string, err error) error {
	c.events.WithLabelValues(event).Inc()
	if err != nil {
		c.errors.WithLabelValues(event).Inc()
	}
	return err
}

func (c *Counter[R]) enter() {
	c.depth++
	if c.depth > c.max {
		c.max = c.depth
		c.maxDepth.Set(float64(c.max))
	}
}

func (c *Counter[R]) leave() {
	if c.depth > 0 {
		c.depth--
	}
}

func (c *Counter[R]) BeginDocument() error {
	c.depth = 0
	return c.count("BeginDocument", c.h.BeginDocument())
}

func (c *Counter[R]) EndDocument() error {
	err := c.count("EndDocument", c.h.EndDocument())
	if err == nil {
		c.documents.Inc()
	}
	return err
}

func (c *Counter[R]) BeginObject(ctx jcr.Context) error {
	c.enter()
	return c.count("BeginObject", c.h.BeginObject(ctx))
}

func (c *Counter[R]) EndObject(ctx jcr.Context) error {
	c.leave()
	return c.count("EndObject", c.h.EndObject(ctx))
}

func (c *Counter[R]) BeginArray(ctx jcr.Context) error {
	c.enter()
	return c.count("BeginArray", c.h.BeginArray(ctx))
}

func (c *Counter[R]) EndArray(ctx jcr.Context) error {
	c.leave()
	return c.count("EndArray", c.h.EndArray(ctx))
}

func (c *Counter[R]) Name(text []byte, ctx jcr.Context) error {
	return c.count("Name", c.h.Name(text, ctx))
}

func (c *Counter[R]) StringValue(text []byte, ctx jcr.Context) error {
	return c.count("StringValue", c.h.StringValue(text, ctx))
}

func (c *Counter[R]) IntegerValue(v int64, ctx jcr.Context) error {
	return c.count("IntegerValue", c.h.IntegerValue(v, ctx))
}

func (c *Counter[R]) UintegerValue(v uint64, ctx jcr.Context) error {
	return c.count("UintegerValue", c.h.UintegerValue(v, ctx))
}

func (c *Counter[R]) DoubleValue(v float64, precision int, ctx jcr.Context) error {
	return c.count("DoubleValue", c.h.DoubleValue(v, precision, ctx))
}

func (c *Counter[R]) BoolValue(v bool, ctx jcr.Context) error {
	return c.count("BoolValue", c.h.BoolValue(v, ctx))
}

func (c *Counter[R]) NullValue(ctx jcr.Context) error {
	return c.count("NullValue", c.h.NullValue(ctx))
}

func (c *Counter[R]) IntegerRangeValue(from, to int64, ctx jcr.Context) error {
	return c.count("IntegerRangeValue", c.h.IntegerRangeValue(from, to, ctx))
}

func (c *Counter[R]) UintegerRangeValue(from, to uint64, ctx jcr.Context) error {
	return c.count("UintegerRangeValue", c.h.UintegerRangeValue(from, to, ctx))
}

func (c *Counter[R]) RuleName(text []byte, ctx jcr.Context) error {
	return c.count("RuleName", c.h.RuleName(text, ctx))
}

func (c *Counter[R]) RuleDefinition(rule *R, ctx jcr.Context) error {
	return c.count("RuleDefinition", c.h.RuleDefinition(rule, ctx))
}

func (c *Counter[R]) NamedRule(name []byte, rule *R, ctx jcr.Context) error {
	return c.count("NamedRule", c.h.NamedRule(name, rule, ctx))
}

// AcceptsBigIntegers reports whether the wrapped handler accepts big integers.
func (c *Counter[R]) AcceptsBigIntegers() bool { return jcr.AcceptsBigIntegers(c.h) }

// BigIntegerValue implements jcr.BigIntegerHandler. Values are forwarded as
// by jcr.Dispatcher.BigInteger.
func (c *Counter[R]) BigIntegerValue(v *big.Int, ctx jcr.Context) error {
	return c.count("BigIntegerValue", jcr.NewDispatcher(c.h).BigInteger(v, ctx))
}

// Comment implements jcr.CommentHandler. Comments are forwarded if the
// wrapped handler accepts them.
func (c *Counter[R]) Comment(text []byte, ctx jcr.Context) error {
	var err error
	if ch, ok := c.h.(jcr.CommentHandler); ok {
		err = ch.Comment(text, ctx)
	}
	return c.count("Comment", err)
}
