// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jcr

import (
	"fmt"
	"math/big"
)

// A Checker is a Handler that verifies the structure of the event protocol
// before forwarding each event to another handler. A Dispatcher trusts its
// producer; wrap the consumer in a Checker to detect a producer that emits
// malformed event sequences.
//
// A Checker reports a *ProtocolError, and does not forward the event, if:
//
//   - any event precedes BeginDocument or follows EndDocument,
//   - BeginDocument occurs more than once,
//   - an EndObject or EndArray does not match the innermost open container,
//   - EndDocument occurs with containers still open,
//   - a Name occurs outside an object, or while a name is already pending,
//   - a value occurs in an object without a pending name,
//   - more than one value occurs at the top level of the document,
//   - a NamedRule occurs inside a container,
//   - a range has from > to,
//   - a rule handle is nil, or
//   - the offset of a context is less than that of an earlier event.
type Checker[R any] struct {
	h Handler[R]

	begun, ended bool
	stack        []frame
	roots        int // values seen at the top level
	offset       int // greatest offset seen
}

type frame struct {
	object bool // object (true) or array (false)
	named  bool // a name is pending (objects only)
}

// NewChecker returns a Checker that forwards valid events to h.
func NewChecker[R any](h Handler[R]) *Checker[R] { return &Checker[R]{h: h} }

// Depth reports the number of currently-open containers.
func (c *Checker[R]) Depth() int { return len(c.stack) }

func (c *Checker[R]) fail(ctx Context, event, msg string, args ...any) error {
	return &ProtocolError{Context: ctx, Event: event, Message: fmt.Sprintf(msg, args...)}
}

func (c *Checker[R]) pre(ctx Context, event string) error {
	if !c.begun {
		return c.fail(ctx, event, "event before BeginDocument")
	} else if c.ended {
		return c.fail(ctx, event, "event after EndDocument")
	} else if ctx.Offset < c.offset {
		return c.fail(ctx, event, "offset %d precedes offset %d", ctx.Offset, c.offset)
	}
	c.offset = ctx.Offset
	return nil
}

// value checks that a value may occur in the current position, and records
// that it did.
func (c *Checker[R]) value(ctx Context, event string) error {
	if err := c.pre(ctx, event); err != nil {
		return err
	}
	if len(c.stack) == 0 {
		if c.roots != 0 {
			return c.fail(ctx, event, "multiple values at top level")
		}
		c.roots++
		return nil
	}
	top := &c.stack[len(c.stack)-1]
	if top.object {
		if !top.named {
			return c.fail(ctx, event, "value in object without a name")
		}
		top.named = false
	}
	return nil
}

func (c *Checker[R]) end(ctx Context, event string, object bool) error {
	if err := c.pre(ctx, event); err != nil {
		return err
	}
	if len(c.stack) == 0 {
		return c.fail(ctx, event, "no open container")
	}
	top := c.stack[len(c.stack)-1]
	if top.object != object {
		return c.fail(ctx, event, "innermost container is %s", kindName(top.object))
	} else if top.named {
		return c.fail(ctx, event, "name without a value")
	}
	c.stack = c.stack[:len(c.stack)-1]
	return nil
}

func kindName(object bool) string {
	if object {
		return "an object"
	}
	return "an array"
}

func (c *Checker[R]) BeginDocument() error {
	if c.begun {
		return c.fail(Context{}, "BeginDocument", "document already begun")
	}
	c.begun = true
	return c.h.BeginDocument()
}

func (c *Checker[R]) EndDocument() error {
	if err := c.pre(Context{Offset: c.offset}, "EndDocument"); err != nil {
		return err
	} else if len(c.stack) != 0 {
		return c.fail(Context{}, "EndDocument", "%d containers still open", len(c.stack))
	}
	c.ended = true
	return c.h.EndDocument()
}

func (c *Checker[R]) BeginObject(ctx Context) error {
	if err := c.value(ctx, "BeginObject"); err != nil {
		return err
	}
	c.stack = append(c.stack, frame{object: true})
	return c.h.BeginObject(ctx)
}

func (c *Checker[R]) EndObject(ctx Context) error {
	if err := c.end(ctx, "EndObject", true); err != nil {
		return err
	}
	return c.h.EndObject(ctx)
}

func (c *Checker[R]) BeginArray(ctx Context) error {
	if err := c.value(ctx, "BeginArray"); err != nil {
		return err
	}
	c.stack = append(c.stack, frame{object: false})
	return c.h.BeginArray(ctx)
}

func (c *Checker[R]) EndArray(ctx Context) error {
	if err := c.end(ctx, "EndArray", false); err != nil {
		return err
	}
	return c.h.EndArray(ctx)
}

func (c *Checker[R]) Name(text []byte, ctx Context) error {
	if err := c.pre(ctx, "Name"); err != nil {
		return err
	}
	if len(c.stack) == 0 || !c.stack[len(c.stack)-1].object {
		return c.fail(ctx, "Name", "name outside an object")
	}
	top := &c.stack[len(c.stack)-1]
	if top.named {
		return c.fail(ctx, "Name", "name %q follows another name", text)
	}
	top.named = true
	return c.h.Name(text, ctx)
}

func (c *Checker[R]) StringValue(text []byte, ctx Context) error {
	if err := c.value(ctx, "StringValue"); err != nil {
		return err
	}
	return c.h.StringValue(text, ctx)
}

func (c *Checker[R]) IntegerValue(v int64, ctx Context) error {
	if err := c.value(ctx, "IntegerValue"); err != nil {
		return err
	}
	return c.h.IntegerValue(v, ctx)
}

func (c *Checker[R]) UintegerValue(v uint64, ctx Context) error {
	if err := c.value(ctx, "UintegerValue"); err != nil {
		return err
	}
	return c.h.UintegerValue(v, ctx)
}

func (c *Checker[R]) DoubleValue(v float64, precision int, ctx Context) error {
	if err := c.value(ctx, "DoubleValue"); err != nil {
		return err
	} else if precision < 0 {
		return c.fail(ctx, "DoubleValue", "negative precision %d", precision)
	}
	return c.h.DoubleValue(v, precision, ctx)
}

func (c *Checker[R]) BoolValue(v bool, ctx Context) error {
	if err := c.value(ctx, "BoolValue"); err != nil {
		return err
	}
	return c.h.BoolValue(v, ctx)
}

func (c *Checker[R]) NullValue(ctx Context) error {
	if err := c.value(ctx, "NullValue"); err != nil {
		return err
	}
	return c.h.NullValue(ctx)
}

func (c *Checker[R]) IntegerRangeValue(from, to int64, ctx Context) error {
	if err := c.value(ctx, "IntegerRangeValue"); err != nil {
		return err
	} else if from > to {
		return c.fail(ctx, "IntegerRangeValue", "empty range %d..%d", from, to)
	}
	return c.h.IntegerRangeValue(from, to, ctx)
}

func (c *Checker[R]) UintegerRangeValue(from, to uint64, ctx Context) error {
	if err := c.value(ctx, "UintegerRangeValue"); err != nil {
		return err
	} else if from > to {
		return c.fail(ctx, "UintegerRangeValue", "empty range %d..%d", from, to)
	}
	return c.h.UintegerRangeValue(from, to, ctx)
}

func (c *Checker[R]) RuleName(text []byte, ctx Context) error {
	if err := c.value(ctx, "RuleName"); err != nil {
		return err
	} else if len(text) == 0 {
		return c.fail(ctx, "RuleName", "empty rule name")
	}
	return c.h.RuleName(text, ctx)
}

func (c *Checker[R]) RuleDefinition(rule *R, ctx Context) error {
	if err := c.value(ctx, "RuleDefinition"); err != nil {
		return err
	} else if rule == nil {
		return c.fail(ctx, "RuleDefinition", "nil rule")
	}
	return c.h.RuleDefinition(rule, ctx)
}

func (c *Checker[R]) NamedRule(name []byte, rule *R, ctx Context) error {
	if err := c.pre(ctx, "NamedRule"); err != nil {
		return err
	} else if len(c.stack) != 0 {
		return c.fail(ctx, "NamedRule", "binding inside a container")
	} else if c.roots != 0 {
		return c.fail(ctx, "NamedRule", "binding after the top-level value")
	} else if len(name) == 0 {
		return c.fail(ctx, "NamedRule", "empty rule name")
	} else if rule == nil {
		return c.fail(ctx, "NamedRule", "nil rule for %q", name)
	}
	return c.h.NamedRule(name, rule, ctx)
}

// AcceptsBigIntegers reports whether the wrapped handler accepts big
// integers. A Stream reports a big integer the wrapped handler cannot accept
// as a syntax error, as it would without the Checker.
func (c *Checker[R]) AcceptsBigIntegers() bool { return AcceptsBigIntegers(c.h) }

// BigIntegerValue implements BigIntegerHandler. Values are forwarded as by
// Dispatcher.BigInteger, so if the wrapped handler does not accept big
// integers, it reports an error wrapping ErrIntegerRange.
func (c *Checker[R]) BigIntegerValue(v *big.Int, ctx Context) error {
	if err := c.value(ctx, "BigIntegerValue"); err != nil {
		return err
	}
	return NewDispatcher(c.h).BigInteger(v, ctx)
}

// Comment implements CommentHandler, forwarding to the wrapped handler if it
// accepts comments.
func (c *Checker[R]) Comment(text []byte, ctx Context) error {
	if ch, ok := c.h.(CommentHandler); ok {
		return ch.Comment(text, ctx)
	}
	return nil
}
