// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jcr

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
)

// An Encoder is a Handler that writes the events it receives as compact
// content-rule text to an io.Writer. Each binding and the top-level value are
// written on a line of their own.
//
// Rule handles are written using their String method, so *R must implement
// fmt.Stringer; otherwise the event fails. Doubles are written with
// FormatDouble, so a value written with its source precision reads back with
// the same number of significant digits.
type Encoder[R any] struct {
	w     io.Writer
	buf   []byte
	stack []int // item counts of the open containers
	named bool  // a member name has been written and awaits its value
	lines int   // top-level lines written
}

// NewEncoder returns an Encoder that writes to w.
func NewEncoder[R any](w io.Writer) *Encoder[R] { return &Encoder[R]{w: w} }

// sep adds the separator required before the next item.
func (e *Encoder[R]) sep() {
	if e.named {
		e.named = false
		return
	}
	if n := len(e.stack); n != 0 {
		if e.stack[n-1] != 0 {
			e.buf = append(e.buf, ',')
		}
		e.stack[n-1]++
	} else if e.lines != 0 {
		e.buf = append(e.buf, '\n')
	}
	if len(e.stack) == 0 {
		e.lines++
	}
}

func (e *Encoder[R]) flush() error {
	if len(e.buf) == 0 {
		return nil
	}
	_, err := e.w.Write(e.buf)
	e.buf = e.buf[:0]
	return err
}

func (e *Encoder[R]) item(s string) error {
	e.sep()
	e.buf = append(e.buf, s...)
	return e.flush()
}

func (e *Encoder[R]) ruleText(event string, rule *R, ctx Context) (string, error) {
	if s, ok := any(rule).(fmt.Stringer); ok {
		return s.String(), nil
	}
	return "", Consumerf(ctx, event, "rule type %T does not implement fmt.Stringer", rule)
}

func (e *Encoder[R]) BeginDocument() error {
	e.stack, e.named, e.lines = e.stack[:0], false, 0
	return nil
}

func (e *Encoder[R]) EndDocument() error {
	if e.lines != 0 {
		e.buf = append(e.buf, '\n')
	}
	return e.flush()
}

func (e *Encoder[R]) BeginObject(Context) error {
	e.sep()
	e.stack = append(e.stack, 0)
	e.buf = append(e.buf, '{')
	return e.flush()
}

func (e *Encoder[R]) EndObject(Context) error {
	e.stack = e.stack[:len(e.stack)-1]
	e.buf = append(e.buf, '}')
	return e.flush()
}

func (e *Encoder[R]) BeginArray(Context) error {
	e.sep()
	e.stack = append(e.stack, 0)
	e.buf = append(e.buf, '[')
	return e.flush()
}

func (e *Encoder[R]) EndArray(Context) error {
	e.stack = e.stack[:len(e.stack)-1]
	e.buf = append(e.buf, ']')
	return e.flush()
}

func (e *Encoder[R]) Name(text []byte, _ Context) error {
	e.sep()
	e.buf = append(e.buf, Quote(string(text))...)
	e.buf = append(e.buf, ':')
	e.named = true
	return e.flush()
}

func (e *Encoder[R]) StringValue(text []byte, _ Context) error {
	return e.item(Quote(string(text)))
}

func (e *Encoder[R]) IntegerValue(v int64, _ Context) error {
	return e.item(strconv.FormatInt(v, 10))
}

func (e *Encoder[R]) UintegerValue(v uint64, _ Context) error {
	return e.item(strconv.FormatUint(v, 10))
}

func (e *Encoder[R]) DoubleValue(v float64, precision int, _ Context) error {
	return e.item(FormatDouble(v, precision))
}

func (e *Encoder[R]) BoolValue(v bool, _ Context) error {
	return e.item(strconv.FormatBool(v))
}

func (e *Encoder[R]) NullValue(Context) error { return e.item("null") }

func (e *Encoder[R]) IntegerRangeValue(from, to int64, _ Context) error {
	return e.item(strconv.FormatInt(from, 10) + ".." + strconv.FormatInt(to, 10))
}

func (e *Encoder[R]) UintegerRangeValue(from, to uint64, _ Context) error {
	return e.item(strconv.FormatUint(from, 10) + ".." + strconv.FormatUint(to, 10))
}

func (e *Encoder[R]) RuleName(text []byte, _ Context) error {
	return e.item("$" + string(text))
}

func (e *Encoder[R]) RuleDefinition(rule *R, ctx Context) error {
	s, err := e.ruleText("RuleDefinition", rule, ctx)
	if err != nil {
		return err
	}
	return e.item(s)
}

func (e *Encoder[R]) NamedRule(name []byte, rule *R, ctx Context) error {
	s, err := e.ruleText("NamedRule", rule, ctx)
	if err != nil {
		return err
	}
	return e.item("$" + string(name) + " = " + s)
}

// BigIntegerValue implements BigIntegerHandler.
func (e *Encoder[R]) BigIntegerValue(v *big.Int, _ Context) error {
	return e.item(v.String())
}
