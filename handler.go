// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jcr

import "math/big"

// A Handler handles events from parsing a content-rule document. If a method
// reports an error, parsing stops and that error is returned to the caller
// without further events.
//
// The type parameter R is the representation of a content rule. Handlers
// receive rules as *R handles, which they must treat as shared: the producer
// and any other consumer may hold the same handle, and none of them may
// modify the rule it refers to.
//
// Text arguments and Context values are only valid for the duration of the
// call. If the method needs the text after it returns, it must copy it.
type Handler[R any] interface {
	// Begin the document. This is the first event of a parse.
	BeginDocument() error

	// End the document. This is the last event of a successful parse.
	EndDocument() error

	// Begin a new object, whose open brace is at ctx.
	BeginObject(ctx Context) error

	// End the most-recently-opened object, whose close brace is at ctx.
	EndObject(ctx Context) error

	// Begin a new array, whose open bracket is at ctx.
	BeginArray(ctx Context) error

	// End the most-recently-opened array, whose close bracket is at ctx.
	EndArray(ctx Context) error

	// Name reports the decoded key of the next value in the current object.
	Name(text []byte, ctx Context) error

	// StringValue reports a decoded string value.
	StringValue(text []byte, ctx Context) error

	// IntegerValue reports a signed integer value.
	IntegerValue(v int64, ctx Context) error

	// UintegerValue reports an unsigned integer value.
	UintegerValue(v uint64, ctx Context) error

	// DoubleValue reports a floating-point value together with the number of
	// significant digits in its source literal. A precision of 0 means the
	// digit count is unknown.
	DoubleValue(v float64, precision int, ctx Context) error

	// BoolValue reports a Boolean value.
	BoolValue(v bool, ctx Context) error

	// NullValue reports the null constant.
	NullValue(ctx Context) error

	// IntegerRangeValue reports the inclusive range [from, to] in place of a
	// single value. The producer guarantees from ≤ to.
	IntegerRangeValue(from, to int64, ctx Context) error

	// UintegerRangeValue reports the inclusive range [from, to] in place of a
	// single value. The producer guarantees from ≤ to.
	UintegerRangeValue(from, to uint64, ctx Context) error

	// RuleName reports a reference by name to a rule in value position. The
	// rule may be bound before or after the reference.
	RuleName(text []byte, ctx Context) error

	// RuleDefinition reports an anonymous rule in value position.
	// The rule is never nil.
	RuleDefinition(rule *R, ctx Context) error

	// NamedRule binds rule to name. The rule is never nil.
	NamedRule(name []byte, rule *R, ctx Context) error
}

// CommentHandler is an optional interface that a Handler may implement to
// handle comment tokens. If a handler implements this method and comments are
// enabled in the scanner, Comment will be called for each comment token that
// occurs in the input. If the handler does not provide this method, comments
// will be silently discarded.
type CommentHandler interface {
	// Process the line or block comment whose raw text is given.
	Comment(text []byte, ctx Context) error
}

// BigIntegerHandler is an optional interface that a Handler may implement to
// accept integer literals that do not fit in 64 bits. If the handler does not
// accept them (see AcceptsBigIntegers), such a literal is a syntax error
// wrapping ErrIntegerRange.
type BigIntegerHandler interface {
	BigIntegerValue(v *big.Int, ctx Context) error
}

// AcceptsBigIntegers reports whether h accepts integers that do not fit in 64
// bits. It is true if h implements BigIntegerHandler, unless h also has an
// AcceptsBigIntegers method that reports false. Handlers that wrap other
// handlers use that method to report what the wrapped handlers accept.
func AcceptsBigIntegers(h any) bool {
	if _, ok := h.(BigIntegerHandler); !ok {
		return false
	}
	if a, ok := h.(interface{ AcceptsBigIntegers() bool }); ok {
		return a.AcceptsBigIntegers()
	}
	return true
}

// A RuleCompiler constructs the rule handles a Stream reports.
type RuleCompiler[R any] interface {
	// TypeRule returns a rule for the named type keyword.
	TypeRule(keyword string, ctx Context) (*R, error)

	// Builder returns a new builder to compile the value of a binding.
	Builder() RuleBuilder[R]
}

// A RuleBuilder is a Handler that compiles the events of one value into a
// rule. The stream does not deliver document events to a builder.
type RuleBuilder[R any] interface {
	Handler[R]

	// Rule returns the compiled rule. It is called after the last event of
	// the value has been delivered.
	Rule() (*R, error)
}

// NopHandler implements every method of Handler as a no-op that reports
// success. Embed it in a handler that only cares about some events.
type NopHandler[R any] struct{}

func (NopHandler[R]) BeginDocument() error                             { return nil }
func (NopHandler[R]) EndDocument() error                               { return nil }
func (NopHandler[R]) BeginObject(Context) error                        { return nil }
func (NopHandler[R]) EndObject(Context) error                          { return nil }
func (NopHandler[R]) BeginArray(Context) error                         { return nil }
func (NopHandler[R]) EndArray(Context) error                           { return nil }
func (NopHandler[R]) Name([]byte, Context) error                       { return nil }
func (NopHandler[R]) StringValue([]byte, Context) error                { return nil }
func (NopHandler[R]) IntegerValue(int64, Context) error                { return nil }
func (NopHandler[R]) UintegerValue(uint64, Context) error              { return nil }
func (NopHandler[R]) DoubleValue(float64, int, Context) error          { return nil }
func (NopHandler[R]) BoolValue(bool, Context) error                    { return nil }
func (NopHandler[R]) NullValue(Context) error                          { return nil }
func (NopHandler[R]) IntegerRangeValue(int64, int64, Context) error    { return nil }
func (NopHandler[R]) UintegerRangeValue(uint64, uint64, Context) error { return nil }
func (NopHandler[R]) RuleName([]byte, Context) error                   { return nil }
func (NopHandler[R]) RuleDefinition(*R, Context) error                 { return nil }
func (NopHandler[R]) NamedRule([]byte, *R, Context) error              { return nil }
