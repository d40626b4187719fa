// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package jcr implements a streaming parser for content-rule documents, a
// superset of JSON in which a value may also be a rule: a type keyword, an
// integer range, or a reference to a named rule.
//
// # Handlers
//
// The Handler interface accepts parser events. The methods of a handler
// correspond to the syntax of a document:
//
//	Syntax        | Methods                                | Example
//	------------- | -------------------------------------- | ------------------
//	document      | BeginDocument, EndDocument             | entire input
//	object        | BeginObject, Name, EndObject           | { "key": ... }
//	array         | BeginArray, EndArray                   | [ ... ]
//	scalar        | StringValue, BoolValue, NullValue      | "a", true, null
//	integer       | IntegerValue, UintegerValue            | -1, 25
//	number        | DoubleValue                            | 1.50, 2e-3
//	range         | IntegerRangeValue, UintegerRangeValue  | -5..5, 1..10
//	reference     | RuleName                               | $port
//	type keyword  | RuleDefinition                         | integer
//	binding       | NamedRule                              | $port = 1..65535
//
// Handlers are generic over the representation R of a rule. Rules are passed
// as *R handles that the producer and every consumer share; the package does
// not interpret them. See package rule for a concrete representation.
//
// Each event carries a Context giving the byte offset and 1-based line and
// column of the token that produced it. Text arguments and contexts are only
// valid for the duration of the call.
//
// # Producing events
//
// A producer reports events through a Dispatcher, which normalizes Go values
// of any integer or floating-point width to the canonical events:
//
//	d := jcr.NewDispatcher(h)
//	d.BeginDocument()
//	jcr.Int(d, int8(-3), ctx)      // IntegerValue(-3)
//	jcr.Uint(d, uint16(80), ctx)   // UintegerValue(80)
//	d.Value(jcr.Double{Value: 1.5, Precision: 3}, ctx)
//	d.EndDocument()
//
// A Dispatcher does not validate the order of events. To check a producer,
// wrap its handler in a Checker, which reports a *ProtocolError for any
// malformed sequence.
//
// # Streaming
//
// The Stream type is a producer that parses content-rule text. Construct a
// Stream from an io.Reader and a RuleCompiler, and call its Parse method:
//
//	s := jcr.NewStream(input, rule.Compiler{})
//	if err := s.Parse(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// A malformed document is reported as an error of concrete type
// *jcr.SyntaxError. If a Handler method reports an error, parsing stops and
// that error is returned unchanged.
//
// # Numbers
//
// The DoubleValue event reports the number of significant digits of the
// source literal, so that "1.50" and "1.5" remain distinguishable. Use
// SignificantDigits to count them and FormatDouble to render a value with a
// given count.
package jcr
