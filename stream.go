// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jcr

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/jcr/internal/escape"
	"go4.org/mem"
)

// Stream is a stream parser that consumes input and delivers events to a
// Handler corresponding with the structure of the input. The RuleCompiler
// supplies the rule handles for type keywords and rule bindings.
type Stream[R any] struct {
	s        *Scanner
	rules    RuleCompiler[R]
	tcomma   bool // allow trailing commas in objects and arrays
	maxDepth int  // maximum nesting depth, 0 means no limit

	ch    CommentHandler // if non-nil, receives comments
	depth int            // current nesting depth
	text  []byte         // buffer for decoded strings
}

// NewStream constructs a new Stream that consumes input from r.
func NewStream[R any](r io.Reader, rules RuleCompiler[R]) *Stream[R] {
	return NewStreamWithScanner(NewScanner(r), rules)
}

// NewStreamWithScanner constructs a new Stream that consumes input from s.
func NewStreamWithScanner[R any](s *Scanner, rules RuleCompiler[R]) *Stream[R] {
	return &Stream[R]{s: s, rules: rules}
}

// AllowComments configures the scanner associated with s to report (true) or
// reject (false) comment tokens.
func (s *Stream[R]) AllowComments(ok bool) { s.s.AllowComments(ok) }

// AllowTrailingCommas configures the parser to allow (true) or reject (false)
// trailing commas in objects and arrays.
func (s *Stream[R]) AllowTrailingCommas(ok bool) { s.tcomma = ok }

// SetSource sets the name of the input reported in contexts.
func (s *Stream[R]) SetSource(name string) { s.s.SetSource(name) }

// SetMaxDepth limits the nesting depth of objects and arrays to n.
// If n ≤ 0, the depth is not limited.
func (s *Stream[R]) SetMaxDepth(n int) { s.maxDepth = n }

func (s *Stream[R]) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		switch err := serr.(type) {
		case *SyntaxError:
			*errp = err
		case handlerError:
			*errp = err.error
		default:
			panic(serr)
		}
	}
}

// Parse parses a single document from the input stream and delivers events
// to h until either an error occurs or the document is complete. Input after
// the end of the document is a syntax error. In case of a syntax error, the
// returned error has type [*SyntaxError]. If a method of h reports an error,
// no further events are delivered and that error is returned.
//
// A document consists of zero or more rule bindings, "$name = value",
// followed by an optional value. A document must contain at least one of
// these.
func (s *Stream[R]) Parse(h Handler[R]) (err error) {
	defer s.recoverParseError(&err)
	s.ch, _ = h.(CommentHandler)
	s.depth = 0

	d := NewDispatcher(h)
	s.checkError(d.BeginDocument())
	if err := s.nextToken(); err == io.EOF {
		s.syntaxError(err, "empty document")
	} else if err != nil {
		s.syntaxError(err, "%v", err)
	}
	for {
		if s.s.Token() == RuleRef {
			ctx := s.s.Context()
			name := bytes.Clone(s.s.Text()[1:])
			if err := s.nextToken(); err == io.EOF {
				// The document is a single rule reference.
				s.checkError(d.RuleName(name, ctx))
				break
			} else if err != nil {
				s.syntaxError(err, "%v", err)
			} else if tok := s.s.Token(); tok != Equals {
				s.syntaxError(nil, "%v", tokLabel([]Token{Equals}, tok))
			}
			s.parseBinding(d, name, ctx)
		} else {
			s.parseElement(d)
			if err := s.nextToken(); err == nil {
				s.syntaxError(nil, "unexpected %v after document", s.s.Token())
			} else if err != io.EOF {
				s.syntaxError(err, "%v", err)
			}
			break
		}

		// After a binding, the document may end or continue.
		if err := s.nextToken(); err == io.EOF {
			break
		} else if err != nil {
			s.syntaxError(err, "%v", err)
		}
	}
	return d.EndDocument()
}

// parseBinding consumes the value of a rule binding and reports the rule
// compiled from it.
// Precondition: token == Equals.
func (s *Stream[R]) parseBinding(d Dispatcher[R], name []byte, ctx Context) {
	b := s.rules.Builder()
	s.advance()
	s.parseElement(NewDispatcher[R](b))
	rule, err := b.Rule()
	s.checkError(err)
	s.checkError(d.NamedRule(name, rule, ctx))
}

// parseElement consumes a single value of any type.
// Precondition: token != Invalid.
func (s *Stream[R]) parseElement(d Dispatcher[R]) {
	ctx := s.s.Context()
	switch tok := s.s.Token(); tok {
	case LBrace:
		s.enter()
		s.checkError(d.BeginObject(ctx))
		s.parseMembers(d)
		s.checkError(d.EndObject(s.s.Context()))
		s.depth--
	case LSquare:
		s.enter()
		s.checkError(d.BeginArray(ctx))
		s.parseElements(d)
		s.checkError(d.EndArray(s.s.Context()))
		s.depth--
	case String:
		s.checkError(d.Text(s.unquote(), ctx))
	case Integer:
		s.parseInteger(d, ctx)
	case Number:
		text := string(s.s.Text())
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			s.syntaxError(err, "invalid number %s", text)
		}
		s.checkError(Float(d, v, SignificantDigits(text), ctx))
	case Range:
		s.parseRange(d, ctx)
	case True, False:
		s.checkError(d.Bool(tok == True, ctx))
	case Null:
		s.checkError(d.Null(ctx))
	case RuleRef:
		s.checkError(d.RuleName(s.s.Text()[1:], ctx))
	case Keyword:
		rule, err := s.rules.TypeRule(string(s.s.Text()), ctx)
		s.checkError(err)
		s.checkError(d.RuleDefinition(rule, ctx))
	case RBrace, RSquare, Comma, Colon, Equals:
		s.syntaxError(nil, "unexpected %v", tok)
	default:
		s.syntaxError(nil, "unknown token %v", tok)
	}
}

// parseMembers consumes zero of more key:value object members.
// Precondition: token == LBrace.
// Postcondition: token == RBrace.
func (s *Stream[R]) parseMembers(d Dispatcher[R]) {
	tok := s.advance(RBrace, String)
	if tok == RBrace {
		return // end of object
	}
	for {
		// Parse a single member: "key": value
		s.checkError(d.Name(s.unquote(), s.s.Context()))
		s.advance(Colon)
		s.advance()
		s.parseElement(d)

		// Check whether we have more members (",") or are done ("}").
		tok := s.advance(RBrace, Comma)
		if tok == RBrace {
			return // end of object
		} else if s.tcomma {
			// If trailing commas are allowed and the next token is a close
			// bracket, consider this a valid end of the object. Otherwise, it
			// must be a key for a subsequent element.
			next := s.advance(String, RBrace)
			if next == RBrace {
				return // end of object with trailing comma
			}
		} else {
			s.advance(String) // advance to next key
		}
	}
}

// parseElements consumes zero or more comma-separated array values.
// Precondition: token == LSquare.
// Postcondition: token == RSquare.
func (s *Stream[R]) parseElements(d Dispatcher[R]) {
	if tok := s.advance(); tok == RSquare {
		return // end of array
	}
	s.parseElement(d)
	for {
		tok := s.advance(RSquare, Comma)
		if tok == RSquare {
			return // end of array
		}

		// If trailing commas are allowed and the next token is a close bracket,
		// consider this a valid end of the array; otherwise it will fail on the
		// next element
		if next := s.advance(); s.tcomma && next == RSquare {
			return // end of array with trailing comma
		}
		s.parseElement(d)
	}
}

// parseInteger reports an integer literal. Negative values are signed,
// others unsigned; values too large for 64 bits need a BigIntegerHandler.
// Precondition: token == Integer.
func (s *Stream[R]) parseInteger(d Dispatcher[R], ctx Context) {
	text := string(s.s.Text())
	if strings.HasPrefix(text, "-") {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			s.checkError(Int(d, v, ctx))
			return
		}
	} else if v, err := strconv.ParseUint(text, 10, 64); err == nil {
		s.checkError(Uint(d, v, ctx))
		return
	}
	if !AcceptsBigIntegers(d.Handler()) {
		s.syntaxError(ErrIntegerRange, "integer %s out of range", text)
	}
	v, ok := new(big.Int).SetString(text, 10)
	if !ok {
		s.syntaxError(nil, "invalid integer %s", text)
	}
	s.checkError(d.BigInteger(v, ctx))
}

// parseRange reports an integer range. If either bound is negative the range
// is signed, otherwise it is unsigned. An empty range is a syntax error.
// Precondition: token == Range.
func (s *Stream[R]) parseRange(d Dispatcher[R], ctx Context) {
	text := string(s.s.Text())
	lo, hi, _ := strings.Cut(text, "..")
	if isNegative(lo) || isNegative(hi) {
		from, ferr := strconv.ParseInt(lo, 10, 64)
		to, terr := strconv.ParseInt(hi, 10, 64)
		if err := cmp.Or(ferr, terr); err != nil {
			s.syntaxError(errors.Join(ErrIntegerRange, err), "invalid range %s", text)
		} else if from > to {
			s.syntaxError(nil, "empty range %s", text)
		}
		s.checkError(IntRange(d, from, to, ctx))
		return
	}
	// A bound of -0 is zero.
	from, ferr := strconv.ParseUint(strings.TrimPrefix(lo, "-"), 10, 64)
	to, terr := strconv.ParseUint(strings.TrimPrefix(hi, "-"), 10, 64)
	if err := cmp.Or(ferr, terr); err != nil {
		s.syntaxError(errors.Join(ErrIntegerRange, err), "invalid range %s", text)
	} else if from > to {
		s.syntaxError(nil, "empty range %s", text)
	}
	s.checkError(UintRange(d, from, to, ctx))
}

// isNegative reports whether the integer literal s denotes a value below zero.
func isNegative(s string) bool {
	return strings.HasPrefix(s, "-") && strings.Trim(s[1:], "0") != ""
}

// unquote decodes the current string token into the stream's text buffer and
// returns a view of the result, valid until the next call.
func (s *Stream[R]) unquote() []byte {
	text := s.s.Text()
	dec, err := escape.AppendUnquote(s.text[:0], mem.B(text[1:len(text)-1]))
	if err != nil {
		s.syntaxError(err, "invalid string: %v", err)
	}
	s.text = dec
	return dec
}

func (s *Stream[R]) enter() {
	s.depth++
	if s.maxDepth > 0 && s.depth > s.maxDepth {
		s.syntaxError(nil, "nesting depth exceeds %d", s.maxDepth)
	}
}

func (s *Stream[R]) nextToken() error {
	for s.s.Next() == nil {
		// If we see a comment token, pass it to the handler if it implements
		// CommentHandler. Either way, discard the comment and fetch the next
		// available comment for the rest of the parser.
		if tok := s.s.Token(); tok == LineComment || tok == BlockComment {
			if s.ch != nil {
				s.checkError(s.ch.Comment(s.s.Text(), s.s.Context()))
			}
			continue // skip to the next token for the parser
		}
		return nil
	}
	return cmp.Or(s.s.Err(), io.EOF)
}

func (s *Stream[R]) advance(tokens ...Token) Token {
	if err := s.nextToken(); err != nil {
		s.syntaxError(err, "%v", tokLabel(tokens, err))
	}
	tok := s.s.Token()
	if len(tokens) != 0 && !tokOneOf(tok, tokens) {
		s.syntaxError(nil, "%v", tokLabel(tokens, tok))
	}
	return tok
}

func (s *Stream[R]) syntaxError(err error, msg string, args ...any) {
	panic(&SyntaxError{
		Context: s.s.Context(),
		Message: fmt.Sprintf(msg, args...),
		err:     err,
	})
}

func (s *Stream[R]) checkError(err error) {
	if err != nil {
		panic(handlerError{err})
	}
}

type handlerError struct{ error }

func (h handlerError) Unwrap() error { return h.error }

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token, got any) string {
	if len(tokens) == 0 {
		if err, ok := got.(error); ok {
			return fmt.Sprintf("expected more input, got error: %v", err)
		}
		return fmt.Sprint(got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, len(tokens)-1)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	if err, ok := got.(error); ok {
		return fmt.Sprintf("expected %s, got error: %v", exp, err)
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}

// tokOneOf reports whether cur is an element of tokens.
func tokOneOf(cur Token, tokens []Token) bool {
	return slices.Contains(tokens, cur)
}
