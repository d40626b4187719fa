// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jcr

import (
	"errors"
	"fmt"
)

// ErrIntegerRange is reported for an integer that does not fit the
// representation required to deliver it.
var ErrIntegerRange = errors.New("integer out of range")

// SyntaxError is the concrete type of errors reported by the stream parser
// for malformed input.
type SyntaxError struct {
	Context Context
	Message string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Context, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// ConsumerError is the error a Handler reports when an event is well-formed
// but unacceptable to the consumer, for example a duplicate object key.
type ConsumerError struct {
	Context Context
	Event   string // the name of the event that failed
	Err     error
}

// Consumerf constructs a *ConsumerError for event at ctx whose error is
// formatted from msg and args as with fmt.Errorf.
func Consumerf(ctx Context, event, msg string, args ...any) *ConsumerError {
	return &ConsumerError{Context: ctx, Event: event, Err: fmt.Errorf(msg, args...)}
}

// Error satisfies the error interface.
func (c *ConsumerError) Error() string {
	return fmt.Sprintf("at %s: %s: %v", c.Context, c.Event, c.Err)
}

// Unwrap supports error wrapping.
func (c *ConsumerError) Unwrap() error { return c.Err }

// ProtocolError is the concrete type of errors reported by a Checker when a
// producer violates the structure of the event protocol.
type ProtocolError struct {
	Context Context
	Event   string
	Message string
}

// Error satisfies the error interface.
func (p *ProtocolError) Error() string {
	if p.Context == (Context{}) {
		return fmt.Sprintf("%s: %s", p.Event, p.Message)
	}
	return fmt.Sprintf("at %s: %s: %s", p.Context, p.Event, p.Message)
}
