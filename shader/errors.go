// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for reflection and output counting.
var (
	// ErrUnsupportedBindingType is returned when a bound global has a type
	// that has no binding descriptor mapping.
	ErrUnsupportedBindingType = errors.New("shader: unsupported binding type")

	// ErrTooManyBindGroups is returned when a global is bound to a group
	// index at or beyond MaxBindGroups.
	ErrTooManyBindGroups = errors.New("shader: bind group index exceeds capacity")

	// ErrDuplicateBinding is returned when two globals share a group and slot.
	ErrDuplicateBinding = errors.New("shader: duplicate binding")

	// ErrNoFragmentStage is returned when the module has no fragment entry point.
	ErrNoFragmentStage = errors.New("shader: no fragment stage")

	// ErrNoVertexStage is returned when the module has no vertex entry point.
	ErrNoVertexStage = errors.New("shader: no vertex stage")

	// ErrNoFragmentOutput is returned when the fragment entry point returns nothing.
	ErrNoFragmentOutput = errors.New("shader: fragment stage has no output")

	// ErrUnsupportedOutput is returned when the fragment result is bound to
	// a builtin or is neither location-bound nor a struct.
	ErrUnsupportedOutput = errors.New("shader: unsupported fragment output")
)

// ParseError is returned by Load when the source cannot be parsed or
// lowered. Diagnostic holds the parser's message.
type ParseError struct {
	Diagnostic string
	Err        error
}

func (e *ParseError) Error() string {
	return "shader: parse error: " + e.Diagnostic
}

func (e *ParseError) Unwrap() error { return e.Err }

// contextFormatter is implemented by naga errors that carry a source span.
type contextFormatter interface {
	FormatWithContext() string
}

// newParseError builds a ParseError, preferring the source-annotated
// rendering when the parser reports a location.
func newParseError(err error) *ParseError {
	diag := err.Error()
	var cf contextFormatter
	if errors.As(err, &cf) {
		diag = cf.FormatWithContext()
	}
	return &ParseError{Diagnostic: diag, Err: err}
}

// ValidationError is returned by Load when a parsed module violates the
// validator's rules or the declared device capabilities.
type ValidationError struct {
	Diagnostics []string
}

func (e *ValidationError) Error() string {
	switch len(e.Diagnostics) {
	case 0:
		return "shader: validation failed"
	case 1:
		return "shader: validation failed: " + e.Diagnostics[0]
	}
	return fmt.Sprintf("shader: validation failed with %d errors: %s",
		len(e.Diagnostics), strings.Join(e.Diagnostics, "; "))
}

// BindingError reports which global variable could not be reflected.
type BindingError struct {
	Name    string
	Group   uint32
	Binding uint32
	Reason  string
	Err     error
}

func (e *BindingError) Error() string {
	msg := fmt.Sprintf("%v: %q at @group(%d) @binding(%d)", e.Err, e.Name, e.Group, e.Binding)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *BindingError) Unwrap() error { return e.Err }
