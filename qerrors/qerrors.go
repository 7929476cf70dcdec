/*
Copyright 2026 The Relq Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package qerrors provides the error values used throughout relq.
//
// Every error produced by plan construction carries a Code describing the
// broad class of failure and a State describing the precise violation, so
// callers can react to what went wrong without parsing error strings:
//
//	err := relation.NewUnion(left, right)
//	if qerrors.StateOf(err) == qerrors.RelationViolation { ... }
//
// Errors can be wrapped with additional context while preserving the code
// and state of the cause.
package qerrors

import (
	"errors"
	"fmt"
	"io"
)

// Code is the broad class of an error, loosely mirroring canonical RPC codes.
type Code int32

const (
	CodeOK Code = iota
	CodeUnknown
	CodeInvalidArgument
	CodeFailedPrecondition
	CodeUnimplemented
	CodeInternal
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeInvalidArgument:
		return "INVALID_ARGUMENT"
	case CodeFailedPrecondition:
		return "FAILED_PRECONDITION"
	case CodeUnimplemented:
		return "UNIMPLEMENTED"
	case CodeInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// New returns an error with the supplied message and code.
func New(code Code, message string) error {
	return &fundamental{
		code:  code,
		state: Undefined,
		msg:   message,
	}
}

// Errorf formats according to a format specifier and returns the string
// as a value that satisfies error, tagged with the given code.
func Errorf(code Code, format string, args ...any) error {
	return &fundamental{
		code:  code,
		state: Undefined,
		msg:   fmt.Sprintf(format, args...),
	}
}

// NewErrorf is like Errorf but additionally records the error state.
func NewErrorf(code Code, state State, format string, args ...any) error {
	return &fundamental{
		code:  code,
		state: state,
		msg:   fmt.Sprintf(format, args...),
	}
}

// fundamental is an error that has a message, a code and a state.
type fundamental struct {
	code  Code
	state State
	msg   string
}

func (f *fundamental) Error() string { return f.msg }

func (f *fundamental) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			panicIfError(io.WriteString(s, "Code: "+f.code.String()+"\n"))
			panicIfError(io.WriteString(s, f.msg+"\n"))
			return
		}
		fallthrough
	case 's':
		panicIfError(io.WriteString(s, f.msg))
	case 'q':
		panicIfError(fmt.Fprintf(s, "%q", f.msg))
	}
}

// Wrap returns an error annotating err with a new message.
// If err is nil, Wrap returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrapping{
		cause: err,
		msg:   message,
	}
}

// Wrapf returns an error annotating err with the format specifier.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...any) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrapping struct {
	cause error
	msg   string
}

func (w *wrapping) Error() string { return w.msg + ": " + w.cause.Error() }
func (w *wrapping) Unwrap() error { return w.cause }

func (w *wrapping) Format(s fmt.State, verb rune) {
	if rune('v') == verb && s.Flag('+') {
		panicIfError(fmt.Fprintf(s, "%v\n", w.Unwrap()))
		panicIfError(io.WriteString(s, w.msg))
		return
	}
	panicIfError(io.WriteString(s, w.Error()))
}

// CodeOf returns the error code the error carries, unwrapping as needed.
// Errors without a code return CodeUnknown; nil returns CodeOK.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var f *fundamental
	if errors.As(err, &f) {
		return f.code
	}
	return CodeUnknown
}

// StateOf returns the error state the error carries, unwrapping as needed.
// Errors without a state (including nil) return Undefined.
func StateOf(err error) State {
	var f *fundamental
	if errors.As(err, &f) {
		return f.state
	}
	return Undefined
}

func panicIfError(_ int, err error) {
	if err != nil {
		panic(err)
	}
}
