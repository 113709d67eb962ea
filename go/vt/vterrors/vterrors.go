/*
Copyright 2026 The Vitess Authors.

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

// Package vterrors provides simple error handling primitives for the
// polystore core.
//
// All errors returned across package boundaries are created with New,
// Errorf or NewErrorf, and carry an ErrorCode and an optional State. The
// code tells the caller which error category it is dealing with:
//
//	InvalidArgument               ValidationError
//	Unimplemented                 ClassificationError
//	FailedPrecondition, NotFound  CompilationError
//	Internal                      InternalInvariantViolation
//
// Errors can be annotated with Wrap and Wrapf. The code and state of the
// innermost vterror survive any number of wraps. Stack traces are captured
// at creation and printed with the %+v verb.
package vterrors

import (
	"fmt"

	"github.com/pkg/errors"
)

type vtError struct {
	err   error
	code  ErrorCode
	state State
}

// New returns an error with the supplied message and code.
func New(code ErrorCode, message string) error {
	return &vtError{
		err:  errors.New(message),
		code: code,
	}
}

// Errorf formats according to a format specifier and returns the string
// as a value that satisfies error, tagged with the given code.
func Errorf(code ErrorCode, format string, args ...any) error {
	return &vtError{
		err:  errors.Errorf(format, args...),
		code: code,
	}
}

// NewErrorf formats according to a format specifier and returns an error
// tagged with both a code and a state.
func NewErrorf(code ErrorCode, state State, format string, args ...any) error {
	return &vtError{
		err:   errors.Errorf(format, args...),
		code:  code,
		state: state,
	}
}

func (e *vtError) Error() string {
	return e.err.Error()
}

// Format delegates to the underlying error so %+v prints the stack.
func (e *vtError) Format(s fmt.State, verb rune) {
	if f, ok := e.err.(fmt.Formatter); ok {
		f.Format(s, verb)
		return
	}
	fmt.Fprint(s, e.err.Error())
}

// ErrorCode returns the code of this error.
func (e *vtError) ErrorCode() ErrorCode {
	return e.code
}

// ErrorState returns the state of this error.
func (e *vtError) ErrorState() State {
	return e.state
}

// Wrap returns an error annotating err with a stack trace at the point
// Wrap is called, and the supplied message. If err is nil, Wrap returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, message)
}

// Wrapf returns an error annotating err with a stack trace at the point
// Wrapf is called, and the format specifier. If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}

// Code returns the error code if it's a vtError. It returns OK for a nil
// error and Unknown for any other error.
func Code(err error) ErrorCode {
	if err == nil {
		return OK
	}
	var vterr *vtError
	if errors.As(err, &vterr) {
		return vterr.code
	}
	return Unknown
}

// ErrState returns the error state if it's a vtError.
func ErrState(err error) State {
	var vterr *vtError
	if errors.As(err, &vterr) {
		return vterr.state
	}
	return Undefined
}

// RootCause returns the root cause of an error, unwrapping annotations
// added by Wrap and Wrapf.
func RootCause(err error) error {
	for {
		cause := errors.Unwrap(err)
		if cause == nil {
			return err
		}
		err = cause
	}
}
