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

package vterrors

// ErrorCode is the coarse classification carried by every error created in
// this package. Callers branch on the code; the State narrows it down.
type ErrorCode int

// All the error codes.
const (
	// OK is returned by Code for a nil error.
	OK ErrorCode = iota
	// Unknown is used for errors that were not created by vterrors.
	Unknown
	// InvalidArgument means the caller supplied a malformed partitioning
	// scheme or other bad input.
	InvalidArgument
	// Unimplemented means a predicate operator or operand shape is not
	// understood and must be evaluated generically.
	Unimplemented
	// FailedPrecondition means the query could not be compiled against the
	// catalog snapshot it was given.
	FailedPrecondition
	// NotFound means a table or column does not exist in the snapshot.
	NotFound
	// Internal means an invariant was broken. It indicates a bug.
	Internal
)

var codeNames = map[ErrorCode]string{
	OK:                 "OK",
	Unknown:            "UNKNOWN",
	InvalidArgument:    "INVALID_ARGUMENT",
	Unimplemented:      "UNIMPLEMENTED",
	FailedPrecondition: "FAILED_PRECONDITION",
	NotFound:           "NOT_FOUND",
	Internal:           "INTERNAL",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// Error categories reported to users of the core.
const (
	CategoryValidation     = "ValidationError"
	CategoryClassification = "ClassificationError"
	CategoryCompilation    = "CompilationError"
	CategoryInternal       = "InternalInvariantViolation"
)

// Category maps the error code of err onto one of the error categories.
// It returns the empty string for a nil error and for errors that did not
// originate in this package.
func Category(err error) string {
	switch Code(err) {
	case InvalidArgument:
		return CategoryValidation
	case Unimplemented:
		return CategoryClassification
	case FailedPrecondition, NotFound:
		return CategoryCompilation
	case Internal:
		return CategoryInternal
	}
	return ""
}
