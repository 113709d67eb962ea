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

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapNil(t *testing.T) {
	require.NoError(t, Wrap(nil, "no error"))
	require.NoError(t, Wrapf(nil, "no error %d", 1))
}

func TestWrap(t *testing.T) {
	tests := []struct {
		err         error
		message     string
		wantMessage string
		wantCode    ErrorCode
	}{
		{io.EOF, "read error", "read error: EOF", Unknown},
		{New(InvalidArgument, "oops"), "client error", "client error: oops", InvalidArgument},
		{NewErrorf(Internal, UnclassifiedOperator, "op %d", 7), "evaluate", "evaluate: op 7", Internal},
	}

	for _, tt := range tests {
		t.Run(tt.wantMessage, func(t *testing.T) {
			got := Wrap(tt.err, tt.message)
			assert.EqualError(t, got, tt.wantMessage)
			assert.Equal(t, tt.wantCode, Code(got))
		})
	}
}

func TestCodeAndState(t *testing.T) {
	err := NewErrorf(FailedPrecondition, UnresolvedColumn, "column '%s' not found", "x")
	wrapped := Wrapf(Wrapf(err, "filter"), "compile %s", "q1")

	assert.Equal(t, FailedPrecondition, Code(wrapped))
	assert.Equal(t, UnresolvedColumn, ErrState(wrapped))
	assert.Equal(t, "compile q1: filter: column 'x' not found", wrapped.Error())
	assert.Equal(t, OK, Code(nil))
	assert.Equal(t, Undefined, ErrState(io.EOF))
	assert.Equal(t, Undefined, ErrState(Errorf(Internal, "no state")))
}

func TestCategory(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{InvalidArgument, CategoryValidation},
		{Unimplemented, CategoryClassification},
		{FailedPrecondition, CategoryCompilation},
		{NotFound, CategoryCompilation},
		{Internal, CategoryInternal},
		{Unknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Category(New(tt.code, "x")))
		})
	}
	assert.Empty(t, Category(nil))
	assert.Empty(t, Category(io.EOF))
}

func TestRootCause(t *testing.T) {
	x := New(FailedPrecondition, "error")
	tests := []struct {
		err  error
		want error
	}{{
		err:  nil,
		want: nil,
	}, {
		err:  x,
		want: x,
	}, {
		err:  Wrap(x, "wrapped"),
		want: x,
	}, {
		err:  Wrapf(Wrap(x, "inner"), "outer %d", 2),
		want: x,
	}, {
		err:  io.EOF,
		want: io.EOF,
	}}

	for i, tt := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			assert.Equal(t, tt.want, RootCause(tt.err))
		})
	}
}

func TestStackFormatting(t *testing.T) {
	err := New(Internal, "broken")
	assert.Equal(t, "broken", fmt.Sprintf("%v", err))
	verbose := fmt.Sprintf("%+v", err)
	assert.True(t, strings.HasPrefix(verbose, "broken"))
	assert.Contains(t, verbose, "TestStackFormatting")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "OverlappingRanges", OverlappingRanges.String())
	assert.Equal(t, "Undefined", State(-1).String())
	assert.Equal(t, "Undefined", NumOfStates.String())
	for s := Undefined; s < NumOfStates; s++ {
		assert.NotEmpty(t, s.String(), "state %d has no name", int(s))
	}
}
