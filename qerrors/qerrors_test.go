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

package qerrors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapNil(t *testing.T) {
	got := Wrap(nil, "no error")
	if got != nil {
		t.Errorf("Wrap(nil, \"no error\"): got %#v, expected nil", got)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		err         error
		message     string
		wantMessage string
		wantCode    Code
	}{
		{io.EOF, "read error", "read error: EOF", CodeUnknown},
		{New(CodeFailedPrecondition, "oops"), "client error", "client error: oops", CodeFailedPrecondition},
	}

	for _, tt := range tests {
		got := Wrap(tt.err, tt.message)
		assert.Equal(t, tt.wantMessage, got.Error())
		assert.Equal(t, tt.wantCode, CodeOf(got))
	}
}

func TestWrapfPreservesState(t *testing.T) {
	base := Relationf("join predicate does not originate from %s", "users")
	wrapped := Wrapf(base, "building join of %s and %s", "users", "orders")

	require.Error(t, wrapped)
	assert.Equal(t, CodeInvalidArgument, CodeOf(wrapped))
	assert.Equal(t, RelationViolation, StateOf(wrapped))
	assert.True(t, errors.Is(wrapped, base))
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{{
		name: "nil",
		err:  nil,
		want: CodeOK,
	}, {
		name: "plain error",
		err:  errors.New("something"),
		want: CodeUnknown,
	}, {
		name: "fundamental",
		err:  New(CodeUnimplemented, "not yet"),
		want: CodeUnimplemented,
	}, {
		name: "wrapped twice",
		err:  Wrap(Wrap(Errorf(CodeInternal, "broken %d", 7), "inner"), "outer"),
		want: CodeInternal,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestStateOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want State
	}{{
		name: "nil",
		err:  nil,
		want: Undefined,
	}, {
		name: "plain error",
		err:  errors.New("something"),
		want: Undefined,
	}, {
		name: "validation",
		err:  Validationf("limit must be non-negative, got %d", -1),
		want: ValidationFailure,
	}, {
		name: "expression",
		err:  Expressionf("join key pair must be length 2, got %d", 3),
		want: ExpressionViolation,
	}, {
		name: "unsupported",
		err:  Unsupportedf("unsupported join predicate of type %T", 42),
		want: UnsupportedShape,
	}, {
		name: "integrity wrapped",
		err:  Wrap(Integrityf("duplicate column name %q", "id"), "resolving schema"),
		want: IntegrityViolation,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StateOf(tt.err))
		})
	}
}

func TestVerboseFormat(t *testing.T) {
	err := NewErrorf(CodeInvalidArgument, ValidationFailure, "bad input")
	out := fmt.Sprintf("%+v", err)
	assert.Contains(t, out, "Code: INVALID_ARGUMENT")
	assert.Contains(t, out, "bad input")

	wrapped := Wrap(err, "while planning")
	assert.Equal(t, "while planning: bad input", fmt.Sprintf("%v", wrapped))
}
