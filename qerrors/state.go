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

// State is the precise violation an error reports.
type State int

// All the error states.
const (
	Undefined State = iota

	// ValidationFailure is a constructor argument of the wrong type or shape.
	ValidationFailure

	// RelationViolation is a structural or semantic violation of the plan:
	// a join key pair of the wrong length, a predicate that does not
	// originate from its declared inputs, mismatched set-operation schemas.
	RelationViolation

	// ExpressionViolation is an expression of an unsupported form used
	// where another was required, e.g. a non-boolean join predicate.
	ExpressionViolation

	// UnsupportedShape is a predicate argument that is neither a recognized
	// pair, a column name, nor an expression.
	UnsupportedShape

	// IntegrityViolation is a schema-level collision, e.g. duplicate
	// column names in a resolved output schema.
	IntegrityViolation
)

// Validationf returns a ValidationFailure error.
func Validationf(format string, args ...any) error {
	return NewErrorf(CodeInvalidArgument, ValidationFailure, format, args...)
}

// Relationf returns a RelationViolation error.
func Relationf(format string, args ...any) error {
	return NewErrorf(CodeInvalidArgument, RelationViolation, format, args...)
}

// Expressionf returns an ExpressionViolation error.
func Expressionf(format string, args ...any) error {
	return NewErrorf(CodeInvalidArgument, ExpressionViolation, format, args...)
}

// Unsupportedf returns an UnsupportedShape error.
func Unsupportedf(format string, args ...any) error {
	return NewErrorf(CodeUnimplemented, UnsupportedShape, format, args...)
}

// Integrityf returns an IntegrityViolation error.
func Integrityf(format string, args ...any) error {
	return NewErrorf(CodeFailedPrecondition, IntegrityViolation, format, args...)
}
