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

// Package schema defines the ordered column-name-to-type mapping produced
// by every relational operator. Schemas are immutable values; combining or
// reordering them always produces a new Schema.
package schema

import (
	"strings"

	"github.com/relq/relq/datatypes"
	"github.com/relq/relq/qerrors"
)

// Field is a single named, typed column.
type Field struct {
	Name string
	Type datatypes.DataType
}

// Schema is an ordered set of named, typed columns. The zero value is the
// empty schema.
type Schema struct {
	fields []Field
}

// New builds a schema from fields in declared order. Duplicate column
// names are an integrity violation.
func New(fields ...Field) (Schema, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f.Name]; ok {
			return Schema{}, qerrors.Integrityf("duplicate column name %q in schema", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return Schema{fields: fields}, nil
}

// Must is a helper for statically known schemas; it panics if err is non-nil.
func Must(s Schema, err error) Schema {
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of columns.
func (s Schema) Len() int { return len(s.fields) }

// Fields returns the columns in declared order.
func (s Schema) Fields() []Field { return s.fields }

// Names returns the column names in declared order.
func (s Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Types returns the column types in declared order.
func (s Schema) Types() []datatypes.DataType {
	types := make([]datatypes.DataType, len(s.fields))
	for i, f := range s.fields {
		types[i] = f.Type
	}
	return types
}

// Type returns the type of the named column.
func (s Schema) Type(name string) (datatypes.DataType, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// IndexOf returns the position of the named column, or -1.
func (s Schema) IndexOf(name string) int {
	for i, f := range s.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Equal returns true if other has the same columns, in the same order,
// with structurally equal types.
func (s Schema) Equal(other Schema) bool {
	if len(s.fields) != len(other.fields) {
		return false
	}
	for i, f := range s.fields {
		o := other.fields[i]
		if f.Name != o.Name || !f.Type.Equal(o.Type) {
			return false
		}
	}
	return true
}

// Append returns the disjoint union of s and other: s's columns followed by
// other's. Overlapping column names are an integrity violation.
func (s Schema) Append(other Schema) (Schema, error) {
	merged := make([]Field, 0, len(s.fields)+len(other.fields))
	merged = append(merged, s.fields...)
	merged = append(merged, other.fields...)
	return New(merged...)
}

func (s Schema) String() string {
	var sb strings.Builder
	sb.WriteString("schema<")
	for i, f := range s.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(f.Type.String())
	}
	sb.WriteString(">")
	return sb.String()
}
