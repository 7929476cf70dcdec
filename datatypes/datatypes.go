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

// Package datatypes holds the column value types that schemas and
// expressions are built from.
package datatypes

import (
	"fmt"
	"strings"
)

// DataType is the type of a single column or scalar value.
// The set of implementations in this package is closed.
type DataType interface {
	fmt.Stringer

	// Equal returns true if other is structurally the same type.
	Equal(other DataType) bool

	dataType()
}

type (
	Boolean   struct{}
	Int8      struct{}
	Int16     struct{}
	Int32     struct{}
	Int64     struct{}
	Float32   struct{}
	Float64   struct{}
	String    struct{}
	Date      struct{}
	Timestamp struct{}

	// Interval is a duration type, used among other things as the
	// tolerance bound of as-of joins.
	Interval struct {
		// Unit is one of "y", "M", "w", "d", "h", "m", "s", "ms", "us", "ns".
		Unit string
	}

	// Struct is an ordered collection of named fields. Destructuring a
	// struct-typed expression in a projection or aggregation expands to
	// one output column per field, in declared order.
	Struct struct {
		fields []StructField
	}

	// StructField is a single named field of a Struct type.
	StructField struct {
		Name string
		Type DataType
	}
)

func (Boolean) dataType()   {}
func (Int8) dataType()      {}
func (Int16) dataType()     {}
func (Int32) dataType()     {}
func (Int64) dataType()     {}
func (Float32) dataType()   {}
func (Float64) dataType()   {}
func (String) dataType()    {}
func (Date) dataType()      {}
func (Timestamp) dataType() {}
func (Interval) dataType()  {}
func (Struct) dataType()    {}

func (Boolean) String() string   { return "boolean" }
func (Int8) String() string      { return "int8" }
func (Int16) String() string     { return "int16" }
func (Int32) String() string     { return "int32" }
func (Int64) String() string     { return "int64" }
func (Float32) String() string   { return "float32" }
func (Float64) String() string   { return "float64" }
func (String) String() string    { return "string" }
func (Date) String() string      { return "date" }
func (Timestamp) String() string { return "timestamp" }

func (i Interval) String() string {
	return fmt.Sprintf("interval(%s)", i.Unit)
}

func (s Struct) String() string {
	var sb strings.Builder
	sb.WriteString("struct<")
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

func (Boolean) Equal(other DataType) bool   { _, ok := other.(Boolean); return ok }
func (Int8) Equal(other DataType) bool      { _, ok := other.(Int8); return ok }
func (Int16) Equal(other DataType) bool     { _, ok := other.(Int16); return ok }
func (Int32) Equal(other DataType) bool     { _, ok := other.(Int32); return ok }
func (Int64) Equal(other DataType) bool     { _, ok := other.(Int64); return ok }
func (Float32) Equal(other DataType) bool   { _, ok := other.(Float32); return ok }
func (Float64) Equal(other DataType) bool   { _, ok := other.(Float64); return ok }
func (String) Equal(other DataType) bool    { _, ok := other.(String); return ok }
func (Date) Equal(other DataType) bool      { _, ok := other.(Date); return ok }
func (Timestamp) Equal(other DataType) bool { _, ok := other.(Timestamp); return ok }

func (i Interval) Equal(other DataType) bool {
	o, ok := other.(Interval)
	return ok && i.Unit == o.Unit
}

func (s Struct) Equal(other DataType) bool {
	o, ok := other.(Struct)
	if !ok || len(s.fields) != len(o.fields) {
		return false
	}
	for i, f := range s.fields {
		if f.Name != o.fields[i].Name || !f.Type.Equal(o.fields[i].Type) {
			return false
		}
	}
	return true
}

// NewStruct builds a struct type from fields in declared order.
func NewStruct(fields ...StructField) Struct {
	return Struct{fields: fields}
}

// Fields returns the fields of the struct in declared order.
func (s Struct) Fields() []StructField {
	return s.fields
}

// Field returns the type of the named field.
func (s Struct) Field(name string) (DataType, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}
