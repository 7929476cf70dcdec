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

package expr

import (
	"fmt"

	"github.com/relq/relq/datatypes"
	"github.com/relq/relq/qerrors"
)

// Column is a reference to a named column of a relation. Its provenance is
// the relation's root tables.
type Column struct {
	rel  Relation
	name string
	typ  datatypes.DataType
}

// NewColumn binds a column reference to rel, resolving its type from the
// relation's schema.
func NewColumn(rel Relation, name string) (*Column, error) {
	s, err := rel.Schema()
	if err != nil {
		return nil, err
	}
	typ, ok := s.Type(name)
	if !ok {
		return nil, qerrors.Validationf("column %q not found in %s", name, s)
	}
	return &Column{rel: rel, name: name, typ: typ}, nil
}

// Relation returns the relation the column is bound to.
func (c *Column) Relation() Relation { return c.rel }

func (c *Column) Type() datatypes.DataType { return c.typ }
func (c *Column) Name() string             { return c.name }
func (c *Column) Columnar() bool           { return true }
func (c *Column) Children() []Expr         { return nil }
func (c *Column) String() string           { return c.name }

func (c *Column) Equal(other Expr, cache *EqualityCache) bool {
	o, ok := other.(*Column)
	if !ok {
		return false
	}
	return c.name == o.name && RelationsEqual(c.rel, o.rel, cache)
}

// Literal is a constant scalar value. Values must be comparable Go values.
type Literal struct {
	value any
	typ   datatypes.DataType
}

// NewLiteral builds a typed constant.
func NewLiteral(value any, typ datatypes.DataType) *Literal {
	return &Literal{value: value, typ: typ}
}

// Value returns the constant value.
func (l *Literal) Value() any { return l.value }

func (l *Literal) Type() datatypes.DataType { return l.typ }
func (l *Literal) Name() string             { return "" }
func (l *Literal) Columnar() bool           { return false }
func (l *Literal) Children() []Expr         { return nil }
func (l *Literal) String() string           { return fmt.Sprintf("%v", l.value) }

func (l *Literal) Equal(other Expr, cache *EqualityCache) bool {
	o, ok := other.(*Literal)
	if !ok {
		return false
	}
	return l.value == o.value && l.typ.Equal(o.typ)
}

// Named gives an expression an output name, replacing any it already had.
type Named struct {
	arg   Expr
	alias string
}

// As names an expression.
func As(e Expr, name string) *Named {
	return &Named{arg: e, alias: name}
}

// Arg returns the wrapped expression.
func (n *Named) Arg() Expr { return n.arg }

func (n *Named) Type() datatypes.DataType { return n.arg.Type() }
func (n *Named) Name() string             { return n.alias }
func (n *Named) Columnar() bool           { return n.arg.Columnar() }
func (n *Named) Children() []Expr         { return []Expr{n.arg} }
func (n *Named) String() string           { return fmt.Sprintf("%s as %s", n.arg, n.alias) }

func (n *Named) Equal(other Expr, cache *EqualityCache) bool {
	o, ok := other.(*Named)
	if !ok {
		return false
	}
	return n.alias == o.alias && Equal(n.arg, o.arg, cache)
}

// ComparisonOp enumerates the boolean comparison operators.
type ComparisonOp int

const (
	OpEq ComparisonOp = iota
	OpNotEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
)

func (op ComparisonOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	default:
		return "?"
	}
}

// Comparison is a boolean comparison between two expressions.
type Comparison struct {
	op          ComparisonOp
	left, right Expr
}

// NewComparison builds a comparison expression.
func NewComparison(op ComparisonOp, left, right Expr) *Comparison {
	return &Comparison{op: op, left: left, right: right}
}

// Eq builds left == right.
func Eq(left, right Expr) *Comparison { return NewComparison(OpEq, left, right) }

// NotEq builds left != right.
func NotEq(left, right Expr) *Comparison { return NewComparison(OpNotEq, left, right) }

// Less builds left < right.
func Less(left, right Expr) *Comparison { return NewComparison(OpLess, left, right) }

// Greater builds left > right.
func Greater(left, right Expr) *Comparison { return NewComparison(OpGreater, left, right) }

// Op returns the comparison operator.
func (c *Comparison) Op() ComparisonOp { return c.op }

// Left returns the left operand.
func (c *Comparison) Left() Expr { return c.left }

// Right returns the right operand.
func (c *Comparison) Right() Expr { return c.right }

func (c *Comparison) Type() datatypes.DataType { return datatypes.Boolean{} }
func (c *Comparison) Name() string             { return "" }
func (c *Comparison) Columnar() bool           { return c.left.Columnar() || c.right.Columnar() }
func (c *Comparison) Children() []Expr         { return []Expr{c.left, c.right} }

func (c *Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.left, c.op, c.right)
}

func (c *Comparison) Equal(other Expr, cache *EqualityCache) bool {
	o, ok := other.(*Comparison)
	if !ok {
		return false
	}
	return c.op == o.op && Equal(c.left, o.left, cache) && Equal(c.right, o.right, cache)
}

// LogicalOp enumerates the boolean connectives.
type LogicalOp int

const (
	OpAnd LogicalOp = iota
	OpOr
)

func (op LogicalOp) String() string {
	if op == OpAnd {
		return "and"
	}
	return "or"
}

// Logical is a boolean conjunction or disjunction.
type Logical struct {
	op          LogicalOp
	left, right Expr
}

// And builds left AND right.
func And(left, right Expr) *Logical { return &Logical{op: OpAnd, left: left, right: right} }

// Or builds left OR right.
func Or(left, right Expr) *Logical { return &Logical{op: OpOr, left: left, right: right} }

// Op returns the connective.
func (l *Logical) Op() LogicalOp { return l.op }

// Left returns the left operand.
func (l *Logical) Left() Expr { return l.left }

// Right returns the right operand.
func (l *Logical) Right() Expr { return l.right }

func (l *Logical) Type() datatypes.DataType { return datatypes.Boolean{} }
func (l *Logical) Name() string             { return "" }
func (l *Logical) Columnar() bool           { return l.left.Columnar() || l.right.Columnar() }
func (l *Logical) Children() []Expr         { return []Expr{l.left, l.right} }

func (l *Logical) String() string {
	return fmt.Sprintf("(%s) %s (%s)", l.left, l.op, l.right)
}

func (l *Logical) Equal(other Expr, cache *EqualityCache) bool {
	o, ok := other.(*Logical)
	if !ok {
		return false
	}
	return l.op == o.op && Equal(l.left, o.left, cache) && Equal(l.right, o.right, cache)
}

// Not is boolean negation.
type Not struct {
	arg Expr
}

// NewNot negates a boolean expression.
func NewNot(arg Expr) *Not { return &Not{arg: arg} }

// Arg returns the negated expression.
func (n *Not) Arg() Expr { return n.arg }

func (n *Not) Type() datatypes.DataType { return datatypes.Boolean{} }
func (n *Not) Name() string             { return "" }
func (n *Not) Columnar() bool           { return n.arg.Columnar() }
func (n *Not) Children() []Expr         { return []Expr{n.arg} }
func (n *Not) String() string           { return fmt.Sprintf("not (%s)", n.arg) }

func (n *Not) Equal(other Expr, cache *EqualityCache) bool {
	o, ok := other.(*Not)
	if !ok {
		return false
	}
	return Equal(n.arg, o.arg, cache)
}

// ReductionOp enumerates the aggregate functions.
type ReductionOp int

const (
	OpCount ReductionOp = iota
	OpSum
	OpMin
	OpMax
	OpMean
)

func (op ReductionOp) String() string {
	switch op {
	case OpCount:
		return "count"
	case OpSum:
		return "sum"
	case OpMin:
		return "min"
	case OpMax:
		return "max"
	case OpMean:
		return "mean"
	default:
		return "?"
	}
}

// Reduction is an aggregate function application. It produces a scalar
// per group, so it is never columnar.
type Reduction struct {
	op  ReductionOp
	arg Expr
}

// Count builds count(arg).
func Count(arg Expr) *Reduction { return &Reduction{op: OpCount, arg: arg} }

// Sum builds sum(arg).
func Sum(arg Expr) *Reduction { return &Reduction{op: OpSum, arg: arg} }

// Min builds min(arg).
func Min(arg Expr) *Reduction { return &Reduction{op: OpMin, arg: arg} }

// Max builds max(arg).
func Max(arg Expr) *Reduction { return &Reduction{op: OpMax, arg: arg} }

// Mean builds mean(arg).
func Mean(arg Expr) *Reduction { return &Reduction{op: OpMean, arg: arg} }

// Op returns the aggregate function.
func (r *Reduction) Op() ReductionOp { return r.op }

// Arg returns the aggregated expression.
func (r *Reduction) Arg() Expr { return r.arg }

func (r *Reduction) Type() datatypes.DataType {
	switch r.op {
	case OpCount:
		return datatypes.Int64{}
	case OpMean:
		return datatypes.Float64{}
	default:
		return r.arg.Type()
	}
}

func (r *Reduction) Name() string     { return "" }
func (r *Reduction) Columnar() bool   { return false }
func (r *Reduction) Children() []Expr { return []Expr{r.arg} }
func (r *Reduction) String() string   { return fmt.Sprintf("%s(%s)", r.op, r.arg) }

func (r *Reduction) Equal(other Expr, cache *EqualityCache) bool {
	o, ok := other.(*Reduction)
	if !ok {
		return false
	}
	return r.op == o.op && Equal(r.arg, o.arg, cache)
}

// StructField projects one field out of a struct-typed expression.
type StructField struct {
	arg   Expr
	field string
	typ   datatypes.DataType
}

// NewStructField builds arg.field, resolving the field type from arg's
// struct type.
func NewStructField(arg Expr, field string) (*StructField, error) {
	st, ok := arg.Type().(datatypes.Struct)
	if !ok {
		return nil, qerrors.Validationf("cannot take field %q of non-struct type %s", field, arg.Type())
	}
	typ, ok := st.Field(field)
	if !ok {
		return nil, qerrors.Validationf("struct type %s has no field %q", st, field)
	}
	return &StructField{arg: arg, field: field, typ: typ}, nil
}

func (s *StructField) Type() datatypes.DataType { return s.typ }
func (s *StructField) Name() string             { return s.field }
func (s *StructField) Columnar() bool           { return s.arg.Columnar() }
func (s *StructField) Children() []Expr         { return []Expr{s.arg} }
func (s *StructField) String() string           { return fmt.Sprintf("%s.%s", s.arg, s.field) }

func (s *StructField) Equal(other Expr, cache *EqualityCache) bool {
	o, ok := other.(*StructField)
	if !ok {
		return false
	}
	return s.field == o.field && Equal(s.arg, o.arg, cache)
}

// Destructure marks a struct-typed expression for expansion: when it
// appears as a projection or aggregation entry, the schema resolver emits
// one output column per struct field, in the struct's declared order.
type Destructure struct {
	arg Expr
}

// NewDestructure wraps a struct-typed expression for expansion.
func NewDestructure(arg Expr) (*Destructure, error) {
	if _, ok := arg.Type().(datatypes.Struct); !ok {
		return nil, qerrors.Validationf("cannot destructure non-struct type %s", arg.Type())
	}
	return &Destructure{arg: arg}, nil
}

// Arg returns the destructured expression.
func (d *Destructure) Arg() Expr { return d.arg }

func (d *Destructure) Type() datatypes.DataType { return d.arg.Type() }
func (d *Destructure) Name() string             { return "" }
func (d *Destructure) Columnar() bool           { return d.arg.Columnar() }
func (d *Destructure) Children() []Expr         { return []Expr{d.arg} }
func (d *Destructure) String() string           { return fmt.Sprintf("destructure(%s)", d.arg) }

func (d *Destructure) Equal(other Expr, cache *EqualityCache) bool {
	o, ok := other.(*Destructure)
	if !ok {
		return false
	}
	return Equal(d.arg, o.arg, cache)
}

// Star is a whole-relation projection entry: it contributes every column
// of its relation, in schema order.
type Star struct {
	rel Relation
}

// NewStar builds a whole-relation entry.
func NewStar(rel Relation) *Star { return &Star{rel: rel} }

// Relation returns the projected relation.
func (s *Star) Relation() Relation { return s.rel }

func (s *Star) Type() datatypes.DataType {
	sch, err := s.rel.Schema()
	if err != nil {
		return datatypes.NewStruct()
	}
	fields := make([]datatypes.StructField, sch.Len())
	for i, f := range sch.Fields() {
		fields[i] = datatypes.StructField{Name: f.Name, Type: f.Type}
	}
	return datatypes.NewStruct(fields...)
}

func (s *Star) Name() string     { return "" }
func (s *Star) Columnar() bool   { return true }
func (s *Star) Children() []Expr { return nil }
func (s *Star) String() string   { return "*" }

func (s *Star) Equal(other Expr, cache *EqualityCache) bool {
	o, ok := other.(*Star)
	if !ok {
		return false
	}
	return RelationsEqual(s.rel, o.rel, cache)
}

// SortKey is an ordering directive: an expression plus a direction. It is
// not itself a value expression.
type SortKey struct {
	Expr      Expr
	Ascending bool
}

// Asc orders by e ascending.
func Asc(e Expr) *SortKey { return &SortKey{Expr: e, Ascending: true} }

// Desc orders by e descending.
func Desc(e Expr) *SortKey { return &SortKey{Expr: e, Ascending: false} }

func (k *SortKey) String() string {
	dir := "desc"
	if k.Ascending {
		dir = "asc"
	}
	return fmt.Sprintf("%s %s", k.Expr, dir)
}

// EqualKey compares two sort keys through the shared cache.
func (k *SortKey) EqualKey(other *SortKey, cache *EqualityCache) bool {
	if k == other {
		return true
	}
	if k == nil || other == nil {
		return false
	}
	return k.Ascending == other.Ascending && Equal(k.Expr, other.Expr, cache)
}

// SortKeysEqual compares two sort-key sequences element-wise and
// order-sensitively.
func SortKeysEqual(a, b []*SortKey, cache *EqualityCache) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].EqualKey(b[i], cache) {
			return false
		}
	}
	return true
}
