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

package relation

import (
	"fmt"

	"github.com/relq/relq/expr"
	"github.com/relq/relq/qerrors"
	"github.com/relq/relq/schema"
)

// FillNa replaces nulls either with a single scalar applied to every
// column or with a per-column replacement map. Exactly one of the two
// forms is populated. It is a row-wise transform: schema, blocking
// behavior and provenance all pass through.
type FillNa struct {
	table    TableNode
	value    *expr.Literal
	byColumn map[string]*expr.Literal
}

// NewFillNa fills nulls in every column with a single scalar.
func NewFillNa(table TableNode, value *expr.Literal) (*FillNa, error) {
	if value == nil {
		return nil, qerrors.Validationf("fillna requires a replacement value")
	}
	return &FillNa{table: table, value: value}, nil
}

// NewFillNaByColumn fills nulls per column. Every key must name a column
// of the input.
func NewFillNaByColumn(table TableNode, replacements map[string]*expr.Literal) (*FillNa, error) {
	sch, err := table.Schema()
	if err != nil {
		return nil, err
	}
	for name := range replacements {
		if sch.IndexOf(name) < 0 {
			return nil, qerrors.Relationf("fillna replacement column %q is not in the table schema", name)
		}
	}
	return &FillNa{table: table, byColumn: replacements}, nil
}

// Table returns the input relation.
func (f *FillNa) Table() TableNode { return f.table }

// Value returns the scalar replacement, nil in the per-column form.
func (f *FillNa) Value() *expr.Literal { return f.value }

// ByColumn returns the per-column replacements, nil in the scalar form.
func (f *FillNa) ByColumn() map[string]*expr.Literal { return f.byColumn }

func (f *FillNa) Schema() (schema.Schema, error) { return f.table.Schema() }

func (f *FillNa) Blocks() bool { return false }

// RootTables passes through: filling nulls introduces no new provenance.
func (f *FillNa) RootTables() []expr.Relation { return f.table.RootTables() }

func (f *FillNa) Inputs() []TableNode { return []TableNode{f.table} }

func (f *FillNa) ShortDescription() string {
	if f.value != nil {
		return fmt.Sprintf("fill with %s", f.value)
	}
	return fmt.Sprintf("fill %d columns", len(f.byColumn))
}

func (f *FillNa) EqualRelation(other expr.Relation, cache *expr.EqualityCache) bool {
	return equalRelation(f, other, cache)
}

func (f *FillNa) equalComponents(other TableNode, cache *expr.EqualityCache) bool {
	o, ok := other.(*FillNa)
	if !ok {
		return false
	}
	if (f.value == nil) != (o.value == nil) {
		return false
	}
	if f.value != nil && !expr.Equal(f.value, o.value, cache) {
		return false
	}
	if len(f.byColumn) != len(o.byColumn) {
		return false
	}
	for name, lit := range f.byColumn {
		olit, present := o.byColumn[name]
		if !present || !expr.Equal(lit, olit, cache) {
			return false
		}
	}
	return Equal(f.table, o.table, cache)
}

// DropHow selects the row-dropping rule for DropNa.
type DropHow int

const (
	// DropAny drops a row when any considered column is null.
	DropAny DropHow = iota
	// DropAll drops a row only when every considered column is null.
	DropAll
)

func (h DropHow) String() string {
	switch h {
	case DropAny:
		return "any"
	case DropAll:
		return "all"
	default:
		return fmt.Sprintf("DropHow(%d)", int(h))
	}
}

// DropNa removes rows containing nulls. An empty subset considers every
// column. Like FillNa it is a pure row filter and passes everything
// through.
type DropNa struct {
	table  TableNode
	how    DropHow
	subset []*expr.Column
}

// NewDropNa drops rows with nulls in the subset columns, or in any column
// when the subset is empty.
func NewDropNa(table TableNode, how DropHow, subset ...*expr.Column) (*DropNa, error) {
	if how != DropAny && how != DropAll {
		return nil, qerrors.Validationf("unknown dropna rule %s", how)
	}
	cache := expr.NewEqualityCache()
	deps := make([]expr.Expr, len(subset))
	for i, c := range subset {
		deps[i] = c
	}
	if err := expr.AssertValidFor(table, deps, cache); err != nil {
		return nil, err
	}
	return &DropNa{table: table, how: how, subset: subset}, nil
}

// Table returns the input relation.
func (d *DropNa) Table() TableNode { return d.table }

// How returns the dropping rule.
func (d *DropNa) How() DropHow { return d.how }

// Subset returns the considered columns, empty meaning all.
func (d *DropNa) Subset() []*expr.Column { return d.subset }

func (d *DropNa) Schema() (schema.Schema, error) { return d.table.Schema() }

func (d *DropNa) Blocks() bool { return false }

func (d *DropNa) RootTables() []expr.Relation { return d.table.RootTables() }

func (d *DropNa) Inputs() []TableNode { return []TableNode{d.table} }

func (d *DropNa) ShortDescription() string {
	return fmt.Sprintf("how=%s, %d subset columns", d.how, len(d.subset))
}

func (d *DropNa) EqualRelation(other expr.Relation, cache *expr.EqualityCache) bool {
	return equalRelation(d, other, cache)
}

func (d *DropNa) equalComponents(other TableNode, cache *expr.EqualityCache) bool {
	o, ok := other.(*DropNa)
	if !ok {
		return false
	}
	if d.how != o.how || len(d.subset) != len(o.subset) {
		return false
	}
	for i := range d.subset {
		if !expr.Equal(d.subset[i], o.subset[i], cache) {
			return false
		}
	}
	return Equal(d.table, o.table, cache)
}
