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

// Limit truncates a relation to n rows starting at offset. It is a
// materialization boundary: nothing fuses across a row-count bound.
type Limit struct {
	table  TableNode
	n      int
	offset int
}

// NewLimit bounds the relation to n rows, skipping offset rows first.
func NewLimit(table TableNode, n, offset int) (*Limit, error) {
	if n < 0 {
		return nil, qerrors.Validationf("limit row count must be non-negative, got %d", n)
	}
	if offset < 0 {
		return nil, qerrors.Validationf("limit offset must be non-negative, got %d", offset)
	}
	return &Limit{table: table, n: n, offset: offset}, nil
}

// Table returns the bounded relation.
func (l *Limit) Table() TableNode { return l.table }

// N returns the row count.
func (l *Limit) N() int { return l.n }

// Offset returns the number of rows skipped.
func (l *Limit) Offset() int { return l.offset }

func (l *Limit) Schema() (schema.Schema, error) { return l.table.Schema() }
func (l *Limit) Blocks() bool                   { return true }
func (l *Limit) RootTables() []expr.Relation    { return selfRoots(l) }
func (l *Limit) Inputs() []TableNode            { return []TableNode{l.table} }

func (l *Limit) ShortDescription() string {
	return fmt.Sprintf("%d offset %d", l.n, l.offset)
}

func (l *Limit) EqualRelation(other expr.Relation, cache *expr.EqualityCache) bool {
	return equalRelation(l, other, cache)
}

func (l *Limit) equalComponents(other TableNode, cache *expr.EqualityCache) bool {
	o, ok := other.(*Limit)
	if !ok {
		return false
	}
	return l.n == o.n && l.offset == o.offset && Equal(l.table, o.table, cache)
}

// Distinct is a table-level unique-ing operation: the relational
// equivalent of SELECT DISTINCT over all output columns.
type Distinct struct {
	table TableNode
}

// NewDistinct dedups the relation. The input's schema must resolve, which
// guards against propagating a column collision.
func NewDistinct(table TableNode) (*Distinct, error) {
	if _, err := table.Schema(); err != nil {
		return nil, err
	}
	return &Distinct{table: table}, nil
}

// Table returns the deduped relation.
func (d *Distinct) Table() TableNode { return d.table }

func (d *Distinct) Schema() (schema.Schema, error) { return d.table.Schema() }
func (d *Distinct) Blocks() bool                   { return true }
func (d *Distinct) RootTables() []expr.Relation    { return selfRoots(d) }
func (d *Distinct) Inputs() []TableNode            { return []TableNode{d.table} }
func (d *Distinct) ShortDescription() string       { return "" }

func (d *Distinct) EqualRelation(other expr.Relation, cache *expr.EqualityCache) bool {
	return equalRelation(d, other, cache)
}

func (d *Distinct) equalComponents(other TableNode, cache *expr.EqualityCache) bool {
	o, ok := other.(*Distinct)
	if !ok {
		return false
	}
	return Equal(d.table, o.table, cache)
}
