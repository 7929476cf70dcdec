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
	"sync/atomic"

	"github.com/relq/relq/expr"
	"github.com/relq/relq/qerrors"
	"github.com/relq/relq/schema"
)

// Source identifies the backend a physical table or query result is bound
// to. Sources are compared by identity.
type Source interface {
	Name() string
}

var unboundTableCount atomic.Uint64

func genName() string {
	return fmt.Sprintf("unbound_table_%d", unboundTableCount.Add(1)-1)
}

// UnboundTable is a named table with a declared schema and no backing
// source. It is a materialization boundary and its own provenance root.
type UnboundTable struct {
	name   string
	schema schema.Schema
}

// NewUnboundTable declares a table. An empty name is replaced with a
// generated one.
func NewUnboundTable(name string, s schema.Schema) *UnboundTable {
	if name == "" {
		name = genName()
	}
	return &UnboundTable{name: name, schema: s}
}

// Name returns the table name.
func (t *UnboundTable) Name() string { return t.name }

func (t *UnboundTable) Schema() (schema.Schema, error) { return t.schema, nil }
func (t *UnboundTable) Blocks() bool                   { return true }
func (t *UnboundTable) RootTables() []expr.Relation    { return selfRoots(t) }
func (t *UnboundTable) Inputs() []TableNode            { return nil }
func (t *UnboundTable) ShortDescription() string       { return t.name }

func (t *UnboundTable) EqualRelation(other expr.Relation, cache *expr.EqualityCache) bool {
	return equalRelation(t, other, cache)
}

func (t *UnboundTable) equalComponents(other TableNode, cache *expr.EqualityCache) bool {
	o, ok := other.(*UnboundTable)
	if !ok {
		return false
	}
	return t.name == o.name && t.schema.Equal(o.schema)
}

// DatabaseTable is a named table bound to a backend source.
type DatabaseTable struct {
	name   string
	schema schema.Schema
	source Source
}

// NewDatabaseTable binds a named table to a source.
func NewDatabaseTable(name string, s schema.Schema, source Source) (*DatabaseTable, error) {
	if name == "" {
		return nil, qerrors.Validationf("database table requires a name")
	}
	if source == nil {
		return nil, qerrors.Validationf("database table requires a source")
	}
	return &DatabaseTable{name: name, schema: s, source: source}, nil
}

// Name returns the table name.
func (t *DatabaseTable) Name() string { return t.name }

// Source returns the backend the table is bound to.
func (t *DatabaseTable) Source() Source { return t.source }

func (t *DatabaseTable) Schema() (schema.Schema, error) { return t.schema, nil }
func (t *DatabaseTable) Blocks() bool                   { return true }
func (t *DatabaseTable) RootTables() []expr.Relation    { return selfRoots(t) }
func (t *DatabaseTable) Inputs() []TableNode            { return nil }
func (t *DatabaseTable) ShortDescription() string       { return t.name }

func (t *DatabaseTable) EqualRelation(other expr.Relation, cache *expr.EqualityCache) bool {
	return equalRelation(t, other, cache)
}

func (t *DatabaseTable) equalComponents(other TableNode, cache *expr.EqualityCache) bool {
	o, ok := other.(*DatabaseTable)
	if !ok {
		return false
	}
	return t.name == o.name && t.source == o.source && t.schema.Equal(o.schema)
}

// SQLQueryResult is a table sourced from the result set of a raw query.
type SQLQueryResult struct {
	query  string
	schema schema.Schema
	source Source
}

// NewSQLQueryResult declares the result relation of a raw query against a
// source.
func NewSQLQueryResult(query string, s schema.Schema, source Source) (*SQLQueryResult, error) {
	if query == "" {
		return nil, qerrors.Validationf("query result requires query text")
	}
	if source == nil {
		return nil, qerrors.Validationf("query result requires a source")
	}
	return &SQLQueryResult{query: query, schema: s, source: source}, nil
}

// Query returns the raw query text.
func (t *SQLQueryResult) Query() string { return t.query }

// Source returns the backend the query runs against.
func (t *SQLQueryResult) Source() Source { return t.source }

func (t *SQLQueryResult) Schema() (schema.Schema, error) { return t.schema, nil }
func (t *SQLQueryResult) Blocks() bool                   { return true }
func (t *SQLQueryResult) RootTables() []expr.Relation    { return selfRoots(t) }
func (t *SQLQueryResult) Inputs() []TableNode            { return nil }

func (t *SQLQueryResult) ShortDescription() string {
	const max = 40
	if len(t.query) > max {
		return t.query[:max] + "..."
	}
	return t.query
}

func (t *SQLQueryResult) EqualRelation(other expr.Relation, cache *expr.EqualityCache) bool {
	return equalRelation(t, other, cache)
}

func (t *SQLQueryResult) equalComponents(other TableNode, cache *expr.EqualityCache) bool {
	o, ok := other.(*SQLQueryResult)
	if !ok {
		return false
	}
	return t.query == o.query && t.source == o.source && t.schema.Equal(o.schema)
}

// SelfReference makes a relation provenance-distinct from the relation it
// wraps: it deliberately reports itself as its own root rather than
// delegating to its child, so a table joined against a copy of itself is
// told apart from the original as two distinct roots.
type SelfReference struct {
	table TableNode
}

// NewSelfReference wraps a relation in a provenance-distinct view.
func NewSelfReference(table TableNode) *SelfReference {
	return &SelfReference{table: table}
}

// Table returns the wrapped relation.
func (s *SelfReference) Table() TableNode { return s.table }

func (s *SelfReference) Schema() (schema.Schema, error) { return s.table.Schema() }
func (s *SelfReference) Blocks() bool                   { return true }
func (s *SelfReference) RootTables() []expr.Relation    { return selfRoots(s) }
func (s *SelfReference) Inputs() []TableNode            { return []TableNode{s.table} }
func (s *SelfReference) ShortDescription() string       { return "" }

func (s *SelfReference) EqualRelation(other expr.Relation, cache *expr.EqualityCache) bool {
	return equalRelation(s, other, cache)
}

func (s *SelfReference) equalComponents(other TableNode, cache *expr.EqualityCache) bool {
	o, ok := other.(*SelfReference)
	if !ok {
		return false
	}
	return Equal(s.table, o.table, cache)
}
