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

	"golang.org/x/exp/slices"

	"github.com/relq/relq/expr"
	"github.com/relq/relq/log"
	"github.com/relq/relq/schema"
)

// Selection projects, filters and orders a relation. With no explicit
// selections it is a plain filter/sort and inherits its input's schema;
// that form is non-blocking, so later sort and aggregate requests may fuse
// into it. With explicit selections it is a projection and blocks.
type Selection struct {
	table      TableNode
	selections []expr.Expr
	predicates []expr.Expr
	sortKeys   []*expr.SortKey

	// schema is resolved once at construction; resolution is also the
	// duplicate-column check.
	schema schema.Schema
}

// NewSelection builds a selection. Selections and sort keys must derive
// from table, predicates must be boolean expressions deriving from table,
// and the resolved output schema must be collision-free.
func NewSelection(table TableNode, selections, predicates []expr.Expr, sortKeys []*expr.SortKey) (*Selection, error) {
	cache := expr.NewEqualityCache()

	deps := make([]expr.Expr, 0, len(selections)+len(sortKeys))
	deps = append(deps, selections...)
	deps = append(deps, sortKeyExprs(sortKeys)...)
	if err := expr.AssertValidFor(table, deps, cache); err != nil {
		return nil, err
	}
	if err := validateFilters(table, predicates, cache); err != nil {
		return nil, err
	}

	sch, err := resolveProjection(table, selections)
	if err != nil {
		return nil, err
	}
	return &Selection{
		table:      table,
		selections: selections,
		predicates: predicates,
		sortKeys:   sortKeys,
		schema:     sch,
	}, nil
}

// Filter builds a non-blocking selection carrying only predicates.
func Filter(table TableNode, predicates ...expr.Expr) (*Selection, error) {
	return NewSelection(table, nil, predicates, nil)
}

// Project builds a blocking selection carrying only explicit projections.
func Project(table TableNode, selections ...expr.Expr) (*Selection, error) {
	return NewSelection(table, selections, nil, nil)
}

// Table returns the input relation.
func (s *Selection) Table() TableNode { return s.table }

// Selections returns the explicit projection entries, empty for a
// filter/sort selection.
func (s *Selection) Selections() []expr.Expr { return s.selections }

// Predicates returns the filter predicates.
func (s *Selection) Predicates() []expr.Expr { return s.predicates }

// SortKeys returns the ordering.
func (s *Selection) SortKeys() []*expr.SortKey { return s.sortKeys }

func (s *Selection) Schema() (schema.Schema, error) { return s.schema, nil }

// Blocks reports true only for explicit projections: a filter/sort
// selection is a fusion candidate.
func (s *Selection) Blocks() bool { return len(s.selections) > 0 }

// RootTables reports the selection itself: a filtered or renamed relation
// is a provenance root distinct from its input, which is what lets a
// table be joined against a filtered copy of itself.
func (s *Selection) RootTables() []expr.Relation { return selfRoots(s) }

func (s *Selection) Inputs() []TableNode { return []TableNode{s.table} }

func (s *Selection) ShortDescription() string {
	return fmt.Sprintf("%d selections, %d predicates, %d sort keys",
		len(s.selections), len(s.predicates), len(s.sortKeys))
}

func (s *Selection) EqualRelation(other expr.Relation, cache *expr.EqualityCache) bool {
	return equalRelation(s, other, cache)
}

func (s *Selection) equalComponents(other TableNode, cache *expr.EqualityCache) bool {
	o, ok := other.(*Selection)
	if !ok {
		return false
	}
	return expr.ExprsEqual(s.selections, o.selections, cache) &&
		expr.ExprsEqual(s.predicates, o.predicates, cache) &&
		expr.SortKeysEqual(s.sortKeys, o.sortKeys, cache) &&
		Equal(s.table, o.table, cache)
}

// emptyOrEqual is the relaxation comparison: for each of selections,
// predicates and sort keys, either side may be empty, but when both are
// populated they must be equal.
func (s *Selection) emptyOrEqual(other *Selection, cache *expr.EqualityCache) bool {
	if len(s.selections) > 0 && len(other.selections) > 0 &&
		!expr.ExprsEqual(s.selections, other.selections, cache) {
		return false
	}
	if len(s.predicates) > 0 && len(other.predicates) > 0 &&
		!expr.ExprsEqual(s.predicates, other.predicates, cache) {
		return false
	}
	if len(s.sortKeys) > 0 && len(other.sortKeys) > 0 &&
		!expr.SortKeysEqual(s.sortKeys, other.sortKeys, cache) {
		return false
	}
	return true
}

// CompatibleWith reports whether two selections are interchangeable for
// higher-level rewrites: structurally equal, or sharing an equal base
// table with one side a strict relaxation of the other.
func (s *Selection) CompatibleWith(other TableNode, cache *expr.EqualityCache) bool {
	if cache == nil {
		cache = expr.NewEqualityCache()
	}
	if Equal(s, other, cache) {
		return true
	}
	o, ok := other.(*Selection)
	if !ok {
		return false
	}
	return Equal(s.table, o.table, cache) && s.emptyOrEqual(o, cache)
}

// sortBy implements the fusion protocol for selections: when this node is
// non-blocking and the new keys are valid against its input, the keys are
// appended to a copy of this node; otherwise the node is wrapped.
func (s *Selection) sortBy(keys []*expr.SortKey) (TableNode, error) {
	cache := expr.NewEqualityCache()
	if !s.Blocks() && expr.IsValidFor(s.table, sortKeyExprs(keys), cache) {
		log.V(2).Infof("fusing %d sort keys into existing selection", len(keys))
		merged := append(slices.Clone(s.sortKeys), keys...)
		return NewSelection(s.table, s.selections, s.predicates, merged)
	}
	return NewSelection(s, nil, nil, keys)
}

// aggregate implements the fusion protocol for aggregations over
// selections: an explicit projection always wraps, since a projected
// ordering changes group semantics; a filter/sort selection attempts
// pushdown onto its input.
func (s *Selection) aggregate(metrics, by, having []expr.Expr) (TableNode, error) {
	if len(s.selections) > 0 {
		return NewAggregation(s, metrics, by, having, nil, nil)
	}
	helper := &aggregateSelection{
		parent:  s,
		metrics: metrics,
		by:      by,
		having:  having,
		cache:   expr.NewEqualityCache(),
	}
	return helper.result()
}

func sortKeyExprs(keys []*expr.SortKey) []expr.Expr {
	exprs := make([]expr.Expr, len(keys))
	for i, k := range keys {
		exprs[i] = k.Expr
	}
	return exprs
}
