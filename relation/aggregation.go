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
	"github.com/relq/relq/qerrors"
	"github.com/relq/relq/schema"
)

// Aggregation groups a relation by zero or more keys and computes scalar
// metrics per group. Predicates filter the input before grouping, having
// filters groups after. The output schema is the group keys followed by
// the metrics.
type Aggregation struct {
	table      TableNode
	metrics    []expr.Expr
	by         []expr.Expr
	having     []expr.Expr
	predicates []expr.Expr
	sortKeys   []*expr.SortKey

	schema schema.Schema
}

// NewAggregation builds an aggregation. Metrics must reduce to scalars,
// group keys must be columnar, having clauses must be boolean scalars, and
// everything must derive from table. With no group keys the output is a
// single row, so sort keys are discarded.
func NewAggregation(table TableNode, metrics, by, having, predicates []expr.Expr, sortKeys []*expr.SortKey) (*Aggregation, error) {
	cache := expr.NewEqualityCache()

	for _, m := range metrics {
		if m.Columnar() {
			return nil, qerrors.Validationf("aggregation metric %s must reduce to a scalar", m)
		}
	}
	for _, k := range by {
		if !k.Columnar() {
			return nil, qerrors.Validationf("group key %s must be a column expression", k)
		}
	}
	for _, h := range having {
		if !isBoolean(h.Type()) || h.Columnar() {
			return nil, qerrors.Expressionf("having clause %s must be a boolean scalar, got %s", h, h.Type())
		}
	}

	if len(by) == 0 {
		sortKeys = nil
	}

	deps := make([]expr.Expr, 0, len(metrics)+len(by)+len(having)+len(sortKeys))
	deps = append(deps, metrics...)
	deps = append(deps, by...)
	deps = append(deps, having...)
	deps = append(deps, sortKeyExprs(sortKeys)...)
	if err := expr.AssertValidFor(table, deps, cache); err != nil {
		return nil, err
	}
	if err := validateFilters(table, predicates, cache); err != nil {
		return nil, err
	}

	sch, err := resolveAggregation(by, metrics)
	if err != nil {
		return nil, err
	}
	return &Aggregation{
		table:      table,
		metrics:    metrics,
		by:         by,
		having:     having,
		predicates: predicates,
		sortKeys:   sortKeys,
		schema:     sch,
	}, nil
}

// Table returns the input relation.
func (a *Aggregation) Table() TableNode { return a.table }

// Metrics returns the per-group scalar expressions.
func (a *Aggregation) Metrics() []expr.Expr { return a.metrics }

// By returns the group keys.
func (a *Aggregation) By() []expr.Expr { return a.by }

// Having returns the post-grouping filters.
func (a *Aggregation) Having() []expr.Expr { return a.having }

// Predicates returns the pre-grouping filters.
func (a *Aggregation) Predicates() []expr.Expr { return a.predicates }

// SortKeys returns the input ordering applied before grouping.
func (a *Aggregation) SortKeys() []*expr.SortKey { return a.sortKeys }

func (a *Aggregation) Schema() (schema.Schema, error) { return a.schema, nil }

// Blocks reports true: the output columns of an aggregation are not the
// input columns, so nothing fuses through it.
func (a *Aggregation) Blocks() bool { return true }

func (a *Aggregation) RootTables() []expr.Relation { return selfRoots(a) }

func (a *Aggregation) Inputs() []TableNode { return []TableNode{a.table} }

func (a *Aggregation) ShortDescription() string {
	return fmt.Sprintf("%d metrics by %d keys", len(a.metrics), len(a.by))
}

func (a *Aggregation) EqualRelation(other expr.Relation, cache *expr.EqualityCache) bool {
	return equalRelation(a, other, cache)
}

func (a *Aggregation) equalComponents(other TableNode, cache *expr.EqualityCache) bool {
	o, ok := other.(*Aggregation)
	if !ok {
		return false
	}
	return expr.ExprsEqual(a.metrics, o.metrics, cache) &&
		expr.ExprsEqual(a.by, o.by, cache) &&
		expr.ExprsEqual(a.having, o.having, cache) &&
		expr.ExprsEqual(a.predicates, o.predicates, cache) &&
		expr.SortKeysEqual(a.sortKeys, o.sortKeys, cache) &&
		Equal(a.table, o.table, cache)
}

// sortBy implements the fusion protocol for aggregations: keys that bind
// to the aggregation's input describe the pre-grouping order and are
// appended in place; keys over the aggregation's own output wrap it.
func (a *Aggregation) sortBy(keys []*expr.SortKey) (TableNode, error) {
	cache := expr.NewEqualityCache()
	if expr.IsValidFor(a.table, sortKeyExprs(keys), cache) {
		log.V(2).Infof("fusing %d sort keys into existing aggregation", len(keys))
		merged := append(slices.Clone(a.sortKeys), keys...)
		return NewAggregation(a.table, a.metrics, a.by, a.having, a.predicates, merged)
	}
	return NewSelection(a, nil, nil, keys)
}

// aggregateSelection decides whether an aggregation requested over a
// filter/sort selection can instead run directly on the selection's input,
// carrying the selection's predicates and sort keys along. Sort keys are
// kept rather than discarded: order-dependent reductions exist.
type aggregateSelection struct {
	parent  *Selection
	metrics []expr.Expr
	by      []expr.Expr
	having  []expr.Expr
	cache   *expr.EqualityCache
}

func (h *aggregateSelection) result() (TableNode, error) {
	if h.parent.Blocks() {
		return h.wrap()
	}
	return h.pushdown()
}

func (h *aggregateSelection) wrap() (TableNode, error) {
	return NewAggregation(h.parent, h.metrics, h.by, h.having, nil, nil)
}

func (h *aggregateSelection) pushdown() (TableNode, error) {
	metrics, mok := h.lower(h.metrics)
	by, bok := h.lower(h.by)
	having, hok := h.lower(h.having)
	if !mok || !bok || !hok {
		log.V(2).Infof("aggregation does not lower onto the selection input, wrapping")
		return h.wrap()
	}
	log.V(2).Infof("pushing aggregation below selection")
	return NewAggregation(h.parent.table, metrics, by, having, h.parent.predicates, h.parent.sortKeys)
}

// lower rebinds every expression from the selection onto its input and
// reports whether the result is fully derivable there.
func (h *aggregateSelection) lower(exprs []expr.Expr) ([]expr.Expr, bool) {
	if len(exprs) == 0 {
		return nil, true
	}
	lowered := make([]expr.Expr, len(exprs))
	for i, e := range exprs {
		lowered[i] = expr.SubstituteRelation(e, h.parent, h.parent.table, h.cache)
	}
	return lowered, expr.IsValidFor(h.parent.table, lowered, h.cache)
}
