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

// Package relation contains the relational operator nodes a logical query
// plan is built from.
/*
A plan is built bottom-up by client calls; every constructor validates its
node before returning, so a plan that exists is schema-valid and
semantically well-formed. Nodes are immutable once constructed and may be
shared between parents: the plan is a DAG, not a tree, because the same
source table commonly feeds several branches.

Three mechanisms keep construction sound:

 1. structural equality over the shared DAG, memoized through an
    expr.EqualityCache so heavily shared sub-plans are compared once;
 2. provenance validation: every embedded expression must fully originate
    from the node's declared inputs, tracked forward from the leaves via
    RootTables;
 3. the fusion protocol: SortBy and Aggregate merge new work into an
    existing non-blocking node where that is provably safe, and wrap the
    node otherwise.
*/
package relation

import (
	"github.com/relq/relq/expr"
)

type (
	// TableNode is one relational operator in the plan: its output is a
	// relation (an ordered set of named, typed columns). The set of
	// implementations in this package is closed.
	TableNode interface {
		expr.Relation

		// Blocks reports whether the node is a materialization boundary:
		// fusion stops here and new operations wrap the node instead of
		// merging into it.
		Blocks() bool

		// Inputs returns the child relations, for traversal.
		Inputs() []TableNode

		// ShortDescription is a terse, human-readable summary used by the
		// plan renderers.
		ShortDescription() string

		// equalComponents compares the node's own fields against other,
		// which is guaranteed to be checked for variant identity by Equal.
		equalComponents(other TableNode, cache *expr.EqualityCache) bool
	}

	// sortFuser is implemented by nodes that can merge new sort keys into
	// themselves instead of being wrapped.
	sortFuser interface {
		sortBy(keys []*expr.SortKey) (TableNode, error)
	}

	// aggregateFuser is implemented by nodes that can push an aggregation
	// request below themselves instead of being wrapped.
	aggregateFuser interface {
		aggregate(metrics, by, having []expr.Expr) (TableNode, error)
	}
)

// Equal is the structural-equality entry point for plan nodes: identical
// instances short-circuit, distinct variants are never equal, and every
// evaluated identity pair is memoized in cache so shared substructure is
// amortized across the whole comparison. A nil cache disables memoization.
func Equal(a, b TableNode, cache *expr.EqualityCache) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if eq, ok := cache.Lookup(a, b); ok {
		return eq
	}
	eq := a.equalComponents(b, cache)
	cache.Store(a, b, eq)
	return eq
}

// equalRelation adapts Equal to the expr.Relation contract. Every node's
// EqualRelation delegates here.
func equalRelation(n TableNode, other expr.Relation, cache *expr.EqualityCache) bool {
	o, ok := other.(TableNode)
	return ok && Equal(n, o, cache)
}

// selfRoots is the root set of a materialization boundary: itself.
func selfRoots(n TableNode) []expr.Relation {
	return []expr.Relation{n}
}

// VisitTopDown walks the plan breadth-first, visiting every reachable
// node once. Nodes shared between parents are deduped by identity, so the
// walk is linear even on heavily shared DAGs.
func VisitTopDown(root TableNode, visitor func(TableNode) error) error {
	seen := map[TableNode]struct{}{root: {}}
	queue := []TableNode{root}
	for len(queue) > 0 {
		this := queue[0]
		queue = queue[1:]
		if err := visitor(this); err != nil {
			return err
		}
		for _, in := range this.Inputs() {
			if _, ok := seen[in]; ok {
				continue
			}
			seen[in] = struct{}{}
			queue = append(queue, in)
		}
	}
	return nil
}

// SortBy orders a relation by additional sort keys. Nodes that can fuse
// (a non-blocking Selection, an Aggregation whose input the keys are valid
// against) absorb the keys; every other node is wrapped in a fresh
// Selection carrying only the new keys. A key bound to a relation the
// target does not derive from is a relation error, never reinterpreted.
func SortBy(table TableNode, keys ...*expr.SortKey) (TableNode, error) {
	if f, ok := table.(sortFuser); ok {
		return f.sortBy(keys)
	}
	return NewSelection(table, nil, nil, keys)
}

// Aggregate groups a relation, producing by-keys followed by metrics.
// A Selection without explicit projections may have the aggregation pushed
// below it; every other node is wrapped in a plain Aggregation.
func Aggregate(table TableNode, metrics, by, having []expr.Expr) (TableNode, error) {
	if f, ok := table.(aggregateFuser); ok {
		return f.aggregate(metrics, by, having)
	}
	return NewAggregation(table, metrics, by, having, nil, nil)
}
