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

// Package expr holds the scalar and columnar value expressions that
// relational operators embed: column references, literals, comparisons,
// reductions and the analysis services (predicate flattening, provenance
// checking, substitution) that plan construction validates them with.
//
// Expressions are immutable once built and may be freely shared between
// plan nodes; any rewrite produces a new expression.
package expr

import (
	"fmt"

	"github.com/relq/relq/datatypes"
	"github.com/relq/relq/schema"
)

type (
	// Expr is a value expression embedded in a plan node: a projection
	// entry, a predicate, a group key or a metric.
	Expr interface {
		fmt.Stringer

		// Type is the value type the expression produces.
		Type() datatypes.DataType

		// Name is the resolved output name of the expression, or "" if it
		// has none. Projected expressions must be named.
		Name() string

		// Columnar reports whether the expression produces a column of
		// values rather than a single scalar. Reductions are scalar even
		// when their argument is columnar.
		Columnar() bool

		// Children returns the direct sub-expressions, for traversal.
		Children() []Expr

		// Equal compares the expression's own components against other.
		// Callers should prefer the package-level Equal, which adds the
		// identity short-circuit and memoization.
		Equal(other Expr, cache *EqualityCache) bool
	}

	// Relation is the narrow view of a relational plan node that the
	// expression layer needs: its output schema, its provenance anchors,
	// and structural equality. The relation package provides the
	// implementations.
	Relation interface {
		// Schema is the ordered column set the relation produces.
		Schema() (schema.Schema, error)

		// RootTables are the provenance anchors this relation ultimately
		// reads from. Materialization boundaries report themselves.
		RootTables() []Relation

		// EqualRelation is structural equality against another relation,
		// memoized through cache.
		EqualRelation(other Relation, cache *EqualityCache) bool
	}
)

// EqualityCache memoizes structural-equality results between identity
// pairs of nodes. The plan is a DAG with heavy sharing, so the same pair
// of sub-nodes is compared many times during one top-level comparison;
// without memoization that comparison is exponential in the fan-in.
//
// A cache is safe to reuse across top-level calls from a single goroutine.
// The nil *EqualityCache is a valid no-op cache, and the zero value is a
// valid empty cache.
type EqualityCache struct {
	results map[cacheKey]bool
}

// cacheKey is an identity pair. Store records both orientations, making
// the pair effectively unordered.
type cacheKey struct {
	a, b any
}

// NewEqualityCache returns an empty cache.
func NewEqualityCache() *EqualityCache {
	return &EqualityCache{results: make(map[cacheKey]bool)}
}

// Lookup returns the memoized result for the pair, if present.
func (c *EqualityCache) Lookup(a, b any) (eq, ok bool) {
	if c == nil {
		return false, false
	}
	eq, ok = c.results[cacheKey{a, b}]
	return eq, ok
}

// Store memoizes the result for the pair in both orientations. The map is
// allocated on first use, so the zero value works like an empty cache.
func (c *EqualityCache) Store(a, b any, eq bool) {
	if c == nil {
		return
	}
	if c.results == nil {
		c.results = make(map[cacheKey]bool)
	}
	c.results[cacheKey{a, b}] = eq
	c.results[cacheKey{b, a}] = eq
}

// Len returns the number of memoized entries.
func (c *EqualityCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.results)
}

// Equal is the structural-equality entry point for expressions: identical
// instances short-circuit, distinct variants are never equal, and every
// evaluated pair is memoized in cache. A nil cache disables memoization.
func Equal(a, b Expr, cache *EqualityCache) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if eq, ok := cache.Lookup(a, b); ok {
		return eq
	}
	eq := a.Equal(b, cache)
	cache.Store(a, b, eq)
	return eq
}

// RelationsEqual compares two relations through the same cache, treating
// two nils as equal.
func RelationsEqual(a, b Relation, cache *EqualityCache) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.EqualRelation(b, cache)
}

// ExprsEqual compares two expression sequences element-wise and
// order-sensitively through the shared cache.
func ExprsEqual(a, b []Expr, cache *EqualityCache) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i], cache) {
			return false
		}
	}
	return true
}
