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
	"github.com/relq/relq/qerrors"
)

// Walk visits exprs and all their sub-expressions in pre-order.
func Walk(visit func(Expr), exprs ...Expr) {
	for _, e := range exprs {
		if e == nil {
			continue
		}
		visit(e)
		Walk(visit, e.Children()...)
	}
}

// FlattenPredicate splits a boolean expression into its conjuncts:
// `a AND (b AND c)` flattens to [a, b, c]. The split is order-preserving,
// idempotent, and never crosses OR or NOT boundaries.
func FlattenPredicate(e Expr) []Expr {
	if l, ok := e.(*Logical); ok && l.op == OpAnd {
		return append(FlattenPredicate(l.left), FlattenPredicate(l.right)...)
	}
	return []Expr{e}
}

// rootsProvider lets an expression declare its provenance anchors
// directly instead of having them derived from its sub-expressions.
// Correlated subquery tests implement this: their inner predicates
// reference the foreign relation on purpose, and only the correlated
// side counts as provenance.
type rootsProvider interface {
	ProvenanceRoots() []Relation
}

// RootTablesOf returns the distinct provenance anchors the expressions
// reference: the union of the root tables of every relation bound inside
// them. Duplicate anchors (by identity) appear once.
func RootTablesOf(exprs ...Expr) []Relation {
	var roots []Relation
	seen := make(map[Relation]struct{})
	add := func(rels []Relation) {
		for _, r := range rels {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			roots = append(roots, r)
		}
	}
	for _, e := range exprs {
		collectRoots(e, add)
	}
	return roots
}

func collectRoots(e Expr, add func([]Relation)) {
	if e == nil {
		return
	}
	switch e := e.(type) {
	case rootsProvider:
		add(e.ProvenanceRoots())
	case *Column:
		add(e.rel.RootTables())
	case *Star:
		add(e.rel.RootTables())
	default:
		for _, child := range e.Children() {
			collectRoots(child, add)
		}
	}
}

// DistinctRoots returns the union of the relations' root tables, deduped
// by identity.
func DistinctRoots(rels ...Relation) []Relation {
	var roots []Relation
	seen := make(map[Relation]struct{})
	for _, rel := range rels {
		for _, r := range rel.RootTables() {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			roots = append(roots, r)
		}
	}
	return roots
}

// FullyOriginatesFrom reports whether every provenance anchor of e is
// among the root tables of the given parents. Expressions referencing no
// relation (pure scalars) originate from anything.
func FullyOriginatesFrom(e Expr, parents []Relation, cache *EqualityCache) bool {
	declared := DistinctRoots(parents...)
	for _, root := range RootTablesOf(e) {
		if !containsRelation(declared, root, cache) {
			return false
		}
	}
	return true
}

func containsRelation(rels []Relation, r Relation, cache *EqualityCache) bool {
	for _, candidate := range rels {
		if RelationsEqual(candidate, r, cache) {
			return true
		}
	}
	return false
}

// IsValidFor is the non-failing provenance check: true if every expression
// fully originates from rel.
func IsValidFor(rel Relation, exprs []Expr, cache *EqualityCache) bool {
	for _, e := range exprs {
		if !FullyOriginatesFrom(e, []Relation{rel}, cache) {
			return false
		}
	}
	return true
}

// AssertValidFor fails with a relation error naming the first expression
// that does not originate from rel.
func AssertValidFor(rel Relation, exprs []Expr, cache *EqualityCache) error {
	for _, e := range exprs {
		if !FullyOriginatesFrom(e, []Relation{rel}, cache) {
			return qerrors.Relationf(
				"the expression %s does not fully originate from dependencies of the table expression", e)
		}
	}
	return nil
}

// SubstituteRelation rebinds every column and star reference bound to a
// relation equal to from onto to, returning the rewritten expression.
// Columns whose name is absent from to's schema are left unchanged, which
// makes a later validity check fail rather than silently inventing a
// column. Sub-expressions that need no rewrite are shared, not copied.
func SubstituteRelation(e Expr, from, to Relation, cache *EqualityCache) Expr {
	switch e := e.(type) {
	case *Column:
		if !RelationsEqual(e.rel, from, cache) {
			return e
		}
		col, err := NewColumn(to, e.name)
		if err != nil {
			return e
		}
		return col
	case *Star:
		if !RelationsEqual(e.rel, from, cache) {
			return e
		}
		return NewStar(to)
	case *Named:
		if arg := SubstituteRelation(e.arg, from, to, cache); arg != e.arg {
			return As(arg, e.alias)
		}
	case *Comparison:
		left := SubstituteRelation(e.left, from, to, cache)
		right := SubstituteRelation(e.right, from, to, cache)
		if left != e.left || right != e.right {
			return NewComparison(e.op, left, right)
		}
	case *Logical:
		left := SubstituteRelation(e.left, from, to, cache)
		right := SubstituteRelation(e.right, from, to, cache)
		if left != e.left || right != e.right {
			return &Logical{op: e.op, left: left, right: right}
		}
	case *Not:
		if arg := SubstituteRelation(e.arg, from, to, cache); arg != e.arg {
			return NewNot(arg)
		}
	case *Reduction:
		if arg := SubstituteRelation(e.arg, from, to, cache); arg != e.arg {
			return &Reduction{op: e.op, arg: arg}
		}
	case *StructField:
		if arg := SubstituteRelation(e.arg, from, to, cache); arg != e.arg {
			if sf, err := NewStructField(arg, e.field); err == nil {
				return sf
			}
		}
	case *Destructure:
		if arg := SubstituteRelation(e.arg, from, to, cache); arg != e.arg {
			if d, err := NewDestructure(arg); err == nil {
				return d
			}
		}
	}
	return e
}

// ResolveAgainst rebinds every column reference in e by name onto rel.
// It is the best-effort rebind of the expression-handle contract: it
// succeeds only if every referenced column name exists in rel's schema.
func ResolveAgainst(rel Relation, e Expr) (Expr, bool) {
	switch e := e.(type) {
	case *Column:
		col, err := NewColumn(rel, e.name)
		if err != nil {
			return e, false
		}
		return col, true
	case *Star:
		return NewStar(rel), true
	case *Named:
		arg, ok := ResolveAgainst(rel, e.arg)
		if !ok {
			return e, false
		}
		return As(arg, e.alias), true
	case *Comparison:
		left, lok := ResolveAgainst(rel, e.left)
		right, rok := ResolveAgainst(rel, e.right)
		if !lok || !rok {
			return e, false
		}
		return NewComparison(e.op, left, right), true
	case *Logical:
		left, lok := ResolveAgainst(rel, e.left)
		right, rok := ResolveAgainst(rel, e.right)
		if !lok || !rok {
			return e, false
		}
		return &Logical{op: e.op, left: left, right: right}, true
	case *Not:
		arg, ok := ResolveAgainst(rel, e.arg)
		if !ok {
			return e, false
		}
		return NewNot(arg), true
	case *Reduction:
		arg, ok := ResolveAgainst(rel, e.arg)
		if !ok {
			return e, false
		}
		return &Reduction{op: e.op, arg: arg}, true
	case *StructField:
		arg, ok := ResolveAgainst(rel, e.arg)
		if !ok {
			return e, false
		}
		sf, err := NewStructField(arg, e.field)
		if err != nil {
			return e, false
		}
		return sf, true
	case *Destructure:
		arg, ok := ResolveAgainst(rel, e.arg)
		if !ok {
			return e, false
		}
		d, err := NewDestructure(arg)
		if err != nil {
			return e, false
		}
		return d, true
	default:
		// Literals and foreign expression kinds reference no columns.
		return e, true
	}
}
