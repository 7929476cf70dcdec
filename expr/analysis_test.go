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

package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relq/relq/datatypes"
	"github.com/relq/relq/expr"
	"github.com/relq/relq/qerrors"
	"github.com/relq/relq/relation"
	"github.com/relq/relq/schema"
)

func TestFlattenPredicate(t *testing.T) {
	tbl := eventsTable("events")
	a := expr.Eq(column(t, tbl, "id"), expr.NewLiteral(int64(1), datatypes.Int64{}))
	b := column(t, tbl, "ok")
	c := expr.NotEq(column(t, tbl, "kind"), expr.NewLiteral("noise", datatypes.String{}))

	tests := []struct {
		name string
		in   expr.Expr
		want []expr.Expr
	}{{
		name: "atom",
		in:   a,
		want: []expr.Expr{a},
	}, {
		name: "left-nested and",
		in:   expr.And(expr.And(a, b), c),
		want: []expr.Expr{a, b, c},
	}, {
		name: "right-nested and",
		in:   expr.And(a, expr.And(b, c)),
		want: []expr.Expr{a, b, c},
	}, {
		name: "or is not split",
		in:   expr.Or(a, b),
		want: []expr.Expr{expr.Or(a, b)},
	}, {
		name: "not is not split",
		in:   expr.NewNot(expr.And(a, b)),
		want: []expr.Expr{expr.NewNot(expr.And(a, b))},
	}, {
		name: "and below or stays",
		in:   expr.And(a, expr.Or(b, c)),
		want: []expr.Expr{a, expr.Or(b, c)},
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expr.FlattenPredicate(tt.in)
			require.Len(t, got, len(tt.want))
			cache := expr.NewEqualityCache()
			for i := range tt.want {
				assert.True(t, expr.Equal(tt.want[i], got[i], cache), "conjunct %d", i)
			}
		})
	}
}

func TestFlattenPredicateIdempotent(t *testing.T) {
	tbl := eventsTable("events")
	a := column(t, tbl, "ok")
	b := expr.Eq(column(t, tbl, "id"), expr.NewLiteral(int64(2), datatypes.Int64{}))

	once := expr.FlattenPredicate(expr.And(a, b))
	require.Len(t, once, 2)
	for _, atom := range once {
		again := expr.FlattenPredicate(atom)
		require.Len(t, again, 1)
		assert.Same(t, atom, again[0])
	}
}

func TestRootTablesOf(t *testing.T) {
	left := eventsTable("left")
	right := eventsTable("right")

	pred := expr.Eq(column(t, left, "id"), column(t, right, "id"))
	roots := expr.RootTablesOf(pred)
	require.Len(t, roots, 2)
	assert.Same(t, left, roots[0])
	assert.Same(t, right, roots[1])

	// Duplicates collapse by identity, scalars contribute nothing.
	roots = expr.RootTablesOf(
		column(t, left, "id"),
		column(t, left, "kind"),
		expr.NewLiteral(int64(9), datatypes.Int64{}),
	)
	require.Len(t, roots, 1)
	assert.Same(t, left, roots[0])
}

func TestFullyOriginatesFrom(t *testing.T) {
	left := eventsTable("left")
	right := eventsTable("right")
	foreign := eventsTable("foreign")
	cache := expr.NewEqualityCache()

	pred := expr.Eq(column(t, left, "id"), column(t, right, "id"))
	assert.True(t, expr.FullyOriginatesFrom(pred, []expr.Relation{left, right}, cache))
	assert.False(t, expr.FullyOriginatesFrom(pred, []expr.Relation{left}, cache))

	stray := expr.Eq(column(t, left, "id"), column(t, foreign, "id"))
	assert.False(t, expr.FullyOriginatesFrom(stray, []expr.Relation{left, right}, cache))

	scalar := expr.NewLiteral(true, datatypes.Boolean{})
	assert.True(t, expr.FullyOriginatesFrom(scalar, nil, cache))
}

func TestAssertValidFor(t *testing.T) {
	tbl := eventsTable("events")
	other := eventsTable("other")
	cache := expr.NewEqualityCache()

	err := expr.AssertValidFor(tbl, []expr.Expr{column(t, tbl, "id")}, cache)
	require.NoError(t, err)

	err = expr.AssertValidFor(tbl, []expr.Expr{column(t, other, "id")}, cache)
	require.Error(t, err)
	assert.Equal(t, qerrors.RelationViolation, qerrors.StateOf(err))
}

func TestSubstituteRelation(t *testing.T) {
	from := eventsTable("from")
	to := eventsTable("to")
	cache := expr.NewEqualityCache()

	in := expr.And(
		expr.Eq(column(t, from, "id"), expr.NewLiteral(int64(3), datatypes.Int64{})),
		column(t, from, "ok"),
	)
	out := expr.SubstituteRelation(in, from, to, cache)
	require.NotSame(t, in, out)
	assert.True(t, expr.IsValidFor(to, []expr.Expr{out}, cache))
	assert.False(t, expr.IsValidFor(from, []expr.Expr{out}, cache))

	// Expressions not referencing from are returned unchanged, not copied.
	unrelated := expr.Eq(column(t, to, "id"), expr.NewLiteral(int64(3), datatypes.Int64{}))
	assert.Same(t, unrelated, expr.SubstituteRelation(unrelated, from, to, cache))
}

func TestResolveAgainst(t *testing.T) {
	src := eventsTable("src")
	dst := eventsTable("dst")

	in := expr.As(expr.Sum(column(t, src, "id")), "total")
	out, ok := expr.ResolveAgainst(dst, in)
	require.True(t, ok)
	cache := expr.NewEqualityCache()
	assert.True(t, expr.IsValidFor(dst, []expr.Expr{out}, cache))
	assert.Equal(t, "total", out.Name())

	// A column name missing from the target schema fails the resolve.
	narrow := relation.NewUnboundTable("narrow", schema.Must(schema.New(
		schema.Field{Name: "kind", Type: datatypes.String{}},
	)))
	_, ok = expr.ResolveAgainst(narrow, column(t, src, "id"))
	assert.False(t, ok)
}
