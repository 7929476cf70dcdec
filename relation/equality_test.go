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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relq/relq/expr"
)

func TestEqualBasics(t *testing.T) {
	u := usersTable()
	u2 := usersTable()
	o := ordersTable()
	cache := expr.NewEqualityCache()

	// Identity short-circuits.
	assert.True(t, Equal(u, u, cache))

	// Structurally identical tables are equal, by value not identity.
	assert.True(t, Equal(u, u2, cache))
	assert.True(t, Equal(u2, u, cache))

	// Different names or schemas are not.
	assert.False(t, Equal(u, o, cache))
	assert.False(t, Equal(u, NewUnboundTable("users2", usersSchema()), cache))

	// Distinct variants over the same input are never equal.
	lim, err := NewLimit(u, 10, 0)
	require.NoError(t, err)
	dist, err := NewDistinct(u)
	require.NoError(t, err)
	assert.False(t, Equal(lim, dist, cache))

	assert.False(t, Equal(u, nil, cache))
	assert.True(t, Equal(nil, nil, cache))
}

func TestEqualDerivedNodes(t *testing.T) {
	buildPlan := func() TableNode {
		u := usersTable()
		o := ordersTable()
		f, err := Filter(u, col(t, u, "active"))
		require.NoError(t, err)
		j, err := NewInnerJoin(f, o, [2]expr.Expr{col(t, f, "id"), col(t, o, "user_id")})
		require.NoError(t, err)
		lim, err := NewLimit(j, 100, 10)
		require.NoError(t, err)
		return lim
	}

	a := buildPlan()
	b := buildPlan()
	cache := expr.NewEqualityCache()
	assert.True(t, Equal(a, b, cache))

	// A differing limit breaks equality at the top while the shared
	// sub-plan still compares equal.
	c, err := NewLimit(b.(*Limit).Table(), 100, 0)
	require.NoError(t, err)
	assert.False(t, Equal(a, c, cache))
	assert.True(t, Equal(a.(*Limit).Table(), c.Table(), cache))
}

func TestEqualSharedDiamond(t *testing.T) {
	// Two structurally equal plans that join a shared branch against
	// itself several levels deep. Without memoization this comparison
	// blows up exponentially; the cache keeps it linear in the number of
	// distinct node pairs.
	buildPlan := func() TableNode {
		var node TableNode = usersTable()
		for i := 0; i < 6; i++ {
			j, err := NewInnerJoin(node, node, "id")
			require.NoError(t, err)
			s, err := DedupJoinColumns(j, j.Left(), j.Right(), "_l", "_r")
			require.NoError(t, err)
			p, err := Project(s, col(t, s, "id_l"))
			require.NoError(t, err)
			named, err := Project(p, expr.As(col(t, p, "id_l"), "id"))
			require.NoError(t, err)
			node = named
		}
		return node
	}

	a := buildPlan()
	b := buildPlan()
	cache := expr.NewEqualityCache()
	assert.True(t, Equal(a, b, cache))
	assert.Greater(t, cache.Len(), 0)

	// A second comparison through the same cache adds nothing.
	entries := cache.Len()
	assert.True(t, Equal(a, b, cache))
	assert.Equal(t, entries, cache.Len())
}

func TestCrossJoinEqualityIgnoresPredicates(t *testing.T) {
	u := usersTable()
	o := ordersTable()

	a, err := NewCrossJoin(u, o)
	require.NoError(t, err)
	b, err := NewCrossJoin(usersTable(), ordersTable())
	require.NoError(t, err)
	assert.True(t, Equal(a, b, expr.NewEqualityCache()))

	inner, err := NewInnerJoin(u, o, "id")
	require.NoError(t, err)
	assert.False(t, Equal(a, inner, expr.NewEqualityCache()), "kind still discriminates")
}

func TestVisitTopDown(t *testing.T) {
	u := usersTable()
	f := activeUsers(t, u)
	lim, err := NewLimit(f, 5, 0)
	require.NoError(t, err)

	var seen []string
	err = VisitTopDown(lim, func(n TableNode) error {
		seen = append(seen, opDescr(n))
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 3)
	assert.Contains(t, seen[0], "Limit")
	assert.Contains(t, seen[1], "Selection")
	assert.Contains(t, seen[2], "UnboundTable")
}

func TestVisitTopDownVisitsSharedNodesOnce(t *testing.T) {
	u := usersTable()
	left := activeUsers(t, u)
	right, err := Filter(u, col(t, u, "active"))
	require.NoError(t, err)
	union, err := NewUnion(left, right, true)
	require.NoError(t, err)

	// Both branches share the same table instance; the walk must not
	// revisit it per incoming edge.
	counts := make(map[TableNode]int)
	err = VisitTopDown(union, func(n TableNode) error {
		counts[n]++
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, counts, 4)
	assert.Equal(t, 1, counts[u])
}
