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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relq/relq/expr"
)

func TestToTree(t *testing.T) {
	u := usersTable()
	o := ordersTable()
	j, err := NewInnerJoin(u, o, [2]string{"id", "user_id"})
	require.NoError(t, err)
	lim, err := NewLimit(j, 10, 0)
	require.NoError(t, err)

	out := ToTree(lim)
	assert.Contains(t, out, "Limit (10 offset 0)")
	assert.Contains(t, out, "Join (inner, 1 predicates)")
	assert.Contains(t, out, "UnboundTable (users)")
	assert.Contains(t, out, "UnboundTable (orders)")
}

func TestToJSON(t *testing.T) {
	u := usersTable()
	f := activeUsers(t, u)

	out := ToJSON(f)
	var descr OpDescription
	require.NoError(t, json.Unmarshal([]byte(out), &descr))
	assert.Equal(t, "Selection", descr.OperatorType)
	require.Len(t, descr.Inputs, 1)
	assert.Equal(t, "UnboundTable", descr.Inputs[0].OperatorType)
	assert.Equal(t, "users", descr.Inputs[0].Detail)
}

func TestSortByOnSortedTreeShape(t *testing.T) {
	// Wrapping and fusing produce visibly different trees; this pins the
	// shape down for the renderers.
	u := usersTable()
	f := activeUsers(t, u)
	fused, err := SortBy(f, expr.Asc(col(t, u, "name")))
	require.NoError(t, err)
	wrapped, err := SortBy(f, expr.Asc(col(t, f, "name")))
	require.NoError(t, err)

	fusedTree := ToTree(fused)
	wrappedTree := ToTree(wrapped)
	assert.NotEqual(t, fusedTree, wrappedTree)

	var count func(n TableNode) int
	count = func(n TableNode) int {
		total := 1
		for _, in := range n.Inputs() {
			total += count(in)
		}
		return total
	}
	assert.Equal(t, 2, count(fused))
	assert.Equal(t, 3, count(wrapped))
}
