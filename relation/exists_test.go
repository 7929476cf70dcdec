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

	"github.com/relq/relq/datatypes"
	"github.com/relq/relq/expr"
	"github.com/relq/relq/qerrors"
)

func TestExistsSubquery(t *testing.T) {
	u := usersTable()
	o := ordersTable()

	corr := expr.Eq(col(t, u, "id"), col(t, o, "user_id"))
	e, err := NewExistsSubquery(o, []expr.Expr{corr})
	require.NoError(t, err)

	assert.Equal(t, datatypes.Boolean{}, e.Type())
	assert.True(t, e.Columnar())
	assert.Same(t, o, e.Foreign())

	// Provenance is the correlated side only: the foreign relation's
	// columns are bound inside the subquery, not projected out.
	roots := expr.RootTablesOf(e)
	require.Len(t, roots, 1)
	assert.Same(t, u, roots[0])

	_, err = NewExistsSubquery(o, nil)
	require.Error(t, err)
	assert.Equal(t, qerrors.ValidationFailure, qerrors.StateOf(err))

	_, err = NewExistsSubquery(o, []expr.Expr{col(t, o, "amount")})
	require.Error(t, err)
	assert.Equal(t, qerrors.ExpressionViolation, qerrors.StateOf(err))
}

func TestExistsSubqueryInFilter(t *testing.T) {
	u := usersTable()
	o := ordersTable()

	hasOrders, err := NewExistsSubquery(o, []expr.Expr{
		expr.Eq(col(t, u, "id"), col(t, o, "user_id")),
	})
	require.NoError(t, err)

	f, err := Filter(u, hasOrders)
	require.NoError(t, err)
	assert.Len(t, f.Predicates(), 1)

	// The same test against the wrong local table fails provenance.
	stray := NewUnboundTable("stray", usersSchema())
	_, err = Filter(stray, hasOrders)
	require.Error(t, err)
	assert.Equal(t, qerrors.RelationViolation, qerrors.StateOf(err))
}

func TestNotExistsSubquery(t *testing.T) {
	u := usersTable()
	o := ordersTable()
	corr := expr.Eq(col(t, u, "id"), col(t, o, "user_id"))

	ne, err := NewNotExistsSubquery(o, []expr.Expr{corr})
	require.NoError(t, err)
	assert.Equal(t, datatypes.Boolean{}, ne.Type())

	e, err := NewExistsSubquery(o, []expr.Expr{corr})
	require.NoError(t, err)

	cache := expr.NewEqualityCache()
	assert.False(t, expr.Equal(e, ne, cache), "negation is a distinct variant")

	// Structural equality holds across distinct but equal instances.
	o2 := ordersTable()
	ne2, err := NewNotExistsSubquery(o2, []expr.Expr{
		expr.Eq(col(t, u, "id"), col(t, o2, "user_id")),
	})
	require.NoError(t, err)
	assert.True(t, expr.Equal(ne, ne2, cache))
}
