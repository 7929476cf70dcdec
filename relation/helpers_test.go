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

	"github.com/stretchr/testify/require"

	"github.com/relq/relq/datatypes"
	"github.com/relq/relq/expr"
	"github.com/relq/relq/schema"
)

func usersSchema() schema.Schema {
	return schema.Must(schema.New(
		schema.Field{Name: "id", Type: datatypes.Int64{}},
		schema.Field{Name: "name", Type: datatypes.String{}},
		schema.Field{Name: "active", Type: datatypes.Boolean{}},
	))
}

func usersTable() *UnboundTable {
	return NewUnboundTable("users", usersSchema())
}

func ordersTable() *UnboundTable {
	return NewUnboundTable("orders", schema.Must(schema.New(
		schema.Field{Name: "id", Type: datatypes.Int64{}},
		schema.Field{Name: "user_id", Type: datatypes.Int64{}},
		schema.Field{Name: "amount", Type: datatypes.Float64{}},
		schema.Field{Name: "created", Type: datatypes.Timestamp{}},
	)))
}

func col(t *testing.T, rel expr.Relation, name string) *expr.Column {
	t.Helper()
	c, err := expr.NewColumn(rel, name)
	require.NoError(t, err)
	return c
}

func activeUsers(t *testing.T, u TableNode) *Selection {
	t.Helper()
	f, err := Filter(u, col(t, u, "active"))
	require.NoError(t, err)
	return f
}

func schemaNames(t *testing.T, n TableNode) []string {
	t.Helper()
	s, err := n.Schema()
	require.NoError(t, err)
	return s.Names()
}
