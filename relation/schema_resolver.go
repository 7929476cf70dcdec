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
	"github.com/relq/relq/datatypes"
	"github.com/relq/relq/expr"
	"github.com/relq/relq/qerrors"
	"github.com/relq/relq/schema"
)

// resolveProjection computes the output schema of a selection. An empty
// selection list inherits the input schema. Star entries expand to every
// column of the referenced relation, destructure entries expand to the
// fields of their struct type in declaration order, and anything else
// contributes a single named column. Building the schema is also the
// duplicate-name check.
func resolveProjection(table TableNode, selections []expr.Expr) (schema.Schema, error) {
	if len(selections) == 0 {
		return table.Schema()
	}
	var fields []schema.Field
	for _, sel := range selections {
		expanded, err := expandEntry(sel, true /* allowStar */)
		if err != nil {
			return schema.Schema{}, err
		}
		fields = append(fields, expanded...)
	}
	return schema.New(fields...)
}

// resolveAggregation computes an aggregation schema: group keys first, in
// declaration order, then metrics. Whole-relation entries make no sense
// here and are rejected.
func resolveAggregation(by, metrics []expr.Expr) (schema.Schema, error) {
	var fields []schema.Field
	for _, e := range append(append([]expr.Expr{}, by...), metrics...) {
		expanded, err := expandEntry(e, false /* allowStar */)
		if err != nil {
			return schema.Schema{}, err
		}
		fields = append(fields, expanded...)
	}
	return schema.New(fields...)
}

func expandEntry(e expr.Expr, allowStar bool) ([]schema.Field, error) {
	switch v := e.(type) {
	case *expr.Star:
		if !allowStar {
			return nil, qerrors.Validationf("whole-relation entries are not allowed in aggregations")
		}
		sch, err := v.Relation().Schema()
		if err != nil {
			return nil, err
		}
		return sch.Fields(), nil
	case *expr.Destructure:
		st, ok := v.Type().(datatypes.Struct)
		if !ok {
			return nil, qerrors.Expressionf("cannot destructure non-struct expression %s of type %s", v, v.Type())
		}
		fields := make([]schema.Field, 0, len(st.Fields()))
		for _, f := range st.Fields() {
			fields = append(fields, schema.Field{Name: f.Name, Type: f.Type})
		}
		return fields, nil
	default:
		name := e.Name()
		if name == "" {
			return nil, qerrors.Expressionf("expression %s must be named to be projected", e)
		}
		return []schema.Field{{Name: name, Type: e.Type()}}, nil
	}
}

// validateFilters checks that every predicate is a boolean expression
// fully originating from table.
func validateFilters(table TableNode, predicates []expr.Expr, cache *expr.EqualityCache) error {
	for _, p := range predicates {
		if !isBoolean(p.Type()) {
			return qerrors.Expressionf("filter predicate %s must be boolean, got %s", p, p.Type())
		}
		if !expr.FullyOriginatesFrom(p, []expr.Relation{table}, cache) {
			return qerrors.Relationf("the expression %s does not fully originate from dependencies of the table expression", p)
		}
	}
	return nil
}

func isBoolean(t datatypes.DataType) bool {
	_, ok := t.(datatypes.Boolean)
	return ok
}
