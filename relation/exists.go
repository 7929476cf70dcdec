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
	"strings"

	"github.com/relq/relq/datatypes"
	"github.com/relq/relq/expr"
	"github.com/relq/relq/qerrors"
)

// ExistsSubquery is a boolean value expression testing whether a
// correlated foreign relation has any row matching the predicates. It
// lives on the expression side of the fence: it is used inside filters,
// not composed as a relation.
type ExistsSubquery struct {
	foreign    TableNode
	predicates []expr.Expr
}

// NewExistsSubquery builds an EXISTS test against foreign.
func NewExistsSubquery(foreign TableNode, predicates []expr.Expr) (*ExistsSubquery, error) {
	if err := checkSubqueryPredicates(predicates); err != nil {
		return nil, err
	}
	return &ExistsSubquery{foreign: foreign, predicates: predicates}, nil
}

// Foreign returns the correlated relation.
func (e *ExistsSubquery) Foreign() TableNode { return e.foreign }

// Predicates returns the correlation predicates.
func (e *ExistsSubquery) Predicates() []expr.Expr { return e.predicates }

func (e *ExistsSubquery) String() string {
	return fmt.Sprintf("exists(%s)", joinExprs(e.predicates))
}

func (e *ExistsSubquery) Type() datatypes.DataType { return datatypes.Boolean{} }

func (e *ExistsSubquery) Name() string { return "" }

func (e *ExistsSubquery) Columnar() bool { return true }

func (e *ExistsSubquery) Children() []expr.Expr { return e.predicates }

// ProvenanceRoots reports the relations the subquery correlates against:
// everything its predicates reference except the foreign relation itself.
func (e *ExistsSubquery) ProvenanceRoots() []expr.Relation {
	return correlatedRoots(e.foreign, e.predicates)
}

func (e *ExistsSubquery) Equal(other expr.Expr, cache *expr.EqualityCache) bool {
	o, ok := other.(*ExistsSubquery)
	if !ok {
		return false
	}
	return expr.ExprsEqual(e.predicates, o.predicates, cache) &&
		Equal(e.foreign, o.foreign, cache)
}

// NotExistsSubquery is the negated form of ExistsSubquery.
type NotExistsSubquery struct {
	foreign    TableNode
	predicates []expr.Expr
}

// NewNotExistsSubquery builds a NOT EXISTS test against foreign.
func NewNotExistsSubquery(foreign TableNode, predicates []expr.Expr) (*NotExistsSubquery, error) {
	if err := checkSubqueryPredicates(predicates); err != nil {
		return nil, err
	}
	return &NotExistsSubquery{foreign: foreign, predicates: predicates}, nil
}

// Foreign returns the correlated relation.
func (e *NotExistsSubquery) Foreign() TableNode { return e.foreign }

// Predicates returns the correlation predicates.
func (e *NotExistsSubquery) Predicates() []expr.Expr { return e.predicates }

func (e *NotExistsSubquery) String() string {
	return fmt.Sprintf("not exists(%s)", joinExprs(e.predicates))
}

func (e *NotExistsSubquery) Type() datatypes.DataType { return datatypes.Boolean{} }

func (e *NotExistsSubquery) Name() string { return "" }

func (e *NotExistsSubquery) Columnar() bool { return true }

func (e *NotExistsSubquery) Children() []expr.Expr { return e.predicates }

// ProvenanceRoots reports the relations the subquery correlates against.
func (e *NotExistsSubquery) ProvenanceRoots() []expr.Relation {
	return correlatedRoots(e.foreign, e.predicates)
}

func (e *NotExistsSubquery) Equal(other expr.Expr, cache *expr.EqualityCache) bool {
	o, ok := other.(*NotExistsSubquery)
	if !ok {
		return false
	}
	return expr.ExprsEqual(e.predicates, o.predicates, cache) &&
		Equal(e.foreign, o.foreign, cache)
}

func checkSubqueryPredicates(predicates []expr.Expr) error {
	if len(predicates) == 0 {
		return qerrors.Validationf("exists subquery requires at least one correlation predicate")
	}
	for _, p := range predicates {
		if !isBoolean(p.Type()) {
			return qerrors.Expressionf("exists predicate %s must be boolean, got %s", p, p.Type())
		}
	}
	return nil
}

// correlatedRoots is the provenance of an exists test: the roots its
// predicates reference minus the foreign relation's own roots.
func correlatedRoots(foreign TableNode, predicates []expr.Expr) []expr.Relation {
	foreignRoots := foreign.RootTables()
	isForeign := func(r expr.Relation) bool {
		for _, fr := range foreignRoots {
			if r == fr {
				return true
			}
		}
		return false
	}
	var roots []expr.Relation
	for _, r := range expr.RootTablesOf(predicates...) {
		if !isForeign(r) {
			roots = append(roots, r)
		}
	}
	return roots
}

func joinExprs(exprs []expr.Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
