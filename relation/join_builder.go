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
	"github.com/relq/relq/expr"
	"github.com/relq/relq/qerrors"
	"github.com/relq/relq/schema"
)

// makeDistinctJoinPredicates runs the join builder. If left and right are
// the same plan, the right side is wrapped in a SelfReference so the two
// sides become distinguishable provenance roots; without that, a predicate
// like left.x == right.x on a self-join would be ambiguous about which
// branch a column came from. Predicates are then normalized and validated.
func makeDistinctJoinPredicates(
	left, right TableNode,
	predicates []any,
	cache *expr.EqualityCache,
) (TableNode, TableNode, []expr.Expr, error) {
	if Equal(left, right, cache) {
		right = NewSelfReference(right)
	}
	preds, err := cleanJoinPredicates(left, right, predicates, cache)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := validateJoinPredicates(left, right, preds, cache); err != nil {
		return nil, nil, nil, err
	}
	return left, right, preds, nil
}

// cleanJoinPredicates normalizes each incoming predicate into one or more
// flattened boolean comparisons:
//
//   - a column name shared by both sides becomes left[name] == right[name];
//   - a two-element expression pair becomes pair[0] == pair[1];
//   - a boolean column expression is used as-is;
//
// any other shape is rejected. Conjunctions are split into their atoms, so
// `a AND b` contributes two entries.
func cleanJoinPredicates(
	left, right TableNode,
	predicates []any,
	cache *expr.EqualityCache,
) ([]expr.Expr, error) {
	var result []expr.Expr
	for _, raw := range predicates {
		pred, err := normalizeJoinPredicate(left, right, raw)
		if err != nil {
			return nil, err
		}
		if !isBooleanColumn(pred) {
			return nil, qerrors.Expressionf("join predicate must be a boolean column expression, got %s", pred)
		}
		result = append(result, expr.FlattenPredicate(pred)...)
	}
	return result, nil
}

func normalizeJoinPredicate(left, right TableNode, raw any) (expr.Expr, error) {
	switch p := raw.(type) {
	case string:
		lk, err := expr.NewColumn(left, p)
		if err != nil {
			return nil, err
		}
		rk, err := expr.NewColumn(right, p)
		if err != nil {
			return nil, err
		}
		return expr.Eq(lk, rk), nil
	case [2]expr.Expr:
		return expr.Eq(p[0], p[1]), nil
	case []expr.Expr:
		if len(p) != 2 {
			return nil, qerrors.Expressionf("join key pair must be length 2, got %d", len(p))
		}
		return expr.Eq(p[0], p[1]), nil
	case [2]string:
		lk, err := expr.NewColumn(left, p[0])
		if err != nil {
			return nil, err
		}
		rk, err := expr.NewColumn(right, p[1])
		if err != nil {
			return nil, err
		}
		return expr.Eq(lk, rk), nil
	case expr.Expr:
		return p, nil
	default:
		return nil, qerrors.Unsupportedf("unsupported join predicate of type %T", raw)
	}
}

func isBooleanColumn(e expr.Expr) bool {
	return isBoolean(e.Type()) && e.Columnar()
}

// validateJoinPredicates checks that each normalized predicate is fully
// derivable from the combined roots of both sides.
func validateJoinPredicates(left, right TableNode, predicates []expr.Expr, cache *expr.EqualityCache) error {
	for _, pred := range predicates {
		if !expr.FullyOriginatesFrom(pred, []expr.Relation{left, right}, cache) {
			return qerrors.Relationf(
				"the expression %s does not fully originate from dependencies of the table expression", pred)
		}
	}
	return nil
}

// DedupJoinColumns helps clients building equi-joins whose sides share
// column names: it re-projects the joined relation with the overlapping
// names suffixed per side, leaving non-overlapping names untouched. A join
// without overlap is returned unchanged.
func DedupJoinColumns(joined, left, right TableNode, leftSuffix, rightSuffix string) (TableNode, error) {
	ls, err := left.Schema()
	if err != nil {
		return nil, err
	}
	rs, err := right.Schema()
	if err != nil {
		return nil, err
	}
	overlap := make(map[string]struct{})
	for _, name := range ls.Names() {
		if rs.IndexOf(name) >= 0 {
			overlap[name] = struct{}{}
		}
	}
	if len(overlap) == 0 {
		return joined, nil
	}

	var selections []expr.Expr
	appendSide := func(side TableNode, s schema.Schema, suffix string) error {
		for _, name := range s.Names() {
			col, err := expr.NewColumn(side, name)
			if err != nil {
				return err
			}
			if _, ok := overlap[name]; ok {
				selections = append(selections, expr.As(col, name+suffix))
			} else {
				selections = append(selections, col)
			}
		}
		return nil
	}
	if err := appendSide(left, ls, leftSuffix); err != nil {
		return nil, err
	}
	if err := appendSide(right, rs, rightSuffix); err != nil {
		return nil, err
	}
	return NewSelection(joined, selections, nil, nil)
}
