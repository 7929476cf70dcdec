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

	"github.com/relq/relq/datatypes"
	"github.com/relq/relq/expr"
	"github.com/relq/relq/qerrors"
	"github.com/relq/relq/schema"
)

// JoinKind enumerates the join family.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
	OuterJoin
	AnyInnerJoin
	AnyLeftJoin
	LeftSemiJoin
	LeftAntiJoin
	CrossJoin
)

func (k JoinKind) String() string {
	switch k {
	case InnerJoin:
		return "inner"
	case LeftJoin:
		return "left"
	case RightJoin:
		return "right"
	case OuterJoin:
		return "outer"
	case AnyInnerJoin:
		return "any inner"
	case AnyLeftJoin:
		return "any left"
	case LeftSemiJoin:
		return "left semi"
	case LeftAntiJoin:
		return "left anti"
	case CrossJoin:
		return "cross"
	default:
		return "?"
	}
}

// retainsRight reports whether the join's output carries the right side's
// columns. Semi and anti joins filter the left side only.
func (k JoinKind) retainsRight() bool {
	return k != LeftSemiJoin && k != LeftAntiJoin
}

// Join combines two relations on a sequence of normalized boolean
// predicates. Construction runs the join builder: self-join
// disambiguation, predicate normalization and provenance validation.
type Join struct {
	kind        JoinKind
	left, right TableNode
	predicates  []expr.Expr
}

// NewJoin builds a join of the given kind. Each predicate may be a shared
// column name, a two-element expression pair, or a boolean column
// expression; conjunctions are flattened into their atoms.
func NewJoin(kind JoinKind, left, right TableNode, predicates ...any) (*Join, error) {
	cache := expr.NewEqualityCache()
	left, right, preds, err := makeDistinctJoinPredicates(left, right, predicates, cache)
	if err != nil {
		return nil, err
	}
	return &Join{kind: kind, left: left, right: right, predicates: preds}, nil
}

// NewInnerJoin builds an inner join.
func NewInnerJoin(left, right TableNode, predicates ...any) (*Join, error) {
	return NewJoin(InnerJoin, left, right, predicates...)
}

// NewLeftJoin builds a left outer join.
func NewLeftJoin(left, right TableNode, predicates ...any) (*Join, error) {
	return NewJoin(LeftJoin, left, right, predicates...)
}

// NewOuterJoin builds a full outer join.
func NewOuterJoin(left, right TableNode, predicates ...any) (*Join, error) {
	return NewJoin(OuterJoin, left, right, predicates...)
}

// NewCrossJoin builds the cartesian product of the two relations.
func NewCrossJoin(left, right TableNode) (*Join, error) {
	return NewJoin(CrossJoin, left, right)
}

// Kind returns the join kind.
func (j *Join) Kind() JoinKind { return j.kind }

// Left returns the left input.
func (j *Join) Left() TableNode { return j.left }

// Right returns the right input, which may be a SelfReference when the
// join was constructed with equal sides.
func (j *Join) Right() TableNode { return j.right }

// Predicates returns the normalized join predicates.
func (j *Join) Predicates() []expr.Expr { return j.predicates }

func (j *Join) Schema() (schema.Schema, error) {
	return joinSchema(j.kind, j.left, j.right)
}

func (j *Join) Blocks() bool { return false }

func (j *Join) RootTables() []expr.Relation {
	return joinRoots(j.left, j.right)
}

func (j *Join) Inputs() []TableNode { return []TableNode{j.left, j.right} }

func (j *Join) ShortDescription() string {
	return fmt.Sprintf("%s, %d predicates", j.kind, len(j.predicates))
}

func (j *Join) EqualRelation(other expr.Relation, cache *expr.EqualityCache) bool {
	return equalRelation(j, other, cache)
}

func (j *Join) equalComponents(other TableNode, cache *expr.EqualityCache) bool {
	o, ok := other.(*Join)
	if !ok || j.kind != o.kind {
		return false
	}
	if j.kind != CrossJoin && !expr.ExprsEqual(j.predicates, o.predicates, cache) {
		return false
	}
	return Equal(j.left, o.left, cache) && Equal(j.right, o.right, cache)
}

// joinSchema merges the input schemas: the disjoint union for retaining
// kinds, the left schema alone for semi and anti joins.
func joinSchema(kind JoinKind, left, right TableNode) (schema.Schema, error) {
	ls, err := left.Schema()
	if err != nil {
		return schema.Schema{}, err
	}
	if !kind.retainsRight() {
		return ls, nil
	}
	rs, err := right.Schema()
	if err != nil {
		return schema.Schema{}, err
	}
	return ls.Append(rs)
}

// joinRoots reports the join's provenance anchors. When both sides are
// themselves joins or selections, unraveling further is not well-defined
// and the sides are the roots.
func joinRoots(left, right TableNode) []expr.Relation {
	if isJoinOrSelection(left) && isJoinOrSelection(right) {
		return []expr.Relation{left, right}
	}
	return expr.DistinctRoots(left, right)
}

func isJoinOrSelection(n TableNode) bool {
	switch n.(type) {
	case *Join, *AsOfJoin, *Selection:
		return true
	default:
		return false
	}
}

// AsOfJoin matches each left row with the nearest right row by an ordering
// predicate, optionally partitioned by `by` keys and bounded by a
// tolerance interval.
type AsOfJoin struct {
	left, right TableNode
	predicates  []expr.Expr
	by          []expr.Expr
	tolerance   expr.Expr
}

// NewAsOfJoin builds an as-of join. predicates and by accept the same
// shapes as NewJoin; tolerance may be nil or an interval-typed expression.
func NewAsOfJoin(left, right TableNode, predicates []any, by []any, tolerance expr.Expr) (*AsOfJoin, error) {
	if tolerance != nil {
		if _, ok := tolerance.Type().(datatypes.Interval); !ok {
			return nil, qerrors.Validationf("as-of tolerance must be an interval, got %s", tolerance.Type())
		}
	}
	cache := expr.NewEqualityCache()
	left, right, preds, err := makeDistinctJoinPredicates(left, right, predicates, cache)
	if err != nil {
		return nil, err
	}
	byPreds, err := cleanJoinPredicates(left, right, by, cache)
	if err != nil {
		return nil, err
	}
	if err := validateJoinPredicates(left, right, byPreds, cache); err != nil {
		return nil, err
	}
	return &AsOfJoin{
		left:       left,
		right:      right,
		predicates: preds,
		by:         byPreds,
		tolerance:  tolerance,
	}, nil
}

// Left returns the left input.
func (j *AsOfJoin) Left() TableNode { return j.left }

// Right returns the right input.
func (j *AsOfJoin) Right() TableNode { return j.right }

// Predicates returns the normalized ordering predicates.
func (j *AsOfJoin) Predicates() []expr.Expr { return j.predicates }

// By returns the normalized partitioning predicates.
func (j *AsOfJoin) By() []expr.Expr { return j.by }

// Tolerance returns the tolerance bound, or nil.
func (j *AsOfJoin) Tolerance() expr.Expr { return j.tolerance }

func (j *AsOfJoin) Schema() (schema.Schema, error) {
	return joinSchema(InnerJoin, j.left, j.right)
}

func (j *AsOfJoin) Blocks() bool { return false }

func (j *AsOfJoin) RootTables() []expr.Relation {
	return joinRoots(j.left, j.right)
}

func (j *AsOfJoin) Inputs() []TableNode { return []TableNode{j.left, j.right} }

func (j *AsOfJoin) ShortDescription() string {
	return fmt.Sprintf("as-of, %d predicates, %d by", len(j.predicates), len(j.by))
}

func (j *AsOfJoin) EqualRelation(other expr.Relation, cache *expr.EqualityCache) bool {
	return equalRelation(j, other, cache)
}

func (j *AsOfJoin) equalComponents(other TableNode, cache *expr.EqualityCache) bool {
	o, ok := other.(*AsOfJoin)
	if !ok {
		return false
	}
	// No tolerance on both sides compares equal without recursing.
	if (j.tolerance == nil) != (o.tolerance == nil) {
		return false
	}
	if j.tolerance != nil && !expr.Equal(j.tolerance, o.tolerance, cache) {
		return false
	}
	return expr.ExprsEqual(j.by, o.by, cache) &&
		expr.ExprsEqual(j.predicates, o.predicates, cache) &&
		Equal(j.left, o.left, cache) && Equal(j.right, o.right, cache)
}
