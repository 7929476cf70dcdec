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

// SetOpKind enumerates the set operations.
type SetOpKind int

const (
	UnionOp SetOpKind = iota
	IntersectionOp
	DifferenceOp
)

func (k SetOpKind) String() string {
	switch k {
	case UnionOp:
		return "union"
	case IntersectionOp:
		return "intersection"
	case DifferenceOp:
		return "difference"
	default:
		return "?"
	}
}

// SetOp combines two relations with structurally equal schemas. The output
// schema is the left schema. Set operations are materialization boundaries.
type SetOp struct {
	kind        SetOpKind
	left, right TableNode

	// distinct dedups the result; meaningful for unions only.
	distinct bool
}

func newSetOp(kind SetOpKind, left, right TableNode, distinct bool) (*SetOp, error) {
	ls, err := left.Schema()
	if err != nil {
		return nil, err
	}
	rs, err := right.Schema()
	if err != nil {
		return nil, err
	}
	if !ls.Equal(rs) {
		return nil, qerrors.Relationf("table schemas must be equal for set operations: %s vs %s", ls, rs)
	}
	return &SetOp{kind: kind, left: left, right: right, distinct: distinct}, nil
}

// NewUnion combines the rows of both relations, deduping when distinct is
// set.
func NewUnion(left, right TableNode, distinct bool) (*SetOp, error) {
	return newSetOp(UnionOp, left, right, distinct)
}

// NewIntersection keeps the rows present in both relations.
func NewIntersection(left, right TableNode) (*SetOp, error) {
	return newSetOp(IntersectionOp, left, right, false)
}

// NewDifference keeps the left rows absent from the right relation.
func NewDifference(left, right TableNode) (*SetOp, error) {
	return newSetOp(DifferenceOp, left, right, false)
}

// Kind returns the set operation.
func (s *SetOp) Kind() SetOpKind { return s.kind }

// Left returns the left input.
func (s *SetOp) Left() TableNode { return s.left }

// Right returns the right input.
func (s *SetOp) Right() TableNode { return s.right }

// Distinct reports whether the result is deduped.
func (s *SetOp) Distinct() bool { return s.distinct }

func (s *SetOp) Schema() (schema.Schema, error) { return s.left.Schema() }
func (s *SetOp) Blocks() bool                   { return true }
func (s *SetOp) RootTables() []expr.Relation    { return selfRoots(s) }
func (s *SetOp) Inputs() []TableNode            { return []TableNode{s.left, s.right} }
func (s *SetOp) ShortDescription() string       { return s.kind.String() }

func (s *SetOp) EqualRelation(other expr.Relation, cache *expr.EqualityCache) bool {
	return equalRelation(s, other, cache)
}

func (s *SetOp) equalComponents(other TableNode, cache *expr.EqualityCache) bool {
	o, ok := other.(*SetOp)
	if !ok {
		return false
	}
	return s.kind == o.kind && s.distinct == o.distinct &&
		Equal(s.left, o.left, cache) && Equal(s.right, o.right, cache)
}
