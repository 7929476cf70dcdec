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
	"fmt"
	"reflect"

	"github.com/xlab/treeprint"
)

// OpDescription is the serializable shape of an operator for debug output.
type OpDescription struct {
	OperatorType string
	Detail       string          `json:",omitempty"`
	Inputs       []OpDescription `json:",omitempty"`
}

// ToJSON is a debug only function. It can panic, so do not use this in production code
func ToJSON(op TableNode) string {
	descr := buildDescriptionTree(op)
	out, err := json.MarshalIndent(descr, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(out)
}

func buildDescriptionTree(op TableNode) OpDescription {
	descr := OpDescription{
		OperatorType: reflect.TypeOf(op).Elem().Name(),
		Detail:       op.ShortDescription(),
	}
	for _, in := range op.Inputs() {
		descr.Inputs = append(descr.Inputs, buildDescriptionTree(in))
	}
	return descr
}

// ToTree renders the plan as an indented tree, one line per operator.
func ToTree(op TableNode) string {
	tree := asTree(op, nil)
	return tree.String()
}

func opDescr(op TableNode) string {
	typ := reflect.TypeOf(op).Elem().Name()
	shortDescription := op.ShortDescription()
	if shortDescription == "" {
		return typ
	}
	return fmt.Sprintf("%s (%s)", typ, shortDescription)
}

func asTree(op TableNode, root treeprint.Tree) treeprint.Tree {
	txt := opDescr(op)
	var branch treeprint.Tree
	if root == nil {
		branch = treeprint.NewWithRoot(txt)
	} else {
		branch = root.AddBranch(txt)
	}
	for _, child := range op.Inputs() {
		asTree(child, branch)
	}
	return branch
}
