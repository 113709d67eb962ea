/*
Copyright 2026 The Vitess Authors.

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

package planbuilder

import (
	"vitess.io/polystore/go/vt/querytree"
	"vitess.io/polystore/go/vt/vterrors"
)

// postOrder visits the relation tree children first: both inputs of a
// Combine are visited, left then right, before the Combine itself. It is
// used to build stages, since a stage can only be added after its inputs.
func postOrder(rel querytree.Relation, visit func(querytree.Relation) error) error {
	switch rel := rel.(type) {
	case *querytree.Table:
		return visit(rel)
	case *querytree.Combine:
		if err := postOrder(rel.Left, visit); err != nil {
			return err
		}
		if err := postOrder(rel.Right, visit); err != nil {
			return err
		}
		return visit(rel)
	case nil:
		return vterrors.Errorf(vterrors.InvalidArgument, "query has no relation")
	}
	return vterrors.Errorf(vterrors.Internal, "unexpected relation type %T", rel)
}

// inOrder visits the left input of a Combine, then the Combine, then its
// right input. It is used for naming: the visible columns of a relation
// tree are those of its leaves in in-order sequence. When visit returns
// false for a Combine, its right input is skipped; set operators use this
// since their output is named after the left input only.
func inOrder(rel querytree.Relation, visit func(querytree.Relation) bool) {
	switch rel := rel.(type) {
	case *querytree.Table:
		visit(rel)
	case *querytree.Combine:
		inOrder(rel.Left, visit)
		if visit(rel) {
			inOrder(rel.Right, visit)
		}
	}
}

// postOrderFilter visits the filter tree children first.
func postOrderFilter(n *querytree.FilterNode, visit func(*querytree.FilterNode) error) error {
	for _, operand := range n.Operands {
		if operand == nil {
			return vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.MalformedFilter, "%v has a nil operand", n.Op)
		}
		if err := postOrderFilter(operand, visit); err != nil {
			return err
		}
	}
	return visit(n)
}
