// Copyright 2016, Google Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package planbuilder

import (
	"github.com/gammazero/deque"

	"vitess.io/polystore/go/vt/predicate"
	"vitess.io/polystore/go/vt/querytree"
	"vitess.io/polystore/go/vt/vterrors"
)

// filterBuilder binds a filter tree over column names to a predicate tree
// over the ordinals of a row layout.
//
// The tree is walked in post-order and every built node is pushed on an
// operand stack. A compound pops its own operands off the stack:
//
//   - AND and OR pop all their operands and need at least two.
//   - NOT with one operand negates it.
//   - NOT with two operands a, b builds a AND NOT b.
type filterBuilder struct {
	st      *symtab
	columns *ColumnOrdinalMap
}

func (fb *filterBuilder) build(root *querytree.FilterNode) (predicate.Node, error) {
	var stack deque.Deque[predicate.Node]

	err := postOrderFilter(root, func(n *querytree.FilterNode) error {
		if n.IsLeaf() {
			leaf, err := fb.leaf(n)
			if err != nil {
				return err
			}
			stack.PushBack(leaf)
			return nil
		}

		count := len(n.Operands)
		if stack.Len() < count {
			return vterrors.Errorf(vterrors.Internal, "%v expects %d built operands, the stack holds %d", n.Op, count, stack.Len())
		}
		operands := make([]predicate.Node, count)
		for i := count - 1; i >= 0; i-- {
			operands[i] = stack.PopBack()
		}

		var (
			built predicate.Node
			err   error
		)
		switch {
		case n.Op == predicate.Not && count == 1:
			built, err = predicate.NewCompound(predicate.Not, operands[0])
		case n.Op == predicate.Not && count == 2:
			built, err = andNot(operands[0], operands[1])
		case n.Op == predicate.Not:
			return vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.MalformedFilter, "NOT takes one or two operands, got %d", count)
		case count < 2:
			return vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.MalformedFilter, "%v needs two built operands, got %d", n.Op, count)
		default:
			built, err = predicate.NewCompound(n.Op, operands...)
		}
		if err != nil {
			return err
		}
		stack.PushBack(built)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if stack.Len() != 1 {
		return nil, vterrors.Errorf(vterrors.Internal, "filter construction left %d nodes on the stack", stack.Len())
	}
	return stack.PopBack(), nil
}

// andNot builds a AND NOT b.
func andNot(a, b predicate.Node) (predicate.Node, error) {
	not, err := predicate.NewCompound(predicate.Not, b)
	if err != nil {
		return nil, err
	}
	return predicate.NewCompound(predicate.And, a, not)
}

func (fb *filterBuilder) leaf(n *querytree.FilterNode) (predicate.Node, error) {
	ordinal, err := fb.st.resolve(n.Column, fb.columns)
	if err != nil {
		return nil, err
	}
	if n.Op.IsNullCheck() {
		return predicate.NewNullCheck(n.Op, ordinal)
	}
	switch {
	case n.Param != nil:
		return predicate.NewComparison(n.Op, ordinal, predicate.ParamOperand(*n.Param))
	case n.Value != nil:
		return predicate.NewComparison(n.Op, ordinal, predicate.LiteralOperand(*n.Value))
	}
	return nil, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.MalformedFilter, "%v on '%s' has no operand", n.Op, n.Column)
}
