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

package predicate

import (
	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/stats"
	"vitess.io/polystore/go/vt/vterrors"
)

var pushdownCounts = stats.NewCountersWithSingleLabel("PredicatePushdown", "Conjuncts classified for pushdown", "Outcome", "pushed", "generic")

// FromExpression classifies a source expression tree into a Node.
//
// Comparisons must have a column on one side and a literal or parameter on
// the other; a reversed comparison such as 5 < $0 is normalized to
// $0 > 5. Operators outside =, <, <=, >, >=, IS NULL, IS NOT NULL, AND,
// OR and NOT, and comparisons without exactly one column operand, are
// reported with an Unimplemented error so the caller can fall back to
// generic evaluation.
func FromExpression(e Expr) (Node, error) {
	call, ok := e.(*Call)
	if !ok {
		return nil, vterrors.NewErrorf(vterrors.Unimplemented, vterrors.UnsupportedOperands, "expression %s is not a predicate", e)
	}
	if !call.Op.classifiable() {
		return nil, vterrors.NewErrorf(vterrors.Unimplemented, vterrors.UnsupportedOperator, "unsupported operator %s in %s", call.Op, call)
	}

	switch {
	case call.Op.IsLogical():
		operands := make([]Node, 0, len(call.Operands))
		for _, operand := range call.Operands {
			n, err := FromExpression(operand)
			if err != nil {
				return nil, err
			}
			operands = append(operands, n)
		}
		return NewCompound(call.Op, operands...)

	case call.Op.IsNullCheck():
		if len(call.Operands) != 1 {
			return nil, vterrors.NewErrorf(vterrors.Unimplemented, vterrors.UnsupportedOperands, "%s takes one operand, got %d", call.Op, len(call.Operands))
		}
		col, ok := call.Operands[0].(*Column)
		if !ok {
			return nil, vterrors.NewErrorf(vterrors.Unimplemented, vterrors.UnsupportedOperands, "%s must be applied to a column: %s", call.Op, call)
		}
		return NewNullCheck(call.Op, col.Ordinal)
	}

	if len(call.Operands) != 2 {
		return nil, vterrors.NewErrorf(vterrors.Unimplemented, vterrors.UnsupportedOperands, "%s takes two operands, got %d", call.Op, len(call.Operands))
	}
	left, right := call.Operands[0], call.Operands[1]
	op := call.Op
	if _, ok := left.(*Column); !ok {
		left, right = right, left
		op = op.Flip()
	}
	col, ok := left.(*Column)
	if !ok {
		return nil, vterrors.NewErrorf(vterrors.Unimplemented, vterrors.UnsupportedOperands, "comparison without a column operand: %s", call)
	}
	operand, err := toOperand(right)
	if err != nil {
		return nil, vterrors.Wrapf(err, "classifying %s", call)
	}
	return NewComparison(op, col.Ordinal, operand)
}

func toOperand(e Expr) (Operand, error) {
	switch e := e.(type) {
	case *Literal:
		return LiteralOperand(e.Value), nil
	case *Param:
		return ParamOperand(e.Index), nil
	}
	return Operand{}, vterrors.NewErrorf(vterrors.Unimplemented, vterrors.UnsupportedOperands, "operand %s is neither a literal nor a parameter", e)
}

// Capabilities is declared by a storage adapter to tell which operators it
// can evaluate natively.
type Capabilities interface {
	Supports(op Operator) bool
}

// OperatorSet is a Capabilities backed by a fixed set of operators.
type OperatorSet map[Operator]bool

// NewOperatorSet returns a set supporting the given operators.
func NewOperatorSet(ops ...Operator) OperatorSet {
	set := make(OperatorSet, len(ops))
	for _, op := range ops {
		set[op] = true
	}
	return set
}

// Supports implements Capabilities.
func (s OperatorSet) Supports(op Operator) bool {
	return s[op]
}

// ReferenceCapabilities is the capability set of the reference adapter.
// LIKE and IN are never pushed to it.
var ReferenceCapabilities Capabilities = NewOperatorSet(
	Equal, LessThan, LessEqual, GreaterThan, GreaterEqual,
	IsNull, IsNotNull,
	And, Or, Not,
)

// IsPushable returns true if the adapter described by caps can evaluate
// the whole expression natively. Logical nodes are pushable when all of
// their operands are; a comparison is pushable when its operator is
// supported and exactly one side is a column, the other side being a
// literal, a parameter or an array constructor.
func IsPushable(e Expr, caps Capabilities) bool {
	call, ok := e.(*Call)
	if !ok || !caps.Supports(call.Op) {
		return false
	}
	switch {
	case call.Op.IsLogical():
		if len(call.Operands) == 0 {
			return false
		}
		for _, operand := range call.Operands {
			if !IsPushable(operand, caps) {
				return false
			}
		}
		return true
	case call.Op.IsNullCheck():
		if len(call.Operands) != 1 {
			return false
		}
		_, isCol := call.Operands[0].(*Column)
		return isCol
	case call.Op.IsComparison():
		if len(call.Operands) != 2 {
			return false
		}
		left, right := call.Operands[0], call.Operands[1]
		_, leftCol := left.(*Column)
		_, rightCol := right.(*Column)
		return (leftCol && isValue(right)) || (rightCol && isValue(left))
	}
	return false
}

// Split divides the conjuncts of a top-level AND into the ones the adapter
// can push down and the ones that have to be evaluated generically. An
// expression that is not an AND is a single conjunct.
func Split(e Expr, caps Capabilities) (pushed, remaining []Expr) {
	for _, conjunct := range splitAnd(e) {
		if IsPushable(conjunct, caps) {
			pushed = append(pushed, conjunct)
			pushdownCounts.Add("pushed", 1)
		} else {
			remaining = append(remaining, conjunct)
			pushdownCounts.Add("generic", 1)
		}
	}
	return pushed, remaining
}

func splitAnd(e Expr) []Expr {
	if call, ok := e.(*Call); ok && call.Op == And {
		var out []Expr
		for _, operand := range call.Operands {
			out = append(out, splitAnd(operand)...)
		}
		return out
	}
	return []Expr{e}
}

// ToExpression renders a node back as a source expression tree. types
// holds the column types of the row the node applies to; a column outside
// of it is typed Null.
func ToExpression(n Node, types []sqltypes.Type) Expr {
	switch n := n.(type) {
	case *Leaf:
		column := &Column{Ordinal: n.column}
		if n.column < len(types) {
			column.Type = types[n.column]
		}
		if n.op.IsNullCheck() {
			return &Call{Op: n.op, Operands: []Expr{column}}
		}
		var operand Expr
		if index, ok := n.operand.Param(); ok {
			operand = &Param{Index: index, Type: column.Type}
		} else {
			v, _ := n.operand.Literal()
			operand = &Literal{Value: v}
		}
		return &Call{Op: n.op, Operands: []Expr{column, operand}}
	case *Compound:
		operands := make([]Expr, 0, len(n.operands))
		for _, operand := range n.operands {
			operands = append(operands, ToExpression(operand, types))
		}
		return &Call{Op: n.op, Operands: operands}
	}
	return nil
}
