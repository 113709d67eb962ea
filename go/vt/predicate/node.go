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
	"fmt"
	"strings"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/vt/vterrors"
)

// Node is an immutable predicate tree. It is either a *Leaf or a *Compound.
type Node interface {
	node()
	// Op returns the operator at the root of the node.
	Op() Operator
	String() string
}

var (
	_ Node = (*Leaf)(nil)
	_ Node = (*Compound)(nil)
)

// Operand is the value side of a leaf: a literal or a bound parameter.
type Operand struct {
	literal sqltypes.Value
	param   int
	isParam bool
}

// LiteralOperand returns an operand holding v.
func LiteralOperand(v sqltypes.Value) Operand {
	return Operand{literal: v}
}

// ParamOperand returns an operand referencing the bound parameter index.
func ParamOperand(index int) Operand {
	return Operand{param: index, isParam: true}
}

// Literal returns the literal value. ok is false for a parameter operand.
func (o Operand) Literal() (v sqltypes.Value, ok bool) {
	return o.literal, !o.isParam
}

// Param returns the parameter index. ok is false for a literal operand.
func (o Operand) Param() (index int, ok bool) {
	return o.param, o.isParam
}

func (o Operand) String() string {
	if o.isParam {
		return fmt.Sprintf("?%d", o.param)
	}
	return o.literal.String()
}

// Leaf compares one column of the row with an operand, or checks the
// column for NULL.
type Leaf struct {
	op      Operator
	column  int
	operand Operand
}

// NewComparison builds a leaf comparing the column at ordinal with the
// operand. Besides the classifiable comparisons it accepts != and LIKE,
// which adapters evaluate generically.
func NewComparison(op Operator, ordinal int, operand Operand) (*Leaf, error) {
	switch op {
	case Equal, NotEqual, LessThan, LessEqual, GreaterThan, GreaterEqual, Like:
	default:
		return nil, vterrors.NewErrorf(vterrors.Unimplemented, vterrors.UnsupportedOperator, "operator %s cannot compare a column with a value", op)
	}
	if ordinal < 0 {
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "negative column ordinal %d", ordinal)
	}
	return &Leaf{op: op, column: ordinal, operand: operand}, nil
}

// NewNullCheck builds an IS NULL or IS NOT NULL leaf.
func NewNullCheck(op Operator, ordinal int) (*Leaf, error) {
	if !op.IsNullCheck() {
		return nil, vterrors.NewErrorf(vterrors.Unimplemented, vterrors.UnsupportedOperator, "operator %s is not a null check", op)
	}
	if ordinal < 0 {
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "negative column ordinal %d", ordinal)
	}
	return &Leaf{op: op, column: ordinal}, nil
}

func (*Leaf) node() {}

// Op implements Node.
func (l *Leaf) Op() Operator {
	return l.op
}

// Column returns the ordinal of the compared column.
func (l *Leaf) Column() int {
	return l.column
}

// Operand returns the value side of the leaf. It is the zero Operand for
// null checks.
func (l *Leaf) Operand() Operand {
	return l.operand
}

func (l *Leaf) String() string {
	if l.op.IsNullCheck() {
		return fmt.Sprintf("$%d %s", l.column, l.op)
	}
	return fmt.Sprintf("$%d %s %s", l.column, l.op, l.operand)
}

// Compound combines other nodes with AND, OR or NOT.
type Compound struct {
	op       Operator
	operands []Node
}

// NewCompound builds a compound node. AND and OR need at least two
// operands, NOT exactly one.
func NewCompound(op Operator, operands ...Node) (*Compound, error) {
	switch op {
	case And, Or:
		if len(operands) < 2 {
			return nil, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.ArityMismatch, "%s needs at least two operands, got %d", op, len(operands))
		}
	case Not:
		if len(operands) != 1 {
			return nil, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.ArityMismatch, "NOT needs exactly one operand, got %d", len(operands))
		}
	default:
		return nil, vterrors.NewErrorf(vterrors.Unimplemented, vterrors.UnsupportedOperator, "operator %s does not combine predicates", op)
	}
	for i, operand := range operands {
		if operand == nil {
			return nil, vterrors.Errorf(vterrors.InvalidArgument, "operand %d of %s is nil", i, op)
		}
	}
	return &Compound{op: op, operands: append([]Node(nil), operands...)}, nil
}

func (*Compound) node() {}

// Op implements Node.
func (c *Compound) Op() Operator {
	return c.op
}

// Operands returns a copy of the operands.
func (c *Compound) Operands() []Node {
	return append([]Node(nil), c.operands...)
}

func (c *Compound) String() string {
	if c.op == Not {
		return "NOT (" + c.operands[0].String() + ")"
	}
	parts := make([]string, 0, len(c.operands))
	for _, operand := range c.operands {
		parts = append(parts, operand.String())
	}
	return "(" + strings.Join(parts, " "+c.op.String()+" ") + ")"
}

// Walk calls visit for every node of the tree in pre-order. Walking stops
// early when visit returns false.
func Walk(n Node, visit func(Node) bool) {
	if !visit(n) {
		return
	}
	if c, ok := n.(*Compound); ok {
		for _, operand := range c.operands {
			Walk(operand, visit)
		}
	}
}

// Columns returns the ordinals referenced by the tree, in the order they
// are first seen.
func Columns(n Node) []int {
	var cols []int
	seen := make(map[int]bool)
	Walk(n, func(n Node) bool {
		if l, ok := n.(*Leaf); ok && !seen[l.column] {
			seen[l.column] = true
			cols = append(cols, l.column)
		}
		return true
	})
	return cols
}

// Conjuncts returns the operands of a top-level AND, or the node itself.
func Conjuncts(n Node) []Node {
	if c, ok := n.(*Compound); ok && c.op == And {
		var out []Node
		for _, operand := range c.operands {
			out = append(out, Conjuncts(operand)...)
		}
		return out
	}
	return []Node{n}
}
