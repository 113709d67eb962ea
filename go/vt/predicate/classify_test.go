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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/vt/vterrors"
)

func col(ordinal int) *Column {
	return &Column{Ordinal: ordinal, Type: sqltypes.Int64}
}

func lit(v int64) *Literal {
	return &Literal{Value: sqltypes.NewInt64(v)}
}

func str(s string) *Literal {
	return &Literal{Value: sqltypes.NewVarChar(s)}
}

func call(op Operator, operands ...Expr) *Call {
	return &Call{Op: op, Operands: operands}
}

func TestFromExpression(t *testing.T) {
	tests := []struct {
		in   Expr
		want string
	}{
		{call(GreaterThan, col(0), lit(5)), "$0 > INT64(5)"},
		{call(LessThan, lit(5), col(0)), "$0 > INT64(5)"},
		{call(LessEqual, &Param{Index: 2}, col(1)), "$1 >= ?2"},
		{call(Equal, lit(5), col(3)), "$3 = INT64(5)"},
		{call(IsNull, col(4)), "$4 IS NULL"},
		{call(IsNotNull, col(4)), "$4 IS NOT NULL"},
		{
			call(And, call(Equal, col(0), lit(5)), call(IsNull, col(1))),
			"($0 = INT64(5) AND $1 IS NULL)",
		},
		{
			call(Or, call(Equal, col(0), lit(1)), call(Not, call(GreaterEqual, col(1), &Param{Index: 0})), call(IsNotNull, col(2))),
			"($0 = INT64(1) OR NOT ($1 >= ?0) OR $2 IS NOT NULL)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			node, err := FromExpression(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.String())
		})
	}
}

func TestFromExpressionLeafShape(t *testing.T) {
	node, err := FromExpression(call(Equal, &Param{Index: 3}, col(7)))
	require.NoError(t, err)
	leaf, ok := node.(*Leaf)
	require.True(t, ok)
	assert.Equal(t, Equal, leaf.Op())
	assert.Equal(t, 7, leaf.Column())
	index, isParam := leaf.Operand().Param()
	assert.True(t, isParam)
	assert.Equal(t, 3, index)
	_, isLiteral := leaf.Operand().Literal()
	assert.False(t, isLiteral)

	node, err = FromExpression(call(IsNull, col(1)))
	require.NoError(t, err)
	assert.Equal(t, Operand{}, node.(*Leaf).Operand())
}

func TestFromExpressionUnsupported(t *testing.T) {
	tests := []struct {
		name  string
		in    Expr
		state vterrors.State
	}{
		{"like", call(Like, col(0), str("%x%")), vterrors.UnsupportedOperator},
		{"in", call(In, col(0), &Array{Elements: []Expr{lit(1), lit(2)}}), vterrors.UnsupportedOperator},
		{"not equal", call(NotEqual, col(0), lit(1)), vterrors.UnsupportedOperator},
		{"no column", call(Equal, lit(5), lit(5)), vterrors.UnsupportedOperands},
		{"two columns", call(Equal, col(0), col(1)), vterrors.UnsupportedOperands},
		{"array operand", call(Equal, col(0), &Array{}), vterrors.UnsupportedOperands},
		{"null check on literal", call(IsNull, lit(1)), vterrors.UnsupportedOperands},
		{"bare column", col(0), vterrors.UnsupportedOperands},
		{"ternary comparison", call(Equal, col(0), lit(1), lit(2)), vterrors.UnsupportedOperands},
		{"nested unsupported", call(And, call(Equal, col(0), lit(1)), call(Like, col(1), str("a"))), vterrors.UnsupportedOperator},
		{"unknown operator", call(Operator(99), col(0)), vterrors.UnsupportedOperator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := FromExpression(tt.in)
			require.Error(t, err)
			assert.Nil(t, node)
			assert.Equal(t, vterrors.CategoryClassification, vterrors.Category(err))
			assert.Equal(t, tt.state, vterrors.ErrState(err))
		})
	}
}

func TestFromExpressionArity(t *testing.T) {
	_, err := FromExpression(call(And, call(Equal, col(0), lit(1))))
	require.Error(t, err)
	assert.Equal(t, vterrors.ArityMismatch, vterrors.ErrState(err))

	_, err = FromExpression(call(Not, call(IsNull, col(0)), call(IsNull, col(1))))
	assert.Equal(t, vterrors.ArityMismatch, vterrors.ErrState(err))
}

func TestIsPushable(t *testing.T) {
	tests := []struct {
		name string
		in   Expr
		want bool
	}{
		{"col > 5", call(GreaterThan, col(0), lit(5)), true},
		{"5 < col", call(LessThan, lit(5), col(0)), true},
		{"col = 5 AND col2 IS NULL", call(And, call(Equal, col(0), lit(5)), call(IsNull, col(1))), true},
		{"col = ?0", call(Equal, col(0), &Param{Index: 0}), true},
		{"NOT col <= 1", call(Not, call(LessEqual, col(0), lit(1))), true},
		{"col LIKE '%x%'", call(Like, col(0), str("%x%")), false},
		{"5 = 5", call(Equal, lit(5), lit(5)), false},
		{"col IN (1,2,3)", call(In, col(0), &Array{Elements: []Expr{lit(1), lit(2), lit(3)}}), false},
		{"col = col2", call(Equal, col(0), col(1)), false},
		{"col != 1", call(NotEqual, col(0), lit(1)), false},
		{"partly pushable OR", call(Or, call(Equal, col(0), lit(5)), call(Like, col(1), str("a"))), false},
		{"literal", lit(1), false},
		{"empty AND", call(And), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPushable(tt.in, ReferenceCapabilities))
		})
	}
}

func TestIsPushableBroaderAdapter(t *testing.T) {
	broad := NewOperatorSet(Equal, Like, In, And)
	assert.True(t, IsPushable(call(Like, col(0), str("a.*")), broad))
	assert.True(t, IsPushable(call(In, col(0), &Array{Elements: []Expr{lit(1)}}), broad))
	assert.True(t, IsPushable(call(In, &Array{Elements: []Expr{lit(1)}}, col(0)), broad))
	assert.False(t, IsPushable(call(GreaterThan, col(0), lit(1)), broad))
	assert.False(t, IsPushable(call(Or, call(Equal, col(0), lit(1)), call(Equal, col(0), lit(2))), broad))
}

func TestSplit(t *testing.T) {
	pushable := call(Equal, col(0), lit(5))
	like := call(Like, col(1), str("a"))
	nullCheck := call(IsNull, col(2))
	pushed, remaining := Split(call(And, pushable, call(And, like, nullCheck)), ReferenceCapabilities)
	assert.Equal(t, []Expr{pushable, nullCheck}, pushed)
	assert.Equal(t, []Expr{like}, remaining)

	pushed, remaining = Split(like, ReferenceCapabilities)
	assert.Empty(t, pushed)
	assert.Equal(t, []Expr{like}, remaining)
}

func TestToExpression(t *testing.T) {
	source := call(And,
		call(Equal, col(0), lit(5)),
		call(Or, call(IsNull, col(2)), call(Not, call(GreaterEqual, col(1), &Param{Index: 0}))),
	)
	node, err := FromExpression(source)
	require.NoError(t, err)

	types := []sqltypes.Type{sqltypes.Int64, sqltypes.Float64, sqltypes.VarChar}
	expr := ToExpression(node, types)
	assert.Equal(t, node.String(), expr.String())
	back, err := FromExpression(expr)
	require.NoError(t, err)
	assert.Equal(t, node.String(), back.String())

	param := expr.(*Call).Operands[1].(*Call).Operands[1].(*Call).Operands[0].(*Call).Operands[1]
	assert.Equal(t, &Param{Index: 0, Type: sqltypes.Float64}, param)

	like, err := NewComparison(Like, 3, LiteralOperand(sqltypes.NewVarChar("a.*")))
	require.NoError(t, err)
	likeExpr := ToExpression(like, types)
	assert.Equal(t, `$3 LIKE VARCHAR("a.*")`, likeExpr.String())
	assert.Equal(t, sqltypes.Null, likeExpr.(*Call).Operands[0].(*Column).Type)
	assert.False(t, IsPushable(likeExpr, ReferenceCapabilities))
}

func TestParseOperator(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Operator
	}{
		{"=", Equal}, {"<>", NotEqual}, {"!=", NotEqual}, {"is  not null", IsNotNull},
		{"like", Like}, {"and", And}, {">=", GreaterEqual},
	} {
		op, ok := ParseOperator(tc.in)
		assert.True(t, ok, tc.in)
		assert.Equal(t, tc.want, op, tc.in)
	}
	_, ok := ParseOperator("BETWEEN")
	assert.False(t, ok)
	assert.Equal(t, "UNKNOWN", Operator(99).String())
}

func TestNodeHelpers(t *testing.T) {
	node, err := FromExpression(call(And,
		call(Equal, col(2), lit(5)),
		call(And, call(IsNull, col(0)), call(GreaterThan, col(2), lit(1))),
		call(Or, call(Equal, col(3), lit(1)), call(Equal, col(4), lit(1))),
	))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 3, 4}, Columns(node))
	assert.Len(t, Conjuncts(node), 4)

	c := node.(*Compound)
	ops := c.Operands()
	ops[0] = nil
	assert.NotNil(t, c.Operands()[0], "Operands must return a copy")
}

func TestNewCompoundErrors(t *testing.T) {
	leaf, err := NewNullCheck(IsNull, 0)
	require.NoError(t, err)

	_, err = NewCompound(Like, leaf, leaf)
	assert.Equal(t, vterrors.UnsupportedOperator, vterrors.ErrState(err))
	_, err = NewCompound(And, leaf, nil)
	assert.Equal(t, vterrors.InvalidArgument, vterrors.Code(err))
	_, err = NewComparison(In, 0, LiteralOperand(sqltypes.NewInt64(1)))
	assert.Equal(t, vterrors.UnsupportedOperator, vterrors.ErrState(err))
	_, err = NewComparison(Equal, -1, LiteralOperand(sqltypes.NewInt64(1)))
	assert.Equal(t, vterrors.InvalidArgument, vterrors.Code(err))
	_, err = NewNullCheck(Equal, 0)
	assert.Equal(t, vterrors.UnsupportedOperator, vterrors.ErrState(err))
}
