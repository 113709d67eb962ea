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
)

type (
	// Expr is a node of a source expression tree, as handed over by a
	// front-end or a storage adapter. Column references are already
	// resolved to ordinals of the row they apply to.
	Expr interface {
		expr()
		String() string
	}

	// Column references a column of the input row by ordinal.
	Column struct {
		Ordinal int
		Type    sqltypes.Type
	}

	// Literal is a constant value.
	Literal struct {
		Value sqltypes.Value
	}

	// Param references a bound parameter by index.
	Param struct {
		Index int
		Type  sqltypes.Type
	}

	// Array is an array constructor, typically the right-hand side of IN.
	Array struct {
		Elements []Expr
	}

	// Call applies an operator to its operands.
	Call struct {
		Op       Operator
		Operands []Expr
	}
)

func (*Column) expr()  {}
func (*Literal) expr() {}
func (*Param) expr()   {}
func (*Array) expr()   {}
func (*Call) expr()    {}

func (c *Column) String() string {
	return fmt.Sprintf("$%d", c.Ordinal)
}

func (l *Literal) String() string {
	return l.Value.String()
}

func (p *Param) String() string {
	return fmt.Sprintf("?%d", p.Index)
}

func (a *Array) String() string {
	elems := make([]string, 0, len(a.Elements))
	for _, e := range a.Elements {
		elems = append(elems, e.String())
	}
	return "(" + strings.Join(elems, ", ") + ")"
}

func (c *Call) String() string {
	switch {
	case c.Op.IsNullCheck() && len(c.Operands) == 1:
		return c.Operands[0].String() + " " + c.Op.String()
	case c.Op == Not && len(c.Operands) == 1:
		return "NOT (" + c.Operands[0].String() + ")"
	}
	parts := make([]string, 0, len(c.Operands))
	for _, op := range c.Operands {
		parts = append(parts, op.String())
	}
	if c.Op.IsLogical() {
		return "(" + strings.Join(parts, " "+c.Op.String()+" ") + ")"
	}
	return strings.Join(parts, " "+c.Op.String()+" ")
}

// isValue returns true for the operand kinds that can sit on the non-column
// side of a pushable comparison.
func isValue(e Expr) bool {
	switch e.(type) {
	case *Literal, *Param, *Array:
		return true
	}
	return false
}
