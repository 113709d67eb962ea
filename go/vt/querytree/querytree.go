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

// Package querytree defines the structured query description handed over
// by front-end parsers: a tree of base relations combined by join and set
// operators, plus filter, projection and sort specifications that refer to
// columns by name.
package querytree

import (
	"strconv"
	"strings"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/vt/predicate"
)

type (
	// Query is a compiled unit. Filter, Projection and Sort refer to
	// columns by name, either bare ("id") or qualified by the table name or
	// alias ("o.id").
	Query struct {
		Relation   Relation
		Filter     *FilterNode
		Projection []ProjectItem
		Sort       []SortKey
		// Params are the bound parameter values, addressed by index.
		Params []sqltypes.Value
	}

	// Relation is a node of the relation tree: a *Table leaf or a
	// *Combine of two relations.
	Relation interface {
		iRelation()
		String() string
	}

	// Table is a base relation.
	Table struct {
		Name  string
		Alias string
	}

	// Combine joins or set-combines two relations.
	Combine struct {
		Op    CombineOp
		Left  Relation
		Right Relation
		// On is the join condition. It is nil for set operators and cross
		// joins.
		On *FilterNode
	}

	// FilterNode is a boolean expression over named columns. Leaves carry
	// a comparison or null-check operator, a column name and, for
	// comparisons, either a literal Value or a Param index. AND, OR and
	// NOT nodes carry Operands.
	FilterNode struct {
		Op       predicate.Operator
		Column   string
		Value    *sqltypes.Value
		Param    *int
		Operands []*FilterNode
	}

	// ProjectItem is one output column. Markers holds modifiers attached
	// by the front-end, such as an aggregate function name.
	ProjectItem struct {
		Column  string
		Alias   string
		Markers []string
	}

	// SortKey orders the output by a column.
	SortKey struct {
		Column     string
		Descending bool
		NullsFirst bool
	}
)

func (*Table) iRelation()   {}
func (*Combine) iRelation() {}

// Qualifier returns the name columns of the table are qualified with: the
// alias when set, the bare table name otherwise.
func (t *Table) Qualifier() string {
	if t.Alias != "" {
		return t.Alias
	}
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

func (t *Table) String() string {
	if t.Alias != "" {
		return t.Name + " as " + t.Alias
	}
	return t.Name
}

func (c *Combine) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(c.Left.String())
	b.WriteString(" ")
	b.WriteString(c.Op.String())
	b.WriteString(" ")
	b.WriteString(c.Right.String())
	if c.On != nil {
		b.WriteString(" on ")
		b.WriteString(c.On.String())
	}
	b.WriteString(")")
	return b.String()
}

// IsLeaf returns true for comparison and null-check nodes.
func (f *FilterNode) IsLeaf() bool {
	return !f.Op.IsLogical()
}

func (f *FilterNode) String() string {
	if f == nil {
		return ""
	}
	switch {
	case f.Op.IsLogical():
		parts := make([]string, 0, len(f.Operands))
		for _, operand := range f.Operands {
			parts = append(parts, operand.String())
		}
		return f.Op.String() + "(" + strings.Join(parts, ", ") + ")"
	case f.Op.IsNullCheck():
		return f.Column + " " + f.Op.String()
	case f.Param != nil:
		return f.Column + " " + f.Op.String() + " :" + strconv.Itoa(*f.Param)
	case f.Value != nil:
		return f.Column + " " + f.Op.String() + " " + f.Value.String()
	}
	return f.Column + " " + f.Op.String()
}

// String renders the query in a stable textual form. Two queries with the
// same rendering compile to the same plan against the same catalog version.
// Names are quoted so that separators inside them cannot collide.
func (q *Query) String() string {
	var b strings.Builder
	b.WriteString("from ")
	writeRelation(&b, q.Relation)
	if q.Filter != nil {
		b.WriteString(" where ")
		writeFilter(&b, q.Filter)
	}
	b.WriteString(" select ")
	for i, item := range q.Projection {
		if i > 0 {
			b.WriteString(", ")
		}
		for _, m := range item.Markers {
			b.WriteString(strconv.Quote(m))
			b.WriteString(":")
		}
		b.WriteString(strconv.Quote(item.Column))
		if item.Alias != "" {
			b.WriteString(" as ")
			b.WriteString(strconv.Quote(item.Alias))
		}
	}
	if len(q.Sort) > 0 {
		b.WriteString(" order by ")
		for i, key := range q.Sort {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(key.Column))
			if key.Descending {
				b.WriteString(" desc")
			}
			if key.NullsFirst {
				b.WriteString(" nulls first")
			}
		}
	}
	if len(q.Params) > 0 {
		b.WriteString(" params ")
		for i, p := range q.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.String())
		}
	}
	return b.String()
}

func writeRelation(b *strings.Builder, rel Relation) {
	switch rel := rel.(type) {
	case *Table:
		b.WriteString(strconv.Quote(rel.Name))
		if rel.Alias != "" {
			b.WriteString(" as ")
			b.WriteString(strconv.Quote(rel.Alias))
		}
	case *Combine:
		b.WriteString("(")
		writeRelation(b, rel.Left)
		b.WriteString(" ")
		b.WriteString(rel.Op.String())
		b.WriteString(" ")
		writeRelation(b, rel.Right)
		if rel.On != nil {
			b.WriteString(" on ")
			writeFilter(b, rel.On)
		}
		b.WriteString(")")
	}
}

func writeFilter(b *strings.Builder, f *FilterNode) {
	if f.Op.IsLogical() {
		b.WriteString(f.Op.String())
		b.WriteString("(")
		for i, operand := range f.Operands {
			if i > 0 {
				b.WriteString(", ")
			}
			writeFilter(b, operand)
		}
		b.WriteString(")")
		return
	}
	b.WriteString(strconv.Quote(f.Column))
	b.WriteString(" ")
	b.WriteString(f.Op.String())
	switch {
	case f.Op.IsNullCheck():
	case f.Param != nil:
		b.WriteString(" :")
		b.WriteString(strconv.Itoa(*f.Param))
	case f.Value != nil:
		b.WriteString(" ")
		b.WriteString(f.Value.String())
	}
}

// Eq returns a leaf comparing column with a literal.
func Eq(column string, v sqltypes.Value) *FilterNode {
	return Cmp(predicate.Equal, column, v)
}

// Cmp returns a leaf comparing column with a literal using op.
func Cmp(op predicate.Operator, column string, v sqltypes.Value) *FilterNode {
	return &FilterNode{Op: op, Column: column, Value: &v}
}

// CmpParam returns a leaf comparing column with a bound parameter.
func CmpParam(op predicate.Operator, column string, index int) *FilterNode {
	return &FilterNode{Op: op, Column: column, Param: &index}
}

// NullCheck returns an IS NULL or IS NOT NULL leaf.
func NullCheck(op predicate.Operator, column string) *FilterNode {
	return &FilterNode{Op: op, Column: column}
}

// And returns an AND node.
func And(operands ...*FilterNode) *FilterNode {
	return &FilterNode{Op: predicate.And, Operands: operands}
}

// Or returns an OR node.
func Or(operands ...*FilterNode) *FilterNode {
	return &FilterNode{Op: predicate.Or, Operands: operands}
}

// Not returns a NOT node.
func Not(operands ...*FilterNode) *FilterNode {
	return &FilterNode{Op: predicate.Not, Operands: operands}
}
