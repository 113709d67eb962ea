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
	"strings"
)

// Operator is the operator of a predicate or source expression node.
type Operator int

// All operators known to the predicate model. Only a subset of them can be
// classified into a Node by FromExpression.
const (
	Equal Operator = iota
	NotEqual
	LessThan
	LessEqual
	GreaterThan
	GreaterEqual
	IsNull
	IsNotNull
	Like
	In
	And
	Or
	Not

	numOperators
)

var operatorNames = [numOperators]string{
	Equal:        "=",
	NotEqual:     "!=",
	LessThan:     "<",
	LessEqual:    "<=",
	GreaterThan:  ">",
	GreaterEqual: ">=",
	IsNull:       "IS NULL",
	IsNotNull:    "IS NOT NULL",
	Like:         "LIKE",
	In:           "IN",
	And:          "AND",
	Or:           "OR",
	Not:          "NOT",
}

func (op Operator) String() string {
	if op < 0 || op >= numOperators {
		return "UNKNOWN"
	}
	return operatorNames[op]
}

// ParseOperator returns the operator with the given SQL spelling. Matching
// is case-insensitive and accepts "<>" and "==" as aliases.
func ParseOperator(s string) (Operator, bool) {
	s = strings.ToUpper(strings.Join(strings.Fields(s), " "))
	switch s {
	case "<>":
		return NotEqual, true
	case "==":
		return Equal, true
	}
	for op, name := range operatorNames {
		if name == s {
			return Operator(op), true
		}
	}
	return 0, false
}

// IsComparison returns true for binary operators comparing a column with a
// value.
func (op Operator) IsComparison() bool {
	switch op {
	case Equal, NotEqual, LessThan, LessEqual, GreaterThan, GreaterEqual, Like, In:
		return true
	}
	return false
}

// IsNullCheck returns true for IS NULL and IS NOT NULL.
func (op Operator) IsNullCheck() bool {
	return op == IsNull || op == IsNotNull
}

// IsLogical returns true for AND, OR and NOT.
func (op Operator) IsLogical() bool {
	return op == And || op == Or || op == Not
}

// Flip returns the operator to use when the operands of a comparison are
// swapped, so that 5 < col becomes col > 5.
func (op Operator) Flip() Operator {
	switch op {
	case LessThan:
		return GreaterThan
	case LessEqual:
		return GreaterEqual
	case GreaterThan:
		return LessThan
	case GreaterEqual:
		return LessEqual
	}
	return op
}

// classifiable is the set of operators FromExpression turns into a Node.
func (op Operator) classifiable() bool {
	switch op {
	case Equal, LessThan, LessEqual, GreaterThan, GreaterEqual, IsNull, IsNotNull, And, Or, Not:
		return true
	}
	return false
}
