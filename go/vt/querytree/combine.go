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

package querytree

import (
	"strings"
)

// CombineOp is the operator of a Combine node.
type CombineOp int

// Join and set operators.
const (
	InnerJoin CombineOp = iota
	LeftJoin
	RightJoin
	FullJoin
	Union
	UnionAll
	Intersect
	Minus

	numCombineOps
)

var combineOpNames = [numCombineOps]string{
	InnerJoin: "INNER JOIN",
	LeftJoin:  "LEFT JOIN",
	RightJoin: "RIGHT JOIN",
	FullJoin:  "FULL JOIN",
	Union:     "UNION",
	UnionAll:  "UNION ALL",
	Intersect: "INTERSECT",
	Minus:     "MINUS",
}

func (op CombineOp) String() string {
	if op < 0 || op >= numCombineOps {
		return "UNKNOWN"
	}
	return combineOpNames[op]
}

// IsJoin returns true for the join operators. The others are set operators
// whose inputs must have the same shape.
func (op CombineOp) IsJoin() bool {
	return op <= FullJoin
}

// ParseCombineOp parses an operator name. Matching is case-insensitive,
// underscores stand for spaces and "JOIN" alone means an inner join.
func ParseCombineOp(s string) (CombineOp, bool) {
	s = strings.ToUpper(strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), " "))
	switch s {
	case "JOIN", "INNER":
		return InnerJoin, true
	case "LEFT", "LEFT OUTER JOIN":
		return LeftJoin, true
	case "RIGHT", "RIGHT OUTER JOIN":
		return RightJoin, true
	case "FULL", "FULL OUTER JOIN":
		return FullJoin, true
	case "EXCEPT":
		return Minus, true
	}
	for op, name := range combineOpNames {
		if name == s {
			return CombineOp(op), true
		}
	}
	return 0, false
}
