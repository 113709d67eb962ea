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

package partition

import (
	"slices"

	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/predicate"
)

// PruneGroups returns the partition groups a filter restricts the scan to.
// ordinal is the position of the partition column in the filtered row.
// Only top-level conjuncts are considered: an equality between the
// partition column and a literal, or an OR of such equalities. ok is false
// when the filter does not restrict the groups.
func PruneGroups(scheme *catalog.PartitionScheme, ordinal int, filter predicate.Node) (groups []int64, ok bool) {
	if scheme == nil || filter == nil {
		return nil, false
	}
	for _, conjunct := range predicate.Conjuncts(filter) {
		if groups, ok := groupsOf(scheme, ordinal, conjunct); ok {
			return groups, true
		}
	}
	return nil, false
}

func groupsOf(scheme *catalog.PartitionScheme, ordinal int, n predicate.Node) ([]int64, bool) {
	switch n := n.(type) {
	case *predicate.Leaf:
		if n.Op() != predicate.Equal || n.Column() != ordinal {
			return nil, false
		}
		v, isLiteral := n.Operand().Literal()
		if !isLiteral || v.IsNull() {
			return nil, false
		}
		id, err := Route(v.ToString(), scheme)
		if err != nil {
			return nil, false
		}
		return []int64{id}, true
	case *predicate.Compound:
		if n.Op() != predicate.Or {
			return nil, false
		}
		var groups []int64
		for _, operand := range n.Operands() {
			ids, ok := groupsOf(scheme, ordinal, operand)
			if !ok {
				return nil, false
			}
			for _, id := range ids {
				if !slices.Contains(groups, id) {
					groups = append(groups, id)
				}
			}
		}
		return groups, true
	}
	return nil, false
}
