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
	"strings"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/vterrors"
)

var _ Manager = (*listManager)(nil)

// listManager assigns explicit member values to each group. Values that
// are not listed go to the unbound group.
type listManager struct{}

func init() {
	Register(List, func() Manager { return listManager{} })
}

func (listManager) Strategy() string {
	return List
}

func (listManager) RequiresUnboundGroup() bool {
	return true
}

func (listManager) SupportsFamily(f sqltypes.Family) bool {
	return f == sqltypes.Numeric || f == sqltypes.Textual
}

func (m listManager) Validate(req *Request) error {
	if !m.SupportsFamily(req.Column.Family()) {
		return vterrors.Errorf(vterrors.InvalidArgument, "LIST partitioning cannot use column '%s' of type %v", req.Column.Name, req.Column.Type)
	}
	numeric := req.Column.Family() == sqltypes.Numeric
	seen := make(map[string]int)
	for i, group := range req.Qualifiers {
		if len(group) == 0 {
			return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.QualifierArity, "LIST group %d has no values", i)
		}
		for _, token := range group {
			token = strings.TrimSpace(token)
			if token == "" {
				return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.EmptyQualifier, "partition qualifiers may not be empty")
			}
			if numeric && !isDigits(token) {
				return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.NonNumericQualifier, "LIST qualifier '%s' is not a non-negative integer", token)
			}
			if prev, ok := seen[token]; ok {
				return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.DuplicateListValue, "LIST value '%s' is listed by groups %d and %d", token, prev, i)
			}
			seen[token] = i
		}
	}
	if len(req.Qualifiers)+1 != req.GroupCount {
		return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.GroupCountMismatch,
			"%d value lists do not fit %d partition groups, LIST needs one list per group besides the unbound group", len(req.Qualifiers), req.GroupCount)
	}
	if len(req.Qualifiers) == 0 {
		return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.NoQualifiers, "LIST partitioning needs at least one value list")
	}
	return checkGroupNames(req)
}

func (listManager) Route(scheme *catalog.PartitionScheme, value string) (int64, error) {
	value = strings.TrimSpace(value)
	for _, g := range scheme.BoundGroups() {
		for _, member := range g.Qualifiers {
			if strings.TrimSpace(member) == value {
				return g.ID, nil
			}
		}
	}
	return unboundGroup(scheme, value)
}
