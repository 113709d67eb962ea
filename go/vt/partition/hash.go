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
	"github.com/cespare/xxhash/v2"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/vterrors"
)

var _ Manager = (*hashManager)(nil)

// hashManager spreads values over a fixed number of groups by the xxhash
// of their textual form. It has no qualifiers and no unbound group.
type hashManager struct{}

func init() {
	Register(Hash, func() Manager { return hashManager{} })
}

func (hashManager) Strategy() string {
	return Hash
}

func (hashManager) RequiresUnboundGroup() bool {
	return false
}

func (hashManager) SupportsFamily(f sqltypes.Family) bool {
	return f != sqltypes.UnknownFamily
}

func (m hashManager) Validate(req *Request) error {
	if !m.SupportsFamily(req.Column.Family()) {
		return vterrors.Errorf(vterrors.InvalidArgument, "HASH partitioning cannot use column '%s' of type %v", req.Column.Name, req.Column.Type)
	}
	if len(req.Qualifiers) > 0 {
		return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.QualifierArity, "HASH partitioning takes no qualifiers, got %d", len(req.Qualifiers))
	}
	if req.GroupCount < 2 {
		return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.GroupCountMismatch, "HASH partitioning needs at least two partition groups, got %d", req.GroupCount)
	}
	return checkGroupNames(req)
}

func (hashManager) Route(scheme *catalog.PartitionScheme, value string) (int64, error) {
	if len(scheme.Groups) == 0 {
		return 0, vterrors.NewErrorf(vterrors.NotFound, vterrors.UnknownGroup, "HASH scheme has no partition groups")
	}
	return scheme.Groups[xxhash.Sum64String(value)%uint64(len(scheme.Groups))].ID, nil
}
