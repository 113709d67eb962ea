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
	mapset "github.com/deckarep/golang-set/v2"

	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/vterrors"
)

// AllGroups is the GroupID of the worst-case selection made by
// RelevantPlacements when no group is requested.
const AllGroups int64 = -1

// GroupPlacements lists, for one partition group, one placement per column
// of the table, in column order.
type GroupPlacements struct {
	GroupID    int64
	Placements []*catalog.ColumnPlacement
}

// Stores returns the distinct stores of the placements, in first-seen order.
func (gp GroupPlacements) Stores() []int64 {
	seen := mapset.NewThreadUnsafeSet[int64]()
	var stores []int64
	for _, p := range gp.Placements {
		if seen.Add(p.StoreID) {
			stores = append(stores, p.StoreID)
		}
	}
	return stores
}

// RelevantPlacements returns one placement per column for every requested
// partition group: the first placement, in creation order, that holds the
// group. When groupIDs is empty it returns a single worst-case selection,
// keyed AllGroups, made of the first full placement of every column.
func RelevantPlacements(snapshot catalog.Snapshot, table *catalog.Table, groupIDs []int64) ([]GroupPlacements, error) {
	if len(groupIDs) == 0 {
		gp := GroupPlacements{GroupID: AllGroups}
		for _, col := range table.Columns {
			p := firstFull(snapshot.ColumnPlacements(table.ID, col.ID))
			if p == nil {
				return nil, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.UnknownGroup,
					"column %s.%s has no full placement", table.Name, col.Name)
			}
			gp.Placements = append(gp.Placements, p)
		}
		return []GroupPlacements{gp}, nil
	}

	result := make([]GroupPlacements, 0, len(groupIDs))
	for _, groupID := range groupIDs {
		if table.Partitioning == nil || table.Partitioning.Group(groupID) == nil {
			return nil, vterrors.NewErrorf(vterrors.NotFound, vterrors.UnknownGroup, "partition group %d is not a group of %s", groupID, table.Name)
		}
		gp := GroupPlacements{GroupID: groupID}
		for _, col := range table.Columns {
			holders := snapshot.PlacementsByGroup(table.ID, groupID, col.ID)
			if len(holders) == 0 {
				return nil, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.UnknownGroup,
					"partition group %d of column %s.%s has no placement", groupID, table.Name, col.Name)
			}
			gp.Placements = append(gp.Placements, holders[0])
		}
		result = append(result, gp)
	}
	return result, nil
}

func firstFull(placements []*catalog.ColumnPlacement) *catalog.ColumnPlacement {
	for _, p := range placements {
		if p.Kind == catalog.FullPlacement {
			return p
		}
	}
	return nil
}

// DistributionWouldBreak reports whether dropping the column from the store
// would leave a partition group of the column without any placement, that
// is whether the store is the last holder of some group.
func DistributionWouldBreak(snapshot catalog.Snapshot, table *catalog.Table, storeID, columnID int64) (bool, error) {
	if table.ColumnByID(columnID) == nil {
		return false, vterrors.NewErrorf(vterrors.NotFound, vterrors.UnresolvedColumn, "column %d is not a column of %s", columnID, table.Name)
	}

	// an unpartitioned table behaves like a single group
	groups := mapset.NewThreadUnsafeSet[int64](AllGroups)
	if table.Partitioning != nil {
		groups = mapset.NewThreadUnsafeSet(table.Partitioning.GroupIDs()...)
	}

	held := mapset.NewThreadUnsafeSet[int64]()
	elsewhere := mapset.NewThreadUnsafeSet[int64]()
	for _, p := range snapshot.ColumnPlacements(table.ID, columnID) {
		target := elsewhere
		if p.StoreID == storeID {
			target = held
		}
		for _, g := range groups.ToSlice() {
			if p.Holds(g) {
				target.Add(g)
			}
		}
	}
	return held.Difference(elsewhere).Cardinality() > 0, nil
}
