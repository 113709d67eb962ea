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

// Package catalog defines the read-only view of the metadata store that
// the partition router and the plan builder compile against.
//
// A Snapshot is a fixed metadata version. Everything reachable from it is
// immutable, so one snapshot can be shared by any number of concurrent
// compilations.
package catalog

import (
	"vitess.io/polystore/go/sqltypes"
)

//go:generate mockgen -destination=catalogmock/snapshot_mock.go -package=catalogmock vitess.io/polystore/go/vt/catalog Snapshot

// Snapshot is a consistent, versioned view of the catalog.
type Snapshot interface {
	// Version identifies the metadata version of this snapshot.
	Version() int64

	// TableByName looks a table up by name. The name may be qualified with
	// its namespace ("ns.table").
	TableByName(name string) (*Table, error)

	// TableByID looks a table up by id.
	TableByID(id int64) (*Table, error)

	// ColumnPlacements returns every placement of the column, in the order
	// the placements were created.
	ColumnPlacements(tableID, columnID int64) []*ColumnPlacement

	// PlacementsByGroup returns the placements of the column that hold data
	// of the given partition group.
	PlacementsByGroup(tableID, groupID, columnID int64) []*ColumnPlacement
}

// Column is a column of a table.
type Column struct {
	ID       int64
	TableID  int64
	Name     string
	Position int
	Type     sqltypes.Type
	Nullable bool
}

// Family returns the type family of the column.
func (c *Column) Family() sqltypes.Family {
	return sqltypes.FamilyOf(c.Type)
}

// Table is a logical table. Columns are ordered by position.
type Table struct {
	ID           int64
	Name         string
	Namespace    string
	Columns      []*Column
	Partitioning *PartitionScheme
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, col := range t.Columns {
		if col.Name == name {
			return col
		}
	}
	return nil
}

// ColumnByID returns the column with the given id, or nil.
func (t *Table) ColumnByID(id int64) *Column {
	for _, col := range t.Columns {
		if col.ID == id {
			return col
		}
	}
	return nil
}

// IsPartitioned returns true if the table has a partitioning scheme.
func (t *Table) IsPartitioned() bool {
	return t.Partitioning != nil
}

// QualifiedName returns namespace.name, or just the name when the table
// has no namespace.
func (t *Table) QualifiedName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// PartitionScheme is the persisted partitioning of a table.
type PartitionScheme struct {
	Strategy             string
	ColumnID             int64
	Groups               []*PartitionGroup
	RequiresUnboundGroup bool
}

// Group returns the group with the given id, or nil.
func (s *PartitionScheme) Group(id int64) *PartitionGroup {
	for _, g := range s.Groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// UnboundGroup returns the catch-all group, or nil if the scheme has none.
func (s *PartitionScheme) UnboundGroup() *PartitionGroup {
	for _, g := range s.Groups {
		if g.IsUnbound {
			return g
		}
	}
	return nil
}

// BoundGroups returns the groups that carry qualifiers, in stored order.
func (s *PartitionScheme) BoundGroups() []*PartitionGroup {
	bound := make([]*PartitionGroup, 0, len(s.Groups))
	for _, g := range s.Groups {
		if !g.IsUnbound {
			bound = append(bound, g)
		}
	}
	return bound
}

// GroupIDs returns the ids of all groups, in stored order.
func (s *PartitionScheme) GroupIDs() []int64 {
	ids := make([]int64, 0, len(s.Groups))
	for _, g := range s.Groups {
		ids = append(ids, g.ID)
	}
	return ids
}

// PartitionGroup is a logical subdivision of a table's rows.
type PartitionGroup struct {
	ID         int64
	Name       string
	Qualifiers []string
	IsUnbound  bool
	Partitions []*Partition
}

// Partition is a placement bookkeeping unit inside a group.
type Partition struct {
	ID      int64
	GroupID int64
}

// PlacementKind tells whether a placement holds every partition group of
// its column or only some of them.
type PlacementKind int

// Placement kinds.
const (
	FullPlacement PlacementKind = iota
	PartialPlacement
)

func (k PlacementKind) String() string {
	if k == PartialPlacement {
		return "partial"
	}
	return "full"
}

// ColumnPlacement records that a physical store holds a column. A partial
// placement only holds the listed partition groups.
type ColumnPlacement struct {
	StoreID           int64
	TableID           int64
	ColumnID          int64
	Kind              PlacementKind
	PartitionGroupIDs []int64
}

// Holds returns true if the placement holds data of the partition group.
func (p *ColumnPlacement) Holds(groupID int64) bool {
	if p.Kind == FullPlacement {
		return true
	}
	for _, id := range p.PartitionGroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}
