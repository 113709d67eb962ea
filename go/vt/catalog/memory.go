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

package catalog

import (
	"strings"
	"sync/atomic"

	"vitess.io/polystore/go/vt/vterrors"
)

var _ Snapshot = (*MemorySnapshot)(nil)

type placementKey struct {
	tableID, columnID int64
}

// MemorySnapshot is an in-memory Snapshot. It must not be modified after
// NewMemorySnapshot returns.
type MemorySnapshot struct {
	version    int64
	byName     map[string]*Table
	byID       map[int64]*Table
	placements map[placementKey][]*ColumnPlacement
}

// NewMemorySnapshot indexes the given tables and placements. Placements
// keep the order they are passed in.
func NewMemorySnapshot(version int64, tables []*Table, placements []*ColumnPlacement) (*MemorySnapshot, error) {
	s := &MemorySnapshot{
		version:    version,
		byName:     make(map[string]*Table, len(tables)),
		byID:       make(map[int64]*Table, len(tables)),
		placements: make(map[placementKey][]*ColumnPlacement),
	}
	for _, t := range tables {
		if _, ok := s.byID[t.ID]; ok {
			return nil, vterrors.Errorf(vterrors.InvalidArgument, "duplicate table id %d", t.ID)
		}
		if _, ok := s.byName[t.QualifiedName()]; ok {
			return nil, vterrors.Errorf(vterrors.InvalidArgument, "duplicate table %s", t.QualifiedName())
		}
		s.byID[t.ID] = t
		s.byName[t.QualifiedName()] = t
	}
	for _, p := range placements {
		t, ok := s.byID[p.TableID]
		if !ok {
			return nil, vterrors.Errorf(vterrors.InvalidArgument, "placement on store %d references unknown table %d", p.StoreID, p.TableID)
		}
		if t.ColumnByID(p.ColumnID) == nil {
			return nil, vterrors.Errorf(vterrors.InvalidArgument, "placement on store %d references unknown column %d of %s", p.StoreID, p.ColumnID, t.Name)
		}
		key := placementKey{p.TableID, p.ColumnID}
		s.placements[key] = append(s.placements[key], p)
	}
	return s, nil
}

// Version implements Snapshot.
func (s *MemorySnapshot) Version() int64 {
	return s.version
}

// TableByName implements Snapshot.
func (s *MemorySnapshot) TableByName(name string) (*Table, error) {
	if t, ok := s.byName[name]; ok {
		return t, nil
	}
	if !strings.Contains(name, ".") {
		var found *Table
		for _, t := range s.byID {
			if t.Name != name {
				continue
			}
			if found != nil {
				return nil, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.AmbiguousTable, "table name '%s' is ambiguous", name)
			}
			found = t
		}
		if found != nil {
			return found, nil
		}
	}
	return nil, vterrors.NewErrorf(vterrors.NotFound, vterrors.UnknownTable, "table '%s' does not exist", name)
}

// TableByID implements Snapshot.
func (s *MemorySnapshot) TableByID(id int64) (*Table, error) {
	if t, ok := s.byID[id]; ok {
		return t, nil
	}
	return nil, vterrors.NewErrorf(vterrors.NotFound, vterrors.UnknownTable, "table with id %d does not exist", id)
}

// ColumnPlacements implements Snapshot.
func (s *MemorySnapshot) ColumnPlacements(tableID, columnID int64) []*ColumnPlacement {
	return s.placements[placementKey{tableID, columnID}]
}

// PlacementsByGroup implements Snapshot.
func (s *MemorySnapshot) PlacementsByGroup(tableID, groupID, columnID int64) []*ColumnPlacement {
	var result []*ColumnPlacement
	for _, p := range s.placements[placementKey{tableID, columnID}] {
		if p.Holds(groupID) {
			result = append(result, p)
		}
	}
	return result
}

// IDGenerator hands out catalog identifiers.
type IDGenerator interface {
	Next() int64
}

// SequenceGenerator is an IDGenerator backed by an atomic counter.
type SequenceGenerator struct {
	last atomic.Int64
}

// NewSequenceGenerator returns a generator whose first id is start.
func NewSequenceGenerator(start int64) *SequenceGenerator {
	g := &SequenceGenerator{}
	g.last.Store(start - 1)
	return g
}

// Next implements IDGenerator.
func (g *SequenceGenerator) Next() int64 {
	return g.last.Add(1)
}
