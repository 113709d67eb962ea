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
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/vt/vterrors"
)

// The file format of a catalog snapshot. Tables and columns reference each
// other by name; ids are optional and assigned in declaration order when
// omitted.
//
//	version: 7
//	tables:
//	- name: orders
//	  namespace: shop
//	  columns:
//	  - {name: id, type: int64}
//	  - {name: note, type: varchar, nullable: true}
//	  partitioning:
//	    strategy: RANGE
//	    column: id
//	    groups:
//	    - {name: low, qualifiers: ["0", "99"]}
//	    - {name: rest, unbound: true}
//	placements:
//	- {store: 1, table: shop.orders, column: id}
//	- {store: 2, table: shop.orders, column: id, kind: partial, groups: [low]}
type snapshotFile struct {
	Version    int64           `json:"version"`
	Tables     []tableFile     `json:"tables"`
	Placements []placementFile `json:"placements"`
}

type tableFile struct {
	ID           int64          `json:"id,omitempty"`
	Name         string         `json:"name"`
	Namespace    string         `json:"namespace,omitempty"`
	Columns      []columnFile   `json:"columns"`
	Partitioning *partitionFile `json:"partitioning,omitempty"`
}

type columnFile struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable,omitempty"`
}

type partitionFile struct {
	Strategy string      `json:"strategy"`
	Column   string      `json:"column"`
	Groups   []groupFile `json:"groups"`
}

type groupFile struct {
	ID         int64    `json:"id,omitempty"`
	Name       string   `json:"name"`
	Qualifiers []string `json:"qualifiers,omitempty"`
	Unbound    bool     `json:"unbound,omitempty"`
	Partitions int      `json:"partitions,omitempty"`
}

type placementFile struct {
	Store  int64    `json:"store"`
	Table  string   `json:"table"`
	Column string   `json:"column"`
	Kind   string   `json:"kind,omitempty"`
	Groups []string `json:"groups,omitempty"`
}

// LoadYAML reads a snapshot from a YAML file.
func LoadYAML(path string) (*MemorySnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vterrors.Wrapf(err, "reading catalog %s", path)
	}
	s, err := ParseYAML(data)
	if err != nil {
		return nil, vterrors.Wrapf(err, "loading catalog %s", path)
	}
	return s, nil
}

// ParseYAML builds a snapshot from its YAML representation.
func ParseYAML(data []byte) (*MemorySnapshot, error) {
	var file snapshotFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, vterrors.Wrap(err, "invalid catalog")
	}

	ids := newIDAllocator(&file)
	tables := make([]*Table, 0, len(file.Tables))
	for _, tf := range file.Tables {
		t, err := tf.build(ids)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byName[t.QualifiedName()] = t
	}
	placements := make([]*ColumnPlacement, 0, len(file.Placements))
	for _, pf := range file.Placements {
		p, err := pf.build(byName)
		if err != nil {
			return nil, err
		}
		placements = append(placements, p)
	}
	return NewMemorySnapshot(file.Version, tables, placements)
}

// idAllocator hands out ids above the largest id declared in the file.
type idAllocator struct {
	gen IDGenerator
}

func newIDAllocator(file *snapshotFile) *idAllocator {
	var highest int64
	track := func(id int64) {
		if id > highest {
			highest = id
		}
	}
	for _, t := range file.Tables {
		track(t.ID)
		for _, c := range t.Columns {
			track(c.ID)
		}
		if t.Partitioning != nil {
			for _, g := range t.Partitioning.Groups {
				track(g.ID)
			}
		}
	}
	return &idAllocator{gen: NewSequenceGenerator(highest + 1)}
}

func (a *idAllocator) id(declared int64) int64 {
	if declared != 0 {
		return declared
	}
	return a.gen.Next()
}

func (tf *tableFile) build(ids *idAllocator) (*Table, error) {
	t := &Table{
		ID:        ids.id(tf.ID),
		Name:      tf.Name,
		Namespace: tf.Namespace,
	}
	for i, cf := range tf.Columns {
		typ, ok := sqltypes.ParseType(cf.Type)
		if !ok {
			return nil, vterrors.Errorf(vterrors.InvalidArgument, "column %s.%s has unknown type '%s'", tf.Name, cf.Name, cf.Type)
		}
		t.Columns = append(t.Columns, &Column{
			ID:       ids.id(cf.ID),
			TableID:  t.ID,
			Name:     cf.Name,
			Position: i,
			Type:     typ,
			Nullable: cf.Nullable,
		})
	}
	if tf.Partitioning == nil {
		return t, nil
	}

	pf := tf.Partitioning
	col := t.Column(pf.Column)
	if col == nil {
		return nil, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.UnresolvedColumn, "partition column '%s' is not a column of %s", pf.Column, tf.Name)
	}
	scheme := &PartitionScheme{
		Strategy: strings.ToUpper(pf.Strategy),
		ColumnID: col.ID,
	}
	for _, gf := range pf.Groups {
		g := &PartitionGroup{
			ID:         ids.id(gf.ID),
			Name:       gf.Name,
			Qualifiers: gf.Qualifiers,
			IsUnbound:  gf.Unbound,
		}
		if g.IsUnbound {
			scheme.RequiresUnboundGroup = true
		}
		count := max(gf.Partitions, 1)
		for range count {
			g.Partitions = append(g.Partitions, &Partition{ID: ids.gen.Next(), GroupID: g.ID})
		}
		scheme.Groups = append(scheme.Groups, g)
	}
	t.Partitioning = scheme
	return t, nil
}

func (pf *placementFile) build(tables map[string]*Table) (*ColumnPlacement, error) {
	t, ok := tables[pf.Table]
	if !ok {
		for _, candidate := range tables {
			if candidate.Name == pf.Table {
				t, ok = candidate, true
				break
			}
		}
	}
	if !ok {
		return nil, vterrors.NewErrorf(vterrors.NotFound, vterrors.UnknownTable, "placement references unknown table '%s'", pf.Table)
	}
	col := t.Column(pf.Column)
	if col == nil {
		return nil, vterrors.NewErrorf(vterrors.NotFound, vterrors.UnresolvedColumn, "placement references unknown column '%s.%s'", pf.Table, pf.Column)
	}
	p := &ColumnPlacement{
		StoreID:  pf.Store,
		TableID:  t.ID,
		ColumnID: col.ID,
	}
	switch strings.ToLower(pf.Kind) {
	case "", "full":
		p.Kind = FullPlacement
	case "partial":
		p.Kind = PartialPlacement
	default:
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "unknown placement kind '%s'", pf.Kind)
	}
	for _, name := range pf.Groups {
		if t.Partitioning == nil {
			return nil, vterrors.Errorf(vterrors.InvalidArgument, "placement of %s.%s lists groups but the table is not partitioned", pf.Table, pf.Column)
		}
		var found *PartitionGroup
		for _, g := range t.Partitioning.Groups {
			if g.Name == name {
				found = g
				break
			}
		}
		if found == nil {
			return nil, vterrors.NewErrorf(vterrors.NotFound, vterrors.UnknownGroup, "placement references unknown partition group '%s'", name)
		}
		p.PartitionGroupIDs = append(p.PartitionGroupIDs, found.ID)
	}
	return p, nil
}
