// Copyright 2016, Google Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package planbuilder

import (
	"strings"

	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/engine"
	"vitess.io/polystore/go/vt/querytree"
	"vitess.io/polystore/go/vt/vterrors"
)

// columnRef identifies a source column of a relation in the query.
type columnRef struct {
	qualifier string
	columnID  int64
}

// ColumnOrdinalMap maps source columns to their position in a row layout.
// It is rebuilt for every stage that changes the row shape.
type ColumnOrdinalMap struct {
	ordinals map[columnRef]int
	layout   []engine.OutputColumn
}

// NewColumnOrdinalMap indexes the source columns of layout. Computed
// columns are not indexed.
func NewColumnOrdinalMap(layout []engine.OutputColumn) *ColumnOrdinalMap {
	m := &ColumnOrdinalMap{
		ordinals: make(map[columnRef]int, len(layout)),
		layout:   layout,
	}
	for i, col := range layout {
		if col.IsComputed() {
			continue
		}
		ref := columnRef{qualifier: col.Qualifier, columnID: col.ColumnID}
		if _, ok := m.ordinals[ref]; !ok {
			m.ordinals[ref] = i
		}
	}
	return m
}

// Ordinal returns the position of the column of the relation qualified by
// qualifier.
func (m *ColumnOrdinalMap) Ordinal(qualifier string, columnID int64) (int, bool) {
	ord, ok := m.ordinals[columnRef{qualifier: qualifier, columnID: columnID}]
	return ord, ok
}

// Len returns the width of the layout.
func (m *ColumnOrdinalMap) Len() int {
	return len(m.layout)
}

// Column returns the column at ordinal.
func (m *ColumnOrdinalMap) Column(ordinal int) engine.OutputColumn {
	return m.layout[ordinal]
}

// boundRelation is a base relation of the query bound to its catalog table.
type boundRelation struct {
	node      *querytree.Table
	table     *catalog.Table
	qualifier string
	scan      int
}

// matches returns true if q names the relation: its qualifier, its table
// name or its namespace-qualified table name.
func (r *boundRelation) matches(q string) bool {
	if r.node.Alias != "" {
		return strings.EqualFold(q, r.qualifier)
	}
	return strings.EqualFold(q, r.qualifier) || strings.EqualFold(q, r.node.Name) || strings.EqualFold(q, r.table.QualifiedName())
}

// scope is the output of a relation subtree: its visible relations and its
// row layout.
type scope struct {
	relations []*boundRelation
	stage     int
	layout    []engine.OutputColumn
}

// symtab resolves column names against the relations of a scope.
type symtab struct {
	relations []*boundRelation
}

func newSymtab(relations []*boundRelation) (*symtab, error) {
	for i, r := range relations {
		for _, other := range relations[i+1:] {
			if strings.EqualFold(r.qualifier, other.qualifier) {
				return nil, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.AmbiguousTable,
					"relation '%s' appears more than once, give it an alias", r.qualifier)
			}
		}
	}
	return &symtab{relations: relations}, nil
}

// find resolves a column name, bare or qualified, to a source column.
func (st *symtab) find(name string) (columnRef, *catalog.Column, error) {
	qualifier, column := "", name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		qualifier, column = name[:i], name[i+1:]
	}

	var (
		found    *boundRelation
		foundCol *catalog.Column
	)
	for _, r := range st.relations {
		if qualifier != "" && !r.matches(qualifier) {
			continue
		}
		col := columnByName(r.table, column)
		if col == nil {
			continue
		}
		if found != nil {
			if qualifier != "" {
				return columnRef{}, nil, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.AmbiguousTable, "table qualifier '%s' is ambiguous", qualifier)
			}
			return columnRef{}, nil, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.AmbiguousColumn, "column '%s' is ambiguous", name)
		}
		found, foundCol = r, col
	}
	if found == nil {
		return columnRef{}, nil, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.UnresolvedColumn, "column '%s' not found", name)
	}
	return columnRef{qualifier: found.qualifier, columnID: foundCol.ID}, foundCol, nil
}

// resolve returns the ordinal of a column name in the layout indexed by m.
func (st *symtab) resolve(name string, m *ColumnOrdinalMap) (int, error) {
	ref, _, err := st.find(name)
	if err != nil {
		return 0, err
	}
	ord, ok := m.Ordinal(ref.qualifier, ref.columnID)
	if !ok {
		return 0, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.UnresolvedColumn, "column '%s' is not available at this point of the query", name)
	}
	return ord, nil
}

func columnByName(t *catalog.Table, name string) *catalog.Column {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}
