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

package planbuilder

import (
	"slices"
	"strings"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/engine"
	"vitess.io/polystore/go/vt/engine/opcode"
	"vitess.io/polystore/go/vt/log"
	"vitess.io/polystore/go/vt/partition"
	"vitess.io/polystore/go/vt/predicate"
	"vitess.io/polystore/go/vt/querytree"
	"vitess.io/polystore/go/vt/vterrors"
)

// planBuilder holds the state of one compilation.
type planBuilder struct {
	snapshot   catalog.Snapshot
	aggregates *opcode.Registry
	query      *querytree.Query
	plan       *engine.Plan

	bound map[*querytree.Table]*boundRelation
	scans []*engine.Scan
	// st resolves names against the relations visible in the output of
	// the relation tree.
	st *symtab

	// current is the stage producing the rows the next stage consumes,
	// and layout its row layout.
	current int
	layout  []engine.OutputColumn

	filter predicate.Node

	// aggregated is set once an Aggregate stage was added. itemOrdinals
	// then holds the ordinal of every projection item in its output.
	aggregated   bool
	itemOrdinals []int
}

// buildRelations adds a Scan per base relation and a Combine per combiner
// node, walking the relation tree in post-order. It assigns the ordinals of
// the combined scan output.
func (pb *planBuilder) buildRelations() error {
	pb.bound = make(map[*querytree.Table]*boundRelation)
	var scopes []*scope
	err := postOrder(pb.query.Relation, func(rel querytree.Relation) error {
		switch rel := rel.(type) {
		case *querytree.Table:
			s, err := pb.scan(rel)
			if err != nil {
				return err
			}
			scopes = append(scopes, s)
		case *querytree.Combine:
			n := len(scopes)
			if n < 2 {
				return vterrors.Errorf(vterrors.Internal, "%v has %d built inputs", rel.Op, n)
			}
			s, err := pb.combine(rel, scopes[n-2], scopes[n-1])
			if err != nil {
				return err
			}
			scopes = append(scopes[:n-2], s)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(scopes) != 1 {
		return vterrors.Errorf(vterrors.Internal, "relation tree built into %d outputs", len(scopes))
	}

	top := scopes[0]
	if pb.st, err = newSymtab(top.relations); err != nil {
		return err
	}
	pb.current, pb.layout = top.stage, top.layout
	if names := pb.qualifiedNames(); len(names) != len(pb.layout) {
		return vterrors.Errorf(vterrors.Internal, "relation tree names %d columns but outputs %d", len(names), len(pb.layout))
	}
	return nil
}

func (pb *planBuilder) scan(rel *querytree.Table) (*scope, error) {
	if _, ok := pb.bound[rel]; ok {
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "relation %s appears twice in the relation tree", rel)
	}
	table, err := pb.snapshot.TableByName(rel.Name)
	if err != nil {
		return nil, err
	}
	r := &boundRelation{node: rel, table: table, qualifier: rel.Qualifier()}
	layout := make([]engine.OutputColumn, 0, len(table.Columns))
	for _, col := range table.Columns {
		layout = append(layout, engine.OutputColumn{
			Name:      r.qualifier + "." + col.Name,
			Type:      col.Type,
			Nullable:  col.Nullable,
			Qualifier: r.qualifier,
			TableID:   table.ID,
			ColumnID:  col.ID,
		})
	}
	scan := &engine.Scan{Table: table, Qualifier: r.qualifier, Columns: layout}
	r.scan = pb.plan.Add(scan)
	pb.bound[rel] = r
	pb.scans = append(pb.scans, scan)
	if name := table.QualifiedName(); !slices.Contains(pb.plan.TablesUsed, name) {
		pb.plan.TablesUsed = append(pb.plan.TablesUsed, name)
	}
	return &scope{relations: []*boundRelation{r}, stage: r.scan, layout: layout}, nil
}

func (pb *planBuilder) combine(rel *querytree.Combine, left, right *scope) (*scope, error) {
	if !rel.Op.IsJoin() {
		return pb.setOperation(rel, left, right)
	}

	layout := make([]engine.OutputColumn, 0, len(left.layout)+len(right.layout))
	layout = append(layout, left.layout...)
	layout = append(layout, right.layout...)
	nullLeft := rel.Op == querytree.RightJoin || rel.Op == querytree.FullJoin
	nullRight := rel.Op == querytree.LeftJoin || rel.Op == querytree.FullJoin
	for i := range layout {
		if (i < len(left.layout) && nullLeft) || (i >= len(left.layout) && nullRight) {
			layout[i].Nullable = true
		}
	}

	relations := append(slices.Clone(left.relations), right.relations...)
	c := &engine.Combine{Op: rel.Op, Left: left.stage, Right: right.stage, Columns: layout}
	if rel.On != nil {
		st, err := newSymtab(relations)
		if err != nil {
			return nil, err
		}
		fb := &filterBuilder{st: st, columns: NewColumnOrdinalMap(layout)}
		if c.Condition, err = fb.build(rel.On); err != nil {
			return nil, vterrors.Wrapf(err, "join condition")
		}
	}
	return &scope{relations: relations, stage: pb.plan.Add(c), layout: layout}, nil
}

// setOperation combines two inputs of the same shape. The output is named
// after the left input.
func (pb *planBuilder) setOperation(rel *querytree.Combine, left, right *scope) (*scope, error) {
	if len(left.layout) != len(right.layout) {
		return nil, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.SetShapeMismatch,
			"%v inputs have %d and %d columns", rel.Op, len(left.layout), len(right.layout))
	}
	layout := slices.Clone(left.layout)
	for i := range layout {
		l, r := layout[i], right.layout[i]
		if sqltypes.FamilyOf(l.Type) != sqltypes.FamilyOf(r.Type) {
			return nil, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.SetShapeMismatch,
				"%v column %d combines %v and %v", rel.Op, i, l.Type, r.Type)
		}
		layout[i].Nullable = l.Nullable || r.Nullable
	}
	c := &engine.Combine{Op: rel.Op, Left: left.stage, Right: right.stage, Columns: layout}
	return &scope{relations: left.relations, stage: pb.plan.Add(c), layout: layout}, nil
}

// qualifiedNames returns the relation-qualified name of every output column
// of the relation tree, walking it in-order.
func (pb *planBuilder) qualifiedNames() []string {
	var names []string
	inOrder(pb.query.Relation, func(rel querytree.Relation) bool {
		switch rel := rel.(type) {
		case *querytree.Table:
			r := pb.bound[rel]
			for _, col := range r.table.Columns {
				names = append(names, r.qualifier+"."+col.Name)
			}
		case *querytree.Combine:
			return rel.Op.IsJoin()
		}
		return true
	})
	return names
}

// buildFilter adds the Filter stage.
func (pb *planBuilder) buildFilter() error {
	if pb.query.Filter == nil {
		return nil
	}
	fb := &filterBuilder{st: pb.st, columns: NewColumnOrdinalMap(pb.layout)}
	node, err := fb.build(pb.query.Filter)
	if err != nil {
		return err
	}
	pb.filter = node
	pb.current = pb.plan.Add(&engine.Filter{Input: pb.current, Predicate: node, Columns: pb.layout})
	return nil
}

// placeScans selects the placements every scan reads from. A scan of a
// partitioned table visible in the filtered output is restricted to the
// partition groups the filter fixes, if any.
func (pb *planBuilder) placeScans() error {
	columns := NewColumnOrdinalMap(pb.layout)
	for _, scan := range pb.scans {
		table := scan.Table
		var groups []int64
		if pb.filter != nil && table.IsPartitioned() && pb.visible(scan) {
			if ord, ok := columns.Ordinal(scan.Qualifier, table.Partitioning.ColumnID); ok {
				if pruned, ok := partition.PruneGroups(table.Partitioning, ord, pb.filter); ok {
					groups = pruned
					log.V(2).Infof("scan of %s pruned to partition groups %v", table.QualifiedName(), groups)
				}
			}
		}

		placements, err := partition.RelevantPlacements(pb.snapshot, table, groups)
		if err != nil && groups == nil && table.IsPartitioned() {
			// without a full placement every group has to be read on its own
			placements, err = partition.RelevantPlacements(pb.snapshot, table, table.Partitioning.GroupIDs())
		}
		if err != nil {
			return vterrors.Wrapf(err, "placing scan of %s", table.QualifiedName())
		}
		scan.Groups = groups
		scan.Placements = placements
	}
	return nil
}

func (pb *planBuilder) visible(scan *engine.Scan) bool {
	for _, r := range pb.st.relations {
		if pb.plan.Stages[r.scan] == scan {
			return true
		}
	}
	return false
}

// aggregateOf returns the aggregate named by the markers of item. ok is
// false when the item carries no aggregate marker.
func (pb *planBuilder) aggregateOf(item querytree.ProjectItem) (code opcode.AggregateOpcode, ok bool, err error) {
	for _, marker := range item.Markers {
		c, known := pb.aggregates.Lookup(marker)
		if !known {
			return 0, false, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.UnknownAggregate,
				"unknown aggregate '%s' on column '%s', expected one of %s", marker, item.Column, strings.Join(pb.aggregates.Names(), ", "))
		}
		if ok {
			return 0, false, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.AmbiguousAggregate,
				"column '%s' carries more than one aggregate: %s", item.Column, strings.Join(item.Markers, ", "))
		}
		code, ok = c, true
	}
	return code, ok, nil
}

// buildAggregate adds the Aggregate stage when a projection item carries an
// aggregate marker. Items without a marker become the group keys, in
// declaration order; the output holds the group columns first, followed by
// one column per aggregate.
func (pb *planBuilder) buildAggregate() error {
	items := pb.query.Projection
	codes := make([]opcode.AggregateOpcode, len(items))
	isAgg := make([]bool, len(items))
	hasAggregate := false
	for i, item := range items {
		code, ok, err := pb.aggregateOf(item)
		if err != nil {
			return err
		}
		codes[i], isAgg[i] = code, ok
		hasAggregate = hasAggregate || ok
	}
	if !hasAggregate {
		return nil
	}

	columns := NewColumnOrdinalMap(pb.layout)
	inputs := make([]int, len(items))
	for i, item := range items {
		ord, err := pb.st.resolve(item.Column, columns)
		if err != nil {
			return err
		}
		inputs[i] = ord
	}

	agg := &engine.Aggregate{Input: pb.current}
	pb.itemOrdinals = make([]int, len(items))
	for i := range items {
		if isAgg[i] {
			continue
		}
		pos := slices.Index(agg.GroupKeys, inputs[i])
		if pos < 0 {
			pos = len(agg.GroupKeys)
			agg.GroupKeys = append(agg.GroupKeys, inputs[i])
			agg.Columns = append(agg.Columns, pb.layout[inputs[i]])
		}
		pb.itemOrdinals[i] = pos
	}
	for i, item := range items {
		if !isAgg[i] {
			continue
		}
		input := pb.layout[inputs[i]]
		typ, ok := codes[i].Type(input.Type)
		if !ok {
			return vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.AggregateTypeMismatch,
				"%v cannot aggregate column '%s' of type %v", codes[i], item.Column, input.Type)
		}
		name := item.Alias
		if name == "" {
			name = codes[i].String() + "(" + item.Column + ")"
		}
		pb.itemOrdinals[i] = len(agg.GroupKeys) + len(agg.Calls)
		agg.Calls = append(agg.Calls, engine.AggregateCall{Opcode: codes[i], Ordinal: inputs[i], Name: name})
		agg.Columns = append(agg.Columns, engine.OutputColumn{
			Name:     name,
			Type:     typ,
			Nullable: codes[i] != opcode.AggregateCount,
		})
	}

	pb.current = pb.plan.Add(agg)
	pb.layout = agg.Columns
	pb.aggregated = true
	return nil
}

// buildProject adds the Project stage naming the query output. Without
// projection items, every column of the relation tree is projected under
// its relation-qualified name.
func (pb *planBuilder) buildProject() error {
	items := pb.query.Projection
	project := &engine.Project{Input: pb.current}
	add := func(ordinal int, name string) {
		col := pb.layout[ordinal]
		col.Name = name
		project.Exprs = append(project.Exprs, engine.ProjectExpr{Ordinal: ordinal, Name: name})
		project.Columns = append(project.Columns, col)
	}

	switch {
	case len(items) == 0:
		for i, name := range pb.qualifiedNames() {
			add(i, name)
		}
	case pb.aggregated:
		for i, item := range items {
			ord := pb.itemOrdinals[i]
			name := item.Alias
			switch {
			case name != "":
			case pb.layout[ord].IsComputed():
				name = pb.layout[ord].Name
			default:
				name = item.Column
			}
			add(ord, name)
		}
	default:
		columns := NewColumnOrdinalMap(pb.layout)
		for _, item := range items {
			ord, err := pb.st.resolve(item.Column, columns)
			if err != nil {
				return err
			}
			name := item.Alias
			if name == "" {
				name = item.Column
			}
			add(ord, name)
		}
	}

	pb.current = pb.plan.Add(project)
	pb.layout = project.Columns
	return nil
}

// buildSort adds the Sort stage. Sort keys name an output column, or a
// source column that is part of the output.
func (pb *planBuilder) buildSort() error {
	if len(pb.query.Sort) == 0 {
		return nil
	}
	stage := &engine.Sort{Input: pb.current, Columns: pb.layout}
	for _, key := range pb.query.Sort {
		ord, err := pb.resolveOutput(key.Column)
		if err != nil {
			return err
		}
		stage.Keys = append(stage.Keys, engine.SortKey{Ordinal: ord, Descending: key.Descending, NullsFirst: key.NullsFirst})
	}
	pb.current = pb.plan.Add(stage)
	return nil
}

func (pb *planBuilder) resolveOutput(name string) (int, error) {
	found := -1
	for i, col := range pb.layout {
		if !strings.EqualFold(col.Name, name) {
			continue
		}
		if found >= 0 {
			return 0, vterrors.NewErrorf(vterrors.FailedPrecondition, vterrors.AmbiguousColumn, "output column '%s' is ambiguous", name)
		}
		found = i
	}
	if found >= 0 {
		return found, nil
	}
	return pb.st.resolve(name, NewColumnOrdinalMap(pb.layout))
}
