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

package engine

import (
	"strconv"
	"strings"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/engine/opcode"
	"vitess.io/polystore/go/vt/partition"
	"vitess.io/polystore/go/vt/predicate"
	"vitess.io/polystore/go/vt/querytree"
)

// StageKind identifies the operator of a Stage.
type StageKind int

// The stage kinds, in the order they appear in a plan.
const (
	ScanStage StageKind = iota
	CombineStage
	FilterStage
	AggregateStage
	ProjectStage
	SortStage
)

var stageKindNames = []string{
	ScanStage:      "Scan",
	CombineStage:   "Combine",
	FilterStage:    "Filter",
	AggregateStage: "Aggregate",
	ProjectStage:   "Project",
	SortStage:      "Sort",
}

func (k StageKind) String() string {
	if k < 0 || int(k) >= len(stageKindNames) {
		return "Unknown"
	}
	return stageKindNames[k]
}

// OutputColumn describes one position of a stage's row layout.
type OutputColumn struct {
	// Name is the relation-qualified source name ("o.id") or, after a
	// projection, the output name.
	Name     string
	Type     sqltypes.Type
	Nullable bool
	// Qualifier, TableID and ColumnID identify the relation and catalog
	// column the value comes from. They are empty for computed columns.
	Qualifier string
	TableID   int64
	ColumnID  int64
}

// IsComputed returns true if the column is not a source column.
func (c OutputColumn) IsComputed() bool {
	return c.ColumnID == 0
}

// Stage is one operator of a logical plan. Stages reference their inputs
// by index into Plan.Stages and columns by ordinal into the input layout.
type Stage interface {
	Kind() StageKind
	// Inputs returns the indexes of the input stages.
	Inputs() []int
	// Layout returns the output row layout. Ordinals are positions in it.
	Layout() []OutputColumn
	description() PlanDescription
}

var (
	_ Stage = (*Scan)(nil)
	_ Stage = (*Combine)(nil)
	_ Stage = (*Filter)(nil)
	_ Stage = (*Aggregate)(nil)
	_ Stage = (*Project)(nil)
	_ Stage = (*Sort)(nil)
)

// Scan reads every column of a table from the placements holding the
// selected partition groups.
type Scan struct {
	Table     *catalog.Table
	Qualifier string
	// Groups are the partition groups the scan is restricted to. Nil means
	// every group.
	Groups     []int64
	Placements []partition.GroupPlacements
	Columns    []OutputColumn
}

// Combine joins or set-combines the outputs of two stages. The output
// layout of a join is the left layout followed by the right layout; set
// operators keep the left layout.
type Combine struct {
	Op        querytree.CombineOp
	Left      int
	Right     int
	Condition predicate.Node
	Columns   []OutputColumn
}

// Filter keeps the rows for which Predicate holds.
type Filter struct {
	Input     int
	Predicate predicate.Node
	Columns   []OutputColumn
}

// ProjectExpr selects an input ordinal under an output name.
type ProjectExpr struct {
	Ordinal int
	Name    string
}

// Project re-orders and renames the input columns.
type Project struct {
	Input   int
	Exprs   []ProjectExpr
	Columns []OutputColumn
}

// AggregateCall applies an aggregate function to an input ordinal.
type AggregateCall struct {
	Opcode  opcode.AggregateOpcode
	Ordinal int
	Name    string
}

// Aggregate groups its input by GroupKeys. The output holds the group
// columns first, then one column per call.
type Aggregate struct {
	Input     int
	GroupKeys []int
	Calls     []AggregateCall
	Columns   []OutputColumn
}

// SortKey orders rows by an input ordinal.
type SortKey struct {
	Ordinal    int
	Descending bool
	NullsFirst bool
}

// Sort orders its input. The layout is unchanged.
type Sort struct {
	Input   int
	Keys    []SortKey
	Columns []OutputColumn
}

func (*Scan) Kind() StageKind      { return ScanStage }
func (*Combine) Kind() StageKind   { return CombineStage }
func (*Filter) Kind() StageKind    { return FilterStage }
func (*Aggregate) Kind() StageKind { return AggregateStage }
func (*Project) Kind() StageKind   { return ProjectStage }
func (*Sort) Kind() StageKind      { return SortStage }

func (*Scan) Inputs() []int        { return nil }
func (c *Combine) Inputs() []int   { return []int{c.Left, c.Right} }
func (f *Filter) Inputs() []int    { return []int{f.Input} }
func (a *Aggregate) Inputs() []int { return []int{a.Input} }
func (p *Project) Inputs() []int   { return []int{p.Input} }
func (s *Sort) Inputs() []int      { return []int{s.Input} }

func (s *Scan) Layout() []OutputColumn      { return s.Columns }
func (c *Combine) Layout() []OutputColumn   { return c.Columns }
func (f *Filter) Layout() []OutputColumn    { return f.Columns }
func (a *Aggregate) Layout() []OutputColumn { return a.Columns }
func (p *Project) Layout() []OutputColumn   { return p.Columns }
func (s *Sort) Layout() []OutputColumn      { return s.Columns }

func (s *Scan) description() PlanDescription {
	other := map[string]any{
		"Table": s.Table.QualifiedName(),
	}
	variant := "Full"
	if s.Groups != nil {
		variant = "Pruned"
		other["Groups"] = joinInts(s.Groups)
	}
	stores := make([]string, 0, len(s.Placements))
	for _, gp := range s.Placements {
		label := "all"
		if gp.GroupID != partition.AllGroups {
			label = strconv.FormatInt(gp.GroupID, 10)
		}
		stores = append(stores, label+":"+joinInts(gp.Stores()))
	}
	if len(stores) > 0 {
		other["Stores"] = strings.Join(stores, " ")
	}
	return PlanDescription{
		OperatorType: "Scan",
		Variant:      variant,
		Other:        other,
	}
}

func (c *Combine) description() PlanDescription {
	var other map[string]any
	if c.Condition != nil {
		other = map[string]any{"Condition": c.Condition.String()}
	}
	return PlanDescription{
		OperatorType: "Combine",
		Variant:      c.Op.String(),
		Other:        other,
	}
}

func (f *Filter) description() PlanDescription {
	return PlanDescription{
		OperatorType: "Filter",
		Other:        map[string]any{"Predicate": f.Predicate.String()},
	}
}

func (a *Aggregate) description() PlanDescription {
	other := map[string]any{}
	if len(a.GroupKeys) > 0 {
		other["GroupBy"] = joinOrdinals(a.GroupKeys)
	}
	calls := make([]string, 0, len(a.Calls))
	for _, call := range a.Calls {
		calls = append(calls, call.Opcode.String()+"($"+strconv.Itoa(call.Ordinal)+") as "+call.Name)
	}
	other["Aggregates"] = strings.Join(calls, ", ")
	variant := "Scalar"
	if len(a.GroupKeys) > 0 {
		variant = "Grouped"
	}
	return PlanDescription{
		OperatorType: "Aggregate",
		Variant:      variant,
		Other:        other,
	}
}

func (p *Project) description() PlanDescription {
	cols := make([]string, 0, len(p.Exprs))
	for _, e := range p.Exprs {
		cols = append(cols, "$"+strconv.Itoa(e.Ordinal)+" as "+e.Name)
	}
	return PlanDescription{
		OperatorType: "Project",
		Other:        map[string]any{"Columns": strings.Join(cols, ", ")},
	}
}

func (s *Sort) description() PlanDescription {
	keys := make([]string, 0, len(s.Keys))
	for _, k := range s.Keys {
		key := "$" + strconv.Itoa(k.Ordinal)
		if k.Descending {
			key += " desc"
		} else {
			key += " asc"
		}
		if k.NullsFirst {
			key += " nulls first"
		}
		keys = append(keys, key)
	}
	return PlanDescription{
		OperatorType: "Sort",
		Other:        map[string]any{"Keys": strings.Join(keys, ", ")},
	}
}

func joinInts(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func joinOrdinals(ordinals []int) string {
	parts := make([]string, 0, len(ordinals))
	for _, o := range ordinals {
		parts = append(parts, "$"+strconv.Itoa(o))
	}
	return strings.Join(parts, ", ")
}
