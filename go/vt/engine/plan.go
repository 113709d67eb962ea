/*
Copyright 2022 The Vitess Authors.

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

// Package engine holds the logical plans produced by the planbuilder: an
// ordered list of scan, combine, filter, aggregate, project and sort stages
// addressing each other's columns by ordinal.
package engine

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// Plan represents the logical operators for a given query.
// Stages are stored in the order they were built, so every stage comes
// after its inputs, and Root is the stage producing the query result.
// A Plan is not modified after the planbuilder returns it.
type Plan struct {
	ID             uuid.UUID
	Stages         []Stage
	Root           int
	CatalogVersion int64
	TablesUsed     []string
}

// NewPlan returns an empty plan with a fresh ID.
func NewPlan(catalogVersion int64) *Plan {
	return &Plan{
		ID:             uuid.New(),
		Root:           -1,
		CatalogVersion: catalogVersion,
	}
}

// Add appends a stage, makes it the root and returns its index.
func (p *Plan) Add(s Stage) int {
	p.Stages = append(p.Stages, s)
	p.Root = len(p.Stages) - 1
	return p.Root
}

// RootStage returns the stage producing the query result.
func (p *Plan) RootStage() Stage {
	if p.Root < 0 || p.Root >= len(p.Stages) {
		return nil
	}
	return p.Stages[p.Root]
}

// Layout returns the row layout of the query result.
func (p *Plan) Layout() []OutputColumn {
	if root := p.RootStage(); root != nil {
		return root.Layout()
	}
	return nil
}

// Kinds returns the kind of every stage, in plan order.
func (p *Plan) Kinds() []StageKind {
	kinds := make([]StageKind, 0, len(p.Stages))
	for _, s := range p.Stages {
		kinds = append(kinds, s.Kind())
	}
	return kinds
}

// Description returns the description tree of the plan.
func (p *Plan) Description() PlanDescription {
	if p.RootStage() == nil {
		return PlanDescription{OperatorType: "Empty", Inputs: []PlanDescription{}}
	}
	return StageToPlanDescription(p, p.Root)
}

// TreeString renders the plan as an indented tree, root first.
func (p *Plan) TreeString() string {
	return p.Description().TreeString()
}

// MarshalJSON serializes the plan into a JSON representation.
func (p *Plan) MarshalJSON() ([]byte, error) {
	description := p.Description()
	marshalPlan := struct {
		ID             string
		CatalogVersion int64
		Stages         []string
		Instructions   *PlanDescription
		TablesUsed     []string `json:",omitempty"`
	}{
		ID:             p.ID.String(),
		CatalogVersion: p.CatalogVersion,
		Instructions:   &description,
		TablesUsed:     p.TablesUsed,
	}
	for _, k := range p.Kinds() {
		marshalPlan.Stages = append(marshalPlan.Stages, k.String())
	}

	b := new(bytes.Buffer)
	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(marshalPlan); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
