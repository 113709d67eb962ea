/*
Copyright 2017 Google Inc.

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
	"time"

	"vitess.io/polystore/go/stats"
	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/engine"
	"vitess.io/polystore/go/vt/engine/opcode"
	"vitess.io/polystore/go/vt/log"
	"vitess.io/polystore/go/vt/querytree"
	"vitess.io/polystore/go/vt/vterrors"
)

var (
	planCompilations = stats.NewCountersWithSingleLabel("PlanCompilations", "Query compilations by result", "Result")
	compileTimings   = stats.NewTimings("PlanCompileTimings", "Time spent in each compilation stage", "Stage")
)

// Builder compiles query trees against a catalog snapshot. A Builder holds
// no per-query state and can be shared by concurrent compilations.
type Builder struct {
	Catalog    catalog.Snapshot
	Aggregates *opcode.Registry
}

// NewBuilder returns a builder using the supported aggregates.
func NewBuilder(snapshot catalog.Snapshot) *Builder {
	return &Builder{Catalog: snapshot, Aggregates: opcode.SupportedAggregates}
}

// Compile builds a plan for query against snapshot.
// It's the main entry point for this package.
func Compile(snapshot catalog.Snapshot, query *querytree.Query) (*engine.Plan, error) {
	return NewBuilder(snapshot).Compile(query)
}

// Compile builds the plan of query. The stages are added in this order:
// scans and combines, filter, aggregate, project, sort. The plan is
// returned only if every stage could be built.
func (b *Builder) Compile(query *querytree.Query) (*engine.Plan, error) {
	plan, err := b.compile(query)
	if err != nil {
		result := vterrors.Category(err)
		if result == "" {
			result = "Error"
		}
		planCompilations.Add(result, 1)
		if vterrors.Code(err) == vterrors.Internal {
			log.Errorf("query compilation hit an internal error: %v", err)
		}
		return nil, err
	}
	planCompilations.Add("OK", 1)
	return plan, nil
}

func (b *Builder) compile(query *querytree.Query) (*engine.Plan, error) {
	if query == nil {
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "no query to compile")
	}
	if b.Catalog == nil {
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "no catalog snapshot")
	}
	aggregates := b.Aggregates
	if aggregates == nil {
		aggregates = opcode.SupportedAggregates
	}

	pb := &planBuilder{
		snapshot:   b.Catalog,
		aggregates: aggregates,
		query:      query,
		plan:       engine.NewPlan(b.Catalog.Version()),
	}
	steps := []struct {
		stage string
		build func() error
	}{
		{"Scan", pb.buildRelations},
		{"Filter", pb.buildFilter},
		{"Placement", pb.placeScans},
		{"Aggregate", pb.buildAggregate},
		{"Project", pb.buildProject},
		{"Sort", pb.buildSort},
	}
	for _, step := range steps {
		start := time.Now()
		if err := step.build(); err != nil {
			return nil, vterrors.Wrapf(err, "%s stage", step.stage)
		}
		compileTimings.Record(step.stage, start)
	}
	log.V(2).Infof("compiled plan %v with stages %v", pb.plan.ID, pb.plan.Kinds())
	return pb.plan, nil
}
