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

package opcode

import (
	"fmt"
	"sort"
	"strings"

	"vitess.io/polystore/go/sqltypes"
)

// AggregateOpcode is the aggregation Opcode.
type AggregateOpcode int

// These constants list the possible aggregate opcodes.
const (
	AggregateUnassigned = AggregateOpcode(iota)
	AggregateCount
	AggregateMax
	AggregateMin
	AggregateSum
	AggregateAvg
	_NumOfOpCodes // This line must be last of the opcodes!
)

// AggregateName is the marker name of each opcode.
var AggregateName = map[AggregateOpcode]string{
	AggregateCount: "count",
	AggregateMax:   "max",
	AggregateMin:   "min",
	AggregateSum:   "sum",
	AggregateAvg:   "avg",
}

func (code AggregateOpcode) String() string {
	name := AggregateName[code]
	if name == "" {
		name = "ERROR"
	}
	return name
}

// MarshalJSON serializes the AggregateOpcode as a JSON string.
// It's used for testing and diagnostics.
func (code AggregateOpcode) MarshalJSON() ([]byte, error) {
	return ([]byte)(fmt.Sprintf("\"%s\"", code.String())), nil
}

// Type returns the type of the aggregate result for an input column of
// type typ. ok is false when the aggregate cannot be applied to typ.
func (code AggregateOpcode) Type(typ sqltypes.Type) (result sqltypes.Type, ok bool) {
	switch code {
	case AggregateCount:
		return sqltypes.Int64, true
	case AggregateMax, AggregateMin:
		return typ, typ != sqltypes.Null
	case AggregateSum:
		if sqltypes.IsNumber(typ) {
			return typ, true
		}
	case AggregateAvg:
		switch typ {
		case sqltypes.Decimal:
			return sqltypes.Decimal, true
		case sqltypes.Int64, sqltypes.Float64:
			return sqltypes.Float64, true
		}
	}
	return sqltypes.Null, false
}

// Registry is a fixed table of aggregate functions, looked up by marker
// name. A Registry is never modified after it is built.
type Registry struct {
	byName map[string]AggregateOpcode
}

// NewRegistry returns a registry holding codes.
func NewRegistry(codes ...AggregateOpcode) *Registry {
	r := &Registry{byName: make(map[string]AggregateOpcode, len(codes))}
	for _, code := range codes {
		if code <= AggregateUnassigned || code >= _NumOfOpCodes {
			panic(fmt.Sprintf("BUG: invalid aggregate opcode %d", code))
		}
		r.byName[code.String()] = code
	}
	return r
}

// SupportedAggregates holds every aggregate the planner knows.
var SupportedAggregates = NewRegistry(AggregateCount, AggregateMax, AggregateMin, AggregateSum, AggregateAvg)

// Lookup returns the opcode registered under name, matched
// case-insensitively.
func (r *Registry) Lookup(name string) (AggregateOpcode, bool) {
	code, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
