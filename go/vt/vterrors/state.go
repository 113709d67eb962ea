/*
Copyright 2021 The Vitess Authors.

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

package vterrors

// State is error state
type State int

// All the error states
const (
	Undefined State = iota

	// invalid argument
	PartitionColumnNotNumeric
	EmptyQualifier
	NonNumericQualifier
	QualifierArity
	GroupCountMismatch
	NoQualifiers
	IdenticalBounds
	OverlappingRanges
	GroupNameMismatch
	DuplicateListValue
	UnknownStrategy
	WrongValueForVar

	// unimplemented
	UnsupportedOperator
	UnsupportedOperands

	// failed precondition
	UnresolvedColumn
	AmbiguousColumn
	AmbiguousTable
	AmbiguousAggregate
	UnknownAggregate
	MalformedFilter
	ArityMismatch
	AggregateTypeMismatch
	SetShapeMismatch

	// not found
	UnknownTable
	UnknownGroup

	// internal
	UnclassifiedOperator

	// No state should be added below NumOfStates
	NumOfStates
)

var stateNames = [...]string{
	Undefined:                 "Undefined",
	PartitionColumnNotNumeric: "PartitionColumnNotNumeric",
	EmptyQualifier:            "EmptyQualifier",
	NonNumericQualifier:       "NonNumericQualifier",
	QualifierArity:            "QualifierArity",
	GroupCountMismatch:        "GroupCountMismatch",
	NoQualifiers:              "NoQualifiers",
	IdenticalBounds:           "IdenticalBounds",
	OverlappingRanges:         "OverlappingRanges",
	GroupNameMismatch:         "GroupNameMismatch",
	DuplicateListValue:        "DuplicateListValue",
	UnknownStrategy:           "UnknownStrategy",
	WrongValueForVar:          "WrongValueForVar",
	UnsupportedOperator:       "UnsupportedOperator",
	UnsupportedOperands:       "UnsupportedOperands",
	UnresolvedColumn:          "UnresolvedColumn",
	AmbiguousColumn:           "AmbiguousColumn",
	AmbiguousTable:            "AmbiguousTable",
	AmbiguousAggregate:        "AmbiguousAggregate",
	UnknownAggregate:          "UnknownAggregate",
	MalformedFilter:           "MalformedFilter",
	ArityMismatch:             "ArityMismatch",
	AggregateTypeMismatch:     "AggregateTypeMismatch",
	SetShapeMismatch:          "SetShapeMismatch",
	UnknownTable:              "UnknownTable",
	UnknownGroup:              "UnknownGroup",
	UnclassifiedOperator:      "UnclassifiedOperator",
}

func (s State) String() string {
	if s < 0 || s >= NumOfStates {
		return "Undefined"
	}
	return stateNames[s]
}
