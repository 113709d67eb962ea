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

package sqltypes

import (
	"strings"
)

// Type is the storage type of a Value.
type Type int

// Value types.
//
// Date, Time and Timestamp are epoch-relative integers (days since epoch,
// milliseconds of day and milliseconds since epoch). Datetime is the
// calendar-typed representation used by bound parameters; it is stored as
// RFC 3339 text.
const (
	Null Type = iota
	Int64
	Float64
	Decimal
	VarChar
	Boolean
	Date
	Time
	Timestamp
	Datetime
)

var typeNames = map[Type]string{
	Null:      "NULL",
	Int64:     "INT64",
	Float64:   "FLOAT64",
	Decimal:   "DECIMAL",
	VarChar:   "VARCHAR",
	Boolean:   "BOOLEAN",
	Date:      "DATE",
	Time:      "TIME",
	Timestamp: "TIMESTAMP",
	Datetime:  "DATETIME",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseType returns the Type with the given name, matched case-insensitively.
func ParseType(name string) (Type, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	switch name {
	case "INTEGER", "BIGINT", "INT":
		return Int64, true
	case "DOUBLE", "REAL":
		return Float64, true
	case "TEXT", "STRING":
		return VarChar, true
	case "BOOL":
		return Boolean, true
	}
	return Null, false
}

// Family groups types that compare with each other.
type Family int

// Type families.
const (
	UnknownFamily Family = iota
	Numeric
	Textual
	Temporal
	BooleanFamily
)

func (f Family) String() string {
	switch f {
	case Numeric:
		return "NUMERIC"
	case Textual:
		return "TEXTUAL"
	case Temporal:
		return "TEMPORAL"
	case BooleanFamily:
		return "BOOLEAN"
	}
	return "UNKNOWN"
}

// FamilyOf returns the family of the type.
func FamilyOf(t Type) Family {
	switch t {
	case Int64, Float64, Decimal:
		return Numeric
	case VarChar:
		return Textual
	case Date, Time, Timestamp, Datetime:
		return Temporal
	case Boolean:
		return BooleanFamily
	}
	return UnknownFamily
}

// IsIntegral returns true if the type is stored as a decimal integer.
func IsIntegral(t Type) bool {
	switch t {
	case Int64, Date, Time, Timestamp:
		return true
	}
	return false
}

// IsNumber returns true if the type belongs to the numeric family.
func IsNumber(t Type) bool {
	return FamilyOf(t) == Numeric
}

// IsTemporal returns true if the type belongs to the temporal family.
func IsTemporal(t Type) bool {
	return FamilyOf(t) == Temporal
}

// IsText returns true if the type belongs to the textual family.
func IsText(t Type) bool {
	return FamilyOf(t) == Textual
}
