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

// Package sqltypes implements the typed scalar values that flow through
// predicates, partition qualifiers and plan literals.
package sqltypes

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vitess.io/polystore/go/vt/vterrors"
)

// NULL represents the NULL value.
var NULL = Value{}

// Value can store any SQL value. If the value represents an integral type,
// the bytes are always stored as a canonical representation that matches
// how the value would be written in a query.
type Value struct {
	typ Type
	val []byte
}

// NewValue builds a Value using typ and val. If the value and typ don't
// match, it returns an error.
func NewValue(typ Type, val []byte) (v Value, err error) {
	switch {
	case typ == Null:
		return NULL, nil
	case IsIntegral(typ):
		if _, err := strconv.ParseInt(string(val), 10, 64); err != nil {
			return NULL, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.WrongValueForVar, "invalid %v value: %q", typ, val)
		}
	case typ == Float64 || typ == Decimal:
		if _, err := strconv.ParseFloat(string(val), 64); err != nil {
			return NULL, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.WrongValueForVar, "invalid %v value: %q", typ, val)
		}
	case typ == Boolean:
		if _, err := strconv.ParseBool(string(val)); err != nil {
			return NULL, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.WrongValueForVar, "invalid %v value: %q", typ, val)
		}
	case typ == Datetime:
		if _, err := parseCalendar(string(val)); err != nil {
			return NULL, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.WrongValueForVar, "invalid %v value: %q", typ, val)
		}
	case typ == VarChar:
	default:
		return NULL, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.WrongValueForVar, "unknown type %d", int(typ))
	}
	return MakeTrusted(typ, val), nil
}

// MakeTrusted makes a new Value based on the type.
// This function should only be used if you know the value
// and type conform to the rules. Other packages can use it freely
// to create VarChar values.
func MakeTrusted(typ Type, val []byte) Value {
	if typ == Null {
		return NULL
	}
	return Value{typ: typ, val: val}
}

// NewInt64 builds an Int64 Value.
func NewInt64(v int64) Value {
	return MakeTrusted(Int64, strconv.AppendInt(nil, v, 10))
}

// NewFloat64 builds an Float64 Value.
func NewFloat64(v float64) Value {
	return MakeTrusted(Float64, strconv.AppendFloat(nil, v, 'g', -1, 64))
}

// NewDecimal builds a Decimal Value from its textual representation.
func NewDecimal(v string) (Value, error) {
	return NewValue(Decimal, []byte(v))
}

// NewVarChar builds a VarChar Value.
func NewVarChar(v string) Value {
	return MakeTrusted(VarChar, []byte(v))
}

// NewBoolean builds a Boolean Value.
func NewBoolean(v bool) Value {
	return MakeTrusted(Boolean, strconv.AppendBool(nil, v))
}

// NewDate builds a Date Value from a number of days since the epoch.
func NewDate(days int64) Value {
	return MakeTrusted(Date, strconv.AppendInt(nil, days, 10))
}

// NewTime builds a Time Value from milliseconds since midnight.
func NewTime(millis int64) Value {
	return MakeTrusted(Time, strconv.AppendInt(nil, millis, 10))
}

// NewTimestamp builds a Timestamp Value from milliseconds since the epoch.
func NewTimestamp(millis int64) Value {
	return MakeTrusted(Timestamp, strconv.AppendInt(nil, millis, 10))
}

// NewDatetime builds a calendar-typed Value.
func NewDatetime(t time.Time) Value {
	return MakeTrusted(Datetime, []byte(t.UTC().Format(time.RFC3339Nano)))
}

// Type returns the type of Value.
func (v Value) Type() Type {
	return v.typ
}

// Raw returns the internal representation of the value. For newer types,
// this may not match MySQL's representation.
func (v Value) Raw() []byte {
	return v.val
}

// Len returns the length.
func (v Value) Len() int {
	return len(v.val)
}

// IsNull returns true if Value is null.
func (v Value) IsNull() bool {
	return v.typ == Null
}

// Family returns the family of the value's type.
func (v Value) Family() Family {
	return FamilyOf(v.typ)
}

// IsNumeric returns true if Value belongs to the numeric family.
func (v Value) IsNumeric() bool {
	return IsNumber(v.typ)
}

// IsTemporal returns true if Value is time type.
func (v Value) IsTemporal() bool {
	return IsTemporal(v.typ)
}

// IsText returns true if Value is a string.
func (v Value) IsText() bool {
	return IsText(v.typ)
}

// ToString returns the value as a string, without any quoting. NULL
// renders as the empty string.
func (v Value) ToString() string {
	return string(v.val)
}

// ToInt64 returns the value as an int64. Temporal values return their
// epoch-relative integer.
func (v Value) ToInt64() (int64, error) {
	switch {
	case IsIntegral(v.typ):
		return strconv.ParseInt(string(v.val), 10, 64)
	case v.typ == Datetime:
		t, err := parseCalendar(string(v.val))
		if err != nil {
			return 0, err
		}
		return t.UnixMilli(), nil
	case v.typ == Boolean:
		b, err := strconv.ParseBool(string(v.val))
		if b {
			return 1, err
		}
		return 0, err
	case v.typ == VarChar:
		return strconv.ParseInt(strings.TrimSpace(string(v.val)), 10, 64)
	}
	return 0, vterrors.Errorf(vterrors.InvalidArgument, "cannot convert %v to int64", v)
}

// ToFloat64 returns the value as a float64. It is the common
// representation for numeric comparisons.
func (v Value) ToFloat64() (float64, error) {
	switch v.typ {
	case Float64, Decimal:
		return strconv.ParseFloat(string(v.val), 64)
	case VarChar:
		return strconv.ParseFloat(strings.TrimSpace(string(v.val)), 64)
	case Null:
		return 0, vterrors.Errorf(vterrors.InvalidArgument, "cannot convert NULL to float64")
	}
	ival, err := v.ToInt64()
	if err != nil {
		return 0, err
	}
	return float64(ival), nil
}

// ToBool returns the value as a bool value.
func (v Value) ToBool() (bool, error) {
	switch v.typ {
	case Boolean:
		return strconv.ParseBool(string(v.val))
	case Int64:
		ival, err := v.ToInt64()
		return ival != 0, err
	case VarChar:
		return strconv.ParseBool(strings.TrimSpace(string(v.val)))
	}
	return false, vterrors.Errorf(vterrors.InvalidArgument, "cannot convert %v to bool", v)
}

// ToTime returns the calendar representation of a temporal value. Date,
// Time and Timestamp are interpreted relative to the Unix epoch in UTC;
// Datetime and VarChar values are parsed.
func (v Value) ToTime() (time.Time, error) {
	switch v.typ {
	case Date:
		days, err := strconv.ParseInt(string(v.val), 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(0, 0).UTC().AddDate(0, 0, int(days)), nil
	case Time, Timestamp:
		millis, err := strconv.ParseInt(string(v.val), 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(millis).UTC(), nil
	case Datetime, VarChar:
		return parseCalendar(string(v.val))
	}
	return time.Time{}, vterrors.Errorf(vterrors.InvalidArgument, "cannot convert %v to a calendar time", v)
}

var calendarLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"15:04:05",
}

func parseCalendar(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range calendarLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, vterrors.Errorf(vterrors.InvalidArgument, "cannot parse %q as a calendar time", s)
}

// String returns a printable version of the value.
func (v Value) String() string {
	if v.typ == Null {
		return "NULL"
	}
	if v.typ == VarChar || v.typ == Datetime {
		return fmt.Sprintf("%v(%q)", v.typ, v.val)
	}
	return fmt.Sprintf("%v(%s)", v.typ, v.val)
}

// Equal compares this Value to other. It ignores any flags.
func (v Value) Equal(other Value) bool {
	return v.typ == other.typ && string(v.val) == string(other.val)
}

// InterfaceToValue builds a value from a go type.
// Supported types are nil, int64, uint64, float64, string, bool,
// time.Time and []byte. This function is used by the query tree decoder
// and the catalog fixtures.
func InterfaceToValue(goval any) (Value, error) {
	switch goval := goval.(type) {
	case nil:
		return NULL, nil
	case Value:
		return goval, nil
	case []byte:
		return MakeTrusted(VarChar, goval), nil
	case string:
		return NewVarChar(goval), nil
	case int:
		return NewInt64(int64(goval)), nil
	case int32:
		return NewInt64(int64(goval)), nil
	case int64:
		return NewInt64(goval), nil
	case uint32:
		return NewInt64(int64(goval)), nil
	case uint64:
		if goval > 1<<63-1 {
			return NULL, vterrors.Errorf(vterrors.InvalidArgument, "value out of range: %d", goval)
		}
		return NewInt64(int64(goval)), nil
	case float32:
		return NewFloat64(float64(goval)), nil
	case float64:
		return NewFloat64(goval), nil
	case bool:
		return NewBoolean(goval), nil
	case time.Time:
		return NewDatetime(goval), nil
	default:
		return NULL, vterrors.Errorf(vterrors.InvalidArgument, "unexpected type %T: %v", goval, goval)
	}
}
