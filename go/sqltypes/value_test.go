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

package sqltypes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitess.io/polystore/go/vt/vterrors"
)

func TestNewValue(t *testing.T) {
	testcases := []struct {
		inType Type
		inVal  string
		outVal Value
		outErr string
	}{{
		inType: Null,
		inVal:  "",
		outVal: NULL,
	}, {
		inType: Int64,
		inVal:  "1",
		outVal: MakeTrusted(Int64, []byte("1")),
	}, {
		inType: Float64,
		inVal:  "1.00",
		outVal: MakeTrusted(Float64, []byte("1.00")),
	}, {
		inType: Decimal,
		inVal:  "1.00",
		outVal: MakeTrusted(Decimal, []byte("1.00")),
	}, {
		inType: Date,
		inVal:  "19000",
		outVal: MakeTrusted(Date, []byte("19000")),
	}, {
		inType: Datetime,
		inVal:  "2012-02-24 23:19:43",
		outVal: MakeTrusted(Datetime, []byte("2012-02-24 23:19:43")),
	}, {
		inType: VarChar,
		inVal:  "a",
		outVal: MakeTrusted(VarChar, []byte("a")),
	}, {
		inType: Boolean,
		inVal:  "true",
		outVal: MakeTrusted(Boolean, []byte("true")),
	}, {
		inType: Int64,
		inVal:  "1.1",
		outErr: `invalid INT64 value: "1.1"`,
	}, {
		inType: Float64,
		inVal:  "a",
		outErr: `invalid FLOAT64 value: "a"`,
	}, {
		inType: Timestamp,
		inVal:  "yesterday",
		outErr: `invalid TIMESTAMP value: "yesterday"`,
	}, {
		inType: Datetime,
		inVal:  "2012-02-30T99",
		outErr: `invalid DATETIME value: "2012-02-30T99"`,
	}}
	for _, tcase := range testcases {
		t.Run(tcase.inType.String()+"/"+tcase.inVal, func(t *testing.T) {
			v, err := NewValue(tcase.inType, []byte(tcase.inVal))
			if tcase.outErr != "" {
				require.EqualError(t, err, tcase.outErr)
				assert.Equal(t, vterrors.InvalidArgument, vterrors.Code(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, tcase.outVal.Equal(v), "got %v, want %v", v, tcase.outVal)
		})
	}
}

func TestFamilies(t *testing.T) {
	assert.Equal(t, Numeric, NewInt64(1).Family())
	assert.Equal(t, Numeric, NewFloat64(1.5).Family())
	assert.Equal(t, Textual, NewVarChar("x").Family())
	assert.Equal(t, Temporal, NewDate(1).Family())
	assert.Equal(t, Temporal, NewDatetime(time.Now()).Family())
	assert.Equal(t, BooleanFamily, NewBoolean(true).Family())
	assert.Equal(t, UnknownFamily, NULL.Family())
}

func TestParseType(t *testing.T) {
	for _, name := range []string{"int64", "INTEGER", "bigint"} {
		typ, ok := ParseType(name)
		assert.True(t, ok)
		assert.Equal(t, Int64, typ)
	}
	typ, ok := ParseType("timestamp")
	assert.True(t, ok)
	assert.Equal(t, Timestamp, typ)
	_, ok = ParseType("geometry")
	assert.False(t, ok)
}

func TestToFloat64(t *testing.T) {
	testcases := []struct {
		in   Value
		want float64
		err  bool
	}{
		{in: NewInt64(7), want: 7},
		{in: NewFloat64(7.5), want: 7.5},
		{in: MakeTrusted(Decimal, []byte("1.25")), want: 1.25},
		{in: NewVarChar(" 3 "), want: 3},
		{in: NewBoolean(true), want: 1},
		{in: NewTimestamp(1000), want: 1000},
		{in: NewVarChar("abc"), err: true},
		{in: NULL, err: true},
	}
	for _, tc := range testcases {
		t.Run(tc.in.String(), func(t *testing.T) {
			got, err := tc.in.ToFloat64()
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestToTime(t *testing.T) {
	day, err := NewDate(1).ToTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC), day)

	ts, err := NewTimestamp(86_400_000 + 1500).ToTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(1970, 1, 2, 0, 0, 1, 500_000_000, time.UTC), ts)

	tod, err := NewTime(3_600_000).ToTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(1970, 1, 1, 1, 0, 0, 0, time.UTC), tod)

	cal := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	got, err := NewDatetime(cal).ToTime()
	require.NoError(t, err)
	assert.True(t, cal.Equal(got))

	got, err = NewVarChar("2024-03-01").ToTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = NewInt64(1).ToTime()
	assert.Error(t, err)
}

func TestToBool(t *testing.T) {
	b, err := NewBoolean(true).ToBool()
	require.NoError(t, err)
	assert.True(t, b)
	b, err = NewInt64(0).ToBool()
	require.NoError(t, err)
	assert.False(t, b)
	_, err = NewFloat64(1).ToBool()
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	assert.Equal(t, "NULL", NULL.String())
	assert.Equal(t, "INT64(12)", NewInt64(12).String())
	assert.Equal(t, `VARCHAR("a b")`, NewVarChar("a b").String())
}

func TestInterfaceToValue(t *testing.T) {
	testcases := []struct {
		in  any
		out Value
	}{
		{in: nil, out: NULL},
		{in: []byte("a"), out: NewVarChar("a")},
		{in: "a", out: NewVarChar("a")},
		{in: int(1), out: NewInt64(1)},
		{in: int32(1), out: NewInt64(1)},
		{in: int64(1), out: NewInt64(1)},
		{in: uint64(1), out: NewInt64(1)},
		{in: float64(1.5), out: NewFloat64(1.5)},
		{in: true, out: NewBoolean(true)},
		{in: NewDate(3), out: NewDate(3)},
	}
	for _, tcase := range testcases {
		v, err := InterfaceToValue(tcase.in)
		require.NoError(t, err)
		assert.True(t, tcase.out.Equal(v), "InterfaceToValue(%v): %v, want %v", tcase.in, v, tcase.out)
	}

	_, err := InterfaceToValue(make(chan bool))
	assert.ErrorContains(t, err, "unexpected type chan bool")
	_, err = InterfaceToValue(uint64(1 << 63))
	assert.ErrorContains(t, err, "out of range")
}
