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

package partition

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/vterrors"
)

var (
	intColumn  = &catalog.Column{ID: 1, Name: "id", Type: sqltypes.Int64}
	textColumn = &catalog.Column{ID: 2, Name: "name", Type: sqltypes.VarChar}
)

func TestValidateRange(t *testing.T) {
	testcases := []struct {
		name       string
		qualifiers [][]string
		groupCount int
		groupNames []string
		column     *catalog.Column
		state      vterrors.State
	}{{
		name:       "valid",
		qualifiers: [][]string{{"0", "10"}, {"11", "20"}},
		groupCount: 3,
		column:     intColumn,
	}, {
		name:       "valid with names",
		qualifiers: [][]string{{"0", "10"}},
		groupCount: 2,
		groupNames: []string{"low", "rest"},
		column:     intColumn,
	}, {
		name:       "(a) non numeric column",
		qualifiers: [][]string{{"0", "10"}},
		groupCount: 2,
		column:     textColumn,
		state:      vterrors.PartitionColumnNotNumeric,
	}, {
		name:       "(b) empty qualifier",
		qualifiers: [][]string{{"0", ""}},
		groupCount: 2,
		column:     intColumn,
		state:      vterrors.EmptyQualifier,
	}, {
		name:       "(c) non digit token",
		qualifiers: [][]string{{"0", "1x"}},
		groupCount: 2,
		column:     intColumn,
		state:      vterrors.NonNumericQualifier,
	}, {
		name:       "(c) negative token",
		qualifiers: [][]string{{"-5", "3"}},
		groupCount: 2,
		column:     intColumn,
		state:      vterrors.NonNumericQualifier,
	}, {
		name:       "(d) three tokens",
		qualifiers: [][]string{{"0", "5", "10"}},
		groupCount: 2,
		column:     intColumn,
		state:      vterrors.QualifierArity,
	}, {
		name:       "(d) one token",
		qualifiers: [][]string{{"0"}},
		groupCount: 2,
		column:     intColumn,
		state:      vterrors.QualifierArity,
	}, {
		name:       "identical bounds",
		qualifiers: [][]string{{"7", "7"}},
		groupCount: 2,
		column:     intColumn,
		state:      vterrors.IdenticalBounds,
	}, {
		name:       "identical bounds with a leading zero",
		qualifiers: [][]string{{"05", "5"}},
		groupCount: 2,
		column:     intColumn,
		state:      vterrors.IdenticalBounds,
	}, {
		name:       "identical bounds with leading zeros",
		qualifiers: [][]string{{"0", "10"}, {"007", "7"}},
		groupCount: 3,
		column:     intColumn,
		state:      vterrors.IdenticalBounds,
	}, {
		name:       "(e) qualifier count does not match group count",
		qualifiers: [][]string{{"0", "10"}, {"11", "20"}},
		groupCount: 2,
		column:     intColumn,
		state:      vterrors.GroupCountMismatch,
	}, {
		name:       "(f) empty qualifier list",
		qualifiers: nil,
		groupCount: 1,
		column:     intColumn,
		state:      vterrors.NoQualifiers,
	}, {
		name:       "(h) overlapping ranges",
		qualifiers: [][]string{{"0", "10"}, {"5", "15"}},
		groupCount: 3,
		column:     intColumn,
		state:      vterrors.OverlappingRanges,
	}, {
		name:       "(h) touching inclusive bounds",
		qualifiers: [][]string{{"0", "10"}, {"10", "15"}},
		groupCount: 3,
		column:     intColumn,
		state:      vterrors.OverlappingRanges,
	}, {
		name:       "(h) overlap after swap",
		qualifiers: [][]string{{"10", "0"}, {"15", "3"}},
		groupCount: 3,
		column:     intColumn,
		state:      vterrors.OverlappingRanges,
	}, {
		name:       "group names do not cover groups",
		qualifiers: [][]string{{"0", "10"}},
		groupCount: 2,
		groupNames: []string{"only"},
		column:     intColumn,
		state:      vterrors.GroupNameMismatch,
	}, {
		name:       "qualifier out of int64 range",
		qualifiers: [][]string{{"0", "99999999999999999999"}},
		groupCount: 2,
		column:     intColumn,
		state:      vterrors.NonNumericQualifier,
	}}
	for _, tcase := range testcases {
		t.Run(tcase.name, func(t *testing.T) {
			err := ValidateScheme(Range, tcase.qualifiers, tcase.groupCount, tcase.groupNames, tcase.column)
			if tcase.state == vterrors.Undefined {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tcase.state, vterrors.ErrState(err), err.Error())
			assert.Equal(t, vterrors.CategoryValidation, vterrors.Category(err))
		})
	}
}

func TestValidateRangeRuleOrder(t *testing.T) {
	// empty tokens are reported before non digit tokens, which are
	// reported before arity and group count problems
	err := ValidateScheme(Range, [][]string{{"a", ""}, {"1", "2", "3"}}, 5, nil, intColumn)
	assert.Equal(t, vterrors.EmptyQualifier, vterrors.ErrState(err))

	err = ValidateScheme(Range, [][]string{{"a", "1"}, {"1", "2", "3"}}, 5, nil, intColumn)
	assert.Equal(t, vterrors.NonNumericQualifier, vterrors.ErrState(err))

	err = ValidateScheme(Range, [][]string{{"1", "2", "3"}}, 5, nil, intColumn)
	assert.Equal(t, vterrors.QualifierArity, vterrors.ErrState(err))

	err = ValidateScheme(Range, [][]string{{"0", "1"}, {"0", "1"}}, 5, nil, intColumn)
	assert.Equal(t, vterrors.GroupCountMismatch, vterrors.ErrState(err))
}

func TestValidateRangeSwapsInPlace(t *testing.T) {
	qualifiers := [][]string{{"20", "11"}, {"0", "10"}}
	require.NoError(t, ValidateScheme(Range, qualifiers, 3, nil, intColumn))
	assert.Equal(t, [][]string{{"11", "20"}, {"0", "10"}}, qualifiers)
}

func TestValidateOverlapReportsBothRanges(t *testing.T) {
	err := ValidateScheme(Range, [][]string{{"0", "10"}, {"5", "15"}}, 3, nil, intColumn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[0, 10]")
	assert.Contains(t, err.Error(), "[5, 15]")
}

func TestValidateUnknownStrategy(t *testing.T) {
	err := ValidateScheme("ROUND_ROBIN", nil, 1, nil, intColumn)
	assert.Equal(t, vterrors.UnknownStrategy, vterrors.ErrState(err))

	err = ValidateScheme(Range, [][]string{{"0", "1"}}, 2, nil, nil)
	assert.Equal(t, vterrors.UnresolvedColumn, vterrors.ErrState(err))
}

func newRangeScheme(t *testing.T, qualifiers ...[]string) *catalog.PartitionScheme {
	t.Helper()
	scheme, err := CreateScheme(Range, &Request{
		Qualifiers: qualifiers,
		GroupCount: len(qualifiers) + 1,
		Column:     intColumn,
	}, catalog.NewSequenceGenerator(100), 1)
	require.NoError(t, err)
	return scheme
}

func TestCreateRangeScheme(t *testing.T) {
	scheme, err := CreateScheme(Range, &Request{
		Qualifiers: [][]string{{"10", "0"}, {"11", "20"}},
		GroupCount: 3,
		GroupNames: []string{"low", "high", "rest"},
		Column:     intColumn,
	}, catalog.NewSequenceGenerator(100), 2)
	require.NoError(t, err)

	assert.Equal(t, Range, scheme.Strategy)
	assert.Equal(t, intColumn.ID, scheme.ColumnID)
	assert.True(t, scheme.RequiresUnboundGroup)
	require.Len(t, scheme.Groups, 3)

	assert.Equal(t, "low", scheme.Groups[0].Name)
	assert.Equal(t, []string{"0", "10"}, scheme.Groups[0].Qualifiers)
	assert.Equal(t, "high", scheme.Groups[1].Name)
	assert.Equal(t, "rest", scheme.Groups[2].Name)
	assert.True(t, scheme.Groups[2].IsUnbound)
	assert.Empty(t, scheme.Groups[2].Qualifiers)
	assert.Same(t, scheme.Groups[2], scheme.UnboundGroup())

	assert.EqualValues(t, 100, scheme.Groups[0].ID)
	require.Len(t, scheme.Groups[0].Partitions, 2)
	assert.EqualValues(t, 101, scheme.Groups[0].Partitions[0].ID)
	assert.EqualValues(t, 103, scheme.Groups[1].ID)

	_, err = CreateScheme(Range, &Request{Qualifiers: [][]string{{"0", "1"}}, GroupCount: 3, Column: intColumn}, catalog.NewSequenceGenerator(1), 1)
	assert.Equal(t, vterrors.GroupCountMismatch, vterrors.ErrState(err))
}

func TestRouteRangeBoundaries(t *testing.T) {
	scheme := newRangeScheme(t, []string{"0", "10"}, []string{"20", "30"}, []string{"31", "40"}, []string{"100", "1000"})
	unbound := scheme.UnboundGroup().ID

	inRange := func(v int64) (int64, bool) {
		for _, g := range scheme.BoundGroups() {
			lower, _ := strconv.ParseInt(g.Qualifiers[0], 10, 64)
			upper, _ := strconv.ParseInt(g.Qualifiers[1], 10, 64)
			if lower <= v && v <= upper {
				return g.ID, true
			}
		}
		return 0, false
	}

	for _, g := range scheme.BoundGroups() {
		lower, _ := strconv.ParseInt(g.Qualifiers[0], 10, 64)
		upper, _ := strconv.ParseInt(g.Qualifiers[1], 10, 64)
		for _, v := range []int64{lower - 1, lower, upper, upper + 1} {
			want, ok := inRange(v)
			if !ok {
				want = unbound
			}
			got, err := Route(strconv.FormatInt(v, 10), scheme)
			require.NoError(t, err)
			assert.Equal(t, want, got, "route(%d)", v)
		}
		got, err := Route(g.Qualifiers[0], scheme)
		require.NoError(t, err)
		assert.Equal(t, g.ID, got)
	}

	got, err := Route("-1", scheme)
	require.NoError(t, err)
	assert.Equal(t, unbound, got)

	got, err = Route(" 25 ", scheme)
	require.NoError(t, err)
	assert.Equal(t, scheme.Groups[1].ID, got)

	got, err = Route("10.5", scheme)
	require.NoError(t, err)
	assert.Equal(t, unbound, got)

	_, err = Route("ten", scheme)
	assert.Equal(t, vterrors.WrongValueForVar, vterrors.ErrState(err))
}

func TestRouteRangeBeyondFloatPrecision(t *testing.T) {
	// 2^53+1 and 2^53+3 have no exact float64 representation
	scheme := newRangeScheme(t, []string{"9007199254740993", "9007199254740995"}, []string{"9223372036854775800", "9223372036854775807"})
	low, high, unbound := scheme.Groups[0].ID, scheme.Groups[1].ID, scheme.UnboundGroup().ID

	testcases := []struct {
		value string
		want  int64
	}{
		{"9007199254740992", unbound},
		{"9007199254740993", low},
		{"9007199254740995", low},
		{"9007199254740996", unbound},
		{"9223372036854775799", unbound},
		{"9223372036854775807", high},
		{"9007199254740994.5", low},
		{"1e300", unbound},
		{"-1e300", unbound},
	}
	for _, tc := range testcases {
		got, err := Route(tc.value, scheme)
		require.NoError(t, err, tc.value)
		assert.Equal(t, tc.want, got, "route(%s)", tc.value)
	}

	_, err := Route("NaN", scheme)
	assert.Equal(t, vterrors.WrongValueForVar, vterrors.ErrState(err))
}

func TestRouteRangeFractions(t *testing.T) {
	scheme := newRangeScheme(t, []string{"0", "5"}, []string{"6", "10"})
	unbound := scheme.UnboundGroup().ID
	for value, want := range map[string]int64{
		"4.5":  scheme.Groups[0].ID,
		"5.5":  unbound,
		"6.0":  scheme.Groups[1].ID,
		"-0.5": unbound,
		"10.0": scheme.Groups[1].ID,
	} {
		got, err := Route(value, scheme)
		require.NoError(t, err, value)
		assert.Equal(t, want, got, "route(%s)", value)
	}
}

func TestRouteWithoutUnboundGroup(t *testing.T) {
	scheme := &catalog.PartitionScheme{
		Strategy: Range,
		Groups:   []*catalog.PartitionGroup{{ID: 1, Qualifiers: []string{"0", "5"}}},
	}
	_, err := Route("9", scheme)
	assert.Equal(t, vterrors.UnknownGroup, vterrors.ErrState(err))
}

func TestValidatedRangesNeverOverlap(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	toQualifiers := func(pairs [][]int) [][]string {
		qualifiers := make([][]string, 0, len(pairs))
		for _, p := range pairs {
			qualifiers = append(qualifiers, []string{strconv.Itoa(p[0]), strconv.Itoa(p[1])})
		}
		return qualifiers
	}

	properties.Property("validated ranges are ordered and pairwise disjoint", prop.ForAll(
		func(pairs [][]int) bool {
			qualifiers := toQualifiers(pairs)
			if err := ValidateScheme(Range, qualifiers, len(qualifiers)+1, nil, intColumn); err != nil {
				return vterrors.Category(err) == vterrors.CategoryValidation
			}
			ranges := make([]bounds, 0, len(qualifiers))
			for _, q := range qualifiers {
				b, err := parseBounds(q)
				if err != nil || b.lower > b.upper {
					return false
				}
				ranges = append(ranges, b)
			}
			for i := range ranges {
				for j := i + 1; j < len(ranges); j++ {
					if ranges[i].lower <= ranges[j].upper && ranges[j].lower <= ranges[i].upper {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.SliceOfN(2, gen.IntRange(0, 300))),
	))

	properties.Property("route returns the unique containing group or the unbound group", prop.ForAll(
		func(pairs [][]int, v int) bool {
			qualifiers := toQualifiers(pairs)
			scheme, err := CreateScheme(Range, &Request{
				Qualifiers: qualifiers,
				GroupCount: len(qualifiers) + 1,
				Column:     intColumn,
			}, catalog.NewSequenceGenerator(1), 1)
			if err != nil {
				return true
			}
			got, err := Route(strconv.Itoa(v), scheme)
			if err != nil {
				return false
			}
			matches := 0
			want := scheme.UnboundGroup().ID
			for _, g := range scheme.BoundGroups() {
				b, _ := parseBounds(g.Qualifiers)
				if b.contains(int64(v)) {
					matches++
					want = g.ID
				}
			}
			return matches <= 1 && got == want
		},
		gen.SliceOfN(3, gen.SliceOfN(2, gen.IntRange(0, 300))),
		gen.IntRange(-10, 310),
	))

	properties.TestingRun(t)
}
