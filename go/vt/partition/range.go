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
	"math"
	"strconv"
	"strings"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/vterrors"
)

var _ Manager = (*rangeManager)(nil)

// rangeManager partitions a numeric column into inclusive, non-overlapping
// [lower, upper] ranges plus one unbound group for every other value.
type rangeManager struct{}

func init() {
	Register(Range, func() Manager { return rangeManager{} })
}

func (rangeManager) Strategy() string {
	return Range
}

func (rangeManager) RequiresUnboundGroup() bool {
	return true
}

func (rangeManager) SupportsFamily(f sqltypes.Family) bool {
	return f == sqltypes.Numeric
}

// Validate applies the RANGE rules in order, each failing with its own
// state. A pair given as (upper, lower) is swapped in place.
func (m rangeManager) Validate(req *Request) error {
	if !m.SupportsFamily(req.Column.Family()) {
		return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.PartitionColumnNotNumeric,
			"RANGE partitioning needs a numeric partition column, '%s' is %v", req.Column.Name, req.Column.Type)
	}
	for _, group := range req.Qualifiers {
		for _, token := range group {
			if token == "" {
				return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.EmptyQualifier, "partition qualifiers may not be empty")
			}
		}
	}
	for _, group := range req.Qualifiers {
		for _, token := range group {
			if !isDigits(token) {
				return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.NonNumericQualifier, "RANGE qualifier '%s' is not a non-negative integer", token)
			}
		}
	}
	for i, group := range req.Qualifiers {
		if len(group) != 2 {
			return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.QualifierArity,
				"RANGE group %d needs exactly two qualifiers (lower, upper), got %d", i, len(group))
		}
		if sameBound(group[0], group[1]) {
			return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.IdenticalBounds,
				"RANGE group %d: lower and upper bound cannot be identical (%s, %s)", i, group[0], group[1])
		}
	}
	if len(req.Qualifiers)+1 != req.GroupCount {
		return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.GroupCountMismatch,
			"%d qualifier pairs do not fit %d partition groups, RANGE needs one pair per group besides the unbound group", len(req.Qualifiers), req.GroupCount)
	}
	if len(req.Qualifiers) == 0 {
		return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.NoQualifiers, "RANGE partitioning needs at least one qualifier pair")
	}
	if err := checkGroupNames(req); err != nil {
		return err
	}

	ranges := make([]bounds, len(req.Qualifiers))
	for i, group := range req.Qualifiers {
		b, err := parseBounds(group)
		if err != nil {
			return err
		}
		if b.upper < b.lower {
			group[0], group[1] = group[1], group[0]
			b.lower, b.upper = b.upper, b.lower
		}
		ranges[i] = b
	}

	for i := range ranges {
		for j := i + 1; j < len(ranges); j++ {
			if ranges[i].overlaps(ranges[j]) {
				return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.OverlappingRanges,
					"RANGE partitions overlap: %v and %v", ranges[i], ranges[j])
			}
		}
	}
	return nil
}

// Route returns the first bound group whose range holds value, in stored
// order, and the unbound group when no range matches.
func (rangeManager) Route(scheme *catalog.PartitionScheme, value string) (int64, error) {
	contains, err := rangeProbe(strings.TrimSpace(value))
	if err != nil {
		return 0, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.WrongValueForVar, "cannot route non-numeric value '%s' with RANGE partitioning", value)
	}
	for _, g := range scheme.BoundGroups() {
		b, err := parseBounds(g.Qualifiers)
		if err != nil {
			return 0, vterrors.Wrapf(err, "partition group %s", g.Name)
		}
		if contains(b) {
			return g.ID, nil
		}
	}
	return unboundGroup(scheme, value)
}

type bounds struct {
	lower, upper int64
}

func parseBounds(qualifiers []string) (bounds, error) {
	if len(qualifiers) != 2 {
		return bounds{}, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.QualifierArity, "RANGE group needs exactly two qualifiers, got %d", len(qualifiers))
	}
	lower, err := strconv.ParseInt(qualifiers[0], 10, 64)
	if err != nil {
		return bounds{}, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.NonNumericQualifier, "RANGE qualifier '%s' is out of range", qualifiers[0])
	}
	upper, err := strconv.ParseInt(qualifiers[1], 10, 64)
	if err != nil {
		return bounds{}, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.NonNumericQualifier, "RANGE qualifier '%s' is out of range", qualifiers[1])
	}
	return bounds{lower: lower, upper: upper}, nil
}

func (b bounds) overlaps(other bounds) bool {
	return b.lower <= other.upper && other.lower <= b.upper
}

// sameBound reports whether two qualifier tokens spell the same integer.
// Tokens that do not parse are left to the later bound checks.
func sameBound(a, b string) bool {
	x, err := strconv.ParseInt(a, 10, 64)
	if err != nil {
		return false
	}
	y, err := strconv.ParseInt(b, 10, 64)
	return err == nil && x == y
}

// rangeProbe parses a routed value. Integers are compared exactly; other
// numbers are compared through their floor and ceiling.
func rangeProbe(value string) (func(bounds) bool, error) {
	if v, err := strconv.ParseInt(value, 10, 64); err == nil {
		return func(b bounds) bool { return b.contains(v) }, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) {
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "not a number: '%s'", value)
	}
	return func(b bounds) bool { return b.containsFloat(v) }, nil
}

func (b bounds) contains(v int64) bool {
	return b.lower <= v && v <= b.upper
}

// int64 covers [-2^63, 2^63).
const twoTo63 = float64(1 << 63)

func (b bounds) containsFloat(v float64) bool {
	// v >= lower iff floor(v) >= lower, v <= upper iff ceil(v) <= upper
	floor, ceil := math.Floor(v), math.Ceil(v)
	var aboveLower, belowUpper bool
	switch {
	case floor >= twoTo63:
		aboveLower = true
	case floor < -twoTo63:
		aboveLower = false
	default:
		aboveLower = int64(floor) >= b.lower
	}
	switch {
	case ceil >= twoTo63:
		belowUpper = false
	case ceil < -twoTo63:
		belowUpper = true
	default:
		belowUpper = int64(ceil) <= b.upper
	}
	return aboveLower && belowUpper
}

func (b bounds) String() string {
	return "[" + strconv.FormatInt(b.lower, 10) + ", " + strconv.FormatInt(b.upper, 10) + "]"
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
