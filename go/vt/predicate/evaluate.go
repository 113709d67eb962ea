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

package predicate

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/stats"
	"vitess.io/polystore/go/vt/log"
	"vitess.io/polystore/go/vt/vterrors"
)

// ParamResolver returns the value bound to a parameter index.
type ParamResolver func(index int) (sqltypes.Value, error)

// ParamsFromSlice returns a resolver over a positional parameter list.
func ParamsFromSlice(params []sqltypes.Value) ParamResolver {
	return func(index int) (sqltypes.Value, error) {
		if index < 0 || index >= len(params) {
			return sqltypes.NULL, vterrors.Errorf(vterrors.InvalidArgument, "parameter ?%d is not bound, %d parameters given", index, len(params))
		}
		return params[index], nil
	}
}

var likeWildcards = stats.NewCounter("LikeUntranslatedWildcards", "LIKE patterns evaluated with SQL wildcards that are not translated to regular expressions")

// Evaluator evaluates predicates row by row. It caches compiled LIKE
// patterns and is safe for concurrent use.
type Evaluator struct {
	patterns *cache.Cache
}

// NewEvaluator returns an evaluator whose compiled patterns expire after
// ttl without use.
func NewEvaluator(ttl time.Duration) *Evaluator {
	return &Evaluator{patterns: cache.New(ttl, 2*ttl)}
}

var defaultEvaluator = NewEvaluator(10 * time.Minute)

// Evaluate evaluates node with the default evaluator.
func Evaluate(node Node, row []sqltypes.Value, rowTypes []sqltypes.Type, params ParamResolver) (bool, error) {
	return defaultEvaluator.Evaluate(node, row, rowTypes, params)
}

// Evaluate returns the truth value of node for the given row.
//
// rowTypes holds the declared type of every column of the row; it tells how
// stored epoch-relative integers must be read. A comparison involving a NULL
// column value or a NULL parameter is false. IS NULL and IS NOT NULL test
// the column value itself.
//
// Errors with code Internal mean the node was not built by this package
// and should be treated as a bug, not as a false result.
func (e *Evaluator) Evaluate(node Node, row []sqltypes.Value, rowTypes []sqltypes.Type, params ParamResolver) (bool, error) {
	switch n := node.(type) {
	case *Leaf:
		return e.evaluateLeaf(n, row, rowTypes, params)
	case *Compound:
		return e.evaluateCompound(n, row, rowTypes, params)
	case nil:
		return false, unclassified("nil node")
	default:
		return false, unclassified("node of type %T", node)
	}
}

func (e *Evaluator) evaluateCompound(n *Compound, row []sqltypes.Value, rowTypes []sqltypes.Type, params ParamResolver) (bool, error) {
	switch n.op {
	case And:
		for _, operand := range n.operands {
			ok, err := e.Evaluate(operand, row, rowTypes, params)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case Or:
		for _, operand := range n.operands {
			ok, err := e.Evaluate(operand, row, rowTypes, params)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case Not:
		if len(n.operands) != 1 {
			return false, unclassified("NOT with %d operands", len(n.operands))
		}
		ok, err := e.Evaluate(n.operands[0], row, rowTypes, params)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}
	return false, unclassified("compound operator %s", n.op)
}

func (e *Evaluator) evaluateLeaf(n *Leaf, row []sqltypes.Value, rowTypes []sqltypes.Type, params ParamResolver) (bool, error) {
	if n.column < 0 || n.column >= len(row) {
		return false, vterrors.Errorf(vterrors.Internal, "column ordinal %d out of range for a row of %d values", n.column, len(row))
	}
	value := row[n.column]
	typ := value.Type()
	if n.column < len(rowTypes) {
		typ = rowTypes[n.column]
	}

	switch n.op {
	case IsNull:
		return value.IsNull(), nil
	case IsNotNull:
		return !value.IsNull(), nil
	case Equal, NotEqual, LessThan, LessEqual, GreaterThan, GreaterEqual, Like:
	default:
		return false, unclassified("leaf operator %s", n.op)
	}

	other, err := resolve(n.operand, params)
	if err != nil {
		return false, err
	}
	if other.IsNull() || value.IsNull() {
		return false, nil
	}
	if n.op == Like {
		return e.like(value, other)
	}

	cmp, err := compare(value, typ, other)
	if err != nil {
		return false, vterrors.Wrapf(err, "evaluating %s", n)
	}
	switch n.op {
	case Equal:
		return cmp == 0, nil
	case NotEqual:
		return cmp != 0, nil
	case LessThan:
		return cmp < 0, nil
	case LessEqual:
		return cmp <= 0, nil
	case GreaterThan:
		return cmp > 0, nil
	default:
		return cmp >= 0, nil
	}
}

func resolve(operand Operand, params ParamResolver) (sqltypes.Value, error) {
	if v, ok := operand.Literal(); ok {
		return v, nil
	}
	index, _ := operand.Param()
	if params == nil {
		return sqltypes.NULL, vterrors.Errorf(vterrors.InvalidArgument, "parameter ?%d referenced but no parameters are bound", index)
	}
	return params(index)
}

// compare orders the column value, read as typ, against other. Numbers are
// compared as float64. Temporal values are compared as calendar times
// unless both sides share the same epoch-relative type.
func compare(value sqltypes.Value, typ sqltypes.Type, other sqltypes.Value) (int, error) {
	if typ != value.Type() && sqltypes.IsTemporal(typ) && value.Type() == sqltypes.Int64 {
		// epoch-relative value stored in a plain integer
		value = sqltypes.MakeTrusted(typ, value.Raw())
	}

	switch {
	case value.IsTemporal() && (other.IsText() || value.Type() == sqltypes.Datetime || (other.IsTemporal() && other.Type() != value.Type())):
		left, err := value.ToTime()
		if err != nil {
			return 0, err
		}
		right, err := other.ToTime()
		if err != nil {
			return 0, err
		}
		return left.Compare(right), nil

	case value.IsNumeric() || other.IsNumeric() || (value.IsTemporal() && other.IsTemporal()):
		left, err := value.ToFloat64()
		if err != nil {
			return 0, err
		}
		right, err := other.ToFloat64()
		if err != nil {
			return 0, err
		}
		switch {
		case left < right:
			return -1, nil
		case left > right:
			return 1, nil
		}
		return 0, nil

	case value.Type() == sqltypes.Boolean && other.Type() == sqltypes.Boolean:
		left, err := value.ToBool()
		if err != nil {
			return 0, err
		}
		right, err := other.ToBool()
		if err != nil {
			return 0, err
		}
		switch {
		case left == right:
			return 0, nil
		case !left:
			return -1, nil
		}
		return 1, nil
	}
	return bytes.Compare(value.Raw(), other.Raw()), nil
}

// like matches the string form of value against pattern, compiled as an
// anchored regular expression. SQL wildcards (% and _) are not translated;
// patterns that contain them are counted and logged.
func (e *Evaluator) like(value, pattern sqltypes.Value) (bool, error) {
	re, err := e.compile(pattern.ToString())
	if err != nil {
		return false, err
	}
	return re.MatchString(value.ToString()), nil
}

func (e *Evaluator) compile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := e.patterns.Get(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "invalid LIKE pattern %q: %v", pattern, err)
	}
	if strings.ContainsAny(pattern, "%_") {
		likeWildcards.Add(1)
		log.Warningf("LIKE pattern %q contains SQL wildcards that are matched literally", pattern)
	}
	e.patterns.Set(pattern, re, cache.DefaultExpiration)
	return re, nil
}

func unclassified(format string, args ...any) error {
	err := vterrors.NewErrorf(vterrors.Internal, vterrors.UnclassifiedOperator, "predicate evaluator reached an unclassified "+format, args...)
	log.ErrorDepth(1, err)
	return err
}
