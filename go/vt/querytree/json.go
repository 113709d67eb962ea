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

package querytree

import (
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/vt/predicate"
	"vitess.io/polystore/go/vt/vterrors"
)

// ParseJSON decodes the JSON form of a query:
//
//	{
//	  "relation": {"combine": "left join",
//	               "left": {"table": "shop.orders", "alias": "o"},
//	               "right": {"table": "shop.customers", "alias": "c"},
//	               "on": {"op": "=", "column": "c.city", "value": "Oslo"}},
//	  "filter": {"op": "and", "operands": [
//	              {"op": "=", "column": "o.id", "value": 5},
//	              {"op": ">", "column": "o.total", "param": 0}]},
//	  "projection": [{"column": "o.id"}, {"column": "o.total", "alias": "t", "markers": ["sum"]}],
//	  "sort": [{"column": "o.id", "desc": true, "nulls_first": true}],
//	  "params": [10.5]
//	}
//
// A literal may carry an explicit "type" naming its sqltypes.Type, in which
// case the value is given as a string ({"value": "2024-03-01", "type":
// "datetime"}). Params accept the same object form. Leaves compare a column
// with a value, so a "ref" to a second column is rejected.
func ParseJSON(data []byte) (*Query, error) {
	if !gjson.ValidBytes(data) {
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "query is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "query must be a JSON object")
	}

	q := &Query{}
	var err error
	if q.Relation, err = parseRelation(doc.Get("relation"), "relation"); err != nil {
		return nil, err
	}
	if f := doc.Get("filter"); f.Exists() && f.Type != gjson.Null {
		if q.Filter, err = parseFilter(f, "filter"); err != nil {
			return nil, err
		}
	}
	for i, item := range doc.Get("projection").Array() {
		p := ProjectItem{
			Column: item.Get("column").String(),
			Alias:  item.Get("alias").String(),
		}
		if p.Column == "" {
			return nil, vterrors.Errorf(vterrors.InvalidArgument, "projection[%d]: missing column", i)
		}
		for _, m := range item.Get("markers").Array() {
			p.Markers = append(p.Markers, m.String())
		}
		q.Projection = append(q.Projection, p)
	}
	for i, item := range doc.Get("sort").Array() {
		key := SortKey{
			Column:     item.Get("column").String(),
			Descending: item.Get("desc").Bool(),
			NullsFirst: item.Get("nulls_first").Bool(),
		}
		if key.Column == "" {
			return nil, vterrors.Errorf(vterrors.InvalidArgument, "sort[%d]: missing column", i)
		}
		q.Sort = append(q.Sort, key)
	}
	for i, p := range doc.Get("params").Array() {
		value, typ := p, gjson.Result{}
		if p.IsObject() {
			value, typ = p.Get("value"), p.Get("type")
		}
		v, err := parseValue(value, typ)
		if err != nil {
			return nil, vterrors.Wrapf(err, "params[%d]", i)
		}
		q.Params = append(q.Params, v)
	}
	return q, nil
}

// LoadJSON reads a query from a JSON file.
func LoadJSON(path string) (*Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vterrors.Wrapf(err, "reading query %s", path)
	}
	q, err := ParseJSON(data)
	if err != nil {
		return nil, vterrors.Wrapf(err, "decoding query %s", path)
	}
	return q, nil
}

func parseRelation(r gjson.Result, path string) (Relation, error) {
	if !r.IsObject() {
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "%s: expected an object", path)
	}
	if name := r.Get("table"); name.Exists() {
		if name.String() == "" {
			return nil, vterrors.Errorf(vterrors.InvalidArgument, "%s: empty table name", path)
		}
		return &Table{Name: name.String(), Alias: r.Get("alias").String()}, nil
	}

	opName := r.Get("combine").String()
	op, ok := ParseCombineOp(opName)
	if !ok {
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "%s: unknown combine operator '%s'", path, opName)
	}
	c := &Combine{Op: op}
	var err error
	if c.Left, err = parseRelation(r.Get("left"), path+".left"); err != nil {
		return nil, err
	}
	if c.Right, err = parseRelation(r.Get("right"), path+".right"); err != nil {
		return nil, err
	}
	if on := r.Get("on"); on.Exists() && on.Type != gjson.Null {
		if !op.IsJoin() {
			return nil, vterrors.Errorf(vterrors.InvalidArgument, "%s: %v takes no join condition", path, op)
		}
		if c.On, err = parseFilter(on, path+".on"); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func parseFilter(f gjson.Result, path string) (*FilterNode, error) {
	if !f.IsObject() {
		return nil, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.MalformedFilter, "%s: expected an object", path)
	}
	opName := f.Get("op").String()
	op, ok := predicate.ParseOperator(opName)
	if !ok {
		return nil, vterrors.NewErrorf(vterrors.Unimplemented, vterrors.UnsupportedOperator, "%s: unknown operator '%s'", path, opName)
	}
	n := &FilterNode{Op: op}
	if op.IsLogical() {
		for i, operand := range f.Get("operands").Array() {
			child, err := parseFilter(operand, path+".operands["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			n.Operands = append(n.Operands, child)
		}
		return n, nil
	}

	n.Column = f.Get("column").String()
	if n.Column == "" {
		return nil, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.MalformedFilter, "%s: %v needs a column", path, op)
	}
	if f.Get("ref").Exists() {
		return nil, vterrors.NewErrorf(vterrors.Unimplemented, vterrors.UnsupportedOperands, "%s: comparing two columns is not supported", path)
	}
	if op.IsNullCheck() {
		return n, nil
	}
	value, param := f.Get("value"), f.Get("param")
	switch {
	case value.Exists() && param.Exists():
		return nil, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.MalformedFilter, "%s: both value and param given", path)
	case param.Exists():
		if param.Type != gjson.Number || param.Int() < 0 {
			return nil, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.MalformedFilter, "%s: param must be a non-negative index", path)
		}
		idx := int(param.Int())
		n.Param = &idx
	case value.Exists():
		v, err := parseValue(value, f.Get("type"))
		if err != nil {
			return nil, vterrors.Wrapf(err, "%s", path)
		}
		n.Value = &v
	default:
		return nil, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.MalformedFilter, "%s: %v needs a value or a param", path, op)
	}
	return n, nil
}

// parseValue converts a JSON scalar. Integral numbers become INT64, other
// numbers FLOAT64. typ, when present, names the type explicitly.
func parseValue(v gjson.Result, typ gjson.Result) (sqltypes.Value, error) {
	if typ.Exists() && typ.String() != "" {
		t, ok := sqltypes.ParseType(typ.String())
		if !ok {
			return sqltypes.NULL, vterrors.Errorf(vterrors.InvalidArgument, "unknown type '%s'", typ.String())
		}
		if v.Type == gjson.Null {
			return sqltypes.NULL, nil
		}
		return sqltypes.NewValue(t, []byte(v.String()))
	}
	switch v.Type {
	case gjson.Null:
		return sqltypes.NULL, nil
	case gjson.True, gjson.False:
		return sqltypes.NewBoolean(v.Bool()), nil
	case gjson.String:
		return sqltypes.NewVarChar(v.String()), nil
	case gjson.Number:
		if !strings.ContainsAny(v.Raw, ".eE") {
			return sqltypes.NewValue(sqltypes.Int64, []byte(v.Raw))
		}
		return sqltypes.NewFloat64(v.Float()), nil
	}
	return sqltypes.NULL, vterrors.Errorf(vterrors.InvalidArgument, "unsupported JSON value %s", v.Raw)
}

