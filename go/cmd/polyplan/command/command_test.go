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

package command

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitess.io/polystore/go/vt/vterrors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--catalog=testdata/catalog.yaml"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	testcases := []struct {
		name  string
		args  []string
		want  []string
		state vterrors.State
		code  vterrors.ErrorCode
	}{{
		name: "range",
		args: []string{"--qualifiers=0:10,11:20"},
		want: []string{"RANGE scheme on a INT64 column is valid.", "11, 20", "(unbound)"},
	}, {
		name: "range bounds are swapped",
		args: []string{"--qualifiers=10:0,11:20", "--names=a,b,rest"},
		want: []string{"0, 10", "rest"},
	}, {
		name:  "overlapping ranges",
		args:  []string{"--qualifiers=0:10,5:15"},
		code:  vterrors.InvalidArgument,
		state: vterrors.OverlappingRanges,
	}, {
		name:  "text column",
		args:  []string{"--qualifiers=0:10", "--column-type=varchar"},
		code:  vterrors.InvalidArgument,
		state: vterrors.PartitionColumnNotNumeric,
	}, {
		name:  "group count",
		args:  []string{"--qualifiers=0:10", "--groups=3"},
		code:  vterrors.InvalidArgument,
		state: vterrors.GroupCountMismatch,
	}, {
		name: "hash",
		args: []string{"--strategy=hash", "--groups=4"},
		want: []string{"HASH scheme"},
	}, {
		name: "list",
		args: []string{"--strategy=LIST", "--column-type=text", "--qualifiers=oslo:bergen,paris"},
		want: []string{"LIST scheme on a VARCHAR column is valid.", "oslo, bergen"},
	}, {
		name:  "unknown strategy",
		args:  []string{"--strategy=KEY"},
		code:  vterrors.InvalidArgument,
		state: vterrors.UnknownStrategy,
	}, {
		name: "unknown column type",
		args: []string{"--column-type=blob"},
		code: vterrors.InvalidArgument,
	}}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, append([]string{"validate"}, tc.args...)...)
			if tc.code != vterrors.OK {
				require.Error(t, err)
				assert.Equal(t, tc.code, vterrors.Code(err), err.Error())
				assert.Equal(t, tc.state, vterrors.ErrState(err), err.Error())
				return
			}
			require.NoError(t, err)
			for _, want := range tc.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRoute(t *testing.T) {
	out, err := run(t, "route", "--table=orders", "--value=5", "--value=150", "--value=500")
	require.NoError(t, err)
	for _, want := range []string{"low", "high", "rest", "150"} {
		assert.Contains(t, out, want)
	}

	_, err = run(t, "route", "--table=shop.notes", "--value=1")
	assert.Equal(t, vterrors.FailedPrecondition, vterrors.Code(err))

	_, err = run(t, "route", "--table=orders", "--value=ten")
	assert.Equal(t, vterrors.WrongValueForVar, vterrors.ErrState(err))

	_, err = run(t, "route", "--table=orders")
	assert.Equal(t, vterrors.InvalidArgument, vterrors.Code(err))

	_, err = run(t, "route", "--table=nope", "--value=1")
	assert.Equal(t, vterrors.UnknownTable, vterrors.ErrState(err))
}

func TestPlacements(t *testing.T) {
	out, err := run(t, "placements", "--table=shop.orders", "--groups=low,high")
	require.NoError(t, err)
	assert.Contains(t, out, "(low)")
	assert.Contains(t, out, "(high)")
	assert.Contains(t, out, "partial")
	assert.NotContains(t, out, "full")

	out, err = run(t, "placements", "--table=orders")
	require.NoError(t, err)
	assert.Contains(t, out, "all")
	assert.Contains(t, out, "full")
	assert.NotContains(t, out, "partial")

	_, err = run(t, "placements", "--table=orders", "--groups=middle")
	assert.Equal(t, vterrors.UnknownGroup, vterrors.ErrState(err))

	_, err = run(t, "placements", "--table=notes", "--groups=low")
	assert.Equal(t, vterrors.FailedPrecondition, vterrors.Code(err))
}

func TestCompile(t *testing.T) {
	out, err := run(t, "compile", "--query=testdata/by_id.json")
	require.NoError(t, err)
	var plan map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.EqualValues(t, 11, plan["CatalogVersion"])
	assert.Equal(t, []any{"shop.orders"}, plan["TablesUsed"])

	out, err = run(t, "compile", "--query=testdata/by_id.json", "--explain")
	require.NoError(t, err)
	for _, want := range []string{"Sort", "Project", "Filter", "Scan (Pruned)", "$0 = INT64(5)"} {
		assert.Contains(t, out, want)
	}

	_, err = run(t, "compile", "--query=testdata/unresolved.json")
	assert.Equal(t, vterrors.UnresolvedColumn, vterrors.ErrState(err))

	_, err = run(t, "compile", "--query=testdata/missing.json")
	assert.Error(t, err)

	_, err = run(t, "compile")
	assert.Equal(t, vterrors.InvalidArgument, vterrors.Code(err))
}

func TestBatch(t *testing.T) {
	out, err := run(t, "--batch-parallelism=2", "batch", "testdata/by_id.json", "testdata/revenue.json", "testdata/notes.json")
	require.NoError(t, err)
	assert.Contains(t, out, "testdata/revenue.json")
	assert.Contains(t, out, "OK")

	out, err = run(t, "batch", "testdata/by_id.json", "testdata/unresolved.json")
	assert.Equal(t, vterrors.FailedPrecondition, vterrors.Code(err))
	assert.Contains(t, out, "CompilationError")
	assert.Contains(t, out, "OK")

	_, err = run(t, "--batch-parallelism=0", "batch", "testdata/by_id.json")
	assert.Equal(t, vterrors.InvalidArgument, vterrors.Code(err))
}

func TestPushdown(t *testing.T) {
	out, err := run(t, "pushdown", "--query=testdata/revenue.json", `--row=[5, "bob", 20.5, 19000, "Ann", "Oslo"]`)
	require.NoError(t, err)
	assert.Contains(t, out, "$2 > ?0")
	assert.Contains(t, out, `$1 LIKE VARCHAR("b.*")`)
	assert.Contains(t, out, "$4 IS NOT NULL")
	assert.Contains(t, out, "pushed")
	assert.Contains(t, out, "generic")
	assert.Contains(t, out, "true")

	out, err = run(t, "pushdown", "--query=testdata/revenue.json", `--row=[5, "ann", 20.5, 19000, "Ann", "Oslo"]`)
	require.NoError(t, err)
	assert.Contains(t, out, "false")

	out, err = run(t, "pushdown", "--query=testdata/notes.json")
	require.NoError(t, err)
	assert.Contains(t, out, "The query has no filter.")

	_, err = run(t, "pushdown", "--query=testdata/revenue.json", "--row=[1, 2]")
	assert.Equal(t, vterrors.InvalidArgument, vterrors.Code(err))

	_, err = run(t, "pushdown", "--query=testdata/revenue.json", `--row={"id": 1}`)
	assert.Equal(t, vterrors.InvalidArgument, vterrors.Code(err))
}

func TestMissingCatalog(t *testing.T) {
	root := NewRoot()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"route", "--table=orders", "--value=1"})
	err := root.Execute()
	assert.Equal(t, vterrors.InvalidArgument, vterrors.Code(err))
}
