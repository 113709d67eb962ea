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

package plancache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/engine"
	"vitess.io/polystore/go/vt/planbuilder"
	"vitess.io/polystore/go/vt/querytree"
	"vitess.io/polystore/go/vt/vterrors"
)

const catalogYAML = `
version: 3
tables:
- name: items
  columns:
  - {name: id, type: int64}
  - {name: label, type: varchar}
placements:
- {store: 1, table: items, column: id}
- {store: 1, table: items, column: label}
`

func snapshot(t *testing.T, version int64) catalog.Snapshot {
	t.Helper()
	s, err := catalog.ParseYAML([]byte(catalogYAML))
	require.NoError(t, err)
	if version == s.Version() {
		return s
	}
	tbl, err := s.TableByName("items")
	require.NoError(t, err)
	var placements []*catalog.ColumnPlacement
	for _, col := range tbl.Columns {
		placements = append(placements, s.ColumnPlacements(tbl.ID, col.ID)...)
	}
	s, err = catalog.NewMemorySnapshot(version, []*catalog.Table{tbl}, placements)
	require.NoError(t, err)
	return s
}

func query(id int64) *querytree.Query {
	return &querytree.Query{
		Relation:   &querytree.Table{Name: "items"},
		Filter:     querytree.Eq("id", sqltypes.NewInt64(id)),
		Projection: []querytree.ProjectItem{{Column: "label"}},
	}
}

// countingCompile wraps the plan builder and counts its calls.
type countingCompile struct {
	mu    sync.Mutex
	calls int
}

func (c *countingCompile) compile(s catalog.Snapshot, q *querytree.Query) (*engine.Plan, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return planbuilder.Compile(s, q)
}

func TestGetOrCompile(t *testing.T) {
	c := New(DefaultConfig())
	counter := &countingCompile{}
	s := snapshot(t, 3)

	before := cacheLookups.Counts()
	first, err := c.GetOrCompile(s, query(1), counter.compile)
	require.NoError(t, err)
	second, err := c.GetOrCompile(s, query(1), counter.compile)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, counter.calls)
	assert.Equal(t, 1, c.Len())

	after := cacheLookups.Counts()
	assert.Equal(t, before["hit"]+1, after["hit"])
	assert.Equal(t, before["miss"]+1, after["miss"])

	// a different literal is a different query
	other, err := c.GetOrCompile(s, query(2), counter.compile)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, counter.calls)

	// a new catalog version compiles again
	newer, err := c.GetOrCompile(snapshot(t, 4), query(1), counter.compile)
	require.NoError(t, err)
	assert.NotSame(t, first, newer)
	assert.EqualValues(t, 4, newer.CatalogVersion)
	assert.Equal(t, 3, counter.calls)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestErrorsAreNotCached(t *testing.T) {
	c := New(DefaultConfig())
	counter := &countingCompile{}
	bad := &querytree.Query{Relation: &querytree.Table{Name: "missing"}}

	for range 2 {
		_, err := c.GetOrCompile(snapshot(t, 3), bad, counter.compile)
		assert.Equal(t, vterrors.NotFound, vterrors.Code(err))
	}
	assert.Equal(t, 2, counter.calls)
	assert.Equal(t, 0, c.Len())
}

func TestDisabled(t *testing.T) {
	c := New(Config{})
	counter := &countingCompile{}
	s := snapshot(t, 3)
	for range 3 {
		_, err := c.GetOrCompile(s, query(1), counter.compile)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, counter.calls)
	assert.Equal(t, 0, c.Len())
	c.Clear()
}

func TestExpiration(t *testing.T) {
	c := New(Config{Enabled: true, TTL: 20 * time.Millisecond, CleanupInterval: time.Millisecond})
	counter := &countingCompile{}
	s := snapshot(t, 3)

	_, err := c.GetOrCompile(s, query(1), counter.compile)
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	_, err = c.GetOrCompile(s, query(1), counter.compile)
	require.NoError(t, err)
	assert.Equal(t, 2, counter.calls)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key(1, query(1)), Key(1, query(1)))
	assert.NotEqual(t, Key(1, query(1)), Key(2, query(1)))
	assert.NotEqual(t, Key(1, query(1)), Key(1, query(2)))

	marked := &querytree.Query{
		Relation:   &querytree.Table{Name: "items"},
		Projection: []querytree.ProjectItem{{Column: "label", Markers: []string{"count"}}},
	}
	named := &querytree.Query{
		Relation:   &querytree.Table{Name: "items"},
		Projection: []querytree.ProjectItem{{Column: "count:label"}},
	}
	assert.NotEqual(t, Key(1, marked), Key(1, named))
}

func TestConcurrentCompile(t *testing.T) {
	c := New(DefaultConfig())
	counter := &countingCompile{}
	s := snapshot(t, 3)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			plan, err := c.GetOrCompile(s, query(int64(i%4)), counter.compile)
			assert.NoError(t, err)
			assert.NotNil(t, plan)
		}()
	}
	wg.Wait()
	assert.Equal(t, 4, c.Len())
}
