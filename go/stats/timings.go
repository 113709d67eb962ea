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

package stats

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Timing is the aggregate of all samples recorded for one category.
type Timing struct {
	Count int64
	Time  time.Duration
}

// Timings tracks the number of samples and the cumulative duration per
// category.
type Timings struct {
	mu         sync.RWMutex
	totalCount int64
	totalTime  time.Duration
	timings    map[string]*Timing
	help       string
	label      string
}

// NewTimings creates a new Timings object, and publishes it if name is
// set. categories is an optional list of categories to initialize to 0.
func NewTimings(name, help, label string, categories ...string) *Timings {
	t := &Timings{
		timings: make(map[string]*Timing),
		help:    help,
		label:   label,
	}
	for _, cat := range categories {
		t.timings[cat] = &Timing{}
	}
	if name != "" {
		publish(name, t)
	}
	return t
}

// Add will add a new value to the named category.
func (t *Timings) Add(name string, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tm, ok := t.timings[name]
	if !ok {
		tm = &Timing{}
		t.timings[name] = tm
	}
	tm.Count++
	tm.Time += elapsed
	t.totalCount++
	t.totalTime += elapsed
}

// Record is a convenience function that records completion
// timing data based on the provided start time of an event.
func (t *Timings) Record(name string, startTime time.Time) {
	t.Add(name, time.Since(startTime))
}

// Count returns the total number of samples.
func (t *Timings) Count() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totalCount
}

// Time returns the total time of all samples.
func (t *Timings) Time() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totalTime
}

// Timings returns a copy of the per-category aggregates.
func (t *Timings) Timings() map[string]Timing {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]Timing, len(t.timings))
	for k, v := range t.timings {
		out[k] = *v
	}
	return out
}

// String implements Variable.
func (t *Timings) String() string {
	timings := t.Timings()
	keys := make([]string, 0, len(timings))
	for k := range timings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%q: {\"Count\": %d, \"Time\": %d}", k, timings[k].Count, int64(timings[k].Time)))
	}
	return fmt.Sprintf("{\"TotalCount\": %d, \"TotalTime\": %d, \"Histograms\": {%s}}",
		t.Count(), int64(t.Time()), strings.Join(parts, ", "))
}

// Help returns the help string.
func (t *Timings) Help() string {
	return t.help
}

// Label returns the label name.
func (t *Timings) Label() string {
	return t.label
}
