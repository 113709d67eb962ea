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

// Package stats is a wrapper for in-process metrics. Variables created with
// a non-empty name are published to a process-wide registry, and backends
// (see the prometheusbackend package) subscribe to that registry with
// Register.
package stats

import (
	"sort"
	"sync"

	"vitess.io/polystore/go/vt/log"
)

// Variable is the minimal interface every published metric satisfies.
type Variable interface {
	// Help returns the help string used when exporting the variable.
	Help() string
	// String returns a JSON-ish rendering of the current value.
	String() string
}

// NewVarHook is called for every published variable.
type NewVarHook func(name string, v Variable)

var (
	varsMu sync.Mutex
	vars   = make(map[string]Variable)
	hooks  []NewVarHook
)

func publish(name string, v Variable) {
	varsMu.Lock()
	defer varsMu.Unlock()

	if _, ok := vars[name]; ok {
		log.Warningf("stats: variable %q is already published, ignoring the new one", name)
		return
	}
	vars[name] = v
	for _, hook := range hooks {
		hook(name, v)
	}
}

// Register adds a hook that is called for every variable published so
// far and for every variable published afterwards.
func Register(hook NewVarHook) {
	varsMu.Lock()
	defer varsMu.Unlock()

	hooks = append(hooks, hook)
	for _, name := range sortedNames() {
		hook(name, vars[name])
	}
}

// Lookup returns the published variable with the given name, or nil.
func Lookup(name string) Variable {
	varsMu.Lock()
	defer varsMu.Unlock()
	return vars[name]
}

// Names returns the names of all published variables, sorted.
func Names() []string {
	varsMu.Lock()
	defer varsMu.Unlock()
	return sortedNames()
}

func sortedNames() []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
