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

// Package partition validates partitioning schemes, routes values to
// partition groups and selects the placements that hold a group.
//
// Every partitioning strategy is implemented by a Manager registered under
// the strategy name. A scheme is validated once, when the table is
// partitioned, and only read afterwards, so routing is a pure function of
// the value and the scheme.
package partition

import (
	"fmt"
	"sort"
	"strings"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/stats"
	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/log"
	"vitess.io/polystore/go/vt/vterrors"
)

// Strategy names of the built-in managers.
const (
	Range = "RANGE"
	Hash  = "HASH"
	List  = "LIST"
)

var (
	routeCounts      = stats.NewCountersWithSingleLabel("PartitionRoutes", "Values routed to a partition group", "Strategy")
	validationErrors = stats.NewCountersWithSingleLabel("PartitionValidationErrors", "Rejected partitioning schemes", "State")
)

// Request is a proposed partitioning of a table.
type Request struct {
	// Qualifiers holds one list of qualifier tokens per bound group. RANGE
	// validation may reorder the tokens of a group in place.
	Qualifiers [][]string
	// GroupCount is the total number of groups, including the unbound group
	// when the strategy requires one.
	GroupCount int
	// GroupNames optionally names the groups. When set it must have
	// GroupCount entries, the unbound group last.
	GroupNames []string
	// Column is the partition column.
	Column *catalog.Column
}

// Manager implements one partitioning strategy.
type Manager interface {
	// Strategy returns the name the manager is registered under.
	Strategy() string
	// RequiresUnboundGroup returns true if schemes of this strategy carry a
	// catch-all group without qualifiers.
	RequiresUnboundGroup() bool
	// SupportsFamily returns true if the strategy can partition columns of
	// the type family.
	SupportsFamily(f sqltypes.Family) bool
	// Validate checks a proposed scheme.
	Validate(req *Request) error
	// Route returns the id of the group value belongs to.
	Route(scheme *catalog.PartitionScheme, value string) (int64, error)
}

// NewManagerFunc creates a Manager.
type NewManagerFunc func() Manager

var registry = make(map[string]NewManagerFunc)

// Register registers a manager factory under a strategy name. It is meant
// to be called from init functions and panics on duplicates.
func Register(strategy string, factory NewManagerFunc) {
	strategy = strings.ToUpper(strategy)
	if _, ok := registry[strategy]; ok {
		panic(fmt.Sprintf("%s is already registered", strategy))
	}
	registry[strategy] = factory
}

// Strategies returns the registered strategy names, sorted.
func Strategies() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ManagerFor returns a manager for the strategy.
func ManagerFor(strategy string) (Manager, error) {
	factory, ok := registry[strings.ToUpper(strategy)]
	if !ok {
		return nil, vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.UnknownStrategy, "unknown partitioning strategy '%s'", strategy)
	}
	return factory(), nil
}

// Validate checks a proposed scheme with the manager of the strategy.
func Validate(strategy string, req *Request) error {
	mgr, err := ManagerFor(strategy)
	if err != nil {
		return err
	}
	if req.Column == nil {
		return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.UnresolvedColumn, "no partition column given")
	}
	if err := mgr.Validate(req); err != nil {
		validationErrors.Add(vterrors.ErrState(err).String(), 1)
		log.Warningf("rejected %s partitioning: %v", mgr.Strategy(), err)
		return err
	}
	return nil
}

// ValidateScheme checks qualifiers for the strategy against the partition
// column. See Request for the meaning of the arguments.
func ValidateScheme(strategy string, qualifiers [][]string, groupCount int, groupNames []string, column *catalog.Column) error {
	return Validate(strategy, &Request{
		Qualifiers: qualifiers,
		GroupCount: groupCount,
		GroupNames: groupNames,
		Column:     column,
	})
}

// CreateScheme validates req and builds the scheme to persist. Groups keep
// the order of the qualifiers; the unbound group, if any, comes last. Ids
// are drawn from ids, and every group gets partitionsPerGroup partitions.
func CreateScheme(strategy string, req *Request, ids catalog.IDGenerator, partitionsPerGroup int) (*catalog.PartitionScheme, error) {
	mgr, err := ManagerFor(strategy)
	if err != nil {
		return nil, err
	}
	if err := Validate(strategy, req); err != nil {
		return nil, err
	}
	partitionsPerGroup = max(partitionsPerGroup, 1)

	scheme := &catalog.PartitionScheme{
		Strategy:             mgr.Strategy(),
		ColumnID:             req.Column.ID,
		RequiresUnboundGroup: mgr.RequiresUnboundGroup(),
	}
	name := func(i int, fallback string) string {
		if i < len(req.GroupNames) {
			return req.GroupNames[i]
		}
		return fallback
	}
	newGroup := func(i int, qualifiers []string, unbound bool) *catalog.PartitionGroup {
		g := &catalog.PartitionGroup{
			ID:         ids.Next(),
			Qualifiers: append([]string(nil), qualifiers...),
			IsUnbound:  unbound,
		}
		if unbound {
			g.Name = name(i, "unbound")
		} else {
			g.Name = name(i, fmt.Sprintf("group%d", i))
		}
		for range partitionsPerGroup {
			g.Partitions = append(g.Partitions, &catalog.Partition{ID: ids.Next(), GroupID: g.ID})
		}
		return g
	}

	bound := len(req.Qualifiers)
	if bound == 0 && !mgr.RequiresUnboundGroup() {
		bound = req.GroupCount
	}
	for i := range bound {
		var qualifiers []string
		if i < len(req.Qualifiers) {
			qualifiers = req.Qualifiers[i]
		}
		scheme.Groups = append(scheme.Groups, newGroup(i, qualifiers, false))
	}
	if mgr.RequiresUnboundGroup() {
		scheme.Groups = append(scheme.Groups, newGroup(bound, nil, true))
	}
	return scheme, nil
}

// Route returns the id of the partition group value belongs to.
func Route(value string, scheme *catalog.PartitionScheme) (int64, error) {
	mgr, err := ManagerFor(scheme.Strategy)
	if err != nil {
		return 0, err
	}
	id, err := mgr.Route(scheme, value)
	if err != nil {
		return 0, err
	}
	routeCounts.Add(mgr.Strategy(), 1)
	return id, nil
}

// unboundGroup returns the catch-all group id, or an error if the scheme
// has none.
func unboundGroup(scheme *catalog.PartitionScheme, value string) (int64, error) {
	if g := scheme.UnboundGroup(); g != nil {
		return g.ID, nil
	}
	return 0, vterrors.NewErrorf(vterrors.NotFound, vterrors.UnknownGroup, "value '%s' matches no partition group and the scheme has no unbound group", value)
}

// checkGroupNames verifies that names, when given, cover every group.
func checkGroupNames(req *Request) error {
	if len(req.GroupNames) > 0 && len(req.GroupNames) != req.GroupCount {
		return vterrors.NewErrorf(vterrors.InvalidArgument, vterrors.GroupNameMismatch, "%d group names given for %d partition groups", len(req.GroupNames), req.GroupCount)
	}
	return nil
}
