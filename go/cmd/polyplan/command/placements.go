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
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/partition"
	"vitess.io/polystore/go/vt/vterrors"
)

func newPlacementsCommand(e *env) *cobra.Command {
	var (
		table  string
		groups []string
	)
	cmd := &cobra.Command{
		Use:   "placements --table <table> [--groups <group>,...]",
		Short: "Shows the column placements a scan of the table reads from.",
		Long: "Shows the column placements a scan of the table reads from, per partition group. Groups are " +
			"given by name or id; without groups the worst case selection of full placements is shown.",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := e.catalog()
			if err != nil {
				return err
			}
			t, err := e.table(table)
			if err != nil {
				return err
			}
			ids, err := resolveGroups(t, groups)
			if err != nil {
				return err
			}
			selection, err := partition.RelevantPlacements(snapshot, t, ids)
			if err != nil {
				return err
			}

			var rows [][]string
			for _, gp := range selection {
				group := "all"
				if gp.GroupID != partition.AllGroups {
					group = strconv.FormatInt(gp.GroupID, 10)
					if name := groupName(t.Partitioning, gp.GroupID); name != "" {
						group += " (" + name + ")"
					}
				}
				for i, p := range gp.Placements {
					rows = append(rows, []string{group, t.Columns[i].Name, strconv.FormatInt(p.StoreID, 10), p.Kind.String()})
				}
			}
			return renderTable(cmd.OutOrStdout(), []string{"Group", "Column", "Store", "Kind"}, rows)
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "table, optionally qualified with its namespace")
	cmd.Flags().StringSliceVar(&groups, "groups", nil, "partition groups, by name or id")
	return cmd
}

func resolveGroups(t *catalog.Table, groups []string) ([]int64, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	if !t.IsPartitioned() {
		return nil, vterrors.Errorf(vterrors.FailedPrecondition, "table %s is not partitioned", t.QualifiedName())
	}
	ids := make([]int64, 0, len(groups))
	for _, g := range groups {
		id, err := groupID(t.Partitioning, strings.TrimSpace(g))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func groupID(scheme *catalog.PartitionScheme, g string) (int64, error) {
	for _, group := range scheme.Groups {
		if strings.EqualFold(group.Name, g) {
			return group.ID, nil
		}
	}
	if id, err := strconv.ParseInt(g, 10, 64); err == nil {
		return id, nil
	}
	return 0, vterrors.NewErrorf(vterrors.NotFound, vterrors.UnknownGroup, "unknown partition group '%s'", g)
}
