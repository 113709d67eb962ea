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

	"github.com/spf13/cobra"

	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/partition"
	"vitess.io/polystore/go/vt/vterrors"
)

func newRouteCommand(e *env) *cobra.Command {
	var (
		table  string
		values []string
	)
	cmd := &cobra.Command{
		Use:                   "route --table <table> --value <value> [--value <value> ...]",
		Short:                 "Shows the partition group each value of the partition column is routed to.",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := e.table(table)
			if err != nil {
				return err
			}
			if !t.IsPartitioned() {
				return vterrors.Errorf(vterrors.FailedPrecondition, "table %s is not partitioned", t.QualifiedName())
			}
			if len(values) == 0 {
				return vterrors.Errorf(vterrors.InvalidArgument, "no value given, use --value")
			}

			rows := make([][]string, 0, len(values))
			for _, v := range values {
				id, err := partition.Route(v, t.Partitioning)
				if err != nil {
					return err
				}
				rows = append(rows, []string{v, strconv.FormatInt(id, 10), groupName(t.Partitioning, id)})
			}
			return renderTable(cmd.OutOrStdout(), []string{"Value", "Group", "Name"}, rows)
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "partitioned table, optionally qualified with its namespace")
	cmd.Flags().StringArrayVar(&values, "value", nil, "value of the partition column to route")
	return cmd
}

func groupName(scheme *catalog.PartitionScheme, id int64) string {
	if g := scheme.Group(id); g != nil {
		return g.Name
	}
	return ""
}
