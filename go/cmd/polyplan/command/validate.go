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
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/partition"
	"vitess.io/polystore/go/vt/vterrors"
)

type validateOptions struct {
	strategy   string
	columnType string
	qualifiers string
	groups     int
	names      []string
}

func newValidateCommand(e *env) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate --strategy RANGE --qualifiers 0:10,11:20 [--groups N] [--names a,b,rest]",
		Short: "Validates a proposed partitioning scheme.",
		Long: "Validates a proposed partitioning scheme. Qualifiers of one group are separated by ':', " +
			"groups by ','. The group count defaults to the number of qualifier groups, plus the unbound group " +
			"when the strategy requires one.",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd)
		},
	}
	cmd.Flags().StringVar(&opts.strategy, "strategy", partition.Range, fmt.Sprintf("partitioning strategy, one of %s", strings.Join(partition.Strategies(), ", ")))
	cmd.Flags().StringVar(&opts.columnType, "column-type", "int64", "type of the partition column")
	cmd.Flags().StringVar(&opts.qualifiers, "qualifiers", "", "qualifiers of the bound groups")
	cmd.Flags().IntVar(&opts.groups, "groups", 0, "total number of partition groups")
	cmd.Flags().StringSliceVar(&opts.names, "names", nil, "partition group names, the unbound group last")
	return cmd
}

func (opts *validateOptions) run(cmd *cobra.Command) error {
	typ, ok := sqltypes.ParseType(opts.columnType)
	if !ok {
		return vterrors.Errorf(vterrors.InvalidArgument, "unknown column type '%s'", opts.columnType)
	}
	mgr, err := partition.ManagerFor(opts.strategy)
	if err != nil {
		return err
	}

	qualifiers := parseQualifiers(opts.qualifiers)
	groups := opts.groups
	if groups == 0 {
		groups = len(qualifiers)
		if mgr.RequiresUnboundGroup() {
			groups++
		}
	}
	column := &catalog.Column{Name: "partition_column", Type: typ}
	if err := partition.ValidateScheme(mgr.Strategy(), qualifiers, groups, opts.names, column); err != nil {
		return err
	}

	rows := make([][]string, 0, groups)
	for i := range groups {
		name := ""
		if i < len(opts.names) {
			name = opts.names[i]
		}
		var qualifier string
		switch {
		case i < len(qualifiers):
			qualifier = strings.Join(qualifiers[i], ", ")
		case mgr.RequiresUnboundGroup():
			qualifier = "(unbound)"
		}
		rows = append(rows, []string{strconv.Itoa(i), name, qualifier})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s scheme on a %v column is valid.\n", mgr.Strategy(), typ)
	return renderTable(cmd.OutOrStdout(), []string{"Group", "Name", "Qualifiers"}, rows)
}

// parseQualifiers splits "0:10,11:20" into [[0 10] [11 20]]. Tokens are
// kept verbatim so that validation sees empty qualifiers.
func parseQualifiers(s string) [][]string {
	if s == "" {
		return nil
	}
	groups := strings.Split(s, ",")
	qualifiers := make([][]string, 0, len(groups))
	for _, g := range groups {
		qualifiers = append(qualifiers, strings.Split(g, ":"))
	}
	return qualifiers
}
