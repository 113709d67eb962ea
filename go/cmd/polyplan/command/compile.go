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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"vitess.io/polystore/go/vt/vterrors"
)

func newCompileCommand(e *env) *cobra.Command {
	var (
		query   string
		explain bool
	)
	cmd := &cobra.Command{
		Use:                   "compile --query <file.json> [--explain]",
		Short:                 "Compiles a query tree into a logical plan.",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return vterrors.Errorf(vterrors.InvalidArgument, "no query given, use --query")
			}
			_, plan, err := e.compile(query)
			if err != nil {
				return err
			}
			if explain {
				fmt.Fprint(cmd.OutOrStdout(), plan.TreeString())
				return nil
			}
			data, err := json.MarshalIndent(plan, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "JSON file holding the query tree")
	cmd.Flags().BoolVar(&explain, "explain", false, "print the plan as a tree instead of JSON")
	return cmd
}
