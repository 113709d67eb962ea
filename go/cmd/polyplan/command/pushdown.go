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

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"vitess.io/polystore/go/sqltypes"
	"vitess.io/polystore/go/vt/engine"
	"vitess.io/polystore/go/vt/predicate"
	"vitess.io/polystore/go/vt/vterrors"
)

func newPushdownCommand(e *env) *cobra.Command {
	var (
		query string
		row   string
	)
	cmd := &cobra.Command{
		Use:   "pushdown --query <file.json> [--row <json array>]",
		Short: "Shows which conjuncts of the compiled filter the reference adapter evaluates natively.",
		Long: "Shows which conjuncts of the compiled filter the reference adapter evaluates natively. With " +
			"--row, the conjuncts left to generic evaluation are evaluated against the row, given as a JSON " +
			"array in the layout of the filtered relation.",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return vterrors.Errorf(vterrors.InvalidArgument, "no query given, use --query")
			}
			q, plan, err := e.compile(query)
			if err != nil {
				return err
			}
			filter := filterStage(plan)
			if filter == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "The query has no filter.")
				return nil
			}

			types := make([]sqltypes.Type, len(filter.Columns))
			for i, col := range filter.Columns {
				types[i] = col.Type
			}
			var values []sqltypes.Value
			if row != "" {
				if values, err = parseRow(row, filter.Columns); err != nil {
					return err
				}
			}
			evaluator := predicate.NewEvaluator(e.cfg.LikePatternCacheTTL)
			params := predicate.ParamsFromSlice(q.Params)

			var rows [][]string
			for _, conjunct := range predicate.Conjuncts(filter.Predicate) {
				pushed, _ := predicate.Split(predicate.ToExpression(conjunct, types), predicate.ReferenceCapabilities)
				where, result := "generic", ""
				if len(pushed) > 0 {
					where = "pushed"
				} else if values != nil {
					ok, err := evaluator.Evaluate(conjunct, values, types, params)
					if err != nil {
						return err
					}
					result = strconv.FormatBool(ok)
				}
				rows = append(rows, []string{conjunct.String(), where, result})
			}
			return renderTable(cmd.OutOrStdout(), []string{"Conjunct", "Evaluation", "Result"}, rows)
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "JSON file holding the query tree")
	cmd.Flags().StringVar(&row, "row", "", "JSON array of column values to evaluate generic conjuncts against")
	return cmd
}

func filterStage(plan *engine.Plan) *engine.Filter {
	for _, s := range plan.Stages {
		if f, ok := s.(*engine.Filter); ok {
			return f
		}
	}
	return nil
}

// parseRow decodes a JSON array into values of the layout types.
func parseRow(data string, layout []engine.OutputColumn) ([]sqltypes.Value, error) {
	doc := gjson.Parse(data)
	if !gjson.Valid(data) || !doc.IsArray() {
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "row must be a JSON array")
	}
	elems := doc.Array()
	if len(elems) != len(layout) {
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "row has %d values, the filtered relation has %d columns", len(elems), len(layout))
	}
	values := make([]sqltypes.Value, len(elems))
	for i, el := range elems {
		if el.Type == gjson.Null {
			values[i] = sqltypes.NULL
			continue
		}
		v, err := sqltypes.NewValue(layout[i].Type, []byte(el.String()))
		if err != nil {
			return nil, vterrors.Wrapf(err, "value %d of the row (%s)", i, layout[i].Name)
		}
		values[i] = v
	}
	return values, nil
}
