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
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"vitess.io/polystore/go/vt/vterrors"
)

type batchResult struct {
	stages string
	plan   string
	err    error
}

func newBatchCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file.json> [<file.json> ...]",
		Short: "Compiles several query trees concurrently.",
		Long: "Compiles several query trees concurrently, at most --batch-parallelism at a time, and reports " +
			"the stages of every plan. The command fails when any query does not compile.",
		DisableFlagsInUseLine: true,
		Args:                  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := e.catalog(); err != nil {
				return err
			}

			results := make([]batchResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(e.cfg.BatchParallelism)
			for i, path := range args {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					_, plan, err := e.compile(path)
					if err != nil {
						results[i].err = err
						return nil
					}
					kinds := make([]string, 0, len(plan.Stages))
					for _, k := range plan.Kinds() {
						kinds = append(kinds, k.String())
					}
					results[i].stages = strings.Join(kinds, ", ")
					results[i].plan = plan.ID.String()
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			failed := 0
			rows := make([][]string, 0, len(args))
			for i, r := range results {
				status := "OK"
				if r.err != nil {
					failed++
					status = vterrors.Category(r.err)
					if status == "" {
						status = "Error"
					}
					r.stages = r.err.Error()
				}
				rows = append(rows, []string{args[i], status, r.stages, r.plan})
			}
			if err := renderTable(cmd.OutOrStdout(), []string{"Query", "Status", "Stages", "Plan"}, rows); err != nil {
				return err
			}
			if failed > 0 {
				return vterrors.Errorf(vterrors.FailedPrecondition, "%d of %d queries did not compile", failed, len(args))
			}
			return nil
		},
	}
}
