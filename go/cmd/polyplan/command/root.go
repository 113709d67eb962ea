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

// Package command contains the commands of the polyplan tool.
package command

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/engine"
	"vitess.io/polystore/go/vt/log"
	"vitess.io/polystore/go/vt/plancache"
	"vitess.io/polystore/go/vt/planbuilder"
	"vitess.io/polystore/go/vt/querytree"
	"vitess.io/polystore/go/vt/servenv"
	"vitess.io/polystore/go/vt/vterrors"
)

// env is the state shared by the commands of one invocation.
type env struct {
	configFile string
	cfg        *servenv.Config
	plans      *plancache.Cache
	snapshot   catalog.Snapshot
}

// NewRoot returns the polyplan command tree.
func NewRoot() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:          "polyplan",
		Short:        "polyplan validates partitioning schemes and compiles queries against a polystore catalog.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := servenv.LoadConfig(cmd.Flags(), e.configFile)
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.plans = plancache.New(cfg.PlanCache())
			servenv.InitMetrics(cfg, nil)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Flush()
		},
	}
	root.PersistentFlags().StringVar(&e.configFile, "config", "", "YAML config file")
	servenv.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newValidateCommand(e),
		newRouteCommand(e),
		newPlacementsCommand(e),
		newCompileCommand(e),
		newBatchCommand(e),
		newPushdownCommand(e),
	)
	return root
}

// catalog loads the catalog snapshot named by the configuration, once.
func (e *env) catalog() (catalog.Snapshot, error) {
	if e.snapshot != nil {
		return e.snapshot, nil
	}
	if e.cfg.CatalogPath == "" {
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "no catalog given, use --%s", servenv.KeyCatalog)
	}
	s, err := catalog.LoadYAML(e.cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	log.V(1).Infof("loaded catalog %s at version %d", e.cfg.CatalogPath, s.Version())
	e.snapshot = s
	return s, nil
}

// compile compiles the query stored at path through the plan cache.
func (e *env) compile(path string) (*querytree.Query, *engine.Plan, error) {
	snapshot, err := e.catalog()
	if err != nil {
		return nil, nil, err
	}
	q, err := querytree.LoadJSON(path)
	if err != nil {
		return nil, nil, err
	}
	plan, err := e.plans.GetOrCompile(snapshot, q, planbuilder.Compile)
	if err != nil {
		return nil, nil, vterrors.Wrapf(err, "compiling %s", path)
	}
	return q, plan, nil
}

func (e *env) table(name string) (*catalog.Table, error) {
	snapshot, err := e.catalog()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, vterrors.Errorf(vterrors.InvalidArgument, "no table given, use --table")
	}
	return snapshot.TableByName(name)
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	cells := make([]any, 0, len(header))
	for _, h := range header {
		cells = append(cells, h)
	}
	table.Header(cells...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
