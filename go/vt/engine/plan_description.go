/*
Copyright 2020 The Vitess Authors.

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

package engine

import (
	"fmt"
	"sort"

	"github.com/xlab/treeprint"
)

// PlanDescription is used to create a serializable representation of the stage tree
type PlanDescription struct {
	OperatorType string
	Variant      string         `json:",omitempty"`
	Other        map[string]any `json:",omitempty"`
	Inputs       []PlanDescription
}

// StageToPlanDescription transforms the stage tree rooted at stage idx into a
// corresponding PlanDescription tree
func StageToPlanDescription(p *Plan, idx int) PlanDescription {
	stage := p.Stages[idx]
	this := stage.description()

	for _, input := range stage.Inputs() {
		this.Inputs = append(this.Inputs, StageToPlanDescription(p, input))
	}

	if len(stage.Inputs()) == 0 {
		this.Inputs = []PlanDescription{}
	}

	return this
}

func (pd PlanDescription) label() string {
	if pd.Variant == "" {
		return pd.OperatorType
	}
	return pd.OperatorType + " (" + pd.Variant + ")"
}

func (pd PlanDescription) addTo(tree treeprint.Tree) {
	keys := make([]string, 0, len(pd.Other))
	for k := range pd.Other {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tree.AddNode(fmt.Sprintf("%s: %v", k, pd.Other[k]))
	}
	for _, input := range pd.Inputs {
		input.addTo(tree.AddBranch(input.label()))
	}
}

// TreeString renders the description as an indented tree.
func (pd PlanDescription) TreeString() string {
	tree := treeprint.NewWithRoot(pd.label())
	pd.addTo(tree)
	return tree.String()
}
