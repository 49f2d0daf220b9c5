// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/procpad/pkg/settings"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

// hclNode is one settings node block
type hclNode struct {
	Name     string    `hcl:"name,label"`
	Kind     string    `hcl:"kind"`
	Payload  string    `hcl:"payload,optional"`
	Children []hclNode `hcl:"node,block"`
}

type hclConfig struct {
	BundledDir  string `hcl:"bundled_dir,optional"`
	ScriptsDir  string `hcl:"scripts_dir,optional"`
	Preferences string `hcl:"preferences,optional"`
	GitHub      *struct {
		TokenEnv string `hcl:"token_env,optional"`
	} `hcl:"github,block"`
	Settings *struct {
		Nodes []hclNode `hcl:"node,block"`
	} `hcl:"settings,block"`
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Environment variables are visible as env.NAME
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": environment(),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		BundledDir:  hclCfg.BundledDir,
		ScriptsDir:  hclCfg.ScriptsDir,
		Preferences: hclCfg.Preferences,
	}
	if hclCfg.GitHub != nil {
		cfg.GitHub.TokenEnv = hclCfg.GitHub.TokenEnv
	}
	if hclCfg.Settings != nil {
		nodes, err := convertNodes(hclCfg.Settings.Nodes)
		if err != nil {
			return nil, errors.Errorf("decoding HCL settings: %w", err)
		}
		cfg.Settings = nodes
	}

	return cfg, nil
}

func convertNodes(in []hclNode) ([]*settings.Node, error) {
	out := make([]*settings.Node, 0, len(in))
	for _, n := range in {
		kind, err := settings.ParseKind(n.Kind)
		if err != nil {
			return nil, errors.Errorf("node %q: %w", n.Name, err)
		}
		children, err := convertNodes(n.Children)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			children = nil
		}
		out = append(out, &settings.Node{
			Name:     n.Name,
			Kind:     kind,
			Payload:  n.Payload,
			Children: children,
		})
	}
	return out, nil
}

// environment exposes the process environment to HCL expressions
func environment() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
