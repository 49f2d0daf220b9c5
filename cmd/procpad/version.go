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

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// engineModule is the module that runs processor scripts
const engineModule = "github.com/dop251/goja"

// buildInfo describes the running procpad binary and its script engine
type buildInfo struct {
	Version  string `json:"version"`
	Revision string `json:"revision,omitempty"`
	Dirty    bool   `json:"dirty,omitempty"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
	Engine   string `json:"engine"`
}

func readBuildInfo() buildInfo {
	info := buildInfo{
		Version:  "dev",
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Engine:   engineModule + "@unknown",
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	for _, dep := range bi.Deps {
		if dep.Path != engineModule {
			continue
		}
		if dep.Replace != nil {
			dep = dep.Replace
		}
		info.Engine = engineModule + "@" + dep.Version
	}
	return info
}

// write prints info as a table, or as JSON when asJSON is set
func (info buildInfo) write(w io.Writer, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(info); err != nil {
			return errors.Errorf("encoding version: %w", err)
		}
		return nil
	}

	revision := info.Revision
	if revision == "" {
		revision = "-"
	}
	if info.Dirty {
		revision += " (modified)"
	}

	table, err := pterm.DefaultTable.WithData(pterm.TableData{
		{"Version", info.Version},
		{"Revision", revision},
		{"Go", info.Go},
		{"Platform", info.Platform},
		{"Engine", info.Engine},
	}).Srender()
	if err != nil {
		return errors.Errorf("rendering version: %w", err)
	}
	fmt.Fprintf(w, "🚀 procpad version info:\n%s\n", table)
	return nil
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and script engine information",
		Args:  cobra.NoArgs,
		// version needs no configuration
		PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return nil },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			return readBuildInfo().write(cmd.OutOrStdout(), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
