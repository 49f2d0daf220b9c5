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

package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/procpad/cmd/procpad/opts"
	"github.com/walteh/procpad/pkg/settings"
	"gitlab.com/tozd/go/errors"
)

// NewSettingsCmd creates the settings command
func NewSettingsCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "settings [trail...]",
		Short: "Browse the settings tree",
		Long: `Settings prints the sections and rows at a trail. Rows that open further
show the trail to pass next.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			trail := make(settings.Trail, 0, len(args))
			for _, arg := range args {
				step, err := strconv.Atoi(arg)
				if err != nil {
					return errors.Errorf("trail step %q: %w", arg, err)
				}
				trail = append(trail, step)
			}
			if !o.Tree.Valid(trail) {
				return errors.Errorf("no settings at %v", args)
			}

			out := cmd.OutOrStdout()
			for s := 0; s < o.Tree.NumberOfSections(trail); s++ {
				if header, ok := o.Tree.Header(s, trail); ok {
					fmt.Fprintln(out, pterm.Bold.Sprint(header))
				}

				data := pterm.TableData{{"#", "Name", "Kind", "Open"}}
				for r := 0; r < o.Tree.NumberOfRows(s, trail); r++ {
					data = append(data, row(o.Tree, trail, s, r))
				}
				if err := render(cmd, data); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func row(t *settings.Tree, trail settings.Trail, section, r int) []string {
	item := t.Item(section, r, trail)

	switch item.Kind {
	case settings.ItemProcessor:
		return []string{strconv.Itoa(r + 1), item.Processor.Name(), "processor", ""}
	case settings.ItemNode:
		open := ""
		if next, ok := t.Descend(trail, section, r); ok {
			steps := make([]string, 0, len(next))
			for _, step := range next {
				steps = append(steps, strconv.Itoa(step))
			}
			open = strings.Join(steps, " ")
		} else if item.Node.Payload != "" {
			open = item.Node.Payload
		}
		return []string{strconv.Itoa(r + 1), item.Node.Name, item.Node.Kind.String(), open}
	default:
		panic(fmt.Sprintf("unknown item kind %d", item.Kind))
	}
}
