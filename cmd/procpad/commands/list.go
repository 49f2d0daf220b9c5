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

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/procpad/cmd/procpad/opts"
	"github.com/walteh/procpad/pkg/processor"
	"gitlab.com/tozd/go/errors"
)

// NewListCmd creates the list command
func NewListCmd(o *opts.RootOpts) *cobra.Command {
	var onlyEnabled, onlyFavourites bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List processors",
		Long: `List shows every processor with its position among the enabled processors.
The selected processor is marked with ▶.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := o.Tree.Processors()
			switch {
			case onlyEnabled:
				ds = o.Tree.Enabled()
			case onlyFavourites:
				ds = o.Tree.Favourited()
			}

			rows := map[string]int{}
			for i, d := range o.Tree.Enabled() {
				rows[d.ID()] = i
			}
			active, _ := o.Tree.ActiveProcessor()

			data := pterm.TableData{{"", "#", "Name", "File", "Kind", "Enabled", "Favourite", "Options"}}
			for _, d := range ds {
				marker := ""
				if active.Equal(d) {
					marker = "▶"
				}
				pos := "-"
				if row, ok := rows[d.ID()]; ok {
					pos = strconv.Itoa(row + 1)
				}
				data = append(data, []string{
					marker,
					pos,
					d.Name(),
					d.Filename(),
					d.Kind().String(),
					yesNo(d.IsEnabled()),
					yesNo(d.IsFavourited()),
					yesNo(d.HasOptions()),
				})
			}

			return render(cmd, data)
		},
	}

	cmd.Flags().BoolVar(&onlyEnabled, "enabled", false, "only list enabled processors, in display order")
	cmd.Flags().BoolVar(&onlyFavourites, "favourites", false, "only list favourited processors")
	cmd.MarkFlagsMutuallyExclusive("enabled", "favourites")

	return cmd
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// render prints a table to the command output
func render(cmd *cobra.Command, data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering table: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// lookup resolves a processor argument, falling back to the selected processor
func lookup(o *opts.RootOpts, args []string) (*processor.Descriptor, error) {
	if len(args) > 0 {
		return o.Lookup(args[0])
	}
	d, ok := o.Tree.ActiveProcessor()
	if !ok {
		return nil, errors.Errorf("no processor given and none enabled")
	}
	return d, nil
}
