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
	"strconv"

	"github.com/spf13/cobra"
	"github.com/walteh/procpad/cmd/procpad/opts"
	"gitlab.com/tozd/go/errors"
)

// NewMoveCmd creates the move command
func NewMoveCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Reorder the enabled processors",
		Long: `Move takes the enabled processor at position from and puts it at position to.
Positions start at 1, as shown by list --enabled.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			n := len(o.Tree.Enabled())
			var rows [2]int
			for i, arg := range args {
				pos, err := strconv.Atoi(arg)
				if err != nil {
					return errors.Errorf("position %q: %w", arg, err)
				}
				if pos < 1 || pos > n {
					return errors.Errorf("position %d out of range 1-%d", pos, n)
				}
				rows[i] = pos - 1
			}

			d := o.Tree.Enabled()[rows[0]]
			o.Tree.Move(ctx, rows[0], rows[1])
			o.Logger.LogProcessorEvent(ctx, opts.Event(d, "moved", "to "+args[1]))

			o.Persist()
			return o.Flush(ctx)
		},
	}
}
