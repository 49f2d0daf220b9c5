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
	"github.com/spf13/cobra"
	"github.com/walteh/procpad/cmd/procpad/opts"
)

// NewSetOptionCmd creates the set-option command
func NewSetOptionCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "set-option <processor> <option> [literal]",
		Short: "Set or reset a processor option",
		Long: `Set-option stores a script literal for an option, for example "lower", 72 or
["a", "b"]. The literal is evaluated each time the processor runs. Without a
literal the option goes back to the script default.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			d, err := o.Lookup(args[0])
			if err != nil {
				return err
			}

			var literal *string
			if len(args) == 3 {
				literal = &args[2]
			}

			if err := o.Tree.SetOptionOverride(ctx, d.ID(), args[1], literal); err != nil {
				return err
			}
			o.Logger.LogProcessorEvent(ctx, opts.Event(d, "option", opts.Assignment(args[1], literal)))

			o.Persist()
			return o.Flush(ctx)
		},
	}
}
