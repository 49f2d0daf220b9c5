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
	"github.com/walteh/procpad/pkg/processor"
	"gitlab.com/tozd/go/errors"
)

// NewRemoveCmd creates the remove command
func NewRemoveCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <processor>",
		Aliases: []string{"rm"},
		Short:   "Delete an imported processor",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			d, err := o.Lookup(args[0])
			if err != nil {
				return err
			}

			if err := o.Catalog.Remove(ctx, d); err != nil {
				if errors.Is(err, processor.ErrBuiltIn) {
					return errors.Errorf("%s is built in; use disable instead: %w", d.Name(), err)
				}
				return err
			}

			o.Tree.Remove(ctx, d)
			ev := opts.Event(d, "removed")
			ev.IsRemoved = true
			o.Logger.LogProcessorEvent(ctx, ev)

			if _, ok := o.Tree.Selected(); !ok {
				o.Logger.Warning("no enabled processors left")
			}

			o.Persist()
			return o.Flush(ctx)
		},
	}
}
