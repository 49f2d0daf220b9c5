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
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/procpad/cmd/procpad/opts"
	"gitlab.com/tozd/go/errors"
)

// NewRenameCmd creates the rename command
func NewRenameCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <processor> <name...>",
		Short: "Change the display name of a processor",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			d, err := o.Lookup(args[0])
			if err != nil {
				return err
			}

			name := strings.TrimSpace(strings.Join(args[1:], " "))
			if name == "" {
				return errors.Errorf("name cannot be empty")
			}

			old := d.Name()
			if err := o.Tree.Rename(d.ID(), name); err != nil {
				return err
			}
			o.Logger.LogProcessorEvent(ctx, opts.Event(d, "renamed", "from "+old))

			o.Persist()
			return o.Flush(ctx)
		},
	}
}
