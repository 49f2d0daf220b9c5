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
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/procpad/cmd/procpad/opts"
	"github.com/walteh/procpad/pkg/settings"
)

// flagSetter changes one flag of the processor with the given id
type flagSetter func(t *settings.Tree, ctx context.Context, id string) error

func newFlagCmd(o *opts.RootOpts, use, short, action string, set flagSetter) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <processor>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			for _, key := range args {
				d, err := o.Lookup(key)
				if err != nil {
					return err
				}
				if err := set(o.Tree, ctx, d.ID()); err != nil {
					return err
				}
				o.Logger.LogProcessorEvent(ctx, opts.Event(d, action))
			}

			o.Persist()
			return o.Flush(ctx)
		},
	}
}

// NewEnableCmd creates the enable command
func NewEnableCmd(o *opts.RootOpts) *cobra.Command {
	return newFlagCmd(o, "enable", "Enable processors", "enabled",
		func(t *settings.Tree, ctx context.Context, id string) error { return t.SetEnabled(ctx, id, true) })
}

// NewDisableCmd creates the disable command
func NewDisableCmd(o *opts.RootOpts) *cobra.Command {
	return newFlagCmd(o, "disable", "Disable processors", "disabled",
		func(t *settings.Tree, ctx context.Context, id string) error { return t.SetEnabled(ctx, id, false) })
}

// NewFavouriteCmd creates the favourite command
func NewFavouriteCmd(o *opts.RootOpts) *cobra.Command {
	return newFlagCmd(o, "favourite", "Favourite processors", "favourited",
		func(t *settings.Tree, ctx context.Context, id string) error { return t.SetFavourited(ctx, id, true) })
}

// NewUnfavouriteCmd creates the unfavourite command
func NewUnfavouriteCmd(o *opts.RootOpts) *cobra.Command {
	return newFlagCmd(o, "unfavourite", "Remove processors from the favourites", "unfavourited",
		func(t *settings.Tree, ctx context.Context, id string) error { return t.SetFavourited(ctx, id, false) })
}
