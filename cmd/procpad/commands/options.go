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
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/procpad/cmd/procpad/opts"
)

// NewOptionsCmd creates the options command
func NewOptionsCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "options [processor]",
		Short: "Show the options of a processor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			d, err := lookup(o, args)
			if err != nil {
				return err
			}

			options, err := d.Options(ctx)
			if err != nil {
				return err
			}
			if len(options) == 0 {
				o.Logger.Infof("%s has no options", d.Name())
				return nil
			}

			data := pterm.TableData{{"Option", "Default", "Value", "Comment"}}
			for _, opt := range options {
				value, isOverride := opt.Value()
				if !isOverride {
					value = "(default)"
				}
				data = append(data, []string{opt.Name, deref(opt.Default), value, deref(opt.Comment)})
			}
			return render(cmd, data)
		},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
