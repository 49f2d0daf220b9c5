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
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/procpad/cmd/procpad/opts"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates the run command
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	var inputFile, text string

	cmd := &cobra.Command{
		Use:   "run [processor]",
		Short: "Run text through a processor",
		Long: `Run passes text to a processor and prints the result. Text comes from --text,
--input, or standard input. Without a processor the selected one is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			d, err := lookup(o, args)
			if err != nil {
				return err
			}

			input := text
			switch {
			case cmd.Flags().Changed("text"):
			case inputFile != "":
				data, err := os.ReadFile(inputFile)
				if err != nil {
					return errors.Errorf("reading input: %w", err)
				}
				input = string(data)
			default:
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return errors.Errorf("reading standard input: %w", err)
				}
				input = string(data)
			}

			out, err := d.Process(ctx, input)
			if err != nil {
				return errors.Errorf("running %s: %w", d.Name(), err)
			}

			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "file to read text from")
	cmd.Flags().StringVarP(&text, "text", "t", "", "text to process")
	cmd.MarkFlagsMutuallyExclusive("input", "text")

	return cmd
}
