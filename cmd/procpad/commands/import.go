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
	"github.com/walteh/procpad/pkg/log"
	"github.com/walteh/procpad/pkg/processor"
	"github.com/walteh/procpad/pkg/remote"
	_ "github.com/walteh/procpad/pkg/remote/github"
	"gitlab.com/tozd/go/errors"
)

// NewImportCmd creates the import command
func NewImportCmd(o *opts.RootOpts) *cobra.Command {
	var repo string

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import processor scripts",
		Long: `Import copies processor scripts into the writable processor directory. Each
script must define a process function taking the text as its first parameter.

Scripts can also be fetched from GitHub with --github owner/repo[/path][@ref].`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if (repo == "") == (len(args) == 0) {
				return errors.Errorf("give either files or --github")
			}

			var rejected int
			if repo != "" {
				n, err := importRemote(ctx, o, repo)
				if err != nil {
					return err
				}
				rejected = n
			} else {
				rejected = importFiles(ctx, o, args)
			}

			o.Persist()
			if err := o.Flush(ctx); err != nil {
				return err
			}

			if rejected > 0 {
				return errors.Errorf("%d script(s) rejected", rejected)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "github", "", "import every script at owner/repo[/path][@ref]")

	return cmd
}

func importFiles(ctx context.Context, o *opts.RootOpts, paths []string) int {
	rejected := 0
	for _, path := range paths {
		o.Logger.StartImport(ctx, log.ImportOperation{Source: path, Destination: o.Config.ScriptsDir})
		d, err := o.Catalog.ImportFile(ctx, path)
		if err != nil {
			o.Logger.Errorf("%v", err)
			rejected++
		} else {
			added(ctx, o, d, "")
		}
		o.Logger.EndImport(ctx)
	}
	return rejected
}

func importRemote(ctx context.Context, o *opts.RootOpts, repo string) (int, error) {
	spec, err := remote.ParseSpec(repo)
	if err != nil {
		return 0, err
	}

	factory, err := remote.Get("github")
	if err != nil {
		return 0, err
	}
	provider, err := factory(ctx, o.Config.GitHub.Token())
	if err != nil {
		return 0, errors.Errorf("creating GitHub client: %w", err)
	}

	o.Logger.StartImport(ctx, log.ImportOperation{
		Source:      spec.Owner + "/" + spec.Repo,
		Ref:         spec.Ref,
		Destination: o.Config.ScriptsDir,
		IsRemote:    true,
	})
	defer o.Logger.EndImport(ctx)

	scripts, err := remote.FetchAll(ctx, provider, spec)
	if err != nil {
		return 0, err
	}

	rejected := 0
	for _, s := range scripts {
		d, err := o.Catalog.Import(ctx, s.Name, s.Source)
		if err != nil {
			o.Logger.Errorf("%s: %v", s.Path, err)
			rejected++
			continue
		}
		added(ctx, o, d, s.Permalink)
	}
	return rejected, nil
}

func added(ctx context.Context, o *opts.RootOpts, d *processor.Descriptor, detail string) {
	o.Tree.Add(ctx, d)
	ev := opts.Event(d, "imported", detail)
	ev.IsNew = true
	o.Logger.LogProcessorEvent(ctx, ev)
}
