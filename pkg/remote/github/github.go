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

// Package github lists and downloads processor scripts from GitHub repositories.
package github

import (
	"context"
	"fmt"
	"path"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/procpad/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// ScriptPattern matches processor scripts by filename
const ScriptPattern = "*.js"

func init() {
	remote.Register("github", func(ctx context.Context, token string) (remote.Provider, error) {
		return New(ctx, token), nil
	})
}

// 🎯 Provider implements remote.Provider for GitHub
type Provider struct {
	client *github.Client
}

// 🏭 New creates a GitHub provider; an empty token makes anonymous requests
func New(ctx context.Context, token string) *Provider {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	} else {
		zerolog.Ctx(ctx).Debug().Msg("no GitHub token, using anonymous requests")
	}
	return NewWithClient(client)
}

// NewWithClient wraps an existing client
func NewWithClient(client *github.Client) *Provider {
	return &Provider{client: client}
}

// Name returns the name of the provider
func (p *Provider) Name() string {
	return "github"
}

func contentOptions(spec remote.Spec) *github.RepositoryContentGetOptions {
	if spec.Ref == "" {
		return nil
	}
	return &github.RepositoryContentGetOptions{Ref: spec.Ref}
}

// 📂 ListScripts returns the script paths at spec.Path. A path naming a
// script returns just that script.
func (p *Provider) ListScripts(ctx context.Context, spec remote.Spec) ([]string, error) {
	zerolog.Ctx(ctx).Debug().Str("spec", spec.String()).Msg("listing remote scripts")

	file, dir, _, err := p.client.Repositories.GetContents(ctx, spec.Owner, spec.Repo, spec.Path, contentOptions(spec))
	if err != nil {
		return nil, errors.Errorf("getting contents of %s: %w", spec, err)
	}

	if file != nil {
		ok, err := doublestar.Match(ScriptPattern, file.GetName())
		if err != nil {
			return nil, errors.Errorf("matching %s: %w", file.GetName(), err)
		}
		if !ok {
			return nil, errors.Errorf("%s is not a processor script", file.GetPath())
		}
		return []string{file.GetPath()}, nil
	}

	var out []string
	for _, entry := range dir {
		if entry.GetType() != "file" {
			continue
		}
		ok, err := doublestar.Match(ScriptPattern, entry.GetName())
		if err != nil {
			return nil, errors.Errorf("matching %s: %w", entry.GetName(), err)
		}
		if ok {
			out = append(out, entry.GetPath())
		}
	}
	return out, nil
}

// 📄 FetchScript downloads the script at path
func (p *Provider) FetchScript(ctx context.Context, spec remote.Spec, filePath string) (remote.Script, error) {
	file, _, _, err := p.client.Repositories.GetContents(ctx, spec.Owner, spec.Repo, filePath, contentOptions(spec))
	if err != nil {
		return remote.Script{}, errors.Errorf("getting file content: %w", err)
	}
	if file == nil {
		return remote.Script{}, errors.Errorf("%s is a directory", filePath)
	}

	data, err := file.GetContent()
	if err != nil {
		return remote.Script{}, errors.Errorf("decoding content: %w", err)
	}

	return remote.Script{
		Path:      file.GetPath(),
		Name:      path.Base(file.GetPath()),
		Source:    []byte(data),
		Permalink: Permalink(spec, file.GetPath()),
	}, nil
}

// 🔗 Permalink returns a web link to a file at spec's ref
func Permalink(spec remote.Spec, filePath string) string {
	ref := spec.Ref
	if ref == "" {
		ref = "HEAD"
	}
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", spec.Owner, spec.Repo, ref, filePath)
}
