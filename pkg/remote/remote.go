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

// Package remote fetches processor scripts from hosted repositories.
package remote

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📦 Spec addresses a directory or script inside a repository
type Spec struct {
	Owner string // Repository owner
	Repo  string // Repository name
	Path  string // Directory or script path, empty for the root
	Ref   string // Branch, tag or commit, empty for the default branch
}

// 🔍 ParseSpec parses owner/repo[/path][@ref]. A leading host such as
// github.com/ or https://github.com/ is ignored.
func ParseSpec(s string) (Spec, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "https://")
	raw = strings.TrimPrefix(raw, "http://")
	raw = strings.TrimPrefix(raw, "github.com/")

	var spec Spec
	if at := strings.LastIndex(raw, "@"); at >= 0 {
		spec.Ref = raw[at+1:]
		raw = raw[:at]
		if spec.Ref == "" {
			return Spec{}, errors.Errorf("invalid repository spec %q: empty ref", s)
		}
	}

	parts := strings.SplitN(strings.Trim(raw, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Spec{}, errors.Errorf("invalid repository spec %q: want owner/repo[/path][@ref]", s)
	}

	spec.Owner = parts[0]
	spec.Repo = strings.TrimSuffix(parts[1], ".git")
	if len(parts) == 3 {
		spec.Path = strings.Trim(parts[2], "/")
	}
	return spec, nil
}

// String returns the spec in owner/repo[/path][@ref] form
func (s Spec) String() string {
	out := s.Owner + "/" + s.Repo
	if s.Path != "" {
		out += "/" + s.Path
	}
	if s.Ref != "" {
		out += "@" + s.Ref
	}
	return out
}

// 📄 Script is a fetched processor script
type Script struct {
	Path      string // Path inside the repository
	Name      string // Base filename
	Source    []byte // Script contents
	Permalink string // Web link to the script
}

// 🔌 Provider lists and fetches scripts from a hosting service
type Provider interface {
	// Name returns the name of the provider (e.g. "github")
	Name() string
	// ListScripts returns the paths of the scripts at spec
	ListScripts(ctx context.Context, spec Spec) ([]string, error)
	// FetchScript downloads one script
	FetchScript(ctx context.Context, spec Spec, path string) (Script, error)
}

// 🏭 Factory creates a provider authenticated with token, which may be empty
type Factory func(ctx context.Context, token string) (Provider, error)

var (
	// 🗺️ providers is a map of provider names to factories
	providers = make(map[string]Factory)
)

// 📝 Register registers a provider factory
func Register(name string, factory Factory) {
	providers[name] = factory
}

// 🎯 Get returns a provider factory by name
func Get(name string) (Factory, error) {
	f, ok := providers[name]
	if !ok {
		options := make([]string, 0, len(providers))
		for k := range providers {
			options = append(options, k)
		}
		sort.Strings(options)
		return nil, errors.Errorf("provider %s not found, options: %s", name, strings.Join(options, ", "))
	}
	return f, nil
}

// 📥 FetchAll lists the scripts at spec and downloads each of them
func FetchAll(ctx context.Context, p Provider, spec Spec) ([]Script, error) {
	paths, err := p.ListScripts(ctx, spec)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no scripts found at %s", describe(p, spec))
	}

	out := make([]Script, 0, len(paths))
	for _, path := range paths {
		s, err := p.FetchScript(ctx, spec, path)
		if err != nil {
			return nil, errors.Errorf("fetching %s from %s: %w", path, describe(p, spec), err)
		}
		out = append(out, s)
	}
	return out, nil
}

// describe names a provider location in messages
func describe(p Provider, spec Spec) string {
	return fmt.Sprintf("%s:%s", p.Name(), spec)
}
