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

package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"github.com/walteh/procpad/pkg/engine"
	"github.com/walteh/procpad/pkg/prefs"
	"github.com/walteh/procpad/pkg/signature"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// ScriptPattern matches processor scripts inside a directory
const ScriptPattern = "*.js"

const defaultCacheSize = 256

// ErrBuiltIn is returned when removing a bundled processor
var ErrBuiltIn = errors.Base("built-in processors cannot be removed")

// ErrNotFound is returned when no processor matches a lookup key
var ErrNotFound = errors.Base("processor not found")

// 🔧 Options contains configuration for the catalog
type Options struct {
	// BundledDir holds the read-only built-in scripts
	BundledDir string
	// ScriptsDir is the writable directory for imported scripts
	ScriptsDir string
	// Engine evaluates scripts
	Engine engine.Engine
	// Preferences is the persisted state applied to enumerated processors
	Preferences *prefs.Snapshot
	// CacheSize bounds the scanned-signature cache
	CacheSize int
}

// 📚 Catalog enumerates, imports and removes processor scripts
type Catalog struct {
	bundledDir string
	scriptsDir string
	engine     engine.Engine

	mu          sync.RWMutex
	preferences *prefs.Snapshot

	signatures *lru.Cache[string, []signature.Option]
}

// 🏭 NewCatalog creates a catalog with the given options
func NewCatalog(opts Options) (*Catalog, error) {
	if opts.Engine == nil {
		return nil, errors.Errorf("engine is required")
	}
	if opts.ScriptsDir == "" {
		return nil, errors.Errorf("scripts directory is required")
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}

	cache, err := lru.New[string, []signature.Option](opts.CacheSize)
	if err != nil {
		return nil, errors.Errorf("creating signature cache: %w", err)
	}

	p := opts.Preferences
	if p == nil {
		p = prefs.NewSnapshot()
	}

	return &Catalog{
		bundledDir:  opts.BundledDir,
		scriptsDir:  opts.ScriptsDir,
		engine:      opts.Engine,
		preferences: p,
		signatures:  cache,
	}, nil
}

// Preferences returns the snapshot used for name and option resolution
func (c *Catalog) Preferences() *prefs.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.preferences
}

// SetPreferences replaces the snapshot used by descriptors not yet resolved
func (c *Catalog) SetPreferences(p *prefs.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preferences = p
}

// scan runs the signature scanner, sharing results between identical sources
func (c *Catalog) scan(source string) []signature.Option {
	if opts, ok := c.signatures.Get(source); ok {
		return opts
	}
	opts := signature.Scan(source)
	c.signatures.Add(source, opts)
	return opts
}

// 🔍 FindAll enumerates bundled processors then user-added ones, each group
// sorted by filename, with persisted flags applied. A writable directory that
// cannot be read yields no user-added processors.
func (c *Catalog) FindAll(ctx context.Context) ([]*Descriptor, error) {
	logger := zerolog.Ctx(ctx)

	var out []*Descriptor

	if c.bundledDir != "" {
		bundled, err := listScripts(c.bundledDir)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Errorf("listing bundled processors: %w", err)
		}
		if err != nil {
			logger.Warn().Str("dir", c.bundledDir).Msg("bundled processor directory missing")
		}
		for _, path := range bundled {
			out = append(out, c.describe(path, BuiltIn))
		}
	}

	added, err := listScripts(c.scriptsDir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn().Err(err).Str("dir", c.scriptsDir).Msg("user processors unavailable")
		}
		added = nil
	}
	for _, path := range added {
		out = append(out, c.describe(path, UserAdded))
	}

	logger.Debug().Int("processors", len(out)).Msg("enumerated processors")
	return out, nil
}

// describe creates a descriptor with persisted flags applied
func (c *Catalog) describe(path string, kind Kind) *Descriptor {
	d := newDescriptor(c, path, kind)
	if p, ok := c.Preferences().Processor(d.Filename()); ok {
		d.isEnabled = p.Enabled()
		d.isFavourited = p.IsFavourited
		if p.Order != nil {
			d.order = *p.Order
		}
	}
	return d
}

// listScripts returns the absolute paths of the scripts in dir, sorted
func listScripts(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), ScriptPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("globbing %s: %w", dir, err)
	}
	sort.Strings(matches)

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Errorf("resolving %s: %w", dir, err)
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, filepath.Join(abs, filepath.FromSlash(m)))
	}
	return out, nil
}

// 📥 Import validates source and copies it into the writable directory. The
// script must expose a process function taking at least one parameter.
func (c *Catalog) Import(ctx context.Context, filename string, source []byte) (*Descriptor, error) {
	filename = filepath.Base(filename)
	if filepath.Ext(filename) != ".js" {
		filename += ".js"
	}

	zerolog.Ctx(ctx).Debug().Str("script", filename).Msg("importing processor")

	h, err := c.engine.Evaluate(ctx, filename, string(source))
	if err != nil {
		return nil, errors.Errorf("rejecting %s: %w", filename, err)
	}
	if _, err := engine.EntryPointOf(h); err != nil {
		return nil, errors.Errorf("rejecting %s: %w", filename, err)
	}

	if err := os.MkdirAll(c.scriptsDir, 0o755); err != nil {
		return nil, errors.Errorf("creating scripts directory: %w", err)
	}

	path, err := c.writeUnique(filename, source)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving %s: %w", path, err)
	}

	d := newDescriptor(c, abs, UserAdded)
	d.SetName(DerivedName(filename))
	return d, nil
}

// ImportFile imports the script at path
func (c *Catalog) ImportFile(ctx context.Context, path string) (*Descriptor, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	return c.Import(ctx, filepath.Base(path), source)
}

// writeUnique writes source under filename, or filename with a numeric suffix
// when a bundled or imported script already uses it
func (c *Catalog) writeUnique(filename string, source []byte) (string, error) {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	for i := 1; ; i++ {
		candidate := filename
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
		}

		if c.bundledDir != "" {
			if _, err := os.Stat(filepath.Join(c.bundledDir, candidate)); err == nil {
				continue
			}
		}

		path := filepath.Join(c.scriptsDir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", errors.Errorf("creating %s: %w", path, err)
		}

		if _, err := f.Write(source); err != nil {
			f.Close()
			os.Remove(path)
			return "", errors.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", errors.Errorf("closing %s: %w", path, err)
		}
		return path, nil
	}
}

// 🗑️ Remove deletes an imported script. Built-in processors are only ever disabled.
func (c *Catalog) Remove(ctx context.Context, d *Descriptor) error {
	if d.Kind() == BuiltIn {
		return errors.WithStack(ErrBuiltIn)
	}

	zerolog.Ctx(ctx).Debug().Str("processor", d.Location()).Msg("removing processor")

	if err := os.Remove(d.Location()); err != nil {
		return errors.Errorf("removing %s: %w", d.Filename(), err)
	}
	return nil
}

// ⚡ Preload computes HasOptions for every descriptor, at most limit at a time
func Preload(ctx context.Context, ds []*Descriptor, limit int) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, d := range ds {
		d := d
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d.HasOptions()
			return nil
		})
	}

	return g.Wait()
}

// 🔍 Find returns the processor whose filename, filename stem, or display name
// matches key. Display names match case-insensitively.
func Find(ds []*Descriptor, key string) (*Descriptor, error) {
	for _, d := range ds {
		name := d.Filename()
		if name == key || strings.TrimSuffix(name, filepath.Ext(name)) == key {
			return d, nil
		}
	}
	for _, d := range ds {
		if strings.EqualFold(d.Name(), key) {
			return d, nil
		}
	}
	return nil, errors.Errorf("%q: %w", key, ErrNotFound)
}
