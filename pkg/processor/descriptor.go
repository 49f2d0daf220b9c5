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
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/procpad/pkg/engine"
	"github.com/walteh/procpad/pkg/signature"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/unicode/norm"
)

// 📊 Kind tells where a processor script came from
type Kind int

const (
	BuiltIn   Kind = iota // Bundled with the app, read-only
	UserAdded             // Imported into the writable directory
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case BuiltIn:
		return "built-in"
	case UserAdded:
		return "user"
	default:
		return "unknown"
	}
}

// NoOrder marks a processor without a persisted position
const NoOrder = -1

// program is an evaluated script and its entry point
type program struct {
	handle engine.Handle
	fn     engine.Callable
}

// 📄 Descriptor is one processor script and its lazily computed metadata
type Descriptor struct {
	catalog  *Catalog
	location string
	kind     Kind

	mu           sync.Mutex
	isEnabled    bool
	isFavourited bool
	order        int
	externalName *string
	name         *string

	hasOptions memo[bool]
	program    memo[program]
	options    memo[[]Option]
}

func newDescriptor(c *Catalog, location string, kind Kind) *Descriptor {
	return &Descriptor{
		catalog:   c,
		location:  location,
		kind:      kind,
		isEnabled: true,
		order:     NoOrder,
	}
}

// ID is the identity of the processor: its script location
func (d *Descriptor) ID() string {
	return d.location
}

// Location returns the script path
func (d *Descriptor) Location() string {
	return d.location
}

// Filename returns the script's base name, the key of its preferences
func (d *Descriptor) Filename() string {
	return filepath.Base(d.location)
}

// Kind returns where the script came from
func (d *Descriptor) Kind() Kind {
	return d.kind
}

// Equal reports whether both descriptors point at the same script location
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.location == other.location
}

// 🏷️ Name resolves the display name: an in-memory name, then the persisted
// name, then one derived from the filename. The first resolution is cached for
// the life of the descriptor.
func (d *Descriptor) Name() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.name == nil {
		n := d.resolveName()
		d.name = &n
	}
	return *d.name
}

func (d *Descriptor) resolveName() string {
	if d.externalName != nil {
		return *d.externalName
	}
	if p, ok := d.catalog.Preferences().Processor(d.Filename()); ok && p.Name != "" {
		return p.Name
	}
	return DerivedName(d.Filename())
}

// SetName renames the processor for the rest of the session
func (d *Descriptor) SetName(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.externalName = &name
	d.name = &name
}

// HasCustomName reports whether a name was set in memory
func (d *Descriptor) HasCustomName() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.externalName != nil
}

// DerivedName builds a display name from a script filename
func DerivedName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return norm.NFC.String(strings.ReplaceAll(base, "-", " "))
}

func (d *Descriptor) IsEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.isEnabled
}

func (d *Descriptor) SetEnabled(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.isEnabled = v
}

func (d *Descriptor) IsFavourited() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.isFavourited
}

func (d *Descriptor) SetFavourited(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.isFavourited = v
}

// Order returns the persisted position among enabled processors, or NoOrder
func (d *Descriptor) Order() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.order
}

func (d *Descriptor) SetOrder(v int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.order = v
}

// 🔍 HasOptions reports whether the script's process declaration takes options.
// Computed once by a streaming line scan.
func (d *Descriptor) HasOptions() bool {
	v, _ := d.hasOptions.get(func() (bool, error) {
		return signature.HasOptionsFile(d.location), nil
	})
	return v
}

// entryPoint evaluates the script once and returns its process function
func (d *Descriptor) entryPoint(ctx context.Context) (program, error) {
	return d.program.get(func() (program, error) {
		zerolog.Ctx(ctx).Debug().Str("processor", d.location).Msg("loading script")

		source, err := os.ReadFile(d.location)
		if err != nil {
			return program{}, errors.Errorf("reading script: %w", err)
		}

		h, err := d.catalog.engine.Evaluate(ctx, d.Filename(), string(source))
		if err != nil {
			return program{}, err
		}

		fn, err := engine.EntryPointOf(h)
		if err != nil {
			return program{}, errors.Errorf("loading %s: %w", d.Filename(), err)
		}

		return program{handle: h, fn: fn}, nil
	})
}

// RawFunctionSource returns the engine's serialization of the process function
func (d *Descriptor) RawFunctionSource(ctx context.Context) (string, error) {
	p, err := d.entryPoint(ctx)
	if err != nil {
		return "", err
	}
	return p.fn.Source(), nil
}

// 📋 Options returns the processor's options with their stored overrides
func (d *Descriptor) Options(ctx context.Context) ([]Option, error) {
	opts, err := d.options.get(func() ([]Option, error) {
		return LoadOptions(ctx, d, d.catalog.Preferences())
	})
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return cloneOptions(opts), nil
}

// CachedOptions returns the options if they were already loaded
func (d *Descriptor) CachedOptions() ([]Option, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	opts, ok := d.options.peek()
	if !ok {
		return nil, false
	}
	return cloneOptions(opts), true
}

// ✏️ SetOptionOverride stores literal as the value of the named option; nil
// restores the script default
func (d *Descriptor) SetOptionOverride(ctx context.Context, name string, literal *string) error {
	if _, err := d.Options(ctx); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.options.value {
		if d.options.value[i].Name != name {
			continue
		}
		var stored *string
		if literal != nil {
			v := *literal
			stored = &v
		}
		d.options.value[i].Override = stored
		return nil
	}

	return errors.Errorf("processor %s has no option %q", d.Filename(), name)
}

// ▶️ Process runs the script over text, passing each option's override, or
// leaving it undefined so the script default applies
func (d *Descriptor) Process(ctx context.Context, text string) (string, error) {
	p, err := d.entryPoint(ctx)
	if err != nil {
		return "", err
	}

	opts, err := d.Options(ctx)
	if err != nil {
		return "", err
	}

	args := make([]engine.Value, len(opts))
	for i, opt := range opts {
		if opt.Override == nil {
			continue
		}
		v, err := p.handle.EvaluateLiteral(ctx, *opt.Override)
		if err != nil {
			return "", errors.Errorf("option %s: %w", opt.Name, err)
		}
		args[i] = v
	}

	return p.fn.Call(ctx, text, args...)
}
