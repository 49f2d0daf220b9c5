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

// Package prefs persists per-processor user preferences: display names,
// enabled and favourite flags, ordering, and option override literals.
package prefs

import (
	"context"
	"maps"
)

// ⚙️ Processor is the persisted state of one processor, keyed by script filename
type Processor struct {
	Name         string            `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	IsEnabled    *bool             `json:"is_enabled,omitempty" yaml:"is_enabled,omitempty" toml:"is_enabled,omitempty"`
	IsFavourited bool              `json:"is_favourited,omitempty" yaml:"is_favourited,omitempty" toml:"is_favourited,omitempty"`
	Order        *int              `json:"order,omitempty" yaml:"order,omitempty" toml:"order,omitempty"`
	Options      map[string]string `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
}

// Enabled reports the enabled flag; processors default to enabled
func (p Processor) Enabled() bool {
	return p.IsEnabled == nil || *p.IsEnabled
}

// 📚 Snapshot is the complete persisted preferences state
type Snapshot struct {
	Processors map[string]Processor `json:"processors" yaml:"processors" toml:"processors"`
}

// 🏭 NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{Processors: map[string]Processor{}}
}

// Processor returns the entry for filename
func (s *Snapshot) Processor(filename string) (Processor, bool) {
	if s == nil {
		return Processor{}, false
	}
	p, ok := s.Processors[filename]
	return p, ok
}

// Option returns the stored override literal of an option
func (s *Snapshot) Option(filename, option string) (string, bool) {
	p, ok := s.Processor(filename)
	if !ok {
		return "", false
	}
	v, ok := p.Options[option]
	return v, ok
}

// Clone returns a deep copy, safe to hand to a background writer
func (s *Snapshot) Clone() *Snapshot {
	out := NewSnapshot()
	if s == nil {
		return out
	}
	for k, p := range s.Processors {
		if p.IsEnabled != nil {
			v := *p.IsEnabled
			p.IsEnabled = &v
		}
		if p.Order != nil {
			v := *p.Order
			p.Order = &v
		}
		p.Options = maps.Clone(p.Options)
		out.Processors[k] = p
	}
	return out
}

// 💾 Store loads and saves snapshots
type Store interface {
	// Load reads the persisted snapshot; a store with nothing saved yields an empty one
	Load(ctx context.Context) (*Snapshot, error)
	// Save replaces the persisted snapshot
	Save(ctx context.Context, snap *Snapshot) error
}
