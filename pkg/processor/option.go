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

	"github.com/walteh/procpad/pkg/prefs"
	"github.com/walteh/procpad/pkg/signature"
)

// 🔧 Option is a configurable parameter of a processor
type Option struct {
	Name     string  // Parameter name
	Default  *string // Default-value expression from the signature
	Comment  *string // Comment from the signature
	Override *string // Stored literal, evaluated by the engine at call time
}

// Value returns the literal that will be passed for the option, and whether
// it is an override rather than the script's default
func (o Option) Value() (string, bool) {
	if o.Override != nil {
		return *o.Override, true
	}
	if o.Default != nil {
		return *o.Default, false
	}
	return "", false
}

// 🔍 LoadOptions computes the option list of d. Scripts whose declaration has
// no options never reach the engine or the scanner.
func LoadOptions(ctx context.Context, d *Descriptor, overrides *prefs.Snapshot) ([]Option, error) {
	if !d.HasOptions() {
		return []Option{}, nil
	}

	source, err := d.RawFunctionSource(ctx)
	if err != nil {
		return nil, err
	}

	out := fromSignature(d.catalog.scan(source))
	for i := range out {
		if v, ok := overrides.Option(d.Filename(), out[i].Name); ok {
			out[i].Override = &v
		}
	}

	return out, nil
}

func fromSignature(opts []signature.Option) []Option {
	out := make([]Option, 0, len(opts))
	for _, o := range opts {
		out = append(out, Option{Name: o.Name, Default: o.Default, Comment: o.Comment})
	}
	return out
}

func cloneOptions(opts []Option) []Option {
	out := make([]Option, len(opts))
	copy(out, opts)
	return out
}
