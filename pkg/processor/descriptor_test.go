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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/procpad/pkg/prefs"
)

func TestDerivedName(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{name: "dashes_become_spaces", filename: "sort-lines.js", want: "sort lines"},
		{name: "path_is_dropped", filename: "/tmp/x/trim.js", want: "trim"},
		{name: "decomposed_is_composed", filename: "cafe\u0301.js", want: "caf\u00e9"},
		{name: "no_extension", filename: "upper", want: "upper"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivedName(tt.filename), "derived name")
		})
	}
}

func TestDescriptorName(t *testing.T) {
	snap := prefs.NewSnapshot()
	snap.Processors["sort-lines.js"] = prefs.Processor{Name: "Sort"}
	c := &Catalog{preferences: snap}

	persisted := newDescriptor(c, "/p/sort-lines.js", BuiltIn)
	assert.Equal(t, "Sort", persisted.Name(), "persisted name wins over derived")

	derived := newDescriptor(c, "/p/trim-all.js", BuiltIn)
	assert.Equal(t, "trim all", derived.Name(), "derived when nothing is stored")

	c.SetPreferences(prefs.NewSnapshot())
	assert.Equal(t, "Sort", persisted.Name(), "first resolution is cached")

	persisted.SetName("Sorter")
	assert.Equal(t, "Sorter", persisted.Name(), "in-memory name wins")
	assert.True(t, persisted.HasCustomName(), "custom name recorded")
	assert.False(t, derived.HasCustomName(), "no custom name")
}

func TestDescriptorEqual(t *testing.T) {
	c := &Catalog{}
	a := newDescriptor(c, "/p/a.js", BuiltIn)
	same := newDescriptor(c, "/p/a.js", UserAdded)
	other := newDescriptor(c, "/q/a.js", BuiltIn)

	same.SetEnabled(false)

	assert.True(t, a.Equal(same), "same location is the same processor")
	assert.False(t, a.Equal(other), "same filename elsewhere is different")
	assert.False(t, a.Equal(nil), "nil is never equal")
	assert.Equal(t, "a.js", other.Filename(), "filename is the base name")
	assert.Equal(t, "user", UserAdded.String(), "kind string")
}
