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

package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/procpad/pkg/engine"
	"github.com/walteh/procpad/pkg/prefs"
	"github.com/walteh/procpad/pkg/processor"
)

const script = "function process(text) { return text; }\n"

const optionScript = "var process = function(text, mode = \"upper\") { return text; }\n"

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(os.Stderr).Level(zerolog.Disabled).WithContext(context.Background())
}

// processors writes one script per name and enumerates them
func processors(t *testing.T, snap *prefs.Snapshot, names ...string) []*processor.Descriptor {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".js"), []byte(script), 0o644), "writing script")
	}

	c, err := processor.NewCatalog(processor.Options{
		BundledDir:  dir,
		ScriptsDir:  filepath.Join(dir, "user"),
		Engine:      engine.NewGoja(),
		Preferences: snap,
	})
	require.NoError(t, err, "creating catalog")

	ds, err := c.FindAll(testContext(t))
	require.NoError(t, err, "enumerating processors")
	require.Len(t, ds, len(names), "every script enumerated")
	return ds
}

func filenames(ds []*processor.Descriptor) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Filename())
	}
	return out
}

func forest() []*Node {
	return []*Node{
		{
			Name: "General",
			Kind: KindSection,
			Children: []*Node{
				{Name: "About", Kind: KindAbout},
				{Name: "Manage", Kind: KindManager},
			},
		},
		{
			Name: "Advanced",
			Kind: KindSection,
			Children: []*Node{
				{
					Name: "Scripts",
					Kind: KindSection,
					Children: []*Node{
						{Name: "Docs", Kind: KindWebpage, Payload: "https://example.com"},
					},
				},
				{
					Name: "Storage",
					Kind: KindSection,
					Children: []*Node{
						{Name: "Location", Kind: KindText, Payload: "~/.config"},
						{Name: "Backups", Kind: KindText, Payload: "none"},
					},
				},
			},
		},
		{
			Name: "Mixed",
			Kind: KindSection,
			Children: []*Node{
				{Name: "Intro", Kind: KindText, Payload: "hi"},
				{Name: "Later", Kind: KindSection, Children: []*Node{{Name: "Deep", Kind: KindAbout}}},
			},
		},
	}
}

func TestTreeAddressing(t *testing.T) {
	ctx := testContext(t)
	tree := New(ctx, processors(t, nil, "a", "b", "c"), forest(), nil)

	assert.Equal(t, 4, tree.NumberOfSections(nil), "processors plus three sections")
	assert.Equal(t, 3, tree.NumberOfRows(0, nil), "enabled processors")
	assert.Equal(t, 2, tree.NumberOfRows(1, nil), "general rows")

	header, ok := tree.Header(0, nil)
	assert.True(t, ok, "root sections have headers")
	assert.Equal(t, ProcessorsSection, header, "pseudo-section title")

	item := tree.Item(0, 1, nil)
	require.Equal(t, ItemProcessor, item.Kind, "processors section yields processors")
	assert.Equal(t, "b.js", item.Processor.Filename(), "second enabled processor")

	item = tree.Item(1, 1, nil)
	require.Equal(t, ItemNode, item.Kind, "static rows yield nodes")
	assert.Equal(t, KindManager, item.Node.Kind, "manager leaf")

	_, ok = tree.Descend(nil, 1, 0)
	assert.False(t, ok, "leaves cannot be descended into")
	_, ok = tree.Descend(nil, 0, 0)
	assert.False(t, ok, "processors cannot be descended into")

	// Advanced lists nested sections
	advanced, ok := tree.Descend(nil, 0, 2)
	assert.False(t, ok, "row 2 of the processors is a processor")
	assert.Nil(t, advanced, "no trail for processors")

	advanced = Trail{2}
	assert.Equal(t, 2, tree.NumberOfSections(advanced), "nested sections")
	header, ok = tree.Header(1, advanced)
	assert.True(t, ok, "nested sections have headers")
	assert.Equal(t, "Storage", header, "nested header")
	assert.Equal(t, 2, tree.NumberOfRows(1, advanced), "storage rows")
	assert.Equal(t, "Backups", tree.Item(1, 1, advanced).Node.Name, "nested leaf")
	assert.Equal(t, 1, tree.NumberOfRows(0, advanced), "section zero below the root is static")

	// Mixed has a leaf first, so it is one flat list
	mixed := Trail{3}
	assert.Equal(t, 1, tree.NumberOfSections(mixed), "first node decides: flat")
	_, ok = tree.Header(0, mixed)
	assert.False(t, ok, "flat lists have no header")
	assert.Equal(t, 2, tree.NumberOfRows(0, mixed), "both nodes are rows")

	deeper, ok := tree.Descend(mixed, 0, 1)
	require.True(t, ok, "section rows can be descended into")
	assert.Equal(t, Trail{3, 1}, deeper, "flat lists add one step")
	assert.Equal(t, "Deep", tree.Item(0, 0, deeper).Node.Name, "descended rows")
}

func TestTreeDescendThroughSections(t *testing.T) {
	ctx := testContext(t)
	sections := []*Node{
		{
			Name: "Outer",
			Kind: KindSection,
			Children: []*Node{
				{Name: "Inner", Kind: KindSection, Children: []*Node{{Name: "Leaf", Kind: KindAbout}}},
			},
		},
	}
	tree := New(ctx, nil, sections, nil)

	trail, ok := tree.Descend(nil, 1, 0)
	require.True(t, ok, "inner section has children")
	assert.Equal(t, Trail{1, 0}, trail, "section lists add section and row")
	assert.Equal(t, 1, tree.NumberOfSections(trail), "leaf list is flat")
	assert.Equal(t, "Leaf", tree.Item(0, 0, trail).Node.Name, "leaf reached")
}

func TestTreeAddressingPanics(t *testing.T) {
	ctx := testContext(t)
	tree := New(ctx, processors(t, nil, "a"), forest(), nil)

	tests := []struct {
		name string
		call func()
	}{
		{name: "trail_out_of_range", call: func() { tree.NumberOfSections(Trail{9}) }},
		{name: "trail_into_processors", call: func() { tree.NumberOfSections(Trail{0}) }},
		{name: "section_out_of_range", call: func() { tree.NumberOfRows(7, nil) }},
		{name: "flat_list_section", call: func() { tree.NumberOfRows(1, Trail{3}) }},
		{name: "processor_row_out_of_range", call: func() { tree.Item(0, 5, nil) }},
		{name: "static_row_out_of_range", call: func() { tree.Item(1, 5, nil) }},
		{name: "select_out_of_range", call: func() { tree.Select(3) }},
		{name: "move_out_of_range", call: func() { tree.Move(ctx, 0, 4) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, tt.call, "invalid addresses panic")
		})
	}

	assert.True(t, tree.Valid(Trail{2, 1}), "nested trail resolves")
	assert.False(t, tree.Valid(Trail{0}), "processors section has no static children")
	assert.False(t, tree.Valid(Trail{9}), "out of range")
	assert.False(t, tree.Valid(Trail{-1}), "negative step")
}

func TestTreeRemoveSelection(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		selected int
		remove   int
		want     *Address
	}{
		{name: "only_enabled", names: []string{"a"}, selected: 0, remove: 0, want: nil},
		{name: "selected_resets_to_first", names: []string{"a", "b", "c"}, selected: 1, remove: 1, want: &Address{Row: 0}},
		{name: "first_selected_removed", names: []string{"a", "b", "c"}, selected: 0, remove: 0, want: &Address{Row: 0}},
		{name: "other_after_selected", names: []string{"a", "b", "c"}, selected: 1, remove: 2, want: &Address{Row: 1}},
		{name: "other_before_selected", names: []string{"a", "b", "c"}, selected: 2, remove: 0, want: &Address{Row: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			ds := processors(t, nil, tt.names...)
			tree := New(ctx, ds, nil, nil)
			tree.Select(tt.selected)

			var before *processor.Descriptor
			if tt.selected != tt.remove {
				before, _ = tree.ActiveProcessor()
			}

			tree.Remove(ctx, ds[tt.remove])

			got, ok := tree.Selected()
			if tt.want == nil {
				assert.False(t, ok, "selection should be empty")
				_, ok = tree.ActiveProcessor()
				assert.False(t, ok, "no active processor")
				return
			}
			require.True(t, ok, "selection should remain")
			assert.Equal(t, *tt.want, got, "selected address")

			if before != nil {
				after, _ := tree.ActiveProcessor()
				assert.True(t, before.Equal(after), "same processor stays selected")
			}
		})
	}
}

func TestTreeMoveSelection(t *testing.T) {
	tests := []struct {
		name     string
		selected int
		from     int
		to       int
		want     int
	}{
		{name: "selected_moves_down", selected: 1, from: 1, to: 3, want: 3},
		{name: "selected_moves_up", selected: 3, from: 3, to: 0, want: 0},
		{name: "other_crosses_downward", selected: 2, from: 0, to: 3, want: 1},
		{name: "other_crosses_upward", selected: 1, from: 3, to: 0, want: 2},
		{name: "other_lands_on_selected_from_above", selected: 2, from: 0, to: 2, want: 1},
		{name: "other_lands_on_selected_from_below", selected: 1, from: 3, to: 1, want: 2},
		{name: "other_does_not_cross", selected: 0, from: 2, to: 3, want: 0},
		{name: "no_move", selected: 2, from: 1, to: 1, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			tree := New(ctx, processors(t, nil, "a", "b", "c", "d"), nil, nil)
			tree.Select(tt.selected)
			active, _ := tree.ActiveProcessor()

			tree.Move(ctx, tt.from, tt.to)

			got, ok := tree.Selected()
			require.True(t, ok, "selection should remain")
			assert.Equal(t, tt.want, got.Row, "selected row")

			after, _ := tree.ActiveProcessor()
			assert.True(t, active.Equal(after), "selection follows the processor")
		})
	}
}

func TestTreeMoveRenumbers(t *testing.T) {
	ctx := testContext(t)
	tree := New(ctx, processors(t, nil, "a", "b", "c"), nil, nil)

	tree.Move(ctx, 2, 0)

	assert.Equal(t, []string{"c.js", "a.js", "b.js"}, filenames(tree.Enabled()), "display order")
	for i, d := range tree.Enabled() {
		assert.Equal(t, i, d.Order(), "%s order", d.Filename())
	}
	assert.Equal(t, []string{"a.js", "b.js", "c.js"}, filenames(tree.Processors()), "master order is unchanged")
}

func TestTreeAddRemoveRoundTrip(t *testing.T) {
	ctx := testContext(t)

	off := false
	snap := prefs.NewSnapshot()
	snap.Processors["b.js"] = prefs.Processor{IsEnabled: &off}
	snap.Processors["c.js"] = prefs.Processor{IsFavourited: true}
	ds := processors(t, snap, "a", "b", "c", "d")

	tree := New(ctx, ds[:3], forest(), nil)
	tree.Select(1)

	all, enabled, favourited := filenames(tree.Processors()), filenames(tree.Enabled()), filenames(tree.Favourited())
	rows := tree.NumberOfRows(0, nil)

	extra := ds[3]
	extra.SetFavourited(true)
	tree.Add(ctx, extra)
	assert.Len(t, tree.Processors(), 4, "added to master")
	assert.Len(t, tree.Enabled(), 3, "added to enabled")
	assert.Len(t, tree.Favourited(), 2, "added to favourites")

	tree.Add(ctx, extra)
	assert.Len(t, tree.Processors(), 4, "adding twice is a no-op")

	tree.Remove(ctx, extra)
	assert.Equal(t, all, filenames(tree.Processors()), "master restored")
	assert.Equal(t, enabled, filenames(tree.Enabled()), "enabled restored")
	assert.Equal(t, favourited, filenames(tree.Favourited()), "favourites restored")
	assert.Equal(t, rows, tree.NumberOfRows(0, nil), "row count restored")

	sel, ok := tree.Selected()
	require.True(t, ok, "selection kept")
	assert.Equal(t, 1, sel.Row, "selection untouched")
}

func TestTreeRemoveAbsentFromViews(t *testing.T) {
	ctx := testContext(t)

	off := false
	snap := prefs.NewSnapshot()
	snap.Processors["a.js"] = prefs.Processor{IsEnabled: &off}
	ds := processors(t, snap, "a", "b")

	tree := New(ctx, ds, nil, nil)
	tree.Remove(ctx, ds[0])

	assert.Equal(t, []string{"b.js"}, filenames(tree.Processors()), "removed from master")
	assert.Equal(t, []string{"b.js"}, filenames(tree.Enabled()), "enabled untouched")
	_, ok := tree.Lookup(ds[0].ID())
	assert.False(t, ok, "removed from arena")
}

func TestTreeEnabledOrder(t *testing.T) {
	ctx := testContext(t)

	snap := prefs.NewSnapshot()
	for name, order := range map[string]int{"c.js": 0, "a.js": 1} {
		o := order
		snap.Processors[name] = prefs.Processor{Order: &o}
	}
	tree := New(ctx, processors(t, snap, "a", "b", "c", "d"), nil, nil)

	assert.Equal(t, []string{"c.js", "a.js", "b.js", "d.js"}, filenames(tree.Enabled()), "ordered first, then master order")
}

func TestTreeSetEnabled(t *testing.T) {
	ctx := testContext(t)
	ds := processors(t, nil, "a", "b", "c")
	tree := New(ctx, ds, nil, nil)
	tree.Select(1)

	require.NoError(t, tree.SetEnabled(ctx, ds[1].ID(), false), "disabling")
	assert.Equal(t, []string{"a.js", "c.js"}, filenames(tree.Enabled()), "disabled is hidden")
	assert.False(t, ds[1].IsEnabled(), "flag is shared")
	sel, _ := tree.Selected()
	assert.Equal(t, 0, sel.Row, "disabling the selection resets it")

	require.NoError(t, tree.SetEnabled(ctx, ds[1].ID(), true), "enabling")
	assert.Equal(t, []string{"a.js", "c.js", "b.js"}, filenames(tree.Enabled()), "enabled processors are appended")
	assert.Equal(t, 2, ds[1].Order(), "appended order")

	require.NoError(t, tree.SetFavourited(ctx, ds[2].ID(), true), "favouriting")
	require.NoError(t, tree.SetFavourited(ctx, ds[2].ID(), true), "favouriting twice")
	assert.Equal(t, []string{"c.js"}, filenames(tree.Favourited()), "favourited once")
	require.NoError(t, tree.SetFavourited(ctx, ds[2].ID(), false), "unfavouriting")
	assert.Empty(t, tree.Favourited(), "no favourites")

	assert.Error(t, tree.SetEnabled(ctx, "/nowhere.js", true), "unknown processors are errors")
	assert.Error(t, tree.Rename("/nowhere.js", "x"), "unknown processors are errors")
}

func TestTreeSharedDescriptors(t *testing.T) {
	ctx := testContext(t)
	ds := processors(t, nil, "a")
	tree := New(ctx, ds, nil, nil)
	require.NoError(t, tree.SetFavourited(ctx, ds[0].ID(), true), "favouriting")

	require.NoError(t, tree.Rename(ds[0].ID(), "Alpha"), "renaming")

	assert.Equal(t, "Alpha", tree.Enabled()[0].Name(), "visible through enabled")
	assert.Equal(t, "Alpha", tree.Favourited()[0].Name(), "visible through favourites")
	assert.Equal(t, "Alpha", tree.Item(0, 0, nil).Processor.Name(), "visible through items")
}

func TestTreeSnapshot(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "case.js"), []byte(optionScript), 0o644), "writing script")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.js"), []byte(optionScript), 0o644), "writing script")

	base := prefs.NewSnapshot()
	base.Processors["keep.js"] = prefs.Processor{Name: "Kept", Options: map[string]string{"mode": `"lower"`}}

	c, err := processor.NewCatalog(processor.Options{
		BundledDir:  dir,
		ScriptsDir:  filepath.Join(dir, "user"),
		Engine:      engine.NewGoja(),
		Preferences: base,
	})
	require.NoError(t, err, "creating catalog")
	ds, err := c.FindAll(ctx)
	require.NoError(t, err, "enumerating")

	tree := New(ctx, ds, nil, base)
	lower := `"lower"`
	require.NoError(t, tree.SetOptionOverride(ctx, ds[0].ID(), "mode", &lower), "override")
	require.NoError(t, tree.Rename(ds[0].ID(), "Case"), "rename")
	require.NoError(t, tree.SetEnabled(ctx, ds[1].ID(), false), "disable")

	snap := tree.Snapshot()

	caseEntry := snap.Processors["case.js"]
	assert.Equal(t, "Case", caseEntry.Name, "custom name persisted")
	assert.Equal(t, map[string]string{"mode": `"lower"`}, caseEntry.Options, "override persisted")
	assert.True(t, caseEntry.Enabled(), "enabled persisted")
	require.NotNil(t, caseEntry.Order, "order persisted")
	assert.Equal(t, 0, *caseEntry.Order, "order value")

	keep := snap.Processors["keep.js"]
	assert.Equal(t, "Kept", keep.Name, "persisted name carried over")
	assert.Equal(t, map[string]string{"mode": `"lower"`}, keep.Options, "unloaded options carried over")
	assert.False(t, keep.Enabled(), "disabled persisted")
	assert.Nil(t, keep.Order, "disabled processors have no order")

	require.NoError(t, tree.SetOptionOverride(ctx, ds[0].ID(), "mode", nil), "clear override")
	assert.Nil(t, tree.Snapshot().Processors["case.js"].Options, "cleared overrides are dropped")
}

func ExampleTree_Descend() {
	ctx := context.Background()
	tree := New(ctx, nil, DefaultSections(), nil)

	for s := 0; s < tree.NumberOfSections(nil); s++ {
		header, _ := tree.Header(s, nil)
		fmt.Printf("%s: %d rows\n", header, tree.NumberOfRows(s, nil))
	}
	// Output:
	// Processors: 0 rows
	// General: 2 rows
	// Help: 2 rows
}
