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
	"slices"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/procpad/pkg/prefs"
	"github.com/walteh/procpad/pkg/processor"
	"gitlab.com/tozd/go/errors"
)

// ProcessorsSection is the title of the dynamic processors section
const ProcessorsSection = "Processors"

// Trail is a path from the root of the forest
type Trail []int

// Address locates a row inside a section
type Address struct {
	Section int
	Row     int
}

// ItemKind tags an Item
type ItemKind int

const (
	ItemProcessor ItemKind = iota // Row of the processors section
	ItemNode                      // Static settings node
)

// 📦 Item is whatever lives at an address
type Item struct {
	Kind      ItemKind
	Processor *processor.Descriptor
	Node      *Node
}

// 🌳 Tree owns the processors and the settings forest. Descriptors live in
// one arena keyed by location; the derived views hold keys only.
type Tree struct {
	mu sync.Mutex

	pseudo *Node
	root   []*Node

	arena      map[string]*processor.Descriptor
	all        []string
	enabled    []string
	favourited []string

	selected *Address
	base     *prefs.Snapshot
}

// 🏭 New builds a tree over ds and the static sections. Enabled processors
// with a persisted order come first, ascending, then the rest in master order.
// base supplies persisted values the tree does not own.
func New(ctx context.Context, ds []*processor.Descriptor, sections []*Node, base *prefs.Snapshot) *Tree {
	pseudo := &Node{Name: ProcessorsSection, Kind: KindSection}

	t := &Tree{
		pseudo: pseudo,
		root:   append([]*Node{pseudo}, sections...),
		arena:  make(map[string]*processor.Descriptor, len(ds)),
		base:   base.Clone(),
	}

	for _, d := range ds {
		if _, ok := t.arena[d.ID()]; ok {
			continue
		}
		t.arena[d.ID()] = d
		t.all = append(t.all, d.ID())
		if d.IsEnabled() {
			t.enabled = append(t.enabled, d.ID())
		}
		if d.IsFavourited() {
			t.favourited = append(t.favourited, d.ID())
		}
	}

	sort.SliceStable(t.enabled, func(i, j int) bool {
		a, b := t.arena[t.enabled[i]].Order(), t.arena[t.enabled[j]].Order()
		if a == processor.NoOrder || b == processor.NoOrder {
			return a != processor.NoOrder && b == processor.NoOrder
		}
		return a < b
	})

	t.selectFirst(ctx)
	return t
}

// resolve returns the node list at trail
func (t *Tree) resolve(trail Trail) []*Node {
	list := t.root
	for depth, step := range trail {
		if step < 0 || step >= len(list) {
			panic(fmt.Sprintf("settings: trail %v: step %d out of range at depth %d", trail, step, depth))
		}
		if list[step] == t.pseudo {
			panic(fmt.Sprintf("settings: trail %v descends into the processors section", trail))
		}
		list = list[step].Children
	}
	return list
}

// Valid reports whether trail resolves to a node list
func (t *Tree) Valid(trail Trail) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := t.root
	for _, step := range trail {
		if step < 0 || step >= len(list) || list[step] == t.pseudo {
			return false
		}
		list = list[step].Children
	}
	return true
}

// rows returns the static rows of section in list
func rows(list []*Node, section int, trail Trail) []*Node {
	if !isSections(list) {
		if section != 0 {
			panic(fmt.Sprintf("settings: trail %v is a flat list, section %d does not exist", trail, section))
		}
		return list
	}
	if section < 0 || section >= len(list) {
		panic(fmt.Sprintf("settings: trail %v: section %d out of range", trail, section))
	}
	return list[section].Children
}

func isProcessors(section int, trail Trail) bool {
	return len(trail) == 0 && section == 0
}

// NumberOfSections returns the number of sections at trail
func (t *Tree) NumberOfSections(trail Trail) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := t.resolve(trail)
	if !isSections(list) {
		return 1
	}
	return len(list)
}

// NumberOfRows returns the number of rows of section at trail
func (t *Tree) NumberOfRows(section int, trail Trail) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if isProcessors(section, trail) {
		return len(t.enabled)
	}
	return len(rows(t.resolve(trail), section, trail))
}

// Item returns the processor or node at (section, row) under trail
func (t *Tree) Item(section, row int, trail Trail) Item {
	t.mu.Lock()
	defer t.mu.Unlock()

	if isProcessors(section, trail) {
		if row < 0 || row >= len(t.enabled) {
			panic(fmt.Sprintf("settings: processor row %d out of range", row))
		}
		return Item{Kind: ItemProcessor, Processor: t.arena[t.enabled[row]]}
	}

	list := rows(t.resolve(trail), section, trail)
	if row < 0 || row >= len(list) {
		panic(fmt.Sprintf("settings: trail %v section %d: row %d out of range", trail, section, row))
	}
	return Item{Kind: ItemNode, Node: list[row]}
}

// Header returns the title of section, if the list at trail has titled sections
func (t *Tree) Header(section int, trail Trail) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := t.resolve(trail)
	if !isSections(list) {
		return "", false
	}
	if section < 0 || section >= len(list) {
		panic(fmt.Sprintf("settings: trail %v: section %d out of range", trail, section))
	}
	return list[section].Name, true
}

// Descend returns the trail that shows the children of the node at
// (section, row). Leaves and processors cannot be descended into.
func (t *Tree) Descend(trail Trail, section, row int) (Trail, bool) {
	item := t.Item(section, row, trail)

	switch item.Kind {
	case ItemProcessor:
		return nil, false
	case ItemNode:
		if len(item.Node.Children) == 0 {
			return nil, false
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := slices.Clone(trail)
	if isSections(t.resolve(trail)) {
		next = append(next, section, row)
	} else {
		next = append(next, row)
	}
	return next, true
}

// Selected returns the address of the selected processor
func (t *Tree) Selected() (Address, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.selected == nil {
		return Address{}, false
	}
	return *t.selected, true
}

// Select selects the enabled processor at row
func (t *Tree) Select(row int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if row < 0 || row >= len(t.enabled) {
		panic(fmt.Sprintf("settings: cannot select processor row %d of %d", row, len(t.enabled)))
	}
	t.selected = &Address{Section: 0, Row: row}
}

// ActiveProcessor returns the selected processor
func (t *Tree) ActiveProcessor() (*processor.Descriptor, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.selected == nil {
		return nil, false
	}
	return t.arena[t.enabled[t.selected.Row]], true
}

func (t *Tree) selectFirst(ctx context.Context) {
	if len(t.enabled) == 0 {
		t.selected = nil
		zerolog.Ctx(ctx).Warn().Msg("no enabled processors to select")
		return
	}
	t.selected = &Address{Section: 0, Row: 0}
}

// Processors returns every processor in master order
func (t *Tree) Processors() []*processor.Descriptor {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view(t.all)
}

// Enabled returns the enabled processors in display order
func (t *Tree) Enabled() []*processor.Descriptor {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view(t.enabled)
}

// Favourited returns the favourited processors
func (t *Tree) Favourited() []*processor.Descriptor {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view(t.favourited)
}

func (t *Tree) view(ids []string) []*processor.Descriptor {
	out := make([]*processor.Descriptor, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.arena[id])
	}
	return out
}

// Lookup returns the processor with the given location
func (t *Tree) Lookup(id string) (*processor.Descriptor, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.arena[id]
	return d, ok
}

func (t *Tree) get(id string) (*processor.Descriptor, error) {
	d, ok := t.arena[id]
	if !ok {
		return nil, errors.Errorf("%s: %w", id, processor.ErrNotFound)
	}
	return d, nil
}

// ➕ Add appends d to the master list and to the views its flags select.
// Adding a processor that is already present does nothing.
func (t *Tree) Add(ctx context.Context, d *processor.Descriptor) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.arena[d.ID()]; ok {
		return
	}

	zerolog.Ctx(ctx).Debug().Str("processor", d.ID()).Msg("adding processor to tree")

	t.arena[d.ID()] = d
	t.all = append(t.all, d.ID())
	if d.IsEnabled() {
		t.appendEnabled(ctx, d.ID())
	}
	if d.IsFavourited() {
		t.favourited = append(t.favourited, d.ID())
	}
}

// ➖ Remove drops d from every list it is in. Selection follows the selected
// processor: removing an enabled row above it lowers the selected row index
// by one, and removing the selected processor selects the first enabled one.
func (t *Tree) Remove(ctx context.Context, d *processor.Descriptor) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := d.ID()
	zerolog.Ctx(ctx).Debug().Str("processor", id).Msg("removing processor from tree")

	if i := slices.Index(t.enabled, id); i >= 0 {
		t.removeEnabled(ctx, i)
	}
	if i := slices.Index(t.favourited, id); i >= 0 {
		t.favourited = slices.Delete(t.favourited, i, i+1)
	}
	if i := slices.Index(t.all, id); i >= 0 {
		t.all = slices.Delete(t.all, i, i+1)
	}
	delete(t.arena, id)
}

// SetEnabled enables or disables a processor
func (t *Tree) SetEnabled(ctx context.Context, id string, enabled bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	d, err := t.get(id)
	if err != nil {
		return err
	}
	d.SetEnabled(enabled)

	i := slices.Index(t.enabled, id)
	switch {
	case enabled && i < 0:
		t.appendEnabled(ctx, id)
	case !enabled && i >= 0:
		t.removeEnabled(ctx, i)
		d.SetOrder(processor.NoOrder)
	}
	return nil
}

// SetFavourited adds or removes a processor from the favourites
func (t *Tree) SetFavourited(ctx context.Context, id string, favourited bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	d, err := t.get(id)
	if err != nil {
		return err
	}
	d.SetFavourited(favourited)

	i := slices.Index(t.favourited, id)
	switch {
	case favourited && i < 0:
		t.favourited = append(t.favourited, id)
	case !favourited && i >= 0:
		t.favourited = slices.Delete(t.favourited, i, i+1)
	}
	return nil
}

// 🔀 Move moves the enabled processor at row from to row to. The selection
// follows the processor it points at.
func (t *Tree) Move(ctx context.Context, from, to int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.enabled)
	if from < 0 || from >= n || to < 0 || to >= n {
		panic(fmt.Sprintf("settings: cannot move row %d to %d of %d", from, to, n))
	}
	if from == to {
		return
	}

	zerolog.Ctx(ctx).Debug().Int("from", from).Int("to", to).Msg("moving processor")

	id := t.enabled[from]
	t.enabled = slices.Delete(t.enabled, from, from+1)
	t.enabled = slices.Insert(t.enabled, to, id)
	t.renumber()

	if t.selected == nil {
		return
	}
	sel := t.selected.Row
	switch {
	case sel == from:
		sel = to
	case from < sel && sel <= to:
		sel--
	case to <= sel && sel < from:
		sel++
	}
	t.selected = &Address{Section: 0, Row: sel}
}

// Rename sets the display name of a processor
func (t *Tree) Rename(id, name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	d, err := t.get(id)
	if err != nil {
		return err
	}
	d.SetName(name)
	return nil
}

// SetOptionOverride stores literal for an option of a processor; nil
// restores the default
func (t *Tree) SetOptionOverride(ctx context.Context, id, option string, literal *string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	d, err := t.get(id)
	if err != nil {
		return err
	}
	return d.SetOptionOverride(ctx, option, literal)
}

func (t *Tree) appendEnabled(ctx context.Context, id string) {
	t.enabled = append(t.enabled, id)
	t.renumber()
	if t.selected == nil {
		t.selectFirst(ctx)
	}
}

// removeEnabled drops row i, keeping the selection on the same processor or
// resetting it to the first when the selected one goes away
func (t *Tree) removeEnabled(ctx context.Context, i int) {
	t.enabled = slices.Delete(t.enabled, i, i+1)
	t.renumber()

	if t.selected == nil {
		return
	}
	switch {
	case t.selected.Row == i:
		t.selectFirst(ctx)
	case t.selected.Row > i:
		t.selected = &Address{Section: 0, Row: t.selected.Row - 1}
	}
}

// renumber persists the display order of the enabled processors
func (t *Tree) renumber() {
	for i, id := range t.enabled {
		t.arena[id].SetOrder(i)
	}
}

// 📸 Snapshot captures the tree as persisted preferences. Options that were
// never loaded keep their persisted values.
func (t *Tree) Snapshot() *prefs.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := prefs.NewSnapshot()
	for _, id := range t.all {
		d := t.arena[id]

		p, _ := t.base.Processor(d.Filename())
		enabled := d.IsEnabled()
		p.IsEnabled = &enabled
		p.IsFavourited = d.IsFavourited()
		p.Order = nil
		if o := d.Order(); o != processor.NoOrder {
			p.Order = &o
		}
		if d.HasCustomName() {
			p.Name = d.Name()
		}
		if opts, ok := d.CachedOptions(); ok {
			p.Options = nil
			for _, o := range opts {
				if o.Override == nil {
					continue
				}
				if p.Options == nil {
					p.Options = map[string]string{}
				}
				p.Options[o.Name] = *o.Override
			}
		}

		out.Processors[d.Filename()] = p
	}
	return out
}
