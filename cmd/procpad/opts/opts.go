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

package opts

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/procpad/pkg/config"
	"github.com/walteh/procpad/pkg/log"
	"github.com/walteh/procpad/pkg/prefs"
	"github.com/walteh/procpad/pkg/processor"
	"github.com/walteh/procpad/pkg/settings"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands. It is filled in
// once flags are parsed, before any command runs.
type RootOpts struct {
	Config  *config.Config
	Store   prefs.Store
	Saver   *prefs.Saver
	Catalog *processor.Catalog
	Tree    *settings.Tree
	Logger  *log.Logger

	dirty bool
}

// Lookup finds a processor by filename, stem or display name
func (o *RootOpts) Lookup(key string) (*processor.Descriptor, error) {
	return processor.Find(o.Tree.Processors(), key)
}

// Persist queues the current tree state for saving
func (o *RootOpts) Persist() {
	o.Saver.Enqueue(o.Tree.Snapshot())
	o.dirty = true
}

// Flush waits for queued saves
func (o *RootOpts) Flush(ctx context.Context) error {
	if !o.dirty {
		return nil
	}
	if err := o.Saver.Flush(ctx); err != nil {
		return errors.Errorf("saving preferences: %w", err)
	}
	o.dirty = false
	return nil
}

// Close flushes and stops the saver
func (o *RootOpts) Close(ctx context.Context) error {
	if o == nil || o.Saver == nil {
		return nil
	}
	flushErr := o.Flush(ctx)
	closeErr := o.Saver.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Event describes a change to d for the console logger
func Event(d *processor.Descriptor, action string, detail ...string) log.ProcessorEvent {
	return log.ProcessorEvent{
		Filename:     d.Filename(),
		Name:         d.Name(),
		Kind:         d.Kind().String(),
		Action:       action,
		Detail:       strings.Join(detail, " "),
		IsEnabled:    d.IsEnabled(),
		IsFavourited: d.IsFavourited(),
	}
}

// Assignment formats an option assignment for display
func Assignment(name string, literal *string) string {
	if literal == nil {
		return fmt.Sprintf("%s = (default)", name)
	}
	return fmt.Sprintf("%s = %s", name, *literal)
}
