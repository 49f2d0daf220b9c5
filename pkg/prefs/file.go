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

package prefs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 💾 FileStore keeps the snapshot in a single file whose extension picks the codec
type FileStore struct {
	path  string
	codec Codec
}

var _ Store = (*FileStore)(nil)

// 🏭 NewFileStore creates a store for path
func NewFileStore(path string) (*FileStore, error) {
	codec := GetCodec(path)
	if codec == nil {
		return nil, errors.Errorf("no codec found for preferences file: %s", path)
	}
	return &FileStore{path: filepath.Clean(path), codec: codec}, nil
}

// Path returns the file backing the store
func (f *FileStore) Path() string {
	return f.path
}

// 📥 Load implements Store.Load
func (f *FileStore) Load(ctx context.Context) (*Snapshot, error) {
	zerolog.Ctx(ctx).Debug().Str("path", f.path).Msg("loading preferences")

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewSnapshot(), nil
		}
		return nil, errors.Errorf("reading preferences: %w", err)
	}

	snap := NewSnapshot()
	if len(bytes.TrimSpace(data)) == 0 {
		return snap, nil
	}
	if err := f.codec.Unmarshal(data, snap); err != nil {
		return nil, errors.Errorf("decoding preferences %s: %w", f.path, err)
	}
	if snap.Processors == nil {
		snap.Processors = map[string]Processor{}
	}

	return snap, nil
}

// 📤 Save implements Store.Save; the file is replaced atomically
func (f *FileStore) Save(ctx context.Context, snap *Snapshot) error {
	zerolog.Ctx(ctx).Debug().Str("path", f.path).Int("processors", len(snap.Processors)).Msg("saving preferences")

	data, err := f.codec.Marshal(snap)
	if err != nil {
		return errors.Errorf("encoding preferences: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Errorf("creating preferences directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errors.Errorf("replacing preferences: %w", err)
	}

	return nil
}
