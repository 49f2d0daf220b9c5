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
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Codec encodes snapshots in one file format
type Codec interface {
	// CanHandle checks if this codec can handle the given file
	CanHandle(filename string) bool
	Marshal(snap *Snapshot) ([]byte, error)
	Unmarshal(data []byte, snap *Snapshot) error
}

var (
	// 🗺️ codecs is a list of available codecs
	codecs []Codec
)

// 📝 Register registers a codec
func Register(c Codec) {
	codecs = append(codecs, c)
}

// 🎯 GetCodec returns a codec that can handle the given file
func GetCodec(filename string) Codec {
	for _, c := range codecs {
		if c.CanHandle(filename) {
			return c
		}
	}
	return nil
}

func init() {
	Register(&JSONCodec{})
	Register(&YAMLCodec{})
	Register(&TOMLCodec{})
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// 🔧 JSONCodec stores preferences as indented JSON
type JSONCodec struct{}

func (c *JSONCodec) CanHandle(filename string) bool {
	return hasExt(filename, ".json")
}

func (c *JSONCodec) Marshal(snap *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, errors.Errorf("encoding JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func (c *JSONCodec) Unmarshal(data []byte, snap *Snapshot) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(snap); err != nil {
		return errors.Errorf("parsing JSON: %w", err)
	}
	return nil
}

// 🔧 YAMLCodec stores preferences as YAML
type YAMLCodec struct{}

func (c *YAMLCodec) CanHandle(filename string) bool {
	return hasExt(filename, ".yaml", ".yml")
}

func (c *YAMLCodec) Marshal(snap *Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return nil, errors.Errorf("encoding YAML: %w", err)
	}
	return data, nil
}

func (c *YAMLCodec) Unmarshal(data []byte, snap *Snapshot) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(snap); err != nil {
		return errors.Errorf("parsing YAML: %w", err)
	}
	return nil
}

// 🔧 TOMLCodec stores preferences as TOML
type TOMLCodec struct{}

func (c *TOMLCodec) CanHandle(filename string) bool {
	return hasExt(filename, ".toml")
}

func (c *TOMLCodec) Marshal(snap *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, errors.Errorf("encoding TOML: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *TOMLCodec) Unmarshal(data []byte, snap *Snapshot) error {
	md, err := toml.Decode(string(data), snap)
	if err != nil {
		return errors.Errorf("parsing TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.Errorf("parsing TOML: unknown field %q", undecoded[0].String())
	}
	return nil
}
