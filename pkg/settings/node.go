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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind tags a settings node
type Kind int

const (
	KindSection Kind = iota // Group of child nodes
	KindAbout               // Application information
	KindManager             // Processor manager
	KindWebpage             // External page, payload is the URL
	KindText                // Static text, payload is the body
)

var kindNames = map[Kind]string{
	KindSection: "section",
	KindAbout:   "about",
	KindManager: "manager",
	KindWebpage: "webpage",
	KindText:    "text",
}

// String returns a string representation of Kind
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind converts a kind name into a Kind
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown settings node kind %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, errors.Errorf("unknown settings node kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// 📦 Node is one entry of the settings forest
type Node struct {
	Name     string  `json:"name" yaml:"name" toml:"name"`
	Kind     Kind    `json:"kind" yaml:"kind" toml:"kind"`
	Payload  string  `json:"payload,omitempty" yaml:"payload,omitempty" toml:"payload,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// IsSection reports whether n groups other nodes
func (n *Node) IsSection() bool {
	return n != nil && n.Kind == KindSection
}

// Validate checks n and its descendants
func (n *Node) Validate() error {
	if n == nil {
		return errors.Errorf("nil settings node")
	}
	if _, ok := kindNames[n.Kind]; !ok {
		return errors.Errorf("node %q: unknown kind %d", n.Name, int(n.Kind))
	}
	if strings.TrimSpace(n.Name) == "" {
		return errors.Errorf("%s node without a name", n.Kind)
	}

	if n.Kind != KindSection && len(n.Children) > 0 {
		return errors.Errorf("node %q: %s nodes cannot have children", n.Name, n.Kind)
	}
	if n.Kind == KindWebpage && n.Payload == "" {
		return errors.Errorf("node %q: webpage without a URL", n.Name)
	}

	for _, c := range n.Children {
		if err := c.Validate(); err != nil {
			return errors.Errorf("in %q: %w", n.Name, err)
		}
	}
	return nil
}

// isSections applies the first-node rule
func isSections(list []*Node) bool {
	return len(list) > 0 && list[0].IsSection()
}

// 🌳 DefaultSections is the settings forest used when none is configured
func DefaultSections() []*Node {
	return []*Node{
		{
			Name: "General",
			Kind: KindSection,
			Children: []*Node{
				{Name: "About procpad", Kind: KindAbout},
				{Name: "Manage processors", Kind: KindManager},
			},
		},
		{
			Name: "Help",
			Kind: KindSection,
			Children: []*Node{
				{Name: "Writing processors", Kind: KindText, Payload: "A processor is a JavaScript file exposing process(text, ...options)."},
				{Name: "Source", Kind: KindWebpage, Payload: "https://github.com/walteh/procpad"},
			},
		},
	}
}
