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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/procpad/pkg/settings"
	"gitlab.com/tozd/go/errors"
)

const (
	// EnvBundledDir overrides the bundled processor directory
	EnvBundledDir = "PROCPAD_BUNDLED_DIR"
	// EnvScriptsDir overrides the writable processor directory
	EnvScriptsDir = "PROCPAD_SCRIPTS_DIR"
	// EnvPreferences overrides the preferences file
	EnvPreferences = "PROCPAD_PREFERENCES"

	// DefaultTokenEnv names the variable holding the GitHub token
	DefaultTokenEnv = "GITHUB_TOKEN"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🐙 GitHub configures remote imports
type GitHub struct {
	TokenEnv string `json:"token_env,omitempty" yaml:"token_env,omitempty" toml:"token_env,omitempty"`
}

// Token returns the token from the configured environment variable
func (g GitHub) Token() string {
	return os.Getenv(g.TokenEnv)
}

// 📚 Config represents the complete configuration
type Config struct {
	BundledDir  string           `json:"bundled_dir,omitempty" yaml:"bundled_dir,omitempty" toml:"bundled_dir,omitempty"`
	ScriptsDir  string           `json:"scripts_dir,omitempty" yaml:"scripts_dir,omitempty" toml:"scripts_dir,omitempty"`
	Preferences string           `json:"preferences,omitempty" yaml:"preferences,omitempty" toml:"preferences,omitempty"`
	Settings    []*settings.Node `json:"settings,omitempty" yaml:"settings,omitempty" toml:"settings,omitempty"`
	GitHub      GitHub           `json:"github,omitempty" yaml:"github,omitempty" toml:"github,omitempty"`

	location string
}

// Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// 🏭 Default returns the configuration used when no file exists
func Default() (*Config, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, errors.Errorf("locating user config directory: %w", err)
	}

	base := filepath.Join(dir, "procpad")
	return &Config{
		BundledDir:  "processors",
		ScriptsDir:  filepath.Join(base, "processors"),
		Preferences: filepath.Join(base, "preferences.yaml"),
		Settings:    settings.DefaultSections(),
		GitHub:      GitHub{TokenEnv: DefaultTokenEnv},
	}, nil
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.fill(); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 LoadOrDefault loads path, falling back to Default when path is empty or
// does not exist
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if path != "" {
		_, err := os.Stat(path)
		if err == nil {
			return Load(ctx, path)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Errorf("checking config file: %w", err)
		}
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("config file not found, using defaults")
	}

	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// fill copies defaults into fields the file left empty
func (cfg *Config) fill() error {
	def, err := Default()
	if err != nil {
		return err
	}
	if cfg.BundledDir == "" {
		cfg.BundledDir = def.BundledDir
	}
	if cfg.ScriptsDir == "" {
		cfg.ScriptsDir = def.ScriptsDir
	}
	if cfg.Preferences == "" {
		cfg.Preferences = def.Preferences
	}
	if cfg.Settings == nil {
		cfg.Settings = def.Settings
	}
	if cfg.GitHub.TokenEnv == "" {
		cfg.GitHub.TokenEnv = def.GitHub.TokenEnv
	}
	return nil
}

// 🌍 ApplyEnv overrides paths from PROCPAD_* environment variables
func (cfg *Config) ApplyEnv() {
	for env, field := range map[string]*string{
		EnvBundledDir:  &cfg.BundledDir,
		EnvScriptsDir:  &cfg.ScriptsDir,
		EnvPreferences: &cfg.Preferences,
	} {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*field = v
		}
	}
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.ScriptsDir == "" {
		return errors.Errorf("scripts_dir is required")
	}
	if cfg.Preferences == "" {
		return errors.Errorf("preferences is required")
	}

	if cfg.BundledDir != "" {
		cfg.BundledDir = filepath.Clean(cfg.BundledDir)
	}
	cfg.ScriptsDir = filepath.Clean(cfg.ScriptsDir)
	cfg.Preferences = filepath.Clean(cfg.Preferences)

	if cfg.BundledDir != "" && cfg.BundledDir == cfg.ScriptsDir {
		return errors.Errorf("bundled_dir and scripts_dir must differ")
	}

	for i, n := range cfg.Settings {
		if !n.IsSection() {
			return errors.Errorf("settings[%d]: top-level nodes must be sections", i)
		}
		if err := n.Validate(); err != nil {
			return errors.Errorf("settings[%d]: %w", i, err)
		}
	}

	if cfg.GitHub.TokenEnv == "" {
		cfg.GitHub.TokenEnv = DefaultTokenEnv
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("bundled=%s scripts=%s preferences=%s sections=%d",
		cfg.BundledDir, cfg.ScriptsDir, cfg.Preferences, len(cfg.Settings))
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
