// Package config loads the cartsync configuration: a small YAML file
// validated against an embedded CUE schema before anything is decoded, so
// a bad file fails loudly at startup instead of surfacing as a half-wired
// store later.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Config is the decoded configuration.
type Config struct {
	Remote  RemoteConfig  `yaml:"remote"`
	Storage StorageConfig `yaml:"storage"`
	Sync    SyncConfig    `yaml:"sync"`
}

// RemoteConfig addresses the Remote Cart Service.
type RemoteConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

// StorageConfig locates the local durable store.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// SyncConfig tunes the reconciliation pipeline.
type SyncConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// Timeout returns the per-request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Remote.TimeoutMS) * time.Millisecond
}

// DebounceWindow returns the push quiescence window as a duration.
func (c Config) DebounceWindow() time.Duration {
	return time.Duration(c.Sync.DebounceMS) * time.Millisecond
}

// Default returns the built-in configuration used when no file is given:
// a local backend, the default windows, and a database under the home
// directory.
func Default() Config {
	return Config{
		Remote:  RemoteConfig{BaseURL: "http://localhost:8080", TimeoutMS: 10000},
		Storage: StorageConfig{Path: expandHome("~/.cartsync/cart.db")},
		Sync:    SyncConfig{DebounceMS: 1000},
	}
}

// Load reads, validates, and decodes a config file.
//
// Validation happens against the CUE schema first, so error messages point
// at the offending field rather than at whatever breaks downstream. Fields
// the file omits keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := validate(path, data); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Storage.Path = expandHome(cfg.Storage.Path)

	return cfg, nil
}

// validate unifies the YAML document with the embedded #Config schema.
func validate(path string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return fmt.Errorf("compile config schema: #Config not found")
	}

	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// expandHome resolves a leading "~/" against the user's home directory.
// Left untouched when the home directory cannot be determined.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
