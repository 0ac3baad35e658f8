// Copyright 2025 distcache LLC
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
	"os"
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultReceiver is the client variable the migration rules look for
// when the config does not name one.
const DefaultReceiver = "client_"

// DefaultTargets is the builtin file list used when neither targets nor
// patterns are configured. These are the integration suites written
// against the old client API.
var DefaultTargets = []string{
	"tests/integration/multi_node_test.cpp",
	"tests/integration/scaling_test.cpp",
}

// 🔧 Config is the top-level fixapi configuration
type Config struct {
	// Receiver is the variable the old-API calls go through, usually a
	// test fixture member like "client_".
	Receiver string `json:"receiver,omitempty" yaml:"receiver,omitempty" hcl:"receiver,optional"`

	// Targets are files to migrate, named directly. Missing targets are
	// reported and skipped rather than failing the run.
	Targets []string `json:"targets,omitempty" yaml:"targets,omitempty" hcl:"targets,optional"`

	// Patterns are doublestar globs expanded against the working tree,
	// e.g. "tests/**/*_test.cpp". Only existing files match.
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty" hcl:"patterns,optional"`

	// DryRun reports pending changes without writing them.
	DryRun bool `json:"dry_run,omitempty" yaml:"dry_run,omitempty" hcl:"dry_run,optional"`

	// Async migrates the batch concurrently.
	Async bool `json:"async,omitempty" yaml:"async,omitempty" hcl:"async,optional"`

	location string
}

// 🏭 DefaultConfig returns the zero-setup configuration: the builtin
// target list and the default receiver.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Location returns the path the config was loaded from, or "" for the
// builtin default config.
func (c *Config) Location() string {
	return c.location
}

func (c *Config) applyDefaults() {
	if c.Receiver == "" {
		c.Receiver = DefaultReceiver
	}
	if len(c.Targets) == 0 && len(c.Patterns) == 0 {
		c.Targets = append([]string(nil), DefaultTargets...)
	}
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ✅ Validate checks a config for problems that would make a run
// meaningless or dangerous.
func Validate(ctx context.Context, cfg *Config) error {
	zerolog.Ctx(ctx).Debug().
		Str("receiver", cfg.Receiver).
		Int("targets", len(cfg.Targets)).
		Int("patterns", len(cfg.Patterns)).
		Msg("validating config")

	if !identRe.MatchString(cfg.Receiver) {
		return errors.Errorf("receiver %q is not a valid identifier", cfg.Receiver)
	}
	for _, target := range cfg.Targets {
		if target == "" {
			return errors.Errorf("targets must not contain empty paths")
		}
	}
	for _, pattern := range cfg.Patterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid pattern %q", pattern)
		}
	}
	return nil
}

// 🔍 Resolve expands the config into the concrete file list for one run,
// rooted at root. Targets come first, in declared order, whether or not
// they exist on disk; pattern matches follow. Duplicates are dropped.
func (c *Config) Resolve(root string) ([]string, error) {
	if root == "" {
		root = "."
	}

	seen := make(map[string]bool)
	var paths []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	for _, target := range c.Targets {
		add(filepath.Join(root, target))
	}

	fsys := os.DirFS(root)
	for _, pattern := range c.Patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, errors.Errorf("expanding pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			add(filepath.Join(root, match))
		}
	}
	return paths, nil
}
