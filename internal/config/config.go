// Copyright 2025 EngFlow Inc. All rights reserved.
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

// Package config loads the optional `.branchcc.yml` project configuration.
// The analyzer persists no state of its own; a project may still pin
// default --assume/macro definitions and source globs here so every
// invocation in that directory does not need to repeat them on the command
// line.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the conventional name this package looks for in a project root.
const FileName = ".branchcc.yml"

// Config is the `.branchcc.yml` schema.
type Config struct {
	// Assume lists macro names assumed defined (true) for every `ls`
	// invocation in this project, equivalent to passing --assume-def on
	// every call.
	Assume []string `yaml:"assume"`
	// AssumeNot lists macro names assumed undefined, equivalent to
	// passing --assume '!defined(NAME)' for each name.
	AssumeNot []string `yaml:"assume_not"`
	// Defines seeds object-like macros the project always builds with,
	// e.g. from a fixed build system flag set.
	Defines map[string]string `yaml:"defines"`
	// Include/Exclude are fsscan glob patterns; empty Include falls back to
	// fsscan.DefaultPatterns.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// Load reads and parses path. A missing file is not an error: it returns an
// empty Config, since `.branchcc.yml` is optional project-wide state.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
