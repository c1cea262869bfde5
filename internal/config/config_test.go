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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmptyConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadParsesProjectConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	const doc = `
assume:
  - LINUX
assume_not:
  - WINDOWS
defines:
  VERSION: "3"
include:
  - src/**/*.c
exclude:
  - src/vendor/**
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"LINUX"}, cfg.Assume)
	assert.Equal(t, []string{"WINDOWS"}, cfg.AssumeNot)
	assert.Equal(t, "3", cfg.Defines["VERSION"])
	assert.Equal(t, []string{"src/**/*.c"}, cfg.Include)
	assert.Equal(t, []string{"src/vendor/**"}, cfg.Exclude)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("assume: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
