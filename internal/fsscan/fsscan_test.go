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

package fsscan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanFindsCSourcesAndHonorsExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c"), "")
	writeFile(t, filepath.Join(root, "sub", "b.cc"), "")
	writeFile(t, filepath.Join(root, "sub", "gen", "c.cc"), "")
	writeFile(t, filepath.Join(root, "notes.txt"), "")

	found, err := Scan(root, Patterns{
		Include: []string{"**/*.c", "**/*.cc"},
		Exclude: []string{"**/gen/**"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.c", filepath.Join("sub", "b.cc")}, found)
}

func TestScanRejectsInvalidPattern(t *testing.T) {
	_, err := Scan(t.TempDir(), Patterns{Include: []string{"["}})
	assert.Error(t, err)
}

func TestUpToDate(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.c")
	cache := filepath.Join(root, "a.cache")
	writeFile(t, src, "int x;")

	upToDate, err := UpToDate(src, cache)
	require.NoError(t, err)
	assert.False(t, upToDate, "missing cache file is never up to date")

	writeFile(t, cache, "{}")
	upToDate, err = UpToDate(src, cache)
	require.NoError(t, err)
	assert.True(t, upToDate)

	time.Sleep(10 * time.Millisecond)
	writeFile(t, src, "int y;")
	upToDate, err = UpToDate(src, cache)
	require.NoError(t, err)
	assert.False(t, upToDate, "source modified after cache was written")
}
