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

// Package fsscan discovers the translation units a `branchcc ls` invocation
// should analyze: glob-based file discovery plus a cheap mtime-based
// up-to-date check. Patterns are validated up front; candidates are then
// matched with MatchUnvalidated.
package fsscan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/branchcc/branchcc/internal/collections"
)

// Patterns is an include/exclude glob pair, relative to a scan root.
type Patterns struct {
	Include []string
	Exclude []string
}

// DefaultPatterns matches common C/C++ translation-unit extensions recursively.
func DefaultPatterns() Patterns {
	return Patterns{Include: []string{"**/*.c", "**/*.cc", "**/*.cpp", "**/*.cxx"}}
}

// Validate reports an error naming the first malformed glob in p, if any.
func (p Patterns) Validate() error {
	for _, pattern := range p.Include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("fsscan: invalid include pattern %q", pattern)
		}
	}
	for _, pattern := range p.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("fsscan: invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// Scan returns every regular file under root matching p, sorted for
// deterministic output, skipping anything also matched by an exclude
// pattern. Paths are returned relative to root.
func Scan(root string, p Patterns) ([]string, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	seen := collections.Set[string]{}
	var matches []string
	for _, pattern := range p.Include {
		found, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
		if err != nil {
			return nil, fmt.Errorf("fsscan: pattern %q: %w", pattern, err)
		}
		for _, abs := range found {
			rel, err := filepath.Rel(root, abs)
			if err != nil {
				return nil, err
			}
			if seen.Contains(rel) {
				continue
			}
			if excluded(rel, p.Exclude) {
				continue
			}
			info, err := os.Stat(abs)
			if err != nil || info.IsDir() {
				continue
			}
			seen.Add(rel)
			matches = append(matches, rel)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func excluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
	}
	return false
}

// UpToDate reports whether sourcePath's modification time is no later than
// cachePath's, meaning a previously cached analysis of sourcePath is still
// valid. A missing cachePath is never up to date; a missing sourcePath is an
// error (the caller asked about a file that does not exist).
func UpToDate(sourcePath, cachePath string) (bool, error) {
	srcInfo, err := os.Stat(sourcePath)
	if err != nil {
		return false, fmt.Errorf("fsscan: stat %s: %w", sourcePath, err)
	}
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("fsscan: stat %s: %w", cachePath, err)
	}
	return !srcInfo.ModTime().After(cacheInfo.ModTime()), nil
}
