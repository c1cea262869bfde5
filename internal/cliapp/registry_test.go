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

package cliapp

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T) (*Env, *strings.Builder, *strings.Builder) {
	t.Helper()
	reg := NewRegistry()
	reg.Register(HelpCommand{})
	reg.Register(LsCommand{})
	reg.Register(VersionCommand{})
	var stdout, stderr strings.Builder
	env := NewEnv(t.TempDir(), testConfig(), reg)
	env.Stdout = &stdout
	env.Stderr = &stderr
	return env, &stdout, &stderr
}

func TestDispatchUnknownCommandIsUsageError(t *testing.T) {
	env, _, stderr := newTestEnv(t)
	code := env.Registry.Dispatch(context.Background(), env, []string{"bogus"})
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "unknown command")
}

func TestDispatchEmptyArgsIsUsageError(t *testing.T) {
	env, _, stderr := newTestEnv(t)
	code := env.Registry.Dispatch(context.Background(), env, nil)
	assert.Equal(t, 2, code)
	assert.NotEmpty(t, stderr.String())
}

func TestRegisterPreservesOrderAndReplacesByName(t *testing.T) {
	reg := NewRegistry()
	reg.Register(HelpCommand{})
	reg.Register(VersionCommand{})
	reg.Register(HelpCommand{})
	require.Equal(t, []string{"help", "version"}, reg.Names())
}

func TestHelpListsCommandsOnePerLine(t *testing.T) {
	env, stdout, _ := newTestEnv(t)
	code := HelpCommand{}.Run(context.Background(), env, nil)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "help\t- describe commands and their usage")
	assert.Contains(t, stdout.String(), "ls\t- list symbols of the current cursor")
}

// TestHelpUnknownCommandExitsZero: `help bogus` prints the quoted message
// and exits 0, distinct from a dispatch-time usage error.
func TestHelpUnknownCommandExitsZero(t *testing.T) {
	env, stdout, _ := newTestEnv(t)
	code := HelpCommand{}.Run(context.Background(), env, []string{"bogus"})
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Unknown command: `bogus'")
}

func TestHelpCommandPrintsDetailedUsage(t *testing.T) {
	env, stdout, _ := newTestEnv(t)
	code := HelpCommand{}.Run(context.Background(), env, []string{"ls"})
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "usage: branchcc ls")
}
