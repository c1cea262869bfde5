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

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/branchcc/branchcc/internal/condition"
)

func TestCreateResolvesAliases(t *testing.T) {
	p, err := Create("macos", "amd64")
	assert.NoError(t, err)
	assert.Equal(t, Platform{OS: osx, Arch: x86_64}, p)
}

func TestCreateRejectsUnknown(t *testing.T) {
	_, err := Create("plan9", "z80")
	assert.Error(t, err)
}

func TestMacrosIncludesExpectedPredefines(t *testing.T) {
	linuxX86, err := Create(linux, x86_64)
	assert.NoError(t, err)
	assert.Contains(t, Macros(linuxX86), "__linux__")
	assert.Contains(t, Macros(linuxX86), "__x86_64__")
}

func TestAssumeSeedsAssignment(t *testing.T) {
	linuxX86, err := Create(linux, x86_64)
	assert.NoError(t, err)

	u := condition.NewUniverse()
	as := Assume(u, linuxX86)

	linuxDefined := u.Defined("__linux__").Cond()
	assert.True(t, as.Satisfies(linuxDefined))

	// A macro this platform never predefines is left unassigned (free), not
	// assumed false: explicitly asserting it false is what actually rules
	// out a condition built on it.
	win32 := u.Defined("_WIN32")
	assert.True(t, as.Satisfies(win32.Cond()))
	as.Assume(win32, false)
	assert.False(t, as.Satisfies(win32.Cond()))
}
