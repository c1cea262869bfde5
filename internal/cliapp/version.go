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
	"fmt"
)

// Version is set at build time via -ldflags "-X .../cliapp.Version=...";
// it defaults to "dev" for a plain `go build`.
var Version = "dev"

// VersionCommand prints the build version.
type VersionCommand struct{}

func (VersionCommand) Name() string     { return "version" }
func (VersionCommand) Synopsis() string { return "print the build version" }

func (VersionCommand) Run(ctx context.Context, env *Env, args []string) int {
	fmt.Fprintln(env.Stdout, Version)
	return 0
}
