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

// Package cliapp implements the command dispatcher that sits outside the
// parsing core: a command registry and the `help`/`ls` subcommands built
// against it. Command registration is an explicit value constructed by the
// caller (cmd/branchcc's main) rather than a package-level global.
package cliapp

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/branchcc/branchcc/internal/config"
)

// Command is one registered subcommand.
type Command interface {
	// Name is the word typed on the command line to invoke this command.
	Name() string
	// Synopsis is a one-line description, shown by `help` with no arguments.
	Synopsis() string
	// Run executes the command with its own argv (not including the command
	// name itself) and returns a process exit code.
	Run(ctx context.Context, env *Env, args []string) int
}

// Usager is implemented by commands that can render their own detailed
// option help, shown by `help <command>`. A Command that does not implement
// Usager falls back to its Synopsis.
type Usager interface {
	Usage() string
}

// Env carries everything a Command needs besides its own argv: output
// streams, the working directory a relative path is resolved against, and
// the project's optional .branchcc.yml configuration. It is constructed once
// in cmd/branchcc's main and threaded through Dispatch.
type Env struct {
	Stdout   io.Writer
	Stderr   io.Writer
	WorkDir  string
	Config   config.Config
	Registry *Registry
}

// NewEnv returns an Env with Stdout/Stderr defaulted to os.Stdout/os.Stderr.
func NewEnv(workDir string, cfg config.Config, reg *Registry) *Env {
	return &Env{Stdout: os.Stdout, Stderr: os.Stderr, WorkDir: workDir, Config: cfg, Registry: reg}
}

// Registry is an explicit, ordered set of registered Commands. Order of
// Register calls is the order `help` lists commands in.
type Registry struct {
	order    []string
	commands map[string]Command
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds cmd, keyed by its Name. Registering the same name twice
// replaces the earlier command without changing its position in Names.
func (r *Registry) Register(cmd Command) {
	name := cmd.Name()
	if _, exists := r.commands[name]; !exists {
		r.order = append(r.order, name)
	}
	r.commands[name] = cmd
}

// Lookup returns the command registered under name, if any.
func (r *Registry) Lookup(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns every registered command name, in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Dispatch looks up args[0] as a command name and runs it with the remaining
// arguments. An empty args or an unknown command name is a usage error: it
// prints a message to env.Stderr and returns a non-zero exit code without
// running anything.
func (r *Registry) Dispatch(ctx context.Context, env *Env, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(env.Stderr, "usage: branchcc <command> [arguments]")
		fmt.Fprintln(env.Stderr, "run `branchcc help` to list commands")
		return 2
	}
	name := args[0]
	cmd, ok := r.Lookup(name)
	if !ok {
		fmt.Fprintf(env.Stderr, "usage: unknown command: `%s'\n", name)
		return 2
	}
	return cmd.Run(ctx, env, args[1:])
}
