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

// HelpCommand implements `help`: with no arguments it lists every
// registered command, one per line (`name<TAB>- description`); given a
// command name it prints that command's detailed usage; given an unknown
// name it prints "Unknown command: `NAME'" and exits 0. That last case is a
// description of a name the user asked about, not a dispatch failure, so it
// is not treated as a usage error.
type HelpCommand struct{}

func (HelpCommand) Name() string     { return "help" }
func (HelpCommand) Synopsis() string { return "describe commands and their usage" }

func (HelpCommand) Usage() string {
	return "usage: branchcc help [command]\n\nWith no arguments, lists every registered command.\nGiven a command name, prints that command's detailed usage.\n"
}

func (HelpCommand) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) == 0 {
		for _, name := range env.Registry.Names() {
			cmd, _ := env.Registry.Lookup(name)
			fmt.Fprintf(env.Stdout, "%s\t- %s\n", name, cmd.Synopsis())
		}
		return 0
	}
	name := args[0]
	cmd, ok := env.Registry.Lookup(name)
	if !ok {
		fmt.Fprintf(env.Stdout, "Unknown command: `%s'\n", name)
		return 0
	}
	if u, ok := cmd.(Usager); ok {
		fmt.Fprint(env.Stdout, u.Usage())
		return 0
	}
	fmt.Fprintf(env.Stdout, "%s - %s\n", cmd.Name(), cmd.Synopsis())
	return 0
}
