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

// Command branchcc is the CLI entrypoint for the conditional C analyzer: it
// registers the `help`, `ls` and `version` subcommands into an explicit
// cliapp.Registry and dispatches the one the user invoked. Global flags
// precede the subcommand.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/branchcc/branchcc/internal/cliapp"
	"github.com/branchcc/branchcc/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	workDir := flag.String("C", "", "run as if started in this directory")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: branchcc [global options] <command> [arguments]")
		fmt.Fprintln(os.Stderr, "run `branchcc help` to list commands")
		flag.PrintDefaults()
	}
	flag.CommandLine.Parse(args)

	dir := *workDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatalf("branchcc: %v", err)
		}
		dir = wd
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		log.Fatalf("branchcc: %v", err)
	}

	reg := cliapp.NewRegistry()
	reg.Register(cliapp.HelpCommand{})
	reg.Register(cliapp.LsCommand{})
	reg.Register(cliapp.VersionCommand{})

	env := cliapp.NewEnv(dir, cfg, reg)
	return reg.Dispatch(context.Background(), env, flag.Args())
}
