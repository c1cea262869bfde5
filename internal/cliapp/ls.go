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
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/branchcc/branchcc/internal/collections"
	"github.com/branchcc/branchcc/internal/condition"
	"github.com/branchcc/branchcc/internal/driver"
	"github.com/branchcc/branchcc/internal/fsscan"
	"github.com/branchcc/branchcc/internal/lexer"
	"github.com/branchcc/branchcc/internal/platform"
	"github.com/branchcc/branchcc/internal/symbol"
	"github.com/branchcc/branchcc/internal/track"
)

// LsCommand implements `ls [options] [object]...`: it parses every
// discovered translation unit and lists the symbols (or literals, or
// comments) the current cursor can see, each qualified by the preprocessor
// condition under which it exists.
type LsCommand struct{}

func (LsCommand) Name() string     { return "ls" }
func (LsCommand) Synopsis() string { return "list symbols of the current cursor" }

// lsOptions holds every `ls` flag: the family/literal/comment selectors,
// filtering and formatting options, the --assume family seeding a
// condition.Assignment (--assume-platform draws on internal/platform's
// predefined macro tables), and --events-out exposing internal/track's
// NDJSON stream.
type lsOptions struct {
	typeFlag   string
	literal    string
	comment    string
	filter     string
	long       bool
	format     string
	each       bool
	assume     string
	assumeDef  string
	assumePlat string
	eventsOut  string
}

func (LsCommand) newFlagSet(out io.Writer) (*flag.FlagSet, *lsOptions) {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(out)
	opts := &lsOptions{}
	fs.StringVar(&opts.typeFlag, "t", "", "restrict to family: file, symbol, identifier, macro, function, variable, type, tag, struct, union, enum, label")
	fs.StringVar(&opts.typeFlag, "type", "", "same as -t")
	fs.StringVar(&opts.literal, "literal", "", "list literals of a kind: string, char, integer, float")
	fs.StringVar(&opts.comment, "comment", "", "list comments of a kind: block, line")
	fs.StringVar(&opts.filter, "f", "", "filter predicate, e.g. family=function,name~=^on_")
	fs.StringVar(&opts.filter, "filter", "", "same as -f")
	fs.BoolVar(&opts.long, "l", false, "long format")
	fs.BoolVar(&opts.long, "long", false, "same as -l")
	fs.StringVar(&opts.format, "format", "", "custom format string (%n %f %s %c %p %l %k %%)")
	fs.BoolVar(&opts.each, "each", false, "one line per declaration/definition, not one per symbol")
	fs.StringVar(&opts.assume, "assume", "", "assume condition true, e.g. 'FOO && !BAR'")
	fs.StringVar(&opts.assumeDef, "assume-def", "", "shorthand for --assume defined(NAME)")
	fs.StringVar(&opts.assumePlat, "assume-platform", "", "shorthand for --assume seeded from an os/arch macro table, e.g. linux/x86_64")
	fs.StringVar(&opts.eventsOut, "events-out", "", "write branch-track NDJSON events to PATH ('-' for stdout)")
	return fs, opts
}

func (c LsCommand) Usage() string {
	var buf strings.Builder
	fmt.Fprintln(&buf, "usage: branchcc ls [options] [file|glob]...")
	fmt.Fprintln(&buf, "\nWith no file/glob arguments, discovers translation units using the")
	fmt.Fprintln(&buf, ".branchcc.yml project configuration (or a default *.c/*.cc/*.cpp/*.cxx glob).")
	fmt.Fprintln(&buf)
	fs, _ := c.newFlagSet(&buf)
	fs.PrintDefaults()
	return buf.String()
}

func (c LsCommand) Run(ctx context.Context, env *Env, args []string) int {
	var parseErrs strings.Builder
	fs, opts := c.newFlagSet(&parseErrs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(env.Stderr, parseErrs.String())
		return 2
	}

	typeMatch, err := parseTypeFlag(opts.typeFlag)
	if err != nil {
		fmt.Fprintf(env.Stderr, "ls: %v\n", err)
		return 2
	}
	filterMatch, err := parseFilterFlag(opts.filter)
	if err != nil {
		fmt.Fprintf(env.Stderr, "ls: %v\n", err)
		return 2
	}

	paths, err := resolveObjects(env, fs.Args())
	if err != nil {
		fmt.Fprintf(env.Stderr, "ls: %v\n", err)
		return 1
	}
	if opts.typeFlag == "file" {
		for _, p := range paths {
			fmt.Fprintln(env.Stdout, p)
		}
		return 0
	}

	rec, closeEvents, err := openEventsOut(opts.eventsOut, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "ls: %v\n", err)
		return 1
	}
	defer closeEvents()

	if opts.literal != "" || opts.comment != "" {
		return c.listTokens(env, paths, opts)
	}

	results, fatal := parseTranslationUnits(ctx, paths, rec, env, opts)
	if fatal != nil {
		fmt.Fprintf(env.Stderr, "ls: %v\n", fatal)
		return 1
	}

	for _, res := range results {
		for _, warn := range res.warnings {
			fmt.Fprintf(env.Stderr, "ls: %s: WARN: %v\n", res.path, warn)
		}
	}
	syms := collections.FlatMapSlice(results, func(res tuResult) []*symbol.Symbol {
		return collections.FilterSlice(res.index.All(), func(s *symbol.Symbol) bool {
			return typeMatch(s) && filterMatch(s) && res.assign.Satisfies(s.ExistenceCondition)
		})
	})

	// Symbols arrive grouped by translation unit, in the order of the
	// scanned paths; drain them in identifier order instead.
	queue := collections.NewPriorityQueue(syms, symbolLess)
	spec := formatSpec{long: opts.long, format: opts.format, each: opts.each}
	var out strings.Builder
	for !queue.Empty() {
		renderSymbol(&out, queue.Pop(), spec)
	}
	fmt.Fprint(env.Stdout, out.String())
	return 0
}

// symbolLess orders ls output: identifier first, then family, so ties
// across namespaces drain deterministically.
func symbolLess(a, b *symbol.Symbol) bool {
	if a.Identifier != b.Identifier {
		return a.Identifier < b.Identifier
	}
	return a.Family < b.Family
}

// resolveObjects returns the list of translation-unit paths `ls` analyzes:
// the literal objects the user passed, or (when none were passed) a glob
// scan of env.WorkDir using env.Config's patterns, via internal/fsscan.
func resolveObjects(env *Env, objects []string) ([]string, error) {
	if len(objects) > 0 {
		return objects, nil
	}
	patterns := fsscan.Patterns{Include: env.Config.Include, Exclude: env.Config.Exclude}
	if len(patterns.Include) == 0 {
		patterns = fsscan.DefaultPatterns()
	}
	rel, err := fsscan.Scan(env.WorkDir, patterns)
	if err != nil {
		return nil, err
	}
	abs := make([]string, len(rel))
	for i, r := range rel {
		abs[i] = filepath.Join(env.WorkDir, r)
	}
	return abs, nil
}

// openEventsOut opens the destination for --events-out, returning a no-op
// Recorder (nil) and closer when the flag is unset.
func openEventsOut(dest string, env *Env) (*track.Recorder, func(), error) {
	if dest == "" {
		return nil, func() {}, nil
	}
	if dest == "-" {
		return track.NewRecorder(env.Stdout), func() {}, nil
	}
	f, err := os.Create(dest)
	if err != nil {
		return nil, func() {}, fmt.Errorf("events-out: %w", err)
	}
	return track.NewRecorder(f), func() { f.Close() }, nil
}

// tuResult is one parsed translation unit's outcome.
type tuResult struct {
	path     string
	index    *symbol.Index
	warnings []error
	assign   *condition.Assignment
}

// parseTranslationUnits parses every path concurrently: file-level
// parallelism via errgroup, each file owning its own branch arena, symbol
// index and atom universe. The single-threaded cooperative branch model is
// unaffected, since no branch tree crosses a file boundary. A per-file read
// or structural-parse error is recorded against that file's result rather
// than aborting the whole invocation, except when ctx is cancelled.
func parseTranslationUnits(ctx context.Context, paths []string, rec *track.Recorder, env *Env, opts *lsOptions) ([]tuResult, error) {
	results := make([]tuResult, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			u := condition.NewUniverse()
			assign, err := buildAssignment(u, env, opts)
			if err != nil {
				results[i] = tuResult{path: path, warnings: []error{err}, assign: condition.NewAssignment()}
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				results[i] = tuResult{path: path, warnings: []error{err}, assign: assign}
				return nil
			}
			d, perr := driver.ParseFile(path, data, u, rec)
			if perr != nil {
				results[i] = tuResult{path: path, warnings: []error{perr}, assign: assign}
				return nil
			}
			results[i] = tuResult{path: path, index: d.Index(), warnings: d.Warnings(), assign: assign}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i := range results {
		if results[i].index == nil {
			results[i].index = emptyIndex()
		}
	}
	return results, nil
}

func emptyIndex() *symbol.Index { return symbol.NewIndex() }

// buildAssignment constructs the condition.Assignment used only to
// rank/filter `ls` output (the symbol index itself stays
// condition-general): project-wide config defaults, then --assume-platform,
// then --assume-def, then --assume, each able to narrow further.
func buildAssignment(u *condition.Universe, env *Env, opts *lsOptions) (*condition.Assignment, error) {
	assign := condition.NewAssignment()
	for _, name := range env.Config.Assume {
		assign.Assume(u.Defined(name), true)
	}
	for _, name := range env.Config.AssumeNot {
		assign.Assume(u.Defined(name), false)
	}
	for name := range env.Config.Defines {
		assign.Assume(u.Defined(name), true)
	}
	if opts.assumePlat != "" {
		p, err := parsePlatformFlag(opts.assumePlat)
		if err != nil {
			return nil, err
		}
		for _, name := range platform.Macros(p) {
			assign.Assume(u.Defined(name), true)
		}
	}
	if opts.assumeDef != "" {
		assign.Assume(u.Defined(opts.assumeDef), true)
	}
	if opts.assume != "" {
		cond, err := parseConditionString(u, opts.assume)
		if err != nil {
			return nil, fmt.Errorf("--assume: %w", err)
		}
		for _, atom := range u.Atoms() {
			if cond.Implies(atom.Cond()) {
				assign.Assume(atom, true)
			} else if cond.Implies(condition.Complement(atom.Cond())) {
				assign.Assume(atom, false)
			}
		}
	}
	return assign, nil
}

func parsePlatformFlag(s string) (platform.Platform, error) {
	osName, arch, ok := strings.Cut(s, "/")
	if !ok {
		return platform.Platform{}, fmt.Errorf("--assume-platform: expected OS/ARCH, got %q", s)
	}
	return platform.Create(platform.OS(osName), platform.Arch(arch))
}

// parseConditionString lexes and parses a standalone `--assume` condition
// expression the same way the driver parses an `#if` directive's tail
// (driver.ParseCondition), so the same grammar governs both.
func parseConditionString(u *condition.Universe, expr string) (condition.Condition, error) {
	lx := lexer.NewLexer([]byte(expr))
	var tokens []lexer.Token
	for {
		tok, err := lx.NextToken()
		if err != nil {
			return condition.Condition{}, err
		}
		if tok.Type == lexer.TokenType_EOF {
			break
		}
		if tok.Type.IsTrivia() || tok.Type == lexer.TokenType_Newline {
			continue
		}
		tokens = append(tokens, tok)
	}
	return driver.ParseCondition(u, tokens)
}

// listTokens implements the `--literal`/`--comment` modes: instead of
// listing symbols, it scans the raw token stream of every discovered file
// and prints every token matching the requested literal or comment kind.
func (LsCommand) listTokens(env *Env, paths []string, opts *lsOptions) int {
	litKind, commentKind, err := parseTokenKinds(opts.literal, opts.comment)
	if err != nil {
		fmt.Fprintf(env.Stderr, "ls: %v\n", err)
		return 2
	}
	var out strings.Builder
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(env.Stderr, "ls: %v\n", err)
			continue
		}
		lx := lexer.NewLexer(data)
		for {
			tok, lerr := lx.NextToken()
			if lerr != nil {
				fmt.Fprintf(env.Stderr, "ls: %s: %v\n", path, lerr)
				break
			}
			if tok.Type == lexer.TokenType_EOF {
				break
			}
			if !tokenMatches(tok, litKind, commentKind) {
				continue
			}
			fmt.Fprintf(&out, "%s:%s\t%s\n", path, tok.Location, strings.ReplaceAll(tok.Content, "\n", "\\n"))
		}
	}
	fmt.Fprint(env.Stdout, out.String())
	return 0
}

func parseTokenKinds(literal, comment string) (lexer.TokenType, lexer.TokenType, error) {
	var lit, com lexer.TokenType
	if literal != "" {
		switch literal {
		case "string":
			lit = lexer.TokenType_LiteralString
		case "char":
			lit = lexer.TokenType_LiteralChar
		case "integer":
			lit = lexer.TokenType_LiteralInteger
		case "float":
			lit = lexer.TokenType_LiteralFloat
		default:
			return 0, 0, fmt.Errorf("unknown --literal kind %q", literal)
		}
	}
	if comment != "" {
		switch comment {
		case "block":
			com = lexer.TokenType_CommentMultiLine
		case "line":
			com = lexer.TokenType_CommentSingleLine
		default:
			return 0, 0, fmt.Errorf("unknown --comment kind %q", comment)
		}
	}
	return lit, com, nil
}

func tokenMatches(tok lexer.Token, lit, com lexer.TokenType) bool {
	if lit != 0 && tok.Type == lit {
		return true
	}
	if com != 0 && tok.Type == com {
		return true
	}
	return false
}
