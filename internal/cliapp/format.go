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
	"fmt"
	"strings"

	"github.com/branchcc/branchcc/internal/symbol"
)

// formatSpec controls how `ls` renders one Symbol.
type formatSpec struct {
	long   bool
	format string // custom --format string, empty when unused
	each   bool
}

// siteKind distinguishes a declaration site from a definition site when
// --each expands a Symbol into one line per site.
type siteKind string

const (
	siteDeclaration siteKind = "decl"
	siteDefinition  siteKind = "def"
)

// renderSymbol writes one or more lines describing sym to a strings.Builder,
// one line per site if spec.each is set (`--each`), otherwise a single
// summary line.
func renderSymbol(w *strings.Builder, sym *symbol.Symbol, spec formatSpec) {
	if !spec.each {
		fmt.Fprintln(w, formatOne(sym, "", 0, "", spec))
		return
	}
	wrote := false
	for _, site := range sym.Declarations {
		fmt.Fprintln(w, formatOne(sym, string(siteDeclaration), site.Line, site.File, spec))
		wrote = true
	}
	for _, site := range sym.Definitions {
		fmt.Fprintln(w, formatOne(sym, string(siteDefinition), site.Line, site.File, spec))
		wrote = true
	}
	if !wrote {
		// A symbol announced but never attached to a recorded site (should
		// not happen in practice, but --each must still show it).
		fmt.Fprintln(w, formatOne(sym, "", 0, "", spec))
	}
}

// formatOne renders a single line for sym, optionally naming the specific
// site (kind/line/file) --each expanded it from.
func formatOne(sym *symbol.Symbol, kind string, line int, file string, spec formatSpec) string {
	if spec.format != "" {
		return expandFormat(spec.format, sym, kind, line, file)
	}
	if !spec.long {
		return fmt.Sprintf("%s\t%s\t%s", sym.Identifier, sym.Family, sym.ExistenceCondition)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %-12s %-10s", sym.Identifier, sym.Family, namespaceName(sym.Namespace))
	if kind != "" {
		fmt.Fprintf(&b, " %s %s:%d", kind, file, line)
	} else if len(sym.Definitions) > 0 {
		d := sym.Definitions[0]
		fmt.Fprintf(&b, " def %s:%d", d.File, d.Line)
	} else if len(sym.Declarations) > 0 {
		d := sym.Declarations[0]
		fmt.Fprintf(&b, " decl %s:%d", d.File, d.Line)
	}
	fmt.Fprintf(&b, "  %s", sym.ExistenceCondition)
	return b.String()
}

// expandFormat substitutes the `--format` placeholders:
//
//	%n  identifier
//	%f  family
//	%s  namespace
//	%c  existence condition
//	%p  site path (only set when --each expanded this line)
//	%l  site line (only set when --each expanded this line)
//	%k  site kind ("decl"/"def", only set when --each expanded this line)
//	%%  a literal percent sign
func expandFormat(format string, sym *symbol.Symbol, kind string, line int, file string) string {
	replacer := strings.NewReplacer(
		"%n", sym.Identifier,
		"%f", sym.Family.String(),
		"%s", namespaceName(sym.Namespace),
		"%c", sym.ExistenceCondition.String(),
		"%p", file,
		"%l", fmt.Sprint(line),
		"%k", kind,
		"%%", "%",
	)
	return replacer.Replace(format)
}

func namespaceName(ns symbol.Namespace) string {
	switch ns {
	case symbol.NamespaceTag:
		return "tag"
	case symbol.NamespaceLabel:
		return "label"
	default:
		return "ordinary"
	}
}
