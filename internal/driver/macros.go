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

package driver

import (
	"github.com/branchcc/branchcc/internal/lexer"
	"github.com/branchcc/branchcc/internal/symbol"
)

// defineMacro announces a macro symbol for a `#define` line against every
// currently active leaf, under that leaf's own condition: two leaves
// reaching the same #define with different accumulated conditions both see
// the macro defined, each qualified by its own branch's condition.
//
// A macro is function-like only when '(' immediately follows its name with
// no separating whitespace (C17 §6.10.3); NonTrivia already stripped
// whitespace, so the adjacency check walks the line's raw Tokens instead.
func (d *Driver) defineMacro(ln lexer.LogicalLine, line int) {
	nonTrivia := ln.NonTrivia()
	if len(nonTrivia) < 2 {
		return // malformed `#define` with no name
	}
	nameTok := nonTrivia[1]

	functionLike := false
	for i, t := range ln.Tokens {
		if t == nameTok {
			functionLike = i+1 < len(ln.Tokens) && ln.Tokens[i+1].Type == lexer.TokenType_ParenthesisLeft
			break
		}
	}

	family := symbol.FamilyMacroObject
	if functionLike {
		family = symbol.FamilyMacroFunction
	}

	for _, leaf := range d.root.ActiveLeaves() {
		if leaf.Conditions().IsBottom() {
			continue // unsatisfiable branch: never actually reachable
		}
		sym := &symbol.Symbol{
			Namespace:          symbol.NamespaceOrdinary,
			Identifier:         nameTok.Content,
			Family:             family,
			ExistenceCondition: leaf.Conditions(),
			Linkage:            symbol.LinkageNone,
			Definitions:        []symbol.Site{{File: d.mainFile, Line: line}},
		}
		if _, err := d.index.Announce(sym); err != nil {
			d.warn(err)
		}
	}
}

// undefMacro handles `#undef NAME`. The condition algebra models which
// preprocessor configurations exist, not the sequencing of definedness
// within one configuration, so an #undef does not retract the Announce
// already made for an earlier #define in the same branch (no full
// macro-expansion simulation here); it only needs to parse cleanly so it
// does not fall through to statement parsing.
func (d *Driver) undefMacro(rest []lexer.Token) {
	_ = rest
}
