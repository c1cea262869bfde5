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

// Package driver implements the parser driver: it feeds LogicalLines to the
// current set of active compilation branches, translates preprocessor
// conditional directives into branch fork/join operations, and drives
// declaration accumulation into the symbol index via the
// arising-specification state machine.
package driver

import (
	"fmt"
	"iter"
	"log"

	"github.com/branchcc/branchcc/internal/branch"
	"github.com/branchcc/branchcc/internal/condition"
	"github.com/branchcc/branchcc/internal/lexer"
	"github.com/branchcc/branchcc/internal/scope"
	"github.com/branchcc/branchcc/internal/symbol"
	"github.com/branchcc/branchcc/internal/track"
)

// condEntry tracks, for one currently-open conditional directive and one
// branch that was an active leaf when it was entered, the running
// disjunction of branching conditions used so far (for computing the next
// #elif/#else/#endif's complement) and whether an #else has fired.
type condEntry struct {
	parent    *branch.Branch
	collected condition.Condition
	hadElse   bool
}

// openConditional is one entry on the driver's nesting stack of
// #if/#ifdef/#ifndef directives not yet closed by a matching #endif. It
// carries one condEntry per branch that was an active leaf at the moment
// the conditional was opened, since an outer conditional may already have
// produced several surviving leaves that each independently fork again at
// a nested conditional.
type openConditional struct {
	entries []*condEntry
}

// StructuralError reports a scope-stack discipline violation (unexpected
// scope state on finalize). It is fatal: it aborts the parse of the
// translation unit.
type StructuralError struct {
	Line int
	Msg  string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error at line %d: %s", e.Line, e.Msg)
}

// Driver is the parser driver for one translation unit: it owns the branch
// tree root, the shared symbol index, the atom universe conditions are
// built against, and an optional branch-track recorder.
type Driver struct {
	universe  *condition.Universe
	root      *branch.Branch
	index     *symbol.Index
	recorder  *track.Recorder
	mainFile  string
	condStack []*openConditional
	warnings  []error
}

// NewDriver returns a Driver for a translation unit rooted at mainFile.
// rec may be nil, in which case no branch-track events are emitted.
func NewDriver(mainFile string, u *condition.Universe, rec *track.Recorder) *Driver {
	return &Driver{
		universe: u,
		root:     branch.NewRoot(mainFile),
		index:    symbol.NewIndex(),
		recorder: rec,
		mainFile: mainFile,
	}
}

// Universe returns the atom universe this driver builds conditions against.
func (d *Driver) Universe() *condition.Universe { return d.universe }

// Index returns the symbol index populated as the translation unit is parsed.
func (d *Driver) Index() *symbol.Index { return d.index }

// Root returns the root of the branch tree.
func (d *Driver) Root() *branch.Branch { return d.root }

// Warnings returns every branch-local (lexical, conditional-algebra)
// diagnostic collected during parsing; these do not abort the parse.
func (d *Driver) Warnings() []error { return d.warnings }

func (d *Driver) warn(err error) {
	if err == nil {
		return
	}
	d.warnings = append(d.warnings, err)
	log.Printf("WARN: %v", err)
}

type trackObserver struct{ rec *track.Recorder }

func (o trackObserver) OnJoin(first, second, joint *branch.Branch) {
	o.rec.Join(first.ID(), second.ID(), joint.ID(), joint.BranchingCondition())
}

func (o trackObserver) OnJoinForks(parent, fork *branch.Branch) {
	o.rec.JoinForks(parent.ID(), fork.ID())
}

// ParseLogicalLines feeds every LogicalLine in lines to the driver in
// order, forking/joining branches at conditional directives and
// accumulating declarations on every other line. Returns a *StructuralError
// if scope-stack discipline is violated; lexical and conditional-algebra
// problems are collected as Warnings instead.
func (d *Driver) ParseLogicalLines(lines iter.Seq[lexer.LogicalLine]) (err error) {
	// Scope-stack discipline violations (e.g. popping the root frame)
	// panic from within scope.Stack.LeaveScope deep in the call stack; they are
	// recovered here at the translation-unit boundary into a fatal
	// *StructuralError rather than crashing the whole CLI invocation.
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*StructuralError); ok {
				err = se
				return
			}
			err = &StructuralError{Msg: fmt.Sprintf("%v", r)}
		}
	}()

	obs := trackObserver{rec: d.recorder}
	for ln := range lines {
		if lerr := d.pursueLine(ln); lerr != nil {
			if se, ok := lerr.(*StructuralError); ok {
				return se
			}
			d.warn(lerr)
		}
		for d.root.ConsolidateBranches(obs) {
		}
	}
	d.reportDangling()
	return nil
}

// reportDangling emits a track.KindEOFDangling event for every branch still
// active at end of input: some #if never reached a matching #endif.
func (d *Driver) reportDangling() {
	if len(d.condStack) == 0 {
		return
	}
	for _, leaf := range d.root.ActiveLeaves() {
		d.recorder.EOFDangling(leaf.ID(), leaf.Conditions())
	}
}

func (d *Driver) pursueLine(ln lexer.LogicalLine) error {
	nonTrivia := ln.NonTrivia()
	if len(nonTrivia) == 0 {
		return nil
	}
	first := nonTrivia[0]
	if first.Type.IsPreprocessorDirective() {
		return d.pursueDirective(ln, nonTrivia)
	}
	return d.pursueStatementLine(ln, nonTrivia)
}

func (d *Driver) pursueStatementLine(ln lexer.LogicalLine, nonTrivia []lexer.Token) error {
	leaves := d.root.ActiveLeaves()
	for _, leaf := range leaves {
		d.recorder.LogicLinePursue(leaf.ID(), renderLine(nonTrivia))
		for _, tok := range nonTrivia {
			if err := d.pursueToken(leaf, tok, ln.FirstCursor.Line); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderLine(tokens []lexer.Token) string {
	s := ""
	for i, t := range tokens {
		if i > 0 {
			s += " "
		}
		s += t.Content
	}
	return s
}

// --- conditional directive handling ---

func (d *Driver) pursueDirective(ln lexer.LogicalLine, nonTrivia []lexer.Token) error {
	rest := nonTrivia[1:]
	switch nonTrivia[0].Type {
	case lexer.TokenType_PreprocessorIf:
		cond, err := ParseCondition(d.universe, rest)
		if err != nil {
			// The branch this directive would have opened is a dead end:
			// warn and open it as unsatisfiable instead of bailing out, so
			// the #elif/#else/#endif bookkeeping stays balanced and sibling
			// branches are unaffected.
			d.warn(fmt.Errorf("line %d: #if: %w", ln.FirstCursor.Line, err))
			cond = condition.Bottom()
		}
		d.openIf(cond, "#if", ln.FirstCursor.Line)
	case lexer.TokenType_PreprocessorIfdef:
		cond := definedCond(d.universe, rest)
		d.openIf(cond, "#ifdef", ln.FirstCursor.Line)
	case lexer.TokenType_PreprocessorIfndef:
		cond := condition.Complement(definedCond(d.universe, rest))
		d.openIf(cond, "#ifndef", ln.FirstCursor.Line)
	case lexer.TokenType_PreprocessorElif:
		cond, err := ParseCondition(d.universe, rest)
		if err != nil {
			d.warn(fmt.Errorf("line %d: #elif: %w", ln.FirstCursor.Line, err))
			cond = condition.Bottom()
		}
		return d.elif(cond, "#elif", ln.FirstCursor.Line)
	case lexer.TokenType_PreprocessorElifdef:
		return d.elif(definedCond(d.universe, rest), "#elifdef", ln.FirstCursor.Line)
	case lexer.TokenType_PreprocessorElifndef:
		return d.elif(condition.Complement(definedCond(d.universe, rest)), "#elifndef", ln.FirstCursor.Line)
	case lexer.TokenType_PreprocessorElse:
		return d.elseBranch(ln.FirstCursor.Line)
	case lexer.TokenType_PreprocessorEndif:
		return d.endif(ln.FirstCursor.Line)
	case lexer.TokenType_PreprocessorDefine:
		d.defineMacro(ln, ln.FirstCursor.Line)
	case lexer.TokenType_PreprocessorUndef:
		d.undefMacro(rest)
	case lexer.TokenType_PreprocessorInclude, lexer.TokenType_PreprocessorIncludeNext:
		d.recordInclude(rest)
	case lexer.TokenType_PreprocessorPragma, lexer.TokenType_PreprocessorOther:
		// not modeled; no symbol or branch consequence.
	}
	return nil
}

func definedCond(u *condition.Universe, rest []lexer.Token) condition.Condition {
	if len(rest) == 0 {
		return condition.Bottom()
	}
	name := rest[0].Content
	if rest[0].Type == lexer.TokenType_ParenthesisLeft && len(rest) > 1 {
		name = rest[1].Content
	}
	return u.Defined(name).Cond()
}

func (d *Driver) openIf(cond condition.Condition, keyword string, line int) {
	leaves := d.root.ActiveLeaves()
	entries := make([]*condEntry, 0, len(leaves))
	for _, leaf := range leaves {
		child := leaf.Fork(cond, branch.Adducer{Kind: branch.AdducerDirective, Description: keyword, Line: line})
		d.recorder.Fork(leaf.ID(), child.ID(), cond)
		entries = append(entries, &condEntry{parent: leaf, collected: cond})
	}
	d.condStack = append(d.condStack, &openConditional{entries: entries})
}

func (d *Driver) top() (*openConditional, error) {
	if len(d.condStack) == 0 {
		return nil, &StructuralError{Msg: "conditional directive with no matching #if/#ifdef/#ifndef"}
	}
	return d.condStack[len(d.condStack)-1], nil
}

func (d *Driver) elif(cond condition.Condition, keyword string, line int) error {
	top, err := d.top()
	if err != nil {
		return err
	}
	for _, e := range top.entries {
		forks := e.parent.Forks()
		last := forks[len(forks)-1]
		last.Deactivate()
		d.recorder.Deactivate(last.ID())
		branchCond := condition.Conjunction(cond, condition.Complement(e.collected))
		child := e.parent.Fork(branchCond, branch.Adducer{Kind: branch.AdducerDirective, Description: keyword, Line: line})
		d.recorder.Fork(e.parent.ID(), child.ID(), branchCond)
		e.collected = condition.Disjunction(e.collected, cond)
	}
	return nil
}

func (d *Driver) elseBranch(line int) error {
	top, err := d.top()
	if err != nil {
		return err
	}
	for _, e := range top.entries {
		forks := e.parent.Forks()
		last := forks[len(forks)-1]
		last.Deactivate()
		d.recorder.Deactivate(last.ID())
		branchCond := condition.Complement(e.collected)
		child := e.parent.Fork(branchCond, branch.Adducer{Kind: branch.AdducerDirective, Description: "#else", Line: line})
		d.recorder.Fork(e.parent.ID(), child.ID(), branchCond)
		e.hadElse = true
	}
	return nil
}

// endif closes the innermost open conditional. If no #else fired for
// a given entry, a synthetic complement fork is created so code following
// #endif is still explored in the configuration where none of the
// conditional's branches were taken; without this, the "else-less" world
// would simply stop being parsed past #endif. Every fork the conditional
// deactivated when a later #elif/#else superseded it is reactivated here, so
// code after the #endif is parsed under all of the conditional's branches
// and the line-end ConsolidateBranches pass can join the ones that
// reconverged.
func (d *Driver) endif(line int) error {
	top, err := d.top()
	if err != nil {
		return err
	}
	d.condStack = d.condStack[:len(d.condStack)-1]
	for _, e := range top.entries {
		if !e.hadElse {
			complement := condition.Complement(e.collected)
			if !complement.IsBottom() {
				child := e.parent.Fork(complement, branch.Adducer{Kind: branch.AdducerDirective, Description: "#endif(implicit-else)", Line: line})
				d.recorder.Fork(e.parent.ID(), child.ID(), complement)
			}
		}
		for _, f := range e.parent.Forks() {
			if !f.Active() && !f.HasForks() {
				f.Activate()
				d.recorder.Activate(f.ID())
			}
		}
	}
	return nil
}

// recordInclude appends an included path to the shared TranslationUnitFrame.
// The frame instance is shared by every branch (Clone returns itself), so
// recording it once against the root is visible everywhere.
func (d *Driver) recordInclude(rest []lexer.Token) {
	if len(rest) == 0 {
		return
	}
	frame := d.root.ScopeStack().FindScope(func(f scope.Frame) bool {
		_, ok := f.(*scope.TranslationUnitFrame)
		return ok
	})
	tu, ok := frame.(*scope.TranslationUnitFrame)
	if !ok {
		return
	}
	tu.ReachableIncludes = append(tu.ReachableIncludes, rest[0].Content)
}
