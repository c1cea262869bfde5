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
	"strings"

	"github.com/branchcc/branchcc/internal/branch"
	"github.com/branchcc/branchcc/internal/lexer"
	"github.com/branchcc/branchcc/internal/scope"
	"github.com/branchcc/branchcc/internal/symbol"
)

// pursueToken dispatches tok to whatever handling its branch's current scope
// frame calls for. Only file-scope declarations are parsed in full; a
// function's body, once its signature is complete, is swallowed by brace
// depth rather than individually parsed, since this is not a whole-program
// type checker.
func (d *Driver) pursueToken(b *branch.Branch, tok lexer.Token, line int) error {
	cur := b.ScopeStack().CurrentScope()
	switch cur.Kind() {
	case scope.KindTranslationUnit:
		if tok.Type == lexer.TokenType_Semicolon {
			return nil // stray top-level ';'
		}
		b.ScopeStack().EnterScope(&scope.ArisingSpecification{})
		return d.pursueToken(b, tok, line)
	case scope.KindArisingSpecification:
		return d.pursueArising(b, cur.(*scope.ArisingSpecification), tok, line)
	case scope.KindFunctionSignature:
		return d.pursueSignature(b, cur.(*scope.FunctionSignatureFrame), tok)
	default:
		return nil
	}
}

func isKeyword(content string) bool {
	if _, ok := storageClassKeywords[content]; ok {
		return true
	}
	return typeSpecifierKeywords[content] || qualifierKeywords[content] || tagKeywords[content]
}

func (d *Driver) pursueArising(b *branch.Branch, frame *scope.ArisingSpecification, tok lexer.Token, line int) error {
	if frame.BodyDepth > 0 {
		switch tok.Type {
		case lexer.TokenType_BraceLeft:
			frame.BodyDepth++
		case lexer.TokenType_BraceRight:
			frame.BodyDepth--
		}
		return nil
	}
	if frame.FunctionBodyDepth > 0 {
		switch tok.Type {
		case lexer.TokenType_BraceLeft:
			frame.FunctionBodyDepth++
		case lexer.TokenType_BraceRight:
			frame.FunctionBodyDepth--
			if frame.FunctionBodyDepth == 0 {
				b.ScopeStack().LeaveScope()
			}
		}
		return nil
	}

	switch tok.Type {
	case lexer.TokenType_Identifier:
		d.pursueIdentifier(b, frame, tok)
	case lexer.TokenType_Symbol:
		switch tok.Content {
		case "*":
			frame.PointerDepth++
		case "=":
			frame.InInitializer = true
			frame.InitializerDepth = 0
		}
	case lexer.TokenType_ParenthesisLeft:
		if frame.InInitializer {
			frame.InitializerDepth++
			return nil
		}
		if frame.Identifier != "" && frame.Signature == nil && !frame.InInitializer {
			sig := &scope.FunctionSignatureFrame{OpenParen: &tok}
			frame.Signature = sig
			frame.IsFunction = true
			b.ScopeStack().EnterScope(sig)
		}
		// a grouping paren around a declarator (`int (*fp)(void)`) or a call
		// inside an initializer is otherwise transparent to this simplified
		// declarator state machine.
	case lexer.TokenType_ParenthesisRight, lexer.TokenType_BraceRight:
		if frame.InInitializer && frame.InitializerDepth > 0 {
			frame.InitializerDepth--
		}
	case lexer.TokenType_BraceLeft:
		switch {
		case frame.InInitializer:
			frame.InitializerDepth++
		case frame.TagName != "" && !frame.TagBodySeen:
			frame.TagBodySeen = true
			frame.BodyDepth = 1
		case frame.IsFunction && frame.Signature != nil && frame.Signature.Complete():
			d.finalizeDeclarator(b, frame, line, true)
			frame.FunctionBodyDepth = 1
		}
	case lexer.TokenType_Comma:
		if frame.InInitializer && frame.InitializerDepth > 0 {
			return nil // a comma inside `= {1, 2}` or a call does not end the declarator list
		}
		d.finalizeDeclarator(b, frame, line, false)
		frame.ResetDeclarator()
	case lexer.TokenType_Semicolon:
		d.finalizeDeclarator(b, frame, line, false)
		b.ScopeStack().LeaveScope()
	}
	return nil
}

func (d *Driver) pursueIdentifier(b *branch.Branch, frame *scope.ArisingSpecification, tok lexer.Token) {
	content := tok.Content

	if frame.Identifier == "" && !frame.InInitializer {
		if sc, ok := storageClassKeywords[content]; ok {
			frame.StorageClass = sc
			return
		}
		if typeSpecifierKeywords[content] {
			frame.TypeSpecifiers = append(frame.TypeSpecifiers, content)
			return
		}
		if qualifierKeywords[content] {
			frame.Qualifiers = append(frame.Qualifiers, content)
			return
		}
		if tagKeywords[content] && frame.TagName == "" {
			frame.PendingTagKeyword = content
			return
		}
		if frame.PendingTagKeyword != "" && frame.TagName == "" {
			frame.TagName = content
			frame.TagKeyword = frame.PendingTagKeyword
			frame.PendingTagKeyword = ""
			return
		}
		if len(frame.TypeSpecifiers) == 0 && frame.TagKeyword == "" && d.isKnownTypedef(content) {
			// the "typedef name problem": a prior `typedef` makes this
			// identifier act as a type specifier rather than a declarator.
			frame.TypeSpecifiers = append(frame.TypeSpecifiers, content)
			return
		}
		frame.Identifier = content
		return
	}
	// additional bare identifiers after the declarator name (e.g. stray
	// K&R-style tokens) carry no further information in this simplified
	// model and are ignored.
}

var typedefFamily = symbol.FamilyTypedef

// isKnownTypedef reports whether name has already been announced as a
// typedef anywhere in the translation unit (under any condition): resolving
// this precisely would require tracking which branch's condition makes the
// typedef visible at this point, which the data model does not need for
// existence labeling, so this is a deliberately permissive over-approximation.
func (d *Driver) isKnownTypedef(name string) bool {
	found := d.index.Find(symbol.Criteria{Identifier: name, Namespace: symbol.NamespaceOrdinary, FamilyFilter: &typedefFamily})
	return len(found) > 0
}

func (d *Driver) pursueSignature(b *branch.Branch, sig *scope.FunctionSignatureFrame, tok lexer.Token) error {
	switch tok.Type {
	case lexer.TokenType_Comma:
		d.flushParam(b, sig)
	case lexer.TokenType_ParenthesisRight:
		d.flushParam(b, sig)
		closing := tok
		sig.CloseParen = &closing
		b.ScopeStack().LeaveScope()
	default:
		b.PendingTokens().Push(tok)
	}
	return nil
}

func (d *Driver) flushParam(b *branch.Branch, sig *scope.FunctionSignatureFrame) {
	tokens := b.PendingTokens().Tokens()
	b.PendingTokens().Clear()

	nonTrivia := make([]lexer.Token, 0, len(tokens))
	for _, t := range tokens {
		if !t.Type.IsTrivia() {
			nonTrivia = append(nonTrivia, t)
		}
	}
	if len(nonTrivia) == 0 {
		return
	}
	if len(nonTrivia) == 1 && nonTrivia[0].Content == "void" {
		return // `f(void)`: no parameters
	}

	typeTokens := nonTrivia
	name := ""
	if last := nonTrivia[len(nonTrivia)-1]; last.Type == lexer.TokenType_Identifier && !isKeyword(last.Content) {
		name = last.Content
		typeTokens = nonTrivia[:len(nonTrivia)-1]
	}

	sc := scope.StorageClassNone
	if len(typeTokens) > 0 {
		if rsc, ok := storageClassKeywords[typeTokens[0].Content]; ok && rsc == scope.StorageClassRegister {
			sc = scope.StorageClassRegister
			typeTokens = typeTokens[1:]
		}
	}

	parts := make([]string, len(typeTokens))
	for i, t := range typeTokens {
		parts[i] = t.Content
	}
	sig.AddParam(strings.Join(parts, " "), name, sc)
}

func tagFamily(keyword string) symbol.Family {
	switch keyword {
	case "union":
		return symbol.FamilyTagUnion
	case "enum":
		return symbol.FamilyTagEnum
	default:
		return symbol.FamilyTagStruct
	}
}

func buildTypeSpelling(frame *scope.ArisingSpecification) string {
	var parts []string
	parts = append(parts, frame.Qualifiers...)
	if frame.TagKeyword != "" {
		parts = append(parts, frame.TagKeyword, frame.TagName)
	}
	parts = append(parts, frame.TypeSpecifiers...)
	spelling := strings.Join(parts, " ") + strings.Repeat("*", frame.PointerDepth)
	if frame.IsFunction && frame.Signature != nil {
		paramTypes := make([]string, len(frame.Signature.Params))
		for i, p := range frame.Signature.Params {
			paramTypes[i] = p.Type
		}
		spelling += "(" + strings.Join(paramTypes, ", ") + ")"
	}
	return spelling
}

// finalizeDeclarator announces the symbol(s) implied by frame's accumulated
// state into the driver's index: a tag symbol if a
// struct/union/enum tag was named (at most once per arising specification),
// and an ordinary symbol if a declarator name was given. forceDefinition is
// set by the function-body '{' case, where the declaration is unambiguously
// a definition regardless of whether an initializer was seen.
func (d *Driver) finalizeDeclarator(b *branch.Branch, frame *scope.ArisingSpecification, line int, forceDefinition bool) {
	cond := b.Conditions()
	if cond.IsBottom() {
		// b's accumulated condition is unsatisfiable (e.g. a nested #if
		// whose conjunction with an enclosing #elif's negation can never
		// hold): the branch still exists so sibling join bookkeeping stays
		// consistent, but nothing parsed under it can ever be reached, so
		// it must not be announced into the index.
		return
	}
	site := symbol.Site{File: d.mainFile, Line: line}

	if frame.TagName != "" && !frame.TagAnnounced {
		tagSym := &symbol.Symbol{
			Namespace:          symbol.NamespaceTag,
			Identifier:         frame.TagName,
			Family:             tagFamily(frame.TagKeyword),
			ExistenceCondition: cond,
			Type:               symbol.TypeInfo{Spelling: frame.TagKeyword + " " + frame.TagName},
		}
		if frame.TagBodySeen {
			tagSym.Definitions = append(tagSym.Definitions, site)
		} else {
			tagSym.Declarations = append(tagSym.Declarations, site)
		}
		if _, err := d.index.Announce(tagSym); err != nil {
			d.warn(err)
		}
		frame.TagAnnounced = true
	}

	if frame.Identifier == "" {
		return // tag-only declaration, e.g. `struct foo;` or `struct foo { ... };`
	}

	family := symbol.FamilyVariable
	linkage := symbol.LinkageExternal
	switch frame.StorageClass {
	case scope.StorageClassTypedef:
		family = symbol.FamilyTypedef
		linkage = symbol.LinkageTypedefName
	case scope.StorageClassStatic:
		linkage = symbol.LinkageInternal
	case scope.StorageClassExtern, scope.StorageClassNone, scope.StorageClassRegister:
		linkage = symbol.LinkageExternal
	}
	if frame.IsFunction {
		family = symbol.FamilyFunction
	}

	sym := &symbol.Symbol{
		Namespace:          symbol.NamespaceOrdinary,
		Identifier:         frame.Identifier,
		Family:             family,
		ExistenceCondition: cond,
		Linkage:            linkage,
		StorageClass:       int(frame.StorageClass),
		Type:               symbol.TypeInfo{Spelling: buildTypeSpelling(frame)},
	}
	if forceDefinition || frame.InInitializer {
		sym.Definitions = append(sym.Definitions, site)
	} else {
		sym.Declarations = append(sym.Declarations, site)
	}
	if _, err := d.index.Announce(sym); err != nil {
		d.warn(err)
	}
}
