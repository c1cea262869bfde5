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

// Package scope implements the per-branch scope stack (nested semantic
// contexts) and pending-token buffer that a compilation branch carries
// while it parses. Both are shallow-copied when a branch forks; a mutable
// "arising" frame at the top of the stack is cloned instead of shared so
// that divergent forks never corrupt one another's in-progress state.
package scope

import (
	"slices"

	"github.com/branchcc/branchcc/internal/lexer"
)

// FrameKind tags the variant of a Frame.
type FrameKind int

const (
	KindTranslationUnit FrameKind = iota
	KindArisingSpecification
	KindFunction
	KindCompoundStatement
	KindInitializer
	KindFunctionSignature
)

func (k FrameKind) String() string {
	switch k {
	case KindTranslationUnit:
		return "TranslationUnit"
	case KindArisingSpecification:
		return "ArisingSpecification"
	case KindFunction:
		return "Function"
	case KindCompoundStatement:
		return "CompoundStatement"
	case KindInitializer:
		return "Initializer"
	case KindFunctionSignature:
		return "FunctionSignature"
	default:
		return "Unknown"
	}
}

// Frame is a tagged-variant scope-stack entry. Concrete types implement it
// by returning their own Kind; the parser switches on Kind and then asserts
// the concrete frame type it needs.
type Frame interface {
	Kind() FrameKind
	// Clone returns an independent copy for use in a forked branch. Frames
	// that are logically immutable once pushed (TranslationUnit, Function,
	// CompoundStatement, Initializer) may return themselves;
	// ArisingSpecification and FunctionSignature, whose fields are still
	// being written to while they are open, return a copy.
	Clone() Frame
}

// TranslationUnitFrame is the root of every scope stack.
type TranslationUnitFrame struct {
	MainFile         string
	ReachableIncludes []string
}

func (f *TranslationUnitFrame) Kind() FrameKind { return KindTranslationUnit }
func (f *TranslationUnitFrame) Clone() Frame    { return f }

// StorageClass is the storage-class specifier accumulated on an arising
// specification.
type StorageClass int

const (
	StorageClassNone StorageClass = iota
	StorageClassStatic
	StorageClassExtern
	StorageClassTypedef
	StorageClassRegister
)

// ArisingSpecification accumulates a declaration/definition being built up
// token by token before its declarator is complete. It is the one frame
// kind that must be deep-copied on fork: two branches that diverge after a
// fork must not see each other's subsequent type-specifier or declarator
// tokens.
type ArisingSpecification struct {
	StorageClass  StorageClass
	TypeSpecifiers []string
	Qualifiers    []string
	Identifier    string
	PointerDepth  int
	ArrayDims     int
	IsFunction    bool
	Signature     *FunctionSignatureFrame // non-nil once '(' is seen

	// PendingTagKeyword holds "struct"/"union"/"enum" between that keyword
	// and the tag name token that names it.
	PendingTagKeyword string
	// TagKeyword/TagName are set once a struct/union/enum tag has been
	// named, e.g. "struct" / "foo" for `struct foo { ... } instance;`.
	TagKeyword string
	TagName    string
	// TagBodySeen records whether a `{ ... }` body followed the tag,
	// meaning the tag itself is being defined here rather than merely
	// referenced.
	TagBodySeen bool
	// TagAnnounced guards against re-announcing the same tag once per
	// comma-separated declarator list (`struct foo { ... } a, b;`).
	TagAnnounced bool
	// BodyDepth counts unmatched '{' while swallowing a tag body; member
	// declarations inside are not individually indexed (no whole-program
	// type checking).
	BodyDepth int

	// FunctionBodyDepth counts unmatched '{' while swallowing a function
	// body once its signature is complete; statements inside are not
	// individually parsed, for the same reason as BodyDepth.
	FunctionBodyDepth int

	// InInitializer and InitializerDepth track a `= ...` initializer's
	// token run so that a comma nested inside `{1, 2}` or a call doesn't
	// end the declarator list early.
	InInitializer    bool
	InitializerDepth int
}

func (f *ArisingSpecification) Kind() FrameKind { return KindArisingSpecification }

func (f *ArisingSpecification) Clone() Frame {
	clone := *f
	clone.TypeSpecifiers = append([]string(nil), f.TypeSpecifiers...)
	clone.Qualifiers = append([]string(nil), f.Qualifiers...)
	if f.Signature != nil {
		sigClone := f.Signature.Clone().(*FunctionSignatureFrame)
		clone.Signature = sigClone
	}
	return &clone
}

// StructurallyEqual reports whether two in-progress specifications have
// accumulated identical state. Forking clones the top arising frame, so
// pointer identity alone would leave two branches that reconverged
// mid-declaration unjoinable forever; this comparison lets the consolidator
// treat field-identical clones as the same frame.
func (f *ArisingSpecification) StructurallyEqual(other *ArisingSpecification) bool {
	if f == other {
		return true
	}
	if f == nil || other == nil {
		return false
	}
	if f.StorageClass != other.StorageClass ||
		f.Identifier != other.Identifier ||
		f.PointerDepth != other.PointerDepth ||
		f.ArrayDims != other.ArrayDims ||
		f.IsFunction != other.IsFunction ||
		f.PendingTagKeyword != other.PendingTagKeyword ||
		f.TagKeyword != other.TagKeyword ||
		f.TagName != other.TagName ||
		f.TagBodySeen != other.TagBodySeen ||
		f.TagAnnounced != other.TagAnnounced ||
		f.BodyDepth != other.BodyDepth ||
		f.FunctionBodyDepth != other.FunctionBodyDepth ||
		f.InInitializer != other.InInitializer ||
		f.InitializerDepth != other.InitializerDepth {
		return false
	}
	if !slices.Equal(f.TypeSpecifiers, other.TypeSpecifiers) ||
		!slices.Equal(f.Qualifiers, other.Qualifiers) {
		return false
	}
	return f.Signature.structurallyEqual(other.Signature)
}

// ResetDeclarator clears the per-declarator fields so f can be reused for
// the next name in a comma-separated declarator list, while keeping the
// shared base type (storage class, specifiers, qualifiers, tag).
func (f *ArisingSpecification) ResetDeclarator() {
	f.Identifier = ""
	f.PointerDepth = 0
	f.ArrayDims = 0
	f.IsFunction = false
	f.Signature = nil
	f.InInitializer = false
	f.InitializerDepth = 0
}

// FunctionFrame marks that the enclosing arising specification's linkage is
// `none` (a nested declaration inside a function body).
type FunctionFrame struct {
	Name string
}

func (f *FunctionFrame) Kind() FrameKind { return KindFunction }
func (f *FunctionFrame) Clone() Frame    { return f }

// CompoundStatementFrame represents a `{ ... }` block.
type CompoundStatementFrame struct{}

func (f *CompoundStatementFrame) Kind() FrameKind { return KindCompoundStatement }
func (f *CompoundStatementFrame) Clone() Frame    { return f }

// InitializerFrame represents a `= ...` initializer being parsed.
type InitializerFrame struct {
	Tokens []lexer.Token
}

func (f *InitializerFrame) Kind() FrameKind { return KindInitializer }
func (f *InitializerFrame) Clone() Frame    { return f }

// Param is one parameter accumulated by a FunctionSignatureFrame.
type Param struct {
	Type         string
	Name         string
	StorageClass StorageClass // only StorageClassNone or StorageClassRegister is valid
}

// FunctionSignatureFrame is opened at the function declarator's '(' and
// closed at the matching ')'. It tracks both parenthesis tokens as its
// adducer pair; Complete reports whether both have been seen.
type FunctionSignatureFrame struct {
	Params      []Param
	OpenParen   *lexer.Token
	CloseParen  *lexer.Token
}

func (f *FunctionSignatureFrame) Kind() FrameKind { return KindFunctionSignature }

func (f *FunctionSignatureFrame) Clone() Frame {
	clone := *f
	clone.Params = append([]Param(nil), f.Params...)
	return &clone
}

func (f *FunctionSignatureFrame) structurallyEqual(other *FunctionSignatureFrame) bool {
	if f == other {
		return true
	}
	if f == nil || other == nil {
		return false
	}
	if !slices.Equal(f.Params, other.Params) {
		return false
	}
	return tokenPtrEqual(f.OpenParen, other.OpenParen) && tokenPtrEqual(f.CloseParen, other.CloseParen)
}

func tokenPtrEqual(a, b *lexer.Token) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// AddParam records a parameter declaration. Only `register` is a legal
// parameter storage class; callers must validate before calling this.
func (f *FunctionSignatureFrame) AddParam(typ, name string, sc StorageClass) {
	f.Params = append(f.Params, Param{Type: typ, Name: name, StorageClass: sc})
}

// Complete reports whether both parentheses of the signature have closed.
func (f *FunctionSignatureFrame) Complete() bool {
	return f.OpenParen != nil && f.CloseParen != nil
}
