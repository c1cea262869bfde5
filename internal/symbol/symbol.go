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

// Package symbol implements the condition-qualified symbol index: the map
// from (namespace, identifier) to the set of symbols the source can declare
// or define under some preprocessor configuration, each carrying the
// condition under which it exists.
package symbol

import "github.com/branchcc/branchcc/internal/condition"

// Family is the kind of entity a Symbol names.
type Family int

const (
	FamilyFunction Family = iota
	FamilyVariable
	FamilyTypedef
	FamilyTagStruct
	FamilyTagUnion
	FamilyTagEnum
	FamilyEnumConstant
	FamilyMacroObject
	FamilyMacroFunction
	FamilyLabel
)

func (f Family) String() string {
	switch f {
	case FamilyFunction:
		return "function"
	case FamilyVariable:
		return "variable"
	case FamilyTypedef:
		return "typedef"
	case FamilyTagStruct:
		return "struct"
	case FamilyTagUnion:
		return "union"
	case FamilyTagEnum:
		return "enum"
	case FamilyEnumConstant:
		return "enum-constant"
	case FamilyMacroObject:
		return "macro-object"
	case FamilyMacroFunction:
		return "macro-function"
	case FamilyLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Namespace is derived from Family per C's namespace rules: tags
// (struct/union/enum) live in their own namespace, labels in another, and
// everything else (ordinary identifiers: functions, variables, typedefs,
// enum constants, macros) shares the ordinary namespace.
type Namespace int

const (
	NamespaceOrdinary Namespace = iota
	NamespaceTag
	NamespaceLabel
)

// NamespaceOf returns the Namespace a symbol of the given Family is declared
// into.
func NamespaceOf(f Family) Namespace {
	switch f {
	case FamilyTagStruct, FamilyTagUnion, FamilyTagEnum:
		return NamespaceTag
	case FamilyLabel:
		return NamespaceLabel
	default:
		return NamespaceOrdinary
	}
}

// Linkage is a symbol's linkage as determined on arising-specification
// finalization.
type Linkage int

const (
	LinkageNone Linkage = iota
	LinkageInternal
	LinkageExternal
	LinkageTypedefName
)

// TypeInfo is a shape-only description of a symbol's type, sufficient to
// distinguish a redeclaration from a conflicting declaration without
// performing real type checking.
type TypeInfo struct {
	// Spelling is the normalized textual type, e.g. "int", "struct foo *",
	// "int(int, char *)" for a function signature's parameter/return shape.
	Spelling string
}

// Declaration or Definition site, recorded for diagnostics/output.
type Site struct {
	File string
	Line int
}

// Symbol is one entry in the index: an identifier of a given Family in a
// given Namespace, carrying the condition under which it exists and the
// sites where it was declared or defined.
type Symbol struct {
	Namespace         Namespace
	Identifier        string
	Family            Family
	ExistenceCondition condition.Condition
	Declarations      []Site
	Definitions       []Site
	Linkage           Linkage
	StorageClass      int // mirrors scope.StorageClass; kept untyped to avoid an import cycle
	Type              TypeInfo
}

// StructurallyEqual compares the fields that determine whether two Symbols
// with the same (namespace, identifier) are redeclarations of the same
// entity rather than conflicting definitions.
func (s *Symbol) StructurallyEqual(other *Symbol) bool {
	return s.Family == other.Family &&
		s.Linkage == other.Linkage &&
		s.StorageClass == other.StorageClass &&
		s.Type == other.Type
}
