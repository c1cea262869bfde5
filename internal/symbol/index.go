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

package symbol

import (
	"fmt"

	"github.com/branchcc/branchcc/internal/collections"
	"github.com/branchcc/branchcc/internal/condition"
)

// ConflictError reports a structural conflict between a newly-arising
// symbol and an already-indexed one with the same namespace and identifier,
// whether or not their existence conditions overlap.
type ConflictError struct {
	Identifier string
	Namespace  Namespace
	Existing   *Symbol
	Arising    *Symbol
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting symbols at %s", e.Identifier)
}

type key struct {
	namespace  Namespace
	identifier string
}

// Index maps (namespace, identifier) to the set of Symbols the source may
// declare or define under some preprocessor configuration. It is shared by
// every branch of one translation unit; the cooperative single-threaded
// schedule serializes writes, so Index itself does no locking.
type Index struct {
	byKey map[key][]*Symbol
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{byKey: make(map[key][]*Symbol)}
}

// Criteria filters Find results. Identifier == "" matches every identifier;
// Namespace is always matched exactly, so its zero value selects the
// ordinary namespace; Family is filtered only when FamilyFilter is non-nil.
type Criteria struct {
	Identifier   string
	Namespace    Namespace
	FamilyFilter *Family
}

func (c Criteria) matches(s *Symbol) bool {
	if c.Identifier != "" && s.Identifier != c.Identifier {
		return false
	}
	if s.Namespace != c.Namespace {
		return false
	}
	if c.FamilyFilter != nil && s.Family != *c.FamilyFilter {
		return false
	}
	return true
}

// Find returns every indexed Symbol matching criteria.
func (idx *Index) Find(criteria Criteria) []*Symbol {
	return collections.FilterSlice(idx.All(), criteria.matches)
}

// All returns every Symbol in the index, in no particular order.
func (idx *Index) All() []*Symbol {
	groups := make([][]*Symbol, 0, len(idx.byKey))
	for _, symbols := range idx.byKey {
		groups = append(groups, symbols)
	}
	return collections.FlatMapSlice(groups, func(g []*Symbol) []*Symbol { return g })
}

// Announce inserts a newly-arising symbol s' (under its own
// ExistenceCondition c') against the set of already-indexed symbols sharing
// its (identifier, namespace), applying the condition-aware merge rules.
// It returns the canonical Symbol (which may be an existing one,
// mutated in place) and, if the insertion surfaces a genuine conflict, a
// *ConflictError (the canonical symbol is still returned: callers decide
// whether to treat the conflict as fatal).
func (idx *Index) Announce(arising *Symbol) (*Symbol, error) {
	k := key{namespace: arising.Namespace, identifier: arising.Identifier}
	existing := idx.byKey[k]

	var implies, implied, independent []*Symbol
	cPrime := arising.ExistenceCondition
	for _, s := range existing {
		c := s.ExistenceCondition
		switch {
		case c.Implies(cPrime):
			implies = append(implies, s)
		case cPrime.Implies(c):
			implied = append(implied, s)
		default:
			independent = append(independent, s)
		}
	}

	if len(implies) > 0 && len(implied) > 0 {
		return nil, fmt.Errorf("symbol %s: algebra produced both an implying and an implied existing symbol; this indicates a duplicate-declaration conflict or a condition-algebra incompleteness bug", arising.Identifier)
	}

	if len(implies) == 1 {
		s := implies[0]
		if s.StructurallyEqual(arising) {
			return s, nil
		}
		return s, &ConflictError{Identifier: arising.Identifier, Namespace: arising.Namespace, Existing: s, Arising: arising}
	}
	if len(implies) > 1 {
		return implies[0], fmt.Errorf("symbol %s: more than one existing symbol implies the arising condition", arising.Identifier)
	}

	if len(implied) == 1 {
		s := implied[0]
		if !s.StructurallyEqual(arising) {
			return s, &ConflictError{Identifier: arising.Identifier, Namespace: arising.Namespace, Existing: s, Arising: arising}
		}
		s.ExistenceCondition = condition.Conjunction(s.ExistenceCondition, cPrime)
		s.Declarations = append(s.Declarations, arising.Declarations...)
		s.Definitions = append(s.Definitions, arising.Definitions...)
		return s, nil
	}
	if len(implied) > 1 {
		return implied[0], fmt.Errorf("symbol %s: more than one existing symbol is implied by the arising condition", arising.Identifier)
	}

	// Only independent symbols (or none) remain: look for a structurally
	// equal one to widen by disjunction.
	for _, s := range independent {
		if s.StructurallyEqual(arising) {
			s.ExistenceCondition = condition.Disjunction(s.ExistenceCondition, cPrime)
			s.Declarations = append(s.Declarations, arising.Declarations...)
			s.Definitions = append(s.Definitions, arising.Definitions...)
			return s, nil
		}
	}

	// No structurally equal sibling: reusing the same identifier+namespace
	// with an incompatible shape anywhere in the translation unit is a
	// conflict even when the two conditions happen not to overlap, e.g.
	// `int x` under A and `float x` under !A.
	if len(independent) > 0 {
		return independent[0], &ConflictError{Identifier: arising.Identifier, Namespace: arising.Namespace, Existing: independent[0], Arising: arising}
	}

	idx.byKey[k] = append(idx.byKey[k], arising)
	return arising, nil
}
