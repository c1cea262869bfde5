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

package condition

import (
	"sort"
	"strings"
)

// Literal is a possibly-negated atom appearing in a conjunction cube.
type Literal struct {
	Atom    *Atom
	Negated bool
}

func (l Literal) String() string {
	if l.Negated {
		return "!(" + l.Atom.String() + ")"
	}
	return l.Atom.String()
}

// Cube is a conjunction of literals. A nil/empty Cube represents the
// always-true conjunction (the empty AND).
type Cube []Literal

func (c Cube) String() string {
	if len(c) == 0 {
		return "true"
	}
	parts := make([]string, len(c))
	for i, lit := range c {
		parts[i] = lit.String()
	}
	return strings.Join(parts, " && ")
}

// Condition is a boolean expression over Predicates in disjunctive normal
// form: a disjunction of conjunction-cubes, each cube subsumption-reduced
// against its siblings. Two Conditions built from the same Universe compare
// structurally via Equivalent.
//
// The zero value is not a valid Condition; use Bottom, Top, or a
// Universe-derived atom's Cond().
type Condition struct {
	cubes []Cube // canonical: sorted, deduplicated, subsumption-reduced
}

// Bottom is the condition that is never satisfiable (⊥).
func Bottom() Condition { return Condition{} }

// Top is the unconditionally-true condition (⊤).
func Top() Condition { return Condition{cubes: []Cube{{}}} }

// Cond returns the unit condition consisting of the single positive literal
// for this atom.
func (a *Atom) Cond() Condition {
	return Condition{cubes: []Cube{{{Atom: a}}}}
}

// IsBottom reports whether c is the unsatisfiable condition.
func (c Condition) IsBottom() bool { return len(c.cubes) == 0 }

// IsUnconditional reports whether c is equivalent to ⊤. A single empty cube
// is recognized directly; any other satisfiable c is checked by testing
// whether its Complement is unsatisfiable, so tautologies such as a || !a
// are recognized too.
func (c Condition) IsUnconditional() bool {
	if len(c.cubes) == 1 && len(c.cubes[0]) == 0 {
		return true
	}
	return !c.IsBottom() && Complement(c).IsBottom()
}

func cubeLiteralKey(lit Literal) (int, bool) { return lit.Atom.id, lit.Negated }

// canonicalCube sorts a cube's literals by atom id for order-independent
// comparison and dedupes exact-duplicate literals.
func canonicalCube(c Cube) (Cube, bool) {
	sorted := append(Cube(nil), c...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Atom.id != sorted[j].Atom.id {
			return sorted[i].Atom.id < sorted[j].Atom.id
		}
		return !sorted[i].Negated && sorted[j].Negated
	})
	out := sorted[:0:0]
	seen := map[int]bool{} // atom id -> negated, to detect contradictions
	for _, lit := range sorted {
		if len(out) > 0 {
			last := out[len(out)-1]
			if last.Atom.id == lit.Atom.id && last.Negated == lit.Negated {
				continue // duplicate literal
			}
		}
		if neg, ok := seen[lit.Atom.id]; ok && neg != lit.Negated {
			return nil, false // p && !p: cube is unsatisfiable
		}
		seen[lit.Atom.id] = lit.Negated
		out = append(out, lit)
	}
	return out, true
}

// subset reports whether every literal in a also appears in b; a and b must
// already be canonicalCube results (sorted, deduped).
func subset(a, b Cube) bool {
	if len(a) > len(b) {
		return false
	}
	bi := 0
	for _, la := range a {
		found := false
		for bi < len(b) {
			lb := b[bi]
			if lb.Atom.id == la.Atom.id && lb.Negated == la.Negated {
				found = true
				bi++
				break
			}
			if lb.Atom.id > la.Atom.id {
				break
			}
			bi++
		}
		if !found {
			return false
		}
	}
	return true
}

func cubeLess(a, b Cube) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for i := range a {
		ka, na := cubeLiteralKey(a[i])
		kb, nb := cubeLiteralKey(b[i])
		if ka != kb {
			return ka < kb
		}
		if na != nb {
			return !na
		}
	}
	return false
}

func cubeEqual(a, b Cube) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Atom.id != b[i].Atom.id || a[i].Negated != b[i].Negated {
			return false
		}
	}
	return true
}

// normalize canonicalizes each cube, drops unsatisfiable ones, deduplicates,
// and eliminates any cube subsumed by a more general sibling cube (a cube
// whose literal set is a subset of it: the superset cube is redundant since
// its disjunct is already covered).
func normalize(cubes []Cube) Condition {
	canon := make([]Cube, 0, len(cubes))
	for _, c := range cubes {
		if cc, ok := canonicalCube(c); ok {
			canon = append(canon, cc)
		}
	}
	sort.Slice(canon, func(i, j int) bool { return cubeLess(canon[i], canon[j]) })

	deduped := canon[:0:0]
	for i, c := range canon {
		if i > 0 && cubeEqual(c, canon[i-1]) {
			continue
		}
		deduped = append(deduped, c)
	}

	kept := make([]Cube, 0, len(deduped))
	for i, c := range deduped {
		subsumed := false
		for j, other := range deduped {
			if i == j {
				continue
			}
			if len(other) < len(c) && subset(other, c) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			kept = append(kept, c)
		}
	}
	return Condition{cubes: kept}
}

func mergeCubes(a, b Cube) (Cube, bool) {
	merged := make(Cube, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	return canonicalCube(merged)
}

// Conjunction returns a && b.
func Conjunction(a, b Condition) Condition {
	if a.IsBottom() || b.IsBottom() {
		return Bottom()
	}
	var cubes []Cube
	for _, ca := range a.cubes {
		for _, cb := range b.cubes {
			if merged, ok := mergeCubes(ca, cb); ok {
				cubes = append(cubes, merged)
			}
		}
	}
	return normalize(cubes)
}

// Disjunction returns a || b.
func Disjunction(a, b Condition) Condition {
	cubes := make([]Cube, 0, len(a.cubes)+len(b.cubes))
	cubes = append(cubes, a.cubes...)
	cubes = append(cubes, b.cubes...)
	return normalize(cubes)
}

// DisjunctionAll folds Disjunction across cs, returning Bottom for an empty slice.
func DisjunctionAll(cs ...Condition) Condition {
	result := Bottom()
	for _, c := range cs {
		result = Disjunction(result, c)
	}
	return result
}

// Complement returns ¬a, computed by distributing De Morgan's law over a's
// cubes: ¬(c1 || c2 || ...) == ¬c1 && ¬c2 && ..., where each ¬ci is itself a
// disjunction of single-literal cubes (the negation of a conjunction is a
// disjunction of negated conjuncts).
func Complement(a Condition) Condition {
	if a.IsBottom() {
		return Top()
	}
	if len(a.cubes) == 1 && len(a.cubes[0]) == 0 {
		return Bottom()
	}
	result := Top()
	for _, cube := range a.cubes {
		clauseCubes := make([]Cube, 0, len(cube))
		for _, lit := range cube {
			clauseCubes = append(clauseCubes, Cube{{Atom: lit.Atom, Negated: !lit.Negated}})
		}
		result = Conjunction(result, normalize(clauseCubes))
		if result.IsBottom() {
			return Bottom()
		}
	}
	return result
}

// Implies reports whether a implies b: a && !b is unsatisfiable. This check
// is exact (the underlying DNF operations never lose information), so it is
// both sound and complete, exceeding the minimum soundness-only bar the
// algebra is required to meet.
func (a Condition) Implies(b Condition) bool {
	return Conjunction(a, Complement(b)).IsBottom()
}

// Equivalent reports whether a and b denote the same set of satisfying
// assignments. Never returns true for non-equivalent conditions.
func (a Condition) Equivalent(b Condition) bool {
	if a.canonicalEqual(b) {
		return true
	}
	return a.Implies(b) && b.Implies(a)
}

func (a Condition) canonicalEqual(b Condition) bool {
	if len(a.cubes) != len(b.cubes) {
		return false
	}
	for i := range a.cubes {
		if !cubeEqual(a.cubes[i], b.cubes[i]) {
			return false
		}
	}
	return true
}

func (c Condition) String() string {
	if c.IsBottom() {
		return "false"
	}
	if c.IsUnconditional() {
		return "true"
	}
	parts := make([]string, len(c.cubes))
	for i, cube := range c.cubes {
		if len(cube) > 1 {
			parts[i] = "(" + cube.String() + ")"
		} else {
			parts[i] = cube.String()
		}
	}
	return strings.Join(parts, " || ")
}

// Not is shorthand for Complement(a).
func Not(a Condition) Condition { return Complement(a) }

// And is shorthand for Conjunction(a, b).
func And(a, b Condition) Condition { return Conjunction(a, b) }

// Or is shorthand for Disjunction(a, b).
func Or(a, b Condition) Condition { return Disjunction(a, b) }
