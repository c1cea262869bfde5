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
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// conditionComparer treats two Conditions as equal when Equivalent reports
// true, rather than comparing their cube slices structurally: go-cmp's
// default struct-field diffing would reject cube orderings that denote the
// same set of satisfying assignments (testify's ObjectsAreEqual is exactly
// as coarse here), which is the comparison TestDisjunctionListIsOrderAndDuplicateInsensitive needs.
var conditionComparer = cmp.Comparer(func(a, b Condition) bool { return a.Equivalent(b) })

func TestConjunctionDisjunctionIdentities(t *testing.T) {
	u := NewUniverse()
	a := u.Defined("A").Cond()
	b := u.Defined("B").Cond()

	assert.True(t, Conjunction(Top(), a).Equivalent(a))
	assert.True(t, Disjunction(Bottom(), a).Equivalent(a))
	assert.True(t, Conjunction(Bottom(), a).IsBottom())
	assert.True(t, Disjunction(Top(), a).IsUnconditional())
	assert.True(t, Conjunction(a, b).Implies(a))
	assert.True(t, Conjunction(a, b).Implies(b))
	assert.False(t, a.Implies(Conjunction(a, b)))
}

func TestComplementSoundness(t *testing.T) {
	u := NewUniverse()
	a := u.Defined("A").Cond()

	notA := Complement(a)
	assert.True(t, Conjunction(a, notA).IsBottom(), "a && !a must be unsatisfiable")
	assert.True(t, Disjunction(a, notA).IsUnconditional(), "a || !a must be a tautology")
	assert.True(t, Complement(notA).Equivalent(a), "double negation restores the original")
}

func TestComplementOfMultipleCubes(t *testing.T) {
	u := NewUniverse()
	a := u.Defined("A").Cond()
	b := u.Defined("B").Cond()
	aOrB := Disjunction(a, b)

	notAandNotB := Conjunction(Complement(a), Complement(b))
	assert.True(t, Complement(aOrB).Equivalent(notAandNotB))
}

func TestImpliesAndEquivalentReflexiveSymmetric(t *testing.T) {
	u := NewUniverse()
	a := u.Defined("A").Cond()
	b := u.Defined("B").Cond()

	assert.True(t, a.Implies(a))
	assert.True(t, a.Equivalent(a))
	assert.Equal(t, a.Equivalent(b), b.Equivalent(a))
}

func TestEquivalentUnorderedDisjunctionIsIdempotent(t *testing.T) {
	u := NewUniverse()
	a := u.Defined("A").Cond()
	b := u.Defined("B").Cond()

	left := Disjunction(a, b)
	right := Disjunction(b, a)
	assert.True(t, left.Equivalent(right))

	// a || a reduces to a under subsumption.
	assert.True(t, Disjunction(a, a).Equivalent(a))
}

func TestSubsumptionEliminatesRedundantCube(t *testing.T) {
	u := NewUniverse()
	a := u.Defined("A").Cond()
	b := u.Defined("B").Cond()

	// A || (A && B) == A
	redundant := Disjunction(a, Conjunction(a, b))
	assert.True(t, redundant.Equivalent(a))
	assert.Equal(t, 1, len(redundant.cubes))
}

func TestElifChainCondition(t *testing.T) {
	// #if A / #elif B / #endif: the #elif branch's condition is B && !A.
	u := NewUniverse()
	a := u.Defined("A").Cond()
	b := u.Defined("B").Cond()

	elifCond := Conjunction(b, Complement(a))
	combined := Disjunction(a, elifCond)
	assert.True(t, combined.Equivalent(Disjunction(a, b)))
}

func TestCompareAtomNegationIsNotStructuralRewrite(t *testing.T) {
	u := NewUniverse()
	ge4 := u.Compare("__GNUC__", ">=", 4).Cond()
	assert.True(t, Conjunction(ge4, Complement(ge4)).IsBottom())
}

// TestDisjunctionListIsOrderAndDuplicateInsensitive folds DisjunctionAll
// over the same three conditions in two different orders, with one
// duplicated; go-cmp's conditionComparer confirms the results are
// equivalent even though their internal cube slices are built differently.
func TestDisjunctionListIsOrderAndDuplicateInsensitive(t *testing.T) {
	u := NewUniverse()
	a := u.Defined("A").Cond()
	b := u.Defined("B").Cond()
	c := u.Defined("C").Cond()

	forward := DisjunctionAll(a, b, c, b)
	shuffled := DisjunctionAll(c, a, a, b)

	if diff := cmp.Diff(forward, shuffled, conditionComparer); diff != "" {
		t.Errorf("disjunction order/duplicates changed the resulting condition (-forward +shuffled):\n%s", diff)
	}
}

// TestImplicationSoundnessRandomAtoms property-tests soundness: whenever
// Implies or Equivalent answers true for a random pair of conditions, a brute-force
// truth-table check over every full assignment of the atom set must agree.
// The algebra is allowed to answer false conservatively, so false answers
// are not cross-checked. The seed is fixed to keep the test deterministic.
func TestImplicationSoundnessRandomAtoms(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	u := NewUniverse()
	atoms := []*Atom{u.Defined("A"), u.Defined("B"), u.Truthy("C"), u.Compare("V", ">=", 4)}

	randomCondition := func() Condition {
		cond := Bottom()
		for range 1 + rng.Intn(3) {
			cube := Top()
			for _, a := range atoms {
				switch rng.Intn(3) {
				case 0:
					cube = Conjunction(cube, a.Cond())
				case 1:
					cube = Conjunction(cube, Complement(a.Cond()))
				}
			}
			cond = Disjunction(cond, cube)
		}
		return cond
	}

	// A full assignment turns Satisfies into exact truth-table evaluation:
	// no atom is left free.
	evalUnder := func(c Condition, bits int) bool {
		as := NewAssignment()
		for i, atom := range atoms {
			as.Assume(atom, bits&(1<<i) != 0)
		}
		return as.Satisfies(c)
	}

	for trial := 0; trial < 300; trial++ {
		a, b := randomCondition(), randomCondition()
		implies := a.Implies(b)
		equivalent := a.Equivalent(b)
		for bits := 0; bits < 1<<len(atoms); bits++ {
			satA, satB := evalUnder(a, bits), evalUnder(b, bits)
			if implies && satA && !satB {
				t.Fatalf("trial %d: Implies returned true but assignment %04b satisfies %v and not %v", trial, bits, a, b)
			}
			if equivalent && satA != satB {
				t.Fatalf("trial %d: Equivalent returned true but assignment %04b distinguishes %v from %v", trial, bits, a, b)
			}
		}
	}
}

func TestAssignmentSatisfies(t *testing.T) {
	u := NewUniverse()
	a := u.Defined("A")
	b := u.Defined("B")
	cond := Disjunction(a.Cond(), Conjunction(b.Cond(), Complement(a.Cond())))

	as := NewAssignment()
	as.Assume(a, true)
	assert.True(t, as.Satisfies(cond))

	as2 := NewAssignment()
	as2.Assume(a, false)
	as2.Assume(b, false)
	assert.False(t, as2.Satisfies(cond))
}
