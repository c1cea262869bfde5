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

// Assignment is a partial truth assignment over a Universe's atoms, used by
// consumers (the `--assume`/`--assume-def` CLI flags) to rank or filter
// symbols without forcing the symbol index itself to commit to one
// configuration. Atoms absent from the assignment are unknown, not false.
type Assignment struct {
	values map[int]bool // atom id -> assumed truth value
}

// NewAssignment returns an empty assignment.
func NewAssignment() *Assignment {
	return &Assignment{values: make(map[int]bool)}
}

// Assume records that atom is assumed true (or false, when value is false).
func (as *Assignment) Assume(atom *Atom, value bool) {
	as.values[atom.id] = value
}

// Satisfies reports whether c is satisfiable given the assumptions in as.
// Unassigned atoms are treated as free: a cube is considered reachable under
// as unless one of its literals directly contradicts an assumption.
func (as *Assignment) Satisfies(c Condition) bool {
	if c.IsUnconditional() {
		return true
	}
	for _, cube := range c.cubes {
		if as.cubeReachable(cube) {
			return true
		}
	}
	return false
}

func (as *Assignment) cubeReachable(cube Cube) bool {
	for _, lit := range cube {
		if assumed, ok := as.values[lit.Atom.id]; ok {
			wantTrue := !lit.Negated
			if assumed != wantTrue {
				return false
			}
		}
	}
	return true
}
