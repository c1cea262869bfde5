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

package branch

import "fmt"

// ConsolidationObserver is notified of joins as ConsolidateBranches performs
// them, so a caller (the branch-track recorder, C9) can emit its event
// stream without this package needing to import anything about tracking.
// It is entirely optional: omitting it from ConsolidateBranches changes
// nothing about the consolidation itself.
type ConsolidationObserver interface {
	OnJoin(first, second, joint *Branch)
	OnJoinForks(parent, fork *Branch)
}

// ConsolidateBranches recursively walks b's subtree bottom-up: it first
// consolidates every fork's own subtree, then repeatedly tries pairwise
// TryJoin among b's currently-active forks until no more pairs merge, then
// tries TryJoinForks on b itself. It reports whether anything changed, so
// callers (the parser driver) can re-invoke it on the root until a
// fixed point is reached. obs, if given, is notified of every join/
// join-forks this call performs.
func (b *Branch) ConsolidateBranches(obs ...ConsolidationObserver) bool {
	var observer ConsolidationObserver
	if len(obs) > 0 {
		observer = obs[0]
	}

	b.checkForksOrdered()

	progress := false

	for _, f := range b.forks {
		if f.ConsolidateBranches(observer) {
			progress = true
		}
	}

	for joinedPair(b, observer) {
		progress = true
	}

	var solefork *Branch
	if len(b.forks) == 1 {
		solefork = b.forks[0]
	}
	if b.TryJoinForks() {
		progress = true
		if observer != nil {
			observer.OnJoinForks(b, solefork)
		}
	}

	return progress
}

// checkForksOrdered asserts that b.forks is in creation order. Sibling
// pairing in joinedPair depends on this ordering for deterministic results.
// It holds by construction (Fork and TryJoin both append with an increasing
// rank), so a violation is a programming error and panics rather than
// silently misordering.
func (b *Branch) checkForksOrdered() {
	for i := 1; i < len(b.forks); i++ {
		if b.forks[i-1].seq >= b.forks[i].seq {
			panic(fmt.Sprintf("branch %s: forks out of creation order at index %d", b.id, i))
		}
	}
}

// joinedPair attempts one TryJoin among b's currently-active forks and
// reports whether a join happened. Called repeatedly until it returns
// false, since each successful join changes the set of active candidates.
func joinedPair(b *Branch, observer ConsolidationObserver) bool {
	for i := 0; i < len(b.forks); i++ {
		if !b.forks[i].active {
			continue
		}
		for j := i + 1; j < len(b.forks); j++ {
			if !b.forks[j].active {
				continue
			}
			if joint, ok := b.forks[i].TryJoin(b.forks[j]); ok {
				b.forks = append(b.forks, joint)
				if observer != nil {
					observer.OnJoin(b.forks[i], b.forks[j], joint)
				}
				return true
			}
		}
	}
	return false
}
