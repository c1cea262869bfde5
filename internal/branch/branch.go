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

// Package branch implements the compilation-branch fork/join state machine
// (a deterministic fan-out in the parse, not a thread tree) and the
// bottom-up consolidator that joins siblings whose parser state has
// reconverged. A Branch's parent pointer is a plain Go pointer: since the
// tree is walked by a single goroutine and never shared beyond the
// translation unit that owns it, there is no cycle-collection concern that
// would call for a weak reference.
package branch

import (
	"fmt"

	"github.com/branchcc/branchcc/internal/condition"
	"github.com/branchcc/branchcc/internal/scope"
)

// TokenRequester absorbs tokens on behalf of an in-progress code element
// (e.g. a macro replacement-list collector) instead of letting them drive
// the ordinary parser state machine. Receive returns true once the
// requester is done and tokens should resume normal dispatch.
type TokenRequester interface {
	Receive(tok interface{}) (done bool)
}

// Branch is a node in the compilation-branch tree.
type Branch struct {
	id                 string
	parent             *Branch
	branchingCondition condition.Condition
	conditions         condition.Condition
	forks              []*Branch
	adducer            Adducer
	pendingTokens      *scope.PendingBuffer
	scopeStack         *scope.Stack
	tokenRequester     TokenRequester
	active             bool

	// seq is this branch's creation rank among its parent's forks; nextSeq
	// is the rank the parent will hand to its next fork or joint. Together
	// they let checkForksOrdered assert, rather than assume, that forks
	// stays in creation order.
	seq     int
	nextSeq int
}

// NewRoot returns the root branch ("*") of a translation unit's branch
// tree: unconditional, active, with a fresh scope stack rooted at a
// TranslationUnitFrame.
func NewRoot(mainFile string) *Branch {
	return &Branch{
		id:                 "*",
		branchingCondition: condition.Top(),
		conditions:         condition.Top(),
		adducer:            Adducer{Kind: AdducerDirective, Description: "root"},
		pendingTokens:      &scope.PendingBuffer{},
		scopeStack:         scope.NewStack(&scope.TranslationUnitFrame{MainFile: mainFile}),
		active:             true,
	}
}

func (b *Branch) ID() string                        { return b.id }
func (b *Branch) Parent() *Branch                    { return b.parent }
func (b *Branch) BranchingCondition() condition.Condition { return b.branchingCondition }
func (b *Branch) Conditions() condition.Condition    { return b.conditions }
func (b *Branch) Forks() []*Branch                   { return b.forks }
func (b *Branch) Adducer() Adducer                    { return b.adducer }
func (b *Branch) PendingTokens() *scope.PendingBuffer { return b.pendingTokens }
func (b *Branch) ScopeStack() *scope.Stack            { return b.scopeStack }
func (b *Branch) TokenRequester() TokenRequester       { return b.tokenRequester }
func (b *Branch) SetTokenRequester(r TokenRequester)   { b.tokenRequester = r }
func (b *Branch) Active() bool                        { return b.active }

// HasForks reports whether b currently has forks (TryJoinForks can clear
// them again); while true, b does not consume tokens itself.
func (b *Branch) HasForks() bool { return len(b.forks) > 0 }

// Deactivate transitions b from active to inactive.
func (b *Branch) Deactivate() { b.active = false }

// Activate transitions b from inactive to active.
func (b *Branch) Activate() { b.active = true }

// Fork creates a new child branch gated by branchingCondition in addition to
// b's own conditions, appends it to b.forks, deactivates b (it is now in
// "has-forks" mode), and returns the child. The child inherits a shallow
// copy of b's pending buffer and scope stack.
func (b *Branch) Fork(branchingCondition condition.Condition, adducer Adducer) *Branch {
	child := &Branch{
		id:                 fmt.Sprintf("%s:%d", b.id, len(b.forks)+1),
		parent:             b,
		branchingCondition: branchingCondition,
		conditions:         condition.Conjunction(b.conditions, branchingCondition),
		adducer:            adducer,
		pendingTokens:      b.pendingTokens.Clone(),
		scopeStack:         b.scopeStack.Clone(),
		tokenRequester:     b.tokenRequester,
		active:             true,
		seq:                b.nextSeq,
	}
	b.nextSeq++
	b.forks = append(b.forks, child)
	b.Deactivate()
	return child
}

// JoinPossible reports whether b and other may be merged by TryJoin: both
// must be active, neither may itself have forked, and their parser-state
// triples (pending buffer, scope stack, token requester) must compare equal.
func (b *Branch) JoinPossible(other *Branch) bool {
	if !b.active || !other.active {
		return false
	}
	if b.HasForks() || other.HasForks() {
		return false
	}
	if b.tokenRequester != other.tokenRequester {
		return false
	}
	return b.pendingTokens.Equal(other.pendingTokens) && b.scopeStack.Equal(other.scopeStack)
}

// TryJoin merges b and other into a new sibling branch under their common
// parent, gated by the disjunction of their branching conditions, if
// JoinPossible. b and other are deactivated; the new joint branch is
// returned alongside true. Returns (nil, false) if the join is not possible.
func (b *Branch) TryJoin(other *Branch) (*Branch, bool) {
	if !b.JoinPossible(other) {
		return nil, false
	}
	joint := &Branch{
		id:                 fmt.Sprintf("%s+%s", b.id, other.id),
		parent:             b.parent,
		branchingCondition: condition.Disjunction(b.branchingCondition, other.branchingCondition),
		pendingTokens:      b.pendingTokens,
		scopeStack:         b.scopeStack,
		tokenRequester:     b.tokenRequester,
		adducer:            Adducer{Kind: AdducerJoin, Description: fmt.Sprintf("join(%s, %s)", b.id, other.id)},
		active:             true,
	}
	if b.parent != nil {
		joint.conditions = condition.Conjunction(b.parent.conditions, joint.branchingCondition)
		joint.seq = b.parent.nextSeq
		b.parent.nextSeq++
	} else {
		joint.conditions = joint.branchingCondition
	}
	b.Deactivate()
	other.Deactivate()
	return joint, true
}

// TryJoinForks absorbs b's fork into b itself when b has exactly one fork,
// that fork is active, and its branching condition is equivalent to b's own,
// collapsing a redundant fork-of-one. A b whose forks list still holds
// inactive forks (e.g. siblings left behind by a join) is not collapsed.
// Returns whether it made a change.
func (b *Branch) TryJoinForks() bool {
	if len(b.forks) != 1 {
		return false
	}
	only := b.forks[0]
	if !only.active || !only.branchingCondition.Equivalent(b.branchingCondition) {
		return false
	}
	b.pendingTokens = only.pendingTokens
	b.scopeStack = only.scopeStack
	b.tokenRequester = only.tokenRequester
	b.forks = only.forks
	b.nextSeq = only.nextSeq
	for _, f := range b.forks {
		f.parent = b
	}
	only.Deactivate()
	b.Activate()
	return true
}

// ActiveLeaves returns every active leaf branch in b's subtree: the set
// that actually consumes tokens. A branch that has forked is never itself
// a leaf, regardless of its own active flag.
func (b *Branch) ActiveLeaves() []*Branch {
	if !b.HasForks() {
		if b.active {
			return []*Branch{b}
		}
		return nil
	}
	var out []*Branch
	for _, f := range b.forks {
		out = append(out, f.ActiveLeaves()...)
	}
	return out
}
