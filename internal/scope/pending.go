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

package scope

import (
	"strings"

	"github.com/branchcc/branchcc/internal/lexer"
)

// PendingBuffer is a per-branch FIFO of tokens whose semantic role has not
// yet been decided (e.g. a run of type specifiers before the identifier
// that names them). It is carried across logical lines until something
// resolves it (typically an ArisingSpecification consuming it on
// finalization).
type PendingBuffer struct {
	tokens []lexer.Token
}

// Push appends tokens to the buffer, preserving order.
func (p *PendingBuffer) Push(tokens ...lexer.Token) {
	p.tokens = append(p.tokens, tokens...)
}

// Clear empties the buffer.
func (p *PendingBuffer) Clear() {
	p.tokens = nil
}

// HasPending reports whether any tokens are buffered.
func (p *PendingBuffer) HasPending() bool {
	return len(p.tokens) > 0
}

// Tokens returns the buffered tokens in FIFO order. The returned slice must
// not be mutated by the caller.
func (p *PendingBuffer) Tokens() []lexer.Token {
	return p.tokens
}

// String renders the buffer's contents for diagnostics only; it is not used
// to drive any parsing decision.
func (p *PendingBuffer) String() string {
	parts := make([]string, len(p.tokens))
	for i, t := range p.tokens {
		parts[i] = t.Content
	}
	return strings.Join(parts, " ")
}

// Clone returns an independent copy for a forked branch. Token values are
// immutable once created, so copying the slice header's backing array once
// is enough to prevent a later append on one branch from silently aliasing
// the other's storage.
func (p *PendingBuffer) Clone() *PendingBuffer {
	cloned := make([]lexer.Token, len(p.tokens))
	copy(cloned, p.tokens)
	return &PendingBuffer{tokens: cloned}
}

// Equal reports whether p and other hold the same token sequence, used by
// Branch.JoinPossible.
func (p *PendingBuffer) Equal(other *PendingBuffer) bool {
	if len(p.tokens) != len(other.tokens) {
		return false
	}
	for i := range p.tokens {
		if p.tokens[i] != other.tokens[i] {
			return false
		}
	}
	return true
}
