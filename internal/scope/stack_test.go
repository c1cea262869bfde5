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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/branchcc/branchcc/internal/lexer"
)

func TestStackEnterLeaveCurrent(t *testing.T) {
	s := NewStack(&TranslationUnitFrame{MainFile: "a.c"})
	assert.Equal(t, KindTranslationUnit, s.CurrentScope().Kind())

	s.EnterScope(&FunctionFrame{Name: "foo"})
	assert.Equal(t, KindFunction, s.CurrentScope().Kind())
	assert.Equal(t, KindTranslationUnit, s.SurroundingScope(1).Kind())

	s.EnterScope(&CompoundStatementFrame{})
	assert.Equal(t, KindCompoundStatement, s.CurrentScope().Kind())

	popped := s.LeaveScope()
	assert.Equal(t, KindCompoundStatement, popped.Kind())
	assert.Equal(t, KindFunction, s.CurrentScope().Kind())
}

func TestStackLeaveRootPanics(t *testing.T) {
	s := NewStack(&TranslationUnitFrame{})
	assert.Panics(t, func() { s.LeaveScope() })
}

func TestFindScope(t *testing.T) {
	s := NewStack(&TranslationUnitFrame{})
	s.EnterScope(&FunctionFrame{Name: "foo"})
	s.EnterScope(&CompoundStatementFrame{})

	found := s.FindScope(func(f Frame) bool { return f.Kind() == KindFunction })
	assert.NotNil(t, found)
	assert.Equal(t, "foo", found.(*FunctionFrame).Name)

	assert.Nil(t, s.FindScope(func(f Frame) bool { return f.Kind() == KindInitializer }))
}

func TestCloneSharesImmutableFramesButDeepCopiesArising(t *testing.T) {
	s := NewStack(&TranslationUnitFrame{})
	s.EnterScope(&FunctionFrame{Name: "foo"})
	arising := &ArisingSpecification{Identifier: "x"}
	s.EnterScope(arising)

	clone := s.Clone()
	assert.True(t, clone.SurroundingScope(2) == s.SurroundingScope(2)) // TranslationUnit shared
	assert.True(t, clone.SurroundingScope(1) == s.SurroundingScope(1)) // Function shared

	cloneArising := clone.CurrentScope().(*ArisingSpecification)
	assert.False(t, Frame(cloneArising) == Frame(arising))
	cloneArising.Identifier = "y"
	assert.Equal(t, "x", arising.Identifier) // original untouched
}

func TestStackEqualReflectsSharedFrames(t *testing.T) {
	s := NewStack(&TranslationUnitFrame{})
	clone := s.Clone()
	assert.True(t, s.Equal(clone))

	clone.EnterScope(&CompoundStatementFrame{})
	assert.False(t, s.Equal(clone))
}

func TestStackEqualComparesArisingFramesStructurally(t *testing.T) {
	s := NewStack(&TranslationUnitFrame{})
	s.EnterScope(&ArisingSpecification{TypeSpecifiers: []string{"int"}})

	// Clone deep-copies the arising top frame, so the two stacks hold
	// distinct pointers with identical contents; they must still compare
	// equal for a mid-declaration fork to ever rejoin.
	clone := s.Clone()
	assert.True(t, s.Equal(clone))

	clone.CurrentScope().(*ArisingSpecification).Identifier = "x"
	assert.False(t, s.Equal(clone))

	clone.CurrentScope().(*ArisingSpecification).Identifier = ""
	assert.True(t, s.Equal(clone), "reconverged state compares equal again")
}

func TestPendingBufferPushClearClone(t *testing.T) {
	p := &PendingBuffer{}
	assert.False(t, p.HasPending())

	tok := lexer.Token{Type: lexer.TokenType_Identifier, Content: "int"}
	p.Push(tok)
	assert.True(t, p.HasPending())
	assert.Equal(t, "int", p.String())

	clone := p.Clone()
	clone.Push(lexer.Token{Type: lexer.TokenType_Identifier, Content: "x"})
	assert.Equal(t, "int", p.String())          // original untouched by clone's push
	assert.Equal(t, "int x", clone.String())
	assert.True(t, p.Equal(&PendingBuffer{tokens: []lexer.Token{tok}}))

	p.Clear()
	assert.False(t, p.HasPending())
}
