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

package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(src string) []TokenType {
	lx := NewLexer([]byte(src))
	var types []TokenType
	for tok := range lx.AllTokens() {
		types = append(types, tok.Type)
	}
	return types
}

func TestNextTokenBasicDirective(t *testing.T) {
	types := tokenTypes("#ifdef FOO\n")
	assert.Equal(t, []TokenType{
		TokenType_PreprocessorIfdef, TokenType_Whitespace, TokenType_Identifier, TokenType_Newline,
	}, types)
}

func TestNextTokenElifdefAndElifndef(t *testing.T) {
	assert.Contains(t, tokenTypes("#elifdef BAR\n"), TokenType_PreprocessorElifdef)
	assert.Contains(t, tokenTypes("#elifndef BAR\n"), TokenType_PreprocessorElifndef)
}

func TestNextTokenDefinedKeyword(t *testing.T) {
	types := tokenTypes("defined(FOO)")
	assert.Equal(t, []TokenType{
		TokenType_PreprocessorDefined, TokenType_ParenthesisLeft, TokenType_Identifier, TokenType_ParenthesisRight,
	}, types)
}

func TestNextTokenCompareOperators(t *testing.T) {
	cases := map[string]TokenType{
		"==": TokenType_OperatorEqual,
		"!=": TokenType_OperatorNotEqual,
		">=": TokenType_OperatorGreaterOrEqual,
		"<=": TokenType_OperatorLessOrEqual,
		">":  TokenType_OperatorGreater,
		"<":  TokenType_OperatorLess,
		"&&": TokenType_OperatorLogicalAnd,
		"||": TokenType_OperatorLogicalOr,
		"!":  TokenType_OperatorLogicalNot,
	}
	for src, want := range cases {
		lx := NewLexer([]byte(src))
		tok, err := lx.NextToken()
		require.NoError(t, err, "source %q", src)
		assert.Equal(t, want, tok.Type, "source %q", src)
	}
}

func TestNextTokenSingleLineCommentExcludesNewline(t *testing.T) {
	lx := NewLexer([]byte("// hello\nrest"))
	tok, err := lx.NextToken()
	require.NoError(t, err)
	assert.Equal(t, TokenType_CommentSingleLine, tok.Type)
	assert.Equal(t, "// hello", tok.Content)
	assert.False(t, tok.Incomplete)

	nl, err := lx.NextToken()
	require.NoError(t, err)
	assert.Equal(t, TokenType_Newline, nl.Type)
}

func TestNextTokenBlockCommentSingleLine(t *testing.T) {
	lx := NewLexer([]byte("/* a */x"))
	tok, err := lx.NextToken()
	require.NoError(t, err)
	assert.Equal(t, TokenType_CommentMultiLine, tok.Type)
	assert.Equal(t, "/* a */", tok.Content)
	assert.False(t, tok.Incomplete)
	assert.False(t, lx.InBlockComment())
}

func TestNextTokenBlockCommentSpanningLinesDetectsCloseInline(t *testing.T) {
	// The comment closes partway through the second line; NextToken must
	// report the close on that very line, not by having scanned ahead. The
	// newline between the two lines is absorbed into the comment content,
	// not re-emitted as its own token, matching how a real block comment
	// swallows the line breaks inside it.
	lx := NewLexer([]byte("/* line one\nline two */int x;"))

	first, err := lx.NextToken()
	require.NoError(t, err)
	assert.Equal(t, TokenType_CommentMultiLine, first.Type)
	assert.True(t, first.Incomplete)
	assert.Equal(t, "/* line one\n", first.Content)
	assert.True(t, lx.InBlockComment())

	second, err := lx.NextToken()
	require.NoError(t, err)
	assert.Equal(t, TokenType_CommentMultiLine, second.Type)
	assert.False(t, second.Incomplete)
	assert.Equal(t, "line two */", second.Content)
	assert.False(t, lx.InBlockComment())

	next, err := lx.NextToken()
	require.NoError(t, err)
	assert.Equal(t, TokenType_Identifier, next.Type)
	assert.Equal(t, "int", next.Content)
}

func TestNextTokenBlockCommentNeverClosedRunsToEOF(t *testing.T) {
	lx := NewLexer([]byte("/* never\nclosed"))
	for tok := range lx.AllTokens() {
		if tok.Type == TokenType_CommentMultiLine {
			assert.True(t, tok.Incomplete)
		}
	}
	assert.True(t, lx.InBlockComment())
	assert.ErrorIs(t, lx.Err(), ErrMultiLineCommentUnterminated)
}

func TestNextTokenUnterminatedStringLiteralFails(t *testing.T) {
	lx := NewLexer([]byte("\"never closed\n"))
	_, err := lx.NextToken()
	assert.ErrorIs(t, err, ErrStringLiteralUnterminated)

	lx = NewLexer([]byte("'x\n"))
	_, err = lx.NextToken()
	assert.ErrorIs(t, err, ErrCharLiteralUnterminated)
}

func TestNextTokenUnknownByteFails(t *testing.T) {
	lx := NewLexer([]byte{0x01})
	_, err := lx.NextToken()
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestAllTokensStopsAtLexicalErrorAndReportsIt(t *testing.T) {
	lx := NewLexer([]byte("int x;\n\"oops\n"))
	var types []TokenType
	for tok := range lx.AllTokens() {
		types = append(types, tok.Type)
	}
	assert.ErrorIs(t, lx.Err(), ErrStringLiteralUnterminated)
	assert.Contains(t, types, TokenType_Identifier, "tokens before the error are still delivered")
}

func TestCloneIsIndependent(t *testing.T) {
	lx := NewLexer([]byte("/* open\nstill open */done"))
	lx.NextToken() // consumes "/* open\n", leaves inBlockComment true
	clone := lx.Clone()

	lx.NextToken() // advance original past "still open */", closing the comment
	assert.True(t, clone.InBlockComment())
	assert.NotEqual(t, lx.Cursor(), clone.Cursor())
}

func TestSplitLogicalLinesSplicesContinuation(t *testing.T) {
	lx := NewLexer([]byte("#define FOO \\\n  BAR\n#endif\n"))
	var lines []LogicalLine
	for ln := range SplitLogicalLines(lx.AllTokens()) {
		lines = append(lines, ln)
	}
	assert.Len(t, lines, 2)

	first := lines[0].NonTrivia()
	assert.Equal(t, TokenType_PreprocessorDefine, first[0].Type)
	assert.Equal(t, TokenType_Identifier, first[1].Type)
	assert.Equal(t, "FOO", first[1].Content)
	assert.Equal(t, "BAR", first[2].Content)

	second := lines[1].NonTrivia()
	assert.Equal(t, TokenType_PreprocessorEndif, second[0].Type)
}

func TestSplitLogicalLinesSkipsBlankLines(t *testing.T) {
	lx := NewLexer([]byte("\n\n#endif\n"))
	var lines []LogicalLine
	for ln := range SplitLogicalLines(lx.AllTokens()) {
		lines = append(lines, ln)
	}
	assert.Len(t, lines, 1)
}
