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

// Package lexer provides a lexical analyzer for C/C++ source code. It breaks
// the input into a sequence of Tokens that the driver package dispatches to
// active compilation branches.
//
// Lexer classifies tokens into several types (for e.g., easier filtering of
// comments or whitespace) and tracks their location in the source code (for
// accurate error reporting). A block comment ("/* ... */") that is still
// open at the end of a line is returned as an Incomplete token rather than
// being scanned past the newline: the caller decides, line by line, whether
// the comment is still open, instead of the lexer silently swallowing
// everything up to the next "*/" wherever it happens to live.
package lexer

import (
	"bytes"
	"fmt"
	"iter"
	"strings"
)

type (
	// Lexer tokenizes a byte stream incrementally. A Lexer is not safe for
	// concurrent use; each compilation branch that forks mid-comment must
	// clone its own Lexer (see Clone).
	Lexer struct {
		dataLeft       []byte
		cursor         Cursor
		inBlockComment bool
		err            error
	}
	lexeme struct {
		tokenType  TokenType
		length     int
		incomplete bool
	}
)

// NewLexer returns a Lexer positioned at the start of sourceCode.
func NewLexer(sourceCode []byte) *Lexer {
	return &Lexer{dataLeft: sourceCode, cursor: CursorInit}
}

// Clone returns an independent copy of lx sharing no mutable state; used
// when a compilation branch forks while a multi-line block comment is open.
func (lx *Lexer) Clone() *Lexer {
	clone := *lx
	return &clone
}

// Cursor returns the position of the next token to be produced.
func (lx *Lexer) Cursor() Cursor { return lx.cursor }

// AtEOF reports whether all input has been consumed.
func (lx *Lexer) AtEOF() bool { return len(lx.dataLeft) == 0 }

// InBlockComment reports whether lx is currently inside an unterminated
// "/* ... */" comment carried over from a previous line.
func (lx *Lexer) InBlockComment() bool { return lx.inBlockComment }

// findNonWhitespace finds the index of the first non-horizontal-whitespace
// byte in data. Returns len(data) if all bytes are whitespace.
func findNonWhitespace(data []byte) int {
	for i, b := range data {
		if !strings.ContainsAny(string(b), " \t\v\f\r") {
			return i
		}
	}
	return len(data)
}

func (lx *Lexer) consume(lxm lexeme) Token {
	token := Token{
		Type:       lxm.tokenType,
		Location:   lx.cursor,
		Content:    string(lx.dataLeft[:lxm.length]),
		Incomplete: lxm.incomplete,
	}
	lx.dataLeft = lx.dataLeft[lxm.length:]
	lx.cursor = lx.cursor.AdvancedBy(token.Content)
	return token
}

// scanBlockCommentStart handles the lexeme immediately after a "/*" prefix.
// It looks for whichever comes first in the remaining data: a closing "*/"
// or a newline. A newline before "*/" means the comment is still open at
// end of line; the newline is included in the comment's own content (it is
// not re-emitted as a separate TokenType_Newline, matching how a real block
// comment absorbs the line breaks inside it), the token is marked
// Incomplete, and lx.inBlockComment is set so the next NextToken call
// resumes the search on the following line instead of restarting the token.
func (lx *Lexer) scanBlockCommentStart() lexeme {
	rest := lx.dataLeft[2:]
	nlIdx := bytes.IndexByte(rest, '\n')
	endIdx := bytes.Index(rest, []byte("*/"))
	if endIdx >= 0 && (nlIdx == -1 || endIdx <= nlIdx) {
		return lexeme{tokenType: TokenType_CommentMultiLine, length: 2 + endIdx + 2}
	}
	lx.inBlockComment = true
	if nlIdx == -1 {
		return lexeme{tokenType: TokenType_CommentMultiLine, length: len(lx.dataLeft), incomplete: true}
	}
	return lexeme{tokenType: TokenType_CommentMultiLine, length: 2 + nlIdx + 1, incomplete: true}
}

// continueBlockComment resumes scanning a block comment left open by a
// previous line. Closing is detected on the current line only, never by
// looking back past a line this function has already returned for.
// inBlockComment stays set if the input runs out before `*/`, so the
// caller can tell an exhausted input from a closed comment.
func (lx *Lexer) continueBlockComment() Token {
	if len(lx.dataLeft) == 0 {
		return TokenEOF
	}
	nlIdx := bytes.IndexByte(lx.dataLeft, '\n')
	endIdx := bytes.Index(lx.dataLeft, []byte("*/"))
	if endIdx >= 0 && (nlIdx == -1 || endIdx <= nlIdx) {
		lx.inBlockComment = false
		return lx.consume(lexeme{tokenType: TokenType_CommentMultiLine, length: endIdx + 2})
	}
	if nlIdx == -1 {
		return lx.consume(lexeme{tokenType: TokenType_CommentMultiLine, length: len(lx.dataLeft), incomplete: true})
	}
	return lx.consume(lexeme{tokenType: TokenType_CommentMultiLine, length: nlIdx + 1, incomplete: true})
}

// NextToken returns the next Token from the input. TokenEOF is returned once
// no input remains. A non-nil error means the remaining input cannot be
// classified (an unterminated literal, or a byte no token can start with);
// the lexer does not advance past the offending input, and the error
// carries the source location.
func (lx *Lexer) NextToken() (Token, error) {
	if lx.inBlockComment {
		return lx.continueBlockComment(), nil
	}
	if len(lx.dataLeft) == 0 {
		return TokenEOF, nil
	}

	lxm := lexeme{tokenType: TokenType_Unassigned, length: len(lx.dataLeft)}

	switch lx.dataLeft[0] {
	case '\n':
		lxm = lexeme{tokenType: TokenType_Newline, length: 1}
	case '\t', '\v', '\f', '\r', ' ':
		lxm = lexeme{tokenType: TokenType_Whitespace, length: findNonWhitespace(lx.dataLeft)}
	case '\\':
		if match := reContinueLine.Find(lx.dataLeft); match != nil {
			lxm = lexeme{tokenType: TokenType_ContinueLine, length: len(match)}
		}
	case '"':
		match := reLiteralString.Find(lx.dataLeft)
		if match == nil {
			return Token{}, lx.errAt(ErrStringLiteralUnterminated)
		}
		lxm = lexeme{tokenType: TokenType_LiteralString, length: len(match)}
	case '\'':
		match := reLiteralChar.Find(lx.dataLeft)
		if match == nil {
			return Token{}, lx.errAt(ErrCharLiteralUnterminated)
		}
		lxm = lexeme{tokenType: TokenType_LiteralChar, length: len(match)}
	case '/':
		if bytes.HasPrefix(lx.dataLeft, []byte("//")) {
			end := bytes.IndexByte(lx.dataLeft, '\n')
			if end == -1 {
				end = len(lx.dataLeft)
			}
			lxm = lexeme{tokenType: TokenType_CommentSingleLine, length: end}
		} else if bytes.HasPrefix(lx.dataLeft, []byte("/*")) {
			lxm = lx.scanBlockCommentStart()
		}
	case '#':
		begin := findNonWhitespace(lx.dataLeft[1:]) + 1
		for _, directive := range preprocessorDirectives {
			if bytes.HasPrefix(lx.dataLeft[begin:], []byte(directive.keyword)) {
				lxm = lexeme{tokenType: directive.tokenType, length: begin + len(directive.keyword)}
				break
			}
		}
	case '=':
		if bytes.HasPrefix(lx.dataLeft, []byte("==")) {
			lxm = lexeme{tokenType: TokenType_OperatorEqual, length: 2}
		}
	case '>':
		if bytes.HasPrefix(lx.dataLeft, []byte(">=")) {
			lxm = lexeme{tokenType: TokenType_OperatorGreaterOrEqual, length: 2}
		} else {
			lxm = lexeme{tokenType: TokenType_OperatorGreater, length: 1}
		}
	case '<':
		if match := rePreprocessorSystemPath.Find(lx.dataLeft); match != nil {
			lxm = lexeme{tokenType: TokenType_PreprocessorSystemPath, length: len(match)}
		} else if bytes.HasPrefix(lx.dataLeft, []byte("<=")) {
			lxm = lexeme{tokenType: TokenType_OperatorLessOrEqual, length: 2}
		} else {
			lxm = lexeme{tokenType: TokenType_OperatorLess, length: 1}
		}
	case '!':
		if bytes.HasPrefix(lx.dataLeft, []byte("!=")) {
			lxm = lexeme{tokenType: TokenType_OperatorNotEqual, length: 2}
		} else {
			lxm = lexeme{tokenType: TokenType_OperatorLogicalNot, length: 1}
		}
	case '&':
		if bytes.HasPrefix(lx.dataLeft, []byte("&&")) {
			lxm = lexeme{tokenType: TokenType_OperatorLogicalAnd, length: 2}
		}
	case '|':
		if bytes.HasPrefix(lx.dataLeft, []byte("||")) {
			lxm = lexeme{tokenType: TokenType_OperatorLogicalOr, length: 2}
		}
	case '{':
		lxm = lexeme{tokenType: TokenType_BraceLeft, length: 1}
	case '}':
		lxm = lexeme{tokenType: TokenType_BraceRight, length: 1}
	case '[':
		lxm = lexeme{tokenType: TokenType_BracketLeft, length: 1}
	case ']':
		lxm = lexeme{tokenType: TokenType_BracketRight, length: 1}
	case ',':
		lxm = lexeme{tokenType: TokenType_Comma, length: 1}
	case '(':
		lxm = lexeme{tokenType: TokenType_ParenthesisLeft, length: 1}
	case ')':
		lxm = lexeme{tokenType: TokenType_ParenthesisRight, length: 1}
	case ';':
		lxm = lexeme{tokenType: TokenType_Semicolon, length: 1}
	default:
		if match := reIdentifier.Find(lx.dataLeft); match != nil {
			if string(match) == "defined" {
				lxm = lexeme{tokenType: TokenType_PreprocessorDefined, length: len(match)}
			} else {
				lxm = lexeme{tokenType: TokenType_Identifier, length: len(match)}
			}
		} else if match := reLiteralFloat.Find(lx.dataLeft); match != nil {
			lxm = lexeme{tokenType: TokenType_LiteralFloat, length: len(match)}
		} else if match := reLiteralInteger.Find(lx.dataLeft); match != nil {
			lxm = lexeme{tokenType: TokenType_LiteralInteger, length: len(match)}
		}
	}

	if lxm.tokenType == TokenType_Unassigned {
		if !isSymbolByte(lx.dataLeft[0]) {
			return Token{}, lx.errAt(ErrUnknownToken)
		}
		if begin := reTokenBeginning.FindIndex(lx.dataLeft[1:]); begin != nil {
			lxm.length = 1 + begin[0]
		}
		lxm.tokenType = TokenType_Symbol
	}

	return lx.consume(lxm), nil
}

// isSymbolByte reports whether b can begin a bare operator/punctuator
// token. Anything outside printable ASCII cannot start any C token the
// earlier pickers did not already claim.
func isSymbolByte(b byte) bool { return b > ' ' && b < 0x7f }

func (lx *Lexer) errAt(err error) error {
	return fmt.Errorf("%w at %s", err, lx.cursor)
}

// AllTokens iterates every token extracted from the input. TokenEOF is not
// yielded; iteration ends when the input is exhausted or at the first
// lexical error, and Err reports which. A block comment still open when the
// input runs out is also a lexical error, surfaced through Err after the
// final incomplete comment token has been yielded.
func (lx *Lexer) AllTokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for !lx.AtEOF() {
			tok, err := lx.NextToken()
			if err != nil {
				lx.err = err
				return
			}
			if !yield(tok) {
				return
			}
		}
		if lx.inBlockComment {
			lx.err = lx.errAt(ErrMultiLineCommentUnterminated)
		}
	}
}

// Err returns the lexical error that ended AllTokens, or nil if the input
// has tokenized cleanly so far.
func (lx *Lexer) Err() error { return lx.err }
