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

import "iter"

// LogicalLine is the run of Tokens between two physical newlines that are
// not joined by a trailing backslash, with any ContinueLine tokens already
// spliced out. A LogicalLine may therefore span several physical lines.
type LogicalLine struct {
	Tokens     []Token
	FirstCursor Cursor
}

// SplitLogicalLines groups tokens into LogicalLines, splicing
// backslash-newline continuations so a directive or statement written across
// several physical lines is presented as a single logical line. The
// TokenType_Newline that ends a non-continued line is dropped; a
// TokenType_ContinueLine (the backslash together with the newline it
// escapes) is also dropped rather than ending the logical line.
func SplitLogicalLines(tokens iter.Seq[Token]) iter.Seq[LogicalLine] {
	return func(yield func(LogicalLine) bool) {
		var current []Token
		for tok := range tokens {
			switch tok.Type {
			case TokenType_ContinueLine:
				continue // joins with the following line; drop the marker
			case TokenType_Newline:
				if len(current) == 0 {
					continue // blank line
				}
				if !yield(LogicalLine{Tokens: current, FirstCursor: current[0].Location}) {
					return
				}
				current = nil
			default:
				current = append(current, tok)
			}
		}
		if len(current) > 0 {
			yield(LogicalLine{Tokens: current, FirstCursor: current[0].Location})
		}
	}
}

// NonTrivia returns ln's tokens with whitespace and comments filtered out.
func (ln LogicalLine) NonTrivia() []Token {
	out := make([]Token, 0, len(ln.Tokens))
	for _, t := range ln.Tokens {
		if !t.Type.IsTrivia() {
			out = append(out, t)
		}
	}
	return out
}
