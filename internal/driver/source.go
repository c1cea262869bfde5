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

package driver

import (
	"github.com/branchcc/branchcc/internal/condition"
	"github.com/branchcc/branchcc/internal/lexer"
	"github.com/branchcc/branchcc/internal/track"
)

// ParseFile tokenizes sourceCode, splits it into logical lines, and drives a
// fresh Driver across them, returning the populated Driver for the caller to
// inspect (Index, Warnings) or report. rec may be nil.
//
// A lexical error (unknown byte, unterminated literal, comment still open at
// the end of input) stops tokenization where it occurred: everything lexed
// before it has been parsed normally, and the error itself is recorded as a
// branch-local warning rather than failing the translation unit.
func ParseFile(path string, sourceCode []byte, u *condition.Universe, rec *track.Recorder) (*Driver, error) {
	lx := lexer.NewLexer(sourceCode)
	d := NewDriver(path, u, rec)
	if err := d.ParseLogicalLines(lexer.SplitLogicalLines(lx.AllTokens())); err != nil {
		return d, err
	}
	if err := lx.Err(); err != nil {
		d.warn(err)
	}
	return d, nil
}
