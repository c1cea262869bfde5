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

import "regexp"

var (
	reContinueLine           = regexp.MustCompile(`^\\[\t\v\f\r ]*\n`)
	rePreprocessorSystemPath = regexp.MustCompile(`^<[\w\-+./]+>`)
	reLiteralInteger         = regexp.MustCompile(`^(?i)0x[0-9a-f]+|0b[01]+|0[0-7]*|[1-9][0-9]*`)
	reLiteralFloat           = regexp.MustCompile(`^[0-9]+\.[0-9]*(?i:e[+-]?[0-9]+)?[fFlL]?|^\.[0-9]+(?i:e[+-]?[0-9]+)?[fFlL]?`)
	reLiteralString          = regexp.MustCompile(`^"(?:[^"\\\n]|\\.)*"`)
	reLiteralChar            = regexp.MustCompile(`^'(?:[^'\\\n]|\\.)*'`)
	reIdentifier             = regexp.MustCompile(`^(?i)[a-z_][a-z0-9_]*`)
	reTokenBeginning         = regexp.MustCompile(`[\s\\"'/#=><!&|{}[\],();\w]`)

	// preprocessorDirectives lists keyword->TokenType for the line following a
	// bare '#'. Longer keywords are listed first so a prefix match never
	// shadows a longer one (e.g. "include" before it could be mistaken
	// against a shorter unrelated prefix).
	preprocessorDirectives = []struct {
		keyword   string
		tokenType TokenType
	}{
		{"include_next", TokenType_PreprocessorIncludeNext},
		{"elifndef", TokenType_PreprocessorElifndef},
		{"elifdef", TokenType_PreprocessorElifdef},
		{"include", TokenType_PreprocessorInclude},
		{"define", TokenType_PreprocessorDefine},
		{"ifndef", TokenType_PreprocessorIfndef},
		{"pragma", TokenType_PreprocessorPragma},
		{"endif", TokenType_PreprocessorEndif},
		{"ifdef", TokenType_PreprocessorIfdef},
		{"undef", TokenType_PreprocessorUndef},
		{"elif", TokenType_PreprocessorElif},
		{"else", TokenType_PreprocessorElse},
		{"if", TokenType_PreprocessorIf},
	}
)
