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

package cliapp

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/branchcc/branchcc/internal/symbol"
)

// familyNames maps the `-t/--type` vocabulary to a symbol.Family, for the
// `-t` choices that name a single family (the `family=` filter clause
// matches symbol.Family.String instead). "file",
// "symbol", "identifier", "macro", "tag" are handled separately by
// typeMatcher since they name a namespace or a union of families rather
// than exactly one.
var familyNames = map[string]symbol.Family{
	"function": symbol.FamilyFunction,
	"variable": symbol.FamilyVariable,
	"type":     symbol.FamilyTypedef,
	"struct":   symbol.FamilyTagStruct,
	"union":    symbol.FamilyTagUnion,
	"enum":     symbol.FamilyTagEnum,
	"label":    symbol.FamilyLabel,
}

// typeMatcher is the predicate built from `-t/--type`.
type typeMatcher func(*symbol.Symbol) bool

// parseTypeFlag builds the matcher for the `-t, --type T` flag. An empty t
// matches every symbol.
func parseTypeFlag(t string) (typeMatcher, error) {
	switch t {
	case "":
		return func(*symbol.Symbol) bool { return true }, nil
	case "symbol", "identifier":
		return func(*symbol.Symbol) bool { return true }, nil
	case "macro":
		return func(s *symbol.Symbol) bool {
			return s.Family == symbol.FamilyMacroObject || s.Family == symbol.FamilyMacroFunction
		}, nil
	case "tag":
		return func(s *symbol.Symbol) bool { return s.Namespace == symbol.NamespaceTag }, nil
	case "file":
		// "file" lists translation units themselves, not symbols; the ls
		// command special-cases it before consulting a typeMatcher at all.
		return func(*symbol.Symbol) bool { return false }, nil
	default:
		family, ok := familyNames[t]
		if !ok {
			return nil, fmt.Errorf("unknown -t/--type value %q", t)
		}
		return func(s *symbol.Symbol) bool { return s.Family == family }, nil
	}
}

// criterion is one comma-separated clause of `-f/--filter`.
type criterion func(*symbol.Symbol) bool

// parseFilterFlag parses the `-f, --filter CRIT` grammar: a
// comma-separated conjunction of `key=value` or `key~=regexp` clauses.
// Recognized keys are "family" (matched against symbol.Family.String:
// exactly with =, as a regexp with ~=) and "name" (exact match, or regexp
// match with ~=).
func parseFilterFlag(expr string) (criterion, error) {
	if expr == "" {
		return func(*symbol.Symbol) bool { return true }, nil
	}
	var clauses []criterion
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := parseClause(part)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}
	return func(s *symbol.Symbol) bool {
		for _, c := range clauses {
			if !c(s) {
				return false
			}
		}
		return true
	}, nil
}

func parseClause(part string) (criterion, error) {
	key, op, value, err := splitClause(part)
	if err != nil {
		return nil, err
	}
	switch key {
	case "family":
		return func(s *symbol.Symbol) bool { return matchOp(op, s.Family.String(), value) }, nil
	case "name":
		if op == "~=" {
			re, err := regexp.Compile(value)
			if err != nil {
				return nil, fmt.Errorf("filter: invalid regexp %q: %w", value, err)
			}
			return func(s *symbol.Symbol) bool { return re.MatchString(s.Identifier) }, nil
		}
		return func(s *symbol.Symbol) bool { return s.Identifier == value }, nil
	default:
		return nil, fmt.Errorf("filter: unknown key %q", key)
	}
}

func matchOp(op, got, want string) bool {
	if op == "~=" {
		matched, err := regexp.MatchString(want, got)
		return err == nil && matched
	}
	return got == want
}

// splitClause splits "key~=value" or "key=value" into its parts.
func splitClause(part string) (key, op, value string, err error) {
	if i := strings.Index(part, "~="); i >= 0 {
		return part[:i], "~=", part[i+2:], nil
	}
	if i := strings.Index(part, "="); i >= 0 {
		return part[:i], "=", part[i+1:], nil
	}
	return "", "", "", fmt.Errorf("filter: clause %q is missing `=`/`~=`", part)
}
